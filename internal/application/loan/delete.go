package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// Delete 删除借阅
// 任何状态都可删除；占用副本的借阅（Active/Overdue）先归还副本
func (uc *UseCase) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "loan.Delete")
	defer func() { tracing.Finish(span, err) }()
	defer observe("delete", time.Now())

	log := logger.FromContext(ctx)
	var deleted *loan.Loan
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		l, err := uc.loans.LockByID(ctx, id)
		if err != nil {
			return err
		}
		// Overdue同样占用副本，删除时一并归还（见DESIGN.md第2节第5条）
		if l.HoldsCopy() {
			if err := uc.releaseCopy(ctx, l); err != nil {
				return err
			}
		}
		if err := uc.loans.Delete(ctx, id); err != nil {
			return err
		}
		deleted = l
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("loan deleted", "loan_id", id, "status", deleted.Status.String())
	uc.afterCommit(ctx, []uint{deleted.BookID}, newEvent(EventDeleted, deleted, uc.now()))
	return nil
}
