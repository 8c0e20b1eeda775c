package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// OverdueResult 逾期扫描结果
type OverdueResult struct {
	Marked  int
	LoanIDs []uint
}

// MarkOverdue 逾期扫描
// 同一事务内锁定应还日期已过的Active借阅，逐条标记Overdue并计算截至当前的罚金
func (uc *UseCase) MarkOverdue(ctx context.Context) (_ *OverdueResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "loan.MarkOverdue")
	defer func() { tracing.Finish(span, err) }()
	defer observe("mark_overdue", time.Now())

	now := uc.now()
	var marked []*loan.Loan
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		due, err := uc.loans.LockActiveDueBefore(ctx, now)
		if err != nil {
			return err
		}
		for _, l := range due {
			if err := l.MarkOverdue(uc.policy, now); err != nil {
				return err
			}
			if err := uc.loans.Update(ctx, l); err != nil {
				return err
			}
		}
		marked = due
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &OverdueResult{Marked: len(marked), LoanIDs: make([]uint, 0, len(marked))}
	events := make([]Event, 0, len(marked))
	for _, l := range marked {
		result.LoanIDs = append(result.LoanIDs, l.ID)
		events = append(events, newEvent(EventOverdueMarked, l, now))
	}

	metrics.AddCounter(metrics.LoansMarkedOverdueTotal, float64(len(marked)))
	logger.FromContext(ctx).Info("overdue sweep finished", "marked", len(marked))
	if len(marked) > 0 {
		uc.afterCommit(ctx, nil, events...)
	}
	return result, nil
}
