package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnPreview 归还前的罚金预览
type ReturnPreview struct {
	Loan        *loan.Listing
	AsOf        time.Time
	DaysOverdue int
	FinePerDay  decimal.Decimal
	Fine        decimal.Decimal
}

// ReturnRequest 归还请求
type ReturnRequest struct {
	Version uint // 客户端看到的版本号，0表示不校验
	loan.ReturnFields
}

// PreviewReturn 预览截至asOf（为空取当前时间）的逾期天数与罚金
func (uc *UseCase) PreviewReturn(ctx context.Context, id uint, asOf *time.Time) (*ReturnPreview, error) {
	l, err := uc.loans.FindListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsReturnable() {
		return nil, loan.ErrLoanNotReturnable
	}

	at := uc.now()
	if asOf != nil {
		at = *asOf
	}
	return &ReturnPreview{
		Loan:        l,
		AsOf:        at,
		DaysOverdue: loan.DaysOverdue(l.DueDate, at),
		FinePerDay:  uc.policy.FinePerDay,
		Fine:        l.PreviewFine(uc.policy, at),
	}, nil
}

// Return 归还
//
// 同一事务内：
//  1. 锁定借阅，只有Active/Overdue可归还
//  2. 版本号不一致返回冲突
//  3. 罚金默认按归还日期计算，管理员可覆盖（不能为负）
//  4. 标记Returned，归还副本（已达总副本数时不修改，只记日志）
func (uc *UseCase) Return(ctx context.Context, id uint, req ReturnRequest) (_ *loan.Listing, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "loan.Return")
	defer func() { tracing.Finish(span, err) }()
	defer observe("return", time.Now())

	now := uc.now()
	log := logger.FromContext(ctx)

	var returned *loan.Loan
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		l, err := uc.loans.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !l.IsReturnable() {
			return loan.ErrLoanNotReturnable
		}
		if req.Version != 0 && req.Version != l.Version {
			return apperrors.ErrVersionConflict
		}

		if err := l.Return(req.ReturnFields, uc.policy, now); err != nil {
			return err
		}
		if err := uc.loans.Update(ctx, l); err != nil {
			return err
		}

		if err := uc.releaseCopy(ctx, l); err != nil {
			return err
		}

		returned = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.LoansReturnedTotal)
	fine, _ := returned.FineAmount.Float64()
	metrics.AddCounter(metrics.FinesAssessedTotal, fine)
	log.Info("book returned", "loan_id", returned.ID, "book_id", returned.BookID,
		"fine", returned.FineAmount.StringFixed(2))
	uc.afterCommit(ctx, []uint{returned.BookID}, newEvent(EventReturned, returned, now))

	return uc.loans.FindListing(ctx, returned.ID)
}
