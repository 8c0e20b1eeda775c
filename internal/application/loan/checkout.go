package loan

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/customer"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// Checkout 借出
//
// 同一事务内：
//  1. 锁定图书行（SELECT ... FOR UPDATE），图书不存在直接返回
//  2. 读者必须存在；填写了分馆时分馆必须存在
//  3. 没有可借副本 → book_id字段错误
//  4. 开启逾期禁借且读者有逾期借阅 → customer_id字段错误
//  5. 创建Active借阅（默认借书日期为今天，应还日期为借书日期+默认借期）
//  6. 条件扣减可借副本
func (uc *UseCase) Checkout(ctx context.Context, f loan.CheckoutFields) (_ *loan.Listing, err error) {
	start := uc.now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "loan.Checkout")
	defer func() { tracing.Finish(span, err) }()
	defer observe("checkout", time.Now())

	if err := f.Validate(); err != nil {
		return nil, err
	}

	var created *loan.Loan
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		// 1. 锁定图书
		b, err := uc.books.LockByID(ctx, f.BookID)
		if err != nil {
			return err
		}

		// 2. 读者、分馆
		ok, err := uc.customers.Exists(ctx, f.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return customer.ErrCustomerNotFound
		}
		if f.BranchID != nil {
			ok, err := uc.branches.Exists(ctx, *f.BranchID)
			if err != nil {
				return err
			}
			if !ok {
				return loan.ErrBranchNotFound
			}
		}

		// 3. 可借副本（由锁定的图书实体判断）
		if err := b.ReserveCopy(); err != nil {
			return rejectCheckout("no_copies", loan.ErrNoAvailableCopies)
		}

		// 4. 逾期禁借
		if uc.policy.OverdueLockout {
			overdue, err := uc.loans.HasOverdue(ctx, f.CustomerID)
			if err != nil {
				return err
			}
			if overdue {
				return rejectCheckout("overdue_lockout", loan.ErrCustomerHasOverdue)
			}
		}

		// 5. 创建借阅
		l, err := loan.NewLoan(f, uc.policy, start)
		if err != nil {
			return err
		}
		if err := uc.loans.Create(ctx, l); err != nil {
			return err
		}

		// 6. 扣减副本落库，条件更新兜底
		if err := uc.books.ReserveCopy(ctx, f.BookID); err != nil {
			if errors.Is(err, book.ErrNoAvailableCopies) {
				return rejectCheckout("no_copies", loan.ErrNoAvailableCopies)
			}
			return err
		}

		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.LoansCheckedOutTotal)
	logger.FromContext(ctx).Info("book checked out",
		"loan_id", created.ID, "book_id", created.BookID, "customer_id", created.CustomerID,
		"due_date", created.DueDate.Format(time.DateOnly))
	uc.afterCommit(ctx, []uint{created.BookID}, newEvent(EventCheckedOut, created, start))

	return uc.loans.FindListing(ctx, created.ID)
}

func rejectCheckout(reason string, err error) error {
	metrics.IncCounterVec(metrics.CheckoutRejectionsTotal, map[string]string{"reason": reason})
	return err
}
