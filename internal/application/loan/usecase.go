// Package loan 借阅流程用例：借出、归还、逾期扫描、删除、查询
//
// 每个写操作都在一个事务内完成（锁行 → 校验 → 写借阅 → 改副本数），
// 事务提交后再做缓存失效、事件发布、指标上报，这些失败只记日志。
package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

const tracerName = "library/loan"

// Books 借阅流程需要的图书操作（由图书仓储实现）
type Books interface {
	LockByID(ctx context.Context, id uint) (*book.Book, error)
	ReserveCopy(ctx context.Context, id uint) error
	ReleaseCopy(ctx context.Context, id uint) (bool, error)
}

// Customers 读者存在性检查
type Customers interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// Branches 分馆存在性检查
type Branches interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// UseCase 借阅流程用例
type UseCase struct {
	loans     loan.Repository
	books     Books
	customers Customers
	branches  Branches
	tx        application.TxManager
	cache     application.Cache
	events    application.EventPublisher
	policy    loan.Policy
	pageSize  int
	now       func() time.Time
}

// NewUseCase 创建借阅流程用例
func NewUseCase(
	loans loan.Repository,
	books Books,
	customers Customers,
	branches Branches,
	tx application.TxManager,
	cache application.Cache,
	events application.EventPublisher,
	policy loan.Policy,
	pageSize int,
) *UseCase {
	return &UseCase{
		loans:     loans,
		books:     books,
		customers: customers,
		branches:  branches,
		tx:        tx,
		cache:     cache,
		events:    events,
		policy:    policy,
		pageSize:  pageSize,
		now:       time.Now,
	}
}

// Policy 当前借阅规则
func (uc *UseCase) Policy() loan.Policy {
	return uc.policy
}

// afterCommit 事务提交后的副作用：缓存失效 + 事件发布
func (uc *UseCase) afterCommit(ctx context.Context, bookIDs []uint, events ...Event) {
	log := logger.FromContext(ctx)

	keys := []string{application.DashboardCacheKey}
	for _, id := range bookIDs {
		keys = append(keys, application.BookDetailCacheKey(id))
	}
	if err := uc.cache.Delete(ctx, keys...); err != nil {
		log.Warn("cache invalidation failed", logger.Err(err))
	}

	for _, e := range events {
		if err := uc.events.Publish(ctx, e.Type, e); err != nil {
			log.Warn("loan event publish failed", "event", e.Type, "loan_id", e.LoanID, logger.Err(err))
		}
	}
}

// releaseCopy 锁定图书行，由实体判断能否归还副本，再用条件更新落库
// 已达总副本数时（管理员手工改过副本数）跳过，只记日志
func (uc *UseCase) releaseCopy(ctx context.Context, l *loan.Loan) error {
	b, err := uc.books.LockByID(ctx, l.BookID)
	if err != nil {
		return err
	}
	released := b.ReleaseCopy()
	if released {
		if released, err = uc.books.ReleaseCopy(ctx, l.BookID); err != nil {
			return err
		}
	}
	if !released {
		logger.FromContext(ctx).Warn("book already at total copies, release skipped",
			"loan_id", l.ID, "book_id", l.BookID)
	}
	return nil
}

func observe(operation string, start time.Time) {
	metrics.ObserveHistogramVec(metrics.LoanOperationDuration,
		map[string]string{"operation": operation}, time.Since(start).Seconds())
}
