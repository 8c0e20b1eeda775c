// Package customer 读者管理用例
package customer

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/customer"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/review"
	"github.com/xiebiao/library/pkg/logger"
)

// 读者详情页展示的最近借阅、书评条数
const recentLimit = 10

// RecentLoans 读者最近的借阅
type RecentLoans interface {
	RecentByCustomer(ctx context.Context, customerID uint, limit int) ([]*loan.Listing, error)
}

// RecentReviews 读者最近的书评
type RecentReviews interface {
	RecentByCustomer(ctx context.Context, customerID uint, limit int) ([]*review.Listing, error)
}

// Profile 读者详情 + 最近借阅 + 书评
type Profile struct {
	*customer.Detail
	RecentLoans []*loan.Listing
	Reviews     []*review.Listing
}

// UseCase 读者管理用例
type UseCase struct {
	customers customer.Service
	loans     RecentLoans
	reviews   RecentReviews
	tx        application.TxManager
	cache     application.Cache
	pageSize  int
}

// NewUseCase 创建读者管理用例
func NewUseCase(
	customers customer.Service,
	loans RecentLoans,
	reviews RecentReviews,
	tx application.TxManager,
	cache application.Cache,
	pageSize int,
) *UseCase {
	return &UseCase{
		customers: customers,
		loans:     loans,
		reviews:   reviews,
		tx:        tx,
		cache:     cache,
		pageSize:  pageSize,
	}
}

func (uc *UseCase) List(ctx context.Context, params customer.ListParams) (*application.Page[*customer.Detail], error) {
	params.Page = params.Page.Normalize(uc.pageSize)
	list, total, err := uc.customers.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return application.NewPage(list, total, params.Page), nil
}

// Get 读者详情
func (uc *UseCase) Get(ctx context.Context, id uint) (*Profile, error) {
	d, err := uc.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	loans, err := uc.loans.RecentByCustomer(ctx, id, recentLimit)
	if err != nil {
		return nil, err
	}
	reviews, err := uc.reviews.RecentByCustomer(ctx, id, recentLimit)
	if err != nil {
		return nil, err
	}
	return &Profile{Detail: d, RecentLoans: loans, Reviews: reviews}, nil
}

func (uc *UseCase) Create(ctx context.Context, f customer.Fields) (*customer.Detail, error) {
	c, err := uc.customers.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	uc.invalidateDashboard(ctx)
	logger.FromContext(ctx).Info("customer registered", "customer_id", c.ID, "card", c.LibraryCardNumber)
	return uc.customers.Get(ctx, c.ID)
}

func (uc *UseCase) Update(ctx context.Context, id, version uint, f customer.Fields) (*customer.Detail, error) {
	if _, err := uc.customers.Update(ctx, id, version, f); err != nil {
		return nil, err
	}
	uc.invalidateDashboard(ctx)
	return uc.customers.Get(ctx, id)
}

func (uc *UseCase) Delete(ctx context.Context, id uint) error {
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		return uc.customers.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.invalidateDashboard(ctx)
	logger.FromContext(ctx).Info("customer deleted", "customer_id", id)
	return nil
}

func (uc *UseCase) invalidateDashboard(ctx context.Context) {
	if err := uc.cache.Delete(ctx, application.DashboardCacheKey); err != nil {
		logger.FromContext(ctx).Warn("dashboard cache invalidation failed", logger.Err(err))
	}
}
