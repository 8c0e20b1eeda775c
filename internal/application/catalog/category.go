package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/pkg/logger"
)

// CategoryUseCase 分类管理用例
type CategoryUseCase struct {
	categories category.Service
	tx         application.TxManager
	cache      application.Cache
	pageSize   int
}

// NewCategoryUseCase 创建分类管理用例
func NewCategoryUseCase(categories category.Service, tx application.TxManager, cache application.Cache, pageSize int) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, tx: tx, cache: cache, pageSize: pageSize}
}

func (uc *CategoryUseCase) List(ctx context.Context, params category.ListParams) (*application.Page[*category.Detail], error) {
	params.Page = params.Page.Normalize(uc.pageSize)
	list, total, err := uc.categories.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return application.NewPage(list, total, params.Page), nil
}

func (uc *CategoryUseCase) Get(ctx context.Context, id uint) (*category.Detail, error) {
	return uc.categories.Get(ctx, id)
}

func (uc *CategoryUseCase) Create(ctx context.Context, f category.Fields) (*category.Detail, error) {
	c, err := uc.categories.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	uc.invalidateDashboard(ctx)
	return &category.Detail{Category: c}, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id, version uint, f category.Fields) (*category.Detail, error) {
	if _, err := uc.categories.Update(ctx, id, version, f); err != nil {
		return nil, err
	}
	uc.invalidateDashboard(ctx)
	return uc.categories.Get(ctx, id)
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		return uc.categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.invalidateDashboard(ctx)
	logger.FromContext(ctx).Info("category deleted", "category_id", id)
	return nil
}

// 看板按分类统计图书
func (uc *CategoryUseCase) invalidateDashboard(ctx context.Context) {
	if err := uc.cache.Delete(ctx, application.DashboardCacheKey); err != nil {
		logger.FromContext(ctx).Warn("dashboard cache invalidation failed", logger.Err(err))
	}
}
