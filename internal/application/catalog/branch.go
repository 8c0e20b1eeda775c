package catalog

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/branch"
	"github.com/xiebiao/library/pkg/logger"
)

// BranchUseCase 分馆管理用例
type BranchUseCase struct {
	branches branch.Service
	tx       application.TxManager
	pageSize int
}

// NewBranchUseCase 创建分馆管理用例
func NewBranchUseCase(branches branch.Service, tx application.TxManager, pageSize int) *BranchUseCase {
	return &BranchUseCase{branches: branches, tx: tx, pageSize: pageSize}
}

func (uc *BranchUseCase) List(ctx context.Context, params branch.ListParams) (*application.Page[*branch.Detail], error) {
	params.Page = params.Page.Normalize(uc.pageSize)
	list, total, err := uc.branches.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return application.NewPage(list, total, params.Page), nil
}

func (uc *BranchUseCase) Get(ctx context.Context, id uint) (*branch.Detail, error) {
	return uc.branches.Get(ctx, id)
}

func (uc *BranchUseCase) Create(ctx context.Context, f branch.Fields) (*branch.Detail, error) {
	b, err := uc.branches.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("branch created", "branch_id", b.ID)
	return &branch.Detail{Branch: b}, nil
}

func (uc *BranchUseCase) Update(ctx context.Context, id, version uint, f branch.Fields) (*branch.Detail, error) {
	if _, err := uc.branches.Update(ctx, id, version, f); err != nil {
		return nil, err
	}
	return uc.branches.Get(ctx, id)
}

// Delete 删除分馆
// 检查、置空引用、删除在同一事务内完成
func (uc *BranchUseCase) Delete(ctx context.Context, id uint) error {
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		return uc.branches.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("branch deleted", "branch_id", id)
	return nil
}
