package branch

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Repository 分馆仓储接口
type Repository interface {
	Create(ctx context.Context, b *Branch) error
	FindByID(ctx context.Context, id uint) (*Branch, error)
	Update(ctx context.Context, b *Branch) error

	// Delete 删除分馆，同一事务内将读者首选分馆、借阅所属分馆置空
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
}

// BookCounter 统计分馆馆藏图书
type BookCounter interface {
	CountByBranch(ctx context.Context, branchID uint) (int64, error)
}

// LoanCounter 统计分馆仍占用副本的借阅（Active/Overdue）
type LoanCounter interface {
	CountHoldingByBranch(ctx context.Context, branchID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	shared.Page
	Keyword    string // 匹配名称、城市、地址
	ActiveOnly bool
	SortBy     string // name(默认) | name_desc | city | books | newest
}
