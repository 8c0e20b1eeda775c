package category

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Repository 分类仓储接口
type Repository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)

	// ExistsByName 名称是否已被占用（不区分大小写），excludeID用于编辑时排除自身
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)

	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
}

// BookCounter 统计分类下的图书
type BookCounter interface {
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	shared.Page
	Keyword    string // 匹配名称、描述
	ActiveOnly bool
	SortBy     string // display_order(默认) | name | name_desc
}
