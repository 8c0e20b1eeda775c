package author

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Repository 作者仓储接口
type Repository interface {
	Create(ctx context.Context, a *Author) error
	FindByID(ctx context.Context, id uint) (*Author, error)

	// Update 带版本号更新（WHERE id = ? AND version = ?），成功后a.Version递增
	// 版本不匹配返回apperrors.ErrVersionConflict
	Update(ctx context.Context, a *Author) error

	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
}

// BookCounter 统计作者名下图书（由图书仓储实现）
type BookCounter interface {
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	shared.Page
	Keyword string // 匹配名、姓、国籍（不区分大小写）
	SortBy  string // name(默认) | name_desc | books | newest
}
