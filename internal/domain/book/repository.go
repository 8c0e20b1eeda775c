package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Repository 图书仓储接口
type Repository interface {
	Create(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindDetail 查询图书及作者、分类、分馆名称
	FindDetail(ctx context.Context, id uint) (*Detail, error)

	// ExistsByISBN ISBN是否已被占用，excludeID用于编辑时排除自身
	ExistsByISBN(ctx context.Context, isbn string, excludeID uint) (bool, error)

	// Update 带版本号更新
	Update(ctx context.Context, b *Book) error

	// Delete 删除图书（书评级联删除）
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)

	// LockByID 悲观锁查询（SELECT ... FOR UPDATE），必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// ReserveCopy 原子扣减可借副本（WHERE available_copies > 0）
	// 没有可借副本返回ErrNoAvailableCopies
	ReserveCopy(ctx context.Context, id uint) error

	// ReleaseCopy 原子归还副本（WHERE available_copies < total_copies）
	// 已达总副本数时不修改，返回false
	ReleaseCopy(ctx context.Context, id uint) (bool, error)

	Exists(ctx context.Context, id uint) (bool, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	CountByBranch(ctx context.Context, branchID uint) (int64, error)
}

// LoanCounter 统计图书相关借阅（由借阅仓储实现）
type LoanCounter interface {
	CountHoldingByBook(ctx context.Context, bookID uint) (int64, error)
	CountByBook(ctx context.Context, bookID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	shared.Page
	Keyword       string // 匹配书名、ISBN、作者姓名
	AuthorID      uint
	CategoryID    uint
	BranchID      uint
	AvailableOnly bool
	SortBy        string // title(默认) | title_desc | newest | available
}
