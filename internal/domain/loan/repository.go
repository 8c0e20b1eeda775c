package loan

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Repository 借阅仓储接口
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	FindByID(ctx context.Context, id uint) (*Loan, error)
	FindListing(ctx context.Context, id uint) (*Listing, error)

	// LockByID 悲观锁查询，必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Loan, error)

	// Update 带版本号更新，成功后l.Version递增
	Update(ctx context.Context, l *Loan) error

	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams) ([]*Listing, int64, error)

	// HasOverdue 读者是否有Overdue状态的借阅
	HasOverdue(ctx context.Context, customerID uint) (bool, error)

	// LockActiveDueBefore 锁定所有应还日期早于t的Active借阅（逾期扫描）
	LockActiveDueBefore(ctx context.Context, t time.Time) ([]*Loan, error)

	// RecentByCustomer 读者最近的借阅
	RecentByCustomer(ctx context.Context, customerID uint, limit int) ([]*Listing, error)

	CountHoldingByBook(ctx context.Context, bookID uint) (int64, error)
	CountHoldingByBranch(ctx context.Context, branchID uint) (int64, error)
	CountHoldingByCustomer(ctx context.Context, customerID uint) (int64, error)
	CountByBook(ctx context.Context, bookID uint) (int64, error)
	CountByCustomer(ctx context.Context, customerID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	shared.Page
	Keyword    string // 匹配书名、读者姓名
	Status     Status // 0表示不过滤
	CustomerID uint
	BookID     uint
	SortBy     string // loan_date_desc(默认) | due_date | due_date_desc
}
