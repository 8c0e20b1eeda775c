package customer

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Repository 读者仓储接口
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id uint) (*Customer, error)
	FindDetail(ctx context.Context, id uint) (*Detail, error)

	// ExistsByEmail 邮箱是否被占用（不区分大小写），excludeID用于编辑时排除自身
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	ExistsByCardNumber(ctx context.Context, card string, excludeID uint) (bool, error)

	// MaxCardSequence 返回给定前缀下最大的借书证序号，没有时返回0
	MaxCardSequence(ctx context.Context, prefix string) (int, error)

	Update(ctx context.Context, c *Customer) error

	// Delete 删除读者（书评级联删除）
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Detail, int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// LoanCounter 统计读者借阅
type LoanCounter interface {
	CountHoldingByCustomer(ctx context.Context, customerID uint) (int64, error)
	CountByCustomer(ctx context.Context, customerID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	shared.Page
	Keyword    string // 匹配姓名、邮箱、借书证号
	ActiveOnly bool
	SortBy     string // name(默认) | name_desc | email | newest | oldest
}
