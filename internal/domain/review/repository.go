package review

import (
	"context"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Repository 书评仓储接口
type Repository interface {
	Create(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id uint) (*Review, error)
	FindListing(ctx context.Context, id uint) (*Listing, error)

	// ExistsForPair (图书, 读者)是否已有书评，excludeID用于编辑时排除自身
	ExistsForPair(ctx context.Context, bookID, customerID, excludeID uint) (bool, error)

	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams) ([]*Listing, int64, error)
	RecentByCustomer(ctx context.Context, customerID uint, limit int) ([]*Listing, error)
}

// ListParams 列表查询参数
type ListParams struct {
	shared.Page
	BookID     uint
	CustomerID uint
	Approved   *bool
	SortBy     string // newest(默认) | rating
}
