package dashboard

import (
	"context"

	"github.com/xiebiao/library/internal/domain/customer"
	"github.com/xiebiao/library/internal/domain/loan"
)

// Summary 首页看板数据
type Summary struct {
	TotalBooks      int64
	TotalAuthors    int64
	TotalCustomers  int64
	TotalBranches   int64
	TotalCategories int64
	TotalReviews    int64
	ActiveLoans     int64
	OverdueLoans    int64
	AvailableCopies int64

	RecentLoans      []*loan.Listing
	NewestCustomers  []*customer.Customer
	BooksPerCategory []CategoryCount
}

// CategoryCount 分类下的图书数量
type CategoryCount struct {
	CategoryID uint
	Name       string
	BookCount  int64
}

// Reader 看板统计查询
type Reader interface {
	Summary(ctx context.Context, recent int) (*Summary, error)
}
