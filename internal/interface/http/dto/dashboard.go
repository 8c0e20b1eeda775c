package dto

import (
	"github.com/xiebiao/library/internal/domain/dashboard"
)

// CategoryCountResponse 分类图书数
type CategoryCountResponse struct {
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	BookCount  int64  `json:"book_count"`
}

// DashboardResponse 首页统计
type DashboardResponse struct {
	TotalBooks       int64                   `json:"total_books"`
	TotalAuthors     int64                   `json:"total_authors"`
	TotalCustomers   int64                   `json:"total_customers"`
	TotalBranches    int64                   `json:"total_branches"`
	TotalCategories  int64                   `json:"total_categories"`
	TotalReviews     int64                   `json:"total_reviews"`
	ActiveLoans      int64                   `json:"active_loans"`
	OverdueLoans     int64                   `json:"overdue_loans"`
	AvailableCopies  int64                   `json:"available_copies"`
	RecentLoans      []LoanResponse          `json:"recent_loans"`
	NewestCustomers  []CustomerResponse      `json:"newest_customers"`
	BooksPerCategory []CategoryCountResponse `json:"books_per_category"`
}

// NewDashboard 组装首页统计
func NewDashboard(s *dashboard.Summary) DashboardResponse {
	customers := make([]CustomerResponse, 0, len(s.NewestCustomers))
	for _, c := range s.NewestCustomers {
		customers = append(customers, NewCustomer(c))
	}
	categories := make([]CategoryCountResponse, 0, len(s.BooksPerCategory))
	for _, c := range s.BooksPerCategory {
		categories = append(categories, CategoryCountResponse{CategoryID: c.CategoryID, Name: c.Name, BookCount: c.BookCount})
	}
	return DashboardResponse{
		TotalBooks:       s.TotalBooks,
		TotalAuthors:     s.TotalAuthors,
		TotalCustomers:   s.TotalCustomers,
		TotalBranches:    s.TotalBranches,
		TotalCategories:  s.TotalCategories,
		TotalReviews:     s.TotalReviews,
		ActiveLoans:      s.ActiveLoans,
		OverdueLoans:     s.OverdueLoans,
		AvailableCopies:  s.AvailableCopies,
		RecentLoans:      NewLoans(s.RecentLoans),
		NewestCustomers:  customers,
		BooksPerCategory: categories,
	}
}
