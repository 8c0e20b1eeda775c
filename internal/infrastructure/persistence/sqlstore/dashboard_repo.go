package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/dashboard"
	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DashboardReader 看板统计
type DashboardReader struct {
	db    *gorm.DB
	loans *LoanRepository
}

// NewDashboardReader 创建看板统计查询
func NewDashboardReader(db *gorm.DB) *DashboardReader {
	return &DashboardReader{db: db, loans: NewLoanRepository(db)}
}

var _ dashboard.Reader = (*DashboardReader)(nil)

// Summary 汇总统计，recent控制最近借阅、最新读者的条数
func (r *DashboardReader) Summary(ctx context.Context, recent int) (*dashboard.Summary, error) {
	db := conn(ctx, r.db)
	s := &dashboard.Summary{}

	// 1. 各表总数
	totals := []struct {
		model interface{}
		dst   *int64
	}{
		{&BookModel{}, &s.TotalBooks},
		{&AuthorModel{}, &s.TotalAuthors},
		{&CustomerModel{}, &s.TotalCustomers},
		{&BranchModel{}, &s.TotalBranches},
		{&CategoryModel{}, &s.TotalCategories},
		{&ReviewModel{}, &s.TotalReviews},
	}
	for _, t := range totals {
		if err := db.Model(t.model).Count(t.dst).Error; err != nil {
			return nil, apperrors.WrapDB(err, "统计总数失败")
		}
	}

	// 2. 借阅状态
	var err error
	if s.ActiveLoans, err = count(db, &LoanModel{}, "status = ?", int(loan.StatusActive)); err != nil {
		return nil, err
	}
	if s.OverdueLoans, err = count(db, &LoanModel{}, "status = ?", int(loan.StatusOverdue)); err != nil {
		return nil, err
	}

	// 3. 可借副本总数
	if err := db.Model(&BookModel{}).Select("COALESCE(SUM(available_copies), 0)").Scan(&s.AvailableCopies).Error; err != nil {
		return nil, apperrors.WrapDB(err, "统计可借副本失败")
	}

	// 4. 最近借阅、最新读者
	if s.RecentLoans, err = r.loans.Recent(ctx, recent); err != nil {
		return nil, err
	}
	var customers []CustomerModel
	if err := db.Order("membership_date DESC").Order("id DESC").Limit(recent).Find(&customers).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询最新读者失败")
	}
	for i := range customers {
		s.NewestCustomers = append(s.NewestCustomers, toCustomer(&customers[i]))
	}

	// 5. 分类图书数
	if s.BooksPerCategory, err = r.booksPerCategory(db); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *DashboardReader) booksPerCategory(db *gorm.DB) ([]dashboard.CategoryCount, error) {
	var rows []struct {
		ID        uint
		Name      string
		BookCount int64
	}
	err := db.Model(&CategoryModel{}).
		Select("categories.id, categories.name, " + categoryBookCount + " AS book_count").
		Order("categories.display_order ASC").Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "统计分类图书失败")
	}

	out := make([]dashboard.CategoryCount, len(rows))
	for i, row := range rows {
		out[i] = dashboard.CategoryCount{CategoryID: row.ID, Name: row.Name, BookCount: row.BookCount}
	}
	return out, nil
}
