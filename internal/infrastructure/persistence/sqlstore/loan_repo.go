package sqlstore

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 占用副本的状态：Active、Overdue
var holdingStatuses = []int{int(loan.StatusActive), int(loan.StatusOverdue)}

const loanListingColumns = "book_loans.*, books.title AS book_title, books.isbn AS book_isbn, " +
	"customers.first_name AS customer_first_name, customers.last_name AS customer_last_name, " +
	"customers.library_card_number AS library_card_number, library_branches.name AS branch_name"

// LoanRepository 借阅仓储
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

var _ loan.Repository = (*LoanRepository)(nil)

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := fromLoan(l)
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建借阅失败")
	}
	l.ID = model.ID
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, findErr(err, loan.ErrLoanNotFound, "查询借阅失败")
	}
	return toLoan(&model), nil
}

type loanRow struct {
	LoanModel         `gorm:"embedded"`
	BookTitle         string
	BookISBN          string `gorm:"column:book_isbn"`
	CustomerFirstName string
	CustomerLastName  string
	LibraryCardNumber string
	BranchName        string
}

func (r *LoanRepository) listingQuery(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Model(&LoanModel{}).
		Joins("LEFT JOIN books ON books.id = book_loans.book_id").
		Joins("LEFT JOIN customers ON customers.id = book_loans.customer_id").
		Joins("LEFT JOIN library_branches ON library_branches.id = book_loans.library_branch_id")
}

func (r *LoanRepository) FindListing(ctx context.Context, id uint) (*loan.Listing, error) {
	var rows []loanRow
	err := r.listingQuery(ctx).Select(loanListingColumns).Where("book_loans.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询借阅详情失败")
	}
	if len(rows) == 0 {
		return nil, loan.ErrLoanNotFound
	}
	return rows[0].toListing(), nil
}

// LockByID 悲观锁查询借阅
func (r *LoanRepository) LockByID(ctx context.Context, id uint) (*loan.Loan, error) {
	var model LoanModel
	if err := forUpdate(conn(ctx, r.db)).First(&model, id).Error; err != nil {
		return nil, findErr(err, loan.ErrLoanNotFound, "锁定借阅失败")
	}
	return toLoan(&model), nil
}

func (r *LoanRepository) Update(ctx context.Context, l *loan.Loan) error {
	err := versionedUpdate(conn(ctx, r.db), &LoanModel{}, l.ID, l.Version, map[string]interface{}{
		"return_date":   l.ReturnDate,
		"due_date":      l.DueDate,
		"status":        int(l.Status),
		"fine_amount":   l.FineAmount,
		"fine_paid":     l.FinePaid,
		"notes":         l.Notes,
		"renewed_count": l.RenewedCount,
		"updated_at":    l.UpdatedAt,
	}, loan.ErrLoanNotFound)
	if err != nil {
		return err
	}
	l.Version++
	return nil
}

func (r *LoanRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&LoanModel{}, id)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除借阅失败")
	}
	if result.RowsAffected == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}

func (r *LoanRepository) List(ctx context.Context, params loan.ListParams) ([]*loan.Listing, int64, error) {
	query := r.listingQuery(ctx)

	// 1. 过滤
	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(books.title) LIKE ? ESCAPE '!' OR LOWER(customers.first_name) LIKE ? ESCAPE '!' OR LOWER(customers.last_name) LIKE ? ESCAPE '!'",
			kw, kw, kw)
	}
	if params.Status != 0 {
		query = query.Where("book_loans.status = ?", int(params.Status))
	}
	if params.CustomerID > 0 {
		query = query.Where("book_loans.customer_id = ?", params.CustomerID)
	}
	if params.BookID > 0 {
		query = query.Where("book_loans.book_id = ?", params.BookID)
	}
	query = query.Session(&gorm.Session{})

	// 2. 总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询借阅总数失败")
	}

	// 3. 排序分页
	switch params.SortBy {
	case "due_date":
		query = query.Order("book_loans.due_date ASC")
	case "due_date_desc":
		query = query.Order("book_loans.due_date DESC")
	default:
		query = query.Order("book_loans.loan_date DESC").Order("book_loans.id DESC")
	}

	var rows []loanRow
	if err := query.Select(loanListingColumns).Limit(params.PageSize).Offset(params.Offset()).Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询借阅列表失败")
	}
	return loanListings(rows), total, nil
}

func (r *LoanRepository) HasOverdue(ctx context.Context, customerID uint) (bool, error) {
	n, err := count(conn(ctx, r.db), &LoanModel{}, "customer_id = ? AND status = ?", customerID, int(loan.StatusOverdue))
	return n > 0, err
}

// LockActiveDueBefore 锁定应还日期早于t的Active借阅
func (r *LoanRepository) LockActiveDueBefore(ctx context.Context, t time.Time) ([]*loan.Loan, error) {
	var models []LoanModel
	err := forUpdate(conn(ctx, r.db)).
		Where("status = ? AND due_date < ?", int(loan.StatusActive), t).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询到期借阅失败")
	}

	loans := make([]*loan.Loan, len(models))
	for i := range models {
		loans[i] = toLoan(&models[i])
	}
	return loans, nil
}

func (r *LoanRepository) RecentByCustomer(ctx context.Context, customerID uint, limit int) ([]*loan.Listing, error) {
	var rows []loanRow
	err := r.listingQuery(ctx).Select(loanListingColumns).
		Where("book_loans.customer_id = ?", customerID).
		Order("book_loans.loan_date DESC").Order("book_loans.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询读者借阅失败")
	}
	return loanListings(rows), nil
}

// Recent 最近的借阅（看板）
func (r *LoanRepository) Recent(ctx context.Context, limit int) ([]*loan.Listing, error) {
	var rows []loanRow
	err := r.listingQuery(ctx).Select(loanListingColumns).
		Order("book_loans.loan_date DESC").Order("book_loans.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询最近借阅失败")
	}
	return loanListings(rows), nil
}

func (r *LoanRepository) CountHoldingByBook(ctx context.Context, bookID uint) (int64, error) {
	return count(conn(ctx, r.db), &LoanModel{}, "book_id = ? AND status IN ?", bookID, holdingStatuses)
}

func (r *LoanRepository) CountHoldingByBranch(ctx context.Context, branchID uint) (int64, error) {
	return count(conn(ctx, r.db), &LoanModel{}, "library_branch_id = ? AND status IN ?", branchID, holdingStatuses)
}

func (r *LoanRepository) CountHoldingByCustomer(ctx context.Context, customerID uint) (int64, error) {
	return count(conn(ctx, r.db), &LoanModel{}, "customer_id = ? AND status IN ?", customerID, holdingStatuses)
}

func (r *LoanRepository) CountByBook(ctx context.Context, bookID uint) (int64, error) {
	return count(conn(ctx, r.db), &LoanModel{}, "book_id = ?", bookID)
}

func (r *LoanRepository) CountByCustomer(ctx context.Context, customerID uint) (int64, error) {
	return count(conn(ctx, r.db), &LoanModel{}, "customer_id = ?", customerID)
}

// forUpdate 追加FOR UPDATE，SQLite没有行锁，事务本身串行化写入
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func loanListings(rows []loanRow) []*loan.Listing {
	list := make([]*loan.Listing, len(rows))
	for i := range rows {
		list[i] = rows[i].toListing()
	}
	return list
}

func (row *loanRow) toListing() *loan.Listing {
	return &loan.Listing{
		Loan:              toLoan(&row.LoanModel),
		BookTitle:         row.BookTitle,
		BookISBN:          row.BookISBN,
		CustomerName:      strings.TrimSpace(row.CustomerFirstName + " " + row.CustomerLastName),
		LibraryCardNumber: row.LibraryCardNumber,
		BranchName:        row.BranchName,
	}
}

func fromLoan(l *loan.Loan) *LoanModel {
	return &LoanModel{
		ID:           l.ID,
		BookID:       l.BookID,
		CustomerID:   l.CustomerID,
		BranchID:     l.BranchID,
		LoanDate:     l.LoanDate,
		DueDate:      l.DueDate,
		ReturnDate:   l.ReturnDate,
		Status:       int(l.Status),
		FineAmount:   l.FineAmount,
		FinePaid:     l.FinePaid,
		Notes:        l.Notes,
		RenewedCount: l.RenewedCount,
		Version:      l.Version,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toLoan(m *LoanModel) *loan.Loan {
	return &loan.Loan{
		ID:           m.ID,
		BookID:       m.BookID,
		CustomerID:   m.CustomerID,
		BranchID:     m.BranchID,
		LoanDate:     m.LoanDate,
		DueDate:      m.DueDate,
		ReturnDate:   m.ReturnDate,
		Status:       loan.Status(m.Status),
		FineAmount:   m.FineAmount,
		FinePaid:     m.FinePaid,
		Notes:        m.Notes,
		RenewedCount: m.RenewedCount,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
