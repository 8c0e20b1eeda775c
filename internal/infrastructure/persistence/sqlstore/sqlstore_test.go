package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/branch"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/customer"
	"github.com/xiebiao/library/internal/domain/loan"
)

// newTestDB 每个测试一个独立的SQLite文件库，开启外键
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "library.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

type fixture struct {
	db        *gorm.DB
	authors   *AuthorRepository
	cats      *CategoryRepository
	branches  *BranchRepository
	books     *BookRepository
	customers *CustomerRepository
	loans     *LoanRepository
	reviews   *ReviewRepository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:        db,
		authors:   NewAuthorRepository(db),
		cats:      NewCategoryRepository(db),
		branches:  NewBranchRepository(db),
		books:     NewBookRepository(db),
		customers: NewCustomerRepository(db),
		loans:     NewLoanRepository(db),
		reviews:   NewReviewRepository(db),
	}
}

func (f *fixture) author(t *testing.T, first, last string) *author.Author {
	t.Helper()
	a := author.NewAuthor(author.Fields{FirstName: first, LastName: last, IsActive: true})
	require.NoError(t, f.authors.Create(context.Background(), a))
	return a
}

func (f *fixture) category(t *testing.T, name string) *category.Category {
	t.Helper()
	c := category.NewCategory(category.Fields{Name: name, IsActive: true})
	require.NoError(t, f.cats.Create(context.Background(), c))
	return c
}

func (f *fixture) branch(t *testing.T, name string) *branch.Branch {
	t.Helper()
	b := branch.NewBranch(branch.Fields{Name: name, Address: "1 Main St", City: "Springfield", IsActive: true})
	require.NoError(t, f.branches.Create(context.Background(), b))
	return b
}

func (f *fixture) book(t *testing.T, title, isbn string, authorID uint, available, total int) *book.Book {
	t.Helper()
	price := decimal.RequireFromString("19.99")
	b := book.NewBook(book.Fields{
		Title:           title,
		ISBN:            isbn,
		AuthorID:        authorID,
		Price:           &price,
		AvailableCopies: available,
		TotalCopies:     total,
	})
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *fixture) customer(t *testing.T, first, email, card string) *customer.Customer {
	t.Helper()
	c := customer.NewCustomer(customer.Fields{FirstName: first, LastName: "Reader", Email: email, IsActiveMember: true}, card)
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *fixture) loan(t *testing.T, bookID, customerID uint, branchID *uint, loanDate, dueDate time.Time) *loan.Loan {
	t.Helper()
	l, err := loan.NewLoan(loan.CheckoutFields{
		BookID:     bookID,
		CustomerID: customerID,
		BranchID:   branchID,
		LoanDate:   &loanDate,
		DueDate:    &dueDate,
	}, loan.DefaultPolicy(), loanDate)
	require.NoError(t, err)
	require.NoError(t, f.loans.Create(context.Background(), l))
	return l
}
