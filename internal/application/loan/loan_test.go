package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/customer"
	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc     *UseCase
	loans  *fakeLoans
	books  *fakeBooks
	cache  *recordingCache
	events *recordingPublisher
	tx     *fakeTx
}

func newFixture(t *testing.T, policy loan.Policy) *fixture {
	t.Helper()
	f := &fixture{
		loans: newFakeLoans(),
		books: &fakeBooks{books: map[uint]*book.Book{
			1: {ID: 1, Title: "Dune", AvailableCopies: 2, TotalCopies: 2},
			2: {ID: 2, Title: "Emma", AvailableCopies: 0, TotalCopies: 1},
		}},
		cache:  &recordingCache{},
		events: &recordingPublisher{},
		tx:     &fakeTx{},
	}
	f.uc = NewUseCase(f.loans, f.books, fakeExister{7: true, 8: true}, fakeExister{3: true},
		f.tx, f.cache, f.events, policy, 20)
	f.uc.now = func() time.Time { return now }
	return f
}

func (f *fixture) seed(bookID, customerID uint, status loan.Status, due time.Time) *loan.Loan {
	return f.loans.put(&loan.Loan{
		BookID:     bookID,
		CustomerID: customerID,
		LoanDate:   due.AddDate(0, 0, -14),
		DueDate:    due,
		Status:     status,
		FineAmount: decimal.Zero,
	})
}

func TestCheckout_DefaultsAndReservesCopy(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	branch := uint(3)

	got, err := f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 1, CustomerID: 7, BranchID: &branch})
	require.NoError(t, err)

	assert.Equal(t, loan.StatusActive, got.Status)
	assert.Equal(t, now, got.LoanDate)
	assert.Equal(t, now.AddDate(0, 0, 14), got.DueDate)
	assert.Equal(t, 1, f.books.available(1))
	assert.Equal(t, []string{EventCheckedOut}, f.events.types())
	assert.ElementsMatch(t, []string{application.DashboardCacheKey, application.BookDetailCacheKey(1)}, f.cache.deleted)
}

func TestCheckout_NoCopies(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())

	_, err := f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 2, CustomerID: 7})

	assert.ErrorIs(t, err, loan.ErrNoAvailableCopies)
	fields := apperrors.GetAppError(err).Fields
	require.Len(t, fields, 1)
	assert.Equal(t, "book_id", fields[0].Field)
	assert.Empty(t, f.events.events)
	assert.Zero(t, f.books.reserves, "锁定的图书实体已拒绝，不再落库")
}

func TestCheckout_LastCopyThenRejected(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	f.books.books[1].AvailableCopies = 1

	_, err := f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 1, CustomerID: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, f.books.available(1))

	_, err = f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 1, CustomerID: 8})
	assert.ErrorIs(t, err, loan.ErrNoAvailableCopies)
	assert.Equal(t, 0, f.books.available(1))
	assert.Equal(t, 1, f.books.reserves)
}

func TestCheckout_OverdueLockout(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	f.seed(2, 7, loan.StatusOverdue, now.AddDate(0, 0, -3))

	_, err := f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 1, CustomerID: 7})
	assert.ErrorIs(t, err, loan.ErrCustomerHasOverdue)
	assert.Equal(t, 2, f.books.available(1))

	// 其他读者不受影响
	_, err = f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 1, CustomerID: 8})
	assert.NoError(t, err)
}

func TestCheckout_LockoutDisabled(t *testing.T) {
	policy := loan.DefaultPolicy()
	policy.OverdueLockout = false
	f := newFixture(t, policy)
	f.seed(2, 7, loan.StatusOverdue, now.AddDate(0, 0, -3))

	_, err := f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 1, CustomerID: 7})
	assert.NoError(t, err)
}

func TestCheckout_MissingReferences(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	missingBranch := uint(99)

	tests := []struct {
		name   string
		fields loan.CheckoutFields
		want   error
	}{
		{"book", loan.CheckoutFields{BookID: 42, CustomerID: 7}, book.ErrBookNotFound},
		{"customer", loan.CheckoutFields{BookID: 1, CustomerID: 42}, customer.ErrCustomerNotFound},
		{"branch", loan.CheckoutFields{BookID: 1, CustomerID: 7, BranchID: &missingBranch}, loan.ErrBranchNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Checkout(context.Background(), tt.fields)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 2, f.books.available(1))
}

func TestCheckout_ValidationBeforeTransaction(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())

	_, err := f.uc.Checkout(context.Background(), loan.CheckoutFields{})

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	assert.Zero(t, f.tx.calls)
}

func TestPreviewReturn(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	l := f.seed(1, 7, loan.StatusActive, now.AddDate(0, 0, -4))

	p, err := f.uc.PreviewReturn(context.Background(), l.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, p.DaysOverdue)
	assert.Equal(t, "2.00", p.Fine.StringFixed(2))

	asOf := now.AddDate(0, 0, -10)
	p, err = f.uc.PreviewReturn(context.Background(), l.ID, &asOf)
	require.NoError(t, err)
	assert.Zero(t, p.DaysOverdue)
	assert.True(t, p.Fine.IsZero())
}

func TestReturn_ComputesFineAndReleasesCopy(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	f.books.books[1].AvailableCopies = 1
	l := f.seed(1, 7, loan.StatusOverdue, now.AddDate(0, 0, -6))

	got, err := f.uc.Return(context.Background(), l.ID, ReturnRequest{Version: 1})
	require.NoError(t, err)

	assert.Equal(t, loan.StatusReturned, got.Status)
	assert.Equal(t, "3.00", got.FineAmount.StringFixed(2))
	require.NotNil(t, got.ReturnDate)
	assert.Equal(t, now, *got.ReturnDate)
	assert.Equal(t, 2, f.books.available(1))
	assert.Equal(t, []string{EventReturned}, f.events.types())
}

func TestReturn_FineOverride(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	l := f.seed(1, 7, loan.StatusActive, now.AddDate(0, 0, -6))
	waived := decimal.Zero

	got, err := f.uc.Return(context.Background(), l.ID, ReturnRequest{
		ReturnFields: loan.ReturnFields{FineAmount: &waived},
	})
	require.NoError(t, err)
	assert.True(t, got.FineAmount.IsZero())

	negative := decimal.NewFromInt(-1)
	other := f.seed(1, 8, loan.StatusActive, now.AddDate(0, 0, -6))
	_, err = f.uc.Return(context.Background(), other.ID, ReturnRequest{
		ReturnFields: loan.ReturnFields{FineAmount: &negative},
	})
	assert.ErrorIs(t, err, loan.ErrNegativeFine)
}

func TestReturn_VersionConflict(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	l := f.seed(1, 7, loan.StatusActive, now.AddDate(0, 0, 3))

	_, err := f.uc.Return(context.Background(), l.ID, ReturnRequest{Version: 5})

	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
	assert.Equal(t, loan.StatusActive, f.loans.status(l.ID))
}

func TestReturn_TerminalStatuses(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())

	for _, s := range []loan.Status{loan.StatusReturned, loan.StatusLost, loan.StatusCancelled} {
		l := f.seed(1, 7, s, now.AddDate(0, 0, -1))
		_, err := f.uc.Return(context.Background(), l.ID, ReturnRequest{})
		assert.ErrorIs(t, err, loan.ErrLoanNotReturnable, s.String())
	}
}

func TestReturn_AtCapStillSucceeds(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	l := f.seed(1, 7, loan.StatusActive, now.AddDate(0, 0, 3))

	_, err := f.uc.Return(context.Background(), l.ID, ReturnRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, f.books.available(1))
	assert.Zero(t, f.books.releases, "实体判断已满，跳过条件更新")
	assert.Equal(t, loan.StatusReturned, f.loans.status(l.ID))
}

func TestMarkOverdue(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	late := f.seed(1, 7, loan.StatusActive, now.AddDate(0, 0, -2))
	f.seed(1, 8, loan.StatusActive, now.AddDate(0, 0, 2))
	f.seed(2, 8, loan.StatusReturned, now.AddDate(0, 0, -30))

	res, err := f.uc.MarkOverdue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Marked)
	assert.Equal(t, []uint{late.ID}, res.LoanIDs)
	assert.Equal(t, loan.StatusOverdue, f.loans.status(late.ID))
	assert.Equal(t, []string{EventOverdueMarked}, f.events.types())

	// 重复扫描不再标记
	res, err = f.uc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Marked)
}

func TestDelete_ReleasesHeldCopy(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	f.books.books[1].AvailableCopies = 0
	active := f.seed(1, 7, loan.StatusOverdue, now.AddDate(0, 0, -1))
	returned := f.seed(1, 7, loan.StatusReturned, now.AddDate(0, 0, -20))

	require.NoError(t, f.uc.Delete(context.Background(), active.ID))
	assert.Equal(t, 1, f.books.available(1))

	require.NoError(t, f.uc.Delete(context.Background(), returned.ID))
	assert.Equal(t, 1, f.books.available(1))

	assert.ErrorIs(t, f.uc.Delete(context.Background(), active.ID), loan.ErrLoanNotFound)
	assert.Equal(t, []string{EventDeleted, EventDeleted}, f.events.types())
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	f.events.err = errors.New("broker down")

	_, err := f.uc.Checkout(context.Background(), loan.CheckoutFields{BookID: 1, CustomerID: 7})

	assert.NoError(t, err)
	assert.Equal(t, 1, f.books.available(1))
}

func TestList_NormalizesPage(t *testing.T) {
	f := newFixture(t, loan.DefaultPolicy())
	f.seed(1, 7, loan.StatusActive, now)

	page, err := f.uc.List(context.Background(), loan.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.EqualValues(t, 1, page.Total)
}
