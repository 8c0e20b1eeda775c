package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/customer"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/review"
	"github.com/xiebiao/library/internal/domain/shared"
)

func testNow() time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestCustomerRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.customer(t, "Ada", "ada@example.com", "LIB-2026-0001")

	dupEmail := customer.NewCustomer(customer.Fields{FirstName: "A", LastName: "B", Email: "ada@example.com"}, "LIB-2026-0002")
	assert.ErrorIs(t, f.customers.Create(ctx, dupEmail), customer.ErrEmailDuplicate)

	dupCard := customer.NewCustomer(customer.Fields{FirstName: "A", LastName: "B", Email: "other@example.com"}, "LIB-2026-0001")
	assert.ErrorIs(t, f.customers.Create(ctx, dupCard), customer.ErrCardNumberDuplicate)

	taken, err := f.customers.ExistsByEmail(ctx, "ADA@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCustomerRepository_MaxCardSequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	seq, err := f.customers.MaxCardSequence(ctx, customer.CardPrefix(2026))
	require.NoError(t, err)
	assert.Equal(t, 0, seq)

	f.customer(t, "A", "a@example.com", "LIB-2026-0009")
	f.customer(t, "B", "b@example.com", "LIB-2026-0042")
	f.customer(t, "C", "c@example.com", "LIB-2025-0777")

	seq, err = f.customers.MaxCardSequence(ctx, customer.CardPrefix(2026))
	require.NoError(t, err)
	assert.Equal(t, 42, seq)
}

func TestCustomerRepository_DeleteCascadesReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Le", "Guin")
	b := f.book(t, "The Dispossessed", "9780061054884", a.ID, 1, 1)
	c := f.customer(t, "Shevek", "shevek@example.com", "LIB-2026-0001")

	rv := review.NewReview(review.Fields{BookID: b.ID, CustomerID: c.ID, Rating: 5, Content: "An ambiguous utopia."})
	require.NoError(t, f.reviews.Create(ctx, rv))

	require.NoError(t, f.customers.Delete(ctx, c.ID))
	_, err := f.reviews.FindByID(ctx, rv.ID)
	assert.ErrorIs(t, err, review.ErrReviewNotFound)
}

func TestCustomerRepository_DeleteRestrictedByLoans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Octavia", "Butler")
	b := f.book(t, "Kindred", "9780807083697", a.ID, 1, 1)
	c := f.customer(t, "Dana", "dana@example.com", "LIB-2026-0001")
	now := testNow()
	f.loan(t, b.ID, c.ID, nil, now, now.AddDate(0, 0, 14))

	assert.ErrorIs(t, f.customers.Delete(ctx, c.ID), customer.ErrCustomerHasLoanHistory)

	d, err := f.customers.FindDetail(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.ActiveLoanCount)
	assert.EqualValues(t, 1, d.TotalLoanCount)
}

func TestLoanRepository_OverdueQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Philip", "Dick")
	b := f.book(t, "Ubik", "9780547572291", a.ID, 3, 3)
	c := f.customer(t, "Joe", "joe@example.com", "LIB-2026-0001")
	now := testNow()

	late := f.loan(t, b.ID, c.ID, nil, now.AddDate(0, 0, -20), now.AddDate(0, 0, -6))
	f.loan(t, b.ID, c.ID, nil, now.AddDate(0, 0, -1), now.AddDate(0, 0, 13))

	due, err := f.loans.LockActiveDueBefore(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, late.ID, due[0].ID)

	has, err := f.loans.HasOverdue(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, due[0].MarkOverdue(loan.DefaultPolicy(), now))
	require.NoError(t, f.loans.Update(ctx, due[0]))

	has, err = f.loans.HasOverdue(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, has)

	got, err := f.loans.FindByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusOverdue, got.Status)
	assert.True(t, got.FineAmount.Equal(decimal.RequireFromString("3.00")))

	holding, err := f.loans.CountHoldingByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, holding)
}

func TestLoanRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Kurt", "Vonnegut")
	b1 := f.book(t, "Cat's Cradle", "9780385333481", a.ID, 2, 2)
	b2 := f.book(t, "Slaughterhouse-Five", "9780385333849", a.ID, 2, 2)
	c := f.customer(t, "Billy", "billy@example.com", "LIB-2026-0001")
	now := testNow()

	f.loan(t, b1.ID, c.ID, nil, now.AddDate(0, 0, -2), now.AddDate(0, 0, 12))
	l2 := f.loan(t, b2.ID, c.ID, nil, now.AddDate(0, 0, -1), now.AddDate(0, 0, 5))

	page := shared.Page{Page: 1, PageSize: 10}
	list, total, err := f.loans.List(ctx, loan.ListParams{Page: page, Keyword: "slaughter"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Slaughterhouse-Five", list[0].BookTitle)
	assert.Equal(t, "Billy Reader", list[0].CustomerName)
	assert.Equal(t, "LIB-2026-0001", list[0].LibraryCardNumber)

	list, _, err = f.loans.List(ctx, loan.ListParams{Page: page, SortBy: "due_date"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, l2.ID, list[0].ID)

	list, total, err = f.loans.List(ctx, loan.ListParams{Page: page, Status: loan.StatusReturned})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)
}

func TestReviewRepository_UniquePair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Gene", "Wolfe")
	b := f.book(t, "Shadow", "9780312890179", a.ID, 1, 1)
	c := f.customer(t, "Severian", "sev@example.com", "LIB-2026-0001")

	first := review.NewReview(review.Fields{BookID: b.ID, CustomerID: c.ID, Rating: 4, Content: "Dense but rewarding."})
	require.NoError(t, f.reviews.Create(ctx, first))

	second := review.NewReview(review.Fields{BookID: b.ID, CustomerID: c.ID, Rating: 1, Content: "Changed my mind."})
	assert.ErrorIs(t, f.reviews.Create(ctx, second), review.ErrReviewDuplicate)

	l, err := f.reviews.FindListing(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shadow", l.BookTitle)
	assert.Equal(t, "Severian Reader", l.CustomerName)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Neal", "Stephenson")
	b := f.book(t, "Anathem", "9780061474101", a.ID, 1, 1)

	boom := errors.New("boom")
	err := NewTxManager(f.db).Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, f.books.ReserveCopy(ctx, b.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
}

func TestDashboardReader_Summary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.author(t, "Ted", "Chiang")
	f.category(t, "Short Stories")
	b := f.book(t, "Exhalation", "9781101947883", a.ID, 2, 3)
	c := f.customer(t, "Ana", "ana@example.com", "LIB-2026-0001")
	now := testNow()
	f.loan(t, b.ID, c.ID, nil, now, now.AddDate(0, 0, 14))

	s, err := NewDashboardReader(f.db).Summary(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.TotalBooks)
	assert.EqualValues(t, 1, s.TotalCategories)
	assert.EqualValues(t, 1, s.ActiveLoans)
	assert.EqualValues(t, 0, s.OverdueLoans)
	assert.EqualValues(t, 2, s.AvailableCopies)
	require.Len(t, s.RecentLoans, 1)
	assert.Equal(t, "Exhalation", s.RecentLoans[0].BookTitle)
	require.Len(t, s.NewestCustomers, 1)
	require.Len(t, s.BooksPerCategory, 1)
	assert.EqualValues(t, 0, s.BooksPerCategory[0].BookCount)
}
