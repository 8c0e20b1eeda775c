package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

func activeLoan(due time.Time) *Loan {
	l, err := NewLoan(CheckoutFields{BookID: 1, CustomerID: 2, LoanDate: ptr(due.Add(-14 * day)), DueDate: &due}, DefaultPolicy(), now)
	if err != nil {
		panic(err)
	}
	return l
}

func ptr[T any](v T) *T { return &v }

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusReturned))
	assert.True(t, StatusActive.CanTransitionTo(StatusOverdue))
	assert.True(t, StatusOverdue.CanTransitionTo(StatusReturned))
	assert.False(t, StatusOverdue.CanTransitionTo(StatusActive))
	assert.False(t, StatusReturned.CanTransitionTo(StatusActive))

	for _, s := range []Status{StatusLost, StatusCancelled} {
		for target := range statusNames {
			assert.False(t, s.CanTransitionTo(target), "%s → %s", s, target)
		}
		assert.False(t, StatusActive.CanTransitionTo(s))
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("overdue")
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, s)

	_, err = ParseStatus("borrowed")
	assert.Error(t, err)
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestDaysOverdue(t *testing.T) {
	assert.Equal(t, 0, DaysOverdue(now, now))
	assert.Equal(t, 0, DaysOverdue(now.Add(day), now))
	assert.Equal(t, 0, DaysOverdue(now.Add(-23*time.Hour), now))
	assert.Equal(t, 4, DaysOverdue(now.Add(-4*day), now))
	assert.Equal(t, 4, DaysOverdue(now.Add(-4*day-5*time.Hour), now))
}

func TestNewLoan_Defaults(t *testing.T) {
	l, err := NewLoan(CheckoutFields{BookID: 1, CustomerID: 2}, DefaultPolicy(), now)
	require.NoError(t, err)

	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, now, l.LoanDate)
	assert.Equal(t, now.Add(14*day), l.DueDate)
	assert.True(t, l.FineAmount.IsZero())
	assert.True(t, l.HoldsCopy())
}

func TestNewLoan_DueMustFollowLoanDate(t *testing.T) {
	_, err := NewLoan(CheckoutFields{BookID: 1, CustomerID: 2, DueDate: ptr(now.Add(-time.Hour))}, DefaultPolicy(), now)
	assert.ErrorIs(t, err, ErrDueBeforeLoan)
}

func TestPreviewFine_FourDaysLate(t *testing.T) {
	l := activeLoan(now.Add(-4 * day))
	assert.Equal(t, "2.00", l.PreviewFine(DefaultPolicy(), now).StringFixed(2))

	onTime := activeLoan(now.Add(2 * day))
	assert.True(t, onTime.PreviewFine(DefaultPolicy(), now).IsZero())
}

func TestReturn_DefaultFineAndOverride(t *testing.T) {
	p := DefaultPolicy()

	l := activeLoan(now.Add(-4 * day))
	require.NoError(t, l.Return(ReturnFields{}, p, now))
	assert.Equal(t, StatusReturned, l.Status)
	assert.Equal(t, "2.00", l.FineAmount.StringFixed(2))
	require.NotNil(t, l.ReturnDate)
	assert.False(t, l.HoldsCopy())

	waived := activeLoan(now.Add(-4 * day))
	require.NoError(t, waived.Return(ReturnFields{FineAmount: ptr(decimal.Zero), Notes: ptr("damaged cover")}, p, now))
	assert.True(t, waived.FineAmount.IsZero())
	assert.Equal(t, "damaged cover", waived.Notes)
}

func TestReturn_Rules(t *testing.T) {
	p := DefaultPolicy()

	l := activeLoan(now.Add(-day))
	require.NoError(t, l.Return(ReturnFields{}, p, now))
	assert.ErrorIs(t, l.Return(ReturnFields{}, p, now), ErrLoanNotReturnable)

	lost := activeLoan(now)
	lost.Status = StatusLost
	assert.ErrorIs(t, lost.Return(ReturnFields{}, p, now), ErrLoanNotReturnable)

	neg := activeLoan(now)
	assert.ErrorIs(t, neg.Return(ReturnFields{FineAmount: ptr(decimal.NewFromInt(-1))}, p, now), ErrNegativeFine)
	assert.Equal(t, StatusActive, neg.Status)
}

func TestMarkOverdue_TenDays(t *testing.T) {
	l := activeLoan(now.Add(-10 * day))
	require.NoError(t, l.MarkOverdue(DefaultPolicy(), now))

	assert.Equal(t, StatusOverdue, l.Status)
	assert.Equal(t, "5.00", l.FineAmount.StringFixed(2))
	assert.True(t, l.IsReturnable())

	// 逾期后归还，罚金按归还日重新计算
	require.NoError(t, l.Return(ReturnFields{}, DefaultPolicy(), now.Add(2*day)))
	assert.Equal(t, "6.00", l.FineAmount.StringFixed(2))
}

func TestMarkOverdue_NotYetDue(t *testing.T) {
	l := activeLoan(now.Add(day))
	assert.ErrorIs(t, l.MarkOverdue(DefaultPolicy(), now), ErrInvalidStatusTransition)
	assert.Equal(t, StatusActive, l.Status)
}

func TestPolicy_ConfiguredRate(t *testing.T) {
	p := Policy{FinePerDay: decimal.RequireFromString("1.25")}
	assert.Equal(t, "3.75", p.Fine(3).StringFixed(2))
	assert.True(t, p.Fine(-2).IsZero())
}
