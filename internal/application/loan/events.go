package loan

import (
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
)

// 事件routing key
const (
	EventCheckedOut    = "loan.checked_out"
	EventReturned      = "loan.returned"
	EventOverdueMarked = "loan.overdue_marked"
	EventDeleted       = "loan.deleted"
)

// Event 借阅事件（JSON发布到library.events）
type Event struct {
	Type       string     `json:"type"`
	LoanID     uint       `json:"loan_id"`
	BookID     uint       `json:"book_id"`
	CustomerID uint       `json:"customer_id"`
	Status     string     `json:"status"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	FineAmount string     `json:"fine_amount"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func newEvent(eventType string, l *loan.Loan, at time.Time) Event {
	return Event{
		Type:       eventType,
		LoanID:     l.ID,
		BookID:     l.BookID,
		CustomerID: l.CustomerID,
		Status:     l.Status.String(),
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		FineAmount: l.FineAmount.StringFixed(2),
		OccurredAt: at,
	}
}
