package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/library/internal/domain/shared"
)

// Loan 借阅实体（聚合根）
// 状态机：Active → Returned，Active → Overdue（逾期扫描），Overdue → Returned（逾期归还）
// Active/Overdue状态的借阅各占用图书的一本副本
type Loan struct {
	ID           uint
	BookID       uint
	CustomerID   uint
	BranchID     *uint
	LoanDate     time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
	Status       Status
	FineAmount   decimal.Decimal
	FinePaid     bool
	Notes        string
	RenewedCount int
	Version      uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CheckoutFields 借书输入
type CheckoutFields struct {
	BookID     uint
	CustomerID uint
	BranchID   *uint
	LoanDate   *time.Time // 为空取当前时间
	DueDate    *time.Time // 为空取借书日期+默认借期
	Notes      string
}

// Validate 字段校验
func (f CheckoutFields) Validate() error {
	var c shared.Checker
	if f.BookID == 0 {
		c.Add("book_id", "不能为空")
	}
	if f.CustomerID == 0 {
		c.Add("customer_id", "不能为空")
	}
	c.MaxLen("notes", f.Notes, 500)
	return c.Err()
}

// NewLoan 创建借阅（初始状态Active）
func NewLoan(f CheckoutFields, p Policy, now time.Time) (*Loan, error) {
	loanDate := now
	if f.LoanDate != nil {
		loanDate = *f.LoanDate
	}
	dueDate := loanDate.Add(p.DefaultPeriod)
	if f.DueDate != nil {
		dueDate = *f.DueDate
	}
	if !dueDate.After(loanDate) {
		return nil, ErrDueBeforeLoan
	}

	return &Loan{
		BookID:     f.BookID,
		CustomerID: f.CustomerID,
		BranchID:   f.BranchID,
		LoanDate:   loanDate,
		DueDate:    dueDate,
		Status:     StatusActive,
		FineAmount: decimal.Zero,
		Notes:      f.Notes,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsReturnable 是否可以归还
func (l *Loan) IsReturnable() bool {
	return l.Status.CanTransitionTo(StatusReturned)
}

// HoldsCopy 是否占用副本
func (l *Loan) HoldsCopy() bool {
	return l.Status.HoldsCopy()
}

// PreviewFine 归还前的罚金预览（不可归还的借阅为0）
func (l *Loan) PreviewFine(p Policy, asOf time.Time) decimal.Decimal {
	if !l.IsReturnable() {
		return decimal.Zero
	}
	return p.FineAt(l.DueDate, asOf)
}

// ReturnFields 归还输入
type ReturnFields struct {
	ReturnDate *time.Time       // 为空取当前时间
	FineAmount *decimal.Decimal // 为空按归还日期计算，管理员可覆盖
	Notes      *string          // 为空保留原备注
}

// Return 归还
// 业务规则：只有Active/Overdue可归还；罚金不能为负
func (l *Loan) Return(f ReturnFields, p Policy, now time.Time) error {
	if !l.IsReturnable() {
		return ErrLoanNotReturnable
	}

	returnDate := now
	if f.ReturnDate != nil {
		returnDate = *f.ReturnDate
	}
	if returnDate.Before(l.LoanDate) {
		return ErrReturnBeforeLoan
	}

	fine := p.FineAt(l.DueDate, returnDate)
	if f.FineAmount != nil {
		if f.FineAmount.IsNegative() {
			return ErrNegativeFine
		}
		fine = *f.FineAmount
	}
	if f.Notes != nil {
		if len([]rune(*f.Notes)) > 500 {
			return ErrNotesTooLong
		}
		l.Notes = *f.Notes
	}

	l.Status = StatusReturned
	l.ReturnDate = &returnDate
	l.FineAmount = fine.Round(2)
	l.UpdatedAt = now
	return nil
}

// MarkOverdue 标记逾期并按当前时间计算罚金
func (l *Loan) MarkOverdue(p Policy, now time.Time) error {
	if !l.Status.CanTransitionTo(StatusOverdue) || !l.DueDate.Before(now) {
		return ErrInvalidStatusTransition
	}
	l.Status = StatusOverdue
	l.FineAmount = p.FineAt(l.DueDate, now).Round(2)
	l.UpdatedAt = now
	return nil
}

// Listing 借阅展示信息（基础信息 + 关联名称）
type Listing struct {
	*Loan
	BookTitle         string
	BookISBN          string
	CustomerName      string
	LibraryCardNumber string
	BranchName        string
}
