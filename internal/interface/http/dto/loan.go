package dto

import (
	"github.com/shopspring/decimal"

	loanapp "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// CheckoutRequest 借书请求
// 借书日期为空取当前时间，应还日期为空取借书日期+默认借期
type CheckoutRequest struct {
	BookID          uint   `json:"book_id" binding:"required" example:"1"`
	CustomerID      uint   `json:"customer_id" binding:"required" example:"1"`
	LibraryBranchID *uint  `json:"library_branch_id" example:"1"`
	LoanDate        string `json:"loan_date" example:"2026-03-01"`
	DueDate         string `json:"due_date" example:"2026-03-15"`
	Notes           string `json:"notes" binding:"max=500"`
}

// ToFields 转换为领域输入
func (r CheckoutRequest) ToFields() (loan.CheckoutFields, error) {
	loanDate, err := ParseDate("loan_date", r.LoanDate)
	if err != nil {
		return loan.CheckoutFields{}, err
	}
	dueDate, err := ParseDate("due_date", r.DueDate)
	if err != nil {
		return loan.CheckoutFields{}, err
	}
	return loan.CheckoutFields{
		BookID:     r.BookID,
		CustomerID: r.CustomerID,
		BranchID:   r.LibraryBranchID,
		LoanDate:   loanDate,
		DueDate:    dueDate,
		Notes:      r.Notes,
	}, nil
}

// ReturnRequest 归还请求
// fine_amount为空按归还日期计算；version为空不做并发校验
type ReturnRequest struct {
	Version    uint             `json:"version" example:"1"`
	ReturnDate string           `json:"return_date" example:"2026-03-18"`
	FineAmount *decimal.Decimal `json:"fine_amount" swaggertype:"string" example:"1.50"`
	Notes      *string          `json:"notes" binding:"omitempty,max=500"`
}

// ToRequest 转换为用例请求
func (r ReturnRequest) ToRequest() (loanapp.ReturnRequest, error) {
	returned, err := ParseDate("return_date", r.ReturnDate)
	if err != nil {
		return loanapp.ReturnRequest{}, err
	}
	return loanapp.ReturnRequest{
		Version: r.Version,
		ReturnFields: loan.ReturnFields{
			ReturnDate: returned,
			FineAmount: r.FineAmount,
			Notes:      r.Notes,
		},
	}, nil
}

// ReturnPreviewQuery 罚金预览参数
type ReturnPreviewQuery struct {
	AsOf string `form:"as_of" example:"2026-03-18"`
}

// ListLoansQuery 借阅列表查询
type ListLoansQuery struct {
	PageQuery
	Keyword    string `form:"keyword" binding:"max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=Active Returned Overdue Lost Cancelled"`
	CustomerID uint   `form:"customer_id"`
	BookID     uint   `form:"book_id"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=loan_date_desc due_date due_date_desc"`
}

// ToParams 转换为领域查询参数
func (q ListLoansQuery) ToParams() (loan.ListParams, error) {
	var status loan.Status
	if q.Status != "" {
		s, err := loan.ParseStatus(q.Status)
		if err != nil {
			return loan.ListParams{}, apperrors.NewField(apperrors.ErrCodeValidation, "status", "未知的借阅状态")
		}
		status = s
	}
	return loan.ListParams{
		Page:       q.ToPage(),
		Keyword:    q.Keyword,
		Status:     status,
		CustomerID: q.CustomerID,
		BookID:     q.BookID,
		SortBy:     q.SortBy,
	}, nil
}

// LoanResponse 借阅（含书名、读者、分馆名称）
type LoanResponse struct {
	ID                uint   `json:"id"`
	BookID            uint   `json:"book_id"`
	BookTitle         string `json:"book_title"`
	BookISBN          string `json:"book_isbn,omitempty"`
	CustomerID        uint   `json:"customer_id"`
	CustomerName      string `json:"customer_name"`
	LibraryCardNumber string `json:"library_card_number,omitempty"`
	LibraryBranchID   *uint  `json:"library_branch_id"`
	BranchName        string `json:"branch_name,omitempty"`
	LoanDate          string `json:"loan_date"`
	DueDate           string `json:"due_date"`
	ReturnDate        string `json:"return_date,omitempty"`
	Status            string `json:"status" example:"Active"`
	FineAmount        string `json:"fine_amount" example:"0.00"`
	FinePaid          bool   `json:"fine_paid"`
	Notes             string `json:"notes,omitempty"`
	RenewedCount      int    `json:"renewed_count"`
	Version           uint   `json:"version"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// NewLoan 组装借阅
func NewLoan(l *loan.Listing) LoanResponse {
	returned := ""
	if l.ReturnDate != nil {
		returned = formatTime(*l.ReturnDate)
	}
	return LoanResponse{
		ID:                l.ID,
		BookID:            l.BookID,
		BookTitle:         l.BookTitle,
		BookISBN:          l.BookISBN,
		CustomerID:        l.CustomerID,
		CustomerName:      l.CustomerName,
		LibraryCardNumber: l.LibraryCardNumber,
		LibraryBranchID:   l.BranchID,
		BranchName:        l.BranchName,
		LoanDate:          formatTime(l.LoanDate),
		DueDate:           formatTime(l.DueDate),
		ReturnDate:        returned,
		Status:            l.Status.String(),
		FineAmount:        l.FineAmount.StringFixed(2),
		FinePaid:          l.FinePaid,
		Notes:             l.Notes,
		RenewedCount:      l.RenewedCount,
		Version:           l.Version,
		CreatedAt:         formatTime(l.CreatedAt),
		UpdatedAt:         formatTime(l.UpdatedAt),
	}
}

// NewLoans 批量组装
func NewLoans(list []*loan.Listing) []LoanResponse {
	out := make([]LoanResponse, 0, len(list))
	for _, l := range list {
		out = append(out, NewLoan(l))
	}
	return out
}

// ReturnPreviewResponse 归还预览
type ReturnPreviewResponse struct {
	Loan        LoanResponse `json:"loan"`
	AsOf        string       `json:"as_of"`
	DaysOverdue int          `json:"days_overdue" example:"3"`
	FinePerDay  string       `json:"fine_per_day" example:"0.50"`
	Fine        string       `json:"fine" example:"1.50"`
}

// NewReturnPreview 组装归还预览
func NewReturnPreview(p *loanapp.ReturnPreview) ReturnPreviewResponse {
	return ReturnPreviewResponse{
		Loan:        NewLoan(p.Loan),
		AsOf:        formatTime(p.AsOf),
		DaysOverdue: p.DaysOverdue,
		FinePerDay:  p.FinePerDay.StringFixed(2),
		Fine:        p.Fine.StringFixed(2),
	}
}

// MarkOverdueResponse 逾期扫描结果
type MarkOverdueResponse struct {
	Marked  int    `json:"marked" example:"2"`
	LoanIDs []uint `json:"loan_ids"`
}
