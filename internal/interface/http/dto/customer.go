package dto

import (
	"github.com/xiebiao/library/internal/domain/customer"
)

// CustomerRequest 登记读者请求
type CustomerRequest struct {
	FirstName         string `json:"first_name" binding:"required,max=50" example:"Ada"`
	LastName          string `json:"last_name" binding:"required,max=50" example:"Lovelace"`
	Email             string `json:"email" binding:"required,email,max=100" example:"ada@example.com"`
	Phone             string `json:"phone" binding:"max=20"`
	Address           string `json:"address" binding:"max=200"`
	City              string `json:"city" binding:"max=50"`
	MembershipDate    string `json:"membership_date" example:"2026-01-15"`
	LibraryCardNumber string `json:"library_card_number" binding:"max=20" example:"LIB-2026-0001"`
	IsActiveMember    *bool  `json:"is_active_member"`
	PreferredBranchID *uint  `json:"preferred_branch_id"`
}

// UpdateCustomerRequest 编辑读者请求
type UpdateCustomerRequest struct {
	CustomerRequest
	VersionField
}

// ToFields 转换为领域输入
func (r CustomerRequest) ToFields() (customer.Fields, error) {
	joined, err := ParseDate("membership_date", r.MembershipDate)
	if err != nil {
		return customer.Fields{}, err
	}
	return customer.Fields{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		Address:           r.Address,
		City:              r.City,
		MembershipDate:    joined,
		LibraryCardNumber: r.LibraryCardNumber,
		IsActiveMember:    boolOr(r.IsActiveMember, true),
		PreferredBranchID: r.PreferredBranchID,
	}, nil
}

// ListCustomersQuery 读者列表查询
type ListCustomersQuery struct {
	PageQuery
	Keyword    string `form:"keyword" binding:"max=100"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name name_desc email newest oldest"`
}

// ToParams 转换为领域查询参数
func (q ListCustomersQuery) ToParams() customer.ListParams {
	return customer.ListParams{Page: q.ToPage(), Keyword: q.Keyword, ActiveOnly: q.ActiveOnly, SortBy: q.SortBy}
}

// CustomerResponse 读者基础信息
type CustomerResponse struct {
	ID                uint   `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	City              string `json:"city,omitempty"`
	MembershipDate    string `json:"membership_date"`
	LibraryCardNumber string `json:"library_card_number" example:"LIB-2026-0001"`
	IsActiveMember    bool   `json:"is_active_member"`
	PreferredBranchID *uint  `json:"preferred_branch_id"`
	Version           uint   `json:"version"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// NewCustomer 组装读者基础信息
func NewCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		FullName:          c.FullName(),
		Email:             c.Email,
		Phone:             c.Phone,
		Address:           c.Address,
		City:              c.City,
		MembershipDate:    formatDate(&c.MembershipDate),
		LibraryCardNumber: c.LibraryCardNumber,
		IsActiveMember:    c.IsActiveMember,
		PreferredBranchID: c.PreferredBranchID,
		Version:           c.Version,
		CreatedAt:         formatTime(c.CreatedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
}

// CustomerDetailResponse 读者详情（基础信息 + 首选分馆 + 借阅统计）
type CustomerDetailResponse struct {
	CustomerResponse
	PreferredBranchName string `json:"preferred_branch_name,omitempty"`
	ActiveLoanCount     int64  `json:"active_loan_count"`
	TotalLoanCount      int64  `json:"total_loan_count"`
}

// NewCustomerDetail 组装读者详情
func NewCustomerDetail(d *customer.Detail) CustomerDetailResponse {
	return CustomerDetailResponse{
		CustomerResponse:    NewCustomer(d.Customer),
		PreferredBranchName: d.PreferredBranchName,
		ActiveLoanCount:     d.ActiveLoanCount,
		TotalLoanCount:      d.TotalLoanCount,
	}
}

// CustomerProfileResponse 读者详情页（详情 + 最近借阅 + 书评）
type CustomerProfileResponse struct {
	CustomerDetailResponse
	RecentLoans []LoanResponse   `json:"recent_loans"`
	Reviews     []ReviewResponse `json:"reviews"`
}
