package dto

import (
	appstaff "github.com/xiebiao/library/internal/application/staff"
	"github.com/xiebiao/library/internal/domain/staff"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"desk@library.test"`
	Password string `json:"password" binding:"required" example:"circulation42"`
}

// RefreshRequest 刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateStaffRequest 创建工作人员请求
type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email,max=100" example:"desk@library.test"`
	Password string `json:"password" binding:"required,min=8,max=64" example:"circulation42"`
	Name     string `json:"name" binding:"required,max=50" example:"Front Desk"`
	Role     string `json:"role" binding:"required,oneof=admin librarian" example:"librarian"`
}

// StaffResponse 工作人员信息（不含密码哈希）
type StaffResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// NewStaff 组装工作人员信息
func NewStaff(s *staff.Staff) StaffResponse {
	return StaffResponse{
		ID:        s.ID,
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role,
		IsActive:  s.IsActive,
		CreatedAt: formatTime(s.CreatedAt),
	}
}

// LoginResponse 登录响应
// 之后的非GET请求需要在X-CSRF-Token头中带上csrf_token
type LoginResponse struct {
	Staff        StaffResponse `json:"staff"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in" example:"7200"`
	CSRFToken    string        `json:"csrf_token"`
}

// NewLoginResponse 组装登录响应
func NewLoginResponse(r *appstaff.LoginResult) LoginResponse {
	return LoginResponse{
		Staff:        NewStaff(r.Staff),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
		CSRFToken:    r.CSRFToken,
	}
}

// RefreshResponse 刷新Token响应
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
