package staff

import (
	"strings"
	"time"
)

// 角色
const (
	RoleAdmin     = "admin"     // 管理员：可执行逾期扫描、管理工作人员
	RoleLibrarian = "librarian" // 馆员：日常借还与编目
)

// Staff 工作人员（系统操作者）
// 密码只保存bcrypt哈希
type Staff struct {
	ID           uint
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewStaff 创建工作人员，hashedPassword必须是bcrypt哈希
func NewStaff(email, hashedPassword, name, role string) *Staff {
	now := time.Now()
	return &Staff{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(name),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin 是否管理员
func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// IsValidRole 角色是否合法
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleLibrarian
}
