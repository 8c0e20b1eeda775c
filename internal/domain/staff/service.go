package staff

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/shared"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 工作人员领域服务
type Service interface {
	// Create 创建工作人员账号
	// 业务规则：邮箱格式、密码强度、角色合法；密码bcrypt加密
	Create(ctx context.Context, email, password, name, role string) (*Staff, error)

	// Authenticate 校验邮箱密码
	// 邮箱不存在与密码错误返回同一个错误，避免暴露账号是否存在
	Authenticate(ctx context.Context, email, password string) (*Staff, error)

	Get(ctx context.Context, id uint) (*Staff, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建工作人员服务，bcryptCost<=0时使用12
func NewService(repo Repository, bcryptCost int) Service {
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	return &service{repo: repo, cost: bcryptCost}
}

func (s *service) Create(ctx context.Context, email, password, name, role string) (*Staff, error) {
	// 1. 字段校验
	var c shared.Checker
	if c.Required("email", email) {
		c.Email("email", email)
	}
	if c.Required("name", name) {
		c.Length("name", name, 2, 50)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	if !IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 2. 密码加密
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 3. 持久化（邮箱唯一由唯一索引保证）
	st := NewStaff(email, string(hashed), name, role)
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*Staff, error) {
	st, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	if !st.IsActive {
		return nil, ErrStaffDisabled
	}
	return st, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Staff, error) {
	return s.repo.FindByID(ctx, id)
}

// validatePasswordStrength 8-64位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
