// Package staff 工作人员登录、登出与账号管理用例
package staff

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
)

// Tokens Token签发（由jwt.Manager实现）
type Tokens interface {
	GenerateToken(staffID uint, email, name, role string) (*jwt.TokenPair, error)
	RefreshAccessToken(refreshToken string) (string, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

// Sessions 会话存储（由redis.SessionStore实现）
type Sessions interface {
	SaveSession(ctx context.Context, staffID uint, data map[string]interface{}, ttl time.Duration) (string, error)
	DeleteSession(ctx context.Context, staffID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// UseCase 工作人员用例
type UseCase struct {
	staff    staff.Service
	tokens   Tokens
	sessions Sessions
}

// NewUseCase 创建工作人员用例
func NewUseCase(svc staff.Service, tokens Tokens, sessions Sessions) *UseCase {
	return &UseCase{staff: svc, tokens: tokens, sessions: sessions}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult 登录结果
type LoginResult struct {
	Staff        *staff.Staff
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	CSRFToken    string
}

// Login 登录
//  1. 校验邮箱密码（账号不存在与密码错误返回同一个错误）
//  2. 签发Token对
//  3. 保存会话并生成CSRF Token，会话有效期与Refresh Token一致
func (uc *UseCase) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	s, err := uc.staff.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.tokens.GenerateToken(s.ID, s.Email, s.Name, s.Role)
	if err != nil {
		return nil, err
	}

	csrf, err := uc.sessions.SaveSession(ctx, s.ID, map[string]interface{}{
		"staff_id": s.ID,
		"email":    s.Email,
		"role":     s.Role,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}, uc.tokens.RefreshTokenTTL())
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("staff logged in", "staff_id", s.ID, "role", s.Role)
	return &LoginResult{
		Staff:        s,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		CSRFToken:    csrf,
	}, nil
}

// Logout 登出：删除会话与CSRF Token，Access Token加入黑名单直到自然过期
func (uc *UseCase) Logout(ctx context.Context, staffID uint, accessToken string) error {
	if err := uc.sessions.DeleteSession(ctx, staffID); err != nil {
		return err
	}
	if err := uc.sessions.AddToBlacklist(ctx, accessToken, uc.tokens.AccessTokenTTL()); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("staff logged out", "staff_id", staffID)
	return nil
}

// Refresh 用Refresh Token换取新的Access Token
func (uc *UseCase) Refresh(_ context.Context, refreshToken string) (string, error) {
	return uc.tokens.RefreshAccessToken(refreshToken)
}

// CreateRequest 创建账号请求
type CreateRequest struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Create 创建工作人员账号
func (uc *UseCase) Create(ctx context.Context, req CreateRequest) (*staff.Staff, error) {
	s, err := uc.staff.Create(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("staff created", "staff_id", s.ID, "role", s.Role)
	return s, nil
}

// Get 工作人员信息
func (uc *UseCase) Get(ctx context.Context, id uint) (*staff.Staff, error) {
	return uc.staff.Get(ctx, id)
}
