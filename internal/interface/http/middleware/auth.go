package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

// CSRFHeader 非GET请求携带防伪令牌的请求头
const CSRFHeader = "X-CSRF-Token"

// Context键
const (
	keyStaffID     = "staff_id"
	keyStaffEmail  = "staff_email"
	keyStaffName   = "staff_name"
	keyStaffRole   = "staff_role"
	keyAccessToken = "access_token"
)

// TokenParser Token解析（由jwt.Manager实现）
type TokenParser interface {
	ParseToken(token string) (*jwt.Claims, error)
}

// SessionChecker 会话检查（由redis.SessionStore实现）
type SessionChecker interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
	CSRFToken(ctx context.Context, staffID uint) (string, error)
}

// AuthMiddleware 认证中间件
//  1. RequireAuth：校验Bearer Token（黑名单 → 签名/过期），注入工作人员信息
//  2. RequireRole：角色校验，放在RequireAuth之后
//  3. CSRF：非GET请求校验X-CSRF-Token与会话中的令牌一致
type AuthMiddleware struct {
	tokens   TokenParser
	sessions SessionChecker
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(tokens TokenParser, sessions SessionChecker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization: Bearer <token>
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abort(c, apperrors.ErrUnauthorized)
			return
		}
		token := parts[1]

		// 2. 已登出的Token
		blacklisted, err := m.sessions.IsInBlacklist(c.Request.Context(), token)
		if err != nil {
			abort(c, err)
			return
		}
		if blacklisted {
			abort(c, apperrors.ErrInvalidToken)
			return
		}

		// 3. 签名与过期
		claims, err := m.tokens.ParseToken(token)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(keyStaffID, claims.StaffID)
		c.Set(keyStaffEmail, claims.Email)
		c.Set(keyStaffName, claims.Name)
		c.Set(keyStaffRole, claims.Role)
		c.Set(keyAccessToken, token)
		c.Next()
	}
}

// RequireRole 要求指定角色之一
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abort(c, apperrors.ErrForbidden)
	}
}

// CSRF 防伪令牌校验，GET/HEAD/OPTIONS放行
func (m *AuthMiddleware) CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sent := c.GetHeader(CSRFHeader)
		if sent == "" {
			abort(c, apperrors.ErrCSRFInvalid)
			return
		}
		expected, err := m.sessions.CSRFToken(c.Request.Context(), GetStaffID(c))
		if err != nil {
			abort(c, err)
			return
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(expected)) != 1 {
			abort(c, apperrors.ErrCSRFInvalid)
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}

// GetStaffID 当前登录的工作人员ID，未登录为0
func GetStaffID(c *gin.Context) uint {
	if v, ok := c.Get(keyStaffID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetRole 当前登录的工作人员角色
func GetRole(c *gin.Context) string {
	return c.GetString(keyStaffRole)
}

// GetAccessToken 当前请求的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(keyAccessToken)
}
