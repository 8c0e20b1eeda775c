package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokens map[string]*jwt.Claims

func (f fakeTokens) ParseToken(token string) (*jwt.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, apperrors.ErrInvalidToken
}

type fakeSessions struct {
	blacklist map[string]bool
	csrf      map[uint]string
}

func (f *fakeSessions) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return f.blacklist[token], nil
}

func (f *fakeSessions) CSRFToken(_ context.Context, staffID uint) (string, error) {
	return f.csrf[staffID], nil
}

func newEngine() (*gin.Engine, *fakeSessions) {
	tokens := fakeTokens{
		"admin-token": {StaffID: 1, Email: "root@library.test", Role: "admin"},
		"desk-token":  {StaffID: 2, Email: "desk@library.test", Role: "librarian"},
		"revoked":     {StaffID: 2, Role: "librarian"},
	}
	sessions := &fakeSessions{
		blacklist: map[string]bool{"revoked": true},
		csrf:      map[uint]string{1: "csrf-admin", 2: "csrf-desk"},
	}
	m := NewAuthMiddleware(tokens, sessions)

	r := gin.New()
	r.Use(RequestID())
	g := r.Group("", m.RequireAuth(), m.CSRF())
	g.GET("/whoami", func(c *gin.Context) {
		response.Success(c, gin.H{"id": GetStaffID(c), "role": GetRole(c), "token": GetAccessToken(c)})
	})
	g.POST("/write", func(c *gin.Context) { response.Success(c, nil) })
	g.POST("/admin", m.RequireRole("admin"), func(c *gin.Context) { response.Success(c, nil) })
	return r, sessions
}

func serve(r *gin.Engine, method, path, token, csrf string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if csrf != "" {
		req.Header.Set(CSRFHeader, csrf)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRequireAuth(t *testing.T) {
	r, _ := newEngine()

	tests := []struct {
		name     string
		token    string
		wantHTTP int
		wantCode int
	}{
		{"no header", "", http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"unknown token", "garbage", http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"revoked token", "revoked", http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"valid token", "desk-token", http.StatusOK, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(r, http.MethodGet, "/whoami", tt.token, "")
			assert.Equal(t, tt.wantHTTP, w.Code)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRequireAuth_SetsStaffContext(t *testing.T) {
	r, _ := newEngine()

	w, body := serve(r, http.MethodGet, "/whoami", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := body.Data.(map[string]interface{})
	assert.EqualValues(t, 1, data["id"])
	assert.Equal(t, "admin", data["role"])
	assert.Equal(t, "admin-token", data["token"])
}

func TestCSRF(t *testing.T) {
	r, _ := newEngine()

	tests := []struct {
		name     string
		csrf     string
		wantHTTP int
	}{
		{"missing", "", http.StatusForbidden},
		{"other staff's token", "csrf-admin", http.StatusForbidden},
		{"matching", "csrf-desk", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(r, http.MethodPost, "/write", "desk-token", tt.csrf)
			assert.Equal(t, tt.wantHTTP, w.Code)
			if tt.wantHTTP == http.StatusForbidden {
				assert.Equal(t, apperrors.ErrCodeCSRFInvalid, body.Code)
			}
		})
	}
}

func TestCSRF_NoSession(t *testing.T) {
	r, sessions := newEngine()
	delete(sessions.csrf, 2)

	w, _ := serve(r, http.MethodPost, "/write", "desk-token", "csrf-desk")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, _ := newEngine()

	w, body := serve(r, http.MethodPost, "/admin", "desk-token", "csrf-desk")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.ErrCodeForbidden, body.Code)

	w, _ = serve(r, http.MethodPost, "/admin", "admin-token", "csrf-admin")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r, _ := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "trace-me")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-me", w.Header().Get(RequestIDHeader))
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "trace-me", body.RequestID)

	w, body = serve(r, http.MethodGet, "/whoami", "", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), body.RequestID)
}
