package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

func TestRateLimiter_PerClientBurst(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "桶已空")
	assert.True(t, l.Allow("10.0.0.2"), "其他客户端不受影响")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "一秒后补充一个令牌")
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(limiterIdle + time.Minute)
	l.Allow("10.0.0.2")

	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
}

func TestRateLimiter_DisabledIsNil(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0, 5))
}

func TestRateLimiter_Middleware(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewRateLimiter(0.001, 1).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(addr string) (*httptest.ResponseRecorder, response.Response) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var body response.Response
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w, body
	}

	w, _ := do("203.0.113.7:5000")
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := do("203.0.113.7:5001")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperrors.ErrCodeTooManyRequests, body.Code)

	w, _ = do("203.0.113.8:5000")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_NilMiddlewarePassesThrough(t *testing.T) {
	var l *RateLimiter
	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
