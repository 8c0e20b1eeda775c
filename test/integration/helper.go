//go:build integration

// Package integration 针对运行中服务的黑盒测试
//
// 运行方式：
//
//	libraryctl create-staff --email it@library.test --name IT --role admin
//	LIBRARY_IT_EMAIL=it@library.test LIBRARY_IT_PASSWORD=... go test -tags integration ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// baseURL 服务地址，LIBRARY_IT_BASE_URL可覆盖
func baseURL() string {
	if u := os.Getenv("LIBRARY_IT_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080/api/v1"
}

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Session 登录后的Token与CSRF令牌
type Session struct {
	AccessToken string `json:"access_token"`
	CSRFToken   string `json:"csrf_token"`
}

// Login 用环境变量中的账号登录，未配置时跳过测试
func Login(t *testing.T) *Session {
	t.Helper()
	email, password := os.Getenv("LIBRARY_IT_EMAIL"), os.Getenv("LIBRARY_IT_PASSWORD")
	if email == "" || password == "" {
		t.Skip("LIBRARY_IT_EMAIL / LIBRARY_IT_PASSWORD未设置")
	}

	resp := Do(t, nil, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

	var s Session
	require.NoError(t, json.Unmarshal(resp.Data, &s))
	return &s
}

// Do 发送请求并解析统一响应
func Do(t *testing.T, s *Session, method, path string, data interface{}) *Response {
	t.Helper()
	var body io.Reader
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL()+path, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
		req.Header.Set("X-CSRF-Token", s.CSRFToken)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	result.Status = resp.StatusCode
	return &result
}

// Create POST并返回新记录ID
func Create(t *testing.T, s *Session, path string, data interface{}) uint {
	t.Helper()
	resp := Do(t, s, http.MethodPost, path, data)
	require.Equal(t, http.StatusCreated, resp.Status, "%s: %s %v", path, resp.Message, resp.Errors)

	var v struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v.ID
}

// unique 生成不重复的后缀，测试可重复运行
func unique() int64 {
	return time.Now().UnixNano()
}

// TestISBN 生成唯一的ISBN-13（978 + 10位数字）
func TestISBN() string {
	return fmt.Sprintf("978%010d", unique()%10000000000)
}

// TestEmail 生成唯一的读者邮箱
func TestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, unique())
}
