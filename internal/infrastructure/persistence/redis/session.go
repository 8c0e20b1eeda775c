package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// SessionStore 工作人员会话存储
// Key设计：
//   - session:{staff_id}  登录会话（Hash），过期时间同Refresh Token
//   - csrf:{staff_id}     防伪令牌，随会话一起创建和删除
//   - blacklist:{token}   登出后的Access Token，过期时间同Access Token
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(staffID uint) string { return fmt.Sprintf("session:%d", staffID) }
func csrfKey(staffID uint) string    { return fmt.Sprintf("csrf:%d", staffID) }
func blacklistKey(token string) string {
	return "blacklist:" + token
}

// SaveSession 保存会话并签发新的防伪令牌，返回令牌
func (s *SessionStore) SaveSession(ctx context.Context, staffID uint, data map[string]interface{}, ttl time.Duration) (string, error) {
	token, err := newCSRFToken()
	if err != nil {
		return "", apperrors.Wrap(err, "生成防伪令牌失败")
	}

	// 会话与令牌在同一个MULTI中写入
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(staffID))
		pipe.HSet(ctx, sessionKey(staffID), data)
		pipe.Expire(ctx, sessionKey(staffID), ttl)
		pipe.Set(ctx, csrfKey(staffID), token, ttl)
		return nil
	})
	if err != nil {
		return "", apperrors.WrapRedis(err, "保存会话失败")
	}
	return token, nil
}

// GetSession 获取会话，不存在返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, staffID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(staffID)).Result()
	if err != nil {
		return nil, apperrors.WrapRedis(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除会话和防伪令牌
func (s *SessionStore) DeleteSession(ctx context.Context, staffID uint) error {
	if err := s.client.Del(ctx, sessionKey(staffID), csrfKey(staffID)).Err(); err != nil {
		return apperrors.WrapRedis(err, "删除会话失败")
	}
	return nil
}

// CSRFToken 当前会话的防伪令牌，会话不存在时返回空串
func (s *SessionStore) CSRFToken(ctx context.Context, staffID uint) (string, error) {
	token, err := s.client.Get(ctx, csrfKey(staffID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.WrapRedis(err, "读取防伪令牌失败")
	}
	return token, nil
}

// AddToBlacklist 将Token加入黑名单
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WrapRedis(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.WrapRedis(err, "检查黑名单失败")
	}
	return n > 0, nil
}

func newCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
