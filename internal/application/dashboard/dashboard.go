// Package dashboard 首页统计用例
package dashboard

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/dashboard"
	"github.com/xiebiao/library/pkg/logger"
)

const recentLimit = 5

// UseCase 首页统计（Redis缓存，借还与编目变更时失效）
type UseCase struct {
	reader dashboard.Reader
	cache  application.Cache
	ttl    time.Duration
}

// NewUseCase 创建首页统计用例
func NewUseCase(reader dashboard.Reader, cache application.Cache, ttl time.Duration) *UseCase {
	return &UseCase{reader: reader, cache: cache, ttl: ttl}
}

// Summary 首页统计
func (uc *UseCase) Summary(ctx context.Context) (*dashboard.Summary, error) {
	log := logger.FromContext(ctx)

	var cached dashboard.Summary
	hit, err := uc.cache.GetJSON(ctx, application.DashboardCacheKey, &cached)
	if err != nil {
		log.Warn("dashboard cache read failed", logger.Err(err))
	}
	if hit {
		return &cached, nil
	}

	s, err := uc.reader.Summary(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetJSON(ctx, application.DashboardCacheKey, s, uc.ttl); err != nil {
		log.Warn("dashboard cache write failed", logger.Err(err))
	}
	return s, nil
}
