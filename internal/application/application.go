// Package application 应用层：编排领域服务、事务、缓存与事件
package application

import (
	"context"
	"strconv"
	"time"

	"github.com/xiebiao/library/internal/domain/shared"
)

// TxManager 事务管理器（由sqlstore.TxManager实现）
// fn内的仓储调用通过ctx共享同一个事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache JSON缓存（由redis.Cache实现）
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// NopCache 关闭缓存时使用
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (NopCache) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error                           { return nil }

// EventPublisher 领域事件发布（事务提交后调用）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// 缓存Key
const DashboardCacheKey = "dashboard:summary"

// BookDetailCacheKey 图书详情缓存Key
func BookDetailCacheKey(id uint) string {
	return "book:detail:" + strconv.FormatUint(uint64(id), 10)
}

// Page 分页结果
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// NewPage 组装分页结果
func NewPage[T any](items []T, total int64, p shared.Page) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}
}
