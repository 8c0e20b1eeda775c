// Package book 图书管理用例
package book

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
)

// UseCase 图书管理用例
// 详情走cache-aside：读时回填，任何写操作后删除
type UseCase struct {
	books    book.Service
	tx       application.TxManager
	cache    application.Cache
	cacheTTL time.Duration
	pageSize int
}

// NewUseCase 创建图书管理用例
func NewUseCase(books book.Service, tx application.TxManager, cache application.Cache, cacheTTL time.Duration, pageSize int) *UseCase {
	return &UseCase{books: books, tx: tx, cache: cache, cacheTTL: cacheTTL, pageSize: pageSize}
}

func (uc *UseCase) List(ctx context.Context, params book.ListParams) (*application.Page[*book.Detail], error) {
	params.Page = params.Page.Normalize(uc.pageSize)
	list, total, err := uc.books.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return application.NewPage(list, total, params.Page), nil
}

// Get 查询图书详情
// 1. 先读缓存，缓存异常只记日志
// 2. 未命中查库并回填
func (uc *UseCase) Get(ctx context.Context, id uint) (*book.Detail, error) {
	log := logger.FromContext(ctx)
	key := application.BookDetailCacheKey(id)

	var cached book.Detail
	hit, err := uc.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		log.Warn("book cache read failed", "book_id", id, logger.Err(err))
	}
	if hit && cached.Book != nil {
		return &cached, nil
	}

	d, err := uc.books.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetJSON(ctx, key, d, uc.cacheTTL); err != nil {
		log.Warn("book cache write failed", "book_id", id, logger.Err(err))
	}
	return d, nil
}

func (uc *UseCase) Create(ctx context.Context, f book.Fields) (*book.Detail, error) {
	b, err := uc.books.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, 0)
	logger.FromContext(ctx).Info("book created", "book_id", b.ID, "isbn", b.ISBN)
	return uc.books.Get(ctx, b.ID)
}

func (uc *UseCase) Update(ctx context.Context, id, version uint, f book.Fields) (*book.Detail, error) {
	if _, err := uc.books.Update(ctx, id, version, f); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return uc.books.Get(ctx, id)
}

// Delete 借阅检查与删除在同一事务内
func (uc *UseCase) Delete(ctx context.Context, id uint) error {
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		return uc.books.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	logger.FromContext(ctx).Info("book deleted", "book_id", id)
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context, id uint) {
	keys := []string{application.DashboardCacheKey}
	if id > 0 {
		keys = append(keys, application.BookDetailCacheKey(id))
	}
	if err := uc.cache.Delete(ctx, keys...); err != nil {
		logger.FromContext(ctx).Warn("book cache invalidation failed", "book_id", id, logger.Err(err))
	}
}
