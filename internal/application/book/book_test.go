package book

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
)

type fakeService struct {
	gets    int
	books   map[uint]*book.Book
	deleted []uint
}

func (s *fakeService) List(context.Context, book.ListParams) ([]*book.Detail, int64, error) {
	return nil, 0, nil
}

func (s *fakeService) Get(_ context.Context, id uint) (*book.Detail, error) {
	s.gets++
	b, ok := s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &book.Detail{Book: b, AuthorName: "Frank Herbert"}, nil
}

func (s *fakeService) Create(_ context.Context, f book.Fields) (*book.Book, error) {
	b := &book.Book{ID: uint(len(s.books) + 1), Title: f.Title, ISBN: f.ISBN}
	s.books[b.ID] = b
	return b, nil
}

func (s *fakeService) Update(_ context.Context, id, _ uint, f book.Fields) (*book.Book, error) {
	b := s.books[id]
	b.Title = f.Title
	return b, nil
}

func (s *fakeService) Delete(_ context.Context, id uint) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mapCache struct {
	data map[string][]byte
}

func (c *mapCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func newUseCase() (*UseCase, *fakeService, *mapCache) {
	svc := &fakeService{books: map[uint]*book.Book{1: {ID: 1, Title: "Dune", ISBN: "9780441172719"}}}
	cache := &mapCache{data: map[string][]byte{}}
	return NewUseCase(svc, fakeTx{}, cache, time.Minute, 20), svc, cache
}

func TestGet_CacheAside(t *testing.T) {
	uc, svc, cache := newUseCase()

	first, err := uc.Get(context.Background(), 1)
	require.NoError(t, err)
	second, err := uc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, svc.gets)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, "Frank Herbert", second.AuthorName)
	assert.Contains(t, cache.data, application.BookDetailCacheKey(1))
}

func TestGet_NotFoundIsNotCached(t *testing.T) {
	uc, _, cache := newUseCase()

	_, err := uc.Get(context.Background(), 9)

	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Empty(t, cache.data)
}

func TestUpdate_InvalidatesDetailAndDashboard(t *testing.T) {
	uc, _, cache := newUseCase()
	_, err := uc.Get(context.Background(), 1)
	require.NoError(t, err)
	cache.data[application.DashboardCacheKey] = []byte(`{}`)

	got, err := uc.Update(context.Background(), 1, 1, book.Fields{Title: "Dune Messiah"})
	require.NoError(t, err)

	assert.Equal(t, "Dune Messiah", got.Title)
	assert.NotContains(t, cache.data, application.BookDetailCacheKey(1))
	assert.NotContains(t, cache.data, application.DashboardCacheKey)
}

func TestDelete_InvalidatesCache(t *testing.T) {
	uc, svc, cache := newUseCase()
	_, err := uc.Get(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), 1))

	assert.Equal(t, []uint{1}, svc.deleted)
	assert.Empty(t, cache.data)
}
