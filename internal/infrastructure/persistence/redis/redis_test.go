package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	store := NewSessionStore(client)

	token, err := store.SaveSession(ctx, 7, map[string]interface{}{"email": "desk@library.test"}, time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	got, err := store.CSRFToken(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, token, got)

	session, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "desk@library.test", session["email"])

	// 重新登录换新令牌
	again, err := store.SaveSession(ctx, 7, map[string]interface{}{"email": "desk@library.test"}, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token, again)

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	got, err = store.CSRFToken(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionStore_Blacklist(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewSessionStore(client)

	require.NoError(t, store.AddToBlacklist(ctx, "tok", time.Minute))
	in, err := store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, in)

	mr.FastForward(2 * time.Minute)
	in, err = store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, in)
}

func TestCache_JSONRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	cache := NewCache(client)

	type entry struct {
		Title string `json:"title"`
	}

	var dst entry
	hit, err := cache.GetJSON(ctx, "book:detail:1", &dst)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.SetJSON(ctx, "book:detail:1", entry{Title: "Dune"}, time.Minute))
	hit, err = cache.GetJSON(ctx, "book:detail:1", &dst)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Dune", dst.Title)

	require.NoError(t, cache.Delete(ctx, "book:detail:1"))
	hit, err = cache.GetJSON(ctx, "book:detail:1", &dst)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, mr.Set("book:detail:2", "{not json"))
	hit, err = cache.GetJSON(ctx, "book:detail:2", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("book:detail:2"))
}
