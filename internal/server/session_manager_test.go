package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"quizdeck-server/internal/quiz"
)

func TestMemorySessionStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewMemorySessionStore()

	_, err := store.Lookup(ctx, "missing")
	assert.Equal(quiz.KindUnauthorized, quiz.KindOf(err))

	assert.NoError(store.Put(ctx, AdminSession{Token: "tok-1", UserID: 7}))

	session, err := store.Lookup(ctx, "tok-1")
	assert.NoError(err)
	assert.Equal(7, session.UserID)

	all, err := store.All(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	assert.NoError(store.Remove(ctx, "tok-1"))
	_, err = store.Lookup(ctx, "tok-1")
	assert.Error(err)
}

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()

	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client, ttl), mini
}

func TestRedisSessionStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store, _ := newMiniredisStore(t, 0)

	_, err := store.Lookup(ctx, "missing")
	assert.Equal(quiz.KindUnauthorized, quiz.KindOf(err))

	assert.NoError(store.Put(ctx, AdminSession{Token: "tok-1", UserID: 7}))
	assert.NoError(store.Put(ctx, AdminSession{Token: "tok-2", UserID: 8}))

	session, err := store.Lookup(ctx, "tok-1")
	assert.NoError(err)
	assert.Equal(7, session.UserID)

	all, err := store.All(ctx)
	assert.NoError(err)
	assert.Len(all, 2)

	assert.NoError(store.Remove(ctx, "tok-1"))
	_, err = store.Lookup(ctx, "tok-1")
	assert.Equal(quiz.KindUnauthorized, quiz.KindOf(err))
}

func TestRedisSessionStoreTTL(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store, mini := newMiniredisStore(t, time.Minute)

	assert.NoError(store.Put(ctx, AdminSession{Token: "tok-1", UserID: 7}))

	mini.FastForward(2 * time.Minute)

	_, err := store.Lookup(ctx, "tok-1")
	assert.Equal(quiz.KindUnauthorized, quiz.KindOf(err))
}
