package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "ys")

	mock.ExpectSet("ys:k", []byte("v"), time.Minute).SetVal("OK")
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	mock.ExpectGet("ys:k").SetVal("v")
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mock.ExpectGet("ys:missing").RedisNil()
	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheBackendError(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "ys")

	mock.ExpectGet("ys:k").SetErr(errors.New("connection refused"))
	_, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCacheMiss))
}

func TestRedisCacheCounter(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "ys")

	mock.ExpectIncr("ys:canary").SetVal(1)
	mock.ExpectExpire("ys:canary", 10*time.Second).SetVal(true)

	n, err := c.Increment(ctx, "canary")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := c.Expire(ctx, "canary", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}
