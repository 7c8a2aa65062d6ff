package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyStore_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisIdempotencyStore(db, time.Hour)

	mock.ExpectGet(redisKeyPrefix + "k").RedisNil()

	cached, found, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisIdempotencyStore_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisIdempotencyStore(db, time.Hour)

	payload, err := json.Marshal(&CachedResponse{
		StatusCode: http.StatusCreated,
		Headers:    http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(`{"data":{}}`),
	})
	require.NoError(t, err)
	mock.ExpectGet(redisKeyPrefix + "k").SetVal(string(payload))

	cached, found, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, http.StatusCreated, cached.StatusCode)
	assert.Equal(t, `{"data":{}}`, string(cached.Body))
	assert.Equal(t, "application/json", cached.Headers.Get("Content-Type"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisIdempotencyStore_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisIdempotencyStore(db, time.Hour)

	mock.ExpectGet(redisKeyPrefix + "k").SetErr(errors.New("connection refused"))

	_, found, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisIdempotencyStore_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisIdempotencyStore(db, 10*time.Minute)

	mock.Regexp().ExpectSetNX(redisKeyPrefix+"k", `.*`, 10*time.Minute).SetVal(true)

	err := store.Set(context.Background(), "k", &CachedResponse{StatusCode: http.StatusCreated})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisIdempotencyStore_SetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisIdempotencyStore(db, 10*time.Minute)

	mock.Regexp().ExpectSetNX(redisKeyPrefix+"k", `.*`, 10*time.Minute).SetErr(errors.New("readonly"))

	err := store.Set(context.Background(), "k", &CachedResponse{StatusCode: http.StatusCreated})
	assert.Error(t, err)
}
