package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func setupTestCache(t *testing.T) (Service, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	return NewService(client), mock
}

func TestCacheGetHit(t *testing.T) {
	svc, mock := setupTestCache(t)
	defer mock.ClearExpect()

	want := cachedEvent{ID: "ev-1", Name: "Opening Night"}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet("boletera:events:detail:ev-1").SetVal(string(data))

	var got cachedEvent
	err = svc.Get(context.Background(), "boletera:events:detail:ev-1", &got)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetMiss(t *testing.T) {
	svc, mock := setupTestCache(t)
	defer mock.ClearExpect()

	mock.ExpectGet("boletera:events:detail:missing").RedisNil()

	var got cachedEvent
	err := svc.Get(context.Background(), "boletera:events:detail:missing", &got)

	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSet(t *testing.T) {
	svc, mock := setupTestCache(t)
	defer mock.ClearExpect()

	value := cachedEvent{ID: "ev-2", Name: "Closing Gala"}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	mock.ExpectSet("boletera:events:detail:ev-2", data, 5*time.Minute).SetVal("OK")

	err = svc.Set(context.Background(), "boletera:events:detail:ev-2", value, 5*time.Minute)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDeletePattern(t *testing.T) {
	svc, mock := setupTestCache(t)
	defer mock.ClearExpect()

	mock.ExpectKeys("boletera:zones:*").SetVal([]string{
		"boletera:zones:by_event:ev-1",
		"boletera:zones:by_event:ev-2",
	})
	mock.ExpectDel("boletera:zones:by_event:ev-1", "boletera:zones:by_event:ev-2").SetVal(2)

	err := svc.DeletePattern(context.Background(), "boletera:zones:*")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDeletePatternNoMatches(t *testing.T) {
	svc, mock := setupTestCache(t)
	defer mock.ClearExpect()

	mock.ExpectKeys("boletera:zones:*").SetVal([]string{})

	err := svc.DeletePattern(context.Background(), "boletera:zones:*")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetOrSetFetchesOnMiss(t *testing.T) {
	svc, mock := setupTestCache(t)
	defer mock.ClearExpect()

	fetched := cachedEvent{ID: "ev-3", Name: "Matinee"}
	data, err := json.Marshal(fetched)
	require.NoError(t, err)

	mock.ExpectGet("boletera:events:detail:ev-3").RedisNil()
	mock.ExpectSet("boletera:events:detail:ev-3", data, time.Minute).SetVal("OK")

	var got cachedEvent
	err = svc.GetOrSet(context.Background(), "boletera:events:detail:ev-3", time.Minute, func() (interface{}, error) {
		return fetched, nil
	}, &got)

	require.NoError(t, err)
	assert.Equal(t, fetched, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetOrSetFetcherError(t *testing.T) {
	svc, mock := setupTestCache(t)
	defer mock.ClearExpect()

	mock.ExpectGet("boletera:events:detail:ev-4").RedisNil()

	wantErr := errors.New("database unavailable")
	var got cachedEvent
	err := svc.GetOrSet(context.Background(), "boletera:events:detail:ev-4", time.Minute, func() (interface{}, error) {
		return nil, wantErr
	}, &got)

	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
