package kafka

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type failingIdempotencyStore struct{}

func (failingIdempotencyStore) Contains(context.Context, string) (bool, error) {
	return false, errors.New("store unavailable")
}

func (failingIdempotencyStore) Add(context.Context, string) error {
	return errors.New("store unavailable")
}

// ---------------------------------------------------------------------------
// RedisIdempotencyStore
// ---------------------------------------------------------------------------

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisIdempotencyStore(client, "privacy:processed", ttl), mr
}

func TestRedisIdempotencyStore_AddAndContains(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	seen, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(ctx, "evt-1"))
	assert.True(t, mr.Exists("privacy:processed:evt-1"))
	assert.Equal(t, time.Hour, mr.TTL("privacy:processed:evt-1"))

	seen, err = store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestRedisIdempotencyStore_Expiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, "evt-1"))

	mr.FastForward(2 * time.Minute)

	seen, err := store.Contains(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisIdempotencyStore_ServerDown(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	mr.Close()

	_, err := store.Contains(context.Background(), "evt-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency lookup evt-1")

	err = store.Add(context.Background(), "evt-1")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// IdempotentHandler
// ---------------------------------------------------------------------------

func testEvent(eventID string) *Event {
	return &Event{EventID: eventID, EventType: "deindex.status_changed", AggregateID: "url-1"}
}

func countingHandler(calls *atomic.Int32, err error) Handler {
	return func(context.Context, *Event) error {
		calls.Add(1)
		return err
	}
}

func TestIdempotentHandler_SkipsDuplicate(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	var calls atomic.Int32
	h := IdempotentHandler(store, countingHandler(&calls, nil), testLogger())

	require.NoError(t, h(context.Background(), testEvent("evt-dup")))
	require.NoError(t, h(context.Background(), testEvent("evt-dup")))
	require.NoError(t, h(context.Background(), testEvent("evt-other")))

	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotentHandler_ConcurrentDuplicates(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	var calls atomic.Int32
	h := IdempotentHandler(store, countingHandler(&calls, nil), testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h(context.Background(), testEvent("evt-concurrent"))
		}()
	}
	wg.Wait()

	assert.True(t, mr.Exists("privacy:processed:evt-concurrent"))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	require.NoError(t, h(context.Background(), testEvent("evt-concurrent")))
	assert.LessOrEqual(t, calls.Load(), int32(20))
}

func TestIdempotentHandler_EmptyEventIDPassesThrough(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	var calls atomic.Int32
	h := IdempotentHandler(store, countingHandler(&calls, nil), testLogger())

	for i := 0; i < 3; i++ {
		require.NoError(t, h(context.Background(), testEvent("")))
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestIdempotentHandler_FailureNotRecorded(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	boom := errors.New("processing failed")
	var calls atomic.Int32
	h := IdempotentHandler(store, countingHandler(&calls, boom), testLogger())

	assert.ErrorIs(t, h(context.Background(), testEvent("evt-err")), boom)
	assert.ErrorIs(t, h(context.Background(), testEvent("evt-err")), boom)

	seen, err := store.Contains(context.Background(), "evt-err")
	require.NoError(t, err)
	assert.False(t, seen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotentHandler_StoreErrorProcessesAnyway(t *testing.T) {
	var calls atomic.Int32
	h := IdempotentHandler(failingIdempotencyStore{}, countingHandler(&calls, nil), testLogger())

	require.NoError(t, h(context.Background(), testEvent("evt-1")))
	assert.Equal(t, int32(1), calls.Load())
}
