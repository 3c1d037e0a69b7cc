package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// memCounter keeps counters and TTLs in memory. -1 means no expiry.
type memCounter struct {
	counts    map[string]int64
	ttls      map[string]time.Duration
	expireErr error
}

func newMemCounter() *memCounter {
	return &memCounter{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if _, ok := m.counts[key]; !ok {
		m.ttls[key] = -1
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memCounter) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	if m.expireErr != nil {
		return redis.NewBoolResult(false, m.expireErr)
	}
	m.ttls[key] = d
	return redis.NewBoolResult(true, nil)
}

func (m *memCounter) TTL(_ context.Context, key string) *redis.DurationCmd {
	ttl, ok := m.ttls[key]
	if !ok {
		return redis.NewDurationResult(-2, nil)
	}
	return redis.NewDurationResult(ttl, nil)
}

func (m *memCounter) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.counts[k]; ok {
			n++
		}
		delete(m.counts, k)
		delete(m.ttls, k)
	}
	return redis.NewIntResult(n, nil)
}

func TestCheckLoginAttemptLimits(t *testing.T) {
	store := newMemCounter()
	rl := NewRateLimiter(store, 2, time.Minute)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		allowed, _, err := rl.CheckLoginAttempt(ctx, "10.0.0.1", "A@x.io")
		if err != nil {
			t.Fatal(err)
		}
		if allowed != want {
			t.Errorf("attempt %d: allowed = %v, want %v", i+1, allowed, want)
		}
	}
	if ttl := store.ttls[loginKey("10.0.0.1", "a@x.io")]; ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	if err := rl.ResetLoginAttempts(ctx, "10.0.0.1", "a@x.io"); err != nil {
		t.Fatal(err)
	}
	if allowed, remaining, _ := rl.CheckLoginAttempt(ctx, "10.0.0.1", "a@x.io"); !allowed || remaining != 1 {
		t.Errorf("after reset: allowed = %v, remaining = %d", allowed, remaining)
	}
}

func TestCheckLoginAttemptReportsExpireFailure(t *testing.T) {
	store := newMemCounter()
	store.expireErr = errors.New("READONLY")
	rl := NewRateLimiter(store, 5, time.Minute)

	if _, _, err := rl.CheckLoginAttempt(context.Background(), "ip", "a@x.io"); err == nil {
		t.Fatal("expected an error when the window cannot be set")
	}
}

func TestCheckLoginAttemptRepairsMissingExpiry(t *testing.T) {
	store := newMemCounter()
	store.expireErr = errors.New("READONLY")
	rl := NewRateLimiter(store, 5, time.Minute)
	ctx := context.Background()
	key := loginKey("ip", "a@x.io")

	_, _, _ = rl.CheckLoginAttempt(ctx, "ip", "a@x.io")
	if store.ttls[key] != -1 {
		t.Fatalf("ttl = %v, want none after failed expire", store.ttls[key])
	}

	store.expireErr = nil
	if _, _, err := rl.CheckLoginAttempt(ctx, "ip", "a@x.io"); err != nil {
		t.Fatal(err)
	}
	if store.ttls[key] != time.Minute {
		t.Errorf("ttl = %v, want the counter to expire again", store.ttls[key])
	}
}
