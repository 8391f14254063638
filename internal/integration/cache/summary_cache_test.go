package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/backend/internal/application/usecase/stats"
)

func newTestCache(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSummaryCache(client), server
}

func sampleSummary() *stats.PresentationSummary {
	return &stats.PresentationSummary{
		TotalIn:     decimal.RequireFromString("1000"),
		TotalOut:    decimal.RequireFromString("400"),
		Net:         decimal.RequireFromString("600"),
		Count:       2,
		SavingsRate: decimal.RequireFromString("60"),
		Currency:    "BRL",
	}
}

func TestSummaryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a summary", func(t *testing.T) {
		cache, _ := newTestCache(t)
		userID := uuid.New()

		if err := cache.Set(ctx, userID, "month:100:200", sampleSummary(), time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := cache.Get(ctx, userID, "month:100:200")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected a cache hit")
		}
		if !got.Net.Equal(decimal.RequireFromString("600")) || got.Currency != "BRL" {
			t.Errorf("expected stored summary back, got %+v", got)
		}
	})

	t.Run("missing key is a miss not an error", func(t *testing.T) {
		cache, _ := newTestCache(t)

		got, err := cache.Get(ctx, uuid.New(), "month:100:200")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected a miss, got %+v", got)
		}
	})

	t.Run("corrupt payload is a miss not an error", func(t *testing.T) {
		cache, server := newTestCache(t)
		userID := uuid.New()

		server.Set(summaryKey(userID, "month:100:200"), "{not json")

		got, err := cache.Get(ctx, userID, "month:100:200")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected a miss, got %+v", got)
		}
	})

	t.Run("entries expire after the TTL", func(t *testing.T) {
		cache, server := newTestCache(t)
		userID := uuid.New()

		if err := cache.Set(ctx, userID, "month:100:200", sampleSummary(), time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		server.FastForward(2 * time.Minute)

		got, err := cache.Get(ctx, userID, "month:100:200")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected expired entry to miss, got %+v", got)
		}
	})

	t.Run("invalidation drops every summary of the user", func(t *testing.T) {
		cache, _ := newTestCache(t)
		userID := uuid.New()
		otherID := uuid.New()

		for _, key := range []string{"month:100:200", "week:300:400"} {
			if err := cache.Set(ctx, userID, key, sampleSummary(), time.Minute); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if err := cache.Set(ctx, otherID, "month:100:200", sampleSummary(), time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := cache.InvalidateUser(ctx, userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, key := range []string{"month:100:200", "week:300:400"} {
			got, err := cache.Get(ctx, userID, key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != nil {
				t.Errorf("expected %s invalidated, got %+v", key, got)
			}
		}

		kept, err := cache.Get(ctx, otherID, "month:100:200")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if kept == nil {
			t.Error("expected other users' summaries to survive")
		}
	})

	t.Run("invalidating a user with no summaries succeeds", func(t *testing.T) {
		cache, _ := newTestCache(t)
		if err := cache.InvalidateUser(ctx, uuid.New()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
