package rankcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"CedearScan/internal/domain/models"
	"CedearScan/internal/session"
	"CedearScan/pkg/cache"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func testResult(strategy models.Strategy) *models.RankedResult {
	return &models.RankedResult{
		Date:     "2026-08-19",
		Strategy: strategy,
		Total:    2,
		Entries: []models.ScoredAsset{
			{Ticker: "AAPL", Strategy: strategy, Score: 8},
			{Ticker: "KO", Strategy: strategy, Score: 5},
		},
	}
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *fakeClock, cache.Service) {
	t.Helper()
	cal := session.NewNYSECalendar()
	// Wednesday midday, session open.
	clock := &fakeClock{t: time.Date(2026, 8, 19, 12, 0, 0, 0, cal.Location())}
	store := cache.NewMemoryCache()
	return New(store, cal, clock, ttl), clock, store
}

func TestGetMissOnEmptyCache(t *testing.T) {
	c, _, _ := newTestCache(t, 5*time.Minute)
	if _, state := c.Get(context.Background(), models.StrategyMomentum); state != StateMiss {
		t.Fatalf("expected miss, got %s", state)
	}
}

func TestPutThenGetFresh(t *testing.T) {
	c, _, _ := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, testResult(models.StrategyMomentum)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, state := c.Get(ctx, models.StrategyMomentum)
	if state != StateFresh {
		t.Fatalf("expected fresh, got %s", state)
	}
	if got.Entries[0].Ticker != "AAPL" {
		t.Fatalf("unexpected cached content: %+v", got.Entries)
	}
}

func TestStaleWhenTTLElapsedAndSessionOpen(t *testing.T) {
	c, clock, _ := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, testResult(models.StrategyValue)); err != nil {
		t.Fatalf("put: %v", err)
	}
	clock.t = clock.t.Add(6 * time.Minute)

	got, state := c.Get(ctx, models.StrategyValue)
	if state != StateStale {
		t.Fatalf("expected stale after TTL during open session, got %s", state)
	}
	if got == nil {
		t.Fatalf("stale lookups must still return the entry")
	}
}

func TestFreshWhileSessionClosed(t *testing.T) {
	c, clock, _ := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, testResult(models.StrategyDefensive)); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Saturday, three days later: far past the TTL but the session is
	// closed, so the entry stays fresh.
	clock.t = clock.t.AddDate(0, 0, 3)

	if _, state := c.Get(ctx, models.StrategyDefensive); state != StateFresh {
		t.Fatalf("closed-session entry must stay fresh, got %s", state)
	}
}

func TestWithinTTLStaysFresh(t *testing.T) {
	c, clock, _ := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, testResult(models.StrategyMomentum)); err != nil {
		t.Fatalf("put: %v", err)
	}
	clock.t = clock.t.Add(4 * time.Minute)

	if _, state := c.Get(ctx, models.StrategyMomentum); state != StateFresh {
		t.Fatalf("entry inside TTL must be fresh, got %s", state)
	}
}

func TestCorruptEntryIsDropped(t *testing.T) {
	c, _, store := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, key(models.StrategyMomentum), "{not json", 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, state := c.Get(ctx, models.StrategyMomentum); state != StateMiss {
		t.Fatalf("corrupt entry must read as miss")
	}
	// The bad entry is gone: a second read is still a miss, not an error.
	if _, state := c.Get(ctx, models.StrategyMomentum); state != StateMiss {
		t.Fatalf("corrupt entry must be deleted after first read")
	}
}

func TestStrategyMismatchIsDropped(t *testing.T) {
	c, clock, store := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	// A value result stored under the momentum key counts as corruption.
	raw, err := json.Marshal(Entry{Result: testResult(models.StrategyValue), ComputedAt: clock.Now()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := store.Set(ctx, key(models.StrategyMomentum), string(raw), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, state := c.Get(ctx, models.StrategyMomentum); state != StateMiss {
		t.Fatalf("mismatched strategy must read as miss")
	}
}

func TestPutReplacesWholesale(t *testing.T) {
	c, _, _ := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, testResult(models.StrategyMomentum)); err != nil {
		t.Fatalf("put: %v", err)
	}
	updated := testResult(models.StrategyMomentum)
	updated.Entries = updated.Entries[:1]
	updated.Total = 1
	if err := c.Put(ctx, updated); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, state := c.Get(ctx, models.StrategyMomentum)
	if state != StateFresh || got.Total != 1 || len(got.Entries) != 1 {
		t.Fatalf("expected replaced entry, got state=%s result=%+v", state, got)
	}
}
