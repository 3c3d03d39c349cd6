package rankcache

import (
	"context"
	"encoding/json"
	"time"

	"CedearScan/internal/domain/models"
	"CedearScan/internal/session"
	"CedearScan/pkg/cache"
)

// State is the lifecycle state of a cached ranking.
type State string

const (
	StateMiss  State = "miss"
	StateFresh State = "fresh"
	StateStale State = "stale"
)

// Entry wraps a RankedResult with its computation timestamp. Entries are
// replaced wholesale, never partially updated.
type Entry struct {
	Result     *models.RankedResult `json:"result"`
	ComputedAt time.Time            `json:"computed_at"`
}

// Cache is the session-aware ranking cache. A fresh entry only goes
// stale when the TTL has elapsed AND the exchange session is open: data
// upstream does not change outside trading hours, so recomputing on TTL
// alone would be wasted provider calls. Backed by the shared cache
// layer, so entries survive restarts when Redis is configured.
type Cache struct {
	store    cache.Service
	calendar *session.Calendar
	clock    session.Clock
	ttl      time.Duration
}

// New builds a Cache over the given store. Entries are stored without a
// store-level expiration; staleness is decided here, where the session
// state is known.
func New(store cache.Service, calendar *session.Calendar, clock session.Clock, ttl time.Duration) *Cache {
	return &Cache{store: store, calendar: calendar, clock: clock, ttl: ttl}
}

func key(s models.Strategy) string {
	return cache.GenerateKey("rankings", string(s))
}

// Get returns the cached ranking for the strategy and its state. A
// corrupt entry (bad JSON, strategy mismatch) is dropped and reported as
// a miss, which forces recomputation of that entry only.
func (c *Cache) Get(ctx context.Context, strategy models.Strategy) (*models.RankedResult, State) {
	var raw string
	if err := c.store.Get(ctx, key(strategy), &raw); err != nil {
		// Backend trouble degrades to recomputation rather than failure.
		return nil, StateMiss
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil || e.Result == nil || e.Result.Strategy != strategy {
		_ = c.store.Delete(ctx, key(strategy))
		return nil, StateMiss
	}

	now := c.clock.Now()
	if now.Sub(e.ComputedAt) > c.ttl && c.calendar.IsOpen(now) {
		return e.Result, StateStale
	}
	return e.Result, StateFresh
}

// Put replaces the cache entry for the result's strategy.
func (c *Cache) Put(ctx context.Context, result *models.RankedResult) error {
	e := Entry{Result: result, ComputedAt: c.clock.Now()}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	// No store-level TTL: an entry computed on Friday must still serve
	// on Sunday.
	return c.store.Set(ctx, key(result.Strategy), string(raw), 0)
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration { return c.ttl }
