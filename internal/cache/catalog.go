// Package cache provides a best-effort Redis read-through cache in front of
// the event catalog. It is strictly read-side: availability shown from cache
// may lag by up to the TTL, and the purchase engine never consults it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/app"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/metrics"
)

const (
	versionKey     = "events:ver"
	eventKeyPrefix = "events:id:"
	listKeyPrefix  = "events:list:"
	categoriesKey  = "events:categories"
)

// Catalog decorates a CatalogRepository with Redis caching. Listing keys are
// namespaced by a version counter; catalog writes bump the counter, which
// orphans every cached listing at once instead of scanning for keys.
type Catalog struct {
	inner app.CatalogRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCatalog(inner app.CatalogRepository, rdb *redis.Client, ttl time.Duration) *Catalog {
	return &Catalog{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

func (c *Catalog) ListEvents(ctx context.Context, filter app.EventFilter) ([]domain.Event, error) {
	category := filter.Category
	if category == "All" {
		category = ""
	}
	key := listKeyPrefix + c.version(ctx) + ":" + category + ":" + filter.Search

	var cached []domain.Event
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	events, err := c.inner.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, events)
	return events, nil
}

func (c *Catalog) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	key := eventKeyPrefix + eventID

	var cached domain.Event
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	event, err := c.inner.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	c.set(ctx, key, event)
	return event, nil
}

func (c *Catalog) ListCategories(ctx context.Context) ([]string, error) {
	key := categoriesKey + ":" + c.version(ctx)

	var cached []string
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	categories, err := c.inner.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, categories)
	return categories, nil
}

func (c *Catalog) CreateEvent(ctx context.Context, event domain.Event) error {
	if err := c.inner.CreateEvent(ctx, event); err != nil {
		return err
	}
	c.invalidate(ctx, event.ID)
	return nil
}

func (c *Catalog) UpdateEvent(ctx context.Context, event domain.Event) error {
	if err := c.inner.UpdateEvent(ctx, event); err != nil {
		return err
	}
	c.invalidate(ctx, event.ID)
	return nil
}

func (c *Catalog) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.inner.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	c.invalidate(ctx, eventID)
	return nil
}

func (c *Catalog) version(ctx context.Context) string {
	v, err := c.rdb.Get(ctx, versionKey).Result()
	if err != nil {
		return "0"
	}
	return v
}

func (c *Catalog) get(ctx context.Context, key string, dest any) bool {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CatalogCacheMiss()
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		metrics.CatalogCacheMiss()
		return false
	}
	metrics.CatalogCacheHit()
	return true
}

func (c *Catalog) set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	// Best effort: a failed write only costs a future cache miss.
	_ = c.rdb.Set(ctx, key, payload, c.ttl).Err()
}

func (c *Catalog) invalidate(ctx context.Context, eventID string) {
	_ = c.rdb.Incr(ctx, versionKey).Err()
	_ = c.rdb.Del(ctx, eventKeyPrefix+eventID).Err()
}
