// Package placesearch is the embedded client: the same search, moderation,
// and awards services the HTTP server runs, wired directly onto a store for
// use inside another Go process.
package placesearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/citystory/placesearch/internal/db"
	dbRedis "github.com/citystory/placesearch/internal/db/redis"
	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/result"
	"github.com/citystory/placesearch/internal/events"
	placerepo "github.com/citystory/placesearch/internal/repository/place"
	"github.com/citystory/placesearch/internal/repository/querycache"
	awardsuc "github.com/citystory/placesearch/internal/usecase/awards"
	moderationuc "github.com/citystory/placesearch/internal/usecase/moderation"
	searchuc "github.com/citystory/placesearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the placesearch SDK entry point.
type Client struct {
	store      db.Store
	places     *placerepo.Repository
	search     *searchuc.Service
	moderation *moderationuc.Service
	awards     *awardsuc.Service
	cfg        *clientConfig
}

// New creates a Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("placesearch: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("placesearch: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("placesearch: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	places := placerepo.NewRepository(store)

	var cache searchuc.ResultCache
	bus := events.NewBus(cfg.logger)
	if cfg.cacheTTL > 0 {
		qc := querycache.New(store, cfg.logger, querycache.Options{
			TTL:        cfg.cacheTTL,
			MaxResults: cfg.cacheMaxResults,
			KeyPrefix:  cfg.cachePrefix,
		})
		bus.Subscribe("query_cache", qc.HandleModerationEvent)
		cache = qc
	}

	awards := awardsuc.New(store, cfg.logger)
	bus.Subscribe("awards", awards.HandleModerationEvent)

	return &Client{
		store:      store,
		places:     places,
		search:     searchuc.New(places, cache).WithTuning(cfg.tuning),
		moderation: moderationuc.New(places, bus, cfg.logger),
		awards:     awards,
		cfg:        cfg,
	}
}

// Close releases the database connection.
func (c *Client) Close() {
	c.store.Close()
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// PutPlace stores or overwrites a place record.
func (c *Client) PutPlace(ctx context.Context, p *place.Place) error {
	return c.places.Put(ctx, p)
}

// GetPlace loads one place by id.
func (c *Client) GetPlace(ctx context.Context, id string) (place.Place, error) {
	return c.places.Get(ctx, id)
}

// DeletePlace removes a place record.
func (c *Client) DeletePlace(ctx context.Context, id string) error {
	return c.places.Delete(ctx, id)
}

// Submit moves a draft place into the review queue.
func (c *Client) Submit(ctx context.Context, placeID string) (place.Place, error) {
	return c.moderation.Submit(ctx, placeID)
}

// Approve publishes a pending place.
func (c *Client) Approve(ctx context.Context, placeID, moderatorID string) (place.Place, error) {
	return c.moderation.Approve(ctx, placeID, moderatorID)
}

// Reject removes a place from public results.
func (c *Client) Reject(ctx context.Context, placeID, moderatorID string) (place.Place, error) {
	return c.moderation.Reject(ctx, placeID, moderatorID)
}

// Awards loads the award profile of a place owner.
func (c *Client) Awards(ctx context.Context, ownerID string) (awardsuc.Profile, error) {
	return c.awards.Profile(ctx, ownerID)
}

// Search starts a fluent search query.
//
//	page, err := client.Search().Query("coffee").District("xinyi").Fuzzy().Do(ctx)
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c}
}

func (c *Client) runSearch(ctx context.Context, b *SearchBuilder) (*result.Page, error) {
	req, err := b.build(c.cfg.limits)
	if err != nil {
		return nil, err
	}
	return c.search.Search(ctx, req, b.viewer)
}
