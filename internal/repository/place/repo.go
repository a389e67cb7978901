// Package place persists the searchable place read model in Redis hashes,
// one hash per place under a fixed key prefix.
package place

import (
	"context"
	"errors"
	"fmt"

	"github.com/citystory/placesearch/internal/db"
	"github.com/citystory/placesearch/internal/domain"
	"github.com/citystory/placesearch/internal/domain/place"
)

const keyPrefix = "placesearch:place:"

// Repository stores places in a hash-capable store.
type Repository struct {
	store db.HashStore
}

// NewRepository creates a place repository.
func NewRepository(store db.HashStore) *Repository {
	return &Repository{store: store}
}

func key(id string) string { return keyPrefix + id }

// Put writes a place record, overwriting any previous version.
func (r *Repository) Put(ctx context.Context, p *place.Place) error {
	if err := r.store.HSet(ctx, key(p.ID()), toHash(p)); err != nil {
		return fmt.Errorf("put place %s: %w", p.ID(), err)
	}
	return nil
}

// Get loads one place by id.
func (r *Repository) Get(ctx context.Context, id string) (place.Place, error) {
	h, err := r.store.HGetAll(ctx, key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return place.Place{}, fmt.Errorf("%w: %s", domain.ErrPlaceNotFound, id)
		}
		return place.Place{}, fmt.Errorf("get place %s: %w", id, err)
	}
	if len(h) == 0 {
		return place.Place{}, fmt.Errorf("%w: %s", domain.ErrPlaceNotFound, id)
	}
	return fromHash(h)
}

// All loads every stored place. The search pipeline runs over this full
// snapshot; the dataset is a city directory, not a web index.
func (r *Repository) All(ctx context.Context) ([]place.Place, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan places: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}

	out := make([]place.Place, 0, len(hashes))
	for _, h := range hashes {
		if len(h) == 0 {
			// Key expired between SCAN and HGETALL.
			continue
		}
		p, err := fromHash(h)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Delete removes a place record.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, key(id)); err != nil {
		return fmt.Errorf("delete place %s: %w", id, err)
	}
	return nil
}

// Exists reports whether a place record is stored.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, key(id))
	if err != nil {
		return false, fmt.Errorf("check place %s: %w", id, err)
	}
	return ok, nil
}
