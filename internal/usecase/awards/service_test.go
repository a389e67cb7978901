package awards

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/citystory/placesearch/internal/db"
	"github.com/citystory/placesearch/internal/domain/moderation"
)

type fakeKVStore struct {
	data   map[string][]byte
	getErr error
}

func newFakeKVStore() *fakeKVStore {
	return &fakeKVStore{data: make(map[string][]byte)}
}

func (f *fakeKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKVStore) Set(_ context.Context, key string, value []byte) error {
	f.data[key] = value
	return nil
}

func (f *fakeKVStore) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	return f.Set(ctx, key, value)
}

func (f *fakeKVStore) Del(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKVStore) DelMulti(_ context.Context, keys []string) (int, error) {
	n := 0
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeKVStore) Scan(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func approvedEvent(owner string) moderation.Event {
	return moderation.NewEvent(moderation.EventApproved, "pl-1", owner, "mod-1",
		moderation.Pending, moderation.Approved)
}

func TestApprovalGrantsPointsAndFirstBadge(t *testing.T) {
	svc := New(newFakeKVStore(), zap.NewNop())
	ctx := context.Background()

	if err := svc.HandleModerationEvent(ctx, approvedEvent("u-1")); err != nil {
		t.Fatalf("HandleModerationEvent: %v", err)
	}

	p, err := svc.Profile(ctx, "u-1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Points != 10 || p.ApprovedCount != 1 {
		t.Errorf("points/count = %d/%d, want 10/1", p.Points, p.ApprovedCount)
	}
	if !p.HasBadge("first_place") {
		t.Errorf("badges = %v, want first_place", p.Badges)
	}
	if p.HasBadge("local_guide") {
		t.Error("local_guide granted too early")
	}
}

func TestBadgeThresholds(t *testing.T) {
	svc := New(newFakeKVStore(), zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := svc.HandleModerationEvent(ctx, approvedEvent("u-1")); err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
	}

	p, err := svc.Profile(ctx, "u-1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Points != 50 || p.ApprovedCount != 5 {
		t.Errorf("points/count = %d/%d, want 50/5", p.Points, p.ApprovedCount)
	}
	if !p.HasBadge("first_place") || !p.HasBadge("local_guide") {
		t.Errorf("badges = %v", p.Badges)
	}
	if p.HasBadge("city_expert") {
		t.Error("city_expert needs ten approvals")
	}

	// Badges are granted once.
	n := 0
	for _, b := range p.Badges {
		if b == "first_place" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("first_place appears %d times", n)
	}
}

func TestNonApprovalEventsIgnored(t *testing.T) {
	store := newFakeKVStore()
	svc := New(store, zap.NewNop())

	ev := moderation.NewEvent(moderation.EventRejected, "pl-1", "u-1", "mod-1",
		moderation.Pending, moderation.Rejected)
	if err := svc.HandleModerationEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleModerationEvent: %v", err)
	}
	if len(store.data) != 0 {
		t.Error("rejection should not touch award profiles")
	}
}

func TestProfileUnknownOwner(t *testing.T) {
	svc := New(newFakeKVStore(), zap.NewNop())

	p, err := svc.Profile(context.Background(), "u-new")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Points != 0 || len(p.Badges) != 0 || p.OwnerID != "u-new" {
		t.Errorf("fresh profile = %+v", p)
	}
}

func TestProfileStoreError(t *testing.T) {
	store := newFakeKVStore()
	store.getErr = errors.New("connection refused")
	svc := New(store, zap.NewNop())

	if _, err := svc.Profile(context.Background(), "u-1"); err == nil {
		t.Error("Profile should surface store errors")
	}
	if err := svc.HandleModerationEvent(context.Background(), approvedEvent("u-1")); err == nil {
		t.Error("HandleModerationEvent should surface store errors")
	}
}
