// Package awards grants points and badges to place owners as their
// submissions pass moderation. It consumes moderation events from the bus.
package awards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/citystory/placesearch/internal/db"
	"github.com/citystory/placesearch/internal/domain/moderation"
)

const (
	keyPrefix = "placesearch:awards:"

	// Points granted per approved place.
	pointsPerApproval = 10
)

// Profile is the accumulated award state of one owner.
type Profile struct {
	OwnerID       string   `json:"owner_id"`
	Points        int      `json:"points"`
	ApprovedCount int      `json:"approved_count"`
	Badges        []string `json:"badges,omitempty"`
}

// HasBadge reports whether the profile carries the badge code.
func (p *Profile) HasBadge(code string) bool {
	for _, b := range p.Badges {
		if b == code {
			return true
		}
	}
	return false
}

// Badge is a named achievement with an explicit requirement.
type Badge struct {
	Code        string
	Name        string
	Requirement func(p *Profile) bool
}

// badges lists every grantable badge. Evaluated in order on each approval;
// a badge is granted once and never revoked.
var badges = []Badge{
	{Code: "first_place", Name: "First Place Listed", Requirement: func(p *Profile) bool {
		return p.ApprovedCount >= 1
	}},
	{Code: "local_guide", Name: "Local Guide", Requirement: func(p *Profile) bool {
		return p.ApprovedCount >= 5
	}},
	{Code: "city_expert", Name: "City Expert", Requirement: func(p *Profile) bool {
		return p.ApprovedCount >= 10
	}},
}

// Service maintains owner award profiles.
type Service struct {
	store db.KVStore
	log   *zap.Logger
}

// New creates an awards service.
func New(store db.KVStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Profile loads the award profile of an owner. Owners with no awards yet get
// an empty profile, not an error.
func (s *Service) Profile(ctx context.Context, ownerID string) (Profile, error) {
	raw, err := s.store.Get(ctx, keyPrefix+ownerID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return Profile{OwnerID: ownerID}, nil
		}
		return Profile{}, fmt.Errorf("load awards for %s: %w", ownerID, err)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode awards for %s: %w", ownerID, err)
	}
	return p, nil
}

// HandleModerationEvent grants points and badges on approvals. Other event
// types are ignored.
func (s *Service) HandleModerationEvent(ctx context.Context, ev moderation.Event) error {
	if ev.Type != moderation.EventApproved || ev.OwnerID == "" {
		return nil
	}

	profile, err := s.Profile(ctx, ev.OwnerID)
	if err != nil {
		return err
	}

	profile.Points += pointsPerApproval
	profile.ApprovedCount++

	for _, b := range badges {
		if profile.HasBadge(b.Code) || !b.Requirement(&profile) {
			continue
		}
		profile.Badges = append(profile.Badges, b.Code)
		s.log.Info("badge granted",
			zap.String("owner_id", ev.OwnerID),
			zap.String("badge", b.Code),
		)
	}

	raw, err := json.Marshal(&profile)
	if err != nil {
		return fmt.Errorf("encode awards for %s: %w", ev.OwnerID, err)
	}
	if err := s.store.Set(ctx, keyPrefix+ev.OwnerID, raw); err != nil {
		return fmt.Errorf("store awards for %s: %w", ev.OwnerID, err)
	}
	return nil
}
