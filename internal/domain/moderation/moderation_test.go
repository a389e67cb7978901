package moderation

import (
	"errors"
	"testing"

	"github.com/citystory/placesearch/internal/domain"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{Draft, Pending},
		{Pending, Approved},
		{Pending, Rejected},
		{Approved, Rejected},
		{Rejected, Pending},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be legal", tt.from, tt.to)
		}
	}

	forbidden := []struct{ from, to Status }{
		{Draft, Approved},
		{Draft, Rejected},
		{Approved, Pending},
		{Approved, Draft},
		{Rejected, Approved},
		{Pending, Draft},
		{Approved, Approved},
	}
	for _, tt := range forbidden {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be illegal", tt.from, tt.to)
		}
	}
}

func TestTransition(t *testing.T) {
	if err := Transition(Pending, Approved); err != nil {
		t.Errorf("Transition(pending, approved) = %v", err)
	}
	if err := Transition(Draft, Approved); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{Draft, Pending, Approved, Rejected} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("published").IsValid() {
		t.Error("unknown status accepted")
	}
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(EventApproved, "pl-1", "u-1", "mod-1", Pending, Approved)
	if ev.ID == "" {
		t.Error("event id not set")
	}
	if ev.At.IsZero() {
		t.Error("event timestamp not set")
	}
	if ev.Type != EventApproved || ev.PlaceID != "pl-1" || ev.From != Pending || ev.To != Approved {
		t.Errorf("event = %+v", ev)
	}

	other := NewEvent(EventApproved, "pl-1", "u-1", "mod-1", Pending, Approved)
	if other.ID == ev.ID {
		t.Error("event ids should be unique")
	}
}
