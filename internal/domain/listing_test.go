package domain_test

import (
	"testing"
	"time"

	"github.com/baytino/listingflow/internal/domain"
)

func TestNewListing(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	owner := domain.Actor{ID: "u-1", Role: domain.RoleStudent}

	l := domain.NewListing("l-1", "Room near campus", owner, now)

	if l.ID != "l-1" {
		t.Errorf("ID = %q, want %q", l.ID, "l-1")
	}
	if l.Title != "Room near campus" {
		t.Errorf("Title = %q, want %q", l.Title, "Room near campus")
	}
	if l.OwnerID != "u-1" {
		t.Errorf("OwnerID = %q, want %q", l.OwnerID, "u-1")
	}
	if l.OwnerRole != domain.RoleStudent {
		t.Errorf("OwnerRole = %q, want %q", l.OwnerRole, domain.RoleStudent)
	}
	if l.Version != 1 {
		t.Errorf("Version = %d, want 1", l.Version)
	}
	if l.Deleted() {
		t.Error("new listing should not be deleted")
	}
	if l.CreatedAt != now {
		t.Errorf("CreatedAt = %v, want %v", l.CreatedAt, now)
	}
	if l.UpdatedAt != l.CreatedAt {
		t.Error("UpdatedAt should equal CreatedAt on new listing")
	}
}

func TestInitialStatus_TrustTiers(t *testing.T) {
	cases := []struct {
		role domain.Role
		want domain.Status
	}{
		{domain.RoleStudent, domain.StatusPending},
		{domain.RoleAgent, domain.StatusActive},
		{domain.RoleOwner, domain.StatusActive},
		{domain.RoleServiceProvider, domain.StatusPending},
	}

	for _, c := range cases {
		if got := domain.InitialStatus(c.role); got != c.want {
			t.Errorf("InitialStatus(%q) = %q, want %q", c.role, got, c.want)
		}
	}
}

func TestListingTransitions_PendingOnly(t *testing.T) {
	// Listings only move on the moderation axis out of pending; active
	// and rejected are stable under normal edits.
	for _, tr := range domain.ListingTransitions {
		if tr.Src != domain.StatusPending {
			t.Errorf("unexpected listing transition source %q", tr.Src)
		}
	}
}
