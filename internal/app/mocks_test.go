package app_test

import (
	"context"
	"time"

	"github.com/baytino/listingflow/internal/domain"
)

// fakeClock is a manually advanced domain.Clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// stubValidator resolves transitions straight from the domain tables.
type stubValidator struct{}

func (stubValidator) Apply(_ context.Context, kind domain.EntityKind, current domain.Status, action domain.Action) (domain.Status, error) {
	table := domain.PostTransitions
	if kind == domain.KindListing {
		table = domain.ListingTransitions
	}
	for _, tr := range table {
		if tr.Action == action && tr.Src == current {
			return tr.Dst, nil
		}
	}
	return "", &domain.TransitionError{Action: action, Current: current}
}

// mockListingRepo is an in-memory ListingRepository with version-checked
// updates. afterGet, when set, runs after each GetByID to let tests
// interleave a concurrent writer between read and commit.
type mockListingRepo struct {
	listings map[string]domain.Listing

	afterGet      func()
	failDelete    map[string]error
	eligibleCalls int
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{
		listings:   make(map[string]domain.Listing),
		failDelete: make(map[string]error),
	}
}

func (m *mockListingRepo) Create(_ context.Context, l domain.Listing) error {
	m.listings[l.ID] = l
	return nil
}

func (m *mockListingRepo) GetByID(_ context.Context, id string) (domain.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	if m.afterGet != nil {
		hook := m.afterGet
		m.afterGet = nil
		hook()
	}
	return l, nil
}

func (m *mockListingRepo) List(_ context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range m.listings {
		if l.Deleted() && !filter.IncludeDeleted {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.OwnerID != "" && l.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockListingRepo) Update(_ context.Context, l domain.Listing, expectedVersion int64) error {
	stored, ok := m.listings[l.ID]
	if !ok {
		return domain.ErrListingNotFound
	}
	if stored.Version != expectedVersion {
		return &domain.ConflictError{ID: l.ID}
	}
	m.listings[l.ID] = l
	return nil
}

func (m *mockListingRepo) FindPurgeEligible(_ context.Context, now time.Time) ([]domain.Listing, error) {
	m.eligibleCalls++
	var out []domain.Listing
	for _, l := range m.listings {
		if domain.PurgeEligible(l, now) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) HardDelete(_ context.Context, id string) error {
	if err, ok := m.failDelete[id]; ok {
		return err
	}
	if _, ok := m.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(m.listings, id)
	return nil
}

// mockPostRepo is an in-memory PostRepository with version-checked
// updates.
type mockPostRepo struct {
	posts    map[string]domain.Post
	afterGet func()
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]domain.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, p domain.Post) error {
	m.posts[p.ID] = p
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (domain.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrPostNotFound
	}
	if m.afterGet != nil {
		hook := m.afterGet
		m.afterGet = nil
		hook()
	}
	return p, nil
}

func (m *mockPostRepo) List(_ context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	var out []domain.Post
	for _, p := range m.posts {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPostRepo) Update(_ context.Context, p domain.Post, expectedVersion int64) error {
	stored, ok := m.posts[p.ID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if stored.Version != expectedVersion {
		return &domain.ConflictError{ID: p.ID}
	}
	m.posts[p.ID] = p
	return nil
}

// mockDispatcher records notifications and optionally fails.
type mockDispatcher struct {
	sent []domain.Notification
	err  error
}

func (m *mockDispatcher) Notify(_ context.Context, n domain.Notification) error {
	m.sent = append(m.sent, n)
	return m.err
}
