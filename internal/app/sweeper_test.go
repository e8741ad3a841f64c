package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baytino/listingflow/internal/app"
	"github.com/baytino/listingflow/internal/domain"
)

func seedDeletedListing(repo *mockListingRepo, id string, deletedAt time.Time) {
	l := domain.NewListing(id, "Room", owner, deletedAt.Add(-time.Hour))
	l, _ = domain.SoftDeleteListing(l, deletedAt, 48*time.Hour)
	repo.listings[id] = l
}

func TestSweep_PurgesEligibleOnly(t *testing.T) {
	repo := newMockListingRepo()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	seedDeletedListing(repo, "expired", t0.Add(-49*time.Hour))
	seedDeletedListing(repo, "recent", t0.Add(-time.Hour))
	repo.listings["live"] = domain.NewListing("live", "Room", owner, t0)

	clock := &fakeClock{now: t0}
	sweeper := app.NewSweeper(repo, clock)

	result, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Purged != 1 {
		t.Errorf("Purged = %d, want 1", result.Purged)
	}

	if _, err := repo.GetByID(context.Background(), "expired"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Errorf("expired listing should be gone, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "recent"); err != nil {
		t.Errorf("recent listing should survive: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "live"); err != nil {
		t.Errorf("live listing should survive: %v", err)
	}
}

func TestSweep_SecondRunIsNoOp(t *testing.T) {
	repo := newMockListingRepo()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedDeletedListing(repo, "expired", t0.Add(-72*time.Hour))

	sweeper := app.NewSweeper(repo, &fakeClock{now: t0})
	ctx := context.Background()

	first, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if first.Purged != 1 {
		t.Errorf("first Purged = %d, want 1", first.Purged)
	}

	second, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.Purged != 0 || second.Failed != 0 {
		t.Errorf("second run = %+v, want no-op", second)
	}
}

func TestSweep_ContinuesPastFailures(t *testing.T) {
	repo := newMockListingRepo()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedDeletedListing(repo, "a", t0.Add(-72*time.Hour))
	seedDeletedListing(repo, "b", t0.Add(-72*time.Hour))
	seedDeletedListing(repo, "c", t0.Add(-72*time.Hour))
	repo.failDelete["b"] = errors.New("disk I/O error")

	sweeper := app.NewSweeper(repo, &fakeClock{now: t0})

	result, err := sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Purged != 2 {
		t.Errorf("Purged = %d, want 2", result.Purged)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}

	// The failed listing stays eligible for the next run.
	if _, err := repo.GetByID(context.Background(), "b"); err != nil {
		t.Errorf("failed listing should remain: %v", err)
	}
}

// blockingListingRepo parks FindPurgeEligible until released, so a test
// can hold a sweep in flight.
type blockingListingRepo struct {
	*mockListingRepo
	entered chan struct{}
	release chan struct{}
}

func (b *blockingListingRepo) FindPurgeEligible(ctx context.Context, now time.Time) ([]domain.Listing, error) {
	close(b.entered)
	<-b.release
	return b.mockListingRepo.FindPurgeEligible(ctx, now)
}

func TestSweep_SingleFlight(t *testing.T) {
	repo := &blockingListingRepo{
		mockListingRepo: newMockListingRepo(),
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	sweeper := app.NewSweeper(repo, &fakeClock{now: time.Now()})
	ctx := context.Background()

	done := make(chan app.SweepResult, 1)
	go func() {
		result, _ := sweeper.Run(ctx)
		done <- result
	}()

	<-repo.entered

	// A trigger firing during a running sweep is skipped, not queued.
	overlapping, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("overlapping Run failed: %v", err)
	}
	if !overlapping.Skipped {
		t.Error("overlapping run should be skipped")
	}

	close(repo.release)

	first := <-done
	if first.Skipped {
		t.Error("first run should not be skipped")
	}

	// With the sweep finished, a fresh trigger runs again.
	repo.entered = make(chan struct{})
	repo.release = make(chan struct{})
	close(repo.release)
	again, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("subsequent Run failed: %v", err)
	}
	if again.Skipped {
		t.Error("subsequent run should not be skipped")
	}
}
