package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/baytino/listingflow/internal/domain"
)

// SweepResult reports the outcome of one purge sweep.
type SweepResult struct {
	// Purged is the number of listings permanently removed.
	Purged int
	// Failed is the number of eligible listings that could not be
	// removed; they stay eligible and the next sweep retries them.
	Failed int
	// Skipped is true when the sweep did not run because another sweep
	// was still in flight.
	Skipped bool
}

// Sweeper permanently removes listings whose retention window has
// elapsed. Runs are single-flight: a trigger that fires while a sweep is
// still running is skipped, not queued. The sweep is best-effort and
// continues past individual failures.
type Sweeper struct {
	repo    domain.ListingRepository
	clock   domain.Clock
	running atomic.Bool
}

// NewSweeper creates a purge sweeper over the given repository.
func NewSweeper(repo domain.ListingRepository, clock domain.Clock) *Sweeper {
	return &Sweeper{repo: repo, clock: clock}
}

// Run executes one purge sweep. It is safe to invoke manually alongside
// the scheduled trigger; already-purged listings are simply no longer
// eligible, so back-to-back runs are idempotent.
func (s *Sweeper) Run(ctx context.Context) (SweepResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		slog.InfoContext(ctx, "purge sweep already running, skipping")
		return SweepResult{Skipped: true}, nil
	}
	defer s.running.Store(false)

	now := s.clock.Now().UTC()

	eligible, err := s.repo.FindPurgeEligible(ctx, now)
	if err != nil {
		return SweepResult{}, fmt.Errorf("finding purge-eligible listings: %w", err)
	}

	var result SweepResult
	for _, listing := range eligible {
		if err := s.repo.HardDelete(ctx, listing.ID); err != nil {
			result.Failed++
			slog.ErrorContext(ctx, "purging listing failed",
				"listing_id", listing.ID,
				"purge_at", listing.PurgeAt,
				"error", err,
			)
			continue
		}
		result.Purged++
	}

	slog.InfoContext(ctx, "purge sweep finished",
		"eligible", len(eligible),
		"purged", result.Purged,
		"failed", result.Failed,
	)

	return result, nil
}
