package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/baytino/listingflow/internal/app"
)

// PurgeJobArgs triggers one purge sweep. The job carries no data; the
// sweeper reads eligibility from the store at run time.
type PurgeJobArgs struct{}

// Kind returns the unique job type identifier used by River's job routing.
func (PurgeJobArgs) Kind() string { return "purge.sweep" }

// PurgeWorker runs the purge sweep when the scheduled (or a manually
// inserted) job fires. Overlap protection lives in the sweeper itself:
// a job firing while a sweep is in flight is skipped.
type PurgeWorker struct {
	river.WorkerDefaults[PurgeJobArgs]

	sweeper *app.Sweeper
}

// Work processes a single purge sweep job.
func (w *PurgeWorker) Work(ctx context.Context, job *river.Job[PurgeJobArgs]) error {
	result, err := w.sweeper.Run(ctx)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "scheduled purge sweep done",
		"purged", result.Purged,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
