package river

import (
	"fmt"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

// ParseSchedule parses a standard 5-field cron expression into a
// schedule River can drive periodic jobs with. cron.Schedule and
// river.PeriodicSchedule share the same Next contract, so the parsed
// schedule is used directly.
func ParseSchedule(expr string) (river.PeriodicSchedule, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing cron expression %q: %w", expr, err)
	}
	return schedule, nil
}
