package river_test

import (
	"testing"
	"time"

	riveradapter "github.com/baytino/listingflow/internal/adapter/river"
)

func TestParseSchedule_DailyAtTwo(t *testing.T) {
	schedule, err := riveradapter.ParseSchedule("0 2 * * *")
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}

	from := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	next := schedule.Next(from)
	want := time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", from, next, want)
	}

	// Just before the fire time on the same day.
	from = time.Date(2026, 3, 10, 1, 59, 0, 0, time.UTC)
	next = schedule.Next(from)
	want = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", from, next, want)
	}
}

func TestParseSchedule_Hourly(t *testing.T) {
	schedule, err := riveradapter.ParseSchedule("@hourly")
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}

	from := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	next := schedule.Next(from)
	want := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", from, next, want)
	}
}

func TestParseSchedule_InvalidExpression(t *testing.T) {
	for _, expr := range []string{"", "not a cron", "99 99 * * *"} {
		if _, err := riveradapter.ParseSchedule(expr); err == nil {
			t.Errorf("ParseSchedule(%q) succeeded, want error", expr)
		}
	}
}
