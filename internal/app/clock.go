package app

import (
	"time"

	"github.com/baytino/listingflow/internal/domain"
)

// SystemClock implements domain.Clock with the real wall clock.
type SystemClock struct{}

var _ domain.Clock = SystemClock{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
