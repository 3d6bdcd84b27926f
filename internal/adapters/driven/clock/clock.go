// Package clock provides the wall-clock implementation of driven.Clock.
package clock

import (
	"time"

	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// Ensure System implements the interface.
var _ driven.Clock = System{}

// System is driven.Clock backed by the time package.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// AfterFunc calls fn on its own goroutine after d.
func (System) AfterFunc(d time.Duration, fn func()) driven.Timer {
	return time.AfterFunc(d, fn)
}
