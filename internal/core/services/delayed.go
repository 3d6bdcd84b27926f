package services

import (
	"time"

	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// delayedCall runs a callback on the session thread after a delay.
// Rescheduling or cancelling bumps a version so that a callback whose timer
// already fired, but which is still queued on the dispatcher, does nothing.
type delayedCall struct {
	clock      driven.Clock
	dispatcher driven.Dispatcher

	timer   driven.Timer
	version uint64
}

func newDelayedCall(clock driven.Clock, dispatcher driven.Dispatcher) *delayedCall {
	return &delayedCall{clock: clock, dispatcher: dispatcher}
}

// schedule replaces any pending callback with fn.
func (d *delayedCall) schedule(after time.Duration, fn func()) {
	d.cancel()
	version := d.version
	d.timer = d.clock.AfterFunc(after, func() {
		d.dispatcher.Dispatch(func() {
			if d.version != version {
				return
			}
			d.timer = nil
			fn()
		})
	})
}

// cancel drops the pending callback, if any.
func (d *delayedCall) cancel() {
	d.version++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// pending reports whether a callback is scheduled.
func (d *delayedCall) pending() bool {
	return d.timer != nil
}
