package driven

import "time"

// Timer is a pending callback created by a Clock.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Clock abstracts time for the scheduler and the interaction controller.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls fn after d on an arbitrary goroutine.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Dispatcher posts work onto the goroutine that owns an editor session.
// Timer callbacks and provider completions go through it so that session
// state is only ever touched from one thread.
type Dispatcher interface {
	// Dispatch queues fn. It must not block on fn running.
	Dispatch(fn func())
}
