// Package dispatch runs session work on a single goroutine.
//
// The editor session is single-threaded. Timer callbacks and provider
// completions arrive on arbitrary goroutines and are posted through a
// driven.Dispatcher; the Loop here drains them in order on one goroutine.
package dispatch

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// ErrClosed is returned by Do after the loop has stopped.
var ErrClosed = errors.New("dispatch: loop closed")

// Ensure Loop implements the interface.
var _ driven.Dispatcher = (*Loop)(nil)

// Loop is an unbounded FIFO of work executed by Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

// NewLoop creates a loop. Call Run to start executing work.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Dispatch queues fn without blocking. Work queued after Close is dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Dispatch(func() {
		defer close(finished)
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued work until ctx is cancelled or Close is called.
// A panicking callback is logged and does not stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			l.execute(fn)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 || l.closed {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("dispatch: callback panicked: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// Close stops the loop and discards pending work. It is safe to call twice.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	close(l.done)
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}
