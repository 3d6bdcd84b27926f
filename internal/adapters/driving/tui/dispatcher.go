package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/dispatch"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

var _ driven.Dispatcher = (*programDispatcher)(nil)

// programDispatcher runs session callbacks on the Bubbletea goroutine by
// posting them to the program as messages. Callbacks are queued on a
// dispatch.Loop first so Dispatch never blocks, even when called from
// inside Update.
type programDispatcher struct {
	loop *dispatch.Loop

	mu   sync.Mutex
	send func(tea.Msg)
}

func newProgramDispatcher() *programDispatcher {
	return &programDispatcher{loop: dispatch.NewLoop()}
}

// Dispatch queues fn for the program goroutine.
func (d *programDispatcher) Dispatch(fn func()) {
	d.loop.Dispatch(func() {
		d.mu.Lock()
		send := d.send
		d.mu.Unlock()
		if send != nil {
			send(messages.Dispatched{Fn: fn})
		}
	})
}

// attach sets where callbacks are delivered.
func (d *programDispatcher) attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	d.mu.Unlock()
}

// run forwards queued callbacks until ctx is cancelled or close is called.
func (d *programDispatcher) run(ctx context.Context) error {
	return d.loop.Run(ctx)
}

// close stops forwarding and returns how many queued callbacks were dropped.
func (d *programDispatcher) close() int {
	dropped := d.loop.Pending()
	d.loop.Close()
	if dropped > 0 {
		appLog.Debug("dropped %d queued session callbacks on exit", dropped)
	}
	return dropped
}
