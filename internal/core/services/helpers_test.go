package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// fakeClock fires timers synchronously from Advance.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) driven.Timer {
	t := &fakeTimer{at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	for {
		due := make([]*fakeTimer, 0)
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(c.now) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		due[0].fired = true
		due[0].fn()
	}
}

// queueDispatcher collects callbacks until the test runs them.
type queueDispatcher struct {
	ch chan func()
}

func newQueueDispatcher() *queueDispatcher {
	return &queueDispatcher{ch: make(chan func(), 256)}
}

func (d *queueDispatcher) Dispatch(fn func()) {
	d.ch <- fn
}

// Drain runs every queued callback, including ones queued while draining.
func (d *queueDispatcher) Drain() {
	for {
		select {
		case fn := <-d.ch:
			fn()
		default:
			return
		}
	}
}

// Await waits for one callback from another goroutine, runs it and drains the rest.
func (d *queueDispatcher) Await(t *testing.T) {
	t.Helper()
	select {
	case fn := <-d.ch:
		fn()
		d.Drain()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a dispatched callback")
	}
}

type checkReply struct {
	spans []domain.ErrorSpan
	err   error
}

type pendingCheck struct {
	req   domain.AnalysisRequest
	reply chan checkReply
}

func (p *pendingCheck) respond(spans []domain.ErrorSpan, err error) {
	p.reply <- checkReply{spans: spans, err: err}
}

// fakeChecker hands every request to the test, which answers it explicitly,
// unless auto is set.
type fakeChecker struct {
	calls chan *pendingCheck
	auto  func(domain.AnalysisRequest) ([]domain.ErrorSpan, error)

	mu       sync.Mutex
	requests []domain.AnalysisRequest
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{calls: make(chan *pendingCheck, 16)}
}

func (f *fakeChecker) Check(_ context.Context, req domain.AnalysisRequest) ([]domain.ErrorSpan, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	auto := f.auto
	f.mu.Unlock()

	if auto != nil {
		return auto(req)
	}
	p := &pendingCheck{req: req, reply: make(chan checkReply, 1)}
	f.calls <- p
	r := <-p.reply
	return r.spans, r.err
}

func (f *fakeChecker) next(t *testing.T) *pendingCheck {
	t.Helper()
	select {
	case p := <-f.calls:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a provider request")
		return nil
	}
}

func (f *fakeChecker) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// textDoc is a document with one paragraph: the paragraph opens at 0 and
// its text starts at position 1.
type textDoc struct {
	text []rune
	rev  uint64
}

func (d *textDoc) Walk(v driven.DocumentVisitor) {
	if len(d.text) > 0 {
		v.VisitText(1, string(d.text))
	}
}

func (d *textDoc) Size() int { return len(d.text) + 2 }

func (d *textDoc) TextBetween(from, to domain.Position) string {
	start := max(int(from)-1, 0)
	end := min(int(to)-1, len(d.text))
	if start >= end {
		return ""
	}
	return string(d.text[start:end])
}

func (d *textDoc) Revision() uint64 { return d.rev }

// fakeSurface is an EditingSurface over a textDoc.
type fakeSurface struct {
	doc       *textDoc
	selection domain.Selection
	subs      map[int]func(domain.DocumentChange)
	nextSub   int
}

func newFakeSurface(text string) *fakeSurface {
	return &fakeSurface{
		doc:  &textDoc{text: []rune(text)},
		subs: make(map[int]func(domain.DocumentChange)),
	}
}

func (s *fakeSurface) Document() driven.Document { return s.doc }

func (s *fakeSurface) Text() string { return string(s.doc.text) }

func (s *fakeSurface) ReplaceRange(from, to domain.Position, text string) (domain.Mapping, error) {
	if from < 1 || to < from || int(to) > len(s.doc.text)+1 {
		return domain.Mapping{}, domain.ErrOutOfRange
	}
	inserted := []rune(text)
	start, end := int(from)-1, int(to)-1

	next := make([]rune, 0, len(s.doc.text)-(end-start)+len(inserted))
	next = append(next, s.doc.text[:start]...)
	next = append(next, inserted...)
	next = append(next, s.doc.text[end:]...)
	s.doc.text = next
	s.doc.rev++

	m := domain.NewMapping(domain.StepMap{Start: from, OldSize: int(to - from), NewSize: len(inserted)})
	cursor := from + domain.Position(len(inserted))
	s.selection = domain.Selection{Anchor: cursor, Head: cursor}
	s.emit(domain.DocumentChange{Mapping: m, Revision: s.doc.rev, Size: s.doc.Size()})
	return m, nil
}

// Type inserts text at pos.
func (s *fakeSurface) Type(pos domain.Position, text string) {
	if _, err := s.ReplaceRange(pos, pos, text); err != nil {
		panic(err)
	}
}

// Reload swaps the whole content with a forced change.
func (s *fakeSurface) Reload(text string) {
	s.doc.text = []rune(text)
	s.doc.rev++
	s.emit(domain.DocumentChange{Forced: true, Revision: s.doc.rev, Size: s.doc.Size()})
}

func (s *fakeSurface) Selection() domain.Selection { return s.selection }

func (s *fakeSurface) SetSelection(sel domain.Selection) { s.selection = sel }

func (s *fakeSurface) Subscribe(fn func(domain.DocumentChange)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *fakeSurface) emit(change domain.DocumentChange) {
	for _, fn := range s.subs {
		fn(change)
	}
}

// memoryLedgerStore is a SuppressionStore that can be made to fail.
type memoryLedgerStore struct {
	mu      sync.Mutex
	entries []domain.SuppressionEntry
	err     error
	loads   int
}

func (m *memoryLedgerStore) Load(context.Context) ([]domain.SuppressionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.SuppressionEntry(nil), m.entries...), nil
}

func (m *memoryLedgerStore) Append(_ context.Context, e domain.SuppressionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryLedgerStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = nil
	return nil
}

func testSettings() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func span(offset, length int, ruleID string, replacements ...string) domain.ErrorSpan {
	s := domain.ErrorSpan{Offset: offset, Length: length, Message: "problem", Replacements: replacements}
	if ruleID != "" {
		s.Rule = &domain.Rule{ID: ruleID}
	}
	return s
}
