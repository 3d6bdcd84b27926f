package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/logger"
)

var schedLog = logger.For("scheduler")

// AnalysisResult is delivered to the scheduler's result handler on the
// session thread. Stale responses are never delivered.
type AnalysisResult struct {
	// Generation is the generation of the originating request.
	Generation uint64

	// Text is the exact text that was analysed.
	Text string

	// Spans are the provider matches. Nil unless Outcome is OutcomeApplied.
	Spans []domain.ErrorSpan

	// Outcome classifies the result.
	Outcome domain.AnalysisOutcome

	// Err is the provider error when Outcome is OutcomeFailed.
	Err error
}

// AnalysisScheduler debounces document changes and gates provider responses
// by generation so that an older, slower response never overwrites a newer one.
//
// Every method must be called on the session thread. Provider calls run on
// their own goroutines and report back through the dispatcher. In-flight
// requests are never cancelled; superseded ones are discarded on arrival.
type AnalysisScheduler struct {
	checker    driven.GrammarChecker
	dispatcher driven.Dispatcher
	settings   domain.CheckerSettings
	onResult    func(AnalysisResult)
	onChecking  func()
	beforeCheck func(context.Context)

	ctx    context.Context
	cancel context.CancelFunc

	debounce    *delayedCall
	pendingText string
	generation  uint64
	inFlight    int
	running     bool
}

// NewAnalysisScheduler creates a scheduler. onResult receives every applied,
// failed and cleared outcome on the session thread.
func NewAnalysisScheduler(
	checker driven.GrammarChecker,
	clock driven.Clock,
	dispatcher driven.Dispatcher,
	settings domain.CheckerSettings,
	onResult func(AnalysisResult),
) *AnalysisScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if settings.Language == "" {
		settings.Language = domain.DefaultLanguage
	}
	return &AnalysisScheduler{
		checker:    checker,
		dispatcher: dispatcher,
		settings:   settings,
		onResult:   onResult,
		ctx:        ctx,
		cancel:     cancel,
		debounce:   newDelayedCall(clock, dispatcher),
		running:    true,
	}
}

// OnDocumentChanged restarts the quiet period. Only the text of the last
// call within the window is analysed.
func (s *AnalysisScheduler) OnDocumentChanged(text string) {
	if !s.running {
		return
	}
	s.pendingText = text
	s.debounce.schedule(s.settings.QuietPeriod, func() {
		s.fire(s.pendingText)
	})
}

// CheckNow analyses text immediately, replacing any pending debounced check.
func (s *AnalysisScheduler) CheckNow(text string) {
	if !s.running {
		return
	}
	s.debounce.cancel()
	s.fire(text)
}

// OnCheckingChanged registers fn to run whenever Checking flips. On
// completion it runs after the result has been delivered.
func (s *AnalysisScheduler) OnCheckingChanged(fn func()) {
	s.onChecking = fn
}

// OnBeforeCheck registers fn to run on the request goroutine before each
// provider call.
func (s *AnalysisScheduler) OnBeforeCheck(fn func(context.Context)) {
	s.beforeCheck = fn
}

func (s *AnalysisScheduler) checkingChanged() {
	if s.onChecking != nil {
		s.onChecking()
	}
}

// Checking reports whether any request is outstanding.
func (s *AnalysisScheduler) Checking() bool {
	return s.inFlight > 0
}

// Generation returns the current generation counter.
func (s *AnalysisScheduler) Generation() uint64 {
	return s.generation
}

// Stop cancels the pending check and the context of in-flight requests.
// Responses arriving afterwards are dropped.
func (s *AnalysisScheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.debounce.cancel()
	s.cancel()
}

func (s *AnalysisScheduler) fire(text string) {
	// Any response still in flight describes text that is now out of date.
	s.generation++

	if utf8.RuneCountInString(strings.TrimSpace(text)) < s.settings.MinimumLength {
		schedLog.Debug("text below %d characters, clearing errors", s.settings.MinimumLength)
		s.deliver(AnalysisResult{Generation: s.generation, Text: text, Outcome: domain.OutcomeCleared})
		return
	}

	req := domain.AnalysisRequest{
		Generation:    s.generation,
		Text:          text,
		Language:      s.settings.Language,
		DisabledRules: s.settings.DisabledRules,
	}
	s.inFlight++
	if s.inFlight == 1 {
		s.checkingChanged()
	}
	schedLog.Debug("generation %d: checking %d characters", req.Generation, utf8.RuneCountInString(text))

	ctx, before := s.ctx, s.beforeCheck
	go func() {
		if before != nil {
			before(ctx)
		}
		spans, err := s.checker.Check(ctx, req)
		s.dispatcher.Dispatch(func() {
			s.complete(req, spans, err)
		})
	}()
}

func (s *AnalysisScheduler) complete(req domain.AnalysisRequest, spans []domain.ErrorSpan, err error) {
	s.inFlight--
	if !s.running {
		return
	}
	if s.inFlight == 0 {
		defer s.checkingChanged()
	}
	if req.Generation != s.generation {
		schedLog.Debug("generation %d is stale (current %d), discarding", req.Generation, s.generation)
		return
	}
	if err != nil {
		schedLog.Warn("generation %d: analysis failed: %v", req.Generation, err)
		s.deliver(AnalysisResult{Generation: req.Generation, Text: req.Text, Outcome: domain.OutcomeFailed, Err: err})
		return
	}
	schedLog.Debug("generation %d: %d matches", req.Generation, len(spans))
	s.deliver(AnalysisResult{Generation: req.Generation, Text: req.Text, Spans: spans, Outcome: domain.OutcomeApplied})
}

func (s *AnalysisScheduler) deliver(res AnalysisResult) {
	if s.onResult != nil {
		s.onResult(res)
	}
}
