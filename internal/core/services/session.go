package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// Ensure EditorSession implements the interface.
var _ driving.EditorSession = (*EditorSession)(nil)

// EditorSession connects an editing surface to the decoration engine:
// edits feed the decoration store, the interaction controller and the
// scheduler; analysis results are filtered through the ledger, mapped onto
// a fresh flattening of the document and applied to the store.
type EditorSession struct {
	id         string
	surface    driven.EditingSurface
	ledger     *SuppressionLedger
	store      *DecorationStore
	scheduler  *AnalysisScheduler
	controller *InteractionController

	listeners   map[int]func()
	nextID      int
	unsubscribe func()
}

// NewEditorSession creates a session over surface. Clock and dispatcher
// determine the session thread: every callback runs through dispatcher.
func NewEditorSession(
	surface driven.EditingSurface,
	checker driven.GrammarChecker,
	ledger *SuppressionLedger,
	clock driven.Clock,
	dispatcher driven.Dispatcher,
	settings domain.AppSettings,
) *EditorSession {
	s := &EditorSession{
		id:        uuid.New().String(),
		surface:   surface,
		ledger:    ledger,
		store:     NewDecorationStore(),
		listeners: make(map[int]func()),
	}
	s.scheduler = NewAnalysisScheduler(checker, clock, dispatcher, settings.Checker, s.onAnalysis)
	s.scheduler.OnCheckingChanged(s.notify)
	// Other processes may ignore errors while this session is open.
	s.scheduler.OnBeforeCheck(ledger.Refresh)
	s.controller = NewInteractionController(
		surface, ledger, clock, dispatcher, settings.Interaction, s.CheckNow, s.notify,
	)
	return s
}

// ID returns the session identifier.
func (s *EditorSession) ID() string {
	return s.id
}

// Start subscribes to the editing surface and schedules the first check.
func (s *EditorSession) Start() {
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.surface.Subscribe(s.onDocumentChange)
	s.scheduler.OnDocumentChanged(Flatten(s.surface.Document()).Text)
}

// Close unsubscribes and stops pending timers and requests.
func (s *EditorSession) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.scheduler.Stop()
	s.controller.reset()
}

func (s *EditorSession) onDocumentChange(change domain.DocumentChange) {
	s.store.Apply(domain.EventFor(change))
	s.controller.OnDocumentChange(change)
	s.scheduler.OnDocumentChanged(Flatten(s.surface.Document()).Text)
	s.notify()
}

func (s *EditorSession) onAnalysis(res AnalysisResult) {
	doc := s.surface.Document()

	switch res.Outcome {
	case domain.OutcomeCleared:
		s.store.Apply(domain.AnalysisArrived{DocRevision: doc.Revision()})
	case domain.OutcomeApplied:
		spans := s.ledger.Filter(res.Text, res.Spans)
		ranges := MapSpans(Flatten(doc), spans)
		s.store.Apply(domain.AnalysisArrived{Ranges: ranges, DocRevision: doc.Revision()})
	case domain.OutcomeFailed:
		// Prior decorations stay visible.
	}
	s.notify()
}

// Decorations returns the live error ranges.
func (s *EditorSession) Decorations() []domain.MappedRange {
	return s.store.Decorations()
}

// DecorationAt returns the live error range containing pos.
func (s *EditorSession) DecorationAt(pos domain.Position) (domain.MappedRange, bool) {
	return s.store.At(pos)
}

// Focus returns the active error, if any.
func (s *EditorSession) Focus() (domain.Focus, bool) {
	return s.controller.Focus()
}

// Checking reports whether an analysis request is outstanding.
func (s *EditorSession) Checking() bool {
	return s.scheduler.Checking()
}

// IgnoredCount returns the number of distinct ignored errors.
func (s *EditorSession) IgnoredCount() int {
	return s.ledger.Count()
}

// ResetIgnored clears the ledger and schedules a debounced re-check.
func (s *EditorSession) ResetIgnored(ctx context.Context) error {
	if err := s.ledger.Clear(ctx); err != nil {
		return err
	}
	s.scheduler.OnDocumentChanged(Flatten(s.surface.Document()).Text)
	s.notify()
	return nil
}

// CheckNow analyses the current document without waiting for the quiet period.
func (s *EditorSession) CheckNow() {
	s.scheduler.CheckNow(Flatten(s.surface.Document()).Text)
	s.notify()
}

// PointerEnter reports the pointer moving onto an error.
func (s *EditorSession) PointerEnter(r domain.MappedRange, screen domain.ScreenPosition) {
	s.controller.PointerEnter(r, screen)
}

// PointerLeave reports the pointer leaving an error.
func (s *EditorSession) PointerLeave() {
	s.controller.PointerLeave()
}

// TooltipEnter reports the pointer moving into the tooltip.
func (s *EditorSession) TooltipEnter() {
	s.controller.TooltipEnter()
}

// TooltipLeave reports the pointer leaving the tooltip.
func (s *EditorSession) TooltipLeave() {
	s.controller.TooltipLeave()
}

// Click focuses an error immediately.
func (s *EditorSession) Click(r domain.MappedRange, screen domain.ScreenPosition) {
	s.controller.Click(r, screen)
}

// ClickOutside dismisses the active error.
func (s *EditorSession) ClickOutside() {
	s.controller.ClickOutside()
}

// Dismiss clears the active error.
func (s *EditorSession) Dismiss() {
	s.controller.Dismiss()
}

// Replace substitutes the active error with candidate.
func (s *EditorSession) Replace(candidate string) error {
	return s.controller.Replace(candidate)
}

// ReplaceAt substitutes the active error with its i-th suggestion.
func (s *EditorSession) ReplaceAt(i int) error {
	return s.controller.ReplaceAt(i)
}

// Ignore suppresses the active error and re-checks immediately.
func (s *EditorSession) Ignore(ctx context.Context) error {
	return s.controller.Ignore(ctx)
}

// Subscribe registers fn to run after every visible state change.
func (s *EditorSession) Subscribe(fn func()) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		delete(s.listeners, id)
	}
}

func (s *EditorSession) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}
