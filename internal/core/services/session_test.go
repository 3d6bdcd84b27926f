package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

type sessionHarness struct {
	clock      *fakeClock
	dispatcher *queueDispatcher
	checker    *fakeChecker
	surface    *fakeSurface
	store      *memoryLedgerStore
	ledger     *SuppressionLedger
	session    *EditorSession
	notified   int
}

func newSessionHarness(t *testing.T, text string) *sessionHarness {
	t.Helper()
	h := &sessionHarness{
		clock:      newFakeClock(),
		dispatcher: newQueueDispatcher(),
		checker:    newFakeChecker(),
		surface:    newFakeSurface(text),
	}
	h.store = &memoryLedgerStore{}
	h.ledger = NewSuppressionLedger(h.store, h.clock)
	h.session = NewEditorSession(h.surface, h.checker, h.ledger, h.clock, h.dispatcher, testSettings())
	h.session.Subscribe(func() { h.notified++ })
	h.session.Start()
	t.Cleanup(h.session.Close)
	return h
}

// quiet lets the debounce fire and waits for the provider answer.
func (h *sessionHarness) quiet(t *testing.T) {
	t.Helper()
	h.clock.Advance(time.Second)
	h.dispatcher.Drain()
	h.dispatcher.Await(t)
}

// agreementErrors reports every standalone "is" as a subject-verb error.
func agreementErrors(req domain.AnalysisRequest) ([]domain.ErrorSpan, error) {
	var spans []domain.ErrorSpan
	words := strings.Fields(req.Text)
	offset := 0
	for _, w := range words {
		offset = strings.Index(req.Text[offset:], w) + offset
		if w == "is" {
			spans = append(spans, domain.ErrorSpan{
				Offset:       offset,
				Length:       2,
				Message:      "Subject-verb agreement",
				Replacements: []string{"am"},
				Rule:         &domain.Rule{ID: "PERS_PRONOUN_AGREEMENT", IssueType: "grammar"},
			})
		}
		offset += len(w)
	}
	return spans, nil
}

func TestEditorSession_ID(t *testing.T) {
	h := newSessionHarness(t, "")
	assert.Len(t, h.session.ID(), 36)
}

func TestEditorSession_ReplaceScenario(t *testing.T) {
	h := newSessionHarness(t, "I is going to the store.")

	h.clock.Advance(time.Second)
	h.dispatcher.Drain()
	call := h.checker.next(t)
	assert.Equal(t, "I is going to the store.", call.req.Text)
	assert.True(t, h.session.Checking())

	call.respond([]domain.ErrorSpan{{
		Offset:       2,
		Length:       2,
		Message:      "Subject-verb agreement",
		Replacements: []string{"am"},
	}}, nil)
	h.dispatcher.Await(t)
	assert.False(t, h.session.Checking())

	ranges := h.session.Decorations()
	require.Len(t, ranges, 1)
	assert.Equal(t, "is", h.surface.Document().TextBetween(ranges[0].From, ranges[0].To))

	h.session.Click(ranges[0], domain.ScreenPosition{})
	require.NoError(t, h.session.Replace("am"))
	assert.Equal(t, "I am going to the store.", h.surface.Text())

	h.clock.Advance(time.Second)
	h.dispatcher.Drain()
	next := h.checker.next(t)
	assert.Equal(t, "I am going to the store.", next.req.Text)
	next.respond(nil, nil)
	h.dispatcher.Await(t)

	assert.Empty(t, h.session.Decorations())
	_, focused := h.session.Focus()
	assert.False(t, focused)
	assert.Positive(t, h.notified)
}

func TestEditorSession_IgnoreThenRetype(t *testing.T) {
	ctx := context.Background()
	h := newSessionHarness(t, "I is going to the store.")
	h.checker.auto = agreementErrors

	h.quiet(t)
	ranges := h.session.Decorations()
	require.Len(t, ranges, 1)

	h.session.Click(ranges[0], domain.ScreenPosition{})
	require.NoError(t, h.session.Ignore(ctx))
	assert.Equal(t, 1, h.session.IgnoredCount())

	// Ignore re-checks at once, without the quiet period.
	h.dispatcher.Await(t)
	assert.Empty(t, h.session.Decorations())
	assert.Equal(t, 2, h.checker.requestCount())

	h.surface.Type(25, " She is late.")
	h.quiet(t)
	assert.Empty(t, h.session.Decorations(), "the new occurrence is suppressed too")

	require.NoError(t, h.session.ResetIgnored(ctx))
	assert.Equal(t, 0, h.session.IgnoredCount())
	h.quiet(t)

	ranges = h.session.Decorations()
	require.Len(t, ranges, 2)
	for _, r := range ranges {
		assert.Equal(t, "is", h.surface.Document().TextBetween(r.From, r.To))
	}
}

func TestEditorSession_EditsReprojectDecorations(t *testing.T) {
	h := newSessionHarness(t, "I is going to the store.")
	h.checker.auto = agreementErrors
	h.quiet(t)

	h.surface.Type(1, "Well, ")

	ranges := h.session.Decorations()
	require.Len(t, ranges, 1)
	assert.Equal(t, "is", h.surface.Document().TextBetween(ranges[0].From, ranges[0].To))
	r, ok := h.session.DecorationAt(ranges[0].From)
	require.True(t, ok)
	assert.Equal(t, ranges[0], r)
}

func TestEditorSession_ForcedReloadClearsUntilNextResult(t *testing.T) {
	h := newSessionHarness(t, "I is going to the store.")
	h.checker.auto = agreementErrors
	h.quiet(t)
	require.Len(t, h.session.Decorations(), 1)

	h.surface.Reload("You is going home now.")
	assert.Empty(t, h.session.Decorations())

	h.quiet(t)
	ranges := h.session.Decorations()
	require.Len(t, ranges, 1)
	assert.Equal(t, domain.Position(5), ranges[0].From)
}

func TestEditorSession_ProviderFailureKeepsDecorations(t *testing.T) {
	h := newSessionHarness(t, "I is going to the store.")
	h.checker.auto = agreementErrors
	h.quiet(t)
	require.Len(t, h.session.Decorations(), 1)

	h.checker.auto = func(domain.AnalysisRequest) ([]domain.ErrorSpan, error) {
		return nil, domain.ErrProviderUnavailable
	}
	h.session.CheckNow()
	h.dispatcher.Await(t)

	assert.Len(t, h.session.Decorations(), 1)
	assert.False(t, h.session.Checking())
}

func TestEditorSession_ShortTextClears(t *testing.T) {
	h := newSessionHarness(t, "I is going to the store.")
	h.checker.auto = agreementErrors
	h.quiet(t)
	require.Len(t, h.session.Decorations(), 1)

	_, err := h.surface.ReplaceRange(1, 25, "I is")
	require.NoError(t, err)
	h.clock.Advance(time.Second)
	h.dispatcher.Drain()

	assert.Empty(t, h.session.Decorations())
	assert.Equal(t, 1, h.checker.requestCount())
}

func TestEditorSession_CloseStopsEverything(t *testing.T) {
	h := newSessionHarness(t, "I is going to the store.")

	h.session.Close()
	h.surface.Type(1, "x")
	h.clock.Advance(5 * time.Second)
	h.dispatcher.Drain()

	assert.Equal(t, 0, h.checker.requestCount())
	assert.Empty(t, h.surface.subs)
}

func TestEditorSession_SeesErrorsIgnoredElsewhere(t *testing.T) {
	ctx := context.Background()
	h := newSessionHarness(t, "I is going to the store.")
	h.checker.auto = agreementErrors

	h.quiet(t)
	require.Len(t, h.session.Decorations(), 1)

	// Another process shares the store and ignores the error.
	other := NewSuppressionLedger(h.store, h.clock)
	require.NoError(t, other.Add(ctx, "PERS_PRONOUN_AGREEMENT", "is"))

	h.surface.Type(25, " Really.")
	h.quiet(t)

	assert.Empty(t, h.session.Decorations())
	assert.Equal(t, 1, h.session.IgnoredCount())
}
