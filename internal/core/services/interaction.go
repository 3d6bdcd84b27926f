package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/logger"
)

var focusLog = logger.For("focus")

// InteractionController owns the single active error of a session:
// hover and grace timing, and the replace, ignore and dismiss actions.
//
// Every method must be called on the session thread.
type InteractionController struct {
	surface  driven.EditingSurface
	ledger   *SuppressionLedger
	settings domain.InteractionSettings
	recheck  func()
	onChange func()

	focus       *domain.Focus
	pointerOver bool

	hover  *delayedCall
	grace  *delayedCall
	settle *delayedCall
}

// NewInteractionController creates a controller. recheck runs a
// non-debounced analysis of the current document; onChange is called after
// every focus transition.
func NewInteractionController(
	surface driven.EditingSurface,
	ledger *SuppressionLedger,
	clock driven.Clock,
	dispatcher driven.Dispatcher,
	settings domain.InteractionSettings,
	recheck func(),
	onChange func(),
) *InteractionController {
	return &InteractionController{
		surface:  surface,
		ledger:   ledger,
		settings: settings,
		recheck:  recheck,
		onChange: onChange,
		hover:    newDelayedCall(clock, dispatcher),
		grace:    newDelayedCall(clock, dispatcher),
		settle:   newDelayedCall(clock, dispatcher),
	}
}

// Focus returns the active error, if any.
func (c *InteractionController) Focus() (domain.Focus, bool) {
	if c.focus == nil {
		return domain.Focus{}, false
	}
	return *c.focus, true
}

// State returns the interaction state.
func (c *InteractionController) State() domain.FocusState {
	if c.focus == nil {
		return domain.FocusIdle
	}
	return c.focus.State
}

// PointerEnter reports that the pointer moved onto the error r.
func (c *InteractionController) PointerEnter(r domain.MappedRange, screen domain.ScreenPosition) {
	c.pointerOver = true

	if c.focus != nil && sameRange(c.focus.Range, r) {
		c.grace.cancel()
		return
	}
	if c.focus != nil && c.focus.State.IsSettling() {
		return
	}

	c.reset()
	c.focus = &domain.Focus{State: domain.FocusHovering, Range: r, Screen: screen}
	c.hover.schedule(c.settings.HoverDelay, func() {
		if c.focus == nil || c.focus.State != domain.FocusHovering || !c.pointerOver {
			return
		}
		c.focus.State = domain.FocusFocused
		c.changed()
	})
	c.changed()
}

// PointerLeave reports that the pointer left the error element.
func (c *InteractionController) PointerLeave() {
	c.pointerOver = false
	if c.focus == nil {
		return
	}

	switch c.focus.State {
	case domain.FocusHovering:
		c.idle()
	case domain.FocusFocused:
		c.startGrace()
	}
}

// TooltipEnter reports that the pointer moved into the tooltip.
func (c *InteractionController) TooltipEnter() {
	if c.focus == nil || c.focus.State == domain.FocusHovering {
		return
	}
	c.grace.cancel()
	if !c.focus.InteractionLock {
		c.focus.InteractionLock = true
		c.changed()
	}
}

// TooltipLeave reports that the pointer left the tooltip.
func (c *InteractionController) TooltipLeave() {
	if c.focus == nil {
		return
	}
	c.focus.InteractionLock = false
	if c.focus.State == domain.FocusFocused && !c.pointerOver {
		c.startGrace()
	}
	c.changed()
}

// Click focuses r immediately, without the hover delay.
func (c *InteractionController) Click(r domain.MappedRange, screen domain.ScreenPosition) {
	if c.focus != nil && c.focus.State.IsSettling() {
		return
	}
	c.reset()
	c.pointerOver = true
	c.focus = &domain.Focus{State: domain.FocusFocused, Range: r, Screen: screen}
	c.changed()
}

// ClickOutside dismisses the active error unless the pointer is in the tooltip.
func (c *InteractionController) ClickOutside() {
	if c.focus == nil || c.focus.InteractionLock || c.focus.State.IsSettling() {
		return
	}
	c.Dismiss()
}

// Dismiss clears the focus without touching the document or the ledger.
func (c *InteractionController) Dismiss() {
	if c.focus == nil {
		return
	}
	c.idle()
}

// Replace substitutes the focused error with candidate. A selection that
// lay outside the error is restored, mapped through the edit.
func (c *InteractionController) Replace(candidate string) error {
	if err := c.requireFocused(); err != nil {
		return err
	}

	r := c.focus.Range
	sel := c.surface.Selection()

	c.focus.State = domain.FocusReplacing
	c.focus.Applied = candidate
	c.focus.InteractionLock = false
	c.grace.cancel()

	mapping, err := c.surface.ReplaceRange(r.From, r.To, candidate)
	if err != nil {
		c.focus.State = domain.FocusFocused
		c.focus.Applied = ""
		return fmt.Errorf("replace %d-%d: %w", r.From, r.To, err)
	}

	if !sel.Overlaps(r.From, r.To) {
		c.surface.SetSelection(sel.Map(mapping))
	}

	focusLog.Debug("replaced %d-%d with %q", r.From, r.To, candidate)
	c.settleThenIdle(c.settings.ReplaceSettle)
	return nil
}

// ReplaceAt substitutes the focused error with its i-th suggestion.
func (c *InteractionController) ReplaceAt(i int) error {
	if err := c.requireFocused(); err != nil {
		return err
	}
	candidates := c.focus.Range.Span.Replacements
	if i < 0 || i >= len(candidates) {
		return fmt.Errorf("replacement %d of %d: %w", i, len(candidates), domain.ErrNoSuchReplacement)
	}
	return c.Replace(candidates[i])
}

// Ignore adds the focused error to the ledger and re-runs analysis at once
// so it disappears without waiting for the quiet period.
func (c *InteractionController) Ignore(ctx context.Context) error {
	if err := c.requireFocused(); err != nil {
		return err
	}

	r := c.focus.Range
	text := c.surface.Document().TextBetween(r.From, r.To)
	if err := c.ledger.Add(ctx, r.Span.RuleID(), text); err != nil {
		return err
	}

	c.focus.State = domain.FocusIgnoring
	c.focus.InteractionLock = false
	c.grace.cancel()
	c.changed()

	if c.recheck != nil {
		c.recheck()
	}
	c.settleThenIdle(c.settings.IgnoreSettle)
	return nil
}

// OnDocumentChange re-projects the focused range through an edit.
// Focus is dropped when its range collapses or positions are no longer
// trustworthy.
func (c *InteractionController) OnDocumentChange(change domain.DocumentChange) {
	if c.focus == nil {
		return
	}
	settling := c.focus.State.IsSettling()

	if change.Forced {
		if !settling {
			c.idle()
		}
		return
	}

	mapped, ok := c.focus.Range.Remap(change.Mapping)
	switch {
	case ok:
		c.focus.Range = mapped
	case settling:
		// The success display outlives the text it points at.
		pos := change.Mapping.Map(c.focus.Range.From, domain.AssocLeft)
		c.focus.Range = domain.MappedRange{From: pos, To: pos, Span: c.focus.Range.Span}
	default:
		c.idle()
	}
}

func (c *InteractionController) requireFocused() error {
	if c.focus == nil || c.focus.State == domain.FocusHovering {
		return domain.ErrNoActiveFocus
	}
	if c.focus.State.IsSettling() {
		return domain.ErrFocusBusy
	}
	return nil
}

func (c *InteractionController) startGrace() {
	if c.focus.InteractionLock {
		return
	}
	c.grace.schedule(c.settings.HoverOutGrace, func() {
		if c.focus == nil || c.focus.InteractionLock || c.pointerOver {
			return
		}
		c.idle()
	})
}

func (c *InteractionController) settleThenIdle(d time.Duration) {
	c.settle.schedule(d, c.idle)
	c.changed()
}

// reset stops all timers and drops the focus without notifying.
func (c *InteractionController) reset() {
	c.hover.cancel()
	c.grace.cancel()
	c.settle.cancel()
	c.focus = nil
}

func (c *InteractionController) idle() {
	c.reset()
	c.changed()
}

func (c *InteractionController) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func sameRange(a, b domain.MappedRange) bool {
	return a.From == b.From && a.To == b.To
}
