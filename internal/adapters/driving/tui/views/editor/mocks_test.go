package editor

import (
	"context"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

var _ driving.EditorSession = (*fakeSession)(nil)

// fakeSession records interaction calls and serves canned state.
type fakeSession struct {
	decorations []domain.MappedRange
	focus       *domain.Focus
	checking    bool
	ignored     int

	calls      []string
	screens    []domain.ScreenPosition
	replacedAt []int
	replaceErr error
}

func (f *fakeSession) ID() string { return "test" }
func (f *fakeSession) Start() { f.calls = append(f.calls, "start") }
func (f *fakeSession) Close() { f.calls = append(f.calls, "close") }

func (f *fakeSession) Decorations() []domain.MappedRange { return f.decorations }

func (f *fakeSession) DecorationAt(pos domain.Position) (domain.MappedRange, bool) {
	for _, r := range f.decorations {
		if r.Contains(pos) {
			return r, true
		}
	}
	return domain.MappedRange{}, false
}

func (f *fakeSession) Focus() (domain.Focus, bool) {
	if f.focus == nil {
		return domain.Focus{}, false
	}
	return *f.focus, true
}

func (f *fakeSession) Checking() bool { return f.checking }
func (f *fakeSession) IgnoredCount() int { return f.ignored }

func (f *fakeSession) ResetIgnored(context.Context) error {
	f.calls = append(f.calls, "reset")
	f.ignored = 0
	return nil
}

func (f *fakeSession) CheckNow() { f.calls = append(f.calls, "check") }

func (f *fakeSession) PointerEnter(r domain.MappedRange, screen domain.ScreenPosition) {
	f.calls = append(f.calls, "enter")
	f.screens = append(f.screens, screen)
	f.focus = &domain.Focus{State: domain.FocusHovering, Range: r, Screen: screen}
}

func (f *fakeSession) PointerLeave() { f.calls = append(f.calls, "leave") }
func (f *fakeSession) TooltipEnter() { f.calls = append(f.calls, "tooltip-enter") }
func (f *fakeSession) TooltipLeave() { f.calls = append(f.calls, "tooltip-leave") }

func (f *fakeSession) ClickOutside() {
	f.calls = append(f.calls, "outside")
	f.focus = nil
}

func (f *fakeSession) Dismiss() {
	f.calls = append(f.calls, "dismiss")
	f.focus = nil
}

func (f *fakeSession) Click(r domain.MappedRange, screen domain.ScreenPosition) {
	f.calls = append(f.calls, "click")
	f.screens = append(f.screens, screen)
	f.focus = &domain.Focus{State: domain.FocusFocused, Range: r, Screen: screen}
}

func (f *fakeSession) Replace(candidate string) error {
	f.calls = append(f.calls, "replace:"+candidate)
	return f.replaceErr
}

func (f *fakeSession) ReplaceAt(i int) error {
	f.replacedAt = append(f.replacedAt, i)
	return f.replaceErr
}

func (f *fakeSession) Ignore(context.Context) error {
	if f.focus == nil {
		return domain.ErrNoActiveFocus
	}
	f.calls = append(f.calls, "ignore")
	f.ignored++
	return nil
}

func (f *fakeSession) Subscribe(func()) func() { return func() {} }

func (f *fakeSession) last() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}
