package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for _, c := range []lipgloss.Color{
		theme.Primary, theme.Secondary, theme.Background, theme.Foreground,
		theme.Muted, theme.Success, theme.Warning, theme.Error, theme.Border,
	} {
		assert.NotEmpty(t, string(c))
	}
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate accent: %s", c)
		seen[c] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_EditorStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"Decorated":        styles.Decorated,
		"DecoratedFocused": styles.DecoratedFocused,
		"Cursor":           styles.Cursor,
		"Heading":          styles.Heading,
		"Code":             styles.Code,
		"Prefix":           styles.Prefix,
		"Tooltip":          styles.Tooltip,
		"Suggestion":       styles.Suggestion,
		"StatusBar":        styles.StatusBar,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
	}
}

func TestStyles_DecoratedIsUnderlined(t *testing.T) {
	styles := DefaultStyles()

	assert.True(t, styles.Decorated.GetUnderline())
	assert.True(t, styles.DecoratedFocused.GetUnderline())
	assert.True(t, styles.Cursor.GetReverse())
}

func TestStyles_TooltipHasBorder(t *testing.T) {
	styles := DefaultStyles()

	rendered := styles.Tooltip.Render("x")

	// One line of content plus top and bottom border.
	assert.Equal(t, 3, lipgloss.Height(rendered))
	assert.Equal(t, 5, lipgloss.Width(rendered))
}
