package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappedRange_Remap(t *testing.T) {
	r := MappedRange{From: 3, To: 5, Span: ErrorSpan{Offset: 2, Length: 2}}

	t.Run("insert before shifts both ends", func(t *testing.T) {
		got, ok := r.Remap(NewMapping(StepMap{Start: 1, NewSize: 4}))
		require.True(t, ok)
		assert.Equal(t, Position(7), got.From)
		assert.Equal(t, Position(9), got.To)
		assert.Equal(t, r.Span, got.Span)
	})

	t.Run("typing at the start does not extend the range", func(t *testing.T) {
		got, ok := r.Remap(NewMapping(StepMap{Start: 3, NewSize: 1}))
		require.True(t, ok)
		assert.Equal(t, Position(4), got.From)
		assert.Equal(t, Position(6), got.To)
	})

	t.Run("typing at the end does not extend the range", func(t *testing.T) {
		got, ok := r.Remap(NewMapping(StepMap{Start: 5, NewSize: 1}))
		require.True(t, ok)
		assert.Equal(t, Position(3), got.From)
		assert.Equal(t, Position(5), got.To)
	})

	t.Run("deleting the whole range collapses it", func(t *testing.T) {
		_, ok := r.Remap(NewMapping(StepMap{Start: 2, OldSize: 4}))
		assert.False(t, ok)
	})

	t.Run("partial deletion shrinks it", func(t *testing.T) {
		got, ok := r.Remap(NewMapping(StepMap{Start: 4, OldSize: 3}))
		require.True(t, ok)
		assert.Equal(t, Position(3), got.From)
		assert.Equal(t, Position(4), got.To)
	})
}

func TestDecorationSet_At(t *testing.T) {
	set := DecorationSet{Ranges: []MappedRange{
		{From: 1, To: 3, Span: ErrorSpan{Message: "first"}},
		{From: 5, To: 9, Span: ErrorSpan{Message: "second"}},
	}}

	r, ok := set.At(6)
	require.True(t, ok)
	assert.Equal(t, "second", r.Span.Message)

	_, ok = set.At(3)
	assert.False(t, ok, "ranges are half-open")
	assert.Len(t, set.Ranges, 2)
}

func TestDecorationState_String(t *testing.T) {
	assert.Equal(t, "empty", DecorationsEmpty.String())
	assert.Equal(t, "live", DecorationsLive.String())
	assert.Equal(t, "unknown", DecorationState(9).String())
}

func TestEventFor(t *testing.T) {
	m := NewMapping(StepMap{Start: 1, NewSize: 1})

	ev := EventFor(DocumentChange{Mapping: m, Size: 10, Revision: 4})
	edited, ok := ev.(Edited)
	require.True(t, ok)
	assert.Equal(t, 10, edited.Size)
	assert.Equal(t, uint64(4), edited.Revision)

	ev = EventFor(DocumentChange{Forced: true, Revision: 5})
	cleared, ok := ev.(ForceCleared)
	require.True(t, ok)
	assert.Equal(t, uint64(5), cleared.Revision)
}
