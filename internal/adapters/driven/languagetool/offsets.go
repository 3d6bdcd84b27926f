package languagetool

import (
	"sort"
	"unicode/utf8"
)

// utf16Index converts UTF-16 code unit offsets of a string to rune offsets.
type utf16Index struct {
	// starts[i] is the UTF-16 offset of rune i; the last entry is the total.
	starts []int
}

func newUTF16Index(text string) utf16Index {
	starts := make([]int, 0, utf8.RuneCountInString(text)+1)
	units := 0
	for _, r := range text {
		starts = append(starts, units)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	starts = append(starts, units)
	return utf16Index{starts: starts}
}

// runeOffset returns the rune offset for a UTF-16 offset. An offset inside a
// surrogate pair resolves to the rune it belongs to. Offsets past the end
// extrapolate one rune per unit.
func (x utf16Index) runeOffset(units int) int {
	total := x.starts[len(x.starts)-1]
	if units >= total {
		return len(x.starts) - 1 + (units - total)
	}
	i := sort.SearchInts(x.starts, units)
	if x.starts[i] == units {
		return i
	}
	return i - 1
}
