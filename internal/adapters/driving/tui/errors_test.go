package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errs := []error{ErrMissingSessionFactory, ErrMissingEditor, ErrInvalidPorts}

	for i, a := range errs {
		assert.Contains(t, a.Error(), "tui:")
		for j, b := range errs {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
