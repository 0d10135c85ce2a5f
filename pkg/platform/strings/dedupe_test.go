package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	t.Run("preserves first-occurrence order", func(t *testing.T) {
		got := DedupeAndTrim([]string{"b", "a", "b", "c", "a"})
		assert.Equal(t, []string{"b", "a", "c"}, got)
	})

	t.Run("trims before comparing", func(t *testing.T) {
		got := DedupeAndTrim([]string{" a ", "a", "  a"})
		assert.Equal(t, []string{"a"}, got)
	})

	t.Run("drops empty and whitespace-only values", func(t *testing.T) {
		got := DedupeAndTrim([]string{"", "  ", "a", ""})
		assert.Equal(t, []string{"a"}, got)
	})

	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, DedupeAndTrim(nil))
	})
}

func TestJoinDeduped(t *testing.T) {
	got := JoinDeduped([]string{"too short", " too short", "no digits"}, "; ")
	assert.Equal(t, "too short; no digits", got)
}
