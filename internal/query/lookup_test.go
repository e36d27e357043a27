package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAny(t *testing.T) {
	assert.False(t, Filter{}.Any())
	assert.True(t, Filter{Defs: true}.Any())
	assert.True(t, Filter{Refs: true}.Any())
}

func TestLikePatternWildcards(t *testing.T) {
	assert.Equal(t, "print%", LikePattern("print*"))
	assert.Equal(t, "pr_nt", LikePattern("pr?nt"))
	assert.Equal(t, "%event%", LikePattern("*event*"))
}

func TestLikePatternEscapesLiteralSpecialChars(t *testing.T) {
	assert.Equal(t, `100\%`, LikePattern("100%"))
	assert.Equal(t, `a\_b`, LikePattern("a_b"))
	assert.Equal(t, `a\\b`, LikePattern(`a\b`))
}

func TestLikePatternPlainIdentifierUnchanged(t *testing.T) {
	assert.Equal(t, "printEventFilter", LikePattern("printEventFilter"))
}
