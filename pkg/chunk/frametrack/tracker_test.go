package frametrack

import (
	"strings"
	"testing"

	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/lang"
	"chunkdex/pkg/chunk/lexer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAndTrack(t *testing.T, src string, mask lang.Mask) (*chunk.List, Result) {
	t.Helper()
	lres := lexer.Lex([]byte(src), lexer.Options{Mask: mask})
	require.Empty(t, lres.Warnings)
	res, err := Track(lres.List)
	require.NoError(t, err)
	return lres.List, res
}

func findFirst(list *chunk.List, kind chunk.Kind) chunk.ID {
	var found chunk.ID = chunk.NoID
	list.Each(func(id chunk.ID, c *chunk.Chunk) {
		if found == chunk.NoID && c.Kind == kind {
			found = id
		}
	})
	return found
}

func TestTrackMatchesEveryBracketPair(t *testing.T) {
	list, res := lexAndTrack(t, "void f(int a) { if (a) { a = 1; } }\n", lang.C)

	opens := 0
	list.Each(func(id chunk.ID, c *chunk.Chunk) {
		if chunk.IsOpen(c.Kind) {
			opens++
			closeID, ok := res.Pairs[id]
			require.True(t, ok, "open bracket %v has no recorded pair", c.Kind)
			closeChunk := list.At(closeID)
			assert.Equal(t, chunk.Matching(c.Kind), closeChunk.Kind,
				"K_CLOSE must equal K_OPEN+1: open=%v close=%v", c.Kind, closeChunk.Kind)
			// the pairing must be reflexive.
			assert.Equal(t, id, res.Pairs[closeID])
		}
	})
	assert.Greater(t, opens, 0)
}

func TestTrackConditionParenBecomesSParen(t *testing.T) {
	list, _ := lexAndTrack(t, "if (x) { y(); }\n", lang.C)
	id := findFirst(list, chunk.KindSParenOpen)
	require.NotEqual(t, chunk.NoID, id)
	assert.Equal(t, chunk.KindIf, list.At(id).ParentKind)
}

func TestTrackCallParenBecomesFParen(t *testing.T) {
	list, _ := lexAndTrack(t, "int x = add(1, 2);\n", lang.C)
	id := findFirst(list, chunk.KindFParenOpen)
	require.NotEqual(t, chunk.NoID, id, "a paren following an identifier should be tagged FPAREN")
}

func TestTrackInsertsVirtualBracesAroundBareIfBody(t *testing.T) {
	list, _ := lexAndTrack(t, "if (x) y = 1;\n", lang.C)
	openID := findFirst(list, chunk.KindVBraceOpen)
	closeID := findFirst(list, chunk.KindVBraceClose)
	require.NotEqual(t, chunk.NoID, openID)
	require.NotEqual(t, chunk.NoID, closeID)
	assert.Equal(t, chunk.KindIf, list.At(openID).ParentKind)
	assert.Equal(t, chunk.KindIf, list.At(closeID).ParentKind)
}

func TestTrackRealBraceBodySkipsVirtualInsertion(t *testing.T) {
	list, _ := lexAndTrack(t, "if (x) { y = 1; }\n", lang.C)
	assert.Equal(t, chunk.NoID, findFirst(list, chunk.KindVBraceOpen))
}

func TestTrackBareDoWhileStillPairsBraces(t *testing.T) {
	list, res := lexAndTrack(t, "do x++; while (x < 10);\n", lang.C)
	openID := findFirst(list, chunk.KindVBraceOpen)
	require.NotEqual(t, chunk.NoID, openID)
	closeID, ok := res.Pairs[openID]
	require.True(t, ok)
	assert.Equal(t, chunk.KindVBraceClose, list.At(closeID).Kind)
}

func TestTrackCopyFlagPropagatesInsideClassBody(t *testing.T) {
	list, _ := lexAndTrack(t, "class C { int a; void f() {} };\n", lang.CPP)
	var sawFlagged bool
	list.Each(func(_ chunk.ID, c *chunk.Chunk) {
		if c.Text == "a" && c.Flags&chunk.InClass != 0 {
			sawFlagged = true
		}
	})
	assert.True(t, sawFlagged, "members declared inside a class body should carry InClass")

	// the flag must not leak past the closing brace.
	var afterClass bool
	seenSemi := 0
	list.Each(func(_ chunk.ID, c *chunk.Chunk) {
		if c.Kind == chunk.KindSemicolon || c.Kind == chunk.KindVSemicolon {
			seenSemi++
		}
		if seenSemi >= 2 && c.Text != "" && c.Flags&chunk.InClass != 0 {
			afterClass = true
		}
	})
	assert.False(t, afterClass)
}

func TestTrackNeverCrashesOnUnbalancedBrackets(t *testing.T) {
	lres := lexer.Lex([]byte("void f() { if (x) {\n"), lexer.Options{Mask: lang.C})
	res, err := Track(lres.List)
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Warnings)
}

func TestTrackTypedefRegionSpansAggregateBody(t *testing.T) {
	list, _ := lexAndTrack(t, "typedef struct foo { int a; } foo_t;\n", lang.C)

	var memberFlagged, aliasFlagged bool
	list.Each(func(_ chunk.ID, c *chunk.Chunk) {
		if c.Text == "a" && c.Flags&chunk.InTypedef != 0 {
			memberFlagged = true
		}
		if c.Text == "foo_t" && c.Flags&chunk.InTypedef != 0 {
			aliasFlagged = true
		}
	})
	assert.True(t, memberFlagged, "struct member should still carry InTypedef: the body's own ';' must not end the region")
	assert.True(t, aliasFlagged, "the alias name after the closing brace should carry InTypedef")

	var closeFlagged bool
	list.Each(func(_ chunk.ID, c *chunk.Chunk) {
		if c.Kind == chunk.KindBraceClose && c.Flags&chunk.InTypedef != 0 {
			closeFlagged = true
		}
	})
	assert.True(t, closeFlagged, "the aggregate's closing brace should carry InTypedef")
}

func TestTrackDeeplyNestedParensOverflow(t *testing.T) {
	var b strings.Builder
	b.WriteString("void f() { int x = ")
	for i := 0; i < chunk.MaxFrameDepth+10; i++ {
		b.WriteString("(")
	}
	b.WriteString("1")
	for i := 0; i < chunk.MaxFrameDepth+10; i++ {
		b.WriteString(")")
	}
	b.WriteString("; }\n")

	lres := lexer.Lex([]byte(b.String()), lexer.Options{Mask: lang.C})
	_, err := Track(lres.List)
	assert.ErrorIs(t, err, chunk.ErrFrameOverflow)
}
