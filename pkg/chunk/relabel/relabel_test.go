package relabel

import (
	"testing"

	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/frametrack"
	"chunkdex/pkg/chunk/lang"
	"chunkdex/pkg/chunk/lexer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lexTrackRelabel runs every stage up to and including the re-labeler, the
// minimum pipeline prefix these tests need.
func lexTrackRelabel(t *testing.T, src string, mask lang.Mask) *chunk.List {
	t.Helper()
	lres := lexer.Lex([]byte(src), lexer.Options{Mask: mask})
	require.Empty(t, lres.Warnings)
	res, err := frametrack.Track(lres.List)
	require.NoError(t, err)
	Run(lres.List, res.Pairs)
	return lres.List
}

func findText(t *testing.T, list *chunk.List, text string) *chunk.Chunk {
	t.Helper()
	var found *chunk.Chunk
	list.Each(func(_ chunk.ID, c *chunk.Chunk) {
		if found == nil && c.Text == text {
			found = c
		}
	})
	require.NotNil(t, found, "no chunk with text %q", text)
	return found
}

func TestClassifyPointersStarAfterTypeBecomesPtrType(t *testing.T) {
	list := lexTrackRelabel(t, "int *p;\n", lang.C)
	star := findText(t, list, "*")
	assert.Equal(t, chunk.KindPtrType, star.Kind)
}

func TestClassifyPointersStarAfterValueStaysMultiplication(t *testing.T) {
	list := lexTrackRelabel(t, "int x = a * b;\n", lang.C)
	star := findText(t, list, "*")
	assert.Equal(t, chunk.KindStar, star.Kind)
}

func TestClassifyPointersAmpAfterValueBecomesBitwiseAnd(t *testing.T) {
	list := lexTrackRelabel(t, "int x = a & b;\n", lang.C)
	amp := findText(t, list, "&")
	assert.Equal(t, chunk.KindAmp, amp.Kind)
}

func TestClassifyPointersAmpBeforeIdentifierBecomesAddr(t *testing.T) {
	list := lexTrackRelabel(t, "int x = &a;\n", lang.C)
	amp := findText(t, list, "&")
	assert.Equal(t, chunk.KindAddr, amp.Kind)
}

func TestClassifyPointersAmpAfterTypeBecomesByRef(t *testing.T) {
	list := lexTrackRelabel(t, "void f(int &x);\n", lang.CPP)
	amp := findText(t, list, "&")
	assert.Equal(t, chunk.KindByRef, amp.Kind)
}

func TestClassifyVarDefsTypedefAggregateMemberBecomesVarDef(t *testing.T) {
	list := lexTrackRelabel(t, "typedef struct foo { int a; } foo_t;\n", lang.C)
	a := findText(t, list, "a")
	assert.True(t, a.Flags.Has(chunk.VarDef), "a member of a typedef'd struct should still be a VAR_DEF")
}

func TestClassifyVarDefsPostAggregateInlineDeclarator(t *testing.T) {
	list := lexTrackRelabel(t, "struct Foo { int a; } x;\n", lang.C)
	x := findText(t, list, "x")
	assert.True(t, x.Flags.Has(chunk.VarDef), "a variable declared right after a struct body should be a VAR_DEF")
	assert.True(t, x.Flags.Has(chunk.VarInline), "it should carry VAR_INLINE since there's no separate type-run")
}

func TestClassifyFunctionsCallParenBecomesFuncCall(t *testing.T) {
	list := lexTrackRelabel(t, "int x = add(1, 2);\n", lang.C)
	name := findText(t, list, "add")
	assert.Equal(t, chunk.KindFuncCall, name.Kind)
}

func TestClassifyFunctionsPrototypeBecomesFuncProto(t *testing.T) {
	list := lexTrackRelabel(t, "int add(int a, int b);\n", lang.C)
	name := findText(t, list, "add")
	assert.Equal(t, chunk.KindFuncProto, name.Kind)
}

func TestClassifyFunctionsDefinitionBecomesFuncDef(t *testing.T) {
	list := lexTrackRelabel(t, "int add(int a, int b) { return a + b; }\n", lang.C)
	name := findText(t, list, "add")
	assert.Equal(t, chunk.KindFuncDef, name.Kind)
}
