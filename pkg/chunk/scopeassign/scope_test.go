package scopeassign

import (
	"testing"

	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/frametrack"
	"chunkdex/pkg/chunk/lang"
	"chunkdex/pkg/chunk/lexer"
	"chunkdex/pkg/chunk/relabel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexTrackRelabelAssign(t *testing.T, src string, mask lang.Mask) *chunk.List {
	t.Helper()
	lres := lexer.Lex([]byte(src), lexer.Options{Mask: mask})
	require.Empty(t, lres.Warnings)
	res, err := frametrack.Track(lres.List)
	require.NoError(t, err)
	relabel.Run(lres.List, res.Pairs)
	Assign(lres.List, res.Pairs)
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

func TestAssignTopLevelGetsGlobalScope(t *testing.T) {
	list := lexTrackRelabelAssign(t, "int a;\n", lang.C)
	a := findText(t, list, "a")
	assert.Equal(t, "<global>", a.Scope)
}

func TestAssignInsideFunctionBodyDecoratesWithBraces(t *testing.T) {
	list := lexTrackRelabelAssign(t, "void f(void) {\n  int x;\n}\n", lang.C)
	x := findText(t, list, "x")
	assert.Equal(t, "f{}", x.Scope)
}

func TestAssignNestedNamespaceClassChains(t *testing.T) {
	list := lexTrackRelabelAssign(t, "namespace N { class C { int a; }; }\n", lang.CPP)
	a := findText(t, list, "a")
	assert.Equal(t, "N:C", a.Scope)
}
