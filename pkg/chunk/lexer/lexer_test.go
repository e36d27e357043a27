package lexer

import (
	"testing"

	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/lang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(list *chunk.List) []string {
	var out []string
	list.Each(func(_ chunk.ID, c *chunk.Chunk) { out = append(out, c.Text) })
	return out
}

func TestLexIdentifiersAndPunctuators(t *testing.T) {
	res := Lex([]byte("int x = 1;"), Options{Mask: lang.C})
	require.Empty(t, res.Warnings)
	got := texts(res.List)
	assert.Equal(t, []string{"int", "x", "=", "1", ";"}, got)
}

func TestLexRawCppStringTerminatesOnMatchingTag(t *testing.T) {
	src := `R"DELIM(a)not-the-end"b)DELIM" rest`
	res := Lex([]byte(src), Options{Mask: lang.CPP})
	got := texts(res.List)
	require.NotEmpty(t, got)
	assert.Equal(t, `R"DELIM(a)not-the-end"b)DELIM"`, got[0])
	assert.Equal(t, "rest", got[len(got)-1])
}

func TestLexStringSuffixRollsBackRealFormatMacroName(t *testing.T) {
	res := Lex([]byte(`"%"PRId64`), Options{Mask: lang.C})
	got := texts(res.List)
	assert.Equal(t, []string{`"%"`, "PRId64"}, got,
		"a real PRI*/SCN* macro name must not be glued onto the string as a literal suffix")
}

func TestLexStringSuffixGluesRealUserDefinedLiteral(t *testing.T) {
	res := Lex([]byte(`"foo"s`), Options{Mask: lang.CPP})
	got := texts(res.List)
	assert.Equal(t, []string{`"foo"s`}, got)
}

func TestLexNestableDComments(t *testing.T) {
	res := Lex([]byte("/+ outer /+ inner +/ still-outer +/ x;"), Options{Mask: lang.D})
	got := texts(res.List)
	// the whole nested comment is discarded; only "x" and ";" survive.
	assert.Equal(t, []string{"x", ";"}, got)
}

func TestLexLineContinuationNormalizedText(t *testing.T) {
	res := Lex([]byte("#define X \\\n  1\n"), Options{Mask: lang.C})
	found := false
	res.List.Each(func(_ chunk.ID, c *chunk.Chunk) {
		if c.Kind == chunk.KindNLCont {
			found = true
			assert.Equal(t, "\\\n", c.Text)
		}
	})
	assert.True(t, found, "expected an NL_CONT chunk")
}

func TestLexNumberSuffixesAndSeparators(t *testing.T) {
	res := Lex([]byte("1_000_000uLL"), Options{Mask: lang.C})
	got := texts(res.List)
	require.Len(t, got, 1)
	assert.Equal(t, "1_000_000uLL", got[0])
}
