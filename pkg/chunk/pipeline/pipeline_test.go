package pipeline

import (
	"strings"
	"testing"

	"chunkdex/pkg/chunk/emit"
	"chunkdex/pkg/chunk/lang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renders runs Analyze and formats the result the way the text sink does,
// so assertions read exactly like the spec's worked FILE:LINE:COLUMN lines.
func render(t *testing.T, file, src string, mask lang.Mask) string {
	t.Helper()
	res, err := Analyze(file, []byte(src), mask, 0)
	require.NoError(t, err)
	var b strings.Builder
	require.NoError(t, emit.WriteText(&b, res.Records))
	return b.String()
}

func TestAnalyzeFunctionPrototype(t *testing.T) {
	out := render(t, "f.c", "int print_event_filter(void);\n", lang.C)
	assert.Contains(t, out, "f.c:1:5 <global> FUNCTION DECLARATION print_event_filter")
}

func TestAnalyzeFunctionDefinition(t *testing.T) {
	out := render(t, "f.c", "int print_event_filter(void) {\n  return 0;\n}\n", lang.C)
	assert.Contains(t, out, "f.c:1:5 <global> FUNCTION DEFINITION print_event_filter")
}

func TestAnalyzeFunctionCallInsideFunctionBody(t *testing.T) {
	src := "static void event_filter_read(void) {\n  int x = print_event_filter();\n}\n"
	out := render(t, "f.c", src, lang.C)
	assert.Contains(t, out, "event_filter_read{} FUNCTION REFERENCE print_event_filter")
}

func TestAnalyzeTypedefStruct(t *testing.T) {
	out := render(t, "f.c", "typedef struct foo { int a; } foo_t;\n", lang.C)
	assert.Contains(t, out, "STRUCT DEFINITION foo")
	assert.Contains(t, out, "foo VAR DEFINITION a")
	assert.Contains(t, out, "STRUCT_TYPE DEFINITION foo_t")
}

func TestAnalyzeNamespaceClassOutOfLineMethod(t *testing.T) {
	src := "namespace N { class C { void m(); }; }\nvoid N::C::m() {}\n"
	out := render(t, "f.cpp", src, lang.CPP)
	assert.Contains(t, out, "NAMESPACE DEFINITION N")
	assert.Contains(t, out, "N CLASS DEFINITION C")
	assert.Contains(t, out, "N:C() FUNCTION DECLARATION m")
	assert.Contains(t, out, "N:C{} FUNCTION DEFINITION m")
}

func TestAnalyzeFunctionMacro(t *testing.T) {
	out := render(t, "f.c", "#define MAX(a,b) ((a)>(b)?(a):(b))\n", lang.C)
	assert.Contains(t, out, "MACRO_FUNCTION DEFINITION MAX")
}

func TestAnalyzeOrderingNonDecreasing(t *testing.T) {
	src := "int a;\nint b;\nint c;\n"
	res, err := Analyze("f.c", []byte(src), lang.C, 0)
	require.NoError(t, err)
	for i := 1; i < len(res.Records); i++ {
		prev, cur := res.Records[i-1], res.Records[i]
		assert.True(t, cur.Line > prev.Line || (cur.Line == prev.Line && cur.Column >= prev.Column),
			"record %d (%v) out of order after %v", i, cur, prev)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	src := []byte("class A { void f() {} };\n")
	first, err := Analyze("f.cpp", src, lang.CPP, 0)
	require.NoError(t, err)
	second, err := Analyze("f.cpp", src, lang.CPP, 0)
	require.NoError(t, err)
	assert.Equal(t, first.Records, second.Records)
}

func TestAnalyzeNeverCrashesOnUnbalancedBrackets(t *testing.T) {
	_, err := Analyze("f.c", []byte("void f() { if (x) { \n"), lang.C, 0)
	assert.NoError(t, err)
}

func TestAnalyzeTabWidthAffectsColumn(t *testing.T) {
	src := "\tint a;\n"
	narrow, err := Analyze("f.c", []byte(src), lang.C, 2)
	require.NoError(t, err)
	wide, err := Analyze("f.c", []byte(src), lang.C, 8)
	require.NoError(t, err)
	require.NotEmpty(t, narrow.Records)
	require.NotEmpty(t, wide.Records)
	assert.Less(t, narrow.Records[0].Column, wide.Records[0].Column)
}
