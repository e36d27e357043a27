package tables

import (
	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/lang"
)

// punctEntry is one row of the static punctuator table.
type punctEntry struct {
	text  string
	langs lang.Mask
	kind  chunk.Kind
}

// punctuatorsByFirstByte is a trie indexed by first character: each bucket
// holds every punctuator starting with that byte, pre-sorted longest-first
// so a linear scan finds the longest match in one pass.
var punctuatorsByFirstByte = buildPunctuatorTrie([]punctEntry{
	{"<<=", lang.All, chunk.KindAssign},
	{">>=", lang.All, chunk.KindAssign},
	{"<=>", lang.CPP, chunk.KindCompare},
	{"...", lang.C | lang.CPP | lang.CS, chunk.KindOtherOp},
	{"::", lang.CPP | lang.CS | lang.D | lang.VALA, chunk.KindDCMember},
	{"->", lang.C | lang.CPP | lang.CS | lang.D, chunk.KindArrow},
	{"=>", lang.CS | lang.ECMA, chunk.KindArrow},
	{"==", lang.All, chunk.KindCompare},
	{"!=", lang.All, chunk.KindCompare},
	{"<=", lang.All, chunk.KindCompare},
	{">=", lang.All, chunk.KindCompare},
	{"&&", lang.All, chunk.KindCompare},
	{"||", lang.All, chunk.KindCompare},
	{"++", lang.All, chunk.KindOtherOp},
	{"--", lang.All, chunk.KindOtherOp},
	{"<<", lang.All, chunk.KindArith},
	{">>", lang.All, chunk.KindArith},
	{"+=", lang.All, chunk.KindAssign},
	{"-=", lang.All, chunk.KindAssign},
	{"*=", lang.All, chunk.KindAssign},
	{"/=", lang.All, chunk.KindAssign},
	{"%=", lang.All, chunk.KindAssign},
	{"&=", lang.All, chunk.KindAssign},
	{"|=", lang.All, chunk.KindAssign},
	{"^=", lang.All, chunk.KindAssign},
	{"??", lang.CS, chunk.KindCompare},
	{"?.", lang.CS | lang.ECMA, chunk.KindDot},
	{"<", lang.All, chunk.KindCompare},
	{">", lang.All, chunk.KindCompare},
	{"=", lang.All, chunk.KindAssign},
	{"+", lang.All, chunk.KindArith},
	{"-", lang.All, chunk.KindArith},
	{"*", lang.All, chunk.KindStar},
	{"/", lang.All, chunk.KindArith},
	{"%", lang.All, chunk.KindArith},
	{"&", lang.All, chunk.KindAmp},
	{"|", lang.All, chunk.KindArith},
	{"^", lang.All, chunk.KindArith},
	{"~", lang.All, chunk.KindTilde},
	{"!", lang.All, chunk.KindBang},
	{"?", lang.All, chunk.KindQuestion},
	{":", lang.All, chunk.KindColon},
	{";", lang.All, chunk.KindSemicolon},
	{",", lang.All, chunk.KindComma},
	{".", lang.All, chunk.KindDot},
	{"(", lang.All, chunk.KindParenOpen},
	{")", lang.All, chunk.KindParenClose},
	{"{", lang.All, chunk.KindBraceOpen},
	{"}", lang.All, chunk.KindBraceClose},
	{"[", lang.All, chunk.KindSquareOpen},
	{"]", lang.All, chunk.KindSquareClose},
	{"@", lang.OC | lang.CS, chunk.KindOtherOp},
	{"#", lang.All, chunk.KindOtherOp},
	{"$", lang.PAWN, chunk.KindOtherOp},
	{"^^", lang.D, chunk.KindOtherOp},
	{"^=", lang.D, chunk.KindAssign},
})

func buildPunctuatorTrie(entries []punctEntry) map[byte][]punctEntry {
	m := make(map[byte][]punctEntry)
	for _, e := range entries {
		b := e.text[0]
		m[b] = append(m[b], e)
	}
	for b, bucket := range m {
		// longest-match-first: stable sort by descending length.
		for i := 1; i < len(bucket); i++ {
			for j := i; j > 0 && len(bucket[j].text) > len(bucket[j-1].text); j-- {
				bucket[j], bucket[j-1] = bucket[j-1], bucket[j]
			}
		}
		m[b] = bucket
	}
	return m
}

// LookupPunctuator finds the longest punctuator in s (s is the remaining
// unconsumed input) that is valid for mask m. It returns the matched text
// and kind, or ("", KindUnknown, false) if none of the candidates for s[0]
// apply under m.
func LookupPunctuator(s string, m lang.Mask) (string, chunk.Kind, bool) {
	if len(s) == 0 {
		return "", chunk.KindUnknown, false
	}
	bucket, ok := punctuatorsByFirstByte[s[0]]
	if !ok {
		return "", chunk.KindUnknown, false
	}
	for _, e := range bucket {
		if !e.langs.Has(m) {
			continue
		}
		if len(e.text) > len(s) {
			continue
		}
		if s[:len(e.text)] == e.text {
			return e.text, e.kind, true
		}
	}
	return "", chunk.KindUnknown, false
}
