// Package tables holds the two fixed, static lookup tables the lexer
// consults: keywords and punctuators. Neither table is mutated at
// runtime.
package tables

import (
	"sort"

	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/lang"
)

// KeywordFlag marks a table entry as valid only in a preprocessor context,
// e.g. `defined` inside `#if`.
type KeywordFlag uint8

const FlagPP KeywordFlag = 1 << 0

// keywordEntry is one row of the static keyword table, keyed by
// (lexeme, language mask).
type keywordEntry struct {
	word  string
	langs lang.Mask
	kind  chunk.Kind
	flag  KeywordFlag
}

// keywordTable is sorted alphabetically by word so Lookup can binary-search
// it.
var keywordTable = []keywordEntry{
	{"__block", lang.OC, chunk.KindQualifier, 0},
	{"alias", lang.D, chunk.KindTypedef, 0},
	{"auto", lang.C | lang.CPP | lang.D, chunk.KindQualifier, 0},
	// "bool" excludes PAWN: Pawn uses it as a tag prefix ("bool:x"), not a
	// type keyword, and the tag-colon heuristic in relabel/colon.go needs
	// the WORD kind to fire on it.
	{"bool", lang.CPP | lang.CS | lang.JAVA | lang.D | lang.ECMA | lang.VALA, chunk.KindType, 0},
	{"byte", lang.CS | lang.JAVA | lang.D, chunk.KindType, 0},
	{"char", lang.All, chunk.KindType, 0},
	{"double", lang.All &^ lang.PAWN, chunk.KindType, 0},
	{"float", lang.All, chunk.KindType, 0},
	{"int", lang.All, chunk.KindType, 0},
	{"long", lang.All &^ lang.PAWN, chunk.KindType, 0},
	{"sbyte", lang.CS, chunk.KindType, 0},
	{"short", lang.All &^ lang.PAWN, chunk.KindType, 0},
	{"signed", lang.C | lang.CPP, chunk.KindType, 0},
	{"string", lang.CS | lang.D | lang.VALA, chunk.KindType, 0},
	{"uint", lang.CS | lang.D, chunk.KindType, 0},
	{"ulong", lang.CS | lang.D, chunk.KindType, 0},
	{"unsigned", lang.C | lang.CPP, chunk.KindType, 0},
	{"ushort", lang.CS | lang.D, chunk.KindType, 0},
	{"wchar_t", lang.CPP, chunk.KindType, 0},
	{"break", lang.All, chunk.KindOtherKeyword, 0},
	{"case", lang.All, chunk.KindCase, 0},
	{"catch", lang.CPP | lang.CS | lang.JAVA | lang.D | lang.ECMA | lang.VALA, chunk.KindCatch, 0},
	{"class", lang.CPP | lang.CS | lang.JAVA | lang.D | lang.ECMA | lang.VALA | lang.OC, chunk.KindClass, 0},
	{"const", lang.All, chunk.KindQualifier, 0},
	{"continue", lang.All, chunk.KindOtherKeyword, 0},
	{"default", lang.All, chunk.KindDefault, 0},
	{"defined", lang.C | lang.CPP, chunk.KindOtherKeyword, FlagPP},
	{"delegate", lang.CS | lang.D, chunk.KindOtherKeyword, 0},
	{"delete", lang.CPP | lang.D | lang.ECMA, chunk.KindDelete, 0},
	{"do", lang.All, chunk.KindDo, 0},
	{"else", lang.All, chunk.KindElse, 0},
	{"enum", lang.All, chunk.KindEnum, 0},
	{"explicit", lang.CPP | lang.CS, chunk.KindQualifier, 0},
	{"export", lang.CPP | lang.ECMA, chunk.KindQualifier, 0},
	{"extern", lang.C | lang.CPP | lang.CS | lang.D, chunk.KindQualifier, 0},
	{"final", lang.JAVA | lang.D, chunk.KindQualifier, 0},
	{"finally", lang.CS | lang.JAVA | lang.ECMA | lang.D, chunk.KindFinally, 0},
	{"for", lang.All, chunk.KindFor, 0},
	{"foreach", lang.CS | lang.D | lang.VALA, chunk.KindForeach, 0},
	{"friend", lang.CPP, chunk.KindQualifier, 0},
	{"function", lang.ECMA | lang.PAWN, chunk.KindOtherKeyword, 0},
	{"goto", lang.C | lang.CPP | lang.CS | lang.D | lang.JAVA | lang.VALA, chunk.KindGoto, 0},
	{"if", lang.All, chunk.KindIf, 0},
	{"implements", lang.JAVA | lang.ECMA, chunk.KindQualifier, 0},
	{"import", lang.JAVA | lang.ECMA | lang.D | lang.VALA, chunk.KindOtherKeyword, 0},
	{"in", lang.D | lang.ECMA | lang.VALA, chunk.KindOtherKeyword, 0},
	{"inline", lang.C | lang.CPP | lang.D, chunk.KindQualifier, 0},
	{"interface", lang.CS | lang.JAVA | lang.D | lang.ECMA | lang.VALA, chunk.KindClass, 0},
	{"internal", lang.CS, chunk.KindQualifier, 0},
	{"mutable", lang.CPP, chunk.KindQualifier, 0},
	{"namespace", lang.CPP | lang.CS | lang.D | lang.VALA, chunk.KindNamespace, 0},
	{"native", lang.PAWN | lang.JAVA, chunk.KindQualifier, 0},
	{"new", lang.CPP | lang.CS | lang.D | lang.JAVA | lang.ECMA, chunk.KindNew, 0},
	{"operator", lang.CPP | lang.CS | lang.D, chunk.KindOperator, 0},
	{"out", lang.CS | lang.D, chunk.KindQualifier, 0},
	{"override", lang.CPP | lang.CS | lang.D, chunk.KindQualifier, 0},
	{"package", lang.JAVA | lang.VALA | lang.D, chunk.KindNamespace, 0},
	{"private", lang.All &^ lang.PAWN, chunk.KindQualifier, 0},
	{"protected", lang.All &^ lang.PAWN, chunk.KindQualifier, 0},
	{"public", lang.All &^ lang.PAWN, chunk.KindQualifier, 0},
	{"readonly", lang.CS, chunk.KindQualifier, 0},
	{"ref", lang.CS, chunk.KindQualifier, 0},
	{"register", lang.C | lang.CPP, chunk.KindQualifier, 0},
	{"return", lang.All, chunk.KindReturn, 0},
	{"sealed", lang.CS, chunk.KindQualifier, 0},
	{"sizeof", lang.C | lang.CPP | lang.D, chunk.KindSizeof, 0},
	{"static", lang.All, chunk.KindQualifier, 0},
	{"stock", lang.PAWN, chunk.KindQualifier, 0},
	{"struct", lang.C | lang.CPP | lang.CS | lang.D | lang.VALA, chunk.KindStruct, 0},
	{"switch", lang.All, chunk.KindSwitch, 0},
	{"synchronized", lang.JAVA, chunk.KindQualifier, 0},
	{"tagof", lang.PAWN, chunk.KindSizeof, 0},
	{"template", lang.CPP | lang.D, chunk.KindTemplate, 0},
	{"this", lang.CPP | lang.CS | lang.D | lang.JAVA | lang.ECMA | lang.VALA, chunk.KindOtherKeyword, 0},
	{"throw", lang.CPP | lang.CS | lang.JAVA | lang.D | lang.ECMA, chunk.KindOtherKeyword, 0},
	{"try", lang.CPP | lang.CS | lang.JAVA | lang.D | lang.ECMA | lang.VALA, chunk.KindTry, 0},
	{"typedef", lang.C | lang.CPP | lang.D, chunk.KindTypedef, 0},
	{"typeof", lang.CS | lang.D | lang.ECMA, chunk.KindSizeof, 0},
	{"union", lang.C | lang.CPP, chunk.KindUnion, 0},
	{"unsafe", lang.CS, chunk.KindQualifier, 0},
	{"using", lang.CS | lang.VALA, chunk.KindOtherKeyword, 0},
	{"var", lang.CS | lang.ECMA | lang.VALA, chunk.KindQualifier, 0},
	{"virtual", lang.CPP | lang.CS | lang.D, chunk.KindQualifier, 0},
	{"void", lang.All, chunk.KindQualifier, 0},
	{"volatile", lang.C | lang.CPP | lang.CS | lang.D, chunk.KindQualifier, 0},
	{"while", lang.All, chunk.KindWhile, 0},
	{"yield", lang.CS | lang.ECMA, chunk.KindOtherKeyword, 0},
}

func init() {
	sort.Slice(keywordTable, func(i, j int) bool { return keywordTable[i].word < keywordTable[j].word })
}

// Lookup binary-searches the keyword table for word, returning the entry
// whose language mask intersects m. IN_PREPROC must be true for FlagPP
// entries to match.
func Lookup(word string, m lang.Mask, inPreproc bool) (chunk.Kind, bool) {
	i := sort.Search(len(keywordTable), func(i int) bool { return keywordTable[i].word >= word })
	for ; i < len(keywordTable) && keywordTable[i].word == word; i++ {
		e := keywordTable[i]
		if !e.langs.Has(m) {
			continue
		}
		if e.flag&FlagPP != 0 && !inPreproc {
			continue
		}
		return e.kind, true
	}
	return chunk.KindWord, false
}
