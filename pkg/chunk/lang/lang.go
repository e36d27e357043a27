// Package lang defines the language bitmask used to filter the keyword and
// punctuator tables and to choose lexer dispatch rules.
package lang

import "strings"

// Mask is a bitmask over the C-family languages this system fuzzy-parses.
// The C++ mask implies C; the Objective-C mask implies C or C++.
type Mask uint16

const (
	C Mask = 1 << iota
	CPP
	D
	CS
	JAVA
	OC
	VALA
	PAWN
	ECMA

	None Mask = 0
	All  Mask = C | CPP | D | CS | JAVA | OC | VALA | PAWN | ECMA
)

// Has reports whether any bit of want is set in m.
func (m Mask) Has(want Mask) bool { return m&want != 0 }

// extensionTable maps a lower-cased extension (without the leading dot) to
// the language mask it implies. C++ extensions imply C; Objective-C
// extensions imply C++ (and therefore C too).
var extensionTable = map[string]Mask{
	"c": C,
	"h": C,

	"cpp": CPP | C,
	"cxx": CPP | C,
	"cc":  CPP | C,
	"hpp": CPP | C,
	"hh":  CPP | C,
	"hxx": CPP | C,

	"m":  OC | CPP | C,
	"mm": OC | CPP | C,

	"java": JAVA,
	"cs":   CS,
	"d":    D,

	"p":    PAWN,
	"pawn": PAWN,
	"pwn":  PAWN,

	"vala": VALA,

	"js": ECMA,
	"as": ECMA,
	"es": ECMA,
	"jsx": ECMA,
	"ts":  ECMA,
	"tsx": ECMA,
}

// ByExtension infers a Mask from a filename's extension, returning (mask,
// true) on a recognized extension or (None, false) otherwise.
func ByExtension(filename string) (Mask, bool) {
	ext := filename
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		ext = filename[i+1:]
	} else {
		return None, false
	}
	m, ok := extensionTable[strings.ToLower(ext)]
	return m, ok
}

// Name renders the primary language name for display/config purposes.
func (m Mask) Name() string {
	switch {
	case m.Has(OC):
		return "objc"
	case m.Has(CPP):
		return "cpp"
	case m.Has(JAVA):
		return "java"
	case m.Has(CS):
		return "csharp"
	case m.Has(D):
		return "d"
	case m.Has(PAWN):
		return "pawn"
	case m.Has(VALA):
		return "vala"
	case m.Has(ECMA):
		return "ecma"
	case m.Has(C):
		return "c"
	default:
		return "unknown"
	}
}
