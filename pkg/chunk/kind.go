package chunk

// Kind is a token classification drawn from a closed set. The lexer assigns a
// coarse Kind; the re-labeler (pkg/chunk/relabel) refines it in place without
// ever needing a different representation.
type Kind int

// Every paired open kind is immediately followed by its close kind in this
// list — Matching exploits that instead of a lookup table.
const (
	KindUnknown Kind = iota

	// structural
	KindNewline
	KindSemicolon
	KindVSemicolon // virtual semicolon, inserted where a language elides one
	KindComma
	KindNLCont // backslash-newline continuation
	KindWhitespace

	// literals
	KindNumber
	KindNumberFP
	KindString
	KindStringMulti

	// identifiers
	KindWord
	KindType
	KindMacro
	KindMacroFunc
	KindAnnotation
	KindLabel

	// keywords (family; exact keyword carried in flags/text, kind narrows
	// further for the handful the tracker/re-labeler special-case)
	KindIf
	KindElse
	KindFor
	KindForeach
	KindWhile
	KindDo
	KindSwitch
	KindCase
	KindDefault
	KindCatch
	KindTry
	KindFinally
	KindClass
	KindStruct
	KindUnion
	KindEnum
	KindTypedef
	KindNamespace
	KindTemplate
	KindQualifier // const, volatile, extern, static, etc.
	KindReturn
	KindSizeof
	KindDelete
	KindNew
	KindOperator
	KindGoto
	KindOtherKeyword

	// operators
	KindArith
	KindCompare
	KindAssign
	KindAddr
	KindDeref
	KindStar
	KindPtrType
	KindAmp
	KindByRef
	KindDCMember // ::
	KindArrow    // -> / =>
	KindDot
	KindQuestion
	KindTilde
	KindBang
	KindOtherOp

	// colons, reclassified by context
	KindColon
	KindCondColon
	KindCaseColon
	KindLabelColon
	KindClassColon
	KindBitColon
	KindTagColon
	KindDArrayColon
	KindForColon
	KindOCDictColon

	// brackets — each OPEN must be followed immediately by its CLOSE
	KindParenOpen
	KindParenClose
	KindSParenOpen // statement paren: if/for/while/switch/catch/foreach
	KindSParenClose
	KindFParenOpen // function call/decl paren
	KindFParenClose
	KindTParenOpen // type paren, e.g. RET (*name)(args)
	KindTParenClose
	KindBraceOpen
	KindBraceClose
	KindVBraceOpen // virtual brace
	KindVBraceClose
	KindAngleOpen
	KindAngleClose
	KindSquareOpen
	KindSquareClose

	// preprocessor
	KindPreproc
	KindPPDefine
	KindPPIf
	KindPPElse
	KindPPOther
	KindPPBodyChunk

	// function/variable/type refinement (written by relabel, never by lexer)
	KindFuncCall
	KindFuncCallUser
	KindFuncProto
	KindFuncDef
	KindFuncClass
	KindFuncCtorVar
	KindFuncType
	KindFuncVar

	// Objective-C
	KindOCMsgSend
	KindOCBlockCaret
	KindOCProtocolList

	// C++ lambda brace, split out of a square-bracket capture list
	KindCppLambda

	// C# property brace
	KindCSProperty
)

// IsOpen reports whether k is a paired opening bracket kind.
func IsOpen(k Kind) bool {
	switch k {
	case KindParenOpen, KindSParenOpen, KindFParenOpen, KindTParenOpen,
		KindBraceOpen, KindVBraceOpen, KindAngleOpen, KindSquareOpen:
		return true
	}
	return false
}

// IsClose reports whether k is a paired closing bracket kind.
func IsClose(k Kind) bool {
	switch k {
	case KindParenClose, KindSParenClose, KindFParenClose, KindTParenClose,
		KindBraceClose, KindVBraceClose, KindAngleClose, KindSquareClose:
		return true
	}
	return false
}

// Matching returns the close kind for an open kind, or the open kind for a
// close kind. It relies on every close kind being declared immediately
// after its open kind, keeping that fact in exactly one place.
func Matching(k Kind) Kind {
	if IsOpen(k) {
		return k + 1
	}
	if IsClose(k) {
		return k - 1
	}
	return KindUnknown
}

// IsBracket reports whether k is any paired bracket kind (open or close).
func IsBracket(k Kind) bool {
	return IsOpen(k) || IsClose(k)
}

// IsBrace reports whether k is a real or virtual brace of either direction.
func IsBrace(k Kind) bool {
	switch k {
	case KindBraceOpen, KindBraceClose, KindVBraceOpen, KindVBraceClose:
		return true
	}
	return false
}

// IsParen reports whether k is any flavor of paren.
func IsParen(k Kind) bool {
	switch k {
	case KindParenOpen, KindParenClose, KindSParenOpen, KindSParenClose,
		KindFParenOpen, KindFParenClose, KindTParenOpen, KindTParenClose:
		return true
	}
	return false
}

// String renders a Kind using the upper-case tag spelling used in the
// textual emission format and in test fixtures.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	KindUnknown:      "UNKNOWN",
	KindNewline:      "NEWLINE",
	KindSemicolon:    "SEMICOLON",
	KindVSemicolon:   "VSEMICOLON",
	KindComma:        "COMMA",
	KindNLCont:       "NL_CONT",
	KindNumber:       "NUMBER",
	KindNumberFP:     "NUMBER_FP",
	KindString:       "STRING",
	KindStringMulti:  "STRING_MULTI",
	KindWord:         "WORD",
	KindType:         "TYPE",
	KindMacro:        "MACRO",
	KindMacroFunc:    "MACRO_FUNC",
	KindAnnotation:   "ANNOTATION",
	KindLabel:        "LABEL",
	KindStar:         "STAR",
	KindPtrType:      "PTR_TYPE",
	KindAmp:          "AMP",
	KindByRef:        "BYREF",
	KindAddr:         "ADDR",
	KindDeref:        "DEREF",
	KindArith:        "ARITH",
	KindCompare:      "COMPARE",
	KindAssign:       "ASSIGN",
	KindDCMember:     "DC_MEMBER",
	KindArrow:        "ARROW",
	KindDot:          "DOT",
	KindQuestion:     "QUESTION",
	KindTilde:        "TILDE",
	KindBang:         "BANG",
	KindOtherOp:      "OP",
	KindColon:        "COLON",
	KindCondColon:    "COND_COLON",
	KindCaseColon:    "CASE_COLON",
	KindLabelColon:   "LABEL_COLON",
	KindClassColon:   "CLASS_COLON",
	KindBitColon:     "BIT_COLON",
	KindTagColon:     "TAG_COLON",
	KindDArrayColon:  "D_ARRAY_COLON",
	KindForColon:     "FOR_COLON",
	KindOCDictColon:  "OC_DICT_COLON",
	KindParenOpen:    "PAREN_OPEN",
	KindParenClose:   "PAREN_CLOSE",
	KindSParenOpen:   "SPAREN_OPEN",
	KindSParenClose:  "SPAREN_CLOSE",
	KindFParenOpen:   "FPAREN_OPEN",
	KindFParenClose:  "FPAREN_CLOSE",
	KindTParenOpen:   "TPAREN_OPEN",
	KindTParenClose:  "TPAREN_CLOSE",
	KindBraceOpen:    "BRACE_OPEN",
	KindBraceClose:   "BRACE_CLOSE",
	KindVBraceOpen:   "VBRACE_OPEN",
	KindVBraceClose:  "VBRACE_CLOSE",
	KindAngleOpen:    "ANGLE_OPEN",
	KindAngleClose:   "ANGLE_CLOSE",
	KindSquareOpen:   "SQUARE_OPEN",
	KindSquareClose:  "SQUARE_CLOSE",
	KindPreproc:      "PREPROC",
	KindPPDefine:     "PP_DEFINE",
	KindPPIf:         "PP_IF",
	KindPPElse:       "PP_ELSE",
	KindPPOther:      "PP_OTHER",
	KindPPBodyChunk:  "PP_BODYCHUNK",
	KindFuncCall:     "FUNC_CALL",
	KindFuncCallUser: "FUNC_CALL_USER",
	KindFuncProto:    "FUNC_PROTO",
	KindFuncDef:      "FUNC_DEF",
	KindFuncClass:    "FUNC_CLASS",
	KindFuncCtorVar:  "FUNC_CTOR_VAR",
	KindFuncType:     "FUNC_TYPE",
	KindFuncVar:      "FUNC_VAR",
	KindClass:        "CLASS",
	KindStruct:       "STRUCT",
	KindUnion:        "UNION",
	KindEnum:         "ENUM",
	KindTypedef:      "TYPEDEF",
	KindNamespace:    "NAMESPACE",
	KindTemplate:     "TEMPLATE",
	KindCppLambda:    "CPP_LAMBDA",
	KindCSProperty:   "CS_PROPERTY",
}
