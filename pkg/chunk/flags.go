package chunk

// Flags is a 64-bit domain partitioned into two disjoint sets: copy flags
// (bits 0-23) are automatically inherited from one chunk to the next within
// the syntactic region that set them; local flags (bits 24-63) describe only
// the chunk itself and are never propagated. The partition is enforced by
// copyMask below, not by convention.
type Flags uint64

const copyMask Flags = (1 << 24) - 1

// Copy flags — inherited forward until the region that set them closes.
const (
	InPreproc Flags = 1 << iota
	InStruct
	InUnion
	InEnum
	InClass
	InFcnDef
	InFcnCall
	InTypedef
	InTemplate
	InFor
	InOCMsg
	InLambda
	InNamespace
)

// Local flags — describe this chunk only.
const (
	StmtStart Flags = 1 << (24 + iota)
	ExprStart
	Punctuator
	Keyword
	VarDef
	VarDecl
	VarType
	VarInline
	Def
	Proto
	Ref
	Static
	Extern
	LValue
	TypedefStruct
	TypedefUnion
	TypedefEnum
	CastParen // a plain PAREN_CLOSE whose contents were recognized as a cast's type
)

// Copy returns the subset of f that propagates to the next chunk in the
// region f was set in.
func (f Flags) Copy() Flags { return f & copyMask }

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Any reports whether any bit in mask is set.
func (f Flags) Any(mask Flags) bool { return f&mask != 0 }

// Set returns f with mask bits set.
func (f Flags) Set(mask Flags) Flags { return f | mask }

// Clear returns f with mask bits cleared.
func (f Flags) Clear(mask Flags) Flags { return f &^ mask }

// DefSubKind maps the Def/Proto/Ref trio to a SubKind, defaulting to
// Reference when none is set — the "tamer verdict" default.
func (f Flags) DefSubKind() SubKind {
	switch {
	case f.Has(Def):
		return SubKindDefinition
	case f.Has(Proto):
		return SubKindDeclaration
	default:
		return SubKindReference
	}
}
