package chunk

// IDKind is the emitted identifier classification.
type IDKind int

const (
	IDIdentifier IDKind = iota
	IDMacro
	IDMacroFunction
	IDFunction
	IDStruct
	IDUnion
	IDEnum
	IDEnumVal
	IDClass
	IDStructType
	IDUnionType
	IDEnumType
	IDFunctionType
	IDType
	IDVar
	IDNamespace
)

func (k IDKind) String() string {
	switch k {
	case IDIdentifier:
		return "IDENTIFIER"
	case IDMacro:
		return "MACRO"
	case IDMacroFunction:
		return "MACRO_FUNCTION"
	case IDFunction:
		return "FUNCTION"
	case IDStruct:
		return "STRUCT"
	case IDUnion:
		return "UNION"
	case IDEnum:
		return "ENUM"
	case IDEnumVal:
		return "ENUM_VAL"
	case IDClass:
		return "CLASS"
	case IDStructType:
		return "STRUCT_TYPE"
	case IDUnionType:
		return "UNION_TYPE"
	case IDEnumType:
		return "ENUM_TYPE"
	case IDFunctionType:
		return "FUNCTION_TYPE"
	case IDType:
		return "TYPE"
	case IDVar:
		return "VAR"
	case IDNamespace:
		return "NAMESPACE"
	}
	return "IDENTIFIER"
}

// SubKind is the emitted def/decl/ref classification.
type SubKind int

const (
	SubKindReference SubKind = iota
	SubKindDefinition
	SubKindDeclaration
)

func (s SubKind) String() string {
	switch s {
	case SubKindDefinition:
		return "DEFINITION"
	case SubKindDeclaration:
		return "DECLARATION"
	default:
		return "REFERENCE"
	}
}

// Record is an immutable emitted entry.
type Record struct {
	File    string
	Line    int
	Column  int
	Scope   string
	IDKind  IDKind
	SubKind SubKind
	Name    string
}
