package emit

import "chunkdex/pkg/chunk"

// route decides the (id_kind, id_sub_kind) pair for a single chunk, or
// reports ok=false when the chunk isn't one the catalog surfaces. Keyword
// and punctuator chunks never emit, checked first so every case below can
// assume neither flag is set.
func route(c *chunk.Chunk) (chunk.IDKind, chunk.SubKind, bool) {
	if c.Flags.Has(chunk.Keyword) || c.Flags.Has(chunk.Punctuator) {
		return 0, 0, false
	}

	switch c.Kind {
	case chunk.KindFuncDef:
		return chunk.IDFunction, chunk.SubKindDefinition, true
	case chunk.KindFuncProto:
		return chunk.IDFunction, chunk.SubKindDeclaration, true
	case chunk.KindFuncCall, chunk.KindFuncCallUser:
		return chunk.IDFunction, chunk.SubKindReference, true
	case chunk.KindFuncClass:
		return chunk.IDFunction, c.Flags.DefSubKind(), true
	case chunk.KindMacroFunc:
		return chunk.IDMacroFunction, chunk.SubKindDefinition, true
	case chunk.KindMacro:
		return chunk.IDMacro, chunk.SubKindDefinition, true
	case chunk.KindType:
		return routeType(c)
	case chunk.KindFuncType:
		return chunk.IDFunctionType, chunk.SubKindDefinition, true
	case chunk.KindFuncCtorVar:
		return chunk.IDVar, chunk.SubKindReference, true
	case chunk.KindFuncVar:
		return routeWordLike(c)
	case chunk.KindWord:
		switch c.ParentKind {
		case chunk.KindUnknown:
			return routeWordLike(c)
		case chunk.KindNamespace:
			return chunk.IDNamespace, c.Flags.DefSubKind(), true
		}
	}
	return 0, 0, false
}

func routeType(c *chunk.Chunk) (chunk.IDKind, chunk.SubKind, bool) {
	switch c.ParentKind {
	case chunk.KindTypedef:
		switch {
		case c.Flags.Has(chunk.TypedefStruct):
			return chunk.IDStructType, chunk.SubKindDefinition, true
		case c.Flags.Has(chunk.TypedefUnion):
			return chunk.IDUnionType, chunk.SubKindDefinition, true
		case c.Flags.Has(chunk.TypedefEnum):
			return chunk.IDEnumType, chunk.SubKindDefinition, true
		default:
			return chunk.IDType, chunk.SubKindDefinition, true
		}
	case chunk.KindStruct:
		return chunk.IDStruct, c.Flags.DefSubKind(), true
	case chunk.KindUnion:
		return chunk.IDUnion, c.Flags.DefSubKind(), true
	case chunk.KindEnum:
		return chunk.IDEnum, c.Flags.DefSubKind(), true
	case chunk.KindClass:
		return chunk.IDClass, c.Flags.DefSubKind(), true
	default:
		return chunk.IDType, chunk.SubKindReference, true
	}
}

// routeWordLike covers FUNC_VAR and parent-less WORD chunks: an enum member,
// a variable definition/declaration, or — absent any of those — a plain
// identifier reference.
func routeWordLike(c *chunk.Chunk) (chunk.IDKind, chunk.SubKind, bool) {
	switch {
	case c.Flags.Has(chunk.InEnum) && c.Flags.Has(chunk.Def):
		return chunk.IDEnumVal, chunk.SubKindDefinition, true
	case c.Flags.Has(chunk.VarDef):
		return chunk.IDVar, chunk.SubKindDefinition, true
	case c.Flags.Has(chunk.VarDecl):
		return chunk.IDVar, chunk.SubKindDeclaration, true
	default:
		return chunk.IDIdentifier, chunk.SubKindReference, true
	}
}
