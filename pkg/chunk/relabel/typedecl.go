package relabel

import "chunkdex/pkg/chunk"

// classifyTypeDecls marks the tag name of a class/struct/union/enum
// declaration, a namespace's name, every enum member inside an enum body,
// and the alias name(s) of a typedef (plain or wrapping an aggregate body)
// as definitions or declarations for the emitter to route. Tag and alias
// names are promoted from WORD to TYPE, carrying the owning keyword in
// ParentKind, exactly what the emitter's routing table keys off.
func classifyTypeDecls(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		switch c.Kind {
		case chunk.KindClass, chunk.KindStruct, chunk.KindUnion, chunk.KindEnum:
			markAggregateTag(list, id, c.Kind)
		case chunk.KindNamespace:
			markNamespaceName(list, id)
		case chunk.KindBraceClose, chunk.KindVBraceClose:
			markTypedefAlias(ctx, id, c)
		case chunk.KindSemicolon, chunk.KindVSemicolon:
			markPlainTypedefAlias(list, id)
		}
	}
	markEnumMembers(list)
}

func markAggregateTag(list *chunk.List, keywordID chunk.ID, keyword chunk.Kind) {
	name := list.NextNonTrivial(keywordID)
	if name == chunk.NoID {
		return
	}
	nameChunk := list.At(name)
	if nameChunk.Kind != chunk.KindWord && nameChunk.Kind != chunk.KindType {
		return
	}
	nameChunk.Kind = chunk.KindType
	nameChunk.ParentKind = keyword
	next := list.NextNonTrivial(name)
	if next == chunk.NoID {
		return
	}
	switch list.At(next).Kind {
	case chunk.KindBraceOpen, chunk.KindVBraceOpen, chunk.KindColon:
		// a body, or a C++ base-class list leading to one
		nameChunk.Flags = nameChunk.Flags.Set(chunk.Def)
	case chunk.KindSemicolon, chunk.KindVSemicolon:
		nameChunk.Flags = nameChunk.Flags.Set(chunk.Proto)
	default:
		// e.g. "struct Foo x;": Foo merely names an already-declared type
	}
}

func markNamespaceName(list *chunk.List, keywordID chunk.ID) {
	name := list.NextNonTrivial(keywordID)
	if name == chunk.NoID || list.At(name).Kind != chunk.KindWord {
		return
	}
	nameChunk := list.At(name)
	nameChunk.ParentKind = chunk.KindNamespace
	nameChunk.Flags = nameChunk.Flags.Set(chunk.Def)
}

// markPlainTypedefAlias handles the typedef forms a closing-aggregate-brace
// never sees: "typedef int MyInt;", "typedef struct Tag TagAlias;", and
// comma-separated "typedef struct Foo { ... } *FooPtr, FooVal;" chains. It
// fires on every statement-terminating ';' whose preceding chunk sits in a
// typedef's alias position (not inside an aggregate body, where a ';' ends
// a member declaration) and walks backward over the
// comma-separated alias names, stopping at the typedef's own keyword or at
// an already-promoted aggregate alias (set by markTypedefAlias below, which
// runs first and owns the name directly after an aggregate's closing brace).
func markPlainTypedefAlias(list *chunk.List, semiID chunk.ID) {
	prev := list.PrevNonTrivial(semiID)
	if prev == chunk.NoID || !isTypedefAliasPosition(list.At(prev)) {
		return
	}
	for prev != chunk.NoID {
		c := list.At(prev)
		if !c.Flags.Has(chunk.InTypedef) {
			return
		}
		switch c.Kind {
		case chunk.KindWord:
			c.Kind = chunk.KindType
			c.ParentKind = chunk.KindTypedef
			c.Flags = c.Flags.Set(chunk.Def)
		case chunk.KindType:
			if c.ParentKind != chunk.KindTypedef {
				c.ParentKind = chunk.KindTypedef
				c.Flags = c.Flags.Set(chunk.Def)
			}
		case chunk.KindPtrType, chunk.KindComma:
			// skip leading '*' and the separator between alias names
		default:
			return
		}
		prev = list.PrevNonTrivial(prev)
	}
}

// markTypedefAlias handles "typedef struct Tag { ... } Alias;": the alias
// right after the aggregate's closing brace inherits the aggregate's kind
// via the Typedef* flags so the emitter doesn't have to re-discover it.
func markTypedefAlias(ctx *Context, closeID chunk.ID, closeChunk *chunk.Chunk) {
	if !closeChunk.Flags.Has(chunk.InTypedef) {
		return
	}
	list := ctx.List
	alias := list.NextNonTrivial(closeID)
	for alias != chunk.NoID && list.At(alias).Kind == chunk.KindPtrType {
		alias = list.NextNonTrivial(alias)
	}
	if alias == chunk.NoID || list.At(alias).Kind != chunk.KindWord {
		return
	}
	aliasChunk := list.At(alias)
	aliasChunk.Kind = chunk.KindType
	aliasChunk.ParentKind = chunk.KindTypedef
	aliasChunk.Flags = aliasChunk.Flags.Set(chunk.Def)
	switch closeChunk.ParentKind {
	case chunk.KindStruct:
		aliasChunk.Flags = aliasChunk.Flags.Set(chunk.TypedefStruct)
	case chunk.KindUnion:
		aliasChunk.Flags = aliasChunk.Flags.Set(chunk.TypedefUnion)
	case chunk.KindEnum:
		aliasChunk.Flags = aliasChunk.Flags.Set(chunk.TypedefEnum)
	}
}

// markEnumMembers tags every plain-WORD member directly inside an enum body
// (i.e. the token right after '{' or ',' at that level) as a definition.
func markEnumMembers(list *chunk.List) {
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind != chunk.KindWord || !c.Flags.Has(chunk.InEnum) || c.Flags.Has(chunk.Keyword) {
			continue
		}
		prev := list.PrevNonTrivial(id)
		if prev == chunk.NoID {
			continue
		}
		switch list.At(prev).Kind {
		case chunk.KindBraceOpen, chunk.KindVBraceOpen, chunk.KindComma:
			c.Flags = c.Flags.Set(chunk.Def)
		}
	}
}
