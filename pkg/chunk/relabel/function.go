package relabel

import "chunkdex/pkg/chunk"

// classifyFunctions retags WORD chunks that own an FPAREN into the
// function-kind family (FUNC_CALL/PROTO/DEF/TYPE/VAR), and retags the
// "(*name)" grouping around a function-pointer declarator into TPAREN. It
// runs after classifyPointers so a leading '*' inside that grouping has
// already become PTR_TYPE.
func classifyFunctions(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind != chunk.KindParenOpen {
			continue
		}
		if tryFuncPointerGroup(ctx, id) {
			continue
		}
	}

	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind != chunk.KindFParenOpen {
			continue
		}
		classifyCallSite(ctx, id)
	}
}

// tryFuncPointerGroup recognizes "( * name )" immediately followed by an
// argument-list paren, retags the group's own parens to TPAREN, and marks
// name FUNC_TYPE (inside a typedef) or FUNC_VAR (anywhere else).
func tryFuncPointerGroup(ctx *Context, open chunk.ID) bool {
	list := ctx.List
	close, ok := ctx.Pairs[open]
	if !ok {
		return false
	}
	star := list.NextNonTrivial(open)
	if star == chunk.NoID || list.At(star).Kind != chunk.KindPtrType {
		return false
	}
	name := list.NextNonTrivial(star)
	if name == chunk.NoID || list.At(name).Kind != chunk.KindWord {
		return false
	}
	if list.NextNonTrivial(name) != close {
		return false
	}
	after := list.NextNonTrivial(close)
	if after == chunk.NoID || list.At(after).Kind != chunk.KindParenOpen {
		return false
	}

	list.At(open).Kind = chunk.KindTParenOpen
	list.At(close).Kind = chunk.KindTParenClose
	nameChunk := list.At(name)
	if nameChunk.Flags.Has(chunk.InTypedef) {
		nameChunk.Kind = chunk.KindFuncType
		nameChunk.Flags = nameChunk.Flags.Set(chunk.Def)
	} else {
		nameChunk.Kind = chunk.KindFuncVar
	}

	argOpen := after
	if argClose, ok := ctx.Pairs[argOpen]; ok {
		list.At(argOpen).Kind = chunk.KindFParenOpen
		list.At(argClose).Kind = chunk.KindFParenClose
	}
	return true
}

// classifyCallSite decides FUNC_CALL/FUNC_PROTO/FUNC_DEF for the WORD owning
// an FPAREN, using only what immediately precedes the name and what
// immediately follows the matching close.
func classifyCallSite(ctx *Context, open chunk.ID) {
	list := ctx.List
	name := list.PrevNonTrivial(open)
	if name == chunk.NoID || list.At(name).Kind != chunk.KindWord {
		return
	}
	nameChunk := list.At(name)

	close, ok := ctx.Pairs[open]
	if !ok {
		return
	}
	after := list.NextNonTrivial(close)
	var afterKind chunk.Kind
	if after != chunk.NoID {
		afterKind = list.At(after).Kind
	}

	hasReturnType := precededByType(list, name)

	switch {
	case afterKind == chunk.KindBraceOpen || afterKind == chunk.KindVBraceOpen:
		nameChunk.Kind = chunk.KindFuncDef
		nameChunk.Flags = nameChunk.Flags.Set(chunk.Def)
		if body, ok := ctx.Pairs[after]; ok {
			markSpan(list, after, body, chunk.InFcnDef)
		}
	case afterKind == chunk.KindComma && hasReturnType:
		// "Foo x(1, 2), y(3, 4);" — another declarator follows at top
		// level, so this one is a direct-init variable too.
		nameChunk.Kind = chunk.KindFuncCtorVar
	case afterKind == chunk.KindSemicolon || afterKind == chunk.KindVSemicolon:
		switch {
		case hasReturnType && looksLikeCtorVarArgs(list, open, close):
			nameChunk.Kind = chunk.KindFuncCtorVar
		case hasReturnType || nameChunk.Flags.Has(chunk.InClass) || nameChunk.Flags.Has(chunk.InStruct):
			nameChunk.Kind = chunk.KindFuncProto
			nameChunk.Flags = nameChunk.Flags.Set(chunk.Proto)
		default:
			nameChunk.Kind = chunk.KindFuncCall
		}
	case afterKind == chunk.KindColon && nameChunk.Flags.Has(chunk.InClass):
		// constructor with an initializer list: Ctor(args) : base(args) {}
		nameChunk.Kind = chunk.KindFuncDef
		nameChunk.Flags = nameChunk.Flags.Set(chunk.Def)
	default:
		if nameChunk.Flags.Has(chunk.InClass) && !hasReturnType {
			nameChunk.Kind = chunk.KindFuncClass
		} else {
			nameChunk.Kind = chunk.KindFuncCall
		}
	}
}

// looksLikeCtorVarArgs reports whether the argument list between open and
// close contains something a parameter-declaration list never does — a
// numeric or string literal, or a nested call — the signal that "Foo
// x(1, 2);" is a direct-init variable rather than a prototype.
func looksLikeCtorVarArgs(list *chunk.List, open, close chunk.ID) bool {
	depth := 0
	for id := list.Next(open); id != chunk.NoID && id != close; id = list.Next(id) {
		c := list.At(id)
		switch {
		case chunk.IsOpen(c.Kind):
			depth++
		case chunk.IsClose(c.Kind):
			depth--
		case depth == 0 && (c.Kind == chunk.KindNumber || c.Kind == chunk.KindNumberFP ||
			c.Kind == chunk.KindString || c.Kind == chunk.KindStringMulti || c.Kind == chunk.KindFParenOpen):
			return true
		}
	}
	return false
}

// precededByType reports whether the token immediately before name looks
// like a return type (TYPE/WORD/PTR_TYPE/qualifier), which rules out "this
// is a bare call statement".
func precededByType(list *chunk.List, name chunk.ID) bool {
	prev := list.PrevNonTrivial(name)
	if prev == chunk.NoID {
		return false
	}
	switch list.At(prev).Kind {
	case chunk.KindType, chunk.KindWord, chunk.KindPtrType, chunk.KindQualifier, chunk.KindDCMember:
		return true
	}
	return false
}

// markSpan ORs flag into every chunk strictly between open and close,
// applying the function-body copy flag the frame tracker itself has no way
// to set (function-ness is only known once the re-labeler sees the body).
func markSpan(list *chunk.List, open, close chunk.ID, flag chunk.Flags) {
	for id := list.Next(open); id != chunk.NoID && id != close; id = list.Next(id) {
		c := list.At(id)
		c.Flags = c.Flags.Set(flag)
	}
}
