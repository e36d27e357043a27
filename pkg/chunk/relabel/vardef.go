package relabel

import "chunkdex/pkg/chunk"

// classifyVarDefs is the second, variable-definition-only pass: it looks
// for "TYPE NAME" immediately followed by ';', '=', ',' or '[' and marks
// the type run VarType and the name VarDef (or VarDecl, for an `extern`-
// qualified declaration with no storage). It skips any WORD classifyFunctions
// already retagged away from plain WORD. A WORD carrying InTypedef is skipped
// only when it isn't also inside an aggregate body (InStruct/InUnion/
// InClass/InEnum) — that combination is a typedef's own alias name, left for
// typedecl.go to claim; a member of a typedef'd aggregate carries both flags
// and is a variable definition same as any other member.
func classifyVarDefs(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind != chunk.KindWord || c.Flags.Has(chunk.Keyword) || isTypedefAliasPosition(c) {
			continue
		}
		prev := list.PrevNonTrivial(id)
		if prev == chunk.NoID {
			continue
		}
		prevC := list.At(prev)

		next := list.NextNonTrivial(id)
		var nextKind chunk.Kind
		if next != chunk.NoID {
			nextKind = list.At(next).Kind
		}
		switch nextKind {
		case chunk.KindSemicolon, chunk.KindVSemicolon, chunk.KindAssign, chunk.KindComma, chunk.KindSquareOpen:
		default:
			continue
		}

		switch {
		case prevC.Kind == chunk.KindType || prevC.Kind == chunk.KindWord || prevC.Kind == chunk.KindPtrType:
			if hasExternQualifier(list, id) {
				c.Flags = c.Flags.Set(chunk.VarDecl)
			} else {
				c.Flags = c.Flags.Set(chunk.VarDef)
			}
			markTypeRun(list, prev)
		case isAggregateBodyClose(prevC):
			// "struct Foo { int a; } x;" — x declares a variable of the
			// aggregate just closed, with no separate type-run to mark.
			c.Flags = c.Flags.Set(chunk.VarDef).Set(chunk.VarInline)
		}
	}
}

// isAggregateBodyClose reports whether c is the closing brace of a
// struct/union/class/enum body, the shape a post-aggregate inline
// declarator ("} x;") follows.
func isAggregateBodyClose(c *chunk.Chunk) bool {
	if c.Kind != chunk.KindBraceClose && c.Kind != chunk.KindVBraceClose {
		return false
	}
	switch c.ParentKind {
	case chunk.KindStruct, chunk.KindUnion, chunk.KindClass, chunk.KindEnum:
		return true
	}
	return false
}

// isTypedefAliasPosition reports whether c sits in a typedef statement but
// outside any aggregate body it might wrap — the alias-name position
// ("typedef struct foo {...} foo_t;"'s foo_t, or "typedef int MyInt;"'s
// MyInt), as opposed to a member declared inside the aggregate's braces.
func isTypedefAliasPosition(c *chunk.Chunk) bool {
	if !c.Flags.Has(chunk.InTypedef) {
		return false
	}
	return !c.Flags.Any(chunk.InStruct | chunk.InUnion | chunk.InClass | chunk.InEnum)
}

// hasExternQualifier walks backward from name over the type run and any
// qualifiers looking for a literal "extern".
func hasExternQualifier(list *chunk.List, name chunk.ID) bool {
	for id := list.PrevNonTrivial(name); id != chunk.NoID; id = list.PrevNonTrivial(id) {
		c := list.At(id)
		if c.Flags.Has(chunk.StmtStart) {
			if c.Kind == chunk.KindQualifier && c.Text == "extern" {
				return true
			}
			break
		}
		if c.Kind == chunk.KindQualifier && c.Text == "extern" {
			return true
		}
		if c.Kind != chunk.KindType && c.Kind != chunk.KindWord && c.Kind != chunk.KindPtrType && c.Kind != chunk.KindQualifier {
			break
		}
	}
	return false
}

// markTypeRun tags VarType backward from start over the contiguous
// TYPE/WORD/PTR_TYPE/qualifier run that makes up the declared type.
func markTypeRun(list *chunk.List, start chunk.ID) {
	id := start
	for id != chunk.NoID {
		c := list.At(id)
		switch c.Kind {
		case chunk.KindType, chunk.KindWord, chunk.KindPtrType, chunk.KindQualifier:
			c.Flags = c.Flags.Set(chunk.VarType)
		default:
			return
		}
		if c.Flags.Has(chunk.StmtStart) {
			return
		}
		id = list.PrevNonTrivial(id)
	}
}
