package relabel

import "chunkdex/pkg/chunk"

// classifyColons reclassifies every generic COLON into the narrower kind its
// surrounding syntax implies: ternary, case/default label, goto label, a
// base-class list, a bitfield width, a foreach-style for-loop, a Pawn tag
// prefix, or a C99/GNU designated array-initializer element. An access
// specifier ("public:") and a colon that matches none of these stay COLON —
// the re-labeler's usual default when context is genuinely ambiguous.
func classifyColons(ctx *Context) {
	list := ctx.List
	var ternaryDepth int
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		switch c.Kind {
		case chunk.KindQuestion:
			ternaryDepth++
		case chunk.KindColon:
			if ternaryDepth > 0 {
				ternaryDepth--
				c.Kind = chunk.KindCondColon
				continue
			}
			classifyOneColon(list, id, c)
		case chunk.KindSemicolon, chunk.KindVSemicolon:
			ternaryDepth = 0
		}
	}
}

func classifyOneColon(list *chunk.List, id chunk.ID, c *chunk.Chunk) {
	prev := list.PrevNonTrivial(id)
	if prev == chunk.NoID {
		return
	}
	prevC := list.At(prev)

	switch prevC.Kind {
	case chunk.KindCase, chunk.KindDefault:
		c.Kind = chunk.KindCaseColon
		return
	}

	if prevC.Kind == chunk.KindWord && prevC.Flags.Has(chunk.StmtStart) {
		next := list.NextNonTrivial(id)
		if next != chunk.NoID {
			nk := list.At(next).Kind
			if nk != chunk.KindNumber && nk != chunk.KindBraceOpen {
				c.Kind = chunk.KindLabelColon
				return
			}
		}
	}

	if parentKind, ok := enclosingSParenParent(list, id); ok && parentKind == chunk.KindFor {
		c.Kind = chunk.KindForColon
		return
	}

	if isBaseClassListColon(list, id) {
		c.Kind = chunk.KindClassColon
		return
	}

	if next := list.NextNonTrivial(id); next != chunk.NoID && list.At(next).Kind == chunk.KindNumber &&
		(prevC.Kind == chunk.KindWord) {
		c.Kind = chunk.KindBitColon
		return
	}

	if prevC.Kind == chunk.KindWord && !prevC.Flags.Has(chunk.StmtStart) && !insideSquareBrackets(list, id) {
		if next := list.NextNonTrivial(id); next != chunk.NoID && list.At(next).Kind == chunk.KindWord {
			c.Kind = chunk.KindTagColon
			return
		}
	}

	if prevC.Kind == chunk.KindSquareClose && isDesignatedArrayColon(list, prev) {
		c.Kind = chunk.KindDArrayColon
		return
	}
}

// isDesignatedArrayColon reports whether closeBracket's matching '[' sits
// directly after '{' or ',', which is what a GNU/C99 designated array
// initializer element "[index]: value" looks like inside a brace list.
func isDesignatedArrayColon(list *chunk.List, closeBracket chunk.ID) bool {
	depth := 0
	open := chunk.NoID
	for cur := list.Prev(closeBracket); cur != chunk.NoID; cur = list.Prev(cur) {
		k := list.At(cur).Kind
		if chunk.IsClose(k) {
			depth++
			continue
		}
		if chunk.IsOpen(k) {
			if depth == 0 {
				open = cur
				break
			}
			depth--
		}
	}
	if open == chunk.NoID || list.At(open).Kind != chunk.KindSquareOpen {
		return false
	}
	before := list.PrevNonTrivial(open)
	if before == chunk.NoID {
		return false
	}
	switch list.At(before).Kind {
	case chunk.KindBraceOpen, chunk.KindVBraceOpen, chunk.KindComma:
		return true
	}
	return false
}

// insideSquareBrackets reports whether id sits inside an unclosed '[' — used
// to keep the Pawn tag-colon heuristic below from firing on an Objective-C
// message send's keyword-argument colon ("[obj doThing:value]"), which has
// the same bare "WORD : WORD" shape.
func insideSquareBrackets(list *chunk.List, id chunk.ID) bool {
	depth := 0
	for cur := list.Prev(id); cur != chunk.NoID; cur = list.Prev(cur) {
		k := list.At(cur).Kind
		switch {
		case k == chunk.KindSquareClose:
			depth++
		case k == chunk.KindSquareOpen:
			if depth == 0 {
				return true
			}
			depth--
		case k == chunk.KindSemicolon, k == chunk.KindVSemicolon,
			k == chunk.KindBraceOpen, k == chunk.KindBraceClose:
			if depth == 0 {
				return false
			}
		}
	}
	return false
}

// enclosingSParenParent walks backward, tracking bracket depth, to find the
// nearest unmatched '(' and reports its ParentKind — used to recognize a
// Java/C# foreach colon sitting directly inside a for(...) header.
func enclosingSParenParent(list *chunk.List, id chunk.ID) (chunk.Kind, bool) {
	depth := 0
	for cur := list.Prev(id); cur != chunk.NoID; cur = list.Prev(cur) {
		k := list.At(cur).Kind
		switch {
		case chunk.IsClose(k):
			depth++
		case k == chunk.KindSParenOpen:
			if depth == 0 {
				return list.At(cur).ParentKind, true
			}
			depth--
		case chunk.IsOpen(k):
			if depth == 0 {
				return chunk.KindUnknown, false
			}
			depth--
		}
	}
	return chunk.KindUnknown, false
}

// isBaseClassListColon scans backward at bracket depth 0 for a class/struct
// keyword before hitting a statement boundary, which is what a C++
// "class Foo : public Bar" base-list colon looks like.
func isBaseClassListColon(list *chunk.List, id chunk.ID) bool {
	depth := 0
	for cur := list.Prev(id); cur != chunk.NoID; cur = list.Prev(cur) {
		k := list.At(cur).Kind
		switch {
		case chunk.IsClose(k):
			depth++
		case chunk.IsOpen(k):
			if depth == 0 {
				return false
			}
			depth--
		case depth == 0 && (k == chunk.KindClass || k == chunk.KindStruct):
			return true
		case depth == 0 && (k == chunk.KindSemicolon || k == chunk.KindVSemicolon || k == chunk.KindBraceClose || k == chunk.KindVBraceClose):
			return false
		}
	}
	return false
}
