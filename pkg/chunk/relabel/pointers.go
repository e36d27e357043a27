package relabel

import "chunkdex/pkg/chunk"

// classifyPointers retags '*' as PTR_TYPE when it reads as part of a type
// rather than a multiplication, and retags '&' as ADDR (address-of), BYREF
// (reference declarator), or leaves it as the bitwise-AND AMP, all from the
// single token immediately to its left — the same "what ended the previous
// token" trick used for every other fuzzy binary/unary disambiguation here.
func classifyPointers(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		prev := list.PrevNonTrivial(id)
		var prevKind chunk.Kind
		var prevCastParen bool
		if prev != chunk.NoID {
			prevC := list.At(prev)
			prevKind = prevC.Kind
			prevCastParen = prevC.Flags.Has(chunk.CastParen)
		}
		if prevCastParen {
			// A cast's closing paren doesn't leave a value in hand — the
			// value starts with whatever follows the cast.
			prevKind = chunk.KindUnknown
		}

		switch c.Kind {
		case chunk.KindStar:
			typeWord := prevKind == chunk.KindWord || prevKind == chunk.KindType || prevKind == chunk.KindPtrType
			if typeWord {
				// a word right after '=', 'return' or an operator is an
				// operand, not the tail of a type run ("x = a * b;")
				if before := list.PrevNonTrivial(prev); before != chunk.NoID {
					switch list.At(before).Kind {
					case chunk.KindAssign, chunk.KindReturn, chunk.KindArith, chunk.KindCompare:
						typeWord = false
					}
				}
			}
			if !endsValue(prevKind) || (typeWord && startsDeclarator(list, id)) {
				c.Kind = chunk.KindPtrType
			}
		case chunk.KindAmp:
			if !endsValue(prevKind) {
				if prevKind == chunk.KindType || prevKind == chunk.KindPtrType {
					c.Kind = chunk.KindByRef
				} else {
					c.Kind = chunk.KindAddr
				}
			}
		}
	}
}

// startsDeclarator reports whether id (a '*' or '&') begins a run of
// pointer/reference markers immediately followed by a WORD that itself
// looks like a declarator name — one followed by ';', '=', ',', '[', or a
// closing paren. This is the "TYPE *name;" shape: the WORD before id already
// reads as a value by endsValue's ordinary rule, but a declarator-shaped
// tail overrides that and makes id a type marker instead.
func startsDeclarator(list *chunk.List, id chunk.ID) bool {
	cur := id
	for cur != chunk.NoID {
		k := list.At(cur).Kind
		if k != chunk.KindStar && k != chunk.KindAmp {
			break
		}
		cur = list.NextNonTrivial(cur)
	}
	if cur == chunk.NoID || list.At(cur).Kind != chunk.KindWord {
		return false
	}
	next := list.NextNonTrivial(cur)
	if next == chunk.NoID {
		return false
	}
	switch list.At(next).Kind {
	case chunk.KindSemicolon, chunk.KindVSemicolon, chunk.KindAssign, chunk.KindComma,
		chunk.KindSquareOpen, chunk.KindParenClose, chunk.KindSParenClose:
		return true
	}
	return false
}

// endsValue reports whether a token of kind k, sitting immediately before a
// '*' or '&', leaves a value in hand — meaning the '*'/'&' that follows must
// be the binary operator, not a pointer/reference/address-of marker.
func endsValue(k chunk.Kind) bool {
	switch k {
	case chunk.KindWord, chunk.KindNumber, chunk.KindNumberFP, chunk.KindString, chunk.KindStringMulti,
		chunk.KindParenClose, chunk.KindSParenClose, chunk.KindFParenClose, chunk.KindTParenClose,
		chunk.KindSquareClose, chunk.KindFuncCall, chunk.KindFuncCallUser:
		return true
	}
	return false
}
