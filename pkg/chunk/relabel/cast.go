package relabel

import "chunkdex/pkg/chunk"

// classifyCasts recognizes a plain PAREN pair whose entire contents look
// like a type — an optional qualifier run, a TYPE/WORD, and zero or more
// '*'/'&' — immediately followed by something a unary operand could start
// with. It never changes the paren's Kind (a cast paren is, syntactically,
// still just a grouping paren); it only marks the close with CastParen so
// later passes know not to treat it as a value-producing token.
func classifyCasts(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind != chunk.KindParenOpen {
			continue
		}
		close, ok := ctx.Pairs[id]
		if !ok {
			continue
		}
		if !looksLikeCastBody(list, id, close) {
			continue
		}
		if !looksLikeUnaryOperandStart(list, close) {
			continue
		}
		list.At(close).Flags = list.At(close).Flags.Set(chunk.CastParen)
	}
}

// looksLikeCastBody reports whether every non-trivial chunk strictly
// between open and close is plausibly part of a type name: a TYPE/WORD
// token, a qualifier keyword, or a star (not yet retagged PTR_TYPE, since
// this pass runs before classifyPointers).
func looksLikeCastBody(list *chunk.List, open, close chunk.ID) bool {
	saw := false
	for id := list.NextNonTrivial(open); id != chunk.NoID && id != close; id = list.NextNonTrivial(id) {
		switch list.At(id).Kind {
		case chunk.KindType, chunk.KindWord, chunk.KindQualifier, chunk.KindStar, chunk.KindDCMember:
			saw = true
		default:
			return false
		}
	}
	return saw
}

func looksLikeUnaryOperandStart(list *chunk.List, close chunk.ID) bool {
	next := list.NextNonTrivial(close)
	if next == chunk.NoID {
		return false
	}
	switch list.At(next).Kind {
	case chunk.KindWord, chunk.KindNumber, chunk.KindNumberFP, chunk.KindString, chunk.KindStringMulti,
		chunk.KindAmp, chunk.KindStar, chunk.KindParenOpen, chunk.KindBang, chunk.KindTilde:
		return true
	case chunk.KindArith:
		// unary +/- in front of the operand, e.g. (float)-1
		return true
	}
	return false
}
