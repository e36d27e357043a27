package relabel

import "chunkdex/pkg/chunk"

// classifyLambdas recognizes a C++ lambda — "[capture](params){body}" or
// "[capture]{body}" — and retags the body's opening brace to CPP_LAMBDA so
// the scope assigner treats it as its own scope instead of a bare block,
// marking every chunk inside with InLambda.
func classifyLambdas(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind != chunk.KindSquareOpen {
			continue
		}
		close, ok := ctx.Pairs[id]
		if !ok {
			continue
		}
		body := lambdaBody(list, close)
		if body == chunk.NoID {
			continue
		}
		bodyChunk := list.At(body)
		bodyChunk.Kind = chunk.KindCppLambda
		if bodyClose, ok := ctx.Pairs[body]; ok {
			markSpan(list, body, bodyClose, chunk.InLambda)
		}
	}
}

// classifyCSProperties retags a brace as CS_PROPERTY when the token right
// before it is a WORD, a closing brace, or a closing square bracket — an
// auto-property body ("int X { get; set; }"), a chained property/getter
// run one after another, and an indexer body ("this[int i] { ... }")
// respectively. It runs after every other brace-retagging pass so a body
// already claimed by a more specific construct is excluded for free: a
// class/struct/enum tag name is promoted from WORD to TYPE by
// classifyTypeDecls before this runs, a namespace name stays WORD but
// carries ParentKind NAMESPACE and is skipped below, and a lambda body is
// already KindCppLambda from the loop above.
func classifyCSProperties(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind != chunk.KindBraceOpen && c.Kind != chunk.KindVBraceOpen {
			continue
		}
		prev := list.PrevNonTrivial(id)
		if prev == chunk.NoID {
			continue
		}
		switch list.At(prev).Kind {
		case chunk.KindWord, chunk.KindBraceClose, chunk.KindVBraceClose, chunk.KindSquareClose:
			if list.At(prev).ParentKind == chunk.KindNamespace {
				continue
			}
			c.Kind = chunk.KindCSProperty
		}
	}
}

// lambdaBody returns the lambda body's opening brace chunk if the tokens
// after a capture-list close look like a lambda signature, or NoID.
func lambdaBody(list *chunk.List, captureClose chunk.ID) chunk.ID {
	next := list.NextNonTrivial(captureClose)
	if next == chunk.NoID {
		return chunk.NoID
	}
	switch list.At(next).Kind {
	case chunk.KindBraceOpen, chunk.KindVBraceOpen:
		return next
	case chunk.KindParenOpen, chunk.KindFParenOpen:
		// explicit parameter list (and possibly a trailing "-> Ret")
		paramClose, ok := findMatchingParen(list, next)
		if !ok {
			return chunk.NoID
		}
		after := list.NextNonTrivial(paramClose)
		for after != chunk.NoID && list.At(after).Kind != chunk.KindBraceOpen && list.At(after).Kind != chunk.KindVBraceOpen {
			// skip qualifiers (mutable, noexcept) and a trailing return type
			k := list.At(after).Kind
			if k != chunk.KindQualifier && k != chunk.KindArrow && k != chunk.KindWord && k != chunk.KindType {
				return chunk.NoID
			}
			after = list.NextNonTrivial(after)
		}
		return after
	}
	return chunk.NoID
}

// looksLikeLambdaSignature reports whether what follows a bracket close
// reads as a lambda's (params){body}, used to keep classifyObjC from
// mistaking a lambda's capture list for a message send.
func looksLikeLambdaSignature(list *chunk.List, close chunk.ID) bool {
	return lambdaBody(list, close) != chunk.NoID
}

// findMatchingParen walks forward tracking bracket depth to find a plain
// paren's close, for callers that run before the frame tracker's Pairs map
// would have the entry (it always will here, but this keeps the helper
// self-contained and reusable without a Context).
func findMatchingParen(list *chunk.List, open chunk.ID) (chunk.ID, bool) {
	depth := 0
	for id := list.Next(open); id != chunk.NoID; id = list.Next(id) {
		k := list.At(id).Kind
		switch {
		case chunk.IsOpen(k):
			depth++
		case chunk.IsClose(k):
			if depth == 0 {
				return id, true
			}
			depth--
		}
	}
	return chunk.NoID, false
}
