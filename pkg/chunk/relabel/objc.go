package relabel

import "chunkdex/pkg/chunk"

// classifyObjC recognizes Objective-C message sends ("[obj sel:arg]"),
// block literals ("^(int x){...}"), @{ }-style dictionary/array literal
// colons, and a best-effort protocol list ("<Proto1, Proto2>") after a
// class/interface name. None of these have a dedicated parser to lean on,
// so each rule looks at exactly the tokens immediately around it.
func classifyObjC(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		switch {
		case c.Kind == chunk.KindSquareOpen:
			tryMessageSend(ctx, id, c)
		case c.Kind == chunk.KindArith && c.Text == "^":
			tryBlockCaret(list, id, c)
		case c.Kind == chunk.KindBraceOpen:
			tryDictLiteral(ctx, id, c)
		case c.Kind == chunk.KindCompare && c.Text == "<":
			tryProtocolList(list, id, c)
		}
	}
}

// tryMessageSend retags '[' as OC_MSG_SEND when it opens a fresh
// expression (not an index off a value) and its first token is a plain
// WORD — "[receiver selector:arg ...]".
func tryMessageSend(ctx *Context, id chunk.ID, c *chunk.Chunk) {
	list := ctx.List
	prev := list.PrevNonTrivial(id)
	var prevKind chunk.Kind
	if prev != chunk.NoID {
		prevKind = list.At(prev).Kind
	}
	if endsValue(prevKind) {
		return
	}
	first := list.NextNonTrivial(id)
	if first == chunk.NoID || list.At(first).Kind != chunk.KindWord {
		return
	}
	if close, ok := ctx.Pairs[id]; ok && looksLikeLambdaSignature(list, close) {
		return // "[this](...){ ... }" reads as a C++ lambda, not a message send
	}
	c.Kind = chunk.KindOCMsgSend
	if close, ok := ctx.Pairs[id]; ok {
		markSpan(list, id, close, chunk.InOCMsg)
	}
}

func tryBlockCaret(list *chunk.List, id chunk.ID, c *chunk.Chunk) {
	prev := list.PrevNonTrivial(id)
	var prevKind chunk.Kind
	if prev != chunk.NoID {
		prevKind = list.At(prev).Kind
	}
	if endsValue(prevKind) {
		return
	}
	next := list.NextNonTrivial(id)
	if next == chunk.NoID {
		return
	}
	switch list.At(next).Kind {
	case chunk.KindParenOpen, chunk.KindFParenOpen, chunk.KindBraceOpen, chunk.KindVBraceOpen, chunk.KindWord:
		c.Kind = chunk.KindOCBlockCaret
	}
}

func tryDictLiteral(ctx *Context, id chunk.ID, c *chunk.Chunk) {
	list := ctx.List
	prev := list.PrevNonTrivial(id)
	if prev == chunk.NoID {
		return
	}
	pc := list.At(prev)
	if pc.Kind != chunk.KindOtherOp || pc.Text != "@" {
		return
	}
	close, ok := ctx.Pairs[id]
	if !ok {
		return
	}
	depth := 0
	for cur := list.Next(id); cur != chunk.NoID && cur != close; cur = list.Next(cur) {
		k := list.At(cur).Kind
		switch {
		case chunk.IsOpen(k):
			depth++
		case chunk.IsClose(k):
			depth--
		case k == chunk.KindColon && depth == 0:
			list.At(cur).Kind = chunk.KindOCDictColon
		}
	}
}

// tryProtocolList does a bounded forward scan from '<' for a matching
// top-level '>' made only of WORD/COMMA tokens, which is as far as fuzzy
// lexing can safely go before risking misreading a real less-than chain.
func tryProtocolList(list *chunk.List, id chunk.ID, c *chunk.Chunk) {
	prev := list.PrevNonTrivial(id)
	if prev == chunk.NoID || list.At(prev).Kind != chunk.KindWord {
		return
	}
	depth := 0
	for cur := list.Next(id); cur != chunk.NoID; cur = list.Next(cur) {
		k := list.At(cur).Kind
		switch k {
		case chunk.KindWord, chunk.KindComma, chunk.KindNewline, chunk.KindWhitespace:
			continue
		case chunk.KindCompare:
			if list.At(cur).Text == "<" {
				depth++
				continue
			}
			if list.At(cur).Text == ">" {
				if depth == 0 {
					c.Kind = chunk.KindAngleOpen
					c.ParentKind = chunk.KindOCProtocolList
					list.At(cur).Kind = chunk.KindAngleClose
					list.At(cur).ParentKind = chunk.KindOCProtocolList
					return
				}
				depth--
				continue
			}
			return
		default:
			return
		}
	}
}
