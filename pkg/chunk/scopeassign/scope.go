// Package scopeassign attaches the enclosing namespace/class/function path
// to every chunk in a single forward walk, extending the tracker's bracket
// pairing instead of rescanning the stream once per scope owner.
package scopeassign

import (
	"strings"

	"chunkdex/pkg/chunk"
)

type frame struct {
	closeID chunk.ID
	scope   string
}

// Assign walks list once, setting Chunk.Scope on every chunk. pairs is the
// bracket-pairing map produced by frametrack.Track.
func Assign(list *chunk.List, pairs map[chunk.ID]chunk.ID) {
	var stack []frame

	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Kind == chunk.KindNewline || c.Kind == chunk.KindNLCont || c.Kind == chunk.KindWhitespace {
			continue
		}

		base := ""
		if n := len(stack); n > 0 {
			base = stack[n-1].scope
		}
		if chain := backwardChain(list, id); chain != "" {
			base = chain
		}

		c.Scope = decorate(c, base)
		pushChildFrames(list, pairs, id, c, base, &stack)

		for len(stack) > 0 && stack[len(stack)-1].closeID == id {
			stack = stack[:len(stack)-1]
		}
	}

	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		if c.Scope != "" {
			continue
		}
		switch {
		case c.Flags.Has(chunk.Static):
			c.Scope = "<local>"
		case c.Flags.Has(chunk.InPreproc):
			c.Scope = "<preproc>"
		default:
			c.Scope = "<global>"
		}
	}
}

// isFuncLike reports whether c is one of the function-family kinds whose
// own scope and child regions get the "()"/"{}" decoration treatment.
func isFuncLike(c *chunk.Chunk) bool {
	switch c.Kind {
	case chunk.KindFuncProto, chunk.KindFuncDef, chunk.KindFuncClass:
		return c.Flags.Has(chunk.Def) || c.Flags.Has(chunk.Proto)
	}
	return false
}

// isAggregateTag reports whether c names a namespace, or a class/struct/
// union/enum that owns a body, both of which introduce a plain (undecorated)
// nested scope for their members.
func isAggregateTag(c *chunk.Chunk) bool {
	if !c.Flags.Has(chunk.Def) {
		return false
	}
	if c.Kind == chunk.KindWord && c.ParentKind == chunk.KindNamespace {
		return true
	}
	if c.Kind == chunk.KindType {
		switch c.ParentKind {
		case chunk.KindClass, chunk.KindStruct, chunk.KindUnion, chunk.KindEnum:
			return true
		}
	}
	return false
}

// decorate computes pc's own displayed scope: the inherited/backward base,
// suffixed with "()" for a prototype-only function or "{}" for one with a
// body. Aggregate tags and plain references get no suffix, and an empty
// base stays empty so the final pass fills in <global>/<local>/<preproc>.
func decorate(c *chunk.Chunk, base string) string {
	if !isFuncLike(c) || base == "" {
		return base
	}
	if c.Flags.Has(chunk.Def) {
		return base + "{}"
	}
	return base + "()"
}

// pushChildFrames finds the bracket(s) pc introduces — a namespace/class
// body, or a function's argument list and (if present) its body — and
// pushes a scope frame active for exactly that bracket's span, so every
// chunk inside inherits pc.name(+decoration) prepended to base.
func pushChildFrames(list *chunk.List, pairs map[chunk.ID]chunk.ID, id chunk.ID, c *chunk.Chunk, base string, stack *[]frame) {
	switch {
	case isAggregateTag(c):
		open := list.NextNonTrivial(id)
		if open == chunk.NoID || (list.At(open).Kind != chunk.KindBraceOpen && list.At(open).Kind != chunk.KindVBraceOpen) {
			return
		}
		if close, ok := pairs[open]; ok {
			*stack = append(*stack, frame{closeID: close, scope: appendSeg(base, c.Text)})
		}

	case isFuncLike(c):
		argOpen := list.NextNonTrivial(id)
		if argOpen == chunk.NoID || (list.At(argOpen).Kind != chunk.KindFParenOpen && list.At(argOpen).Kind != chunk.KindParenOpen) {
			return
		}
		argClose, ok := pairs[argOpen]
		if !ok {
			return
		}

		name := c.Text
		if dtor := list.PrevNonTrivial(id); dtor != chunk.NoID && list.At(dtor).Kind == chunk.KindTilde {
			name = "~" + name
		}

		if bodyOpen := list.NextNonTrivial(argClose); bodyOpen != chunk.NoID &&
			(list.At(bodyOpen).Kind == chunk.KindBraceOpen || list.At(bodyOpen).Kind == chunk.KindVBraceOpen) {
			if bodyClose, ok := pairs[bodyOpen]; ok {
				*stack = append(*stack, frame{closeID: bodyClose, scope: appendSeg(base, name+"{}")})
			}
		}
		*stack = append(*stack, frame{closeID: argClose, scope: appendSeg(base, name+"()")})
	}
}

func appendSeg(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + ":" + seg
}

// backwardChain walks backward over a maximal TYPE/WORD (DC_MEMBER TYPE/WORD)*
// chain immediately preceding id — the qualified-name prefix of an
// out-of-line definition like "N::C::m" — and joins it with ":". Returns ""
// when id isn't preceded by any such chain.
func backwardChain(list *chunk.List, id chunk.ID) string {
	var segs []string
	cur := id
	for {
		sep := list.PrevNonTrivial(cur)
		if sep == chunk.NoID || list.At(sep).Kind != chunk.KindDCMember {
			break
		}
		name := list.PrevNonTrivial(sep)
		if name == chunk.NoID {
			break
		}
		nc := list.At(name)
		if nc.Kind != chunk.KindType && nc.Kind != chunk.KindWord {
			break
		}
		segs = append(segs, nc.Text)
		cur = name
	}
	if len(segs) == 0 {
		return ""
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ":")
}
