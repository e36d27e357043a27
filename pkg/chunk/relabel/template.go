package relabel

import "chunkdex/pkg/chunk"

// resolveTemplates handles exactly the "template <...>" header: a bounded
// forward scan matching nested '<'/'>' made only of WORD/COMMA/qualifier/
// keyword tokens. General generic-instantiation angle brackets ("Foo<Bar>")
// are deliberately left untouched — matching '<'/'>' outside a known
// template header is exactly the class of ambiguity (with comparison chains
// like a<b>c) that this package avoids at the frame-tracker level, and
// attempting it here with the same bounded-scan trick would misfire on
// ordinary comparison-heavy arithmetic far more often than it would help.
func resolveTemplates(ctx *Context) {
	list := ctx.List
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		if list.At(id).Kind != chunk.KindTemplate {
			continue
		}
		open := list.NextNonTrivial(id)
		if open == chunk.NoID || list.At(open).Kind != chunk.KindCompare || list.At(open).Text != "<" {
			continue
		}
		closeID := scanTemplateAngles(list, open)
		if closeID == chunk.NoID {
			continue
		}
		openChunk := list.At(open)
		closeChunk := list.At(closeID)
		openChunk.Kind = chunk.KindAngleOpen
		openChunk.ParentKind = chunk.KindTemplate
		closeChunk.Kind = chunk.KindAngleClose
		closeChunk.ParentKind = chunk.KindTemplate
		markSpan(list, open, closeID, chunk.InTemplate)
	}
}

func scanTemplateAngles(list *chunk.List, open chunk.ID) chunk.ID {
	depth := 0
	for id := list.Next(open); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		switch c.Kind {
		case chunk.KindWord, chunk.KindType, chunk.KindComma, chunk.KindQualifier,
			chunk.KindNumber, chunk.KindDCMember, chunk.KindNewline, chunk.KindWhitespace,
			chunk.KindClass, chunk.KindOtherKeyword:
			continue
		case chunk.KindCompare:
			switch c.Text {
			case "<":
				depth++
			case ">":
				if depth == 0 {
					return id
				}
				depth--
			default:
				return chunk.NoID
			}
		default:
			return chunk.NoID
		}
	}
	return chunk.NoID
}
