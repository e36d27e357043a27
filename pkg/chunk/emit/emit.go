// Package emit converts a fully tracked, relabeled, and scoped chunk list
// into the final record stream: every chunk surviving the keyword/
// punctuator filter is routed to an (IDKind, SubKind) pair by the table in
// route.go, in strictly non-decreasing (line, column) order.
package emit

import "chunkdex/pkg/chunk"

// Emit walks list once and returns every record it produces for file.
func Emit(file string, list *chunk.List) []chunk.Record {
	var out []chunk.Record
	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		c := list.At(id)
		idKind, subKind, ok := route(c)
		if !ok {
			continue
		}
		out = append(out, chunk.Record{
			File:    file,
			Line:    c.Origin.Line,
			Column:  c.Origin.ColumnStart,
			Scope:   c.Scope,
			IDKind:  idKind,
			SubKind: subKind,
			Name:    c.Text,
		})
	}
	return out
}
