package emit

import (
	"fmt"
	"io"

	"chunkdex/pkg/chunk"
)

// WriteText renders records in the "FILE:LINE:COLUMN SCOPE KIND SUBKIND
// NAME" line format used by the text sink and by test fixtures.
func WriteText(w io.Writer, records []chunk.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s:%d:%d %s %s %s %s\n",
			r.File, r.Line, r.Column, r.Scope, r.IDKind, r.SubKind, r.Name); err != nil {
			return err
		}
	}
	return nil
}
