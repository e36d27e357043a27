// Package pipeline stitches the five analysis stages into the single entry
// point a file-processing driver calls: lex, track frames, relabel, assign
// scope, emit. Every stage mutates one shared chunk.List in place instead
// of building and querying a syntax tree.
package pipeline

import (
	"fmt"

	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/emit"
	"chunkdex/pkg/chunk/frametrack"
	"chunkdex/pkg/chunk/lang"
	"chunkdex/pkg/chunk/lexer"
	"chunkdex/pkg/chunk/relabel"
	"chunkdex/pkg/chunk/scopeassign"
)

// Warning is a recoverable diagnostic from any stage, tagged with which one
// raised it so a caller's log line can say where to look.
type Warning struct {
	Stage        string
	Line, Column int
	Message      string
}

// Result is everything one file's analysis produces.
type Result struct {
	Records  []chunk.Record
	Warnings []Warning
}

// Analyze runs all five stages over src and returns the emitted records.
// tabWidth is the visual width of a tab stop for column accounting; 0 falls
// back to the lexer's own default of 8. The only error it returns is
// chunk.ErrFrameOverflow, fatal to this file per the driver's error tiers;
// every other irregularity surfaces as a Warning and analysis continues
// best-effort.
func Analyze(file string, src []byte, mask lang.Mask, tabWidth int) (Result, error) {
	lexRes := lexer.Lex(src, lexer.Options{Mask: mask, TabWidth: tabWidth})

	trackRes, err := frametrack.Track(lexRes.List)
	if err != nil {
		return Result{Warnings: mergeWarnings(lexRes, trackRes)}, fmt.Errorf("%s: %w", file, err)
	}

	relabel.Run(lexRes.List, trackRes.Pairs)
	scopeassign.Assign(lexRes.List, trackRes.Pairs)
	records := emit.Emit(file, lexRes.List)

	return Result{Records: records, Warnings: mergeWarnings(lexRes, trackRes)}, nil
}

func mergeWarnings(lexRes lexer.Result, trackRes frametrack.Result) []Warning {
	out := make([]Warning, 0, len(lexRes.Warnings)+len(trackRes.Warnings))
	for _, w := range lexRes.Warnings {
		out = append(out, Warning{Stage: "lex", Line: w.Line, Column: w.Column, Message: w.Message})
	}
	for _, w := range trackRes.Warnings {
		out = append(out, Warning{Stage: "frametrack", Line: w.Line, Column: w.Column, Message: w.Message})
	}
	return out
}
