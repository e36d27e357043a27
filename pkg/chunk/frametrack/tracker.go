// Package frametrack retags brackets to their syntactic role, inserts
// virtual braces around bracket-less statement bodies, assigns
// statement/expression starts, tracks preprocessor nesting, and propagates
// copy flags from the innermost enclosing frame — all in a single forward
// walk over an already-lexed chunk list.
package frametrack

import (
	"fmt"

	"chunkdex/pkg/chunk"
)

// Warning mirrors lexer.Warning so the driver can merge diagnostics from
// every stage into one log stream without an import cycle.
type Warning struct {
	Line, Column int
	Message      string
}

// Result is the tracker's output.
type Result struct {
	// Pairs maps every matched open bracket chunk to its close and back,
	// for (), [] and {}/virtual {} — the three kinds the tracker actually
	// pushes onto the frame stack. <> is deliberately not paired here:
	// matching '<'/'>' reliably in C-family code is notoriously unreliable
	// because of the comparison-operator ambiguity, so template/generic
	// argument lists get a bounded local scan of their own instead.
	Pairs    map[chunk.ID]chunk.ID
	Warnings []Warning
}

type copyFlagCounts map[chunk.Flags]int

func (c copyFlagCounts) enter(f chunk.Flags) { c[f]++ }
func (c copyFlagCounts) leave(f chunk.Flags) {
	if c[f] > 0 {
		c[f]--
	}
}
func (c copyFlagCounts) active() chunk.Flags {
	var out chunk.Flags
	for f, n := range c {
		if n > 0 {
			out |= f
		}
	}
	return out
}

type tracker struct {
	list             *chunk.List
	frames           chunk.FrameStack
	pairs            map[chunk.ID]chunk.ID
	copy             copyFlagCounts
	level            int
	brace            int
	pp               int
	res              *Result
	atStart          bool     // next non-trivial chunk begins a new statement
	typedefActive    bool     // inside a typedef statement, up to its closing ';'
	typedefBrace     int      // brace depth the active typedef's keyword was seen at
	pendingCondition condKind // keyword awaiting its condition paren, e.g. the IF in "if ("
	overflowed       bool     // the frame stack hit chunk.MaxFrameDepth; Track aborts after this step
}

// push wraps FrameStack.Push, latching overflowed instead of losing the
// error the way a discarded return value would.
func (t *tracker) push(f chunk.Frame) {
	if err := t.frames.Push(f); err != nil {
		t.overflowed = true
	}
}

// Track runs the brace/paren/frame tracker over list, mutating chunks in
// place and returning bracket-pair data and any recoverable warnings. It
// returns chunk.ErrFrameOverflow, fatal to the file per the driver's error
// tiers, if the source nests more than chunk.MaxFrameDepth brackets deep.
func Track(list *chunk.List) (Result, error) {
	t := &tracker{
		list:    list,
		pairs:   make(map[chunk.ID]chunk.ID),
		copy:    make(copyFlagCounts),
		atStart: true,
	}
	t.res = &Result{Pairs: t.pairs}

	for id := list.Head(); id != chunk.NoID; id = list.Next(id) {
		t.step(id)
		if t.overflowed {
			return *t.res, chunk.ErrFrameOverflow
		}
	}

	if t.frames.Len() > 0 {
		t.warn(0, 0, fmt.Sprintf("unbalanced end-of-file: %d unmatched frame(s) left open", t.frames.Len()))
	}
	return *t.res, nil
}

func (t *tracker) warn(line, col int, msg string) {
	t.res.Warnings = append(t.res.Warnings, Warning{Line: line, Column: col, Message: msg})
}

func (t *tracker) step(id chunk.ID) {
	c := t.list.At(id)

	if c.Kind == chunk.KindNewline || c.Kind == chunk.KindNLCont || c.Kind == chunk.KindWhitespace {
		return
	}

	c.Level = t.level
	c.BraceLevel = t.brace
	c.PPLevel = t.pp
	c.Flags |= t.copy.active()
	if t.typedefActive {
		c.Flags |= chunk.InTypedef
	}

	if c.Kind == chunk.KindPreproc {
		if d := t.list.NextNonTrivial(id); d != chunk.NoID {
			dc := t.list.At(d)
			switch {
			case dc.Kind == chunk.KindPPIf && dc.Text != "elif":
				t.pp++
			case dc.Kind == chunk.KindPPElse && dc.Text == "endif" && t.pp > 0:
				t.pp--
			}
		}
	}
	if c.Kind == chunk.KindTypedef {
		t.typedefActive = true
		t.typedefBrace = t.brace
	}

	switch {
	case c.Kind == chunk.KindSemicolon || c.Kind == chunk.KindVSemicolon:
		t.atStart = true
		if t.brace <= t.typedefBrace {
			t.typedefActive = false
		}
		return
	case t.atStart:
		c.Flags |= chunk.StmtStart | chunk.ExprStart
		t.atStart = false
	}

	switch c.Kind {
	case chunk.KindParenOpen:
		t.openParen(id, c)
	case chunk.KindParenClose, chunk.KindSParenClose, chunk.KindFParenClose, chunk.KindTParenClose:
		t.closeBracket(id, c, chunk.KindParenOpen)
	case chunk.KindSquareOpen:
		t.pushGeneric(id, c, c.Kind)
	case chunk.KindSquareClose:
		t.closeBracket(id, c, chunk.KindSquareOpen)
	case chunk.KindBraceOpen, chunk.KindVBraceOpen:
		t.openBrace(id, c)
	case chunk.KindBraceClose, chunk.KindVBraceClose:
		t.closeBrace(id, c)
	case chunk.KindIf, chunk.KindFor, chunk.KindWhile, chunk.KindSwitch, chunk.KindForeach:
		t.expectCondition(id, c.Kind)
	case chunk.KindCatch:
		t.expectOptionalCondition(id)
	case chunk.KindDo, chunk.KindElse, chunk.KindTry, chunk.KindFinally:
		t.maybeResolveBareBody(id, c.Kind)
	case chunk.KindClass, chunk.KindStruct, chunk.KindUnion, chunk.KindEnum, chunk.KindNamespace, chunk.KindTemplate:
		t.presetBraceParent(id, c.Kind)
	}
}

func (t *tracker) pushGeneric(id chunk.ID, c *chunk.Chunk, kind chunk.Kind) {
	t.push(chunk.Frame{OpenKind: kind, ParentKind: c.ParentKind, Level: t.level, OpenChunk: id})
	t.level++
}

// openParen decides SPAREN/FPAREN/plain-PAREN: condition parens the tracker
// was told to expect become SPAREN, parens that immediately follow an
// identifier become FPAREN (candidate call/decl parens), and everything
// else stays a plain PAREN. The harder call-vs-def-vs-cast distinction is
// left to the re-labeler, which only ever promotes a plain PAREN or FPAREN
// further and never touches level accounting.
func (t *tracker) openParen(id chunk.ID, c *chunk.Chunk) {
	if t.pendingCondition.set {
		c.Kind = chunk.KindSParenOpen
		c.ParentKind = t.pendingCondition.kind
		t.pendingCondition = condNone
	} else if prev := t.list.PrevNonTrivial(id); prev != chunk.NoID {
		pk := t.list.At(prev).Kind
		if pk == chunk.KindWord || pk == chunk.KindType || isFuncRefinedKind(pk) {
			c.Kind = chunk.KindFParenOpen
		}
	}
	t.push(chunk.Frame{OpenKind: c.Kind, ParentKind: c.ParentKind, Level: t.level, OpenChunk: id})
	t.level++
	t.atStart = true // first token inside a paren starts a new expression
}

func isFuncRefinedKind(k chunk.Kind) bool {
	switch k {
	case chunk.KindFuncCall, chunk.KindFuncCallUser, chunk.KindFuncProto, chunk.KindFuncDef, chunk.KindFuncClass, chunk.KindFuncVar:
		return true
	}
	return false
}

func (t *tracker) closeBracket(id chunk.ID, c *chunk.Chunk, wantOpen chunk.Kind) {
	var f chunk.Frame
	if top, ok := t.frames.Top(); ok && sameBracketFamily(top.OpenKind, wantOpen) {
		f, _ = t.frames.Pop()
	} else {
		recovered, found := t.frames.PopUntilMatch(c.Kind)
		if !found {
			t.warn(c.Origin.Line, c.Origin.ColumnStart, "unmatched closing bracket, no frame to pair with")
			return
		}
		f = recovered
	}
	c.Kind = chunk.Matching(f.OpenKind)
	c.ParentKind = f.ParentKind
	t.level = f.Level
	t.pairs[f.OpenChunk] = id
	t.pairs[id] = f.OpenChunk
	t.atStart = true

	if c.Kind == chunk.KindSParenClose {
		// A do-while's trailing `while (...)` has no body of its own.
		doWhile := false
		if kw := t.list.PrevNonTrivial(f.OpenChunk); kw != chunk.NoID && t.list.At(kw).Kind == chunk.KindWhile {
			if body := t.list.PrevNonTrivial(kw); body != chunk.NoID {
				bc := t.list.At(body)
				doWhile = chunk.IsClose(bc.Kind) && bc.ParentKind == chunk.KindDo
			}
		}
		if !doWhile {
			t.resolveBody(id, f.ParentKind)
		}
	}
}

func sameBracketFamily(open, want chunk.Kind) bool {
	if open == want {
		return true
	}
	switch want {
	case chunk.KindParenOpen:
		return open == chunk.KindSParenOpen || open == chunk.KindFParenOpen || open == chunk.KindTParenOpen
	}
	return false
}

// condKind is a tiny optional-Kind type for the "no pending condition"
// sentinel, since chunk.KindUnknown is a valid ParentKind for other uses.
type condKind struct {
	kind chunk.Kind
	set  bool
}

var condNone = condKind{}

func (t *tracker) expectCondition(keywordID chunk.ID, keyword chunk.Kind) {
	t.pendingCondition = condKind{keyword, true}
	next := t.list.NextNonTrivial(keywordID)
	if next == chunk.NoID || t.list.At(next).Kind != chunk.KindParenOpen {
		// Malformed or paren-less construct: fuzzy lexing tolerates it by
		// resolving the body directly off the keyword instead.
		t.pendingCondition = condNone
		t.resolveBody(keywordID, keyword)
	}
}

func (t *tracker) expectOptionalCondition(keywordID chunk.ID) {
	next := t.list.NextNonTrivial(keywordID)
	if next != chunk.NoID && t.list.At(next).Kind == chunk.KindParenOpen {
		t.pendingCondition = condKind{chunk.KindCatch, true}
		return
	}
	t.resolveBody(keywordID, chunk.KindCatch)
}

func (t *tracker) maybeResolveBareBody(id chunk.ID, keyword chunk.Kind) {
	if keyword == chunk.KindElse {
		if next := t.list.NextNonTrivial(id); next != chunk.NoID && t.list.At(next).Kind == chunk.KindIf {
			return // the nested `if` resolves its own body
		}
	}
	t.resolveBody(id, keyword)
}

// presetBraceParent finds the body brace of a class/struct/union/enum/
// namespace declaration, which may sit right after the keyword (anonymous)
// or after a tag name and an optional base-class/bitfield-width list
// (named), and records the owning keyword as that brace's parent so the
// tracker's own openBrace bookkeeping can pick it up when it gets there.
func (t *tracker) presetBraceParent(id chunk.ID, keyword chunk.Kind) {
	if keyword == chunk.KindTemplate {
		return // templates are resolved by relabel/template.go, not here
	}
	depth := 0
	for n := t.list.NextNonTrivial(id); n != chunk.NoID; n = t.list.NextNonTrivial(n) {
		k := t.list.At(n).Kind
		switch {
		case k == chunk.KindBraceOpen && depth == 0:
			t.list.At(n).ParentKind = keyword
			return
		case (k == chunk.KindSemicolon || k == chunk.KindVSemicolon) && depth == 0:
			return // a forward declaration with no body
		case chunk.IsOpen(k):
			depth++
		case chunk.IsClose(k):
			if depth == 0 {
				return
			}
			depth--
		}
	}
}

// resolveBody inserts virtual braces: if the construct's body isn't a real
// brace, it splices VBRACE_OPEN/VBRACE_CLOSE around the single statement
// that follows so downstream brace-level accounting never has to
// special-case the bracket-less form. after is the chunk the body follows
// (a closing SPAREN, or a bare keyword like else/do/try/finally/catch).
func (t *tracker) resolveBody(after chunk.ID, parent chunk.Kind) {
	next := t.list.NextNonTrivial(after)
	if next == chunk.NoID {
		t.warn(0, 0, "construct has no body before EOF")
		return
	}
	if t.list.At(next).Kind == chunk.KindBraceOpen {
		t.list.At(next).ParentKind = parent
		return
	}

	end := t.findStatementEnd(next)
	if end == chunk.NoID {
		t.warn(0, 0, "could not find end of bracket-less statement body")
		return
	}

	origin := t.list.At(after).Origin
	openID := t.list.InsertAfter(after, chunk.Chunk{
		Kind:       chunk.KindVBraceOpen,
		ParentKind: parent,
		Origin:     origin,
		Text:       "",
	})
	_ = openID
	t.list.InsertAfter(end, chunk.Chunk{
		Kind:       chunk.KindVBraceClose,
		ParentKind: parent,
		Origin:     t.list.At(end).Origin,
		Text:       "",
	})
}

// findStatementEnd scans forward from start for the first top-level
// semicolon (bracket depth back to zero relative to start), without
// mutating anything. It is the read-only lookahead resolveBody needs before
// it splices virtual braces.
func (t *tracker) findStatementEnd(start chunk.ID) chunk.ID {
	depth := 0
	for id := start; id != chunk.NoID; id = t.list.Next(id) {
		k := t.list.At(id).Kind
		switch {
		case chunk.IsOpen(k):
			depth++
		case chunk.IsClose(k):
			if depth == 0 {
				return id // a brace/paren closed before we found our ';': malformed, bail here
			}
			depth--
		case (k == chunk.KindSemicolon || k == chunk.KindVSemicolon) && depth == 0:
			return id
		case k == chunk.KindBraceOpen && depth == 0:
			return chunk.NoID // turns out there IS a real brace; let normal handling take it
		}
	}
	return chunk.NoID
}

func (t *tracker) openBrace(id chunk.ID, c *chunk.Chunk) {
	parent := c.ParentKind
	t.push(chunk.Frame{OpenKind: c.Kind, ParentKind: parent, Level: t.level, OpenChunk: id, Stage: stageFor(parent)})
	t.level++
	t.brace++
	if f := copyFlagFor(parent); f != 0 {
		t.copy.enter(f)
	}
	t.atStart = true
}

func (t *tracker) closeBrace(id chunk.ID, c *chunk.Chunk) {
	wantOpen := chunk.KindBraceOpen
	if c.Kind == chunk.KindVBraceClose {
		wantOpen = chunk.KindVBraceOpen
	}
	var f chunk.Frame
	if top, ok := t.frames.Top(); ok && top.OpenKind == wantOpen {
		f, _ = t.frames.Pop()
	} else {
		recovered, found := t.frames.PopUntilMatch(c.Kind)
		if !found {
			t.warn(c.Origin.Line, c.Origin.ColumnStart, "unmatched closing brace, no frame to pair with")
			return
		}
		f = recovered
	}
	c.ParentKind = f.ParentKind
	t.level = f.Level
	t.brace--
	t.pairs[f.OpenChunk] = id
	t.pairs[id] = f.OpenChunk
	if flag := copyFlagFor(f.ParentKind); flag != 0 {
		t.copy.leave(flag)
	}
	t.atStart = true
}

func copyFlagFor(parent chunk.Kind) chunk.Flags {
	switch parent {
	case chunk.KindClass:
		return chunk.InClass
	case chunk.KindStruct:
		return chunk.InStruct
	case chunk.KindUnion:
		return chunk.InUnion
	case chunk.KindEnum:
		return chunk.InEnum
	case chunk.KindNamespace:
		return chunk.InNamespace
	case chunk.KindFor:
		return chunk.InFor
	}
	return 0
}

func stageFor(parent chunk.Kind) chunk.BraceStage {
	switch parent {
	case chunk.KindDo:
		return chunk.StageBraceDo
	case chunk.KindIf, chunk.KindFor, chunk.KindWhile, chunk.KindForeach, chunk.KindSwitch:
		return chunk.StageBrace2
	case chunk.KindCatch, chunk.KindFinally:
		return chunk.StageCatch
	default:
		return chunk.StageNone
	}
}
