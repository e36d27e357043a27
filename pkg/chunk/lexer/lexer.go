// Package lexer implements stage 1 of the pipeline: converting a
// file's byte buffer into an ordered sequence of chunks.
package lexer

import (
	"chunkdex/pkg/chunk"
	"chunkdex/pkg/chunk/lang"
	"chunkdex/pkg/chunk/tables"
)

// Options configures the lexer.
type Options struct {
	// TabWidth is the visual width of a tab stop for column accounting.
	// Defaults to 8 when zero.
	TabWidth int
	// Mask is the language(s) this file is lexed as.
	Mask lang.Mask
}

// Warning is a recoverable-lexical diagnostic: garbage byte,
// unmatched bracket at lex time, unterminated string/comment at EOF.
type Warning struct {
	Line, Column int
	Message      string
}

// Result is the lexer's output: the chunk list plus any warnings raised
// along the way. The list is never nil even when warnings occurred — the
// lexer always produces a valid, if imperfect, stream.
type Result struct {
	List     *chunk.List
	Warnings []Warning
}

// cursor walks the byte buffer with peek/get/save/restore, tracking
// row, column, and the last consumed byte. UTF-8 continuation bytes
// (0x80-0xBF) do not advance the column.
type cursor struct {
	buf      []byte
	pos      int
	row, col int
	lastChar byte
	tabWidth int
}

func newCursor(buf []byte, tabWidth int) *cursor {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	return &cursor{buf: buf, row: 1, col: 1, tabWidth: tabWidth}
}

func (c *cursor) eof() bool { return c.pos >= len(c.buf) }

// peek returns the byte k bytes ahead of the cursor without consuming it,
// or 0 past the end of the buffer.
func (c *cursor) peek(k int) byte {
	if c.pos+k >= len(c.buf) {
		return 0
	}
	return c.buf[c.pos+k]
}

// peekStr returns up to n bytes ahead as a string, for literal comparisons.
func (c *cursor) peekStr(n int) string {
	end := c.pos + n
	if end > len(c.buf) {
		end = len(c.buf)
	}
	return string(c.buf[c.pos:end])
}

// rest returns the unconsumed tail of the buffer as a string.
func (c *cursor) rest() string { return string(c.buf[c.pos:]) }

type savePoint struct {
	pos, row, col int
	lastChar      byte
}

func (c *cursor) save() savePoint { return savePoint{c.pos, c.row, c.col, c.lastChar} }

func (c *cursor) restore(s savePoint) {
	c.pos, c.row, c.col, c.lastChar = s.pos, s.row, s.col, s.lastChar
}

// get consumes and returns the next byte, advancing row/col. A continuation
// byte of a multi-byte UTF-8 sequence (0x80-0xBF) does not advance column.
func (c *cursor) get() byte {
	b := c.buf[c.pos]
	c.pos++
	if b == '\n' {
		c.row++
		c.col = 1
	} else if b == '\t' {
		// advance to the next tab stop
		c.col += c.tabWidth - ((c.col - 1) % c.tabWidth)
	} else if b >= 0x80 && b <= 0xBF {
		// UTF-8 continuation byte: no visual width of its own.
	} else {
		c.col++
	}
	c.lastChar = b
	return b
}

func (c *cursor) advance(n int) {
	for i := 0; i < n && !c.eof(); i++ {
		c.get()
	}
}

// Lex tokenizes src into a chunk list. It never fails outright: a
// garbage byte becomes an UNKNOWN chunk and a Warning, and scanning
// continues.
func Lex(src []byte, opt Options) Result {
	cur := newCursor(src, opt.TabWidth)
	list := chunk.NewList(len(src) / 4)
	res := Result{List: list}

	st := &state{cur: cur, list: list, mask: opt.Mask, res: &res}
	for !cur.eof() {
		st.next()
	}
	return res
}

// state threads the small amount of cross-token context the dispatch rules
// need: whether we're inside a preprocessor line and which directive it
// is, whether the next token starts a line, whether we're mid-#define
// scanning the macro name position, and whether `<...>` follows #include.
type state struct {
	cur  *cursor
	list *chunk.List
	mask lang.Mask
	res  *Result

	inPreproc       bool
	ppDirective     string
	atLineStart     bool
	expectMacroName bool // true right after `#define`, for the next WORD
	lastWasInclude  bool // true right after `#include`, so `<...>` lexes as a string
}

func (s *state) warn(line, col int, msg string) {
	s.res.Warnings = append(s.res.Warnings, Warning{Line: line, Column: col, Message: msg})
}

func (s *state) emit(kind chunk.Kind, startLine, startCol, endCol int, text string, flags chunk.Flags) chunk.ID {
	if s.inPreproc {
		flags |= chunk.InPreproc
	}
	return s.list.Append(chunk.Chunk{
		Kind: kind,
		Origin: chunk.Origin{
			Line:        startLine,
			ColumnStart: startCol,
			ColumnEnd:   endCol,
		},
		Text:  text,
		Flags: flags,
	})
}

// next dispatches a single token using a fixed first-match-wins order.
func (s *state) next() {
	c := s.cur
	line, col := c.row, c.col

	switch {
	case isWhitespaceByte(c.peek(0)):
		s.scanWhitespace()
	case c.peek(0) == '\\' && isNewlineAt(c, 1):
		s.scanLineCont(line, col)
	case c.peek(0) == '/' && c.peek(1) == '/':
		s.scanLineComment()
	case c.peek(0) == '/' && c.peek(1) == '*':
		s.scanBlockComment(line, col)
	case s.mask.Has(lang.D) && c.peek(0) == '/' && c.peek(1) == '+':
		s.scanNestableComment(line, col)
	case c.peek(0) == '#' && (s.atLineStart || s.list.Tail() == chunk.NoID):
		s.scanPreprocStart(line, col)
	case s.lastWasInclude && c.peek(0) == '<':
		s.scanString(line, col)
	case isStringStartByte(c, s.mask):
		s.scanString(line, col)
	case isDigitByte(c.peek(0)) || (c.peek(0) == '.' && isDigitByte(c.peek(1))):
		s.scanNumber(line, col)
	case isIdentStartByte(c.peek(0)):
		s.scanIdentifier(line, col)
	case c.peek(0) == '@' && s.mask.Has(lang.JAVA):
		s.scanAnnotation(line, col)
	default:
		s.scanPunctuatorOrFallback(line, col)
	}
}

func isNewlineAt(c *cursor, k int) bool {
	b := c.peek(k)
	if b == '\n' {
		return true
	}
	if b == '\r' && c.peek(k+1) == '\n' {
		return true
	}
	return false
}

func isWhitespaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f' || b == '\n'
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentContByte(b byte) bool {
	return isIdentStartByte(b) || isDigitByte(b)
}

// scanWhitespace consumes a maximal run of whitespace, emitting NEWLINE if
// any '\n' was seen, discarding it otherwise.
func (s *state) scanWhitespace() {
	c := s.cur
	line, col := c.row, c.col
	sawNL := false
	for !c.eof() && isWhitespaceByte(c.peek(0)) {
		if c.peek(0) == '\n' {
			sawNL = true
		}
		c.get()
	}
	if sawNL {
		s.emit(chunk.KindNewline, line, col, col+1, "\n", 0)
		if s.inPreproc {
			s.inPreproc = false
		}
		s.lastWasInclude = false
		s.expectMacroName = false
		s.atLineStart = true
	}
}

// scanLineCont emits NL_CONT for a backslash-newline, text normalized to
// "\\\n".
func (s *state) scanLineCont(line, col int) {
	c := s.cur
	c.get() // backslash
	if c.peek(0) == '\r' {
		c.get()
	}
	if c.peek(0) == '\n' {
		c.get()
	}
	s.emit(chunk.KindNLCont, line, col, col+2, "\\\n", 0)
}

func (s *state) scanLineComment() {
	c := s.cur
	for !c.eof() && c.peek(0) != '\n' {
		c.get()
	}
}

func (s *state) scanBlockComment(line, col int) {
	c := s.cur
	c.advance(2) // "/*"
	for !c.eof() {
		if c.peek(0) == '*' && c.peek(1) == '/' {
			c.advance(2)
			return
		}
		c.get()
	}
	s.warn(line, col, "unterminated block comment at EOF")
}

// scanNestableComment handles D's /+ ... +/ with a depth counter.
func (s *state) scanNestableComment(line, col int) {
	c := s.cur
	depth := 0
	c.advance(2) // "/+"
	depth++
	for !c.eof() && depth > 0 {
		if c.peek(0) == '/' && c.peek(1) == '+' {
			c.advance(2)
			depth++
			continue
		}
		if c.peek(0) == '+' && c.peek(1) == '/' {
			c.advance(2)
			depth--
			continue
		}
		c.get()
	}
	if depth > 0 {
		s.warn(line, col, "unterminated nested comment at EOF")
	}
}

func (s *state) scanPreprocStart(line, col int) {
	c := s.cur
	start := c.pos
	c.get() // '#'
	s.atLineStart = false
	s.inPreproc = true
	s.emit(chunk.KindPreproc, line, col, c.col, string(c.buf[start:c.pos]), chunk.InPreproc)

	// skip whitespace (not newline) before the directive name
	for !c.eof() && (c.peek(0) == ' ' || c.peek(0) == '\t') {
		c.get()
	}
	dirStart := c.pos
	dirLine, dirCol := c.row, c.col
	for !c.eof() && isIdentContByte(c.peek(0)) {
		c.get()
	}
	directive := string(c.buf[dirStart:c.pos])
	s.ppDirective = directive

	var kind chunk.Kind
	switch directive {
	case "define":
		kind = chunk.KindPPDefine
		s.expectMacroName = true
	case "if", "ifdef", "ifndef", "elif":
		kind = chunk.KindPPIf
	case "else", "endif":
		kind = chunk.KindPPElse
	case "include":
		kind = chunk.KindPPOther
		s.lastWasInclude = true
	case "":
		return
	default:
		kind = chunk.KindPPOther
	}
	if directive != "" {
		s.emit(kind, dirLine, dirCol, c.col, directive, chunk.InPreproc)
	}

	if kind == chunk.KindPPOther && directive != "include" {
		s.scanPreprocBody()
	}
}

// scanPreprocBody consumes the remainder of an unknown directive's line
// into a single PP_BODYCHUNK, honoring escaped newlines.
func (s *state) scanPreprocBody() {
	c := s.cur
	start := c.pos
	line, col := c.row, c.col
	for !c.eof() {
		if c.peek(0) == '\\' && isNewlineAt(c, 1) {
			c.get()
			continue
		}
		if c.peek(0) == '\n' {
			break
		}
		if c.peek(0) == '/' && c.peek(1) == '/' {
			break
		}
		c.get()
	}
	if c.pos > start {
		s.emit(chunk.KindPPBodyChunk, line, col, c.col, string(c.buf[start:c.pos]), chunk.InPreproc)
	}
}

func (s *state) scanAnnotation(line, col int) {
	c := s.cur
	start := c.pos
	c.get() // '@'
	for !c.eof() && isIdentContByte(c.peek(0)) {
		c.get()
	}
	text := string(c.buf[start:c.pos])
	if text == "@interface" {
		s.emit(chunk.KindClass, line, col, c.col, text, 0)
		return
	}
	s.emit(chunk.KindAnnotation, line, col, c.col, text, 0)
}

// scanIdentifier scans the longest run of identifier characters and
// classifies it as a macro, macro-function, keyword, or plain word.
func (s *state) scanIdentifier(line, col int) {
	c := s.cur
	start := c.pos
	for !c.eof() && isIdentContByte(c.peek(0)) {
		c.get()
	}
	text := string(c.buf[start:c.pos])
	s.atLineStart = false

	if s.expectMacroName {
		s.expectMacroName = false
		if c.peek(0) == '(' {
			s.emit(chunk.KindMacroFunc, line, col, c.col, text, 0)
		} else {
			s.emit(chunk.KindMacro, line, col, c.col, text, 0)
		}
		return
	}

	if s.lastWasInclude {
		// handled specially by scanString's '<' branch; plain identifiers
		// after #include (rare, macro-valued includes) fall through as WORD.
		s.lastWasInclude = false
	}

	kind, isKeyword := tables.Lookup(text, s.mask, s.inPreproc)
	if isKeyword {
		flags := chunk.Keyword
		s.emit(kind, line, col, c.col, text, flags)
		return
	}
	s.emit(chunk.KindWord, line, col, c.col, text, 0)
}

func (s *state) scanPunctuatorOrFallback(line, col int) {
	c := s.cur
	if txt, kind, ok := tables.LookupPunctuator(c.rest(), s.mask); ok {
		c.advance(len(txt))
		s.atLineStart = false
		s.emit(kind, line, col, c.col, txt, chunk.Punctuator)
		return
	}
	// Fallback: single byte emitted as UNKNOWN, logged as a warning
	//.
	b := c.get()
	s.warn(line, col, "unrecognized byte 0x"+hexByte(b))
	s.emit(chunk.KindUnknown, line, col, c.col, string(b), 0)
}

func hexByte(b byte) string {
	const hexDigits = "0123456789abcdef"
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xF]})
}
