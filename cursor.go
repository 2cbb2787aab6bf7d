package anvil

import (
	"fmt"
)

// Position is a 1-based line/column plus the 0-based byte offset it
// corresponds to, captured at the moment of detection for diagnostics.
type Position struct {
	Offset int
	Line   int
	Column int
}

// cursor owns the immutable source text and a mutable read position. It
// is the sole authority on line/column bookkeeping; nothing outside this
// file advances pos/line/col directly.
type cursor struct {
	src []byte
	pos int
	line int
	col  int
}

func newCursor(src string) *cursor {
	return &cursor{src: []byte(src), pos: 0, line: 1, col: 1}
}

func (c *cursor) eof() bool {
	return c.eofAt(0)
}

func (c *cursor) eofAt(offset int) bool {
	return c.pos+offset >= len(c.src)
}

// peek returns the byte at pos+offset, or 0 past the end of input.
func (c *cursor) peek(offset int) byte {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

// is reports whether literal matches the source at pos+offset without
// advancing.
func (c *cursor) is(literal string, offset int) bool {
	start := c.pos + offset
	end := start + len(literal)
	if start < 0 || end > len(c.src) {
		return false
	}
	return string(c.src[start:end]) == literal
}

func (c *cursor) isOperator(op Operator) bool {
	return c.is(op.Symbol, 0)
}

// position snapshots the current read position for diagnostics or
// one-shot rewind via reset.
func (c *cursor) position() Position {
	return Position{Offset: c.pos, Line: c.line, Column: c.col}
}

// reset restores a position captured by position. It supports undoing a
// successful sub-parse that the caller then rejects: a composite or Blob
// parsed as an attribute literal, or an identifier scan with a leading,
// trailing or doubled ".".
func (c *cursor) reset(p Position) {
	c.pos, c.line, c.col = p.Offset, p.Line, p.Column
}

// consume advances one byte, updating line/column, and returns the byte
// consumed (0 at EOF, which does not advance).
func (c *cursor) consume() byte {
	if c.eof() {
		return 0
	}
	b := c.src[c.pos]
	c.pos++
	if b == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return b
}

// consumeN advances up to n bytes and returns the consumed slice.
func (c *cursor) consumeN(n int) string {
	start := c.pos
	for i := 0; i < n && !c.eof(); i++ {
		c.consume()
	}
	return string(c.src[start:c.pos])
}

func (c *cursor) consumeOperator(op Operator) bool {
	if !c.isOperator(op) {
		return false
	}
	c.consumeN(len(op.Symbol))
	return true
}

func (c *cursor) substring(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.src) {
		end = len(c.src)
	}
	if start >= end {
		return ""
	}
	return string(c.src[start:end])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlphaNumeric(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// isEscaped reports whether the byte immediately preceding index i is
// part of an odd-length run of backslashes, meaning the character at i
// is escaped rather than a literal delimiter.
func (c *cursor) isEscaped(i int) bool {
	count := 0
	for j := i - 1; j >= 0 && c.src[j] == '\\'; j-- {
		count++
	}
	return count%2 == 1
}

func (c *cursor) isShebang() bool {
	return c.isOperator(OpShebangML) || c.isOperator(OpShebangSL)
}

// skipWhitespace consumes spaces, tabs, CR/LF, line comments ("//") and
// nestable block comments ("/* ... */"). None of these participate in
// the grammar.
func (c *cursor) skipWhitespace() {
	for {
		switch {
		case !c.eof() && isSpace(c.peek(0)):
			c.consume()
		case c.is("//", 0):
			c.skipLineComment()
		case c.is("/*", 0):
			c.skipBlockComment()
		default:
			return
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func (c *cursor) skipLineComment() {
	for !c.eof() && c.peek(0) != '\n' {
		c.consume()
	}
}

// skipBlockComment consumes a /* ... */ comment, tracking nested opener
// depth so "/* a /* b */ c */" closes correctly.
func (c *cursor) skipBlockComment() {
	c.consumeN(2)
	depth := 1
	for depth > 0 && !c.eof() {
		switch {
		case c.is("/*", 0):
			c.consumeN(2)
			depth++
		case c.is("*/", 0):
			c.consumeN(2)
			depth--
		default:
			c.consume()
		}
	}
}

// fullSource returns the entire underlying buffer, primarily for
// debugging and error-context rendering.
func (c *cursor) fullSource() string {
	return string(c.src)
}

func (c *cursor) String() string {
	return fmt.Sprintf("cursor[pos=%d, line=%d, col=%d, len=%d]", c.pos, c.line, c.col, len(c.src))
}
