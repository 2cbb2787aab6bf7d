package anvil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_ConsumeTracksLineAndColumn(t *testing.T) {
	c := newCursor("ab\ncd")
	assert.Equal(t, byte('a'), c.consume())
	assert.Equal(t, byte('b'), c.consume())
	assert.Equal(t, 1, c.line)
	assert.Equal(t, byte('\n'), c.consume())
	assert.Equal(t, 2, c.line)
	assert.Equal(t, 1, c.col)
	assert.Equal(t, byte('c'), c.consume())
	assert.Equal(t, 2, c.col)
}

func TestCursor_PeekAndIsDoNotAdvance(t *testing.T) {
	c := newCursor("hello")
	assert.Equal(t, byte('h'), c.peek(0))
	assert.True(t, c.is("hel", 0))
	assert.False(t, c.is("xyz", 0))
	assert.Equal(t, 0, c.pos)
}

func TestCursor_ResetRewindsPosition(t *testing.T) {
	c := newCursor("abcdef")
	c.consumeN(3)
	mark := c.position()
	c.consumeN(2)
	c.reset(mark)
	assert.Equal(t, 3, c.pos)
}

func TestCursor_SkipWhitespaceHandlesCommentsAndNesting(t *testing.T) {
	c := newCursor("  // line\n/* a /* b */ c */x")
	c.skipWhitespace()
	assert.Equal(t, byte('x'), c.peek(0))
}

func TestCursor_IsEscapedDetectsOddBackslashRun(t *testing.T) {
	c := newCursor(`a\"b\\"c`)
	assert.True(t, c.isEscaped(2), "single backslash escapes the quote")
	assert.False(t, c.isEscaped(6), "a doubled backslash is an escaped backslash, not an escaped quote")
}

func TestCursor_EOFAndPeekPastEnd(t *testing.T) {
	c := newCursor("a")
	assert.False(t, c.eof())
	c.consume()
	assert.True(t, c.eof())
	assert.Equal(t, byte(0), c.peek(0))
	assert.Equal(t, byte(0), c.consume())
}
