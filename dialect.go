package anvil

import "strings"

// Dialect selects parse mode. It is presently metadata-only: both
// dialects share one grammar, but the tag is preserved on the Module
// for downstream tooling.
type Dialect int

const (
	// DialectASL is the permissive dialect and the default when no
	// shebang, extension hint, or explicit override is given.
	DialectASL Dialect = iota
	DialectAML
)

func (d Dialect) String() string {
	switch d {
	case DialectAML:
		return "aml"
	default:
		return "asl"
	}
}

const dialectNone Dialect = -1

func dialectFromExtension(sourceID string) Dialect {
	switch {
	case strings.HasSuffix(sourceID, ".aml"):
		return DialectAML
	case strings.HasSuffix(sourceID, ".asl"):
		return DialectASL
	default:
		return dialectNone
	}
}

// resolveDialect implements the precedence law: explicit override, then
// a leading shebang, then the source-id's file extension, then the
// permissive default.
func resolveDialect(c *cursor, sourceID string, override Dialect) Dialect {
	// A leading shebang is always consumed lexically, even when an
	// explicit override takes precedence over the dialect it names.
	shebang := detectShebangDialect(c)

	if override != dialectNone {
		return override
	}
	if shebang != dialectNone {
		return shebang
	}
	if d := dialectFromExtension(sourceID); d != dialectNone {
		return d
	}
	return DialectASL
}

// detectShebangDialect peeks at (and, if present, consumes) a leading
// shebang. It is only ever called once, at the very start of parse.
func detectShebangDialect(c *cursor) Dialect {
	c.skipWhitespace()
	switch {
	case c.isOperator(OpShebangML):
		c.consumeN(len(OpShebangML.Symbol))
		return DialectAML
	case c.isOperator(OpShebangSL):
		c.consumeN(len(OpShebangSL.Symbol))
		return DialectASL
	default:
		return dialectNone
	}
}
