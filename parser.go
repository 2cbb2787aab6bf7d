package anvil

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/badkraft/anvil/internal/log"
)

// parser is the recursive-descent recognizer. It never panics and never
// returns a Go error from its internal methods; failures are recorded
// as ParseIssues and recovery always resumes at a forward boundary so a
// single source yields as many errors as possible.
type parser struct {
	cur         *cursor
	logger      log.Logger
	sourceID    string
	namespace   string
	dialectOverride Dialect
	dialect     Dialect
	issues      []ParseIssue
	totalIssues int
	seenStmt     bool
	topLevelKeys map[string]bool
	moduleAttrs  []Attribute
	statements   []*Assignment
	internBlobs  bool
	maxErrors    int
}

func newParser(source, sourceID, namespace string, override Dialect, logger log.Logger, internBlobs bool, maxErrors int) *parser {
	c := newCursor(source)
	if maxErrors <= 0 {
		maxErrors = maxRecordedErrors
	}
	return &parser{
		cur:             c,
		logger:          logger,
		sourceID:        sourceID,
		namespace:       namespace,
		dialectOverride: override,
		internBlobs:     internBlobs,
		maxErrors:       maxErrors,
	}
}

// raise records a ParseIssue at the cursor's current position and
// returns it, but never interrupts control flow: callers keep parsing
// after calling raise, typically after performing recovery.
func (p *parser) raise(code ErrorCode) ParseIssue {
	return p.raiseAt(p.cur.position(), code)
}

func (p *parser) raiseAt(pos Position, code ErrorCode) ParseIssue {
	issue := ParseIssue{Line: pos.Line, Column: pos.Column, Code: code}
	p.totalIssues++
	if len(p.issues) < p.maxErrors {
		p.issues = append(p.issues, issue)
	}
	p.logger.Trace("parse issue",
		slog.String("code", string(code)),
		slog.Int("line", pos.Line),
		slog.Int("col", pos.Column))
	return issue
}

func (p *parser) failed() bool { return p.totalIssues > 0 }

// ---- recovery ----

// recoverTopLevel advances to the next newline or comma, the boundary
// for a malformed top-level statement, making strict forward progress.
func (p *parser) recoverTopLevel() {
	start := p.cur.pos
	for !p.cur.eof() {
		b := p.cur.peek(0)
		if b == '\n' || b == ',' {
			p.cur.consume()
			break
		}
		p.cur.consume()
	}
	if p.cur.pos == start && !p.cur.eof() {
		p.cur.consume()
	}
}

// recoverContainer advances to the matching closer for open (one of
// '}', ']', ')'), tracking nested-opener depth so malformed nested
// containers still resolve to the correct boundary.
func (p *parser) recoverContainer(opener, closer byte) {
	depth := 1
	for !p.cur.eof() {
		b := p.cur.peek(0)
		switch b {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.cur.consume()
				return
			}
		}
		p.cur.consume()
	}
}

// ---- top level ----

func (p *parser) parseModule() {
	p.dialect = resolveDialect(p.cur, p.sourceID, p.dialectOverride)
	p.cur.skipWhitespace()

	for p.cur.isOperator(OpAttrOpen) {
		attrs := p.parseAttributeBlock()
		p.moduleAttrs = append(p.moduleAttrs, attrs...)
		p.cur.skipWhitespace()
	}

	for !p.cur.eof() {
		p.cur.skipWhitespace()
		if p.cur.eof() {
			break
		}
		if p.cur.isShebang() {
			if !p.seenStmt {
				p.raise(MultipleShebang)
			} else {
				p.raise(ShebangAfterStatements)
			}
			p.recoverTopLevel()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			if p.topLevelKeys == nil {
				p.topLevelKeys = map[string]bool{}
			}
			p.topLevelKeys[stmt.Key] = true
			p.statements = append(p.statements, stmt)
			p.seenStmt = true
		}
		p.cur.skipWhitespace()
	}
}

// ---- statement ----

func (p *parser) parseStatement() *Assignment {
	start := p.cur.pos
	key := p.readIdentifier()
	if key == "" {
		p.raise(ExpectedIdentifier)
		p.recoverTopLevel()
		return nil
	}
	if isReserved(key) {
		p.raiseAt(p.cur.position(), IdentifierIsKeyword)
	}
	if p.topLevelKeys[key] {
		p.raise(DuplicateTopLevelKey)
	}

	var parent string
	p.cur.skipWhitespace()
	if p.cur.isOperator(OpColon) && !p.cur.isOperator(OpAssign) {
		p.cur.consumeOperator(OpColon)
		p.cur.skipWhitespace()
		parent = p.readIdentifier()
		if parent == "" {
			p.raise(ExpectedIdentifier)
		}
		p.cur.skipWhitespace()
	}

	attrs := p.parseAttributeBlock()
	p.cur.skipWhitespace()

	if !p.cur.consumeOperator(OpAssign) {
		p.raise(ExpectedAssign)
		p.recoverTopLevel()
		return nil
	}
	p.cur.skipWhitespace()

	value := p.parseValue()
	if value == nil {
		p.recoverTopLevel()
		return nil
	}
	if len(attrs) > 0 {
		value.addAttributes(attrs)
	}

	p.cur.skipWhitespace()
	if p.cur.isOperator(OpComma) {
		p.cur.consumeOperator(OpComma)
	}

	return &Assignment{
		Key:        key,
		Attrs:      attrs,
		Value:      value,
		Parent:     parent,
		span:       Span{Start: start, End: p.cur.pos},
	}
}

// ---- attribute blocks ----

// parseAttributeBlock parses "@[ key (= literal)? , ... ]" or returns an
// empty slice if the cursor is not positioned at one. Used for
// module-level blocks, per-statement blocks, and per-object-field
// blocks alike.
func (p *parser) parseAttributeBlock() []Attribute {
	if !p.cur.isOperator(OpAttrOpen) {
		return nil
	}
	p.cur.consumeOperator(OpAttrOpen)
	p.cur.skipWhitespace()

	var attrs []Attribute
	seen := map[string]bool{}

	for {
		p.cur.skipWhitespace()
		if p.cur.isOperator(OpRBracket) {
			p.cur.consumeOperator(OpRBracket)
			break
		}
		if p.cur.eof() {
			p.raise(ExpectedArrayClose)
			break
		}

		key := p.readIdentifier()
		if key == "" {
			p.raise(ExpectedIdentifier)
			p.recoverContainer('[', ']')
			return attrs
		}
		if isReserved(key) {
			p.raiseAt(p.cur.position(), AttributeIsKeyword)
		}
		if seen[key] {
			p.raise(DuplicateAttributeKey)
		}
		seen[key] = true

		var lit Value
		p.cur.skipWhitespace()
		if p.cur.isOperator(OpEqual) && !p.cur.isOperator(OpAssign) {
			p.cur.consumeOperator(OpEqual)
			p.cur.skipWhitespace()
			lit = p.parseLiteralValue()
		}
		attrs = append(attrs, Attribute{Key: key, Value: lit})

		p.cur.skipWhitespace()
		switch {
		case p.cur.isOperator(OpComma):
			p.cur.consumeOperator(OpComma)
		case p.cur.isOperator(OpRBracket):
			p.cur.consumeOperator(OpRBracket)
			return attrs
		default:
			p.raise(MissingCommaInAttributes)
			p.recoverContainer('[', ']')
			return attrs
		}
	}

	return attrs
}

// parseLiteralValue parses a value and rejects it (restoring the
// cursor) if it turns out to be a composite or Blob, which are not
// legal attribute literals.
func (p *parser) parseLiteralValue() Value {
	mark := p.cur.position()
	v := p.parseValue()
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case KindArray, KindObject, KindTuple, KindBlob:
		p.cur.reset(mark)
		p.raise(InvalidValueInAttribute)
		// Consume a single token's worth of input so recovery still
		// makes forward progress past the rejected literal.
		p.cur.consume()
		return nil
	default:
		return v
	}
}

// ---- value dispatch ----

func (p *parser) parseValue() Value {
	p.cur.skipWhitespace()
	if p.cur.eof() {
		p.raise(UnexpectedToken)
		return nil
	}

	switch {
	case p.cur.isOperator(OpLBrace):
		return p.parseObject()
	case p.cur.isOperator(OpLBracket):
		return p.parseArray()
	case p.cur.isOperator(OpLParen):
		return p.parseTuple()
	case p.cur.isOperator(OpQuote):
		return p.parseString()
	case p.cur.is("0x", 0) || p.cur.is("0X", 0):
		return p.parseHex(2)
	case p.cur.isOperator(OpAt) || p.cur.isOperator(OpBacktick):
		return p.parseBlob()
	case p.cur.is("#", 0) && isHexDigit(p.cur.peek(1)):
		return p.parseHex(1)
	case p.cur.is("null", 0) && !isAlphaNumeric(p.cur.peek(4)) && p.cur.peek(4) != '.':
		p.cur.consumeN(4)
		return NewNull()
	case p.cur.is("true", 0) && !isAlphaNumeric(p.cur.peek(4)) && p.cur.peek(4) != '.':
		p.cur.consumeN(4)
		return NewBoolean(true)
	case p.cur.is("false", 0) && !isAlphaNumeric(p.cur.peek(5)) && p.cur.peek(5) != '.':
		p.cur.consumeN(5)
		return NewBoolean(false)
	case isDigit(p.cur.peek(0)) || (p.cur.peek(0) == '-' && isDigit(p.cur.peek(1))):
		return p.parseNumber()
	case isAlpha(p.cur.peek(0)):
		id := p.readBareLiteral()
		if id == "" {
			p.raise(UnexpectedToken)
			return nil
		}
		if isReserved(id) {
			p.raise(IdentifierIsKeyword)
			return nil
		}
		return NewBare(id)
	default:
		p.raise(UnexpectedToken)
		return nil
	}
}

// ---- object ----

func (p *parser) parseObject() Value {
	start := p.cur.pos
	p.cur.consumeOperator(OpLBrace)
	p.cur.skipWhitespace()

	if p.cur.isOperator(OpRBrace) {
		p.cur.consumeOperator(OpRBrace)
		p.raise(EmptyObjectNotAllowed)
		return nil
	}

	var stmts []*Assignment
	seen := map[string]bool{}

	for {
		p.cur.skipWhitespace()
		if p.cur.isOperator(OpRBrace) {
			p.cur.consumeOperator(OpRBrace)
			break
		}
		if p.cur.eof() {
			p.raise(ExpectedObjectClose)
			break
		}

		fieldStart := p.cur.pos
		key := p.readIdentifier()
		if key == "" {
			p.raise(ExpectedObjectField)
			p.recoverContainer('{', '}')
			break
		}
		if isReserved(key) {
			p.raise(InvalidKeyInObject)
		}
		if seen[key] {
			p.raise(DuplicateFieldInObject)
		}
		seen[key] = true

		fieldAttrs := p.parseAttributeBlock()
		p.cur.skipWhitespace()

		if !p.cur.consumeOperator(OpAssign) {
			p.raise(ExpectedAssign)
			p.recoverContainer('{', '}')
			break
		}
		p.cur.skipWhitespace()

		fieldValue := p.parseValue()
		if fieldValue == nil {
			p.recoverContainer('{', '}')
			break
		}
		if len(fieldAttrs) > 0 {
			fieldValue.addAttributes(fieldAttrs)
		}

		stmts = append(stmts, &Assignment{
			Key:   key,
			Attrs: fieldAttrs,
			Value: fieldValue,
			span:  Span{Start: fieldStart, End: p.cur.pos},
		})

		p.cur.skipWhitespace()
		if p.cur.isOperator(OpComma) {
			p.cur.consumeOperator(OpComma)
		}
	}

	span := Span{Start: start, End: p.cur.pos}
	m := buildModule(p.namespace, p.sourceID, p.dialect, nil, stmts)
	return NewObject(m, span)
}

// ---- array ----

func (p *parser) parseArray() Value {
	start := p.cur.pos
	p.cur.consumeOperator(OpLBracket)
	p.cur.skipWhitespace()

	var elements []Value

	if p.cur.isOperator(OpRBracket) {
		p.cur.consumeOperator(OpRBracket)
		return NewArray(elements, Span{Start: start, End: p.cur.pos})
	}

	for {
		p.cur.skipWhitespace()
		v := p.parseValue()
		if v == nil {
			p.recoverContainer('[', ']')
			break
		}
		elements = append(elements, v)
		p.cur.skipWhitespace()

		switch {
		case p.cur.isOperator(OpRBracket):
			p.cur.consumeOperator(OpRBracket)
			return NewArray(elements, Span{Start: start, End: p.cur.pos})
		case p.cur.isOperator(OpComma):
			p.cur.consumeOperator(OpComma)
			p.cur.skipWhitespace()
			if p.cur.isOperator(OpRBracket) {
				p.raise(TrailingCommaInArray)
				p.cur.consumeOperator(OpRBracket)
				return NewArray(elements, Span{Start: start, End: p.cur.pos})
			}
		case p.cur.isOperator(OpAssign):
			p.raise(AssignmentNotAllowedHere)
			p.recoverContainer('[', ']')
			return NewArray(elements, Span{Start: start, End: p.cur.pos})
		default:
			p.raise(MissingCommaInArray)
			p.recoverContainer('[', ']')
			return NewArray(elements, Span{Start: start, End: p.cur.pos})
		}
	}

	return NewArray(elements, Span{Start: start, End: p.cur.pos})
}

// ---- tuple ----

func (p *parser) parseTuple() Value {
	start := p.cur.pos
	p.cur.consumeOperator(OpLParen)
	p.cur.skipWhitespace()

	if p.cur.isOperator(OpRParen) {
		p.cur.consumeOperator(OpRParen)
		p.raise(EmptyTupleElement)
		return nil
	}

	var elements []Value
	for {
		p.cur.skipWhitespace()
		v := p.parseValue()
		if v == nil {
			p.recoverContainer('(', ')')
			return nil
		}
		elements = append(elements, v)
		p.cur.skipWhitespace()

		if p.cur.isOperator(OpRParen) {
			p.cur.consumeOperator(OpRParen)
			break
		}
		if p.cur.isOperator(OpAssign) {
			p.raise(AssignmentNotAllowedHere)
			p.recoverContainer('(', ')')
			return nil
		}
		if !p.cur.consumeOperator(OpComma) {
			p.raise(ExpectedCommaInTuple)
			p.recoverContainer('(', ')')
			return nil
		}
	}

	if p.cur.isOperator(OpRocket) {
		p.raise(RocketOpNotValid)
	}

	if len(elements) < 2 {
		p.raise(TupleTooShort)
		return nil
	}

	return NewTuple(elements, Span{Start: start, End: p.cur.pos})
}

// ---- string ----

func (p *parser) parseString() Value {
	p.cur.consumeOperator(OpQuote)
	start := p.cur.pos

	for {
		if p.cur.eof() {
			p.raise(UnterminatedString)
			return NewString(p.cur.substring(start, p.cur.pos))
		}
		if p.cur.peek(0) == '"' && !p.cur.isEscaped(p.cur.pos) {
			break
		}
		p.cur.consume()
	}

	raw := p.cur.substring(start, p.cur.pos)
	p.cur.consumeOperator(OpQuote)
	return NewString(decodeEscapes(raw))
}

// decodeEscapes implements the escape table \n \t \r \\ \"; any unknown
// escape passes through as the backslash followed by the next
// character, per the forward-compatibility mandate.
func decodeEscapes(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		next := raw[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
		}
		i++
	}
	return b.String()
}

// ---- blob ----

func (p *parser) parseBlob() Value {
	var tag string
	if p.cur.isOperator(OpAt) {
		p.cur.consumeOperator(OpAt)
		tag = p.readIdentifier()
		if tag != "" && isReserved(tag) {
			p.raise(AttributeIsKeyword)
		}
		if !p.cur.isOperator(OpBacktick) {
			p.raise(ExpectedBacktick)
			return nil
		}
	}

	p.cur.consumeOperator(OpBacktick)
	start := p.cur.pos

	for {
		if p.cur.eof() {
			p.raise(UnterminatedFreeform)
			return NewBlob(p.cur.substring(start, p.cur.pos), tag)
		}
		if p.cur.peek(0) == '`' && !p.cur.isEscaped(p.cur.pos) {
			break
		}
		p.cur.consume()
	}

	content := p.cur.substring(start, p.cur.pos)
	p.cur.consumeOperator(OpBacktick)
	if p.internBlobs {
		content = internBlob(content)
	}
	return NewBlob(content, tag)
}

// ---- hex ----

// parseHex handles both "#hexdigits" (prefixLen=1) and "0xhexdigits"
// (prefixLen=2). Per the data model both forms materialize as Integer.
func (p *parser) parseHex(prefixLen int) Value {
	p.cur.consumeN(prefixLen)

	var digits strings.Builder
	hasDigit := false
	for !p.cur.eof() && (isHexDigit(p.cur.peek(0)) || p.cur.peek(0) == '_') {
		b := p.cur.consume()
		if b != '_' {
			digits.WriteByte(b)
			hasDigit = true
		}
	}
	if !hasDigit {
		p.raise(InvalidNumber)
		return nil
	}

	value, err := strconv.ParseInt(digits.String(), 16, 64)
	if err != nil {
		p.raise(InvalidNumber)
		return nil
	}
	return NewInteger(value)
}

// ---- number ----

func (p *parser) parseNumber() Value {
	var buf strings.Builder
	isFloat := false
	hasDigit := false

	if p.cur.peek(0) == '-' || p.cur.peek(0) == '+' {
		buf.WriteByte(p.cur.consume())
	}
	for !p.cur.eof() && (isDigit(p.cur.peek(0)) || p.cur.peek(0) == '_') {
		b := p.cur.consume()
		if b != '_' {
			buf.WriteByte(b)
			hasDigit = true
		}
	}

	if p.cur.peek(0) == '.' && isDigit(p.cur.peek(1)) {
		isFloat = true
		buf.WriteByte(p.cur.consume())
		for !p.cur.eof() && (isDigit(p.cur.peek(0)) || p.cur.peek(0) == '_') {
			b := p.cur.consume()
			if b != '_' {
				buf.WriteByte(b)
			}
		}
	}

	if p.cur.peek(0) == 'e' || p.cur.peek(0) == 'E' {
		expMark := p.cur.position()
		expBuf := strings.Builder{}
		expBuf.WriteByte(p.cur.consume())
		if p.cur.peek(0) == '+' || p.cur.peek(0) == '-' {
			expBuf.WriteByte(p.cur.consume())
		}
		expDigits := false
		for !p.cur.eof() && (isDigit(p.cur.peek(0)) || p.cur.peek(0) == '_') {
			b := p.cur.consume()
			if b != '_' {
				expBuf.WriteByte(b)
				expDigits = true
			}
		}
		if !expDigits {
			p.raiseAt(expMark, InvalidExponent)
			return nil
		}
		isFloat = true
		buf.WriteString(expBuf.String())
	}

	if !hasDigit {
		p.raise(InvalidNumber)
		return nil
	}

	clean := buf.String()
	if isFloat {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			p.raise(InvalidNumber)
			return nil
		}
		return NewFloat(f)
	}
	i, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		p.raise(InvalidNumber)
		return nil
	}
	return NewInteger(i)
}

// ---- identifiers ----

// readIdentifier scans a plain key/attribute-name identifier: letters,
// digits, underscore, and "." as an internal-only separator. Leading,
// trailing, or doubled "." produce no identifier.
func (p *parser) readIdentifier() string {
	mark := p.cur.position()
	for !p.cur.eof() && (isAlphaNumeric(p.cur.peek(0)) || p.cur.peek(0) == '.') {
		p.cur.consume()
	}
	id := p.cur.substring(mark.Offset, p.cur.pos)
	if id == "" || strings.HasPrefix(id, ".") || strings.HasSuffix(id, ".") || strings.Contains(id, "..") {
		p.cur.reset(mark)
		return ""
	}
	return id
}

// readBareLiteral scans a Bare value: additionally permits ":" as a
// continuation character, for symbols like "minecraft:diamond_sword".
// Returns "" without consuming if the cursor is not at an identifier
// starter.
func (p *parser) readBareLiteral() string {
	if !isAlpha(p.cur.peek(0)) {
		return ""
	}
	mark := p.cur.position()
	for !p.cur.eof() {
		b := p.cur.peek(0)
		if isAlphaNumeric(b) || b == '.' || b == ':' {
			p.cur.consume()
			continue
		}
		break
	}
	id := p.cur.substring(mark.Offset, p.cur.pos)
	if id == "" || strings.HasPrefix(id, ".") || strings.HasSuffix(id, ".") || strings.Contains(id, "..") {
		p.cur.reset(mark)
		return ""
	}
	return id
}
