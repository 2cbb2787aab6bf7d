package anvil

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// ErrorCode is a stable string identifier for a class of parse or
// accessor failure, surfaced to callers instead of a free-form message.
type ErrorCode string

// Lexical
const (
	UnexpectedToken      ErrorCode = "UnexpectedToken"
	InvalidNumber        ErrorCode = "InvalidNumber"
	InvalidExponent      ErrorCode = "InvalidExponent"
	UnterminatedString   ErrorCode = "UnterminatedString"
	UnterminatedFreeform ErrorCode = "UnterminatedFreeform"
	ExpectedBacktick     ErrorCode = "ExpectedBacktick"
)

// Structural
const (
	ExpectedAssign           ErrorCode = "ExpectedAssign"
	ExpectedIdentifier       ErrorCode = "ExpectedIdentifier"
	ExpectedObjectField      ErrorCode = "ExpectedObjectField"
	ExpectedObjectClose      ErrorCode = "ExpectedObjectClose"
	ExpectedArrayClose       ErrorCode = "ExpectedArrayClose"
	ExpectedTupleClose       ErrorCode = "ExpectedTupleClose"
	MissingCommaInArray      ErrorCode = "MissingCommaInArray"
	MissingCommaInAttributes ErrorCode = "MissingCommaInAttributes"
	ExpectedCommaInTuple     ErrorCode = "ExpectedCommaInTuple"
	TrailingCommaInArray     ErrorCode = "TrailingCommaInArray"
	EmptyObjectNotAllowed    ErrorCode = "EmptyObjectNotAllowed"
	EmptyTupleElement        ErrorCode = "EmptyTupleElement"
	TupleTooShort            ErrorCode = "TupleTooShort"
	AssignmentNotAllowedHere ErrorCode = "AssignmentNotAllowedHere"
	RocketOpNotValid         ErrorCode = "RocketOpNotValid"
)

// Semantic
const (
	IdentifierIsKeyword    ErrorCode = "IdentifierIsKeyword"
	InvalidKeyInObject     ErrorCode = "InvalidKeyInObject"
	AttributeIsKeyword     ErrorCode = "AttributeIsKeyword"
	DuplicateFieldInObject ErrorCode = "DuplicateFieldInObject"
	DuplicateAttributeKey  ErrorCode = "DuplicateAttributeKey"
	DuplicateTopLevelKey   ErrorCode = "DuplicateTopLevelKey"
	InvalidValueInAttribute ErrorCode = "InvalidValueInAttribute"
)

// Meta
const (
	MultipleShebang        ErrorCode = "MultipleShebang"
	ShebangAfterStatements ErrorCode = "ShebangAfterStatements"
	IoError                ErrorCode = "IoError"
	ParsingFailed          ErrorCode = "ParsingFailed"
)

// Accessor
const (
	NoSuchKey    ErrorCode = "NoSuchKey"
	TypeMismatch ErrorCode = "TypeMismatch"
)

// maxRecordedErrors caps how many ParseIssues are retained, though the
// parser keeps counting past the cap so callers can report totals.
const maxRecordedErrors = 25

// ParseIssue is a single recorded parse failure.
type ParseIssue struct {
	Line   int
	Column int
	Code   ErrorCode
}

func (p ParseIssue) String() string {
	return fmt.Sprintf("%d:%d: %s", p.Line, p.Column, p.Code)
}

// ParseError aggregates every ParseIssue recorded during a parse. No
// exception-style control flow escapes the parser; a failed parse
// returns a non-nil *ParseError instead.
type ParseError struct {
	Issues   []ParseIssue
	Total    int // count of all issues encountered, including past the cap
	source   string
	sourceID string
}

func (e *ParseError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "anvil: parse failed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "anvil: %d parse error(s) in %s", e.Total, e.sourceID)
	if e.Total > len(e.Issues) {
		fmt.Fprintf(&b, " (showing first %d)", len(e.Issues))
	}
	for _, issue := range e.Issues {
		b.WriteString("\n")
		b.WriteString(formatWithContext(e.source, issue))
	}
	return b.String()
}

// LogValue lets ParseError participate in structured logging the way
// internal/log's handlers expect.
func (e *ParseError) LogValue() slog.Value {
	codes := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		codes[i] = string(issue.Code)
	}
	sort.Strings(codes)
	return slog.GroupValue(
		slog.Int("total", e.Total),
		slog.Int("recorded", len(e.Issues)),
		slog.String("codes", strings.Join(codes, ",")),
	)
}

// formatWithContext renders the source line containing issue, a caret
// pointing at its column, and the issue's code.
func formatWithContext(source string, issue ParseIssue) string {
	lines := strings.Split(source, "\n")
	lineIdx := issue.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return fmt.Sprintf("  %d:%d: %s", issue.Line, issue.Column, issue.Code)
	}
	line := lines[lineIdx]
	prefix := fmt.Sprintf("  %d | ", issue.Line)
	caretCol := issue.Column - 1
	if caretCol < 0 {
		caretCol = 0
	}
	pad := strings.Repeat(" ", len(prefix)+caretCol)
	return fmt.Sprintf("%s%s\n%s^ %s", prefix, line, pad, issue.Code)
}

// TypeMismatchError is returned by strict accessors when the receiver's
// Kind cannot satisfy the request.
type TypeMismatchError struct {
	Have Kind
	Want string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("anvil: type mismatch: have %s, want %s", e.Have, e.Want)
}

func (e *TypeMismatchError) Code() ErrorCode { return TypeMismatch }

// NoSuchKeyError is returned by Module.Get when a key is absent, with an
// optional fuzzy-matched suggestion drawn from the module's own keys.
type NoSuchKeyError struct {
	Module     string
	Key        string
	Suggestion string
}

func (e *NoSuchKeyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("anvil: no such key %q in %s (did you mean %q?)", e.Key, e.Module, e.Suggestion)
	}
	return fmt.Sprintf("anvil: no such key %q in %s", e.Key, e.Module)
}

func (e *NoSuchKeyError) Code() ErrorCode { return NoSuchKey }

// codedError is implemented by errors carrying a stable ErrorCode, for
// callers that need to branch on taxonomy rather than string matching.
type codedError interface {
	error
	Code() ErrorCode
}

var (
	_ codedError = (*TypeMismatchError)(nil)
	_ codedError = (*NoSuchKeyError)(nil)
)

// quoteSorted renders a sorted, quoted, comma-joined list. ParseError's
// rendering does not use it.
func quoteSorted(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, s := range sorted {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, ", ")
}
