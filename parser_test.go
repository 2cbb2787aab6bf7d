package anvil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scalars(t *testing.T) {
	src := "name := \"Badkraft\"\nage := 42\nadmin := true\nhealth := 20.0\nid := badkraft"
	m, err := ParseString(src, "scalars.asl")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"name", "age", "admin", "health", "id"}, m.Keys())

	name, err := m.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Badkraft", name)

	age, err := m.GetLong("age")
	require.NoError(t, err)
	assert.EqualValues(t, 42, age)

	admin, err := m.GetBoolean("admin")
	require.NoError(t, err)
	assert.True(t, admin)

	health, err := m.GetDouble("health")
	require.NoError(t, err)
	assert.Equal(t, 20.0, health)

	id, err := m.Get("id")
	require.NoError(t, err)
	assert.True(t, id.IsBare())
	bare, _ := id.AsBare()
	assert.Equal(t, "badkraft", bare)

	_, err = m.GetString("id")
	assert.Error(t, err)
	assert.Equal(t, TypeMismatch, err.(*TypeMismatchError).Code())
}

func TestParse_NestedObjectTupleArray(t *testing.T) {
	src := `player := { name := "Grok", pos := (10, 64, -300), inventory := [ "a", "b" ] }`
	m, err := ParseString(src, "player.asl")
	require.NoError(t, err)

	player, err := m.GetObject("player")
	require.NoError(t, err)

	name, err := player.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Grok", name)

	pos, err := player.GetTuple("pos")
	require.NoError(t, err)
	z, err := pos[2].AsLong()
	require.NoError(t, err)
	assert.EqualValues(t, -300, z)

	inv, err := player.GetArray("inventory")
	require.NoError(t, err)
	assert.Len(t, inv, 2)
}

func TestParse_ModuleAttributesMergeInOrder(t *testing.T) {
	src := "@[version=\"1.0.0\", mc_version=\"1.21.10\"]\n@[source=\"x\", debug=true, experimental]\nx := 1"
	m, err := ParseString(src, "attrs.asl")
	require.NoError(t, err)

	attrs := m.Attributes()
	require.Len(t, attrs, 5)

	order := make([]string, len(attrs))
	for i, a := range attrs {
		order[i] = a.Key
	}
	assert.Equal(t, []string{"version", "mc_version", "source", "debug", "experimental"}, order)

	var experimental, debug Attribute
	for _, a := range attrs {
		if a.Key == "experimental" {
			experimental = a
		}
		if a.Key == "debug" {
			debug = a
		}
	}
	assert.False(t, experimental.HasValue())
	require.True(t, debug.HasValue())
	b, err := debug.Value.AsBoolean()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestParse_DuplicateTopLevelKeyRejected(t *testing.T) {
	_, err := ParseString("a := 1\na := 2", "dup.asl")
	require.Error(t, err)
	pe := err.(*ParseError)
	assert.True(t, hasCode(pe, DuplicateTopLevelKey))
}

func TestParse_TupleArity(t *testing.T) {
	_, err := ParseString("x := (1)", "short.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), TupleTooShort))

	_, err = ParseString("x := ()", "empty.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), EmptyTupleElement))
}

func TestParse_AttributeLiteralRestriction(t *testing.T) {
	_, err := ParseString("x @[meta=[1,2]] := 1", "attrlit.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), InvalidValueInAttribute))
}

func TestParse_AssignmentNotAllowedInsideArray(t *testing.T) {
	_, err := ParseString("x := [ a := 1 ]", "nestedassign.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), AssignmentNotAllowedHere))
}

func TestParse_AssignmentNotAllowedInsideTuple(t *testing.T) {
	_, err := ParseString("x := (1, a := 2)", "nestedassign2.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), AssignmentNotAllowedHere))
}

func TestParse_RejectedDottedIdentifierReportsAccurateColumn(t *testing.T) {
	// "x @[a..b=1] := 1": the attribute key scan consumes "a..b" (cols
	// 5..9) before rejecting it as doubled-dot, so the ExpectedIdentifier
	// issue must be reported back at column 5, not wherever the scan gave
	// up.
	_, err := ParseString("x @[a..b=1] := 1", "dotrewind.asl")
	require.Error(t, err)
	pe := err.(*ParseError)
	require.NotEmpty(t, pe.Issues)
	var found bool
	for _, issue := range pe.Issues {
		if issue.Code == ExpectedIdentifier {
			assert.Equal(t, 5, issue.Column)
			found = true
		}
	}
	assert.True(t, found, "expected an ExpectedIdentifier issue")
}

func TestParse_TrailingCommaInArrayRejected(t *testing.T) {
	_, err := ParseString("x := [1, 2,]", "trailing.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), TrailingCommaInArray))
}

func TestParse_EmptyObjectRejected(t *testing.T) {
	_, err := ParseString("x := {}", "emptyobj.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), EmptyObjectNotAllowed))
}

func TestParse_InvalidExponentDetected(t *testing.T) {
	_, err := ParseString("x := 1e", "badexp.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), InvalidExponent))
}

func TestParse_StringEscapeDecoding(t *testing.T) {
	m, err := ParseString(`s := "a\nb\tc\\d\"e"`, "escapes.asl")
	require.NoError(t, err)
	s, err := m.GetString("s")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\tc\\d\"e", s)
}

func TestParse_UnknownEscapePassesThrough(t *testing.T) {
	m, err := ParseString(`s := "\q"`, "unknownescape.asl")
	require.NoError(t, err)
	s, err := m.GetString("s")
	require.NoError(t, err)
	assert.Equal(t, "\\q", s)
}

func TestParse_HexAndUnderscoreSeparators(t *testing.T) {
	m, err := ParseString("a := #ff\nb := 0xFF\nc := 1_000_000", "nums.asl")
	require.NoError(t, err)

	a, err := m.GetLong("a")
	require.NoError(t, err)
	assert.EqualValues(t, 255, a)

	b, err := m.GetLong("b")
	require.NoError(t, err)
	assert.EqualValues(t, 255, b)

	c, err := m.GetLong("c")
	require.NoError(t, err)
	assert.EqualValues(t, 1000000, c)
}

func TestParse_BlobWithTag(t *testing.T) {
	m, err := ParseString("doc := @md`**bold**`", "blob.asl")
	require.NoError(t, err)
	blob, err := m.GetBlob("doc")
	require.NoError(t, err)
	assert.Equal(t, "md", blob.Tag)
	assert.Equal(t, "**bold**", blob.Content)
}

func TestParse_DialectFromShebangAndExtension(t *testing.T) {
	m, err := ParseString("#!aml\nx := 1", "ignored.asl")
	require.NoError(t, err)
	assert.Equal(t, DialectAML, m.Dialect())

	m2, err := ParseString("x := 1", "plain.aml")
	require.NoError(t, err)
	assert.Equal(t, DialectAML, m2.Dialect())

	m3, err := ParseString("x := 1", "plain.txt")
	require.NoError(t, err)
	assert.Equal(t, DialectASL, m3.Dialect())
}

func TestParse_ReservedWordRejectedAsIdentifier(t *testing.T) {
	_, err := ParseString("vars := 1", "reserved.asl")
	require.Error(t, err)
	assert.True(t, hasCode(err.(*ParseError), IdentifierIsKeyword))
}

func TestParse_Deterministic(t *testing.T) {
	src := `a := 1
b := { x := "y" }
c := [1, 2, 3]`
	m1, err1 := ParseString(src, "det.asl")
	m2, err2 := ParseString(src, "det.asl")
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, m1.Keys(), m2.Keys())
}

func TestParse_ErrorCap(t *testing.T) {
	var src string
	for i := 0; i < 40; i++ {
		src += "@\n"
	}
	_, err := ParseString(src, "manyerrors.asl", WithMaxErrors(25))
	require.Error(t, err)
	pe := err.(*ParseError)
	assert.LessOrEqual(t, len(pe.Issues), 25)
	assert.GreaterOrEqual(t, pe.Total, len(pe.Issues))
}

func hasCode(pe *ParseError, code ErrorCode) bool {
	for _, issue := range pe.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}
