package anvil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildModule_FirstOccurrenceWins(t *testing.T) {
	statements := []*Assignment{
		{Key: "a", Value: NewInteger(1)},
		{Key: "b", Value: NewInteger(2)},
		{Key: "a", Value: NewInteger(99)},
	}
	m := buildModule("ns", "src.asl", DialectASL, nil, statements)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, err := m.Get("a")
	require.NoError(t, err)
	n, _ := v.AsLong()
	assert.EqualValues(t, 1, n, "first occurrence of a duplicate key must win")
}

func TestDuplicateTopLevelKeys_ReportsLaterOccurrences(t *testing.T) {
	statements := []*Assignment{
		{Key: "a", Value: NewInteger(1)},
		{Key: "a", Value: NewInteger(2)},
		{Key: "b", Value: NewInteger(3)},
		{Key: "a", Value: NewInteger(4)},
	}
	assert.Equal(t, []string{"a", "a"}, duplicateTopLevelKeys(statements))
}

func TestModule_IsValid(t *testing.T) {
	m := buildModule("ns", "src.asl", DialectASL, nil, []*Assignment{
		{Key: "a", Value: NewInteger(1)},
	})
	assert.True(t, m.IsValid())

	withDup := buildModule("ns", "src.asl", DialectASL, nil, []*Assignment{
		{Key: "a", Value: NewInteger(1)},
		{Key: "a", Value: NewInteger(2)},
	})
	assert.False(t, withDup.IsValid())
}

func TestValidateValueTree_RejectsShortTuple(t *testing.T) {
	// A TupleValue built outside the normal parser path (bypassing
	// NewTuple's panic) should still be caught by the redundant
	// recursive check.
	bad := &TupleValue{Elements: []Value{NewInteger(1)}}
	assert.False(t, validateValueTree(bad))
}

func TestValidateValueTree_RecursesIntoArraysAndObjects(t *testing.T) {
	nested := buildModule("inner", "inner.asl", DialectASL, nil, []*Assignment{
		{Key: "x", Value: NewInteger(1)},
		{Key: "x", Value: NewInteger(2)},
	})
	obj := &ObjectValue{module: nested}
	assert.False(t, validateValueTree(obj))

	arr := NewArray([]Value{NewInteger(1), obj}, Span{})
	assert.False(t, validateValueTree(arr))
}

func TestModule_Accessors(t *testing.T) {
	attrs := []Attribute{{Key: "version", Value: NewString("1.0")}}
	m := buildModule("ns", "src.asl", DialectAML, attrs, []*Assignment{
		{Key: "a", Value: NewInteger(1)},
	})
	assert.Equal(t, "ns", m.Namespace())
	assert.Equal(t, "src.asl", m.Source())
	assert.Equal(t, DialectAML, m.Dialect())
	require.Len(t, m.Attributes(), 1)
	assert.Equal(t, "version", m.Attributes()[0].Key)
	require.Len(t, m.Statements(), 1)
}
