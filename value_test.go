package anvil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullValue_AsStringIsLiteralNull(t *testing.T) {
	n := NewNull()
	s, err := n.AsString()
	require.NoError(t, err)
	assert.Equal(t, "null", s)

	_, err = n.AsLong()
	assert.Error(t, err)
	assert.Equal(t, TypeMismatch, err.(*TypeMismatchError).Code())
}

func TestBooleanValue_StrictAccessors(t *testing.T) {
	b := NewBoolean(true)
	assert.True(t, b.IsBoolean())
	v, err := b.AsBoolean()
	require.NoError(t, err)
	assert.True(t, v)

	_, err = b.AsString()
	assert.Error(t, err)
}

func TestNumericValue_WideningAndTruncation(t *testing.T) {
	i := NewInteger(42)
	assert.False(t, i.IsFloat())
	d, err := i.AsDouble()
	require.NoError(t, err)
	assert.Equal(t, 42.0, d)

	f := NewFloat(20.9)
	assert.True(t, f.IsFloat())
	l, err := f.AsLong()
	require.NoError(t, err)
	assert.Equal(t, int64(20), l)

	_, err = f.AsBoolean()
	assert.Error(t, err)
}

func TestStringVsBare_NotInterchangeable(t *testing.T) {
	s := NewString("hello")
	bare := NewBare("hello")

	assert.True(t, s.IsString())
	assert.False(t, s.IsBare())
	assert.True(t, bare.IsBare())
	assert.False(t, bare.IsString())

	_, err := s.AsBare()
	assert.Error(t, err)
	_, err = bare.AsString()
	assert.Error(t, err)
}

func TestLenientAccessors_NeverFail(t *testing.T) {
	values := []Value{
		NewNull(), NewBoolean(true), NewInteger(1), NewFloat(1.5),
		NewString("s"), NewBare("b"), NewBlob("c", ""),
		NewArray(nil, Span{}),
	}
	for _, v := range values {
		assert.NotPanics(t, func() {
			_ = v.AsStringOr("default")
			_ = v.AsLongOr(-1)
			_ = v.AsDoubleOr(-1)
			_ = v.AsBooleanOr(false)
			_ = v.AsArrayOr(nil)
			_ = v.AsTupleOr(nil)
			_ = v.AsObjectOr(nil)
			_ = v.AsBlobOr(Blob{})
			_ = v.AsBareOr("default")
		})
	}
}

func TestTuple_RequiresAtLeastTwoElements(t *testing.T) {
	assert.Panics(t, func() {
		NewTuple([]Value{NewInteger(1)}, Span{})
	})
	tup := NewTuple([]Value{NewInteger(1), NewInteger(2)}, Span{})
	assert.Equal(t, 2, tup.Len())
}

func TestArray_PositionalAccess(t *testing.T) {
	arr := NewArray([]Value{NewString("a"), NewString("b")}, Span{})
	assert.Equal(t, 2, arr.Len())
	v := arr.Get(1)
	s, _ := v.AsString()
	assert.Equal(t, "b", s)
	assert.Nil(t, arr.Get(5))
}

func TestAttributes_AttachToValue(t *testing.T) {
	v := NewInteger(1)
	v.addAttributes([]Attribute{{Key: "tag"}})
	assert.Len(t, v.Attributes(), 1)
	assert.Equal(t, "tag", v.Attributes()[0].Key)
}
