package symbol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLiterals(t *testing.T) {
	str := ClassNameFromInternal("java/lang/String")

	assert.Equal(t, "Ljava/lang/String;", str.InternalString())
	assert.Equal(t, "[I", NewArrayDescriptor(PrimitiveInt).InternalString())
	assert.Equal(t, "[[Ljava/lang/String;", ArrayOf(str, 2).InternalString())
	assert.Equal(t, "(ILjava/lang/String;)V",
		NewDescriptor([]DescriptorType{PrimitiveInt, str}, PrimitiveVoid).DescriptorString())
	assert.Equal(t, "()V", NewDescriptor(nil, PrimitiveVoid).DescriptorString())
	assert.Equal(t, "LFoo;", ClassNameFromFqn("Foo").InternalString())

	letters := map[ClassName]string{
		PrimitiveBoolean: "Z", PrimitiveByte: "B", PrimitiveChar: "C", PrimitiveShort: "S",
		PrimitiveInt: "I", PrimitiveLong: "J", PrimitiveFloat: "F", PrimitiveDouble: "D", PrimitiveVoid: "V",
	}
	for prim, letter := range letters {
		assert.Equal(t, letter, prim.InternalString())
	}
}

func TestReifier(t *testing.T) {
	assert.Equal(t, PrimitiveInt, NewArrayDescriptor(NewArrayDescriptor(PrimitiveInt)).Reifier())
	assert.Equal(t, PrimitiveInt, NewArrayDescriptor(PrimitiveInt).Reifier())

	obj := ClassNameFromInternal("java/lang/Object")
	assert.Equal(t, obj, ArrayOf(obj, 3).Reifier())
	assert.Equal(t, obj, obj.Reifier())
	assert.Equal(t, 3, ArrayOf(obj, 3).(ArrayDescriptor).Dimensions())
	assert.Equal(t, "java.lang.Object[][][]", ArrayOf(obj, 3).(ArrayDescriptor).String())
}

func TestDescriptorTypeRoundTrip(t *testing.T) {
	values := []DescriptorType{
		PrimitiveBoolean, PrimitiveByte, PrimitiveChar, PrimitiveShort, PrimitiveInt,
		PrimitiveLong, PrimitiveFloat, PrimitiveDouble, PrimitiveVoid,
		ClassNameFromInternal("java/lang/String"),
		ClassNameFromInternal("java/util/Map$Entry"),
		ClassNameFromFqn("RootClass"),
		NewArrayDescriptor(PrimitiveInt),
		ArrayOf(PrimitiveDouble, 4),
		ArrayOf(ClassNameFromInternal("java/lang/Object"), 2),
		NewArrayDescriptor(PrimitiveVoid),
	}

	for _, v := range values {
		t.Run(v.InternalString(), func(t *testing.T) {
			got, err := ParseDescriptorType(v.InternalString())
			require.NoError(t, err)
			assert.Equal(t, v, got)
			assert.Equal(t, v.InternalString(), got.InternalString())
		})
	}
}

func TestMethodDescriptorRoundTrip(t *testing.T) {
	str := ClassNameFromInternal("java/lang/String")
	values := []Descriptor{
		NewDescriptor(nil, PrimitiveVoid),
		NewDescriptor([]DescriptorType{PrimitiveInt, str}, PrimitiveVoid),
		NewDescriptor([]DescriptorType{ArrayOf(str, 1)}, PrimitiveInt),
		NewDescriptor([]DescriptorType{PrimitiveLong, PrimitiveDouble, ArrayOf(PrimitiveByte, 2)}, ArrayOf(str, 3)),
	}

	for _, d := range values {
		t.Run(d.DescriptorString(), func(t *testing.T) {
			got, err := ParseMethodDescriptor(d.DescriptorString())
			require.NoError(t, err)
			assert.True(t, d.Equal(got))
			assert.Equal(t, d.Params(), got.Params())
			assert.Equal(t, d.Return(), got.Return())
		})
	}
}

func TestParseDescriptorTypeMalformed(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{"", 0},
		{"Ljava/lang/String", 0},
		{"[", 1},
		{"[[", 2},
		{"X", 0},
		{"II", 1},
		{"L;", 0},
		{"Ljava//String;", 0},
		{"L/String;", 0},
		{"Ljava.lang.String;", 0},
		{"Lint;", 0},
		{"Ljava/lang/String;I", 18},
		{"(I)V", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseDescriptorType(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDescriptor)

			var de *DescriptorError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.input, de.Input)
			assert.Equal(t, tt.offset, de.Offset)
		})
	}
}

func TestParseMethodDescriptorMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"V",
		"I)V",
		"(I",
		"(IV",
		"(I)",
		"(I)VV",
		"(Ljava/lang/String)V",
		"(Q)V",
		"(I)Ljava/lang/String",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseMethodDescriptor(input)
			assert.ErrorIs(t, err, ErrMalformedDescriptor)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseDescriptorType("Q") })
	assert.Panics(t, func() { MustParseMethodDescriptor("V") })
	assert.NotPanics(t, func() { MustParseDescriptorType("[Z") })
}
