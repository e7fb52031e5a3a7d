package classfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/dhamidi/jvmsym/classfile/classfiletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassFile(t *testing.T) {
	b := classfiletest.New("com/example/TestClass", "java/lang/Object").
		Interfaces("java/lang/Runnable").
		SourceFile("TestClass.java").
		Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Runnable;").
		Deprecated()
	b.Long(42)
	b.Integer(7)
	b.Field(classfiletest.Member{Access: 0x0019, Name: "CONSTANT_VALUE", Descriptor: "I"})
	b.Field(classfiletest.Member{Access: 0x0002, Name: "name", Descriptor: "Ljava/lang/String;", Signature: "TT;"})
	b.Method(classfiletest.Member{
		Access:     0x0001,
		Name:       "run",
		Descriptor: "()V",
		Exceptions: []string{"java/io/IOException"},
		Code: &classfiletest.Code{
			MaxStack: 1, MaxLocals: 1,
			Bytecode: []byte{0xb1},
			Lines:    []classfiletest.Line{{PC: 0, Line: 12}},
		},
	})
	b.Method(classfiletest.Member{Access: 0x0401, Name: "abstractOne", Descriptor: "(I)J", Deprecated: true})

	cf, err := Parse(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)

	t.Run("header", func(t *testing.T) {
		assert.Equal(t, "com/example/TestClass", cf.ClassName())
		assert.Equal(t, "java/lang/Object", cf.SuperClassName())
		assert.Equal(t, []string{"java/lang/Runnable"}, cf.InterfaceNames())
		assert.Equal(t, uint16(61), cf.MajorVersion)
		assert.True(t, cf.AccessFlags.Has(AccPublic))
		assert.False(t, cf.AccessFlags.IsModule())
	})

	t.Run("class attributes", func(t *testing.T) {
		src, ok := cf.SourceFile()
		require.True(t, ok)
		assert.Equal(t, "TestClass.java", src)

		sig, ok := cf.Signature()
		require.True(t, ok)
		assert.Equal(t, "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Runnable;", sig)

		assert.True(t, cf.IsDeprecated())
		assert.False(t, cf.IsScala())
	})

	t.Run("fields", func(t *testing.T) {
		require.Len(t, cf.Fields, 2)
		assert.Equal(t, "CONSTANT_VALUE", cf.Fields[0].Name(cf.ConstantPool))
		assert.Equal(t, "I", cf.Fields[0].Descriptor(cf.ConstantPool))
		assert.True(t, cf.Fields[0].AccessFlags.Has(AccStatic|AccFinal))

		sig, ok := cf.Fields[1].Signature(cf.ConstantPool)
		require.True(t, ok)
		assert.Equal(t, "TT;", sig)
		_, ok = cf.Fields[0].Signature(cf.ConstantPool)
		assert.False(t, ok)
	})

	t.Run("methods", func(t *testing.T) {
		require.Len(t, cf.Methods, 2)
		run := cf.Methods[0]
		assert.Equal(t, "run", run.Name(cf.ConstantPool))
		assert.Equal(t, []string{"java/io/IOException"}, run.Exceptions(cf.ConstantPool))

		code, err := run.Code(cf.ConstantPool)
		require.NoError(t, err)
		require.NotNil(t, code)
		assert.Equal(t, []byte{0xb1}, code.Bytecode)
		line, ok := code.FirstLine()
		require.True(t, ok)
		assert.Equal(t, 12, line)

		abstract := cf.Methods[1]
		assert.True(t, abstract.IsDeprecated())
		code, err = abstract.Code(cf.ConstantPool)
		require.NoError(t, err)
		assert.Nil(t, code)
		assert.Nil(t, abstract.Exceptions(cf.ConstantPool))
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := Parse(bytes.NewReader(classfiletest.New("A", "").BadMagic().Bytes()))
		assert.ErrorContains(t, err, "invalid magic number")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Parse(bytes.NewReader(nil))
		assert.ErrorContains(t, err, "read magic")
	})

	t.Run("truncated", func(t *testing.T) {
		data := classfiletest.New("com/example/A", "java/lang/Object").
			Method(classfiletest.Member{Name: "m", Descriptor: "()V"}).
			Bytes()
		for _, n := range []int{8, 12, len(data) - 1} {
			_, err := Parse(bytes.NewReader(data[:n]))
			assert.Error(t, err, "length %d", n)
		}
	})

	t.Run("attribute length past end of input", func(t *testing.T) {
		data := classfiletest.New("com/example/A", "java/lang/Object").
			Attribute("Custom", []byte{1, 2, 3}).
			Bytes()
		// u4 length, then the three info bytes, end the file.
		binary.BigEndian.PutUint32(data[len(data)-7:], 0xFFFFFFF0)

		_, err := Parse(bytes.NewReader(data))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

		_, err = Parse(io.MultiReader(bytes.NewReader(data)))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("unknown constant tag", func(t *testing.T) {
		data := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 0, 0, 61, 0, 2, 99}
		_, err := Parse(bytes.NewReader(data))
		assert.ErrorContains(t, err, "unknown constant pool tag")
	})
}

func TestScalaMarker(t *testing.T) {
	data := classfiletest.New("scala/Foo", "java/lang/Object").Attribute("ScalaSig", []byte{5, 0, 0}).Bytes()
	cf, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, cf.IsScala())
	assert.False(t, cf.IsDeprecated())
}

func TestDecodeModifiedUtf8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("java/lang/String"), "java/lang/String"},
		{"nul", []byte{0xC0, 0x80}, "\x00"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"three byte", []byte{0xE2, 0x82, 0xAC}, "€"},
		{"surrogate pair", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "😀"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeModifiedUtf8(tt.in))
		})
	}
}
