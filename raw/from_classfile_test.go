package raw

import (
	"bytes"
	"testing"

	"github.com/dhamidi/jvmsym/classfile"
	"github.com/dhamidi/jvmsym/classfile/classfiletest"
	"github.com/dhamidi/jvmsym/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, b *classfiletest.Builder, opts Options) *Classfile {
	t.Helper()
	cf, err := classfile.Parse(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	out, err := FromClassFile(cf, opts)
	require.NoError(t, err)
	return out
}

func cls(internal string) symbol.ClassName {
	return symbol.ClassNameFromInternal(internal)
}

func greeterBuilder() *classfiletest.Builder {
	b := classfiletest.New("com/example/Greeter", "java/lang/Object").
		Interfaces("java/lang/Comparable").
		SourceFile("Greeter.java").
		Signature("Ljava/lang/Object;Ljava/lang/Comparable<Lcom/example/Greeter;>;")

	b.Field(classfiletest.Member{
		Access:     0x0002,
		Name:       "names",
		Descriptor: "Ljava/util/List;",
		Signature:  "Ljava/util/List<Ljava/lang/String;>;",
	})
	b.Field(classfiletest.Member{Access: 0x1000, Name: "this$0", Descriptor: "Lcom/example/Outer;"})
	b.Field(classfiletest.Member{Access: 0x0001, Name: "broken", Descriptor: "Ljava/lang/String"})

	out := b.FieldRef("java/lang/System", "out", "Ljava/io/PrintStream;")
	printRef := b.MethodRef("java/io/PrintStream", "println", "(Ljava/lang/String;)V")
	greet := b.MethodRef("com/example/Greeter", "greet", "(Ljava/lang/String;)V")
	sb := b.Class("java/lang/StringBuilder")
	clone := b.MethodRef("[Ljava/lang/Object;", "clone", "()Ljava/lang/Object;")

	var code []byte
	code = append(code, classfiletest.Ins(classfile.OpGetStatic, out)...)
	code = append(code, 0x2b) // aload_1
	code = append(code, classfiletest.Ins(classfile.OpInvokeVirtual, printRef)...)
	code = append(code, classfiletest.Ins(classfile.OpNew, sb)...)
	code = append(code, 0x57) // pop
	code = append(code, 0x2a, 0x2b)
	code = append(code, classfiletest.Ins(classfile.OpInvokeVirtual, greet)...)
	code = append(code, 0x01)
	code = append(code, classfiletest.Ins(classfile.OpInvokeVirtual, clone)...)
	code = append(code, 0x57, 0xb1)

	b.Method(classfiletest.Member{
		Access:     0x0001,
		Name:       "greet",
		Descriptor: "(Ljava/lang/String;)V",
		Exceptions: []string{"java/io/IOException"},
		Code: &classfiletest.Code{
			MaxStack: 3, MaxLocals: 2,
			Bytecode:   code,
			CatchTypes: []string{"java/lang/IllegalStateException", ""},
			Lines:      []classfiletest.Line{{PC: 0, Line: 14}, {PC: 3, Line: 12}},
		},
	})
	b.Method(classfiletest.Member{
		Access:     0x0401,
		Name:       "map",
		Descriptor: "(Ljava/util/function/Function;)[Ljava/util/Map;",
		Signature:  "<R:Ljava/lang/Object;>(Ljava/util/function/Function<-Ljava/lang/String;+TR;>;)[Ljava/util/Map<Ljava/lang/String;TR;>;",
		Deprecated: true,
	})
	b.Method(classfiletest.Member{
		Access:     0x1041,
		Name:       "compareTo",
		Descriptor: "(Ljava/lang/Object;)I",
		Code:       &classfiletest.Code{Bytecode: []byte{0x03, 0xac}, Lines: []classfiletest.Line{{PC: 0, Line: 3}}},
	})
	b.Method(classfiletest.Member{Access: 0x0001, Name: "bad", Descriptor: "(I"})
	return b
}

func TestFromClassFileHeader(t *testing.T) {
	c := parse(t, greeterBuilder(), Options{SkipSynthetic: true})

	assert.Equal(t, "com.example.Greeter", c.FQN())
	assert.Equal(t, symbol.AccessPublic, c.Access)
	require.NotNil(t, c.Super)
	assert.Equal(t, cls("java/lang/Object"), *c.Super)
	assert.Equal(t, []symbol.ClassName{cls("java/lang/Comparable")}, c.Interfaces)
	require.NotNil(t, c.Generics)
	assert.Equal(t, "Ljava/lang/Object;Ljava/lang/Comparable<Lcom/example/Greeter;>;", c.Generics.String())
	assert.False(t, c.Deprecated)
	assert.False(t, c.IsScala)

	assert.True(t, c.InternalRefs.Has(cls("java/lang/Object")))
	assert.True(t, c.InternalRefs.Has(cls("java/lang/Comparable")))
	assert.False(t, c.InternalRefs.Has(cls("com/example/Greeter")), "the class never references itself")
	assert.Equal(t, 2, c.InternalRefs.Len())

	assert.Equal(t, "com.example.Greeter", c.Source.FQN())
	require.NotNil(t, c.Source.Filename)
	assert.Equal(t, "Greeter.java", *c.Source.Filename)
	require.NotNil(t, c.Source.Line)
	assert.Equal(t, 12, *c.Source.Line)
}

func TestFromClassFileSelfReferentialSignature(t *testing.T) {
	b := classfiletest.New("com/example/Color", "java/lang/Enum").
		Signature("Ljava/lang/Enum<Lcom/example/Color;>;")
	c := parse(t, b, Options{})

	require.NotNil(t, c.Generics)
	assert.Equal(t, []string{"class:java.lang.Enum"}, keys(c.InternalRefs))
}

func keys(refs *symbol.RefSet) []string {
	var out []string
	for _, r := range refs.Sorted() {
		out = append(out, symbol.Key(r))
	}
	return out
}

func TestFromClassFileFields(t *testing.T) {
	c := parse(t, greeterBuilder(), Options{SkipSynthetic: true})

	require.Len(t, c.Fields, 1, "synthetic and malformed fields are skipped")
	f := c.Fields[0]
	assert.Equal(t, "com.example.Greeter.names", f.FQN())
	assert.Equal(t, symbol.AccessPrivate, f.Access)
	assert.Equal(t, "Ljava/util/List;", f.Type.InternalString())
	require.NotNil(t, f.Generics)
	assert.Equal(t, "Ljava/util/List<Ljava/lang/String;>;", f.Generics.String())
	assert.True(t, f.InternalRefs.Has(cls("java/util/List")))
	assert.True(t, f.InternalRefs.Has(cls("java/lang/String")))

	all := parse(t, greeterBuilder(), Options{})
	require.Len(t, all.Fields, 2)
	assert.Equal(t, "com.example.Greeter.this$0", all.Fields[1].FQN())
}

func TestFromClassFileMethods(t *testing.T) {
	c := parse(t, greeterBuilder(), Options{SkipSynthetic: true})
	require.Len(t, c.Methods, 2, "bridge and malformed methods are skipped")

	greet := c.Methods[0]
	assert.Equal(t, "com.example.Greeter.greet(Ljava/lang/String;)V", greet.FQN())
	assert.Equal(t, []symbol.ClassName{cls("java/io/IOException")}, greet.Exceptions)
	require.NotNil(t, greet.Line)
	assert.Equal(t, 12, *greet.Line)
	assert.Nil(t, greet.Generics)

	refs := greet.InternalRefs
	printDesc := symbol.MustParseMethodDescriptor("(Ljava/lang/String;)V")
	for _, want := range []symbol.FullyQualifiedName{
		cls("java/lang/String"),
		cls("java/io/IOException"),
		cls("java/lang/IllegalStateException"),
		cls("java/lang/System"),
		cls("java/io/PrintStream"),
		cls("java/lang/StringBuilder"),
		cls("java/lang/Object"),
		cls("com/example/Greeter"),
		symbol.NewFieldName(cls("java/lang/System"), "out"),
		symbol.NewMethodName(cls("java/io/PrintStream"), "println", printDesc),
	} {
		assert.True(t, refs.Has(want), "missing %s", symbol.Key(want))
	}
	assert.False(t, refs.Has(greet.Name), "recursive call is not a reference")
	assert.False(t, refs.Has(symbol.NewMethodName(cls("java/lang/Object"), "clone",
		symbol.MustParseMethodDescriptor("()Ljava/lang/Object;"))))
	assert.Equal(t, 10, refs.Len())

	m := c.Methods[1]
	assert.Equal(t, "com.example.Greeter.map(Ljava/util/function/Function;)[Ljava/util/Map;", m.FQN())
	assert.True(t, m.Deprecated)
	assert.Nil(t, m.Line)
	require.NotNil(t, m.Generics)
	assert.Len(t, m.Generics.TypeParams, 1)
	assert.True(t, m.InternalRefs.Has(cls("java/util/function/Function")))
	assert.True(t, m.InternalRefs.Has(cls("java/util/Map")))
	assert.True(t, m.InternalRefs.Has(cls("java/lang/String")))
	assert.True(t, m.InternalRefs.Has(cls("java/lang/Object")))

	all := parse(t, greeterBuilder(), Options{})
	assert.Len(t, all.Methods, 3)
	require.NotNil(t, all.Source.Line)
	assert.Equal(t, 3, *all.Source.Line)
}

func TestFromClassFileErrors(t *testing.T) {
	t.Run("module-info", func(t *testing.T) {
		b := classfiletest.New("module-info", "").Access(0x8000)
		cf, err := classfile.Parse(bytes.NewReader(b.Bytes()))
		require.NoError(t, err)
		_, err = FromClassFile(cf, Options{})
		assert.ErrorIs(t, err, ErrModuleInfo)
	})

	t.Run("malformed class name", func(t *testing.T) {
		cf, err := classfile.Parse(bytes.NewReader(classfiletest.New("com//Bad", "").Bytes()))
		require.NoError(t, err)
		_, err = FromClassFile(cf, Options{})
		assert.ErrorIs(t, err, symbol.ErrMalformedDescriptor)
	})

	t.Run("malformed signature is dropped", func(t *testing.T) {
		b := classfiletest.New("com/example/A", "java/lang/Object").Signature("<T>Ljava/lang/Object;")
		c := parse(t, b, Options{})
		assert.Nil(t, c.Generics)
		assert.Equal(t, 1, c.InternalRefs.Len())
	})

	t.Run("truncated bytecode skips method", func(t *testing.T) {
		b := classfiletest.New("com/example/A", "java/lang/Object")
		b.Method(classfiletest.Member{Name: "m", Descriptor: "()V", Code: &classfiletest.Code{Bytecode: []byte{0xb2, 0}}})
		c := parse(t, b, Options{})
		assert.Empty(t, c.Methods)
	})
}
