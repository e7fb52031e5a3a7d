package refgraph

import (
	"testing"

	"github.com/dhamidi/jvmsym/raw"
	"github.com/dhamidi/jvmsym/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	classA     = symbol.ClassNameFromInternal("com/example/A")
	classB     = symbol.ClassNameFromInternal("com/example/B")
	classInner = symbol.ClassNameFromInternal("com/example/B$Inner")
	object     = symbol.ClassNameFromInternal("java/lang/Object")
	str        = symbol.ClassNameFromInternal("java/lang/String")

	voidDesc = symbol.MustParseMethodDescriptor("()V")
	aRun     = symbol.NewMethodName(classA, "run", voidDesc)
	bCount   = symbol.NewFieldName(classB, "count")
	bHelp    = symbol.NewMethodName(classB, "help", voidDesc)
	bSelf    = symbol.NewMethodName(classB, "again", voidDesc)
)

// A extends Object; A.run reads B.count and calls B.help.
// B.help uses String; B.again calls B.help and itself.
// B$Inner extends Object and calls B.help.
func fixture() []*raw.Classfile {
	return []*raw.Classfile{
		{
			Name:         classA,
			InternalRefs: symbol.NewRefSet(object),
			Methods: []raw.Method{
				{Name: aRun, InternalRefs: symbol.NewRefSet(classB, bCount, bHelp)},
			},
		},
		{
			Name:         classB,
			InternalRefs: symbol.NewRefSet(object),
			Fields:       []raw.Field{{Name: bCount, Type: symbol.PrimitiveInt, InternalRefs: symbol.NewRefSet()}},
			Methods: []raw.Method{
				{Name: bHelp, InternalRefs: symbol.NewRefSet(str)},
				{Name: bSelf, InternalRefs: symbol.NewRefSet(bHelp, bSelf)},
			},
		},
		{
			Name:         classInner,
			InternalRefs: symbol.NewRefSet(object, bHelp),
		},
	}
}

func keys(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func TestBuild(t *testing.T) {
	g, err := Build(fixture())
	require.NoError(t, err)

	// 3 classes, 1 field, 3 methods, Object, String
	assert.Equal(t, 9, g.Len())

	n, ok := g.Node(classB)
	require.True(t, ok)
	assert.True(t, n.Declared)

	n, ok = g.Node(object)
	require.True(t, ok)
	assert.False(t, n.Declared)

	_, ok = g.Node(symbol.ClassNameFromInternal("com/example/Missing"))
	assert.False(t, ok)
}

func TestBuildDuplicateClasses(t *testing.T) {
	classes := append(fixture(), fixture()...)
	g, err := Build(classes)
	require.NoError(t, err)
	assert.Equal(t, 9, g.Len())
}

func TestReferencedBy(t *testing.T) {
	g, err := Build(fixture())
	require.NoError(t, err)

	got, err := g.ReferencedBy(bHelp)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"class:com.example.B$Inner",
		"method:com.example.A.run()V",
		"method:com.example.B.again()V",
	}, keys(got))

	got, err = g.ReferencedBy(object)
	require.NoError(t, err)
	assert.Equal(t, []string{"class:com.example.A", "class:com.example.B", "class:com.example.B$Inner"}, keys(got))

	got, err = g.ReferencedBy(aRun)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = g.ReferencedBy(symbol.ClassNameFromInternal("com/example/Missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReferences(t *testing.T) {
	g, err := Build(fixture())
	require.NoError(t, err)

	got, err := g.References(aRun)
	require.NoError(t, err)
	assert.Equal(t, []string{"class:com.example.B", "field:com.example.B.count", "method:com.example.B.help()V"}, keys(got))

	got, err = g.References(bSelf)
	require.NoError(t, err)
	assert.Equal(t, []string{"method:com.example.B.help()V"}, keys(got), "self reference is dropped")
}

func TestReachable(t *testing.T) {
	g, err := Build(fixture())
	require.NoError(t, err)

	got, err := g.Reachable(aRun)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"class:com.example.B",
		"class:java.lang.Object",
		"class:java.lang.String",
		"field:com.example.B.count",
		"method:com.example.B.help()V",
	}, keys(got))

	_, err = g.Reachable(symbol.NewPackageName("nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExternalReferrers(t *testing.T) {
	g, err := Build(fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"method:com.example.A.run()V"}, keys(g.ExternalReferrers(classB)),
		"B.again and B$Inner are inside B")
	assert.Equal(t, []string{
		"class:com.example.B$Inner",
		"method:com.example.A.run()V",
		"method:com.example.B.again()V",
	}, keys(g.ExternalReferrers(bHelp)))
	assert.Empty(t, g.ExternalReferrers(symbol.NewPackageName("com", "example")))
	assert.Len(t, g.ExternalReferrers(symbol.NewPackageName("java", "lang")), 4)
}
