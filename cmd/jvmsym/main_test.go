package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/jvmsym/classfile/classfiletest"
	"github.com/dhamidi/jvmsym/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestDescriptorCmd(t *testing.T) {
	out, err := run(t, "descriptor", "[Ljava/lang/String;", "J")
	require.NoError(t, err)
	assert.Equal(t, ""+
		"array[1] of java.lang.String ([Ljava/lang/String;)\n"+
		"encoded: [Ljava/lang/String;\n"+
		"primitive long (J)\n"+
		"encoded: J\n",
		out)

	out, err = run(t, "descriptor", "--method", "(Z)V")
	require.NoError(t, err)
	assert.Contains(t, out, "param 0: primitive boolean (Z)")
	assert.Contains(t, out, "encoded: (Z)V")

	_, err = run(t, "descriptor", "Ljava/lang/String")
	assert.Error(t, err)
}

func TestSignatureCmd(t *testing.T) {
	out, err := run(t, "signature", "Ljava/util/List<*>;")
	require.NoError(t, err)
	assert.Equal(t, "class java.util.List\n  arg ?\nencoded: Ljava/util/List<*>;\n", out)

	out, err = run(t, "signature", "--kind", "method", "<T:Ljava/lang/Object;>(TT;)V")
	require.NoError(t, err)
	assert.Contains(t, out, "type param T")
	assert.Contains(t, out, "encoded: <T:Ljava/lang/Object;>(TT;)V")

	_, err = run(t, "signature", "--kind", "module", "Ljava/lang/Object;")
	assert.ErrorContains(t, err, "unknown signature kind")
}

func TestFqnCmd(t *testing.T) {
	out, err := run(t, "fqn", "--splitter", "/", "java/util/Map$Entry")
	require.NoError(t, err)
	assert.Contains(t, out, "fqn:        java.util.Map$Entry\n")
	assert.Contains(t, out, "descriptor: Ljava/util/Map$Entry;\n")
	assert.Contains(t, out, "outer:      java.util.Map\n")

	out, err = run(t, "fqn", "--splitter", "", "Foo")
	require.NoError(t, err)
	assert.Contains(t, out, "internal:   Foo\n")
	assert.Contains(t, out, "simple:     Foo\n")

	out, err = run(t, "fqn", "--contains", "package:java", "method:java.util.List.size()I")
	require.NoError(t, err)
	assert.Equal(t, "package:java contains method:java.util.List.size()I: true\n", out)

	out, err = run(t, "fqn", "--contains", "java.util.Map", "field:java.util.HashMap.size")
	require.NoError(t, err)
	assert.Contains(t, out, ": false\n")

	_, err = run(t, "fqn", "--contains", "java.util.Map")
	assert.Error(t, err)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in      string
		wantKey string
	}{
		{"java.lang.String", "class:java.lang.String"},
		{"package:java.lang", "package:java.lang"},
		{"package:", "package:"},
		{"field:a.B.count", "field:a.B.count"},
		{"method:a.B.run(ILjava/lang/String;)V", "method:a.B.run(ILjava/lang/String;)V"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, err := parseName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, symbol.Key(name))
		})
	}

	for _, bad := range []string{"field:count", "method:a.B.run", "method:run()V", "module:x", "method:a.B.run(Q)V"} {
		_, err := parseName(bad)
		assert.Error(t, err, bad)
	}
}

func writeClasses(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	a := classfiletest.New("com/example/A", "java/lang/Object")
	help := a.MethodRef("com/example/B", "help", "()V")
	a.Method(classfiletest.Member{
		Access:     0x0001,
		Name:       "run",
		Descriptor: "()V",
		Code:       &classfiletest.Code{Bytecode: append(classfiletest.Ins(0xb8, help), 0xb1)},
	})
	b := classfiletest.New("com/example/B", "java/lang/Object")
	b.Method(classfiletest.Member{Access: 0x0009, Name: "help", Descriptor: "()V", Code: &classfiletest.Code{Bytecode: []byte{0xb1}}})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.class"), a.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "B.class"), b.Bytes(), 0o644))
	return dir
}

func TestScanCmd(t *testing.T) {
	dir := writeClasses(t)

	out, err := run(t, "scan", "--refs", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "class\tcom.example.A\tpublic\t-\n")
	assert.Contains(t, out, "method\tcom.example.A.run()V\tpublic\t-\t-\n")
	assert.Contains(t, out, "ref\tcom.example.A.run()V\tmethod:com.example.B.help()V\n")

	out, err = run(t, "scan", "--format", "json", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"fqn": "com.example.B"`)

	_, err = run(t, "scan", "--format", "xml", dir)
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "scan", filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRefsCmd(t *testing.T) {
	dir := writeClasses(t)

	out, err := run(t, "refs", dir, "method:com.example.B.help()V")
	require.NoError(t, err)
	assert.Equal(t, "  method:com.example.A.run()V\n", out)

	out, err = run(t, "refs", "--external", dir, "com.example.B")
	require.NoError(t, err)
	assert.Equal(t, "  method:com.example.A.run()V\n", out)

	out, err = run(t, "refs", "--outgoing", dir, "com.example.A")
	require.NoError(t, err)
	assert.Equal(t, "? class:java.lang.Object\n", out)

	_, err = run(t, "refs", dir, "com.example.Missing")
	assert.Error(t, err)
}
