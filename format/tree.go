package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jvmsym/signature"
	"github.com/dhamidi/jvmsym/symbol"
)

// TreeWriter prints decoded descriptors and signatures as an indented tree,
// two spaces per level.
type TreeWriter struct {
	w     io.Writer
	depth int
	err   error
}

func NewTreeWriter(w io.Writer) *TreeWriter {
	return &TreeWriter{w: w}
}

func (t *TreeWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%s%s\n", strings.Repeat("  ", t.depth), fmt.Sprintf(format, args...))
}

func (t *TreeWriter) nested(fn func()) {
	t.depth++
	fn()
	t.depth--
}

func (t *TreeWriter) Type(d symbol.DescriptorType) error {
	t.descriptorType("", d)
	return t.err
}

func (t *TreeWriter) descriptorType(label string, d symbol.DescriptorType) {
	switch v := d.(type) {
	case symbol.ClassName:
		kind := "class"
		if v.IsPrimitive() {
			kind = "primitive"
		}
		t.line("%s%s %s (%s)", label, kind, v.FqnString(), v.InternalString())
	case symbol.ArrayDescriptor:
		t.line("%sarray[%d] of %s (%s)", label, v.Dimensions(), v.Reifier().FqnString(), v.InternalString())
	}
}

func (t *TreeWriter) Descriptor(d symbol.Descriptor) error {
	t.line("method %s", d.DescriptorString())
	t.nested(func() {
		for i, p := range d.Params() {
			t.descriptorType(fmt.Sprintf("param %d: ", i), p)
		}
		t.descriptorType("return: ", d.Return())
	})
	return t.err
}

func (t *TreeWriter) Signature(s signature.GenericSignature) error {
	t.signature("", s)
	return t.err
}

func (t *TreeWriter) ClassSignature(c signature.GenericClass) error {
	t.line("class signature %s", c)
	t.nested(func() {
		t.params(c.Params)
		for i, s := range c.Supers {
			label := "interface: "
			if i == 0 {
				label = "superclass: "
			}
			t.signature(label, s)
		}
	})
	return t.err
}

func (t *TreeWriter) MethodSignature(m signature.GenericMethod) error {
	t.line("method signature %s", m)
	t.nested(func() {
		t.params(m.TypeParams)
		for i, p := range m.Params {
			t.signature(fmt.Sprintf("param %d: ", i), p)
		}
		t.signature("return: ", m.Return)
		for _, s := range m.Throws {
			t.signature("throws: ", s)
		}
	})
	return t.err
}

func (t *TreeWriter) params(params []signature.GenericParam) {
	for _, p := range params {
		t.line("type param %s", p.Name)
		t.nested(func() {
			if p.ClassBound != nil {
				t.signature("class bound: ", p.ClassBound)
			}
			for _, b := range p.InterfaceBounds {
				t.signature("interface bound: ", b)
			}
		})
	}
}

func (t *TreeWriter) signature(label string, s signature.GenericSignature) {
	switch v := s.(type) {
	case signature.GenericClassName:
		if v.ClassName.IsPrimitive() {
			t.line("%sprimitive %s", label, v.ClassName.FqnString())
			return
		}
		t.line("%sclass %s", label, v.ClassName.FqnString())
		t.nested(func() {
			t.args(v.Args)
			for _, inner := range v.Inner {
				t.line("inner %s", inner.Name)
				t.nested(func() { t.args(inner.Args) })
			}
		})
	case signature.GenericArray:
		t.line("%sarray", label)
		t.nested(func() { t.signature("", v.Elem) })
	case signature.GenericVar:
		t.line("%svar %s", label, v.Name)
	}
}

func (t *TreeWriter) args(args []signature.GenericArg) {
	for _, a := range args {
		switch a.Bound {
		case signature.BoundAny:
			t.line("arg ?")
		case signature.BoundUpper:
			t.signature("arg ? extends ", a.Signature)
		case signature.BoundLower:
			t.signature("arg ? super ", a.Signature)
		default:
			t.signature("arg ", a.Signature)
		}
	}
}
