package symbol

import "strings"

// DescriptorType is the shape of a field type: a ClassName (primitive or
// reference) or an ArrayDescriptor.
type DescriptorType interface {
	// InternalString is the JVM field descriptor, e.g. "I",
	// "Ljava/lang/String;" or "[[J".
	InternalString() string
	// Reifier strips every array dimension and returns the innermost
	// class, primitive or not.
	Reifier() ClassName

	descriptorType()
}

var (
	PrimitiveBoolean = ClassName{name: "boolean"}
	PrimitiveByte    = ClassName{name: "byte"}
	PrimitiveChar    = ClassName{name: "char"}
	PrimitiveShort   = ClassName{name: "short"}
	PrimitiveInt     = ClassName{name: "int"}
	PrimitiveLong    = ClassName{name: "long"}
	PrimitiveFloat   = ClassName{name: "float"}
	PrimitiveDouble  = ClassName{name: "double"}
	PrimitiveVoid    = ClassName{name: "void"}
)

var primitiveLetters = map[string]byte{
	"boolean": 'Z',
	"byte":    'B',
	"char":    'C',
	"short":   'S',
	"int":     'I',
	"long":    'J',
	"float":   'F',
	"double":  'D',
	"void":    'V',
}

// PrimitiveByLetter maps a descriptor base-type letter to its primitive
// class name.
func PrimitiveByLetter(letter byte) (ClassName, bool) {
	switch letter {
	case 'Z':
		return PrimitiveBoolean, true
	case 'B':
		return PrimitiveByte, true
	case 'C':
		return PrimitiveChar, true
	case 'S':
		return PrimitiveShort, true
	case 'I':
		return PrimitiveInt, true
	case 'J':
		return PrimitiveLong, true
	case 'F':
		return PrimitiveFloat, true
	case 'D':
		return PrimitiveDouble, true
	case 'V':
		return PrimitiveVoid, true
	}
	return ClassName{}, false
}

// ArrayDescriptor is one array dimension over an element type.
type ArrayDescriptor struct {
	elem DescriptorType
}

func NewArrayDescriptor(elem DescriptorType) ArrayDescriptor {
	return ArrayDescriptor{elem: elem}
}

// ArrayOf wraps elem in dims array dimensions.
func ArrayOf(elem DescriptorType, dims int) DescriptorType {
	for i := 0; i < dims; i++ {
		elem = ArrayDescriptor{elem: elem}
	}
	return elem
}

func (a ArrayDescriptor) descriptorType() {}

func (a ArrayDescriptor) Elem() DescriptorType {
	return a.elem
}

// Dimensions counts the nested array levels, at least one.
func (a ArrayDescriptor) Dimensions() int {
	n := 1
	for inner, ok := a.elem.(ArrayDescriptor); ok; inner, ok = inner.elem.(ArrayDescriptor) {
		n++
	}
	return n
}

func (a ArrayDescriptor) InternalString() string {
	return "[" + a.elem.InternalString()
}

func (a ArrayDescriptor) Reifier() ClassName {
	return a.elem.Reifier()
}

func (a ArrayDescriptor) String() string {
	return a.elem.Reifier().FqnString() + strings.Repeat("[]", a.Dimensions())
}

// Descriptor is a method descriptor: ordered parameter types and a return
// type. Only the encoding is stored, which keeps Descriptor, and every
// MethodName holding one, usable with == and as a map key. The types are
// decoded from it on demand.
type Descriptor struct {
	encoded string
}

func NewDescriptor(params []DescriptorType, ret DescriptorType) Descriptor {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(p.InternalString())
	}
	sb.WriteByte(')')
	sb.WriteString(ret.InternalString())
	return Descriptor{encoded: sb.String()}
}

// Params returns the parameter types in declaration order.
func (d Descriptor) Params() []DescriptorType {
	var params []DescriptorType
	i := 1
	for i < len(d.encoded) && d.encoded[i] != ')' {
		var p DescriptorType
		p, i = encodedType(d.encoded, i)
		params = append(params, p)
	}
	return params
}

// Return is nil for the zero Descriptor.
func (d Descriptor) Return() DescriptorType {
	paren := strings.IndexByte(d.encoded, ')')
	if paren < 0 || paren+1 >= len(d.encoded) {
		return nil
	}
	t, _ := encodedType(d.encoded, paren+1)
	return t
}

// encodedType reads back one type written by NewDescriptor at s[i:] and
// returns it with the offset just past it. The input was produced by
// InternalString, so it is not validated again.
func encodedType(s string, i int) (DescriptorType, int) {
	dims := 0
	for i < len(s) && s[i] == '[' {
		dims++
		i++
	}
	if i >= len(s) {
		return ArrayOf(ClassName{}, dims), i
	}
	if prim, ok := PrimitiveByLetter(s[i]); ok {
		return ArrayOf(prim, dims), i + 1
	}
	semicolon := strings.IndexByte(s[i:], ';')
	if semicolon < 0 {
		return ArrayOf(ClassNameFromInternal(s[i+1:]), dims), len(s)
	}
	return ArrayOf(ClassNameFromInternal(s[i+1:i+semicolon]), dims), i + semicolon + 1
}

// DescriptorString is the JVM method descriptor, e.g. "(ILjava/lang/String;)V".
func (d Descriptor) DescriptorString() string {
	return d.encoded
}

func (d Descriptor) String() string {
	return d.encoded
}

// Equal is d == other; the encoding is injective so this is structural
// equality.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.encoded == other.encoded
}
