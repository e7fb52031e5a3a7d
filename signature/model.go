// Package signature models the generic type information carried by the
// Signature attribute of class files.
//
// Every node's String method reproduces the attribute text it was parsed
// from.
package signature

import (
	"strings"

	"github.com/dhamidi/jvmsym/symbol"
)

// GenericSignature is a GenericClassName, GenericArray or GenericVar.
type GenericSignature interface {
	String() string
	genericSignature()
}

// GenericClassName is a possibly parameterized class type. Inner holds the
// ".Inner<...>" segments of types such as Outer<T>.Inner<U>; they are kept
// separate rather than folded into ClassName so their arguments survive.
//
// ClassName may be a primitive for base types appearing inside method
// signatures and arrays; Args and Inner are then empty.
type GenericClassName struct {
	ClassName symbol.ClassName
	Args      []GenericArg
	Inner     []InnerClassName
}

type InnerClassName struct {
	Name string
	Args []GenericArg
}

type GenericArray struct {
	Elem GenericSignature
}

// GenericVar is a reference to a type variable such as T.
type GenericVar struct {
	Name string
}

// BoundType is the variance of a type argument.
type BoundType int

const (
	// BoundNone is an exact type argument.
	BoundNone BoundType = iota
	// BoundUpper is "? extends X", encoded '+'.
	BoundUpper
	// BoundLower is "? super X", encoded '-'.
	BoundLower
	// BoundAny is the unbounded wildcard "?", encoded '*'. Its Signature is nil.
	BoundAny
)

type GenericArg struct {
	Bound     BoundType
	Signature GenericSignature
}

// GenericParam is a declared type parameter. ClassBound is nil when the
// parameter only has interface bounds ("T::Ljava/lang/Comparable;").
type GenericParam struct {
	Name            string
	ClassBound      GenericSignature
	InterfaceBounds []GenericSignature
}

// Bounds returns the class bound, if any, followed by the interface bounds.
func (p GenericParam) Bounds() []GenericSignature {
	var out []GenericSignature
	if p.ClassBound != nil {
		out = append(out, p.ClassBound)
	}
	return append(out, p.InterfaceBounds...)
}

// GenericClass is the signature of a class declaration: its type
// parameters, then its superclass followed by its interfaces.
type GenericClass struct {
	Params []GenericParam
	Supers []GenericClassName
}

// GenericMethod is the signature of a method declaration.
type GenericMethod struct {
	TypeParams []GenericParam
	Params     []GenericSignature
	Return     GenericSignature
	Throws     []GenericSignature
}

func (GenericClassName) genericSignature() {}
func (GenericArray) genericSignature()     {}
func (GenericVar) genericSignature()       {}

func (g GenericClassName) String() string {
	var sb strings.Builder
	g.encode(&sb)
	return sb.String()
}

func (g GenericClassName) encode(sb *strings.Builder) {
	if g.ClassName.IsPrimitive() {
		sb.WriteString(g.ClassName.InternalString())
		return
	}
	sb.WriteByte('L')
	sb.WriteString(g.ClassName.InternalName())
	encodeArgs(sb, g.Args)
	for _, inner := range g.Inner {
		sb.WriteByte('.')
		sb.WriteString(inner.Name)
		encodeArgs(sb, inner.Args)
	}
	sb.WriteByte(';')
}

func (g GenericArray) String() string {
	return "[" + g.Elem.String()
}

func (g GenericVar) String() string {
	return "T" + g.Name + ";"
}

func (a GenericArg) String() string {
	switch a.Bound {
	case BoundAny:
		return "*"
	case BoundUpper:
		return "+" + a.Signature.String()
	case BoundLower:
		return "-" + a.Signature.String()
	default:
		return a.Signature.String()
	}
}

func (p GenericParam) String() string {
	var sb strings.Builder
	p.encode(&sb)
	return sb.String()
}

func (p GenericParam) encode(sb *strings.Builder) {
	sb.WriteString(p.Name)
	sb.WriteByte(':')
	if p.ClassBound != nil {
		sb.WriteString(p.ClassBound.String())
	}
	for _, b := range p.InterfaceBounds {
		sb.WriteByte(':')
		sb.WriteString(b.String())
	}
}

func (c GenericClass) String() string {
	var sb strings.Builder
	encodeParams(&sb, c.Params)
	for _, s := range c.Supers {
		s.encode(&sb)
	}
	return sb.String()
}

func (m GenericMethod) String() string {
	var sb strings.Builder
	encodeParams(&sb, m.TypeParams)
	sb.WriteByte('(')
	for _, p := range m.Params {
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	sb.WriteString(m.Return.String())
	for _, t := range m.Throws {
		sb.WriteByte('^')
		sb.WriteString(t.String())
	}
	return sb.String()
}

func encodeArgs(sb *strings.Builder, args []GenericArg) {
	if len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	for _, a := range args {
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
}

func encodeParams(sb *strings.Builder, params []GenericParam) {
	if len(params) == 0 {
		return
	}
	sb.WriteByte('<')
	for _, p := range params {
		p.encode(sb)
	}
	sb.WriteByte('>')
}
