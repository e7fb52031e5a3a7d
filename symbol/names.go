// Package symbol models the identity of JVM packages, classes, fields and
// methods together with the binary descriptor grammar used in class files.
//
// All values are immutable and safe for concurrent use.
package symbol

import (
	"strings"
)

// FullyQualifiedName is implemented by PackageName, ClassName, FieldName and
// MethodName. The set of implementations is closed.
type FullyQualifiedName interface {
	// Contains reports whether other is the receiver itself or is
	// structurally enclosed by it.
	Contains(other FullyQualifiedName) bool
	// FqnString is the dotted source-level rendering of the name.
	FqnString() string

	fullyQualifiedName()
}

// PackageName is an ordered list of package segments. The zero value is
// the root (unnamed) package.
type PackageName struct {
	// segments joined by '/', the form used inside class files
	path string
}

// RootPackage is the unnamed package.
var RootPackage = PackageName{}

func NewPackageName(segments ...string) PackageName {
	return PackageName{path: strings.Join(segments, "/")}
}

func (p PackageName) fullyQualifiedName() {}

func (p PackageName) IsRoot() bool {
	return p.path == ""
}

// Path returns a fresh copy of the package segments.
func (p PackageName) Path() []string {
	if p.path == "" {
		return nil
	}
	return strings.Split(p.path, "/")
}

// InternalName is the slash-separated form, e.g. "java/lang".
func (p PackageName) InternalName() string {
	return p.path
}

func (p PackageName) FqnString() string {
	return strings.ReplaceAll(p.path, "/", ".")
}

func (p PackageName) String() string {
	return p.FqnString()
}

// Parent returns the enclosing package. The root package is its own parent.
func (p PackageName) Parent() PackageName {
	i := strings.LastIndexByte(p.path, '/')
	if i < 0 {
		return RootPackage
	}
	return PackageName{path: p.path[:i]}
}

func (p PackageName) Child(segment string) PackageName {
	if p.path == "" {
		return PackageName{path: segment}
	}
	return PackageName{path: p.path + "/" + segment}
}

func (p PackageName) Contains(other FullyQualifiedName) bool {
	return Contains(p, other)
}

// containsPackage matches whole segments only, so "a/b" contains "a/b/c"
// but "a/b" does not contain "a/bc".
func (p PackageName) containsPackage(other PackageName) bool {
	if p.path == "" || p.path == other.path {
		return true
	}
	return strings.HasPrefix(other.path, p.path+"/")
}

// ClassName identifies a class, interface or primitive type. A ClassName is
// also a DescriptorType.
type ClassName struct {
	pkg  PackageName
	name string
}

func NewClassName(pkg PackageName, simpleName string) ClassName {
	return ClassName{pkg: pkg, name: simpleName}
}

func (c ClassName) fullyQualifiedName() {}
func (c ClassName) descriptorType()     {}

func (c ClassName) Package() PackageName {
	return c.pkg
}

func (c ClassName) SimpleName() string {
	return c.name
}

// IsPrimitive reports whether c is one of the nine primitive types,
// including void.
func (c ClassName) IsPrimitive() bool {
	if !c.pkg.IsRoot() {
		return false
	}
	_, ok := primitiveLetters[c.name]
	return ok
}

// InternalName is the slash-separated class-file form, e.g.
// "java/lang/String".
func (c ClassName) InternalName() string {
	if c.pkg.IsRoot() {
		return c.name
	}
	return c.pkg.path + "/" + c.name
}

func (c ClassName) FqnString() string {
	if c.pkg.IsRoot() {
		return c.name
	}
	return c.pkg.FqnString() + "." + c.name
}

func (c ClassName) String() string {
	return c.FqnString()
}

// InternalString is the field descriptor for c: a single letter for
// primitives, "L<internal name>;" otherwise.
func (c ClassName) InternalString() string {
	if letter, ok := primitiveLetters[c.name]; ok && c.pkg.IsRoot() {
		return string(letter)
	}
	return "L" + c.InternalName() + ";"
}

func (c ClassName) Reifier() ClassName {
	return c
}

// Outer returns the class enclosing a nested class named with the '$'
// convention. ok is false for top-level classes.
func (c ClassName) Outer() (outer ClassName, ok bool) {
	i := strings.LastIndexByte(c.name, '$')
	if i <= 0 {
		return ClassName{}, false
	}
	return ClassName{pkg: c.pkg, name: c.name[:i]}, true
}

func (c ClassName) Contains(other FullyQualifiedName) bool {
	return Contains(c, other)
}

func (c ClassName) containsClass(other ClassName) bool {
	if c.pkg != other.pkg {
		return false
	}
	return other.name == c.name || strings.HasPrefix(other.name, c.name+"$")
}

// FieldName identifies a field by owner and name.
type FieldName struct {
	owner ClassName
	name  string
}

func NewFieldName(owner ClassName, name string) FieldName {
	return FieldName{owner: owner, name: name}
}

func (f FieldName) fullyQualifiedName() {}

func (f FieldName) Owner() ClassName { return f.owner }
func (f FieldName) Name() string     { return f.name }

func (f FieldName) FqnString() string {
	return f.owner.FqnString() + "." + f.name
}

func (f FieldName) String() string {
	return f.FqnString()
}

func (f FieldName) Contains(other FullyQualifiedName) bool {
	return Contains(f, other)
}

// MethodName identifies a method by owner, name and descriptor, so that
// overloads are distinct.
type MethodName struct {
	owner      ClassName
	name       string
	descriptor Descriptor
}

func NewMethodName(owner ClassName, name string, descriptor Descriptor) MethodName {
	return MethodName{owner: owner, name: name, descriptor: descriptor}
}

func (m MethodName) fullyQualifiedName() {}

func (m MethodName) Owner() ClassName       { return m.owner }
func (m MethodName) Name() string           { return m.name }
func (m MethodName) Descriptor() Descriptor { return m.descriptor }

func (m MethodName) FqnString() string {
	return m.owner.FqnString() + "." + m.name + m.descriptor.DescriptorString()
}

func (m MethodName) String() string {
	return m.FqnString()
}

func (m MethodName) Equal(other MethodName) bool {
	return m == other
}

func (m MethodName) Contains(other FullyQualifiedName) bool {
	return Contains(m, other)
}
