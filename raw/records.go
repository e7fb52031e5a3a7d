// Package raw holds the per-class symbol records handed to an indexer.
//
// A Classfile is built once per scanned class file. It carries the class's
// identity, its members and, for every symbol, the set of other names that
// symbol's body mentions. Records are not mutated after FromClassFile
// returns.
package raw

import (
	"github.com/dhamidi/jvmsym/signature"
	"github.com/dhamidi/jvmsym/symbol"
)

type Classfile struct {
	Name       symbol.ClassName
	Access     symbol.Access
	Generics   *signature.GenericClass
	Super      *symbol.ClassName
	Interfaces []symbol.ClassName
	Deprecated bool
	IsScala    bool
	Source     Source
	Fields     []Field
	Methods    []Method
	// InternalRefs covers the class header: super, interfaces and the
	// classes named by the class signature.
	InternalRefs *symbol.RefSet
}

func (c *Classfile) FQN() string { return c.Name.FqnString() }

type Field struct {
	Name       symbol.FieldName
	Type       symbol.DescriptorType
	Access     symbol.Access
	Deprecated bool
	Generics   signature.GenericSignature
	// InternalRefs are the classes named by the field type and signature.
	InternalRefs *symbol.RefSet
}

func (f *Field) FQN() string { return f.Name.FqnString() }

type Method struct {
	Name       symbol.MethodName
	Access     symbol.Access
	Deprecated bool
	Generics   *signature.GenericMethod
	Exceptions []symbol.ClassName
	// Line is the first source line of the method body, nil without a
	// LineNumberTable.
	Line *int
	// InternalRefs holds the classes, fields and methods referenced from the
	// descriptor, signature, throws clause and bytecode. The method itself is
	// never included.
	InternalRefs *symbol.RefSet
}

func (m *Method) FQN() string { return m.Name.FqnString() }

// Source locates a class in its source file.
type Source struct {
	Class    symbol.ClassName
	Filename *string
	Line     *int
}

func (s *Source) FQN() string { return s.Class.FqnString() }
