// Package classfile reads the parts of a JVM class file that carry symbol
// identity: the constant pool, class header, members and the attributes
// holding signatures, source positions and bytecode.
package classfile

type AccessFlags uint16

const (
	AccPublic     AccessFlags = 0x0001
	AccPrivate    AccessFlags = 0x0002
	AccProtected  AccessFlags = 0x0004
	AccStatic     AccessFlags = 0x0008
	AccFinal      AccessFlags = 0x0010
	AccBridge     AccessFlags = 0x0040
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000
	AccModule     AccessFlags = 0x8000
)

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }
func (f AccessFlags) IsSynthetic() bool         { return f.Has(AccSynthetic) }
func (f AccessFlags) IsBridge() bool            { return f.Has(AccBridge) }
func (f AccessFlags) IsModule() bool            { return f.Has(AccModule) }

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
}

// ClassName is the internal name of this class, e.g. "java/lang/String".
func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

// SuperClassName is "" for java/lang/Object and module-info.
func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

// SourceFile is the value of the SourceFile attribute, if present.
func (cf *ClassFile) SourceFile() (string, bool) {
	a := findAttribute(cf.Attributes, "SourceFile")
	if a == nil || len(a.Info) < 2 {
		return "", false
	}
	return cf.ConstantPool.Utf8(a.u2(0)), true
}

func (cf *ClassFile) Signature() (string, bool) {
	return signatureOf(cf.Attributes, cf.ConstantPool)
}

func (cf *ClassFile) IsDeprecated() bool {
	return findAttribute(cf.Attributes, "Deprecated") != nil
}

// IsScala reports whether scalac left its pickled signature in the class.
func (cf *ClassFile) IsScala() bool {
	return findAttribute(cf.Attributes, "ScalaSig") != nil || findAttribute(cf.Attributes, "Scala") != nil
}

// Member is a field_info or method_info structure; both share a layout.
type Member struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

func (m *Member) Name(cp ConstantPool) string {
	return cp.Utf8(m.NameIndex)
}

func (m *Member) Descriptor(cp ConstantPool) string {
	return cp.Utf8(m.DescriptorIndex)
}

func (m *Member) Signature(cp ConstantPool) (string, bool) {
	return signatureOf(m.Attributes, cp)
}

func (m *Member) IsDeprecated() bool {
	return findAttribute(m.Attributes, "Deprecated") != nil
}

// Exceptions lists the internal names from a method's Exceptions attribute.
func (m *Member) Exceptions(cp ConstantPool) []string {
	a := findAttribute(m.Attributes, "Exceptions")
	if a == nil || len(a.Info) < 2 {
		return nil
	}
	n := int(a.u2(0))
	if len(a.Info) < 2+2*n {
		return nil
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, cp.ClassName(a.u2(2+2*i)))
	}
	return names
}

// Code parses the method's Code attribute. It returns nil, nil for
// abstract and native methods.
func (m *Member) Code(cp ConstantPool) (*Code, error) {
	a := findAttribute(m.Attributes, "Code")
	if a == nil {
		return nil, nil
	}
	return parseCode(a.Info, cp)
}
