package raw

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/jvmsym/classfile"
	"github.com/dhamidi/jvmsym/signature"
	"github.com/dhamidi/jvmsym/symbol"
	"github.com/tliron/commonlog"
)

// log resolves the logger on each call so that a backend registered after
// package initialisation is still picked up.
func log() commonlog.Logger {
	return commonlog.GetLogger("jvmsym.raw")
}

// ErrModuleInfo is returned for module-info classes, which declare no type.
var ErrModuleInfo = errors.New("module-info has no class symbol")

type Options struct {
	// SkipSynthetic drops synthetic and bridge members.
	SkipSynthetic bool
}

func FromFile(path string, opts Options) (*Classfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReader(f, opts)
}

func FromReader(r io.Reader, opts Options) (*Classfile, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromClassFile(cf, opts)
}

// FromClassFile builds the records for one parsed class. A malformed class
// name fails the whole class; members with malformed descriptors are
// skipped and logged, and unparsable signatures are dropped from the member
// that carries them.
func FromClassFile(cf *classfile.ClassFile, opts Options) (*Classfile, error) {
	if cf.AccessFlags.IsModule() {
		return nil, ErrModuleInfo
	}
	internal := cf.ClassName()
	if err := checkInternalName(internal); err != nil {
		return nil, fmt.Errorf("class name %q: %w", internal, err)
	}
	cls := &Classfile{
		Name:         symbol.ClassNameFromInternal(internal),
		Access:       symbol.AccessFromFlags(uint32(cf.AccessFlags)),
		Deprecated:   cf.IsDeprecated(),
		IsScala:      cf.IsScala(),
		InternalRefs: symbol.NewRefSet(),
	}

	if super := cf.SuperClassName(); super != "" {
		cn := symbol.ClassNameFromInternal(super)
		cls.Super = &cn
		cls.InternalRefs.AddClass(cn)
	}
	for _, iface := range cf.InterfaceNames() {
		cn := symbol.ClassNameFromInternal(iface)
		cls.Interfaces = append(cls.Interfaces, cn)
		cls.InternalRefs.AddClass(cn)
	}
	if sig, ok := cf.Signature(); ok {
		gc, err := signature.ParseClassSignature(sig)
		if err != nil {
			log().Warningf("%s: dropping class signature: %s", internal, err)
		} else {
			cls.Generics = &gc
			for _, cn := range gc.ClassRefs() {
				// Enum<Color> and Comparable<Self> name the class itself.
				if cn != cls.Name {
					cls.InternalRefs.AddClass(cn)
				}
			}
		}
	}

	cp := cf.ConstantPool
	for i := range cf.Fields {
		m := &cf.Fields[i]
		if opts.SkipSynthetic && m.AccessFlags.IsSynthetic() {
			continue
		}
		field, err := fieldFromMember(cls.Name, m, cp)
		if err != nil {
			log().Warningf("%s: skipping field %s: %s", internal, m.Name(cp), err)
			continue
		}
		cls.Fields = append(cls.Fields, field)
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if opts.SkipSynthetic && (m.AccessFlags.IsSynthetic() || m.AccessFlags.IsBridge()) {
			continue
		}
		method, err := methodFromMember(cls.Name, m, cp)
		if err != nil {
			log().Warningf("%s: skipping method %s: %s", internal, m.Name(cp), err)
			continue
		}
		cls.Methods = append(cls.Methods, method)
	}

	cls.Source = Source{Class: cls.Name}
	if name, ok := cf.SourceFile(); ok {
		cls.Source.Filename = &name
	}
	for _, m := range cls.Methods {
		if m.Line != nil && (cls.Source.Line == nil || *m.Line < *cls.Source.Line) {
			line := *m.Line
			cls.Source.Line = &line
		}
	}
	return cls, nil
}

func fieldFromMember(owner symbol.ClassName, m *classfile.Member, cp classfile.ConstantPool) (Field, error) {
	typ, err := symbol.ParseDescriptorType(m.Descriptor(cp))
	if err != nil {
		return Field{}, err
	}
	field := Field{
		Name:         symbol.NewFieldName(owner, m.Name(cp)),
		Type:         typ,
		Access:       symbol.AccessFromFlags(uint32(m.AccessFlags)),
		Deprecated:   m.IsDeprecated(),
		InternalRefs: symbol.NewRefSet(),
	}
	field.InternalRefs.AddClass(typ.Reifier())

	if sig, ok := m.Signature(cp); ok {
		gs, err := signature.ParseFieldSignature(sig)
		if err != nil {
			log().Warningf("%s: dropping signature: %s", field.Name, err)
		} else {
			field.Generics = gs
			for _, cn := range signature.ClassRefs(gs) {
				field.InternalRefs.AddClass(cn)
			}
		}
	}
	return field, nil
}

func methodFromMember(owner symbol.ClassName, m *classfile.Member, cp classfile.ConstantPool) (Method, error) {
	desc, err := symbol.ParseMethodDescriptor(m.Descriptor(cp))
	if err != nil {
		return Method{}, err
	}
	method := Method{
		Name:         symbol.NewMethodName(owner, m.Name(cp), desc),
		Access:       symbol.AccessFromFlags(uint32(m.AccessFlags)),
		Deprecated:   m.IsDeprecated(),
		InternalRefs: symbol.NewRefSet(),
	}
	refs := method.InternalRefs
	refs.AddDescriptor(desc)

	for _, exc := range m.Exceptions(cp) {
		cn := symbol.ClassNameFromInternal(exc)
		method.Exceptions = append(method.Exceptions, cn)
		refs.AddClass(cn)
	}

	if sig, ok := m.Signature(cp); ok {
		gm, err := signature.ParseMethodSignature(sig)
		if err != nil {
			log().Warningf("%s: dropping signature: %s", method.Name, err)
		} else {
			method.Generics = &gm
			for _, cn := range gm.ClassRefs() {
				refs.AddClass(cn)
			}
		}
	}

	code, err := m.Code(cp)
	if err != nil {
		return Method{}, fmt.Errorf("code attribute: %w", err)
	}
	if code == nil {
		return method, nil
	}
	if line, ok := code.FirstLine(); ok {
		method.Line = &line
	}
	for _, h := range code.Handlers {
		if h.CatchType != "" {
			refs.AddClass(symbol.ClassNameFromInternal(h.CatchType))
		}
	}
	err = code.Walk(func(r classfile.Ref) {
		addBytecodeRef(refs, method.Name, r)
	})
	if err != nil {
		return Method{}, fmt.Errorf("bytecode: %w", err)
	}
	return method, nil
}

func addBytecodeRef(refs *symbol.RefSet, self symbol.MethodName, r classfile.Ref) {
	owner, ok := classOfRef(r.Class)
	if !ok {
		log().Debugf("%s: unresolvable class reference %q at pc %d", self, r.Class, r.PC)
		return
	}
	refs.AddClass(owner)
	if strings.HasPrefix(r.Class, "[") {
		return
	}

	switch r.Kind {
	case classfile.RefField:
		refs.Add(symbol.NewFieldName(owner, r.Name))
	case classfile.RefMethod:
		desc, err := symbol.ParseMethodDescriptor(r.Descriptor)
		if err != nil {
			log().Debugf("%s: ignoring call to %s.%s: %s", self, r.Class, r.Name, err)
			return
		}
		callee := symbol.NewMethodName(owner, r.Name, desc)
		if callee.Equal(self) {
			return
		}
		refs.Add(callee)
	}
}

// classOfRef resolves a class constant, which names either a class or an
// array type. Array types reduce to their element class; members invoked on
// an array, such as clone, only reference that element class.
func classOfRef(name string) (symbol.ClassName, bool) {
	if name == "" {
		return symbol.ClassName{}, false
	}
	if strings.HasPrefix(name, "[") {
		cn, err := symbol.ClassNameFromDescriptor(name)
		return cn, err == nil
	}
	return symbol.ClassNameFromInternal(name), true
}

func checkInternalName(name string) error {
	if name == "" {
		return errors.New("empty class name")
	}
	_, err := symbol.ParseDescriptorType("L" + name + ";")
	return err
}
