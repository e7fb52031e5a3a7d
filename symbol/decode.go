package symbol

import (
	"strings"
)

// ParseDescriptorType decodes a single field descriptor. The result
// re-encodes to exactly desc.
func ParseDescriptorType(desc string) (DescriptorType, error) {
	d := decoder{input: desc}
	t, err := d.fieldType()
	if err != nil {
		return nil, err
	}
	if d.pos != len(desc) {
		return nil, d.errorf("trailing characters after type")
	}
	return t, nil
}

// MustParseDescriptorType is ParseDescriptorType for descriptors known to
// be valid; it panics otherwise.
func MustParseDescriptorType(desc string) DescriptorType {
	t, err := ParseDescriptorType(desc)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseMethodDescriptor decodes a method descriptor such as
// "(ILjava/lang/String;)V".
func ParseMethodDescriptor(desc string) (Descriptor, error) {
	d := decoder{input: desc}
	if d.pos >= len(desc) {
		return Descriptor{}, d.errorf("empty method descriptor")
	}
	if desc[0] != '(' {
		return Descriptor{}, d.errorf("method descriptor must start with '('")
	}
	d.pos++

	var params []DescriptorType
	for {
		if d.pos >= len(desc) {
			return Descriptor{}, d.errorf("missing ')'")
		}
		if desc[d.pos] == ')' {
			d.pos++
			break
		}
		p, err := d.fieldType()
		if err != nil {
			return Descriptor{}, err
		}
		params = append(params, p)
	}

	ret, err := d.fieldType()
	if err != nil {
		return Descriptor{}, err
	}
	if d.pos != len(desc) {
		return Descriptor{}, d.errorf("trailing characters after return type")
	}
	return NewDescriptor(params, ret), nil
}

func MustParseMethodDescriptor(desc string) Descriptor {
	md, err := ParseMethodDescriptor(desc)
	if err != nil {
		panic(err)
	}
	return md
}

// ClassNameFromDescriptor decodes a single field descriptor and reifies
// arrays down to their element class. Method descriptors are rejected.
func ClassNameFromDescriptor(desc string) (ClassName, error) {
	t, err := ParseDescriptorType(desc)
	if err != nil {
		return ClassName{}, err
	}
	return t.Reifier(), nil
}

// ClassNameFromInternal converts a slash-separated internal name such as
// "java/util/Map$Entry".
func ClassNameFromInternal(name string) ClassName {
	return defaultInterner.ClassName(name)
}

// ClassNameFromFqn converts a dotted source-level name. A name without dots
// lands in the root package.
func ClassNameFromFqn(name string) ClassName {
	return splitClassName(name, ".")
}

// SplitClassName is ClassNameFromFqn with a caller-chosen separator. An
// empty sep puts the whole name in the root package.
func SplitClassName(name, sep string) ClassName {
	if sep == "/" {
		return ClassNameFromInternal(name)
	}
	return splitClassName(name, sep)
}

type decoder struct {
	input string
	pos   int
}

func (d *decoder) errorf(reason string) error {
	return &DescriptorError{Input: d.input, Offset: d.pos, Reason: reason}
}

func (d *decoder) fieldType() (DescriptorType, error) {
	dims := 0
	for d.pos < len(d.input) && d.input[d.pos] == '[' {
		dims++
		d.pos++
	}
	if d.pos >= len(d.input) {
		if dims > 0 {
			return nil, d.errorf("array without element type")
		}
		return nil, d.errorf("unexpected end of descriptor")
	}

	c := d.input[d.pos]
	if prim, ok := PrimitiveByLetter(c); ok {
		d.pos++
		return ArrayOf(prim, dims), nil
	}
	if c != 'L' {
		return nil, d.errorf("unrecognized type character " + quoteByte(c))
	}

	semicolon := strings.IndexByte(d.input[d.pos:], ';')
	if semicolon == -1 {
		return nil, d.errorf("unterminated class type")
	}
	internal := d.input[d.pos+1 : d.pos+semicolon]
	if err := d.checkInternalName(internal); err != nil {
		return nil, err
	}
	d.pos += semicolon + 1
	return ArrayOf(ClassNameFromInternal(internal), dims), nil
}

// checkInternalName rejects names that would not survive a round trip:
// empty segments and characters reserved by the descriptor grammar.
func (d *decoder) checkInternalName(internal string) error {
	if internal == "" {
		return d.errorf("empty class name")
	}
	if _, ok := primitiveLetters[internal]; ok {
		return d.errorf("primitive name used as class type " + internal)
	}
	for _, seg := range strings.Split(internal, "/") {
		if seg == "" {
			return d.errorf("empty segment in class name " + internal)
		}
		if strings.ContainsAny(seg, ".[") {
			return d.errorf("illegal character in class name " + internal)
		}
	}
	return nil
}

func quoteByte(c byte) string {
	return "'" + string(rune(c)) + "'"
}
