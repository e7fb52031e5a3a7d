package classfile

import "fmt"

type ConstantTag uint8

const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

// Constant is one constant pool entry. Only the fields meaningful for Tag
// are set: Utf8 carries Text, Class carries Index1 (name), NameAndType
// carries Index1 (name) and Index2 (descriptor), member refs carry Index1
// (class) and Index2 (name and type). Entries the symbol model never reads
// keep only their tag.
type Constant struct {
	Tag    ConstantTag
	Text   string
	Index1 uint16
	Index2 uint16
}

// ConstantPool is indexed from 1 as in the class file; index 0 and the
// slot following a long or double hold a zero Constant.
type ConstantPool []Constant

func (cp ConstantPool) entry(index uint16, tag ConstantTag) (Constant, bool) {
	if index == 0 || int(index) >= len(cp) {
		return Constant{}, false
	}
	c := cp[index]
	return c, c.Tag == tag
}

func (cp ConstantPool) Utf8(index uint16) string {
	c, _ := cp.entry(index, TagUtf8)
	return c.Text
}

// ClassName returns the internal name of a CONSTANT_Class entry, or "".
func (cp ConstantPool) ClassName(index uint16) string {
	c, ok := cp.entry(index, TagClass)
	if !ok {
		return ""
	}
	return cp.Utf8(c.Index1)
}

func (cp ConstantPool) NameAndType(index uint16) (name, descriptor string) {
	c, ok := cp.entry(index, TagNameAndType)
	if !ok {
		return "", ""
	}
	return cp.Utf8(c.Index1), cp.Utf8(c.Index2)
}

// MemberRef resolves a Fieldref, Methodref or InterfaceMethodref entry.
type MemberRef struct {
	Tag        ConstantTag
	Class      string
	Name       string
	Descriptor string
}

func (cp ConstantPool) MemberRef(index uint16) (MemberRef, bool) {
	if index == 0 || int(index) >= len(cp) {
		return MemberRef{}, false
	}
	c := cp[index]
	switch c.Tag {
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
	default:
		return MemberRef{}, false
	}
	name, desc := cp.NameAndType(c.Index2)
	return MemberRef{Tag: c.Tag, Class: cp.ClassName(c.Index1), Name: name, Descriptor: desc}, true
}

func (cp ConstantPool) Tag(index uint16) ConstantTag {
	if int(index) >= len(cp) {
		return 0
	}
	return cp[index].Tag
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.u2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	cp := make(ConstantPool, count)
	for i := 1; i < int(count); i++ {
		c, wide, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, err)
		}
		cp[i] = c
		if wide {
			i++
		}
	}
	return cp, nil
}

// readConstant reports wide for long and double, which occupy two slots.
func readConstant(r *reader) (c Constant, wide bool, err error) {
	c.Tag = ConstantTag(r.u1())
	switch c.Tag {
	case TagUtf8:
		c.Text = decodeModifiedUtf8(r.bytes(int(r.u2())))
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		c.Index1 = r.u2()
	case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
		c.Index1 = r.u2()
		c.Index2 = r.u2()
	case TagInteger, TagFloat:
		r.skip(4)
	case TagLong, TagDouble:
		r.skip(8)
		wide = true
	case TagMethodHandle:
		c.Index1 = uint16(r.u1())
		c.Index2 = r.u2()
	default:
		if r.err == nil {
			return c, false, fmt.Errorf("unknown constant pool tag: %d", c.Tag)
		}
	}
	return c, wide, r.err
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8: NUL is two bytes and
// supplementary characters are encoded as surrogate pairs of three bytes
// each.
func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3]&0xF0 == 0xE0 {
				low := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+(r-0xD800)<<10+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
