// Package classfiletest assembles class files in memory for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Member describes a field or method to emit.
type Member struct {
	Access     uint16
	Name       string
	Descriptor string
	Signature  string
	Deprecated bool
	Exceptions []string
	Code       *Code
}

type Code struct {
	MaxStack  uint16
	MaxLocals uint16
	Bytecode  []byte
	// CatchTypes adds one exception handler per entry covering the whole
	// bytecode; "" emits a finally handler.
	CatchTypes []string
	Lines      []Line
}

type Line struct {
	PC   uint16
	Line uint16
}

// Builder accumulates a constant pool and class structure. Pool entries
// are deduplicated; indexes returned by the pool methods can be embedded in
// bytecode passed to Method.
type Builder struct {
	pool      bytes.Buffer
	next      uint16
	entries   map[string]uint16
	access    uint16
	this      uint16
	super     uint16
	ifaces    []uint16
	fields    [][]byte
	methods   [][]byte
	attrs     [][]byte
	major     uint16
	magicSkew bool
}

// New starts a public class named by internal name; super may be "".
func New(name, super string) *Builder {
	b := &Builder{next: 1, entries: make(map[string]uint16), access: 0x0021, major: 61}
	b.this = b.Class(name)
	if super != "" {
		b.super = b.Class(super)
	}
	return b
}

func (b *Builder) Access(flags uint16) *Builder {
	b.access = flags
	return b
}

// BadMagic makes Bytes emit an invalid magic number.
func (b *Builder) BadMagic() *Builder {
	b.magicSkew = true
	return b
}

func (b *Builder) Interfaces(names ...string) *Builder {
	for _, n := range names {
		b.ifaces = append(b.ifaces, b.Class(n))
	}
	return b
}

func (b *Builder) SourceFile(name string) *Builder {
	return b.Attribute("SourceFile", u2(b.Utf8(name)))
}

func (b *Builder) Signature(sig string) *Builder {
	return b.Attribute("Signature", u2(b.Utf8(sig)))
}

func (b *Builder) Deprecated() *Builder {
	return b.Attribute("Deprecated", nil)
}

// Attribute adds a raw class-level attribute.
func (b *Builder) Attribute(name string, info []byte) *Builder {
	b.attrs = append(b.attrs, b.attribute(name, info))
	return b
}

func (b *Builder) Field(m Member) *Builder {
	b.fields = append(b.fields, b.member(m))
	return b
}

func (b *Builder) Method(m Member) *Builder {
	b.methods = append(b.methods, b.member(m))
	return b
}

func (b *Builder) Utf8(s string) uint16 {
	return b.constant("utf8:"+s, 1, func(buf *bytes.Buffer) {
		buf.Write(u2(uint16(len(s))))
		buf.WriteString(s)
	})
}

func (b *Builder) Class(name string) uint16 {
	idx := b.Utf8(name)
	return b.constant("class:"+name, 7, func(buf *bytes.Buffer) { buf.Write(u2(idx)) })
}

func (b *Builder) String(s string) uint16 {
	idx := b.Utf8(s)
	return b.constant("string:"+s, 8, func(buf *bytes.Buffer) { buf.Write(u2(idx)) })
}

func (b *Builder) Integer(v int32) uint16 {
	return b.constant("int:"+string(u4(uint32(v))), 3, func(buf *bytes.Buffer) { buf.Write(u4(uint32(v))) })
}

// Long occupies two pool slots.
func (b *Builder) Long(v int64) uint16 {
	idx := b.constant("long:"+string(u8(uint64(v))), 5, func(buf *bytes.Buffer) { buf.Write(u8(uint64(v))) })
	if b.next == idx+1 {
		b.next++
	}
	return idx
}

func (b *Builder) Double(v float64) uint16 {
	bits := math.Float64bits(v)
	idx := b.constant("double:"+string(u8(bits)), 6, func(buf *bytes.Buffer) { buf.Write(u8(bits)) })
	if b.next == idx+1 {
		b.next++
	}
	return idx
}

func (b *Builder) NameAndType(name, desc string) uint16 {
	n, d := b.Utf8(name), b.Utf8(desc)
	return b.constant("nat:"+name+":"+desc, 12, func(buf *bytes.Buffer) {
		buf.Write(u2(n))
		buf.Write(u2(d))
	})
}

func (b *Builder) FieldRef(owner, name, desc string) uint16 {
	return b.memberRef(9, owner, name, desc)
}

func (b *Builder) MethodRef(owner, name, desc string) uint16 {
	return b.memberRef(10, owner, name, desc)
}

func (b *Builder) InterfaceMethodRef(owner, name, desc string) uint16 {
	return b.memberRef(11, owner, name, desc)
}

func (b *Builder) memberRef(tag byte, owner, name, desc string) uint16 {
	c, nat := b.Class(owner), b.NameAndType(name, desc)
	key := string([]byte{tag}) + ":" + owner + "." + name + desc
	return b.constant(key, tag, func(buf *bytes.Buffer) {
		buf.Write(u2(c))
		buf.Write(u2(nat))
	})
}

func (b *Builder) constant(key string, tag byte, body func(*bytes.Buffer)) uint16 {
	if idx, ok := b.entries[key]; ok {
		return idx
	}
	idx := b.next
	b.next++
	b.entries[key] = idx
	b.pool.WriteByte(tag)
	body(&b.pool)
	return idx
}

func (b *Builder) attribute(name string, info []byte) []byte {
	var buf bytes.Buffer
	buf.Write(u2(b.Utf8(name)))
	buf.Write(u4(uint32(len(info))))
	buf.Write(info)
	return buf.Bytes()
}

func (b *Builder) member(m Member) []byte {
	var attrs [][]byte
	if m.Signature != "" {
		attrs = append(attrs, b.attribute("Signature", u2(b.Utf8(m.Signature))))
	}
	if m.Deprecated {
		attrs = append(attrs, b.attribute("Deprecated", nil))
	}
	if len(m.Exceptions) > 0 {
		info := u2(uint16(len(m.Exceptions)))
		for _, e := range m.Exceptions {
			info = append(info, u2(b.Class(e))...)
		}
		attrs = append(attrs, b.attribute("Exceptions", info))
	}
	if m.Code != nil {
		attrs = append(attrs, b.attribute("Code", b.code(m.Code)))
	}

	var buf bytes.Buffer
	buf.Write(u2(m.Access))
	buf.Write(u2(b.Utf8(m.Name)))
	buf.Write(u2(b.Utf8(m.Descriptor)))
	writeAttributes(&buf, attrs)
	return buf.Bytes()
}

func (b *Builder) code(c *Code) []byte {
	var buf bytes.Buffer
	buf.Write(u2(c.MaxStack))
	buf.Write(u2(c.MaxLocals))
	buf.Write(u4(uint32(len(c.Bytecode))))
	buf.Write(c.Bytecode)

	buf.Write(u2(uint16(len(c.CatchTypes))))
	for _, ct := range c.CatchTypes {
		buf.Write(u2(0))
		buf.Write(u2(uint16(len(c.Bytecode))))
		buf.Write(u2(0))
		if ct == "" {
			buf.Write(u2(0))
		} else {
			buf.Write(u2(b.Class(ct)))
		}
	}

	var attrs [][]byte
	if len(c.Lines) > 0 {
		info := u2(uint16(len(c.Lines)))
		for _, l := range c.Lines {
			info = append(info, u2(l.PC)...)
			info = append(info, u2(l.Line)...)
		}
		attrs = append(attrs, b.attribute("LineNumberTable", info))
	}
	writeAttributes(&buf, attrs)
	return buf.Bytes()
}

// Bytes serialises the class file.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	if b.magicSkew {
		buf.Write(u4(0xCAFEBABF))
	} else {
		buf.Write(u4(0xCAFEBABE))
	}
	buf.Write(u2(0))
	buf.Write(u2(b.major))
	buf.Write(u2(b.next))
	buf.Write(b.pool.Bytes())
	buf.Write(u2(b.access))
	buf.Write(u2(b.this))
	buf.Write(u2(b.super))
	buf.Write(u2(uint16(len(b.ifaces))))
	for _, i := range b.ifaces {
		buf.Write(u2(i))
	}
	writeList(&buf, b.fields)
	writeList(&buf, b.methods)
	writeAttributes(&buf, b.attrs)
	return buf.Bytes()
}

func writeList(buf *bytes.Buffer, items [][]byte) {
	buf.Write(u2(uint16(len(items))))
	for _, it := range items {
		buf.Write(it)
	}
}

func writeAttributes(buf *bytes.Buffer, attrs [][]byte) {
	writeList(buf, attrs)
}

// Ins encodes an opcode followed by a two-byte constant pool index.
func Ins(op byte, index uint16) []byte {
	return append([]byte{op}, u2(index)...)
}

func u2(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func u4(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func u8(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}
