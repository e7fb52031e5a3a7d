package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const Magic = 0xCAFEBABE

// reader keeps the first error and turns every later read into a no-op,
// so callers check err once per logical step.
type reader struct {
	r   io.Reader
	err error
}

// largeRead is the length above which read stops trusting a size taken from
// the input and grows its buffer only as bytes arrive.
const largeRead = 64 << 10

func (r *reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.err = fmt.Errorf("negative length %d", n)
		return nil
	}
	if n > largeRead {
		return r.readLarge(n)
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	if r.err != nil {
		return nil
	}
	return buf
}

func (r *reader) readLarge(n int) []byte {
	if l, ok := r.r.(interface{ Len() int }); ok && n > l.Len() {
		r.err = fmt.Errorf("length %d exceeds the %d bytes left: %w", n, l.Len(), io.ErrUnexpectedEOF)
		return nil
	}
	buf, err := io.ReadAll(io.LimitReader(r.r, int64(n)))
	if err == nil && len(buf) < n {
		err = fmt.Errorf("length %d exceeds the %d bytes left: %w", n, len(buf), io.ErrUnexpectedEOF)
	}
	if err != nil {
		r.err = err
		return nil
	}
	return buf
}

func (r *reader) u1() uint8 {
	if b := r.read(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u2() uint16 {
	if b := r.read(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u4() uint32 {
	if b := r.read(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *reader) bytes(n int) []byte {
	return r.read(n)
}

func (r *reader) skip(n int) {
	r.read(n)
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.u4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.u2(),
		MajorVersion: r.u2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("read version: %w", r.err)
	}

	var err error
	if cf.ConstantPool, err = readConstantPool(r); err != nil {
		return nil, err
	}

	cf.AccessFlags = AccessFlags(r.u2())
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()
	cf.Interfaces = make([]uint16, r.u2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.u2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class info: %w", r.err)
	}

	if cf.Fields, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("read methods: %w", err)
	}
	if cf.Attributes, err = readAttributes(r, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("read class attributes: %w", err)
	}
	return cf, nil
}

func readMembers(r *reader, cp ConstantPool) ([]Member, error) {
	count := r.u2()
	if r.err != nil {
		return nil, r.err
	}
	members := make([]Member, count)
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.u2())
		m.NameIndex = r.u2()
		m.DescriptorIndex = r.u2()
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		m.Attributes = attrs
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) ([]Attribute, error) {
	count := r.u2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]Attribute, count)
	for i := range attrs {
		name := cp.Utf8(r.u2())
		info := r.bytes(int(r.u4()))
		if r.err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, r.err)
		}
		attrs[i] = Attribute{Name: name, Info: info}
	}
	return attrs, nil
}
