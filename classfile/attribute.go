package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Attribute is a raw attribute; Name is resolved from the constant pool at
// read time.
type Attribute struct {
	Name string
	Info []byte
}

func (a *Attribute) u2(offset int) uint16 {
	return binary.BigEndian.Uint16(a.Info[offset : offset+2])
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

func signatureOf(attrs []Attribute, cp ConstantPool) (string, bool) {
	a := findAttribute(attrs, "Signature")
	if a == nil || len(a.Info) < 2 {
		return "", false
	}
	return cp.Utf8(a.u2(0)), true
}

type LineNumber struct {
	StartPC    uint16
	LineNumber uint16
}

type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	// CatchType is the internal name of the caught class, "" for finally.
	CatchType string
}

// Code is a parsed Code attribute.
type Code struct {
	MaxStack    uint16
	MaxLocals   uint16
	Bytecode    []byte
	Handlers    []ExceptionHandler
	LineNumbers []LineNumber

	cp ConstantPool
}

// FirstLine is the smallest source line recorded for the method.
func (c *Code) FirstLine() (int, bool) {
	if c == nil || len(c.LineNumbers) == 0 {
		return 0, false
	}
	first := c.LineNumbers[0].LineNumber
	for _, ln := range c.LineNumbers[1:] {
		if ln.LineNumber < first {
			first = ln.LineNumber
		}
	}
	return int(first), true
}

func parseCode(info []byte, cp ConstantPool) (*Code, error) {
	r := &reader{r: bytes.NewReader(info)}
	code := &Code{
		MaxStack:  r.u2(),
		MaxLocals: r.u2(),
		cp:        cp,
	}
	codeLen := r.u4()
	if r.err == nil && int64(codeLen) > int64(len(info)-8) {
		return nil, fmt.Errorf("read code attribute: code length %d exceeds attribute length %d", codeLen, len(info))
	}
	code.Bytecode = r.bytes(int(codeLen))

	handlers := r.u2()
	for i := uint16(0); i < handlers; i++ {
		h := ExceptionHandler{StartPC: r.u2(), EndPC: r.u2(), HandlerPC: r.u2()}
		if idx := r.u2(); idx != 0 {
			h.CatchType = cp.ClassName(idx)
		}
		code.Handlers = append(code.Handlers, h)
	}
	if r.err != nil {
		return nil, fmt.Errorf("read code attribute: %w", r.err)
	}

	attrs, err := readAttributes(r, cp)
	if err != nil {
		return nil, fmt.Errorf("read code attributes: %w", err)
	}
	for i := range attrs {
		if attrs[i].Name != "LineNumberTable" {
			continue
		}
		lines, err := parseLineNumbers(attrs[i].Info)
		if err != nil {
			return nil, err
		}
		code.LineNumbers = append(code.LineNumbers, lines...)
	}
	return code, nil
}

func parseLineNumbers(info []byte) ([]LineNumber, error) {
	if len(info) < 2 {
		return nil, fmt.Errorf("truncated LineNumberTable")
	}
	n := int(binary.BigEndian.Uint16(info))
	if len(info) < 2+4*n {
		return nil, fmt.Errorf("truncated LineNumberTable: %d entries in %d bytes", n, len(info))
	}
	lines := make([]LineNumber, n)
	for i := range lines {
		off := 2 + 4*i
		lines[i] = LineNumber{
			StartPC:    binary.BigEndian.Uint16(info[off:]),
			LineNumber: binary.BigEndian.Uint16(info[off+2:]),
		}
	}
	return lines, nil
}
