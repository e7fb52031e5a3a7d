package classfile

import (
	"encoding/binary"
	"fmt"
)

// Opcodes that reference the constant pool.
const (
	OpLdc             = 0x12
	OpLdcW            = 0x13
	OpGetStatic       = 0xb2
	OpPutStatic       = 0xb3
	OpGetField        = 0xb4
	OpPutField        = 0xb5
	OpInvokeVirtual   = 0xb6
	OpInvokeSpecial   = 0xb7
	OpInvokeStatic    = 0xb8
	OpInvokeInterface = 0xb9
	OpNew             = 0xbb
	OpANewArray       = 0xbd
	OpCheckCast       = 0xc0
	OpInstanceOf      = 0xc1
	OpMultiANewArray  = 0xc5

	opTableSwitch  = 0xaa
	opLookupSwitch = 0xab
	opWide         = 0xc4
	opIinc         = 0x84
)

// instructionLength is the fixed size of each opcode including operands;
// 0 marks opcodes that are undefined or variable-length.
var instructionLength [256]int

func init() {
	set := func(from, to, n int) {
		for op := from; op <= to; op++ {
			instructionLength[op] = n
		}
	}
	set(0x00, 0x0f, 1) // nop .. dconst_1
	set(0x10, 0x10, 2) // bipush
	set(0x11, 0x11, 3) // sipush
	set(0x12, 0x12, 2) // ldc
	set(0x13, 0x14, 3) // ldc_w, ldc2_w
	set(0x15, 0x19, 2) // iload .. aload
	set(0x1a, 0x35, 1) // iload_0 .. saload
	set(0x36, 0x3a, 2) // istore .. astore
	set(0x3b, 0x83, 1) // istore_0 .. lxor
	set(0x84, 0x84, 3) // iinc
	set(0x85, 0x98, 1) // conversions and compares
	set(0x99, 0xa8, 3) // branches, jsr
	set(0xa9, 0xa9, 2) // ret
	set(0xac, 0xb1, 1) // returns
	set(0xb2, 0xb8, 3) // field access, invokevirtual .. invokestatic
	set(0xb9, 0xba, 5) // invokeinterface, invokedynamic
	set(0xbb, 0xbb, 3) // new
	set(0xbc, 0xbc, 2) // newarray
	set(0xbd, 0xbd, 3) // anewarray
	set(0xbe, 0xbf, 1) // arraylength, athrow
	set(0xc0, 0xc1, 3) // checkcast, instanceof
	set(0xc2, 0xc3, 1) // monitorenter, monitorexit
	set(0xc5, 0xc5, 4) // multianewarray
	set(0xc6, 0xc7, 3) // ifnull, ifnonnull
	set(0xc8, 0xc9, 5) // goto_w, jsr_w
}

type RefKind int

const (
	RefClass RefKind = iota
	RefField
	RefMethod
)

// Ref is a constant pool reference made by one instruction. For RefClass,
// Class may be an array descriptor such as "[Ljava/lang/String;".
type Ref struct {
	Kind       RefKind
	PC         int
	Opcode     byte
	Class      string
	Name       string
	Descriptor string
}

// Walk decodes every instruction and calls fn for those referencing a
// class, field or method. Truncated or undefined instructions are errors.
func (c *Code) Walk(fn func(Ref)) error {
	code := c.Bytecode
	for pc := 0; pc < len(code); {
		op := code[pc]
		n, err := c.length(pc)
		if err != nil {
			return err
		}
		if pc+n > len(code) {
			return fmt.Errorf("truncated instruction 0x%02x at pc %d", op, pc)
		}

		switch op {
		case OpGetStatic, OpPutStatic, OpGetField, OpPutField:
			c.memberRef(fn, pc, op, RefField)
		case OpInvokeVirtual, OpInvokeSpecial, OpInvokeStatic, OpInvokeInterface:
			c.memberRef(fn, pc, op, RefMethod)
		case OpNew, OpANewArray, OpCheckCast, OpInstanceOf, OpMultiANewArray:
			c.classRef(fn, pc, op, binary.BigEndian.Uint16(code[pc+1:]))
		case OpLdc:
			c.classRef(fn, pc, op, uint16(code[pc+1]))
		case OpLdcW:
			c.classRef(fn, pc, op, binary.BigEndian.Uint16(code[pc+1:]))
		}
		pc += n
	}
	return nil
}

func (c *Code) memberRef(fn func(Ref), pc int, op byte, kind RefKind) {
	ref, ok := c.cp.MemberRef(binary.BigEndian.Uint16(c.Bytecode[pc+1:]))
	if !ok {
		return
	}
	fn(Ref{Kind: kind, PC: pc, Opcode: op, Class: ref.Class, Name: ref.Name, Descriptor: ref.Descriptor})
}

// classRef ignores ldc of non-class constants.
func (c *Code) classRef(fn func(Ref), pc int, op byte, index uint16) {
	if c.cp.Tag(index) != TagClass {
		return
	}
	fn(Ref{Kind: RefClass, PC: pc, Opcode: op, Class: c.cp.ClassName(index)})
}

func (c *Code) length(pc int) (int, error) {
	code := c.Bytecode
	op := code[pc]
	if n := instructionLength[op]; n > 0 {
		return n, nil
	}
	switch op {
	case opWide:
		if pc+1 >= len(code) {
			return 0, fmt.Errorf("truncated wide at pc %d", pc)
		}
		if code[pc+1] == opIinc {
			return 6, nil
		}
		return 4, nil
	case opTableSwitch, opLookupSwitch:
		// operands start at the next 4-byte boundary from the code start
		base := pc + 1 + (4-(pc+1)%4)%4
		if base+8 > len(code) {
			return 0, fmt.Errorf("truncated switch at pc %d", pc)
		}
		if op == opTableSwitch {
			if base+12 > len(code) {
				return 0, fmt.Errorf("truncated tableswitch at pc %d", pc)
			}
			low := int32(binary.BigEndian.Uint32(code[base+4:]))
			high := int32(binary.BigEndian.Uint32(code[base+8:]))
			if high < low {
				return 0, fmt.Errorf("tableswitch at pc %d has high %d < low %d", pc, high, low)
			}
			return base + 12 + 4*int(int64(high)-int64(low)+1) - pc, nil
		}
		npairs := int32(binary.BigEndian.Uint32(code[base+4:]))
		if npairs < 0 {
			return 0, fmt.Errorf("lookupswitch at pc %d has %d pairs", pc, npairs)
		}
		return base + 8 + 8*int(npairs) - pc, nil
	}
	return 0, fmt.Errorf("undefined opcode 0x%02x at pc %d", op, pc)
}
