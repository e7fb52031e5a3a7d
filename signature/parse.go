package signature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/jvmsym/symbol"
)

var ErrMalformedSignature = errors.New("malformed signature")

type SignatureError struct {
	Input  string
	Offset int
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("malformed signature %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

func (e *SignatureError) Unwrap() error {
	return ErrMalformedSignature
}

// ParseClassSignature decodes the Signature attribute of a class, e.g.
// "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/List<TT;>;".
func ParseClassSignature(sig string) (GenericClass, error) {
	p := parser{input: sig}
	var gc GenericClass
	var err error
	if p.peek() == '<' {
		if gc.Params, err = p.typeParams(); err != nil {
			return GenericClass{}, err
		}
	}
	for !p.eof() {
		ct, err := p.classType()
		if err != nil {
			return GenericClass{}, err
		}
		gc.Supers = append(gc.Supers, ct)
	}
	if len(gc.Supers) == 0 {
		return GenericClass{}, p.errorf("missing superclass signature")
	}
	return gc, nil
}

// ParseMethodSignature decodes the Signature attribute of a method, e.g.
// "<T:Ljava/lang/Object;>(TT;I)Ljava/util/List<TT;>;^Ljava/io/IOException;".
func ParseMethodSignature(sig string) (GenericMethod, error) {
	p := parser{input: sig}
	var gm GenericMethod
	var err error
	if p.peek() == '<' {
		if gm.TypeParams, err = p.typeParams(); err != nil {
			return GenericMethod{}, err
		}
	}
	if err := p.expect('('); err != nil {
		return GenericMethod{}, err
	}
	for p.peek() != ')' {
		if p.eof() {
			return GenericMethod{}, p.errorf("missing ')'")
		}
		t, err := p.javaType(false)
		if err != nil {
			return GenericMethod{}, err
		}
		gm.Params = append(gm.Params, t)
	}
	p.pos++
	if gm.Return, err = p.javaType(true); err != nil {
		return GenericMethod{}, err
	}
	for p.peek() == '^' {
		p.pos++
		var t GenericSignature
		if p.peek() == 'T' {
			t, err = p.typeVar()
		} else {
			t, err = p.classType()
		}
		if err != nil {
			return GenericMethod{}, err
		}
		gm.Throws = append(gm.Throws, t)
	}
	if !p.eof() {
		return GenericMethod{}, p.errorf("trailing characters")
	}
	return gm, nil
}

// ParseFieldSignature decodes the Signature attribute of a field, which is
// always a reference type.
func ParseFieldSignature(sig string) (GenericSignature, error) {
	p := parser{input: sig}
	t, err := p.referenceType()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("trailing characters")
	}
	return t, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return &SignatureError{Input: p.input, Offset: p.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(c byte) error {
	if p.eof() {
		return p.errorf("expected %q, got end of input", c)
	}
	if p.input[p.pos] != c {
		return p.errorf("expected %q, got %q", c, p.input[p.pos])
	}
	p.pos++
	return nil
}

// identifier reads up to the next character reserved by the grammar.
func (p *parser) identifier() (string, error) {
	start := p.pos
	for !p.eof() && !strings.ContainsRune(".;[/<>:", rune(p.input[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.input[start:p.pos], nil
}

func (p *parser) typeParams() ([]GenericParam, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var params []GenericParam
	for p.peek() != '>' {
		if p.eof() {
			return nil, p.errorf("unterminated type parameters")
		}
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		param := GenericParam{Name: name}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
			if param.ClassBound, err = p.referenceType(); err != nil {
				return nil, err
			}
		}
		for p.peek() == ':' {
			p.pos++
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			param.InterfaceBounds = append(param.InterfaceBounds, bound)
		}
		params = append(params, param)
	}
	if len(params) == 0 {
		return nil, p.errorf("empty type parameters")
	}
	p.pos++
	return params, nil
}

func (p *parser) referenceType() (GenericSignature, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		return p.typeVar()
	case '[':
		return p.arrayType()
	case 0:
		return nil, p.errorf("expected reference type, got end of input")
	default:
		return nil, p.errorf("expected reference type, got %q", p.peek())
	}
}

// javaType is a reference type or a base type; void only where allowVoid.
func (p *parser) javaType(allowVoid bool) (GenericSignature, error) {
	c := p.peek()
	if prim, ok := symbol.PrimitiveByLetter(c); ok {
		if prim == symbol.PrimitiveVoid && !allowVoid {
			return nil, p.errorf("void is only valid as a return type")
		}
		p.pos++
		return GenericClassName{ClassName: prim}, nil
	}
	return p.referenceType()
}

func (p *parser) arrayType() (GenericSignature, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	elem, err := p.javaType(false)
	if err != nil {
		return nil, err
	}
	return GenericArray{Elem: elem}, nil
}

func (p *parser) typeVar() (GenericSignature, error) {
	if err := p.expect('T'); err != nil {
		return nil, err
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	return GenericVar{Name: name}, nil
}

func (p *parser) classType() (GenericClassName, error) {
	if err := p.expect('L'); err != nil {
		return GenericClassName{}, err
	}
	start := p.pos
	for {
		if _, err := p.identifier(); err != nil {
			return GenericClassName{}, err
		}
		if p.peek() != '/' {
			break
		}
		p.pos++
	}
	internal := p.input[start:p.pos]
	cn := symbol.ClassNameFromInternal(internal)
	if cn.IsPrimitive() {
		return GenericClassName{}, p.errorf("primitive name used as class type %s", internal)
	}

	ct := GenericClassName{ClassName: cn}
	var err error
	if p.peek() == '<' {
		if ct.Args, err = p.typeArgs(); err != nil {
			return GenericClassName{}, err
		}
	}
	for p.peek() == '.' {
		p.pos++
		name, err := p.identifier()
		if err != nil {
			return GenericClassName{}, err
		}
		inner := InnerClassName{Name: name}
		if p.peek() == '<' {
			if inner.Args, err = p.typeArgs(); err != nil {
				return GenericClassName{}, err
			}
		}
		ct.Inner = append(ct.Inner, inner)
	}
	if err := p.expect(';'); err != nil {
		return GenericClassName{}, err
	}
	return ct, nil
}

func (p *parser) typeArgs() ([]GenericArg, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var args []GenericArg
	for p.peek() != '>' {
		if p.eof() {
			return nil, p.errorf("unterminated type arguments")
		}
		var arg GenericArg
		switch p.peek() {
		case '*':
			p.pos++
			arg.Bound = BoundAny
			args = append(args, arg)
			continue
		case '+':
			p.pos++
			arg.Bound = BoundUpper
		case '-':
			p.pos++
			arg.Bound = BoundLower
		}
		sig, err := p.referenceType()
		if err != nil {
			return nil, err
		}
		arg.Signature = sig
		args = append(args, arg)
	}
	if len(args) == 0 {
		return nil, p.errorf("empty type arguments")
	}
	p.pos++
	return args, nil
}
