package signature

import "github.com/dhamidi/jvmsym/symbol"

// ClassRefs returns every non-primitive class mentioned by sigs, in order
// of first appearance. A parameterized inner type Outer<T>.Inner yields both
// Outer and Outer$Inner.
func ClassRefs(sigs ...GenericSignature) []symbol.ClassName {
	var c refCollector
	for _, s := range sigs {
		c.signature(s)
	}
	return c.out
}

func (gc GenericClass) ClassRefs() []symbol.ClassName {
	var c refCollector
	c.params(gc.Params)
	for _, s := range gc.Supers {
		c.signature(s)
	}
	return c.out
}

func (gm GenericMethod) ClassRefs() []symbol.ClassName {
	var c refCollector
	c.params(gm.TypeParams)
	for _, s := range gm.Params {
		c.signature(s)
	}
	c.signature(gm.Return)
	for _, s := range gm.Throws {
		c.signature(s)
	}
	return c.out
}

type refCollector struct {
	seen map[symbol.ClassName]bool
	out  []symbol.ClassName
}

func (c *refCollector) add(cn symbol.ClassName) {
	if cn.IsPrimitive() || c.seen[cn] {
		return
	}
	if c.seen == nil {
		c.seen = make(map[symbol.ClassName]bool)
	}
	c.seen[cn] = true
	c.out = append(c.out, cn)
}

func (c *refCollector) params(params []GenericParam) {
	for _, p := range params {
		for _, b := range p.Bounds() {
			c.signature(b)
		}
	}
}

func (c *refCollector) args(args []GenericArg) {
	for _, a := range args {
		if a.Signature != nil {
			c.signature(a.Signature)
		}
	}
}

func (c *refCollector) signature(s GenericSignature) {
	switch s := s.(type) {
	case GenericClassName:
		c.add(s.ClassName)
		c.args(s.Args)
		nested := s.ClassName
		for _, inner := range s.Inner {
			nested = symbol.NewClassName(nested.Package(), nested.SimpleName()+"$"+inner.Name)
			c.add(nested)
			c.args(inner.Args)
		}
	case GenericArray:
		c.signature(s.Elem)
	case GenericVar:
	}
}
