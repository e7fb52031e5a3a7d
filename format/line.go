package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/jvmsym/raw"
	"github.com/dhamidi/jvmsym/symbol"
)

// LineEncoder writes one tab-separated line per symbol:
//
//	class   FQN  access  modifiers
//	field   FQN  descriptor  access  modifiers
//	method  FQN  access  line  modifiers
//	ref     FQN  key
//
// Empty columns are written as "-". ref lines follow their symbol and are
// only written when refs are enabled.
type LineEncoder struct {
	w     io.Writer
	class *raw.Classfile
	refs  bool
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

// WithRefs enables ref lines.
func (e *LineEncoder) WithRefs() *LineEncoder {
	e.refs = true
	return e
}

func (e *LineEncoder) Encode(class *raw.Classfile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "class\t%s\t%s\t%s\n", c.FQN(), c.Access, modifiersStr(classModifiers(c)))
	e.writeRefs(&sb, c.FQN(), c.InternalRefs)

	for i := range c.Fields {
		f := &c.Fields[i]
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.FQN(),
			f.Type.InternalString(),
			f.Access,
			modifiersStr(deprecated(f.Deprecated)),
		)
		e.writeRefs(&sb, f.FQN(), f.InternalRefs)
	}

	for i := range c.Methods {
		m := &c.Methods[i]
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\n",
			m.FQN(),
			m.Access,
			lineStr(m.Line),
			modifiersStr(deprecated(m.Deprecated)),
		)
		e.writeRefs(&sb, m.FQN(), m.InternalRefs)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeRefs(sb *strings.Builder, from string, refs *symbol.RefSet) {
	if !e.refs {
		return
	}
	for _, ref := range refs.Sorted() {
		fmt.Fprintf(sb, "ref\t%s\t%s\n", from, symbol.Key(ref))
	}
}

func modifiersStr(mods []string) string {
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

func lineStr(line *int) string {
	if line == nil {
		return "-"
	}
	return strconv.Itoa(*line)
}
