package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jvmsym/raw"
	"github.com/dhamidi/jvmsym/symbol"
)

// JSONEncoder writes one indented JSON document per class. Names are
// rendered in dotted form, types as descriptors and reference sets as
// sorted keys.
type JSONEncoder struct {
	w     io.Writer
	class *raw.Classfile
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *raw.Classfile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildClassData(), "", "  ")
}

type jsonClass struct {
	FQN        string         `json:"fqn"`
	Access     string         `json:"access"`
	Generics   string         `json:"generics,omitempty"`
	Super      string         `json:"super,omitempty"`
	Interfaces []string       `json:"interfaces,omitempty"`
	Modifiers  []string       `json:"modifiers,omitempty"`
	Source     jsonSource     `json:"source"`
	Fields     []jsonField    `json:"fields"`
	Methods    []jsonMethod   `json:"methods"`
	Refs       *symbol.RefSet `json:"internalRefs"`
}

type jsonSource struct {
	Filename *string `json:"filename,omitempty"`
	Line     *int    `json:"line,omitempty"`
}

type jsonField struct {
	FQN       string         `json:"fqn"`
	Type      string         `json:"type"`
	Access    string         `json:"access"`
	Generics  string         `json:"generics,omitempty"`
	Modifiers []string       `json:"modifiers,omitempty"`
	Refs      *symbol.RefSet `json:"internalRefs"`
}

type jsonMethod struct {
	FQN        string         `json:"fqn"`
	Access     string         `json:"access"`
	Generics   string         `json:"generics,omitempty"`
	Exceptions []string       `json:"exceptions,omitempty"`
	Line       *int           `json:"line,omitempty"`
	Modifiers  []string       `json:"modifiers,omitempty"`
	Refs       *symbol.RefSet `json:"internalRefs"`
}

func (e *JSONEncoder) buildClassData() jsonClass {
	c := e.class
	data := jsonClass{
		FQN:        c.FQN(),
		Access:     c.Access.String(),
		Interfaces: fqns(c.Interfaces),
		Modifiers:  classModifiers(c),
		Source:     jsonSource{Filename: c.Source.Filename, Line: c.Source.Line},
		Fields:     e.buildFields(),
		Methods:    e.buildMethods(),
		Refs:       c.InternalRefs,
	}
	if c.Generics != nil {
		data.Generics = c.Generics.String()
	}
	if c.Super != nil {
		data.Super = c.Super.FqnString()
	}
	return data
}

func (e *JSONEncoder) buildFields() []jsonField {
	result := make([]jsonField, len(e.class.Fields))
	for i := range e.class.Fields {
		f := &e.class.Fields[i]
		result[i] = jsonField{
			FQN:       f.FQN(),
			Type:      f.Type.InternalString(),
			Access:    f.Access.String(),
			Modifiers: deprecated(f.Deprecated),
			Refs:      f.InternalRefs,
		}
		if f.Generics != nil {
			result[i].Generics = f.Generics.String()
		}
	}
	return result
}

func (e *JSONEncoder) buildMethods() []jsonMethod {
	result := make([]jsonMethod, len(e.class.Methods))
	for i := range e.class.Methods {
		m := &e.class.Methods[i]
		result[i] = jsonMethod{
			FQN:        m.FQN(),
			Access:     m.Access.String(),
			Exceptions: fqns(m.Exceptions),
			Line:       m.Line,
			Modifiers:  deprecated(m.Deprecated),
			Refs:       m.InternalRefs,
		}
		if m.Generics != nil {
			result[i].Generics = m.Generics.String()
		}
	}
	return result
}

func classModifiers(c *raw.Classfile) []string {
	mods := deprecated(c.Deprecated)
	if c.IsScala {
		mods = append(mods, "scala")
	}
	return mods
}

func deprecated(d bool) []string {
	if d {
		return []string{"deprecated"}
	}
	return nil
}

func fqns(names []symbol.ClassName) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.FqnString()
	}
	return out
}
