// Package format renders raw records and decoded types for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/jvmsym/raw"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *raw.Classfile) error
}

// New returns the encoder for a format name: "json" or "line".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected json or line)", name)
}
