package symbol

import (
	"errors"
	"fmt"
)

// ErrMalformedDescriptor is matched by every error returned from the
// descriptor decoders.
var ErrMalformedDescriptor = errors.New("malformed descriptor")

// DescriptorError describes where decoding a descriptor failed.
type DescriptorError struct {
	Input  string
	Offset int
	Reason string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("malformed descriptor %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

func (e *DescriptorError) Unwrap() error {
	return ErrMalformedDescriptor
}
