// Package wire serializes rows into destination-bound binary messages.
//
// Encoders are a capability, not a property of the row type: each
// destination transport implements Encoder, and the active one is picked by
// name from runtime configuration. The formats are write-only; nothing in
// this package (or out of it) decodes a produced message back into a row,
// because the pipeline never re-reads what it just wrote. Row buffers are
// recycled with cell.Row.Clear between records.
package wire

import (
	"fmt"

	"github.com/suryatmodulus/pg-replicate/pkg/cell"
)

// Encoder turns one row into a destination wire message.
//
// Encode appends the message to buf and returns the extended slice.
// EncodedLen returns exactly len of the bytes Encode would append, computed
// without materializing them, so callers can length-prefix and pre-size
// buffers.
type Encoder interface {
	Encode(row cell.Row, buf []byte) []byte
	EncodedLen(row cell.Row) int
}

// New returns the encoder registered under name. Selecting the destination
// format by configuration keeps the row type encoder-agnostic.
func New(name string) (Encoder, error) {
	switch name {
	case "proto", "protobuf":
		return ProtoEncoder{}, nil
	}
	return nil, fmt.Errorf("unknown wire encoder %q", name)
}
