package copytext

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding reports record bytes that are not valid UTF-8. The
// upstream sent binary data where text was expected.
var ErrInvalidEncoding = errors.New("record is not valid utf-8")

// ErrUnterminatedRecord reports input that ended before the line feed. A
// caller that owns partial-buffer semantics should treat this as "need more
// bytes" rather than a bad row.
var ErrUnterminatedRecord = errors.New("unterminated record")

// ColumnCountMismatchError reports a record whose field count does not line
// up with the schema. It usually means the source schema drifted between
// schema fetch and parse.
type ColumnCountMismatchError struct {
	Fields  int
	Columns int
}

func (e *ColumnCountMismatchError) Error() string {
	if e.Fields > e.Columns {
		return fmt.Sprintf("record has more fields than the %d schema columns", e.Columns)
	}
	return fmt.Sprintf("record has %d fields, schema has %d columns", e.Fields, e.Columns)
}

// FieldDecodeError wraps a decoder failure with enough context to diagnose a
// bad upstream row without re-reading the input.
type FieldDecodeError struct {
	Column string
	Type   string
	Text   string
	Err    error
}

func (e *FieldDecodeError) Error() string {
	return fmt.Sprintf("decoding column %q of type %s from %q: %v", e.Column, e.Type, e.Text, e.Err)
}

func (e *FieldDecodeError) Unwrap() error { return e.Err }
