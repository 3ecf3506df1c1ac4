package copytext

import (
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/suryatmodulus/pg-replicate/pkg/cell"
	"github.com/suryatmodulus/pg-replicate/pkg/decode"
	"github.com/suryatmodulus/pg-replicate/pkg/schema"
)

// nullSentinel is the unescaped field text PostgreSQL uses for NULL.
const nullSentinel = `\N`

// Parse decodes one COPY TEXT record against the given column schema. It
// reproduces the serialization written by the PostgreSQL COPY TO code path,
// so a row exported by the server round-trips exactly.
//
// The record is expected to be a single line-feed-terminated record. Fields
// are consumed in lockstep with columns; a count mismatch in either
// direction fails the whole record. On a decoder failure the offending
// column name, type, and raw text are logged before the error is returned.
func Parse(record []byte, columns []schema.Column, dec decode.FieldDecoder) (cell.Row, error) {
	if !utf8.Valid(record) {
		return nil, ErrInvalidEncoding
	}

	row := make(cell.Row, 0, len(columns))

	// One growable buffer is reused for every field of the record; it is
	// truncated, never reallocated, between fields.
	buf := make([]byte, 0, 16)

	var (
		next       int // index of the column the current field aligns to
		pos        int
		inEscape   bool
		terminated bool
		done       bool
	)

	for !done {
		fieldComplete := false
		for !fieldComplete {
			if pos >= len(record) {
				if !terminated {
					return nil, ErrUnterminatedRecord
				}
				done = true
				break
			}
			c := record[pos]
			pos++

			switch {
			case inEscape:
				switch c {
				case 'N':
					// Escaped N keeps its backslash so the NULL check
					// below can see it.
					buf = append(buf, '\\', 'N')
				case 'b':
					buf = append(buf, 0x08)
				case 'f':
					buf = append(buf, 0x0C)
				case 'n':
					buf = append(buf, '\n')
				case 'r':
					buf = append(buf, '\r')
				case 't':
					buf = append(buf, '\t')
				case 'v':
					buf = append(buf, 0x0B)
				default:
					buf = append(buf, c)
				}
				inEscape = false
			case c == '\t':
				fieldComplete = true
			case c == '\n':
				terminated = true
				fieldComplete = true
			case c == '\\':
				inEscape = true
			default:
				buf = append(buf, c)
			}
		}
		if done {
			break
		}

		if next >= len(columns) {
			return nil, &ColumnCountMismatchError{Fields: next + 1, Columns: len(columns)}
		}
		col := columns[next]
		next++

		if string(buf) == nullSentinel {
			// The type OID rides along on the null cell so downstream
			// default computation stays type-correct.
			row = append(row, cell.Null(col.OID))
		} else {
			text := string(buf)
			value, err := dec.Decode(col, text)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"column": col.Name,
					"type":   col.TypeName(),
					"value":  text,
				}).WithError(err).Error("failed to decode column value")
				return nil, &FieldDecodeError{
					Column: col.Name,
					Type:   col.TypeName(),
					Text:   text,
					Err:    err,
				}
			}
			row = append(row, value)
		}
		buf = buf[:0]
	}

	if next != len(columns) {
		return nil, &ColumnCountMismatchError{Fields: next, Columns: len(columns)}
	}
	return row, nil
}
