// Package decode turns the textual form of a single PostgreSQL field into a
// typed cell value.
//
// The parser in pkg/copytext consumes this package through the FieldDecoder
// interface only. Supporting a new PostgreSQL type means adding a case to the
// TextDecoder and never touches the parser's control flow.
package decode

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/suryatmodulus/pg-replicate/pkg/cell"
	"github.com/suryatmodulus/pg-replicate/pkg/schema"
)

// FieldDecoder converts one unescaped field text into a typed cell for the
// column's declared type. Implementations must be pure: no shared state, safe
// for concurrent use across rows and tables.
type FieldDecoder interface {
	Decode(col schema.Column, text string) (cell.Cell, error)
}

// UnsupportedTypeError reports a column type OID the decoder has no mapping
// for. It is distinct from ValueError so callers can tell schema problems
// from bad row data.
type UnsupportedTypeError struct {
	OID  uint32
	Name string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s (oid %d)", e.Name, e.OID)
}

// ValueError reports field text that does not parse as its declared type.
type ValueError struct {
	OID  uint32
	Text string
	Err  error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for type oid %d: %v", e.Text, e.OID, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// Timestamp layouts as produced by PostgreSQL's text output. The fractional
// seconds and the zone offset minutes are both optional on the wire.
const (
	dateLayout        = "2006-01-02"
	timeLayout        = "15:04:05.999999"
	timestampLayout   = "2006-01-02 15:04:05.999999"
	timestampTZLayout = "2006-01-02 15:04:05.999999-07"
)

// TextDecoder decodes PostgreSQL text-format values for the base types the
// pipeline replicates. It is stateless and safe for concurrent use.
type TextDecoder struct{}

// NewTextDecoder returns the production field decoder.
func NewTextDecoder() *TextDecoder { return &TextDecoder{} }

// Decode implements FieldDecoder.
func (d *TextDecoder) Decode(col schema.Column, text string) (cell.Cell, error) {
	switch col.OID {
	case pgtype.BoolOID:
		switch text {
		case "t":
			return cell.NewBool(col.OID, true), nil
		case "f":
			return cell.NewBool(col.OID, false), nil
		}
		return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: fmt.Errorf("want t or f")}

	case pgtype.Int2OID:
		v, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewInt16(col.OID, int16(v)), nil

	case pgtype.Int4OID:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewInt32(col.OID, int32(v)), nil

	case pgtype.Int8OID:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewInt64(col.OID, v), nil

	case pgtype.OIDOID:
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewInt64(col.OID, int64(v)), nil

	case pgtype.Float4OID:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewFloat32(col.OID, float32(v)), nil

	case pgtype.Float8OID:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewFloat64(col.OID, v), nil

	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return cell.NewString(col.OID, text), nil

	case pgtype.ByteaOID:
		raw, err := decodeBytea(text)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewBytes(col.OID, raw), nil

	case pgtype.DateOID:
		v, err := time.Parse(dateLayout, text)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewDate(col.OID, v), nil

	case pgtype.TimeOID:
		v, err := time.Parse(timeLayout, text)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewTime(col.OID, v), nil

	case pgtype.TimestampOID:
		v, err := time.Parse(timestampLayout, text)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewTimestamp(col.OID, v), nil

	case pgtype.TimestamptzOID:
		v, err := time.Parse(timestampTZLayout, text)
		if err != nil {
			// Offsets with minutes come out as -07:00 instead of -07.
			v, err = time.Parse(timestampTZLayout+":00", text)
			if err != nil {
				return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
			}
		}
		// Normalize to UTC so the cell (and its wire text) is independent
		// of both the source offset and the host's local zone.
		return cell.NewTimestampTZ(col.OID, v.UTC()), nil

	case pgtype.UUIDOID:
		v, err := decodeUUID(text)
		if err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewUUID(col.OID, v), nil

	case pgtype.JSONOID, pgtype.JSONBOID:
		if !json.Valid([]byte(text)) {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: fmt.Errorf("malformed json")}
		}
		return cell.NewJSON(col.OID, text), nil

	case pgtype.NumericOID:
		// Kept textual to avoid precision loss; shape-checked only.
		if err := checkNumeric(text); err != nil {
			return cell.Cell{}, &ValueError{OID: col.OID, Text: text, Err: err}
		}
		return cell.NewNumeric(col.OID, text), nil
	}

	return cell.Cell{}, &UnsupportedTypeError{OID: col.OID, Name: col.TypeName()}
}

// decodeBytea handles the hex output format, the only one current PostgreSQL
// servers emit for COPY TO.
func decodeBytea(text string) ([]byte, error) {
	if !strings.HasPrefix(text, `\x`) {
		return nil, fmt.Errorf("missing \\x prefix")
	}
	return hex.DecodeString(text[2:])
}

func decodeUUID(text string) ([16]byte, error) {
	var out [16]byte
	if len(text) != 36 || text[8] != '-' || text[13] != '-' || text[18] != '-' || text[23] != '-' {
		return out, fmt.Errorf("not a hyphenated uuid")
	}
	compact := text[:8] + text[9:13] + text[14:18] + text[19:23] + text[24:]
	if _, err := hex.Decode(out[:], []byte(compact)); err != nil {
		return out, err
	}
	return out, nil
}

func checkNumeric(text string) error {
	// NaN is a valid numeric in PostgreSQL.
	if text == "NaN" {
		return nil
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return fmt.Errorf("not a number")
	}
	return nil
}
