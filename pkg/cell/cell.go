// Package cell defines the typed value domain for replicated rows.
//
// A Cell is a tagged union over the PostgreSQL values the pipeline can carry.
// It is a plain struct with a Kind discriminator rather than an interface so
// that rows can be cleared and reused in place without reallocating.
package cell

import (
	"encoding/hex"
	"fmt"
	"time"
)

// Kind discriminates the value stored in a Cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindDate
	KindTime
	KindTimestamp
	KindTimestampTZ
	KindUUID
	KindJSON
	KindNumeric
)

// String returns the kind name used in logs and errors.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindTimestamp:
		return "timestamp"
	case KindTimestampTZ:
		return "timestamptz"
	case KindUUID:
		return "uuid"
	case KindJSON:
		return "json"
	case KindNumeric:
		return "numeric"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Cell is one typed column value. Exactly one payload field is meaningful,
// selected by Kind. OID records the originating PostgreSQL type; it is kept
// on null cells so later stages can compute a type-correct default instead of
// treating every absence identically.
type Cell struct {
	Kind  Kind
	OID   uint32
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Bytes []byte
	Time  time.Time
	UUID  [16]byte
}

// Null returns an absent value that remembers its column type.
func Null(oid uint32) Cell { return Cell{Kind: KindNull, OID: oid} }

// NewBool returns a bool cell.
func NewBool(oid uint32, v bool) Cell { return Cell{Kind: KindBool, OID: oid, Bool: v} }

// NewInt16 returns a smallint cell.
func NewInt16(oid uint32, v int16) Cell { return Cell{Kind: KindInt16, OID: oid, Int: int64(v)} }

// NewInt32 returns an integer cell.
func NewInt32(oid uint32, v int32) Cell { return Cell{Kind: KindInt32, OID: oid, Int: int64(v)} }

// NewInt64 returns a bigint cell.
func NewInt64(oid uint32, v int64) Cell { return Cell{Kind: KindInt64, OID: oid, Int: v} }

// NewFloat32 returns a real cell.
func NewFloat32(oid uint32, v float32) Cell {
	return Cell{Kind: KindFloat32, OID: oid, Float: float64(v)}
}

// NewFloat64 returns a double precision cell.
func NewFloat64(oid uint32, v float64) Cell { return Cell{Kind: KindFloat64, OID: oid, Float: v} }

// NewString returns a text cell.
func NewString(oid uint32, v string) Cell { return Cell{Kind: KindString, OID: oid, Str: v} }

// NewBytes returns a bytea cell. The slice is retained, not copied.
func NewBytes(oid uint32, v []byte) Cell { return Cell{Kind: KindBytes, OID: oid, Bytes: v} }

// NewDate returns a date cell.
func NewDate(oid uint32, v time.Time) Cell { return Cell{Kind: KindDate, OID: oid, Time: v} }

// NewTime returns a time-of-day cell.
func NewTime(oid uint32, v time.Time) Cell { return Cell{Kind: KindTime, OID: oid, Time: v} }

// NewTimestamp returns a timestamp cell.
func NewTimestamp(oid uint32, v time.Time) Cell {
	return Cell{Kind: KindTimestamp, OID: oid, Time: v}
}

// NewTimestampTZ returns a timestamptz cell.
func NewTimestampTZ(oid uint32, v time.Time) Cell {
	return Cell{Kind: KindTimestampTZ, OID: oid, Time: v}
}

// NewUUID returns a uuid cell.
func NewUUID(oid uint32, v [16]byte) Cell { return Cell{Kind: KindUUID, OID: oid, UUID: v} }

// NewJSON returns a json/jsonb cell. The document is kept as its source text.
func NewJSON(oid uint32, v string) Cell { return Cell{Kind: KindJSON, OID: oid, Str: v} }

// NewNumeric returns a numeric cell. The value is kept in its textual form to
// avoid precision loss.
func NewNumeric(oid uint32, v string) Cell { return Cell{Kind: KindNumeric, OID: oid, Str: v} }

// IsNull reports whether the cell holds the absent value.
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// Clear zeroes the cell's payload in place, keeping Kind and OID so a reused
// row retains its shape.
func (c *Cell) Clear() {
	c.Bool = false
	c.Int = 0
	c.Float = 0
	c.Str = ""
	c.Bytes = c.Bytes[:0]
	c.Time = time.Time{}
	c.UUID = [16]byte{}
}

// String renders the cell for logs and test failures.
func (c Cell) String() string {
	switch c.Kind {
	case KindNull:
		return fmt.Sprintf("null(oid=%d)", c.OID)
	case KindBool:
		return fmt.Sprintf("%t", c.Bool)
	case KindInt16, KindInt32, KindInt64:
		return fmt.Sprintf("%d", c.Int)
	case KindFloat32, KindFloat64:
		return fmt.Sprintf("%g", c.Float)
	case KindString, KindJSON, KindNumeric:
		return c.Str
	case KindBytes:
		return "\\x" + hex.EncodeToString(c.Bytes)
	case KindDate:
		return c.Time.Format("2006-01-02")
	case KindTime:
		return c.Time.Format("15:04:05.999999")
	case KindTimestamp:
		return c.Time.Format("2006-01-02 15:04:05.999999")
	case KindTimestampTZ:
		return c.Time.Format("2006-01-02 15:04:05.999999Z07:00")
	case KindUUID:
		return formatUUID(c.UUID)
	}
	return "invalid"
}

func formatUUID(u [16]byte) string {
	var buf [36]byte
	hex.Encode(buf[:8], u[:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], u[10:])
	return string(buf[:])
}

// Row is one record's worth of cells, ordered to match the column schema that
// produced it. A Row is built atomically by the parser and not mutated after,
// except through Clear for buffer reuse.
type Row []Cell

// Clear resets every cell in place. It exists so destination encoders can
// recycle row buffers across many records without reallocating.
func (r Row) Clear() {
	for i := range r {
		r[i].Clear()
	}
}
