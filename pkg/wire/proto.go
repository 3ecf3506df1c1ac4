package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/suryatmodulus/pg-replicate/pkg/cell"
)

// ProtoEncoder writes a row as a protobuf wire message for append-only
// ingestion (BigQuery Storage Write style destinations).
//
// Field numbers are assigned 1..N strictly in column order, so the tag is the
// 1-based column position, not a schema-stable identifier. A schema change
// that reorders or drops columns shifts every later tag; the message is only
// self-describing together with the schema version that produced it. That
// trade keeps the encoder schema-free and is deliberate.
//
// Null cells are omitted from the message entirely: absence on the wire is
// the NULL marker, and the destination schema supplies the column's type.
type ProtoEncoder struct{}

// Encode implements Encoder. It is stateless and safe for concurrent use.
func (ProtoEncoder) Encode(row cell.Row, buf []byte) []byte {
	for i := range row {
		buf = appendCell(buf, protowire.Number(i+1), &row[i])
	}
	return buf
}

// EncodedLen implements Encoder.
func (ProtoEncoder) EncodedLen(row cell.Row) int {
	n := 0
	for i := range row {
		n += cellLen(protowire.Number(i+1), &row[i])
	}
	return n
}

func appendCell(buf []byte, num protowire.Number, c *cell.Cell) []byte {
	switch c.Kind {
	case cell.KindNull:
		return buf
	case cell.KindBool:
		buf = protowire.AppendTag(buf, num, protowire.VarintType)
		return protowire.AppendVarint(buf, protowire.EncodeBool(c.Bool))
	case cell.KindInt16, cell.KindInt32, cell.KindInt64:
		buf = protowire.AppendTag(buf, num, protowire.VarintType)
		return protowire.AppendVarint(buf, uint64(c.Int))
	case cell.KindFloat32:
		buf = protowire.AppendTag(buf, num, protowire.Fixed32Type)
		return protowire.AppendFixed32(buf, math.Float32bits(float32(c.Float)))
	case cell.KindFloat64:
		buf = protowire.AppendTag(buf, num, protowire.Fixed64Type)
		return protowire.AppendFixed64(buf, math.Float64bits(c.Float))
	case cell.KindBytes:
		buf = protowire.AppendTag(buf, num, protowire.BytesType)
		return protowire.AppendBytes(buf, c.Bytes)
	default:
		// Strings and every textual kind (json, numeric, the time family,
		// uuid) ship as length-delimited text.
		buf = protowire.AppendTag(buf, num, protowire.BytesType)
		return protowire.AppendString(buf, textPayload(c))
	}
}

func cellLen(num protowire.Number, c *cell.Cell) int {
	switch c.Kind {
	case cell.KindNull:
		return 0
	case cell.KindBool:
		return protowire.SizeTag(num) + protowire.SizeVarint(protowire.EncodeBool(c.Bool))
	case cell.KindInt16, cell.KindInt32, cell.KindInt64:
		return protowire.SizeTag(num) + protowire.SizeVarint(uint64(c.Int))
	case cell.KindFloat32:
		return protowire.SizeTag(num) + protowire.SizeFixed32()
	case cell.KindFloat64:
		return protowire.SizeTag(num) + protowire.SizeFixed64()
	case cell.KindBytes:
		return protowire.SizeTag(num) + protowire.SizeBytes(len(c.Bytes))
	default:
		return protowire.SizeTag(num) + protowire.SizeBytes(len(textPayload(c)))
	}
}

// textPayload renders the textual kinds. KindString avoids the generic
// String() path so plain text never goes through formatting.
func textPayload(c *cell.Cell) string {
	if c.Kind == cell.KindString || c.Kind == cell.KindJSON || c.Kind == cell.KindNumeric {
		return c.Str
	}
	return c.String()
}
