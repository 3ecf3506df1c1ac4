package sink

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/suryatmodulus/pg-replicate/pkg/cell"
	"github.com/suryatmodulus/pg-replicate/pkg/schema"
	"github.com/suryatmodulus/pg-replicate/pkg/wire"
)

// PebbleSink lands rows in a local pebble store. Keys are
// <schema>.<table>/<ksuid>, so rows of one table are contiguous and arrive
// in ingestion order (ksuids sort by creation time). Values are the wire
// message prefixed with its uvarint length.
//
// This is a one-way format: nothing reads these values back into rows.
type PebbleSink struct {
	db  *pebble.DB
	enc wire.Encoder
}

// NewPebbleSink opens (or creates) the destination store at dir.
func NewPebbleSink(dir string, enc wire.Encoder) (*PebbleSink, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sink store: %w", err)
	}
	return &PebbleSink{db: db, enc: enc}, nil
}

// WriteRow implements Sink.
func (s *PebbleSink) WriteRow(ctx context.Context, table schema.Table, row cell.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s", table.QualifiedName(), ksuid.New().String())

	// EncodedLen lets the value buffer be sized up front.
	n := s.enc.EncodedLen(row)
	buf := make([]byte, 0, n+binary.MaxVarintLen64)
	buf = binary.AppendUvarint(buf, uint64(n))
	buf = s.enc.Encode(row, buf)

	if err := s.db.Set([]byte(key), buf, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to write row for %s: %w", table.QualifiedName(), err)
	}
	return nil
}

// Flush implements Sink. It forces buffered writes to stable storage.
func (s *PebbleSink) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Flush(); err != nil {
		return fmt.Errorf("failed to flush sink: %w", err)
	}
	return nil
}

// Close implements Sink.
func (s *PebbleSink) Close() error {
	return s.db.Close()
}
