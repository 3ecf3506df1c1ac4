package sink

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryatmodulus/pg-replicate/pkg/cell"
	"github.com/suryatmodulus/pg-replicate/pkg/config"
	"github.com/suryatmodulus/pg-replicate/pkg/schema"
	"github.com/suryatmodulus/pg-replicate/pkg/wire"
)

func testTable() schema.Table {
	return schema.Table{
		Namespace: "public",
		Name:      "users",
		Columns: []schema.Column{
			{Name: "id", OID: pgtype.Int4OID},
			{Name: "name", OID: pgtype.TextOID},
		},
	}
}

func TestPebbleSink_WriteRow(t *testing.T) {
	dir := t.TempDir()
	enc := wire.ProtoEncoder{}

	snk, err := NewPebbleSink(dir, enc)
	require.NoError(t, err)

	table := testTable()
	ctx := context.Background()

	rows := []cell.Row{
		{cell.NewInt32(pgtype.Int4OID, 1), cell.NewString(pgtype.TextOID, "ada")},
		{cell.NewInt32(pgtype.Int4OID, 2), cell.Null(pgtype.TextOID)},
		{cell.NewInt32(pgtype.Int4OID, 3), cell.NewString(pgtype.TextOID, "grace")},
	}
	for _, row := range rows {
		require.NoError(t, snk.WriteRow(ctx, table, row))
	}
	require.NoError(t, snk.Flush(ctx))
	require.NoError(t, snk.Close())

	// Inspect what landed: every key belongs to the table's range and every
	// value is a length-prefixed wire message whose prefix is exact.
	db, err := pebble.Open(dir, &pebble.Options{})
	require.NoError(t, err)
	defer db.Close()

	iter, err := db.NewIter(nil)
	require.NoError(t, err)
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		count++
		assert.True(t, strings.HasPrefix(string(iter.Key()), "public.users/"))

		value := iter.Value()
		length, n := binary.Uvarint(value)
		require.Positive(t, n)
		assert.Equal(t, uint64(len(value)-n), length, "length prefix must match the message")
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, len(rows), count)
}

func TestPebbleSink_CancelledContext(t *testing.T) {
	snk, err := NewPebbleSink(t.TempDir(), wire.ProtoEncoder{})
	require.NoError(t, err)
	defer snk.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = snk.WriteRow(ctx, testTable(), cell.Row{cell.NewInt32(pgtype.Int4OID, 1)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_SelectsSinkByConfig(t *testing.T) {
	cfg := config.Sink{Kind: "pebble", Dir: t.TempDir(), Encoder: "proto"}
	snk, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, snk.Close())

	cfg.Kind = "kafka"
	_, err = New(cfg)
	assert.Error(t, err)

	cfg.Kind = "pebble"
	cfg.Encoder = "bogus"
	_, err = New(cfg)
	assert.Error(t, err)
}
