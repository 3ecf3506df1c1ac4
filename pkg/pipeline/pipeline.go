// Package pipeline drives bulk table copies from PostgreSQL through the row
// converter into a destination sink.
//
// The pipeline owns the I/O: it streams COPY TO STDOUT output, splits it into
// records, and calls the converter once per record. Parsing and encoding stay
// pure functions, so independent tables can be copied on independent
// goroutines with no coordination beyond their own connections.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/suryatmodulus/pg-replicate/pkg/copytext"
	"github.com/suryatmodulus/pg-replicate/pkg/decode"
	"github.com/suryatmodulus/pg-replicate/pkg/schema"
	"github.com/suryatmodulus/pg-replicate/pkg/sink"
	"github.com/suryatmodulus/pg-replicate/pkg/telemetry"
)

// Pipeline converts COPY streams into sink writes. It is safe for concurrent
// use; per-table copies share no state.
type Pipeline struct {
	dec decode.FieldDecoder
	snk sink.Sink
}

// New returns a pipeline writing through the given decoder and sink.
func New(dec decode.FieldDecoder, snk sink.Sink) *Pipeline {
	return &Pipeline{dec: dec, snk: snk}
}

// CopyTable streams the full contents of a table through the converter into
// the sink and returns the number of rows written. A row that fails to parse
// aborts the copy; no partial row is ever forwarded.
func (p *Pipeline) CopyTable(ctx context.Context, conn *pgconn.PgConn, table schema.Table) (int64, error) {
	name := table.QualifiedName()
	start := time.Now()
	defer func() {
		copyDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	logrus.WithFields(logrus.Fields{
		"table":   name,
		"columns": len(table.Columns),
	}).Info("starting table copy")

	pr, pw := io.Pipe()
	go func() {
		defer telemetry.ReportPanic()
		_, err := conn.CopyTo(ctx, pw, fmt.Sprintf("COPY %s TO STDOUT", name))
		pw.CloseWithError(err)
	}()

	rows, err := p.copyStream(ctx, pr, table)
	if err != nil {
		pr.CloseWithError(err)
		return rows, err
	}

	logrus.WithFields(logrus.Fields{
		"table": name,
		"rows":  rows,
	}).Info("table copy complete")
	return rows, nil
}

// copyStream converts one COPY TEXT stream record by record. Split out from
// CopyTable so the conversion loop can be exercised on raw bytes.
func (p *Pipeline) copyStream(ctx context.Context, r io.Reader, table schema.Table) (int64, error) {
	name := table.QualifiedName()

	var rows int64
	reader := bufio.NewReader(r)
	for {
		record, err := reader.ReadBytes('\n')
		if len(record) > 0 {
			bytesReadTotal.WithLabelValues(name).Add(float64(len(record)))

			row, perr := copytext.Parse(record, table.Columns, p.dec)
			if perr != nil {
				rowErrorsTotal.WithLabelValues(name, "parse").Inc()
				return rows, fmt.Errorf("failed to parse row %d of %s: %w", rows+1, name, perr)
			}
			if werr := p.snk.WriteRow(ctx, table, row); werr != nil {
				rowErrorsTotal.WithLabelValues(name, "sink").Inc()
				return rows, fmt.Errorf("failed to write row %d of %s: %w", rows+1, name, werr)
			}
			rows++
			rowsCopiedTotal.WithLabelValues(name).Inc()
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("failed to read copy stream for %s: %w", name, err)
		}
	}

	if err := p.snk.Flush(ctx); err != nil {
		return rows, fmt.Errorf("failed to flush sink for %s: %w", name, err)
	}
	return rows, nil
}

// fetchColumnsSQL projects the live column metadata of one relation in
// attribute order.
const fetchColumnsSQL = `
SELECT a.attname,
       a.atttypid,
       a.atttypmod,
       NOT a.attnotnull,
       COALESCE(i.indisprimary, false)
  FROM pg_attribute a
  LEFT JOIN pg_index i
    ON i.indrelid = a.attrelid
   AND i.indisprimary
   AND a.attnum = ANY (i.indkey)
 WHERE a.attrelid = $1::regclass
   AND a.attnum > 0
   AND NOT a.attisdropped
 ORDER BY a.attnum`

// FetchTable reads the current column schema of a table from the source's
// catalogs. Callers must not mutate the result while a copy is running.
func FetchTable(ctx context.Context, conn *pgconn.PgConn, namespace, name string) (schema.Table, error) {
	table := schema.Table{Namespace: namespace, Name: name}

	result := conn.ExecParams(ctx, fetchColumnsSQL,
		[][]byte{[]byte(table.QualifiedName())}, nil, nil, nil).Read()
	if result.Err != nil {
		return schema.Table{}, fmt.Errorf("failed to fetch schema for %s: %w", table.QualifiedName(), result.Err)
	}

	for _, values := range result.Rows {
		if len(values) != 5 {
			return schema.Table{}, fmt.Errorf("unexpected catalog row shape for %s", table.QualifiedName())
		}
		oid, err := strconv.ParseUint(string(values[1]), 10, 32)
		if err != nil {
			return schema.Table{}, fmt.Errorf("bad type oid %q: %w", values[1], err)
		}
		mod, err := strconv.ParseInt(string(values[2]), 10, 32)
		if err != nil {
			return schema.Table{}, fmt.Errorf("bad type modifier %q: %w", values[2], err)
		}
		table.Columns = append(table.Columns, schema.Column{
			Name:       string(values[0]),
			OID:        uint32(oid),
			Modifier:   int32(mod),
			Nullable:   string(values[3]) == "t",
			PrimaryKey: string(values[4]) == "t",
		})
	}
	if len(table.Columns) == 0 {
		return schema.Table{}, fmt.Errorf("table %s has no columns or does not exist", table.QualifiedName())
	}
	return table, nil
}
