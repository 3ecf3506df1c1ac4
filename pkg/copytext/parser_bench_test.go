//go:build bench
// +build bench

package copytext

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/suryatmodulus/pg-replicate/pkg/decode"
	"github.com/suryatmodulus/pg-replicate/pkg/schema"
	"github.com/suryatmodulus/pg-replicate/pkg/telemetry"
)

func BenchmarkParse(b *testing.B) {
	telemetry.InitTest()
	d := decode.NewTextDecoder()

	benchmarks := []struct {
		name    string
		record  string
		columns []schema.Column
	}{
		{
			name:   "narrow",
			record: "1\tfoo\t\\N\n",
			columns: []schema.Column{
				{Name: "id", OID: pgtype.Int4OID},
				{Name: "name", OID: pgtype.TextOID},
				{Name: "age", OID: pgtype.Int4OID},
			},
		},
		{
			name:   "wide text",
			record: strings.Repeat("some text field\t", 19) + "tail\n",
			columns: func() []schema.Column {
				cols := make([]schema.Column, 20)
				for i := range cols {
					cols[i] = schema.Column{Name: "c", OID: pgtype.TextOID}
				}
				return cols
			}(),
		},
		{
			name:   "escape heavy",
			record: strings.Repeat(`a\tb\nc\\d`, 50) + "\n",
			columns: []schema.Column{
				{Name: "v", OID: pgtype.TextOID},
			},
		},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			record := []byte(bm.record)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(record, bm.columns, d); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
