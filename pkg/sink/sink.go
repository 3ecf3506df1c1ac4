// Package sink delivers converted rows to a destination transport.
package sink

import (
	"context"
	"fmt"

	"github.com/suryatmodulus/pg-replicate/pkg/cell"
	"github.com/suryatmodulus/pg-replicate/pkg/config"
	"github.com/suryatmodulus/pg-replicate/pkg/schema"
	"github.com/suryatmodulus/pg-replicate/pkg/wire"
)

// Sink is an append-only destination for replicated rows. Implementations
// own their wire encoding; the pipeline never inspects what a sink wrote.
type Sink interface {
	WriteRow(ctx context.Context, table schema.Table, row cell.Row) error
	Flush(ctx context.Context) error
	Close() error
}

// New builds the sink selected by configuration.
func New(cfg config.Sink) (Sink, error) {
	switch cfg.Kind {
	case "pebble":
		enc, err := wire.New(cfg.Encoder)
		if err != nil {
			return nil, err
		}
		return NewPebbleSink(cfg.Dir, enc)
	}
	return nil, fmt.Errorf("unknown sink kind %q", cfg.Kind)
}
