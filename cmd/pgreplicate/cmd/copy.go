/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/cobra"

	"github.com/suryatmodulus/pg-replicate/pkg/decode"
	"github.com/suryatmodulus/pg-replicate/pkg/pipeline"
	"github.com/suryatmodulus/pg-replicate/pkg/sink"
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Bulk-copy a table into the configured sink",
	Long: `Copy the full contents of one source table through the row converter
into the configured destination sink.

The table's column schema is read from the source catalogs, every row of the
COPY stream is converted into typed values, and each converted row is written
to the sink in its wire encoding.

Examples:
  pgreplicate copy --table public.users
  pgreplicate copy --table inventory.orders --config ./pg-replicate.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		qualified, _ := cmd.Flags().GetString("table")
		namespace, name := splitQualified(qualified)
		if name == "" {
			return fmt.Errorf("--table is required, as schema.table")
		}

		ctx := cmd.Context()
		conn, err := pgconn.Connect(ctx, cfg.Source.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to source: %w", err)
		}
		defer conn.Close(ctx)

		table, err := pipeline.FetchTable(ctx, conn, namespace, name)
		if err != nil {
			return err
		}

		sinkCfg := cfg.Sink
		sinkCfg.Dir = filepath.Join(sinkCfg.Dir, "rows")
		snk, err := sink.New(sinkCfg)
		if err != nil {
			return err
		}
		defer snk.Close()

		rows, err := pipeline.New(decode.NewTextDecoder(), snk).CopyTable(ctx, conn, table)
		if err != nil {
			return err
		}
		cmd.Printf("Copied %d rows from %s\n", rows, table.QualifiedName())
		return nil
	},
}

// splitQualified splits schema.table, defaulting the schema to public.
func splitQualified(qualified string) (string, string) {
	for i := 0; i < len(qualified); i++ {
		if qualified[i] == '.' {
			return qualified[:i], qualified[i+1:]
		}
	}
	return "public", qualified
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().StringP("table", "t", "", "Qualified table to copy (schema.table)")
}
