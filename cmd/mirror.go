// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcecursor/cli/internal/dsn"
	"forcecursor/cli/internal/logging"
	"forcecursor/cli/internal/mirror"
	"forcecursor/cli/internal/rest"
)

const envDSN = "FORCECURSOR_DSN"

var (
	mirrorDSN      string
	mirrorTable    string
	mirrorParams   []string
	mirrorTruncate bool
	mirrorChunk    int
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror TEXT",
	Short: "Copy the rows of a SELECT into a PostgreSQL table",
	Long: `The mirror command runs one SELECT and copies the resulting records into an
existing PostgreSQL table with COPY, in batches, inside a single transaction.

Columns are matched to record fields by name, ignoring case. The "id" column
receives the record id and "sobject_type" the record type. Fields without a
matching column are skipped.

The target comes from --dsn, then FORCECURSOR_DSN, then DATABASE_URL.`,
	Example: `  forcecursor mirror "SELECT Id, LastName, Email FROM Contact" --table crm.contacts --dsn postgres://me@localhost/crm`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(mirrorTable) == "" {
			return errors.New("--table is required")
		}
		target, err := resolveDSN(mirrorDSN)
		if err != nil {
			return err
		}
		params, err := parseParams(mirrorParams)
		if err != nil {
			return err
		}

		conn, cred, err := openConn()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		stop := startInlineSpinner(os.Stderr, staticText("Running query"), 120*time.Millisecond)
		cur, err := conn.Execute(ctx, rest.Select(args[0], params...))
		stop()
		if err != nil {
			return report(err, "running the query", cred.InstanceURL)
		}
		fetched := cur.Remaining()
		if fetched == 0 {
			pterm.Info.Println("No records to mirror")
			return nil
		}

		pool, err := pgxpool.New(ctx, target.String())
		if err != nil {
			pterm.Printf("❌ Failed to connect to %s\n", target.Target())
			return report(err, "connecting to the database", "")
		}
		defer pool.Close()

		chunk := mirrorChunk
		if chunk <= 0 {
			chunk = cfg.ChunkSize
		}

		var copied atomic.Int64
		stop = startInlineSpinner(os.Stderr, func() string {
			return fmt.Sprintf("Copying into %s (%d/%d)", mirrorTable, copied.Load(), fetched)
		}, 120*time.Millisecond)
		n, err := mirror.Run(ctx, pool, mirror.Options{
			Table:     mirrorTable,
			Truncate:  mirrorTruncate,
			BatchSize: chunk,
			Log:       logger,
			OnBatch:   func(total int64) { copied.Store(total) },
		}, cur.Models(chunk))
		stop()
		if err != nil {
			pterm.Error.Println(logging.PresentError("mirror", err))
			return &shownError{err}
		}

		pterm.Success.Printf("Mirrored %d record(s) into %s on %s\n", n, mirrorTable, target.Target())
		return nil
	},
}

// resolveDSN picks the mirror target: the flag, then FORCECURSOR_DSN, then DATABASE_URL.
func resolveDSN(flag string) (dsn.Info, error) {
	raw := strings.TrimSpace(flag)
	for _, env := range []string{envDSN, "DATABASE_URL"} {
		if raw != "" {
			break
		}
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			logger.Debug("using DSN from environment", logger.Args("variable", env))
			raw = v
		}
	}
	if raw == "" {
		return dsn.Info{}, fmt.Errorf("no target database: pass --dsn or set %s", envDSN)
	}
	return dsn.Parse(raw)
}

func init() {
	mirrorCmd.Flags().StringVar(&mirrorDSN, "dsn", "", "PostgreSQL connection string (env "+envDSN+" or DATABASE_URL)")
	mirrorCmd.Flags().StringVarP(&mirrorTable, "table", "t", "", "Target table, optionally schema-qualified")
	mirrorCmd.Flags().StringArrayVarP(&mirrorParams, "param", "p", nil, "Positional parameter as type:value (repeatable)")
	mirrorCmd.Flags().BoolVar(&mirrorTruncate, "truncate", false, "Empty the table before copying")
	mirrorCmd.Flags().IntVar(&mirrorChunk, "chunk-size", 0, "Records per COPY batch (default from config)")
	rootCmd.AddCommand(mirrorCmd)
}
