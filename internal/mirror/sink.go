// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package mirror copies models streamed from a cursor into a PostgreSQL
// table with COPY, one batch at a time.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/jackc/pgx/v5"
	"github.com/pterm/pterm"

	"forcecursor/cli/internal/cursor"
	"forcecursor/cli/internal/logging"
)

// Copier bulk-loads rows. pgx.Tx, *pgx.Conn and *pgxpool.Pool satisfy it.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Writer drains a model sequence into a table.
type Writer struct {
	dst   Copier
	table pgx.Identifier
	plan  *Plan
	batch int
	log   *pterm.Logger

	// OnBatch, when set, is called with the running total after each batch.
	OnBatch func(total int64)
}

// NewWriter creates a Writer that flushes every batch rows.
func NewWriter(dst Copier, t *Table, plan *Plan, batch int, log *pterm.Logger) *Writer {
	if batch <= 0 {
		batch = cursor.DefaultChunkSize
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Writer{dst: dst, table: t.Identifier(), plan: plan, batch: batch, log: log}
}

// Write copies every model of seq and returns the number of rows written.
// It stops at the first model or copy error.
func (w *Writer) Write(ctx context.Context, seq iter.Seq2[cursor.Model, error]) (int64, error) {
	var total int64
	buf := make([][]any, 0, w.batch)
	warned := false

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		n, err := w.dst.CopyFrom(ctx, w.table, w.plan.Columns(), pgx.CopyFromRows(buf))
		if err != nil {
			return fmt.Errorf("copy into %s: %w", w.table.Sanitize(), err)
		}
		total += n
		w.log.Debug("batch copied", w.log.Args("rows", n, "total", total))
		if w.OnBatch != nil {
			w.OnBatch(total)
		}
		buf = buf[:0]
		return nil
	}

	for m, err := range seq {
		if err != nil {
			return total, err
		}
		if !warned {
			if extra := w.plan.Unmapped(m); len(extra) > 0 {
				w.log.Warn("fields without a target column are skipped", w.log.Args("fields", extra))
			}
			warned = true
		}
		row, err := w.plan.Row(m)
		if err != nil {
			return total, fmt.Errorf("record %s: %w", m.PK, err)
		}
		buf = append(buf, row)
		if len(buf) == w.batch {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	return total, flush()
}

// DB is what Run needs from a connection pool. *pgxpool.Pool satisfies it.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Options configure Run.
type Options struct {
	Table     string
	Truncate  bool
	BatchSize int
	Log       *pterm.Logger
	OnBatch   func(total int64)
}

// Run copies seq into opts.Table inside one transaction. Nothing is
// committed unless every model is written.
func Run(ctx context.Context, db DB, opts Options, seq iter.Seq2[cursor.Model, error]) (n int64, err error) {
	t, err := NewInspector(db).Table(ctx, opts.Table)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, ignoreClosed(tx.Rollback(ctx)))
		}
	}()

	if opts.Truncate {
		if _, err := tx.Exec(ctx, "TRUNCATE "+t.Identifier().Sanitize()); err != nil {
			return 0, fmt.Errorf("truncate %s: %w", t.Identifier().Sanitize(), err)
		}
	}

	w := NewWriter(tx, t, NewPlan(t), opts.BatchSize, opts.Log)
	w.OnBatch = opts.OnBatch
	if n, err = w.Write(ctx, seq); err != nil {
		return n, err
	}
	if err := tx.Commit(ctx); err != nil {
		return n, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
