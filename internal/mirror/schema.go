// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package mirror

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Column is one column of the target table.
type Column struct {
	Name string
	// DataType is information_schema.columns.data_type, e.g. "text" or
	// "timestamp with time zone".
	DataType string
}

// Table describes the target table.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// Identifier returns the quoted schema-qualified name.
func (t *Table) Identifier() pgx.Identifier {
	return pgx.Identifier{t.Schema, t.Name}
}

// Querier runs a query. *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Inspector reads and caches table metadata from information_schema.
type Inspector struct {
	db    Querier
	mu    sync.RWMutex
	cache map[string]*Table
}

// NewInspector creates an Inspector over db.
func NewInspector(db Querier) *Inspector {
	return &Inspector{db: db, cache: map[string]*Table{}}
}

const columnsQuery = `
	SELECT column_name, data_type
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = $2
	ORDER BY ordinal_position`

// Table returns the columns of name, which is "table" or "schema.table".
func (i *Inspector) Table(ctx context.Context, name string) (*Table, error) {
	i.mu.RLock()
	if t, ok := i.cache[name]; ok {
		i.mu.RUnlock()
		return t, nil
	}
	i.mu.RUnlock()

	schema, table := SplitTableName(name)
	rows, err := i.db.Query(ctx, columnsQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s.%s: %w", schema, table, err)
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Column, error) {
		var c Column
		err := row.Scan(&c.Name, &c.DataType)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("inspect %s.%s: %w", schema, table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s.%s does not exist or has no columns", schema, table)
	}

	t := &Table{Schema: schema, Name: table, Columns: cols}
	i.mu.Lock()
	i.cache[name] = t
	i.mu.Unlock()
	return t, nil
}

// SplitTableName splits "schema.table"; the schema defaults to public.
func SplitTableName(name string) (schema, table string) {
	if s, t, ok := strings.Cut(name, "."); ok {
		return s, t
	}
	return "public", name
}
