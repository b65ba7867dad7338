// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forcecursor/cli/internal/cursor"
)

var contacts = &Table{
	Schema: "public",
	Name:   "contacts",
	Columns: []Column{
		{Name: "id", DataType: "character varying"},
		{Name: "sobject_type", DataType: "text"},
		{Name: "lastname", DataType: "text"},
		{Name: "age", DataType: "integer"},
		{Name: "score", DataType: "numeric"},
		{Name: "active", DataType: "boolean"},
		{Name: "created", DataType: "timestamp with time zone"},
		{Name: "owner", DataType: "jsonb"},
	},
}

func model(pk string, fields map[string]any) cursor.Model {
	return cursor.Model{Type: "Contact", PK: pk, Fields: fields}
}

func TestSplitTableName(t *testing.T) {
	s, tbl := SplitTableName("contacts")
	assert.Equal(t, "public", s)
	assert.Equal(t, "contacts", tbl)

	s, tbl = SplitTableName("crm.contacts")
	assert.Equal(t, "crm", s)
	assert.Equal(t, "contacts", tbl)
}

func TestPlan_Row(t *testing.T) {
	p := NewPlan(contacts)
	assert.Equal(t, []string{"id", "sobject_type", "lastname", "age", "score", "active", "created", "owner"}, p.Columns())

	row, err := p.Row(model("003A", map[string]any{
		"LastName":       "Smith",
		"Age":            float64(42),
		"Score":          12.5,
		"Active":         true,
		"Created":        "2024-03-01T12:30:00.000+0000",
		"Owner":          map[string]any{"Name": "Ann"},
		"MailingCountry": "NZ",
	}))
	require.NoError(t, err)
	require.Len(t, row, 8)
	assert.Equal(t, []any{"003A", "Contact", "Smith", int64(42), 12.5, true}, row[:6])
	created, ok := row[6].(time.Time)
	require.True(t, ok, "created is %T", row[6])
	assert.True(t, created.Equal(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, `{"Name":"Ann"}`, row[7])
}

func TestPlan_RowMissingValues(t *testing.T) {
	p := NewPlan(contacts)

	row, err := p.Row(cursor.Model{Fields: map[string]any{"LastName": nil}})
	require.NoError(t, err)
	for i, v := range row {
		assert.Nil(t, v, "column %s", p.Columns()[i])
	}
}

func TestPlan_RowErrors(t *testing.T) {
	p := NewPlan(contacts)

	_, err := p.Row(model("003A", map[string]any{"Age": 4.5}))
	assert.ErrorContains(t, err, "column age")

	_, err = p.Row(model("003A", map[string]any{"Created": "yesterday"}))
	assert.ErrorContains(t, err, "column created")
}

func TestPlan_TextColumnsStringify(t *testing.T) {
	p := NewPlan(&Table{Schema: "public", Name: "t", Columns: []Column{
		{Name: "amount", DataType: "text"},
		{Name: "flag", DataType: "character varying"},
	}})

	row, err := p.Row(model("", map[string]any{"amount": 1500.25, "flag": false}))
	require.NoError(t, err)
	assert.Equal(t, []any{"1500.25", "false"}, row)
}

func TestPlan_RowExactNumbers(t *testing.T) {
	p := NewPlan(&Table{Schema: "public", Name: "t", Columns: []Column{
		{Name: "big", DataType: "bigint"},
		{Name: "label", DataType: "text"},
		{Name: "amount", DataType: "numeric"},
		{Name: "ratio", DataType: "double precision"},
	}})

	row, err := p.Row(model("", map[string]any{
		"big":    json.Number("123456789012345678"),
		"label":  json.Number("123456789012345678"),
		"amount": json.Number("12.50"),
		"ratio":  json.Number("0.25"),
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(123456789012345678), row[0])
	assert.Equal(t, "123456789012345678", row[1])
	amount, ok := row[2].(pgtype.Numeric)
	require.True(t, ok, "amount is %T", row[2])
	f, err := amount.Float64Value()
	require.NoError(t, err)
	assert.Equal(t, 12.5, f.Float64)
	assert.Equal(t, 0.25, row[3])
}

func TestPlan_RowIntegerRange(t *testing.T) {
	p := NewPlan(&Table{Schema: "public", Name: "t", Columns: []Column{{Name: "big", DataType: "bigint"}}})

	_, err := p.Row(model("", map[string]any{"big": json.Number("9223372036854775808")}))
	assert.ErrorContains(t, err, "not a 64-bit integer")

	_, err = p.Row(model("", map[string]any{"big": 1e19}))
	assert.ErrorContains(t, err, "out of range")

	_, err = p.Row(model("", map[string]any{"big": -1e19}))
	assert.ErrorContains(t, err, "out of range")
}

func TestPlan_Unmapped(t *testing.T) {
	p := NewPlan(contacts)
	got := p.Unmapped(model("003A", map[string]any{"LastName": "Smith", "MailingCountry": "NZ"}))
	assert.Equal(t, []string{"MailingCountry"}, got)
}

type fakeCopier struct {
	table pgx.Identifier
	cols  []string
	rows  [][]any
	calls int
	err   error
}

func (f *fakeCopier) CopyFrom(_ context.Context, table pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	f.calls++
	f.table = table
	f.cols = cols
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for src.Next() {
		v, err := src.Values()
		if err != nil {
			return n, err
		}
		f.rows = append(f.rows, v)
		n++
	}
	return n, src.Err()
}

func seqOf(models []cursor.Model, tail error) iter.Seq2[cursor.Model, error] {
	return func(yield func(cursor.Model, error) bool) {
		for _, m := range models {
			if !yield(m, nil) {
				return
			}
		}
		if tail != nil {
			yield(cursor.Model{}, tail)
		}
	}
}

func names(n int) []cursor.Model {
	out := make([]cursor.Model, n)
	for i := range out {
		out[i] = model(string(rune('a'+i)), map[string]any{"LastName": string(rune('A' + i))})
	}
	return out
}

func TestWriter_Batches(t *testing.T) {
	dst := &fakeCopier{}
	w := NewWriter(dst, contacts, NewPlan(contacts), 2, nil)
	var progress []int64
	w.OnBatch = func(total int64) { progress = append(progress, total) }

	n, err := w.Write(context.Background(), seqOf(names(5), nil))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, 3, dst.calls)
	assert.Equal(t, []int64{2, 4, 5}, progress)
	assert.Equal(t, pgx.Identifier{"public", "contacts"}, dst.table)
	require.Len(t, dst.rows, 5)
	for i, row := range dst.rows {
		assert.Equal(t, string(rune('a'+i)), row[0])
		assert.Equal(t, string(rune('A'+i)), row[2])
	}
}

func TestWriter_Empty(t *testing.T) {
	dst := &fakeCopier{}
	n, err := NewWriter(dst, contacts, NewPlan(contacts), 10, nil).Write(context.Background(), seqOf(nil, nil))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, dst.calls)
}

func TestWriter_StopsOnModelError(t *testing.T) {
	dst := &fakeCopier{}
	boom := errors.New("record 3: attributes is string, not an object")

	n, err := NewWriter(dst, contacts, NewPlan(contacts), 2, nil).Write(context.Background(), seqOf(names(3), boom))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(2), n, "only the full batch was flushed")
	assert.Equal(t, 1, dst.calls)
}

func TestWriter_CopyError(t *testing.T) {
	dst := &fakeCopier{err: errors.New("relation does not exist")}

	_, err := NewWriter(dst, contacts, NewPlan(contacts), 10, nil).Write(context.Background(), seqOf(names(1), nil))
	assert.ErrorContains(t, err, `copy into "public"."contacts"`)
	assert.ErrorContains(t, err, "relation does not exist")
}
