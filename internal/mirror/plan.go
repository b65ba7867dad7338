// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package mirror

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"forcecursor/cli/internal/cursor"
)

const (
	// PKColumn receives Model.PK.
	PKColumn = "id"
	// TypeColumn receives Model.Type.
	TypeColumn = "sobject_type"
)

// Layouts accepted for date and timestamp columns.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type sourceKind int

const (
	fromField sourceKind = iota
	fromPK
	fromType
)

type source struct {
	kind     sourceKind
	column   string
	key      string // lower-cased field name
	dataType string
}

// Plan maps model values onto the columns of a table. Columns are matched
// to fields by case-insensitive name; fields without a column are dropped.
type Plan struct {
	columns []string
	sources []source
}

// NewPlan builds a Plan for every column of t.
func NewPlan(t *Table) *Plan {
	p := &Plan{}
	for _, c := range t.Columns {
		s := source{column: c.Name, key: strings.ToLower(c.Name), dataType: strings.ToLower(c.DataType)}
		switch s.key {
		case PKColumn:
			s.kind = fromPK
		case TypeColumn:
			s.kind = fromType
		}
		p.columns = append(p.columns, c.Name)
		p.sources = append(p.sources, s)
	}
	return p
}

// Columns returns the target column names in table order.
func (p *Plan) Columns() []string { return p.columns }

// Row converts m into values for Columns.
func (p *Plan) Row(m cursor.Model) ([]any, error) {
	fields := make(map[string]any, len(m.Fields))
	for k, v := range m.Fields {
		fields[strings.ToLower(k)] = v
	}

	row := make([]any, len(p.sources))
	for i, s := range p.sources {
		var v any
		switch s.kind {
		case fromPK:
			v = nilIfEmpty(m.PK)
		case fromType:
			v = nilIfEmpty(m.Type)
		default:
			v = fields[s.key]
		}
		conv, err := convert(v, s.dataType)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", s.column, err)
		}
		row[i] = conv
	}
	return row, nil
}

// Unmapped lists the fields of m that no column receives.
func (p *Plan) Unmapped(m cursor.Model) []string {
	known := make(map[string]bool, len(p.sources))
	for _, s := range p.sources {
		if s.kind == fromField {
			known[s.key] = true
		}
	}
	var out []string
	for k := range m.Fields {
		if !known[strings.ToLower(k)] {
			out = append(out, k)
		}
	}
	return out
}

// convert shapes a decoded JSON value for a column of the given data type.
func convert(v any, dataType string) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}

	switch {
	case dataType == "json" || dataType == "jsonb":
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case isText(dataType):
		return textOf(v), nil
	case isInteger(dataType):
		switch x := v.(type) {
		case json.Number:
			n, err := x.Int64()
			if err != nil {
				return nil, fmt.Errorf("%s is not a 64-bit integer", x)
			}
			return n, nil
		case float64:
			if x != math.Trunc(x) {
				return nil, fmt.Errorf("%v is not an integer", x)
			}
			if x < math.MinInt64 || x >= math.MaxInt64 {
				return nil, fmt.Errorf("%v is out of range for a 64-bit integer", x)
			}
			return int64(x), nil
		}
	case dataType == "numeric":
		if x, ok := v.(json.Number); ok {
			var n pgtype.Numeric
			if err := n.Scan(x.String()); err != nil {
				return nil, fmt.Errorf("%s is not numeric: %w", x, err)
			}
			return n, nil
		}
	case dataType == "date" || strings.HasPrefix(dataType, "timestamp"):
		if s, ok := v.(string); ok {
			return parseTime(s)
		}
	}

	if x, ok := v.(json.Number); ok {
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		return x.Float64()
	}
	return v, nil
}

func isInteger(dataType string) bool {
	return dataType == "smallint" || dataType == "integer" || dataType == "bigint"
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isText(dataType string) bool {
	return dataType == "text" || dataType == "character varying" || dataType == "character"
}

func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or timestamp", s)
}
