// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package soql

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) Decimal {
	t.Helper()
	d, err := NewDecimal(s)
	require.NoError(t, err)
	return d
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float fraction", Float(0.1), "0.1"},
		{"float whole", Float(100), "100"},
		{"float third", Float(1.0 / 3), "0.333333333333333"},
		{"float large", Float(1e20), "1e+20"},
		{"float small", Float(1e-5), "1e-05"},
		{"bool true", Bool(true), "1"},
		{"bool false", Bool(false), "0"},
		{"null", Null{}, "NULL"},
		{"string", String("hello"), "'hello'"},
		{"string with quote", String("O'Brien"), "'O''Brien'"},
		{"string only quotes", String("''"), "''''''"},
		{"empty string", String(""), "''"},
		{"date", NewDate(2024, time.January, 31), "'2024-01-31'"},
		{"datetime", DateTime(time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)), "'2024-03-05 07:08:09'"},
		{"datetime keeps zone", DateTime(time.Date(2024, 3, 5, 23, 0, 0, 0, time.FixedZone("X", -5*3600))), "'2024-03-05 23:00:00'"},
		{"duration", Duration(26*time.Hour + 3*time.Minute + 4*time.Second), "'1 2:3:4'"},
		{"duration zero", Duration(0), "'0 0:0:0'"},
		{"duration negative", Duration(-time.Second), "'-1 23:59:59'"},
		{"decimal", mustDecimal(t, "12.50"), "12.50"},
		{"decimal exponent", mustDecimal(t, "1E+3"), "1000"},
		{"list", List{Int(1), String("a'b"), Null{}}, "(1,'a''b',NULL)"},
		{"nested list", List{List{Int(1), Int(2)}, Bool(true)}, "((1,2),1)"},
		{"empty list", List{}, "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, got, again, "encoding must be deterministic")
		})
	}
}

func TestEncode_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		value Value
	}{
		{"nil", nil},
		{"nan", Float(math.NaN())},
		{"inf", Float(math.Inf(1))},
		{"nil decimal", Decimal{}},
		{"list with bad element", List{Int(1), nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.value)
			assert.ErrorIs(t, err, ErrUnsupportedValue)
		})
	}
}

// parseLiteral is a reference reader for the literal grammar, covering the
// numeric, string, null and date forms.
func parseLiteral(t *testing.T, lit string) any {
	t.Helper()
	switch {
	case lit == "NULL":
		return nil
	case strings.HasPrefix(lit, "'") && strings.HasSuffix(lit, "'") && len(lit) >= 2:
		body := lit[1 : len(lit)-1]
		require.NotContains(t, strings.ReplaceAll(body, "''", ""), "'", "unescaped quote in %s", lit)
		s := strings.ReplaceAll(body, "''", "'")
		if d, err := time.Parse(dateLayout, s); err == nil {
			return d
		}
		return s
	default:
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return n
		}
		f, err := strconv.ParseFloat(lit, 64)
		require.NoError(t, err, "not a numeric literal: %s", lit)
		return f
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		value Value
		want  any
	}{
		{Int(123), int64(123)},
		{Int(-9), int64(-9)},
		{Float(2.5), 2.5},
		{Float(1e-7), 1e-7},
		{Null{}, nil},
		{String("it's"), "it's"},
		{String("a''b"), "a''b"},
		{NewDate(1999, time.December, 31), time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		lit, err := Encode(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, parseLiteral(t, lit), "literal %s", lit)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		params []Value
		want   string
	}{
		{
			name:   "no params",
			text:   "SELECT Id FROM Contact",
			params: nil,
			want:   "SELECT Id FROM Contact",
		},
		{
			name:   "positional",
			text:   "SELECT Id FROM Contact WHERE LastName = %s AND Age > %s",
			params: []Value{String("O'Brien"), Int(30)},
			want:   "SELECT Id FROM Contact WHERE LastName = 'O''Brien' AND Age > 30",
		},
		{
			name:   "in list",
			text:   "SELECT Id FROM Account WHERE Id IN %s",
			params: []Value{List{String("a"), String("b")}},
			want:   "SELECT Id FROM Account WHERE Id IN ('a','b')",
		},
		{
			name:   "escaped percent",
			text:   "SELECT Id FROM Account WHERE Name LIKE '50%%' AND Id = %s",
			params: []Value{String("x")},
			want:   "SELECT Id FROM Account WHERE Name LIKE '50%' AND Id = 'x'",
		},
		{
			name:   "trailing percent",
			text:   "SELECT Id FROM Account WHERE Name LIKE 'a%",
			params: nil,
			want:   "SELECT Id FROM Account WHERE Name LIKE 'a%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.text, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_ParamCountMismatch(t *testing.T) {
	_, err := Render("SELECT Id FROM A WHERE X = %s AND Y = %s", []Value{Int(1)})
	assert.ErrorContains(t, err, "not enough parameters")

	_, err = Render("SELECT Id FROM A", []Value{Int(1)})
	assert.ErrorContains(t, err, "too many parameters")

	_, err = Render("SELECT Id FROM A WHERE X = %s", []Value{nil})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
