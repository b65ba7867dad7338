// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package soql converts parameter values into SOQL literal text.
//
// Value is a sealed interface: only the variants declared here implement it, so
// Encode can switch over a closed set and report anything else as unsupported.
package soql

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// ErrUnsupportedValue is returned for values with no literal form.
var ErrUnsupportedValue = errors.New("unsupported value")

// Value is a parameter value. Sealed: only the types in this file implement it.
type Value interface {
	soqlValue()
}

// Int is an integer value.
type Int int64

func (Int) soqlValue() {}

// Float is a floating-point value.
type Float float64

func (Float) soqlValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) soqlValue() {}

// Null is the null value.
type Null struct{}

func (Null) soqlValue() {}

// String is a text value.
type String string

func (String) soqlValue() {}

// Date is a calendar date; only the year, month and day are used.
type Date time.Time

func (Date) soqlValue() {}

// DateTime is a timestamp rendered in its own location.
type DateTime time.Time

func (DateTime) soqlValue() {}

// Duration is an elapsed time.
type Duration time.Duration

func (Duration) soqlValue() {}

// Decimal is an arbitrary-precision decimal.
type Decimal struct {
	D *apd.Decimal
}

func (Decimal) soqlValue() {}

// List is an ordered sequence of values, rendered as an IN list.
type List []Value

func (List) soqlValue() {}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// NewDecimal parses s as a Decimal.
func NewDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("decimal %q: %w", s, err)
	}
	return Decimal{D: d}, nil
}

// FromNative converts a plain Go value into a Value.
// time.Time becomes a DateTime; use NewDate or Date(...) for dates.
func FromNative(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []byte:
		return String(x), nil
	case time.Time:
		return DateTime(x), nil
	case time.Duration:
		return Duration(x), nil
	case *apd.Decimal:
		if x == nil {
			return Null{}, nil
		}
		return Decimal{D: x}, nil
	case apd.Decimal:
		return Decimal{D: &x}, nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Int(n), nil
		}
		d, _, err := apd.NewFromString(x.String())
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrUnsupportedValue, x)
		}
		return Decimal{D: d}, nil
	case []any:
		out := make(List, 0, len(x))
		for i, e := range x {
			ev, err := FromNative(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, ev)
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, rv.Uint())
		}
		return Int(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		out := make(List, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, ev)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// FromNatives converts each of vs with FromNative.
func FromNatives(vs ...any) ([]Value, error) {
	out := make([]Value, 0, len(vs))
	for i, v := range vs {
		val, err := FromNative(v)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		out = append(out, val)
	}
	return out, nil
}
