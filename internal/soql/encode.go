// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package soql

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Encode renders v as a SOQL literal.
//
// The result is meant for display and for inline query text only; request
// bodies are built from JSON, never from these literals.
func Encode(v Value) (string, error) {
	switch x := v.(type) {
	case Int:
		return strconv.FormatInt(int64(x), 10), nil
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: float %v", ErrUnsupportedValue, f)
		}
		return strconv.FormatFloat(f, 'g', 15, 64), nil
	case Bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case Null:
		return "NULL", nil
	case String:
		return Quote(string(x)), nil
	case Date:
		return Quote(time.Time(x).Format(dateLayout)), nil
	case DateTime:
		return Quote(time.Time(x).Format(dateTimeLayout)), nil
	case Duration:
		return Quote(formatDuration(time.Duration(x))), nil
	case Decimal:
		if x.D == nil || x.D.Form != apd.Finite {
			return "", fmt.Errorf("%w: decimal %v", ErrUnsupportedValue, x.D)
		}
		return x.D.Text('f'), nil
	case List:
		parts := make([]string, len(x))
		for i, e := range x {
			s, err := Encode(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, ",") + ")", nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Quote wraps s in single quotes, doubling embedded quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// formatDuration renders "D H:M:S" with whole days floored, so the
// clock part is always in [0, 24h).
func formatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if d%time.Second < 0 {
		secs--
	}
	days := secs / 86400
	rem := secs % 86400
	if rem < 0 {
		days--
		rem += 86400
	}
	return fmt.Sprintf("%d %d:%d:%d", days, (rem/3600)%24, (rem/60)%60, rem%60)
}

// Render substitutes each %s placeholder in text with the encoded literal of
// the matching parameter. %% stands for a literal percent sign.
func Render(text string, params []Value) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	next := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '%' || i+1 >= len(text) {
			b.WriteByte(c)
			continue
		}
		switch text[i+1] {
		case '%':
			b.WriteByte('%')
			i++
		case 's':
			if next >= len(params) {
				return "", fmt.Errorf("not enough parameters: placeholder %d has no value", next+1)
			}
			lit, err := Encode(params[next])
			if err != nil {
				return "", fmt.Errorf("param %d: %w", next, err)
			}
			b.WriteString(lit)
			next++
			i++
		default:
			b.WriteByte(c)
		}
	}

	if next != len(params) {
		return "", fmt.Errorf("too many parameters: %d given, %d used", len(params), next)
	}
	return b.String(), nil
}
