// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package soql

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseParam parses a typed parameter of the form "type:value".
//
//	int:42  float:1.5  bool:true  null  str:O'Brien  date:2024-01-31
//	datetime:2024-01-31 10:00:00  duration:90m  decimal:12.50  list:int:1,int:2
//
// Input without a known type prefix is taken as a String.
func ParseParam(spec string) (Value, error) {
	if spec == "null" {
		return Null{}, nil
	}
	typ, raw, ok := strings.Cut(spec, ":")
	if !ok {
		return String(spec), nil
	}

	switch typ {
	case "int":
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("int param %q: %w", raw, err)
		}
		return Int(n), nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("float param %q: %w", raw, err)
		}
		return Float(f), nil
	case "bool":
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("bool param %q: %w", raw, err)
		}
		return Bool(b), nil
	case "str":
		return String(raw), nil
	case "date":
		t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("date param %q: %w", raw, err)
		}
		return Date(t), nil
	case "datetime":
		t, err := parseDateTime(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("datetime param %q: %w", raw, err)
		}
		return DateTime(t), nil
	case "duration":
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("duration param %q: %w", raw, err)
		}
		return Duration(d), nil
	case "decimal":
		return NewDecimal(strings.TrimSpace(raw))
	case "list":
		if raw == "" {
			return List{}, nil
		}
		var out List
		for _, part := range strings.Split(raw, ",") {
			v, err := ParseParam(part)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return String(spec), nil
	}
}

// parseDateTime accepts the literal layout and RFC 3339. Naive input is
// read in the local zone.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
