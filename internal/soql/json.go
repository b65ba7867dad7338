// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package soql

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// JSON converts v into the value encoding/json should emit for it in a
// request body. Numbers stay numbers and strings are not quoted SOQL-style.
func JSON(v Value) (any, error) {
	switch x := v.(type) {
	case Int:
		return int64(x), nil
	case Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: float %v", ErrUnsupportedValue, f)
		}
		return f, nil
	case Bool:
		return bool(x), nil
	case Null:
		return nil, nil
	case String:
		return string(x), nil
	case Date:
		return time.Time(x).Format(dateLayout), nil
	case DateTime:
		return time.Time(x).Format("2006-01-02T15:04:05.000Z07:00"), nil
	case Duration:
		return formatDuration(time.Duration(x)), nil
	case Decimal:
		if x.D == nil || x.D.Form != apd.Finite {
			return nil, fmt.Errorf("%w: decimal %v", ErrUnsupportedValue, x.D)
		}
		return json.Number(x.D.Text('f')), nil
	case List:
		out := make([]any, len(x))
		for i, e := range x {
			j, err := JSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
