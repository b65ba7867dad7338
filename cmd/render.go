// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"forcecursor/cli/internal/cursor"
	"forcecursor/cli/internal/rest"
)

// tableData lays records out as a header row plus one row per record.
// Id comes first, the remaining fields follow in name order; the attributes
// object is left out.
func tableData(records []rest.Record) ([][]string, error) {
	models := make([]cursor.Model, 0, len(records))
	seen := map[string]bool{}
	var fields []string
	hasPK := false
	for i, rec := range records {
		m, err := cursor.ToModel(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if m.PK != "" {
			hasPK = true
		}
		for k := range m.Fields {
			if !seen[k] {
				seen[k] = true
				fields = append(fields, k)
			}
		}
		models = append(models, m)
	}
	sort.Strings(fields)

	header := make([]string, 0, len(fields)+1)
	if hasPK {
		header = append(header, "Id")
	}
	header = append(header, fields...)

	data := [][]string{header}
	for _, m := range models {
		row := make([]string, 0, len(header))
		if hasPK {
			row = append(row, m.PK)
		}
		for _, f := range fields {
			row = append(row, cell(m.Fields[f]))
		}
		data = append(data, row)
	}
	return data, nil
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
