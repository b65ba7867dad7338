// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cursor

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"forcecursor/cli/internal/rest"
)

const (
	// DefaultChunkSize is how many records Models reads per batch.
	DefaultChunkSize = 100

	attributesField = "attributes"
	pkField         = "Id"
)

// ErrNotExecuted is yielded by Models on a cursor that was never executed.
var ErrNotExecuted = errors.New("cursor has not been executed")

// Model is a record reshaped for the materialization layer: the type
// discriminator and primary key are lifted out and the rest is left flat.
type Model struct {
	Type   string
	PK     string
	Fields map[string]any
}

// ToModel strips the attributes object and the Id field from rec.
// rec itself is not modified.
func ToModel(rec rest.Record) (Model, error) {
	var m Model

	if raw, ok := rec[attributesField]; ok && raw != nil {
		attrs, ok := raw.(map[string]any)
		if !ok {
			return Model{}, fmt.Errorf("%s is %T, not an object", attributesField, raw)
		}
		if t, ok := attrs["type"]; ok && t != nil {
			s, ok := t.(string)
			if !ok {
				return Model{}, fmt.Errorf("%s.type is %T, not a string", attributesField, t)
			}
			m.Type = s
		}
	}

	if raw, ok := rec[pkField]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return Model{}, fmt.Errorf("%s is %T, not a string", pkField, raw)
		}
		m.PK = s
	}

	m.Fields = maps.Clone(rec)
	if m.Fields == nil {
		m.Fields = map[string]any{}
	}
	delete(m.Fields, attributesField)
	delete(m.Fields, pkField)
	return m, nil
}

// Models drains the cursor chunkSize records at a time and yields each record
// as a Model. A chunkSize of zero or less means DefaultChunkSize. Iteration
// stops at the first shaping error or when the consumer breaks.
func (c *Cursor) Models(chunkSize int) iter.Seq2[Model, error] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return func(yield func(Model, error) bool) {
		if c.state == Idle {
			yield(Model{}, ErrNotExecuted)
			return
		}
		n := 0
		for {
			batch := c.FetchMany(chunkSize)
			for _, rec := range batch {
				m, err := ToModel(rec)
				if err != nil {
					yield(Model{}, fmt.Errorf("record %d: %w", n, err))
					return
				}
				n++
				if !yield(m, nil) {
					return
				}
			}
			if len(batch) < chunkSize {
				return
			}
		}
	}
}
