// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package rest turns query intents into REST calls against the object store.
// A QueryIntent is what the query compiler hands over: text, positional
// parameters and, for writes, the collection and row data. Router.Route maps
// it to exactly one RemoteCall without doing any I/O.
package rest

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"forcecursor/cli/internal/soql"
)

// Operation is the kind of statement an intent carries.
type Operation string

const (
	// OpUnknown means the operation is sniffed from the text when routing.
	OpUnknown Operation = ""
	OpSelect  Operation = "SELECT"
	OpInsert  Operation = "INSERT"
	OpDelete  Operation = "DELETE"
)

// Fields is an insertion-ordered column -> value mapping.
type Fields = orderedmap.OrderedMap[string, soql.Value]

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return orderedmap.New[string, soql.Value]()
}

// QueryIntent is a compiled statement ready for routing.
// Route never modifies it.
type QueryIntent struct {
	Operation Operation
	// Text is the parameterized query text, with %s placeholders.
	Text   string
	Params []soql.Value
	// Collection is the target object name (Insert, Delete).
	Collection string
	// Fields holds the row to create (Insert).
	Fields *Fields
	// Key is the primary key of the row to remove (Delete).
	Key string
}

// Select builds a Select intent.
func Select(text string, params ...soql.Value) QueryIntent {
	return QueryIntent{Operation: OpSelect, Text: text, Params: params}
}

// Insert builds an Insert intent. The text and params mirror the fields so
// the statement can be rendered for logs.
func Insert(collection string, fields *Fields) QueryIntent {
	intent := QueryIntent{Operation: OpInsert, Collection: collection, Fields: fields}
	if fields == nil {
		return intent
	}
	cols := make([]string, 0, fields.Len())
	marks := make([]string, 0, fields.Len())
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		cols = append(cols, pair.Key)
		marks = append(marks, "%s")
		intent.Params = append(intent.Params, pair.Value)
	}
	intent.Text = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		collection, strings.Join(cols, ","), strings.Join(marks, ","))
	return intent
}

// Delete builds a Delete intent for the row with the given key.
func Delete(collection, key string) QueryIntent {
	return QueryIntent{
		Operation:  OpDelete,
		Text:       fmt.Sprintf("DELETE FROM %s WHERE Id = %%s", collection),
		Params:     []soql.Value{soql.String(key)},
		Collection: collection,
		Key:        key,
	}
}

// Sniff builds an intent from bare text, leaving the operation to be
// detected from its first keyword.
func Sniff(text string, params ...soql.Value) QueryIntent {
	return QueryIntent{Text: text, Params: params}
}

// DetectOperation returns the operation named by the first token of text,
// case-insensitively, or OpUnknown.
func DetectOperation(text string) Operation {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return OpUnknown
	}
	switch op := Operation(strings.ToUpper(fields[0])); op {
	case OpSelect, OpInsert, OpDelete:
		return op
	default:
		return OpUnknown
	}
}

// DebugText renders the intent with its parameters inlined as literals.
// Without parameters the text is returned as written, so a bare % (as in a
// LIKE pattern) needs no escaping.
func (q QueryIntent) DebugText() (string, error) {
	if len(q.Params) == 0 {
		return q.Text, nil
	}
	return soql.Render(q.Text, q.Params)
}
