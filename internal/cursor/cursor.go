// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cursor exposes remote query results through a database-style cursor.
//
// A Cursor executes one RemoteCall and then hands out the decoded records one
// at a time or in batches. Exhaustion is sticky: once the records run out every
// fetch returns nothing until the cursor is executed again. A Cursor is not safe
// for concurrent use.
package cursor

import (
	"context"

	"forcecursor/cli/internal/rest"
)

// State is the lifecycle position of a Cursor.
type State int

const (
	// Idle means Execute has not been called.
	Idle State = iota
	// Executed means records may remain.
	Executed
	// Exhausted means every record has been handed out.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Executed:
		return "executed"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Invoker performs a RemoteCall and returns the decoded records.
type Invoker interface {
	Invoke(ctx context.Context, call rest.RemoteCall) ([]rest.Record, error)
}

// Cursor reads the records of one executed call.
type Cursor struct {
	invoker Invoker
	records []rest.Record
	pos     int
	state   State
}

// New returns an idle cursor that executes calls through inv.
func New(inv Invoker) *Cursor {
	return &Cursor{invoker: inv}
}

// State reports where the cursor is in its lifecycle.
func (c *Cursor) State() State { return c.state }

// Execute performs call and replaces any previous results.
// On error the cursor is left idle with no records.
func (c *Cursor) Execute(ctx context.Context, call rest.RemoteCall) error {
	c.records, c.pos, c.state = nil, 0, Idle

	records, err := c.invoker.Invoke(ctx, call)
	if err != nil {
		return err
	}
	c.records = records
	c.state = Executed
	return nil
}

// FetchOne returns the next record. ok is false once the records are
// exhausted, and stays false on every later call.
func (c *Cursor) FetchOne() (rec rest.Record, ok bool) {
	if c.state != Executed {
		return nil, false
	}
	if c.pos >= len(c.records) {
		c.exhaust()
		return nil, false
	}
	rec = c.records[c.pos]
	c.pos++
	return rec, true
}

// FetchMany returns up to size records. A size of zero means all remaining.
// The bound is checked before each read, so at most size records are consumed.
func (c *Cursor) FetchMany(size int) []rest.Record {
	if size < 0 {
		size = 0
	}
	out := make([]rest.Record, 0, c.batchCap(size))
	for size == 0 || len(out) < size {
		rec, ok := c.FetchOne()
		if !ok {
			break
		}
		out = append(out, rec)
	}
	return out
}

// FetchAll drains every remaining record.
func (c *Cursor) FetchAll() []rest.Record {
	return c.FetchMany(0)
}

// Remaining reports how many records have not been fetched yet.
func (c *Cursor) Remaining() int {
	if c.state != Executed {
		return 0
	}
	return len(c.records) - c.pos
}

func (c *Cursor) exhaust() {
	c.records = nil
	c.pos = 0
	c.state = Exhausted
}

func (c *Cursor) batchCap(size int) int {
	n := c.Remaining()
	if size > 0 && size < n {
		return size
	}
	return n
}
