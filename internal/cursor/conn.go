// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cursor

import (
	"context"

	"github.com/pterm/pterm"

	"forcecursor/cli/internal/logging"
	"forcecursor/cli/internal/rest"
)

// Conn binds a router, an invoker and a credential so callers can run intents
// without building RemoteCalls themselves. The credential is only read.
type Conn struct {
	Invoker    Invoker
	Router     rest.Router
	Credential rest.Credential
	Log        *pterm.Logger
}

// NewConn returns a Conn for the given API version.
func NewConn(inv Invoker, cred rest.Credential, apiVersion string, log *pterm.Logger) *Conn {
	if log == nil {
		log = logging.Discard()
	}
	return &Conn{
		Invoker:    inv,
		Router:     rest.NewRouter(apiVersion),
		Credential: cred,
		Log:        log,
	}
}

// Cursor returns a new idle cursor on this connection.
func (c *Conn) Cursor() *Cursor {
	return New(c.Invoker)
}

// Execute routes intent and runs it on a new cursor.
// Routing failures are returned before any request is sent.
func (c *Conn) Execute(ctx context.Context, intent rest.QueryIntent) (*Cursor, error) {
	call, err := c.Router.Route(intent, c.Credential)
	if err != nil {
		return nil, err
	}

	if c.Log != nil && c.Log.CanPrint(pterm.LogLevelDebug) {
		args := []any{"operation", string(call.Operation)}
		if text, err := intent.DebugText(); err != nil {
			args = append(args, "render_error", err.Error())
		} else {
			args = append(args, "query", text)
		}
		c.Log.Debug("executing", c.Log.Args(args...))
	}

	cur := c.Cursor()
	if err := cur.Execute(ctx, call); err != nil {
		return nil, err
	}
	return cur, nil
}
