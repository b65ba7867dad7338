// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"time"

	"github.com/pterm/pterm"
)

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration
	// Charset is used for responses whose Content-Type names none.
	// Empty means utf-8.
	Charset string
	// Logger receives request diagnostics. Nil discards them.
	Logger *pterm.Logger
}

// New creates the REST client.
func New(opts Options) *HTTP {
	return newHTTP(opts)
}
