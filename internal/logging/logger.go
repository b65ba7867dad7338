// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Log formats accepted by New.
const (
	FormatColorful = "colorful"
	FormatJSON     = "json"
)

// ParseLevel maps a level name to a pterm log level.
// The empty string means info.
func ParseLevel(name string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled, nil
	default:
		return pterm.LogLevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New builds a logger writing to w (stderr when nil).
// Unknown levels fall back to info and unknown formats to colorful.
func New(level, format string, w io.Writer) *pterm.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, _ := ParseLevel(level)

	formatter := pterm.LogFormatterColorful
	if strings.EqualFold(strings.TrimSpace(format), FormatJSON) {
		formatter = pterm.LogFormatterJSON
	}

	return pterm.DefaultLogger.
		WithLevel(lvl).
		WithWriter(w).
		WithFormatter(formatter)
}

// Discard returns a logger that prints nothing.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard)
}
