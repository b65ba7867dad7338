// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures into readable terminal messages.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Class is the category of a network failure.
type Class int

const (
	ClassGeneric Class = iota
	ClassTimeout
	ClassDNS
	ClassRefused
	ClassTLS
)

// Classify returns the category of err.
func Classify(err error) Class {
	switch {
	case isTimeoutError(err):
		return ClassTimeout
	case isDNSError(err):
		return ClassDNS
	case isConnectionRefusedError(err):
		return ClassRefused
	case isTLSError(err):
		return ClassTLS
	default:
		return ClassGeneric
	}
}

// IsNetworkError reports whether err came from the network rather than from
// a remote response.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if Classify(err) != ClassGeneric {
		return true
	}
	var urlErr *url.Error
	var opErr *net.OpError
	return errors.As(err, &urlErr) || errors.As(err, &opErr)
}

// FormatNetworkError prints a message for err and returns it wrapped.
// action describes what was being done ("running the query"); instanceURL
// names the host in the message.
func FormatNetworkError(err error, action, instanceURL string) error {
	if err == nil {
		return nil
	}
	host := ExtractHostFromURL(instanceURL)

	switch Classify(err) {
	case ClassTimeout:
		pterm.Printf("⏱️  Timed out while %s\n\n", action)
		pterm.Printf("%s did not answer in time. Raise timeout_seconds in the config file\n", host)
		pterm.Println("or try again when the instance is less busy.")
	case ClassDNS:
		pterm.Printf("🌐 Cannot resolve %s while %s\n\n", host, action)
		pterm.Println("Check the instance URL and your DNS settings.")
	case ClassRefused:
		pterm.Printf("🚫 Connection to %s refused while %s\n\n", host, action)
		pterm.Println("Check the instance URL and any proxy or firewall in between.")
	case ClassTLS:
		pterm.Printf("🔒 Secure connection to %s failed while %s\n\n", host, action)
		pterm.Println("Check your system clock and proxy settings.")
	default:
		pterm.Printf("❌ Cannot reach %s while %s\n\n", host, action)
		details := err.Error()
		if len(details) > 100 {
			details = details[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", details)
	}
	pterm.Println()

	return fmt.Errorf("network error: %w", err)
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") ||
		strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate") ||
		strings.Contains(s, "handshake")
}

// ExtractHostFromURL extracts the host from a URL for messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the instance"
	}
	return u.Host
}
