package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"deadline", fmt.Errorf("select request: %w", context.DeadlineExceeded), ClassTimeout},
		{"client timeout", &url.Error{Op: "Get", URL: "https://x", Err: errors.New("Client.Timeout exceeded")}, ClassTimeout},
		{"dns", &url.Error{Op: "Get", URL: "https://x", Err: &net.DNSError{Err: "no such host", Name: "x"}}, ClassDNS},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, ClassRefused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), ClassTLS},
		{"other", errors.New("unexpected EOF"), ClassGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	assert.False(t, IsNetworkError(nil))
	assert.False(t, IsNetworkError(errors.New("malformed_query: bad field")))
	assert.True(t, IsNetworkError(&url.Error{Op: "Post", URL: "https://x", Err: errors.New("EOF")}))
	assert.True(t, IsNetworkError(context.DeadlineExceeded))
}

func TestFormatNetworkError(t *testing.T) {
	assert.NoError(t, FormatNetworkError(nil, "running the query", ""))

	base := errors.New("unexpected EOF")
	err := FormatNetworkError(base, "running the query", "https://na1.example.com")
	assert.ErrorIs(t, err, base)
	assert.ErrorContains(t, err, "network error")
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "na1.example.com", ExtractHostFromURL("https://na1.example.com/services/data"))
	assert.Equal(t, "the instance", ExtractHostFromURL(""))
	assert.Equal(t, "the instance", ExtractHostFromURL("::bad"))
}
