package backend

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/text/encoding/htmlindex"

	"forcecursor/cli/internal/logging"
)

const (
	defaultTimeout = 30 * time.Second
	defaultCharset = "utf-8"
	// maxBody caps how much of a response is read.
	maxBody = 64 << 20
)

// HTTP implements API over the REST endpoints.
// It holds no per-call state and performs no retries.
type HTTP struct {
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	// charset is the fallback response charset
	charset string
	log     *pterm.Logger
}

var _ API = (*HTTP)(nil)

// newHTTP creates a new HTTP client from opts.
func newHTTP(opts Options) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	charset := strings.TrimSpace(opts.Charset)
	if charset == "" {
		charset = defaultCharset
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &HTTP{
		client:  &http.Client{Timeout: timeout},
		charset: charset,
		log:     log,
	}
}

// do sends req and returns the status and the body decoded to UTF-8.
func (h *HTTP) do(req *http.Request) (int, []byte, error) {
	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	h.log.Trace("response", h.log.Args(
		"method", req.Method,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	))

	body, err := h.decode(resp.Header.Get("Content-Type"), raw)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// decode converts raw from the charset named in contentType, or the
// configured fallback, to UTF-8.
func (h *HTTP) decode(contentType string, raw []byte) ([]byte, error) {
	name := h.charset
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil && params["charset"] != "" {
			name = params["charset"]
		}
	}
	if strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return raw, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported response charset %q: %w", name, err)
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", name, err)
	}
	return out, nil
}
