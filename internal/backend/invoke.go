// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "forcecursor/cli/internal/errors"
	"forcecursor/cli/internal/logging"
	"forcecursor/cli/internal/rest"
)

// queryResponse is the body of a successful query.
type queryResponse struct {
	TotalSize      int           `json:"totalSize"`
	Done           bool          `json:"done"`
	NextRecordsURL string        `json:"nextRecordsUrl"`
	Records        []rest.Record `json:"records"`
}

// createResponse is the body of a successful insert.
type createResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// remoteFault is one element of the error array the API returns on rejection.
type remoteFault struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// Invoke performs call as a single blocking request. It never retries.
// Transport failures are returned wrapped; remote rejections as *errors.RemoteError.
func (h *HTTP) Invoke(ctx context.Context, call rest.RemoteCall) ([]rest.Record, error) {
	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}
	req, err := http.NewRequestWithContext(ctx, call.Method, call.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", strings.ToLower(string(call.Operation)), err)
	}
	for k, v := range call.Header {
		req.Header[k] = []string{v}
	}
	req.Header.Set("Accept", "application/json")

	h.log.Debug("hitting API", h.log.Args("method", call.Method, "url", logging.Mask(call.URL)))

	status, payload, err := h.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", strings.ToLower(string(call.Operation)), err)
	}

	if rerr := classify(status, payload); rerr != nil {
		if rerr.Kind.Empty() {
			h.log.Error("resource unavailable", h.log.Args(
				"kind", string(rerr.Kind),
				"status", status,
				"url", logging.Mask(call.URL),
				"payload", logging.Mask(rerr.Payload),
			))
			return nil, nil
		}
		return nil, rerr
	}

	switch call.Operation {
	case rest.OpSelect:
		// Numbers stay json.Number so 18-digit integers survive decoding.
		var out queryResponse
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode query response: %w", err)
		}
		if !out.Done && out.NextRecordsURL != "" {
			h.log.Warn("result set has more pages than were returned", h.log.Args(
				"total", out.TotalSize,
				"returned", len(out.Records),
			))
		}
		return out.Records, nil

	case rest.OpInsert:
		var out createResponse
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &out); err == nil {
				h.log.Debug("created", h.log.Args("id", out.ID, "success", out.Success))
			}
		}
		return nil, nil

	default:
		return nil, nil
	}
}

// classify maps a non-2xx response to a RemoteError. It returns nil on success.
func classify(status int, payload []byte) *apperrors.RemoteError {
	if status >= 200 && status < 300 {
		return nil
	}
	raw := strings.TrimSpace(string(payload))

	switch status {
	case http.StatusNotFound:
		return &apperrors.RemoteError{Kind: apperrors.NotFound, Message: faultMessage(payload), Payload: raw, Status: status}
	case http.StatusGone:
		return &apperrors.RemoteError{Kind: apperrors.Gone, Message: faultMessage(payload), Payload: raw, Status: status}
	case http.StatusUnauthorized:
		msg := faultMessage(payload)
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &apperrors.RemoteError{Kind: apperrors.Unauthorized, Message: msg, Payload: raw, Status: status}
	}

	var faults []remoteFault
	if err := json.Unmarshal(payload, &faults); err != nil || len(faults) == 0 {
		if raw == "" {
			raw = fmt.Sprintf("%d %s", status, http.StatusText(status))
		}
		return &apperrors.RemoteError{Kind: apperrors.Generic, Payload: raw, Status: status}
	}

	first := faults[0]
	kind := apperrors.KindForCode(first.ErrorCode)
	rerr := &apperrors.RemoteError{Kind: kind, Message: first.Message, Status: status}
	if kind == apperrors.Generic {
		rerr.Payload = raw
	}
	return rerr
}

// faultMessage returns the first message of an error array, or "".
func faultMessage(payload []byte) string {
	var faults []remoteFault
	if err := json.Unmarshal(payload, &faults); err != nil || len(faults) == 0 {
		return ""
	}
	return faults[0].Message
}
