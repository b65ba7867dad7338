package logging

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "forcecursor/cli/internal/errors"
)

func TestPresentError(t *testing.T) {
	if got := PresentError("query", nil); got != "" {
		t.Errorf("nil error = %q, want empty", got)
	}

	got := PresentError("query", errors.New("GET https://x/q?access_token=abc123 failed"))
	if got != "query: GET https://x/q?access_token=*** failed" {
		t.Errorf("masked = %q", got)
	}

	got = PresentError("", fmt.Errorf("select: %w", apperrors.New(apperrors.Unauthorized, "Session expired or invalid")))
	if !strings.HasPrefix(got, "select: unauthorized: Session expired or invalid\n") {
		t.Errorf("remote = %q", got)
	}
	if !strings.Contains(got, "forcecursor login") {
		t.Errorf("missing login hint: %q", got)
	}

	got = PresentError("", apperrors.Unsupported("statement %q", "UPDATE"))
	if !strings.Contains(got, "SELECT, INSERT and DELETE") {
		t.Errorf("missing unsupported hint: %q", got)
	}
}
