// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cursor

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forcecursor/cli/internal/backend"
	apperrors "forcecursor/cli/internal/errors"
	"forcecursor/cli/internal/logging"
	"forcecursor/cli/internal/rest"
	"forcecursor/cli/internal/soql"
)

func serve(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestConn_NotFoundIsEmpty(t *testing.T) {
	srv, hits := serve(t, http.StatusNotFound, `[{"errorCode":"NOT_FOUND","message":"The requested resource does not exist"}]`)
	conn := NewConn(backend.New(backend.Options{}), rest.Credential{AccessToken: "t", InstanceURL: srv.URL}, "", nil)

	cur, err := conn.Execute(context.Background(), rest.Select("SELECT Id FROM Contact"))
	require.NoError(t, err)
	assert.Equal(t, []rest.Record{}, cur.FetchAll())
	assert.Equal(t, int32(1), hits.Load())
}

func TestConn_MalformedQuery(t *testing.T) {
	srv, _ := serve(t, http.StatusBadRequest, `[{"message":"bad field","errorCode":"MALFORMED_QUERY"}]`)
	conn := NewConn(backend.New(backend.Options{}), rest.Credential{AccessToken: "t", InstanceURL: srv.URL}, "", nil)

	_, err := conn.Execute(context.Background(), rest.Select("SELECT Nope FROM Contact"))
	require.ErrorIs(t, err, apperrors.ErrSyntax)

	rerr, ok := apperrors.AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.MalformedQuery, rerr.Kind)
	assert.Equal(t, "bad field", rerr.Message)
}

func TestConn_DebugLogsRenderError(t *testing.T) {
	srv, hits := serve(t, http.StatusNoContent, "")
	var buf bytes.Buffer
	conn := NewConn(backend.New(backend.Options{}), rest.Credential{AccessToken: "t", InstanceURL: srv.URL}, "", logging.New("debug", logging.FormatJSON, &buf))

	intent := rest.Delete("Contact", "003A")
	intent.Params = append(intent.Params, soql.Int(2))

	_, err := conn.Execute(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	out := buf.String()
	assert.Contains(t, out, `"msg":"executing"`)
	assert.Contains(t, out, `"render_error":"too many parameters: 2 given, 1 used"`)
	assert.NotContains(t, out, `"query"`)
}

func TestConn_DeleteWithoutKeyMakesNoRequest(t *testing.T) {
	srv, hits := serve(t, http.StatusNoContent, "")
	conn := NewConn(backend.New(backend.Options{}), rest.Credential{AccessToken: "t", InstanceURL: srv.URL}, "", nil)

	_, err := conn.Execute(context.Background(), rest.Delete("Contact", ""))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedOperation)
	assert.Equal(t, int32(0), hits.Load())
}
