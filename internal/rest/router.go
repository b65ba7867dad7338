// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	apperrors "forcecursor/cli/internal/errors"
	"forcecursor/cli/internal/soql"
)

// collectionName matches object API names such as Contact or Invoice__c.
var collectionName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Router builds RemoteCalls for one API version.
type Router struct {
	// APIVersion is the data API version, e.g. "v23.0".
	APIVersion string
}

// NewRouter returns a Router for version, falling back to DefaultAPIVersion.
func NewRouter(version string) Router {
	if strings.TrimSpace(version) == "" {
		version = DefaultAPIVersion
	}
	return Router{APIVersion: version}
}

// Stub returns the data API path prefix.
func (r Router) Stub() string {
	v := r.APIVersion
	if v == "" {
		v = DefaultAPIVersion
	}
	return "/services/data/" + v
}

// Route maps intent to the single REST call that performs it.
// Unroutable intents fail with ErrUnsupportedOperation before any I/O.
func (r Router) Route(intent QueryIntent, cred Credential) (RemoteCall, error) {
	op := intent.Operation
	if op == OpUnknown {
		op = DetectOperation(intent.Text)
	}
	if op != OpSelect && op != OpInsert && op != OpDelete {
		return RemoteCall{}, apperrors.Unsupported("unsupported query: %q", firstLine(intent.Text))
	}

	if !cred.Valid() {
		return RemoteCall{}, apperrors.Unsupported("credential is missing a token or instance URL")
	}
	base := strings.TrimRight(cred.InstanceURL, "/") + r.Stub()

	call := RemoteCall{
		Operation: op,
		Header:    map[string]string{"Authorization": "OAuth " + cred.AccessToken},
	}

	switch op {
	case OpSelect:
		text, err := intent.DebugText()
		if err != nil {
			return RemoteCall{}, apperrors.Unsupported("select: %v", err)
		}
		call.Method = http.MethodGet
		call.URL = base + "/query?" + url.Values{"q": {text}}.Encode()

	case OpInsert:
		if err := checkCollection(op, intent.Collection); err != nil {
			return RemoteCall{}, err
		}
		if intent.Fields == nil || intent.Fields.Len() == 0 {
			return RemoteCall{}, apperrors.Unsupported("insert into %s has no fields", intent.Collection)
		}
		body, err := insertBody(intent.Fields)
		if err != nil {
			return RemoteCall{}, apperrors.Unsupported("insert into %s: %v", intent.Collection, err)
		}
		call.Method = http.MethodPost
		call.URL = fmt.Sprintf("%s/sobjects/%s/", base, intent.Collection)
		call.Header["Content-Type"] = "application/json"
		call.Body = body

	case OpDelete:
		if err := checkCollection(op, intent.Collection); err != nil {
			return RemoteCall{}, err
		}
		if strings.TrimSpace(intent.Key) == "" {
			return RemoteCall{}, apperrors.Unsupported("delete from %s has no key", intent.Collection)
		}
		call.Method = http.MethodDelete
		call.URL = fmt.Sprintf("%s/sobjects/%s/%s", base, intent.Collection, url.PathEscape(intent.Key))
	}

	return call, nil
}

func checkCollection(op Operation, name string) error {
	if name == "" {
		return apperrors.Unsupported("%s requires a target collection", strings.ToLower(string(op)))
	}
	if !collectionName.MatchString(name) {
		return apperrors.Unsupported("invalid collection name %q", name)
	}
	return nil
}

// insertBody marshals fields as a JSON object in insertion order.
func insertBody(fields *Fields) ([]byte, error) {
	row := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](fields.Len()))
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		v, err := soql.JSON(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", pair.Key, err)
		}
		row.Set(pair.Key, v)
	}
	return json.Marshal(row)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:80] + "..."
	}
	return s
}
