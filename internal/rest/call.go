// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rest

import "strings"

// DefaultAPIVersion is the data API version used when none is configured.
const DefaultAPIVersion = "v23.0"

// Credential is a bearer token and the instance it is valid for.
// It is issued by an authenticator and only read here.
type Credential struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
}

// Valid reports whether both parts are present.
func (c Credential) Valid() bool {
	return strings.TrimSpace(c.AccessToken) != "" && strings.TrimSpace(c.InstanceURL) != ""
}

// RemoteCall is a single HTTP request derived from one QueryIntent.
type RemoteCall struct {
	Operation Operation
	Method    string
	URL       string
	// Header keys are used exactly as given.
	Header map[string]string
	// Body is the JSON payload, nil when the method takes none.
	Body []byte
}

// Record is one decoded JSON object from a query response.
type Record = map[string]any
