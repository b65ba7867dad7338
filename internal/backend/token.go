// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"forcecursor/cli/internal/rest"
)

// tokenPath is the OAuth2 token endpoint on the login server.
const tokenPath = "/services/oauth2/token"

// ErrMissingLogin is returned when a required login setting is empty.
var ErrMissingLogin = errors.New("incomplete login settings")

// tokenResponse is the token endpoint success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	TokenType   string `json:"token_type"`
	IssuedAt    string `json:"issued_at"`
}

// tokenFault is the token endpoint error body.
type tokenFault struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// PasswordToken posts the username-password grant to {LoginURL}/services/oauth2/token
// and returns the issued access token with the instance it is valid for.
func (h *HTTP) PasswordToken(ctx context.Context, login Login) (rest.Credential, error) {
	for name, v := range map[string]string{
		"login URL": login.LoginURL,
		"client id": login.ClientID,
		"username":  login.Username,
		"password":  login.Password,
	} {
		if strings.TrimSpace(v) == "" {
			return rest.Credential{}, fmt.Errorf("%w: %s is empty", ErrMissingLogin, name)
		}
	}

	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {login.ClientID},
		"client_secret": {login.ClientSecret},
		"username":      {login.Username},
		"password":      {login.Password},
	}
	endpoint := strings.TrimRight(login.LoginURL, "/") + tokenPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return rest.Credential{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	h.log.Debug("requesting token", h.log.Args("url", endpoint, "username", login.Username))

	status, payload, err := h.do(req)
	if err != nil {
		return rest.Credential{}, fmt.Errorf("token request: %w", err)
	}

	if status != http.StatusOK {
		var fault tokenFault
		if err := json.Unmarshal(payload, &fault); err == nil && fault.Error != "" {
			if fault.Description == "" {
				fault.Description = fault.Error
			}
			return rest.Credential{}, fmt.Errorf("token request failed: %d %s: %s", status, fault.Error, fault.Description)
		}
		return rest.Credential{}, fmt.Errorf("token request failed: %d %s", status, strings.TrimSpace(string(payload)))
	}

	var out tokenResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return rest.Credential{}, fmt.Errorf("decode token response: %w", err)
	}
	cred := rest.Credential{AccessToken: out.AccessToken, InstanceURL: out.InstanceURL}
	if !cred.Valid() {
		return rest.Credential{}, errors.New("token response is missing access_token or instance_url")
	}
	return cred, nil
}
