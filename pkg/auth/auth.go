// Copyright 2025 Benchify
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@benchify.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements user authentication for the benchify CLI against a
// hosted identity provider.
//
// The login path is the OAuth 2.0 Device Authorization Grant: the CLI
// requests a device code, shows the user a verification URL and code, and
// polls the token endpoint until the user approves in a browser. The
// resulting ID token is verified against the provider's published keys and
// cached on disk for later invocations.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// expirySlack is how close to expiry a cached token may be before it is
// treated as expired. Keeps a token from expiring mid-request.
const expirySlack = 30 * time.Second

// Config identifies the OAuth application at the identity provider.
type Config struct {
	// Domain is the provider tenant domain (e.g. "benchify.us.auth0.com").
	// A full URL is also accepted, which tests use to point at a fake
	// provider.
	Domain string

	// ClientID is the OAuth client identifier; it is also the expected ID
	// token audience.
	ClientID string

	// Scopes requested during login.
	Scopes []string
}

// baseURL returns the provider base URL without a trailing slash.
func (c Config) baseURL() string {
	if strings.Contains(c.Domain, "://") {
		return strings.TrimSuffix(c.Domain, "/")
	}
	return "https://" + c.Domain
}

// Issuer returns the expected ID token issuer. Auth0 issuers carry a
// trailing slash.
func (c Config) Issuer() string {
	return c.baseURL() + "/"
}

// oauth2Config builds the oauth2 endpoint configuration for the device flow.
func (c Config) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID: c.ClientID,
		Scopes:   c.Scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: c.baseURL() + "/oauth/device/code",
			TokenURL:      c.baseURL() + "/oauth/token",
		},
	}
}

// Tokens holds the credentials returned by a completed login.
type Tokens struct {
	// IDToken is the OpenID Connect ID token. The analyze service expects
	// it as the bearer credential.
	IDToken string `json:"id_token"`

	// AccessToken is the OAuth access token.
	AccessToken string `json:"access_token"`

	// FetchedAt records when the tokens were obtained.
	FetchedAt time.Time `json:"fetched_at"`
}

// Valid reports whether the ID token is present and not within expirySlack
// of its expiry at the given time.
func (t *Tokens) Valid(now time.Time) bool {
	if t == nil || t.IDToken == "" {
		return false
	}
	claims, err := decodeClaims(t.IDToken)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.After(now.Add(expirySlack))
}

// Identity is the user profile carried in an ID token.
type Identity struct {
	Subject string    `json:"subject"`
	Name    string    `json:"name,omitempty"`
	Email   string    `json:"email,omitempty"`
	Expiry  time.Time `json:"expiry"`
}

// DisplayName returns the best human-readable name available.
func (i *Identity) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return i.Subject
	}
}

// DecodeIdentity extracts profile claims from an ID token without verifying
// its signature. Only call this on tokens that were already verified (or
// that came from the local cache, which only ever holds verified tokens).
func DecodeIdentity(rawIDToken string) (*Identity, error) {
	claims, err := decodeClaims(rawIDToken)
	if err != nil {
		return nil, err
	}

	id := &Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		id.Subject = sub
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.Expiry = exp.Time
	}
	return id, nil
}

// decodeClaims parses JWT claims without signature verification.
func decodeClaims(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token claims: %w", err)
	}
	return claims, nil
}
