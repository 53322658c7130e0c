// Copyright 2025 Benchify
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
)

// VerifyIDToken checks the ID token's signature, issuer, audience, and
// expiry against the provider's published JWKS.
//
// The provider metadata and keys are fetched via OpenID Connect discovery at
// the configured issuer. A non-nil httpClient overrides the client used for
// discovery and key fetches (tests point this at a fake provider).
func VerifyIDToken(ctx context.Context, cfg Config, httpClient *http.Client, rawIDToken string) error {
	if httpClient != nil {
		ctx = oidc.ClientContext(ctx, httpClient)
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer())
	if err != nil {
		return fmt.Errorf("discover identity provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	if _, err := verifier.Verify(ctx, rawIDToken); err != nil {
		return fmt.Errorf("verify id token: %w", err)
	}
	return nil
}
