// Copyright 2025 Benchify
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uerrors "github.com/benchify/benchify/internal/errors"
)

// With no cached credentials, quiet and JSON modes cannot run the interactive
// device flow (nothing would show the verification code and the poll would
// hang until the code expires), so ensureTokens must fail fast with a clear
// auth error instead of contacting the provider.
func TestEnsureTokens_QuietWithoutCacheFailsFast(t *testing.T) {
	for _, globals := range []GlobalFlags{
		{Quiet: true},
		{JSON: true, Quiet: true},
	} {
		t.Setenv("BENCHIFY_DATA_DIR", t.TempDir())

		cfg := DefaultConfig()
		tokens, identity, fresh, err := ensureTokens(context.Background(), cfg, newLogger(globals), globals)

		require.Error(t, err)
		assert.Nil(t, tokens)
		assert.Nil(t, identity)
		assert.False(t, fresh)

		var uerr *uerrors.UserError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, uerrors.KindAuth, uerr.Kind)
		assert.Equal(t, "Not logged in", uerr.Title)
		assert.Contains(t, uerr.Suggestion, "benchify login")
	}
}
