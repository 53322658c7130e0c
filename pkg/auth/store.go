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

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotLoggedIn is returned by Store.Load when no credentials are cached.
var ErrNotLoggedIn = errors.New("not logged in")

const tokensFile = "tokens.json"

// Store persists login tokens under the benchify data directory.
//
// The cache file is written with mode 0600; tokens are credentials and must
// not be readable by other users.
type Store struct {
	path string
}

// NewStore creates a Store rooted at dir (typically ~/.benchify).
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, tokensFile)}
}

// Path returns the token cache file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads cached tokens. Returns ErrNotLoggedIn when the cache file does
// not exist.
func (s *Store) Load() (*Tokens, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read token cache: %w", err)
	}

	var tokens Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		// A corrupt cache is treated as logged out rather than fatal; the
		// next login overwrites it.
		return nil, fmt.Errorf("%w: token cache is corrupt", ErrNotLoggedIn)
	}
	return &tokens, nil
}

// Save writes tokens to the cache file, creating the data directory if
// needed.
func (s *Store) Save(tokens *Tokens) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}

// Clear removes the cached tokens. Removing an absent cache is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token cache: %w", err)
	}
	return nil
}
