// Copyright 2025 Benchify
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uerrors "github.com/benchify/benchify/internal/errors"
	"github.com/benchify/benchify/pkg/extract"
)

func testExtractor() *extract.Extractor {
	return extract.NewExtractor(nil)
}

func TestSelectFunctionSource_SingleFunctionDefault(t *testing.T) {
	content := []byte("def only_one(x):\n    return x + 1\n")

	source, chosen, err := selectFunctionSource(context.Background(), testExtractor(), content, "one.py", "")
	require.NoError(t, err)
	assert.Equal(t, "only_one", chosen)
	assert.Contains(t, source, "def only_one(x):")
	assert.Contains(t, source, "return x + 1")
}

func TestSelectFunctionSource_SingleFunctionNamed(t *testing.T) {
	content := []byte("def only_one(x):\n    return x\n")

	_, chosen, err := selectFunctionSource(context.Background(), testExtractor(), content, "one.py", "only_one")
	require.NoError(t, err)
	assert.Equal(t, "only_one", chosen)
}

func TestSelectFunctionSource_NoFunctions(t *testing.T) {
	content := []byte("x = 1\nprint(x)\n")

	_, _, err := selectFunctionSource(context.Background(), testExtractor(), content, "flat.py", "")
	require.Error(t, err)

	var uerr *uerrors.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "No functions found", uerr.Title)
}

func TestSelectFunctionSource_MultipleRequireName(t *testing.T) {
	content := []byte("def first():\n    pass\n\ndef second():\n    pass\n")

	_, _, err := selectFunctionSource(context.Background(), testExtractor(), content, "two.py", "")
	require.Error(t, err)

	var uerr *uerrors.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Multiple functions in file", uerr.Title)
	// The suggestion should offer a concrete function to name.
	assert.Contains(t, uerr.Suggestion, "first")
}

func TestSelectFunctionSource_MultipleByName(t *testing.T) {
	content := []byte("def first():\n    return 1\n\ndef second():\n    return 2\n")

	source, chosen, err := selectFunctionSource(context.Background(), testExtractor(), content, "two.py", "second")
	require.NoError(t, err)
	assert.Equal(t, "second", chosen)
	assert.Contains(t, source, "def second():")
	assert.NotContains(t, source, "def first():")
}

func TestSelectFunctionSource_NameNotFound(t *testing.T) {
	content := []byte("def first():\n    pass\n")

	_, _, err := selectFunctionSource(context.Background(), testExtractor(), content, "one.py", "missing")
	require.Error(t, err)

	var uerr *uerrors.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Function not found", uerr.Title)
	assert.Contains(t, uerr.Suggestion, "benchify functions")
}

func TestSelectFunctionSource_MethodByBareName(t *testing.T) {
	content := []byte("class Sorter:\n    def sort(self, xs):\n        return sorted(xs)\n")

	source, chosen, err := selectFunctionSource(context.Background(), testExtractor(), content, "cls.py", "sort")
	require.NoError(t, err)
	assert.Equal(t, "sort", chosen)
	assert.Contains(t, source, "def sort(self, xs):")
}

func TestAnalyzeRequestError_Cancelled(t *testing.T) {
	err := analyzeRequestError(context.Canceled)

	var uerr *uerrors.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Analysis cancelled", uerr.Title)
}

func TestAnalyzeRequestError_Timeout(t *testing.T) {
	err := analyzeRequestError(context.DeadlineExceeded)

	var uerr *uerrors.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Analysis timed out", uerr.Title)
}
