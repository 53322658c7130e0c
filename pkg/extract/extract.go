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

// Package extract pulls individual function definitions out of Python source
// files using Tree-sitter.
//
// The analyze service operates on a single function at a time, so the CLI
// needs to locate the requested function in a file and submit exactly its
// source span. Tree-sitter is error-tolerant: files with syntax errors still
// produce a partial tree, and extraction proceeds on whatever parsed.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrFunctionNotFound is returned when the named function does not exist in
// the parsed source.
var ErrFunctionNotFound = errors.New("function not found")

// Function describes one function definition found in a source file.
// Methods are reported with their class prefix (e.g. "Sorter.isort").
type Function struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`

	// Byte span of the full definition, including decorators.
	startByte uint32
	endByte   uint32
}

// Extractor parses Python source and extracts function definitions.
//
// Parsers are pooled because Tree-sitter parsers are not thread-safe.
type Extractor struct {
	logger *slog.Logger

	pyPool   sync.Pool
	poolInit sync.Once
}

// NewExtractor creates an Extractor. A nil logger falls back to slog.Default.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// IsPythonFile reports whether path names a Python source file.
func IsPythonFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}

// ListFunctions returns every function definition in content, in source
// order. Methods are prefixed with their class name, nested functions are
// included, and decorated definitions span their decorators.
func (e *Extractor) ListFunctions(ctx context.Context, content []byte) ([]Function, error) {
	root, cleanup, err := e.parse(ctx, content)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if root.HasError() {
		if n := countErrors(root); n > 0 {
			e.logger.Warn("extract.python.syntax_errors", "error_count", n)
		}
	}

	var functions []Function
	e.walkFunctions(root, content, "", &functions)
	return functions, nil
}

// Count returns the number of function definitions in content.
func (e *Extractor) Count(ctx context.Context, content []byte) (int, error) {
	functions, err := e.ListFunctions(ctx, content)
	if err != nil {
		return 0, err
	}
	return len(functions), nil
}

// FunctionSource returns the exact source text of the named function.
//
// The name matches either the full name ("Sorter.isort") or the bare
// function name ("isort"); the first definition in source order wins. The
// returned slice is byte-exact, including decorators.
func (e *Extractor) FunctionSource(ctx context.Context, content []byte, name string) (string, error) {
	functions, err := e.ListFunctions(ctx, content)
	if err != nil {
		return "", err
	}

	for _, fn := range functions {
		if fn.Name == name || strings.HasSuffix(fn.Name, "."+name) {
			return string(content[fn.startByte:fn.endByte]), nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrFunctionNotFound)
}

// OnlyFunctionSource returns the single function in content along with its
// exact source. It is an error to call this when the file does not contain
// exactly one function definition.
func (e *Extractor) OnlyFunctionSource(ctx context.Context, content []byte) (Function, string, error) {
	functions, err := e.ListFunctions(ctx, content)
	if err != nil {
		return Function{}, "", err
	}
	if len(functions) != 1 {
		return Function{}, "", fmt.Errorf("expected exactly one function, found %d", len(functions))
	}
	fn := functions[0]
	return fn, string(content[fn.startByte:fn.endByte]), nil
}

// parse runs the pooled Tree-sitter parser over content and returns the root
// node plus a cleanup function releasing the tree and parser.
func (e *Extractor) parse(ctx context.Context, content []byte) (*sitter.Node, func(), error) {
	e.poolInit.Do(func() {
		e.pyPool.New = func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(python.GetLanguage())
			return parser
		}
	})

	parser := e.pyPool.Get().(*sitter.Parser)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		e.pyPool.Put(parser)
		return nil, nil, fmt.Errorf("tree-sitter parse: %w", err)
	}

	cleanup := func() {
		tree.Close()
		e.pyPool.Put(parser)
	}
	return tree.RootNode(), cleanup, nil
}

// walkFunctions recursively collects function definitions, prefixing methods
// with their enclosing class name.
func (e *Extractor) walkFunctions(node *sitter.Node, content []byte, classPrefix string, functions *[]Function) {
	if node == nil {
		return
	}

	nodeType := node.Type()

	if nodeType == "class_definition" {
		className := ""
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			className = string(content[nameNode.StartByte():nameNode.EndByte()])
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "block" {
				e.walkFunctions(child, content, className, functions)
			}
		}
		return
	}

	if nodeType == "function_definition" {
		if fn := e.extractFunction(node, content, classPrefix); fn != nil {
			*functions = append(*functions, *fn)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkFunctions(node.Child(i), content, classPrefix, functions)
	}
}

// extractFunction builds a Function from a function_definition node.
func (e *Extractor) extractFunction(node *sitter.Node, content []byte, classPrefix string) *Function {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := string(content[nameNode.StartByte():nameNode.EndByte()])

	fullName := name
	if classPrefix != "" {
		fullName = classPrefix + "." + name
	}

	var params string
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		params = string(content[paramsNode.StartByte():paramsNode.EndByte()])
	}

	var returnType string
	if returnNode := node.ChildByFieldName("return_type"); returnNode != nil {
		returnType = string(content[returnNode.StartByte():returnNode.EndByte()])
	}

	signature := fmt.Sprintf("def %s%s", name, params)
	if returnType != "" {
		signature += " -> " + returnType
	}

	// Decorators live in a wrapping decorated_definition node; the extracted
	// span must include them so the service sees the function as written.
	span := node
	if parent := node.Parent(); parent != nil && parent.Type() == "decorated_definition" {
		span = parent
	}

	return &Function{
		Name:      fullName,
		Signature: signature,
		StartLine: int(span.StartPoint().Row) + 1,
		EndLine:   int(span.EndPoint().Row) + 1,
		startByte: span.StartByte(),
		endByte:   span.EndByte(),
	}
}

// countErrors counts ERROR nodes in the parse tree.
func countErrors(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.Type() == "ERROR" {
		count++
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += countErrors(node.Child(i))
	}
	return count
}
