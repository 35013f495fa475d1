// Package parser turns Python source into the ast package's syntax tree
// using tree-sitter.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/pymetrics/pkg/ast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	// ErrUnsupportedLanguage is returned for paths that are not Python sources.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrSyntax is returned when the source does not parse cleanly.
	ErrSyntax = errors.New("syntax error")
)

// Language represents a supported programming language.
type Language string

const (
	LangPython  Language = "python"
	LangUnknown Language = "unknown"
)

// SyntaxError reports the first error node found in a parse tree.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, ErrSyntax)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the converted syntax tree and metadata.
type ParseResult struct {
	Module   *ast.Module
	Language Language
	Source   []byte
	Path     string
}

// New creates a new parser instance. A Parser is not safe for concurrent
// use; create one per goroutine.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a source file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	if DetectLanguage(path) == LangUnknown {
		return nil, fmt.Errorf("%w for file: %s", ErrUnsupportedLanguage, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return p.Parse(source, path)
}

// Parse parses Python source. The path is only used for error messages and
// the result metadata.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, path)
	}

	conv := &converter{src: source}
	return &ParseResult{
		Module:   conv.module(root),
		Language: LangPython,
		Source:   source,
		Path:     path,
	}, nil
}

// ParseString is a convenience wrapper for parsing in-memory code.
func (p *Parser) ParseString(code string) (*ast.Module, error) {
	result, err := p.Parse([]byte(code), "<string>")
	if err != nil {
		return nil, err
	}
	return result.Module, nil
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw", ".pyi":
		return LangPython
	default:
		return LangUnknown
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// syntaxError locates the first ERROR or missing node.
func syntaxError(root *sitter.Node, path string) error {
	serr := &SyntaxError{Path: path, Line: int(root.StartPoint().Row) + 1}
	found := false
	Walk(root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			serr.Line = int(n.StartPoint().Row) + 1
			serr.Column = int(n.StartPoint().Column)
			found = true
			return false
		}
		return n.HasError()
	})
	return serr
}

// Walk traverses the concrete tree calling visitor for each node. Returning
// false skips the node's children.
func Walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), visitor)
	}
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}
