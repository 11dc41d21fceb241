// Package parser wraps tree-sitter parsing behind a language-neutral
// syntax tree. Analysis code visits parser.Node values and never touches
// the underlying grammar, so new languages only need a builder mapping.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Parser wraps a tree-sitter parser for one language
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	isTS     bool
}

// NewParser creates a new JavaScript parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := javascript.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		isTS:     false,
	}
}

// NewTypeScriptParser creates a new TypeScript parser
func NewTypeScriptParser() *Parser {
	parser := sitter.NewParser()
	lang := tsx.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		isTS:     true,
	}
}

// ParseFile parses source bytes attributed to the given filename
func (p *Parser) ParseFile(filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}
	if rootNode.HasError() {
		return nil, fmt.Errorf("syntax errors in %s", filename)
	}

	// Build the internal AST from the tree-sitter CST
	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// Parse parses source code without a filename
func (p *Parser) Parse(source []byte) (*Node, error) {
	return p.ParseFile("<input>", source)
}

// ParseString parses source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.Parse([]byte(source))
}

// IsTypeScript returns true if this parser is configured for TypeScript
func (p *Parser) IsTypeScript() bool {
	return p.isTS
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseForLanguage selects the JavaScript or TypeScript parser from the
// file extension and parses the source
func ParseForLanguage(filename string, source []byte) (*Node, error) {
	lower := strings.ToLower(filename)
	isTS := strings.HasSuffix(lower, ".ts") || strings.HasSuffix(lower, ".tsx") ||
		strings.HasSuffix(lower, ".mts") || strings.HasSuffix(lower, ".cts")

	var parser *Parser
	if isTS {
		parser = NewTypeScriptParser()
	} else {
		parser = NewParser()
	}
	defer parser.Close()

	return parser.ParseFile(filename, source)
}
