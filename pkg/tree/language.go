package tree

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// Language pairs a target-language name with its tree-sitter grammar.
type Language struct {
	name  string
	inner *sitter.Language
}

// JavaScript returns the JavaScript target language.
func JavaScript() *Language {
	return &Language{name: "js", inner: sitter.NewLanguage(tree_sitter_javascript.Language())}
}

// JSON returns the JSON target language.
func JSON() *Language {
	return &Language{name: "json", inner: sitter.NewLanguage(tree_sitter_json.Language())}
}

// ForPath picks a target language from a file extension. JavaScript is the
// default when the extension is unknown.
func ForPath(path string) *Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON()
	default:
		return JavaScript()
	}
}

// Name returns the short language name ("js", "json").
func (l *Language) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Parse parses source into a Tree. Syntax errors do not abort the parse:
// rewrite queries must be able to bind into partially valid sources, so the
// best-effort tree is returned as-is.
func (l *Language) Parse(source []byte) (*Tree, error) {
	if l == nil || l.inner == nil {
		return nil, fmt.Errorf("tree: no grammar loaded")
	}

	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(l.inner); err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}

	parsed := p.Parse(source, nil)
	if parsed == nil {
		return nil, fmt.Errorf("tree: parse produced no tree")
	}
	return &Tree{inner: parsed, source: source}, nil
}
