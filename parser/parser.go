// Package parser turns source text into tree-sitter syntax trees bound
// to their grammar handles. Grammar handles are process-global and
// loaded lazily; parsing itself is synchronous and CPU-bound.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
)

// Parse parses source as the given language. The optional filePath is
// used only to enrich error messages.
func Parse(ctx context.Context, source []byte, language, filePath string) (*core.ParseResult, error) {
	tag := Canonical(language)
	lang, ok := Language(tag)
	if !ok {
		return nil, &core.UnknownLanguageError{Language: language}
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &core.ParseFailedError{Path: filePath, Reason: err.Error()}
	}
	if tree == nil {
		return nil, &core.ParseFailedError{Path: filePath, Reason: "parser returned no tree"}
	}

	return &core.ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		LangName: tag,
		FilePath: filePath,
	}, nil
}

// ParseString is a convenience wrapper over Parse for string input.
func ParseString(ctx context.Context, source, language string) (*core.ParseResult, error) {
	return Parse(ctx, []byte(source), language, "")
}

// MustLanguage returns the grammar handle or panics; used by query
// compilation paths that already validated the language.
func MustLanguage(language string) *sitter.Language {
	lang, ok := Language(language)
	if !ok {
		panic(fmt.Sprintf("no grammar registered for %q", language))
	}
	return lang
}
