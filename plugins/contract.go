// Package plugins defines the per-language extraction capability and
// the process-wide registry that dispatches on language tags.
package plugins

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/catalog"
)

// LanguagePlugin is implemented once per supported language. Extraction
// walks a parsed tree and emits the uniform element model; the query
// strategy backs the query service's fallback path.
type LanguagePlugin interface {
	// Metadata
	Language() string
	Extensions() []string

	// ElementCategories maps category names (functions, classes, ...)
	// to the node types that belong to them.
	ElementCategories() map[string][]string

	// ExtractElements walks the tree and returns elements grouped by
	// category. It never fails: malformed subtrees are skipped.
	ExtractElements(tree *sitter.Tree, source []byte) map[string][]core.CodeElement

	// ExecuteQueryStrategy resolves key to a category and extracts the
	// matching elements starting from root. Invoked only when native
	// query execution yields nothing.
	ExecuteQueryStrategy(root *sitter.Node, source []byte, key string) []core.CodeElement
}

// Registry manages all plugins.
type Registry struct {
	plugins map[string]LanguagePlugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]LanguagePlugin)}
}

// Register adds a plugin and records its extensions in the catalog.
func (r *Registry) Register(p LanguagePlugin) {
	r.plugins[p.Language()] = p
	catalog.Register(catalog.LanguageInfo{
		ID:         p.Language(),
		Extensions: p.Extensions(),
	})
}

// Get retrieves a plugin by language tag.
func (r *Registry) Get(language string) (LanguagePlugin, bool) {
	p, ok := r.plugins[language]
	return p, ok
}

// Languages returns all registered language tags.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.plugins))
	for tag := range r.plugins {
		langs = append(langs, tag)
	}
	return langs
}
