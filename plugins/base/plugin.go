// Package base provides the shared extraction machinery behind every
// language plugin: the depth-capped iterative walker, the per-call
// cache set, and helpers for visibility, complexity, and doc comments.
// Language packages supply a Definition; base does the walking.
package base

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
)

// Handler extracts elements for one node type. Category names the
// element category the results belong to. A handler returning nil (or
// panicking) skips the node without failing the extraction.
type Handler struct {
	Category string
	Extract  func(ex *Extraction, node *sitter.Node) []core.CodeElement
}

// Definition is the language-specific surface a plugin implements; the
// base Plugin supplies everything else.
type Definition interface {
	Language() string
	Extensions() []string

	// Categories maps category names to the node types belonging to
	// them. Used for the query-strategy fallback and nested detection.
	Categories() map[string][]string

	// Handlers maps node types to extraction handlers.
	Handlers() map[string]Handler

	// DefaultVisibility is applied when no modifier decides.
	DefaultVisibility() core.Visibility
}

// AnnotationScanner is implemented by definitions whose language has
// annotations or decorators; the walker uses it to build the lazy
// per-line annotation index.
type AnnotationScanner interface {
	AnnotationNodeTypes() []string
	ScanAnnotation(ex *Extraction, node *sitter.Node) (core.AnnotationRef, bool)
}

// Plugin adapts a Definition to the plugins.LanguagePlugin contract.
type Plugin struct {
	def        Definition
	handlers   map[string]Handler
	categories map[string][]string
	classTypes map[string]bool
}

// New builds a plugin from a language definition.
func New(def Definition) *Plugin {
	p := &Plugin{
		def:        def,
		handlers:   def.Handlers(),
		categories: def.Categories(),
		classTypes: map[string]bool{},
	}
	for _, t := range p.categories["classes"] {
		p.classTypes[t] = true
	}
	return p
}

// Language returns the canonical language tag.
func (p *Plugin) Language() string { return p.def.Language() }

// Extensions returns the supported file extensions.
func (p *Plugin) Extensions() []string { return p.def.Extensions() }

// ElementCategories returns the category to node-type mapping.
func (p *Plugin) ElementCategories() map[string][]string {
	out := make(map[string][]string, len(p.categories))
	for cat, types := range p.categories {
		cp := make([]string, len(types))
		copy(cp, types)
		out[cat] = cp
	}
	return out
}

// ExtractElements walks the tree and returns elements by category. An
// empty or nil tree yields an empty map, never an error.
func (p *Plugin) ExtractElements(tree *sitter.Tree, source []byte) map[string][]core.CodeElement {
	if tree == nil || tree.RootNode() == nil {
		return map[string][]core.CodeElement{}
	}
	ex := newExtraction(p, source)
	return ex.run(tree.RootNode())
}

// ExecuteQueryStrategy resolves key to a category and extracts matching
// elements from root. Unknown keys fall back to the functions category.
func (p *Plugin) ExecuteQueryStrategy(root *sitter.Node, source []byte, key string) []core.CodeElement {
	if root == nil {
		return nil
	}
	category := p.resolveCategory(key)
	types, ok := p.categories[category]
	if !ok {
		return nil
	}
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	ex := newExtraction(p, source)
	var out []core.CodeElement
	ex.walk(root, func(node *sitter.Node) {
		if !typeSet[node.Type()] {
			return
		}
		h, ok := p.handlers[node.Type()]
		if !ok {
			return
		}
		out = append(out, ex.invoke(h, node)...)
	})
	return out
}

// resolveCategory maps a query key (possibly singular or aliased) to a
// known category name.
func (p *Plugin) resolveCategory(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return "functions"
	}
	if _, ok := p.categories[k]; ok {
		return k
	}
	if _, ok := p.categories[k+"s"]; ok {
		return k + "s"
	}
	if _, ok := p.categories[k+"es"]; ok {
		return k + "es"
	}
	trimmed := strings.TrimSuffix(k, "s")
	if _, ok := p.categories[trimmed]; ok {
		return trimmed
	}
	return "functions"
}

// IsClassType reports whether a node type belongs to the classes
// category; used for nested-class detection.
func (p *Plugin) IsClassType(nodeType string) bool {
	return p.classTypes[nodeType]
}
