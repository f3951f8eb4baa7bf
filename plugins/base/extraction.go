package base

import (
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
)

// span identifies a node by its byte range; stable within one tree.
type span [2]uint32

// elementKey keys the element cache by node span and category so the
// same subtree visited for two categories is extracted only once per
// category.
type elementKey struct {
	s   span
	cat string
}

// Signature is the parsed header of a function-like declaration, cached
// per node so overload resolution and docstring attachment do not
// re-parse it.
type Signature struct {
	Name       string
	ReturnType string
	Parameters []core.Param
	Modifiers  []string
	Throws     []string
}

// Extraction carries the per-call mutable state of one ExtractElements
// run. It is created at entry, owned by a single goroutine, and
// discarded when the call returns; nothing in it is shared.
type Extraction struct {
	plugin *Plugin
	source []byte

	nodeText    map[span]string
	elements    map[elementKey][]core.CodeElement
	signatures  map[span]Signature
	annotations map[int][]core.AnnotationRef
	annIndexed  bool

	depthWarned bool
}

func newExtraction(p *Plugin, source []byte) *Extraction {
	return &Extraction{
		plugin:      p,
		source:      source,
		nodeText:    map[span]string{},
		elements:    map[elementKey][]core.CodeElement{},
		signatures:  map[span]Signature{},
		annotations: map[int][]core.AnnotationRef{},
	}
}

func spanOf(node *sitter.Node) span {
	return span{node.StartByte(), node.EndByte()}
}

// Language returns the plugin's language tag.
func (ex *Extraction) Language() string { return ex.plugin.Language() }

// Source exposes the raw bytes backing the tree.
func (ex *Extraction) Source() []byte { return ex.source }

// DefaultVisibility returns the language's fallback visibility.
func (ex *Extraction) DefaultVisibility() core.Visibility {
	return ex.plugin.def.DefaultVisibility()
}

// Text returns the owned source slice for node, memoized by span.
func (ex *Extraction) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	s := spanOf(node)
	if cached, ok := ex.nodeText[s]; ok {
		return cached
	}
	start, end := int(s[0]), int(s[1])
	if start > len(ex.source) || end > len(ex.source) || start > end {
		return ""
	}
	text := string(ex.source[start:end])
	ex.nodeText[s] = text
	return text
}

// StartLine returns the 1-based start line of node.
func (ex *Extraction) StartLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// EndLine returns the 1-based end line of node.
func (ex *Extraction) EndLine(node *sitter.Node) int {
	return int(node.EndPoint().Row) + 1
}

// Signature returns the cached signature for node, computing it with fn
// on first use.
func (ex *Extraction) Signature(node *sitter.Node, fn func() Signature) Signature {
	s := spanOf(node)
	if sig, ok := ex.signatures[s]; ok {
		return sig
	}
	sig := fn()
	ex.signatures[s] = sig
	return sig
}

// AnnotationsOnLine returns the annotations whose declaration starts on
// the given 1-based line. The whole-file index is built lazily on first
// lookup, so a batch of field declarations pays the scan once.
func (ex *Extraction) AnnotationsOnLine(root *sitter.Node, line int) []core.AnnotationRef {
	ex.buildAnnotationIndex(root)
	return ex.annotations[line]
}

// AnnotationLines reports which of the lines in [from, to] carry
// annotations; used to skip annotation lines during docstring attach.
func (ex *Extraction) AnnotationLines(root *sitter.Node, from, to int) map[int]bool {
	ex.buildAnnotationIndex(root)
	lines := map[int]bool{}
	for line := from; line <= to; line++ {
		if len(ex.annotations[line]) > 0 {
			lines[line] = true
		}
	}
	return lines
}

func (ex *Extraction) buildAnnotationIndex(root *sitter.Node) {
	if ex.annIndexed {
		return
	}
	ex.annIndexed = true

	scanner, ok := ex.plugin.def.(AnnotationScanner)
	if !ok {
		return
	}
	typeSet := map[string]bool{}
	for _, t := range scanner.AnnotationNodeTypes() {
		typeSet[t] = true
	}
	if len(typeSet) == 0 {
		return
	}
	ex.walk(root, func(node *sitter.Node) {
		if !typeSet[node.Type()] {
			return
		}
		if ref, ok := scanner.ScanAnnotation(ex, node); ok {
			line := ex.StartLine(node)
			ex.annotations[line] = append(ex.annotations[line], ref)
		}
	})
}

// invoke runs a handler through the element cache, converting panics
// into skipped nodes.
func (ex *Extraction) invoke(h Handler, node *sitter.Node) (els []core.CodeElement) {
	key := elementKey{spanOf(node), h.Category}
	if cached, ok := ex.elements[key]; ok {
		return cached
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("element handler panicked, node skipped",
				"language", ex.Language(),
				"node_type", node.Type(),
				"line", ex.StartLine(node),
				"panic", r)
			els = nil
		}
	}()
	els = h.Extract(ex, node)
	ex.elements[key] = els
	return els
}
