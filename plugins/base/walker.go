package base

import (
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
)

// MaxWalkDepth bounds tree traversal. Nodes deeper than this are
// skipped with a single warning per extraction.
const MaxWalkDepth = 50

// fieldBatchThreshold switches a class body to batched field
// extraction: the annotation line index is prewarmed so every field in
// the batch hits a ready index instead of scanning per declaration.
const fieldBatchThreshold = 10

type stackEntry struct {
	node  *sitter.Node
	depth int
}

// run drives the full extraction: a pre-order, depth-first, iterative
// walk dispatching each node through the handler table.
func (ex *Extraction) run(root *sitter.Node) map[string][]core.CodeElement {
	out := map[string][]core.CodeElement{}
	handlers := ex.plugin.handlers
	fieldTypes := map[string]bool{}
	for _, t := range ex.plugin.categories["fields"] {
		fieldTypes[t] = true
	}

	stack := make([]stackEntry, 0, 64)
	stack = append(stack, stackEntry{root, 0})
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := entry.node

		if entry.depth > MaxWalkDepth {
			if !ex.depthWarned {
				slog.Warn("traversal depth cap reached, deeper nodes skipped",
					"language", ex.Language(),
					"depth_cap", MaxWalkDepth,
					"line", ex.StartLine(node))
				ex.depthWarned = true
			}
			continue
		}

		if h, ok := handlers[node.Type()]; ok {
			if els := ex.invoke(h, node); len(els) > 0 {
				out[h.Category] = append(out[h.Category], els...)
			}
		}

		count := int(node.ChildCount())
		if count == 0 {
			continue
		}
		if siblings := ex.countFieldChildren(node, fieldTypes); siblings > fieldBatchThreshold {
			ex.buildAnnotationIndex(root)
		}
		// Push children in reverse so pop order matches source order.
		for i := count - 1; i >= 0; i-- {
			child := node.Child(i)
			if child == nil {
				continue
			}
			stack = append(stack, stackEntry{child, entry.depth + 1})
		}
	}
	return out
}

func (ex *Extraction) countFieldChildren(node *sitter.Node, fieldTypes map[string]bool) int {
	if len(fieldTypes) == 0 {
		return 0
	}
	n := 0
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && fieldTypes[child.Type()] {
			n++
		}
	}
	return n
}

// walk runs a depth-capped pre-order traversal calling visit on every
// node; used by the annotation index and the query-strategy fallback.
func (ex *Extraction) walk(root *sitter.Node, visit func(*sitter.Node)) {
	stack := make([]stackEntry, 0, 64)
	stack = append(stack, stackEntry{root, 0})
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if entry.depth > MaxWalkDepth {
			continue
		}
		visit(entry.node)
		for i := int(entry.node.ChildCount()) - 1; i >= 0; i-- {
			child := entry.node.Child(i)
			if child == nil {
				continue
			}
			stack = append(stack, stackEntry{child, entry.depth + 1})
		}
	}
}
