package base

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
)

// VisibilityFromModifiers scans modifiers for an explicit visibility
// keyword and falls back to the language default.
func VisibilityFromModifiers(mods []string, fallback core.Visibility) core.Visibility {
	for _, m := range mods {
		switch m {
		case "public":
			return core.VisibilityPublic
		case "protected":
			return core.VisibilityProtected
		case "private":
			return core.VisibilityPrivate
		}
	}
	return fallback
}

// IsConstantName reports the ALL_CAPS naming convention used to flag
// constants.
func IsConstantName(name string) bool {
	if name == "" {
		return false
	}
	hasLetter := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// Complexity counts decision points in body: one for entry plus one for
// each decision node and each short-circuit / safe-navigation operator
// in the body text.
func (ex *Extraction) Complexity(body *sitter.Node, decisionTypes map[string]bool) int {
	score := 1
	if body == nil {
		return score
	}
	ex.walk(body, func(node *sitter.Node) {
		if decisionTypes[node.Type()] {
			score++
		}
	})
	text := ex.Text(body)
	score += strings.Count(text, "&&")
	score += strings.Count(text, "||")
	score += strings.Count(text, "?.")
	return score
}

// DocComment attaches the nearest preceding comment to a declaration:
// the previous named sibling must be a comment node whose end line is
// the declaration's start line minus one, after skipping any annotation
// lines between the two.
func (ex *Extraction) DocComment(root, decl *sitter.Node, commentTypes map[string]bool) string {
	prev := decl.PrevNamedSibling()
	declStart := ex.StartLine(decl)

	// Annotations sit between the doc comment and the declaration;
	// skip over annotation-only lines.
	for prev != nil && !commentTypes[prev.Type()] {
		prevEnd := ex.EndLine(prev)
		annLines := ex.AnnotationLines(root, prevEnd, declStart-1)
		if !annLines[ex.StartLine(prev)] {
			return ""
		}
		declStart = ex.StartLine(prev)
		prev = prev.PrevNamedSibling()
	}
	if prev == nil || !commentTypes[prev.Type()] {
		return ""
	}
	if ex.EndLine(prev) != declStart-1 {
		return ""
	}
	return StripCommentMarkers(ex.Text(prev))
}

// StripCommentMarkers removes comment delimiters and leading asterisks
// from a block or line comment, preserving line structure.
func StripCommentMarkers(raw string) string {
	text := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(text, "/**"):
		text = strings.TrimPrefix(text, "/**")
		text = strings.TrimSuffix(text, "*/")
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	}
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimSpace(line)
		if line == "" && len(cleaned) == 0 {
			continue
		}
		cleaned = append(cleaned, line)
	}
	for len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return strings.Join(cleaned, "\n")
}

// IsNested reports whether any ancestor of node is a class-category
// node enclosing it.
func (ex *Extraction) IsNested(node *sitter.Node) bool {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if ex.plugin.IsClassType(anc.Type()) {
			return true
		}
	}
	return false
}

// EnclosingOfTypes returns the nearest ancestor whose type is in types.
func EnclosingOfTypes(node *sitter.Node, types map[string]bool) *sitter.Node {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if types[anc.Type()] {
			return anc
		}
	}
	return nil
}

// ChildrenOfType collects direct children of node with the given type.
func ChildrenOfType(node *sitter.Node, nodeType string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.Type() == nodeType {
			out = append(out, child)
		}
	}
	return out
}

// FirstChildOfTypes returns the first direct child matching any type.
func FirstChildOfTypes(node *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}
	return nil
}

// FieldOrFirstIdentifier prefers the "name" field and falls back to the
// first identifier-like child.
func (ex *Extraction) FieldOrFirstIdentifier(node *sitter.Node, identTypes ...string) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return ex.Text(nameNode)
	}
	if len(identTypes) == 0 {
		identTypes = []string{"identifier"}
	}
	if child := FirstChildOfTypes(node, identTypes...); child != nil {
		return ex.Text(child)
	}
	return ""
}
