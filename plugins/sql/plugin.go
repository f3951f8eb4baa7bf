// Package sql implements the SQL plugin. The grammar routinely emits
// ERROR nodes for vendor-specific syntax such as stored procedures, so
// the extractor also mines ERROR subtrees with a lightweight statement
// scan instead of treating them as failures.
package sql

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

const languageName = "sql"

var procedureRe = regexp.MustCompile(`(?is)create\s+(?:or\s+replace\s+)?(procedure|function)\s+([\w."]+)`)

// Definition describes SQL to the base extraction machinery.
type Definition struct{}

// New returns the SQL plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return languageName }

func (d *Definition) Extensions() []string {
	return []string{".sql"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPublic
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"tables":    {"create_table"},
		"classes":   {"create_table", "create_view"},
		"views":     {"create_view"},
		"indexes":   {"create_index"},
		"functions": {"create_function", "ERROR"},
		"errors":    {"ERROR"},
	}
}

func (d *Definition) Handlers() map[string]base.Handler {
	return map[string]base.Handler{
		"create_table":    {Category: "tables", Extract: extractCreate("table", core.ClassTypeClass)},
		"create_view":     {Category: "views", Extract: extractCreate("view", core.ClassTypeInterface)},
		"create_index":    {Category: "indexes", Extract: extractIndex},
		"create_function": {Category: "functions", Extract: extractFunction},
		"ERROR":           {Category: "errors", Extract: extractErrorSubtree},
	}
}

// objectName finds the first object_reference or identifier within the
// statement head, searching a couple of levels deep because the grammar
// nests references differently per statement kind.
func objectName(ex *base.Extraction, node *sitter.Node) string {
	var find func(n *sitter.Node, depth int) string
	find = func(n *sitter.Node, depth int) string {
		if depth > 3 {
			return ""
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "object_reference", "identifier":
				return strings.Trim(ex.Text(child), `"`)
			}
			if name := find(child, depth+1); name != "" {
				return name
			}
		}
		return ""
	}
	return find(node, 0)
}

func extractCreate(kind string, classType core.ClassType) func(*base.Extraction, *sitter.Node) []core.CodeElement {
	return func(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
		name := objectName(ex, node)
		if name == "" {
			return nil
		}
		return []core.CodeElement{{
			Kind:               core.KindClass,
			Name:               name,
			StartLine:          ex.StartLine(node),
			EndLine:            ex.EndLine(node),
			RawText:            ex.Text(node),
			Language:           languageName,
			ClassType:          classType,
			Visibility:         core.VisibilityPublic,
			FullyQualifiedName: name,
			Modifiers:          []string{kind},
		}}
	}
}

func extractIndex(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := objectName(ex, node)
	if name == "" {
		return nil
	}
	return []core.CodeElement{{
		Kind:         core.KindVariable,
		Name:         name,
		StartLine:    ex.StartLine(node),
		EndLine:      ex.EndLine(node),
		RawText:      ex.Text(node),
		Language:     languageName,
		VariableType: "index",
		Visibility:   core.VisibilityPublic,
	}}
}

func extractFunction(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := objectName(ex, node)
	if name == "" {
		return nil
	}
	return []core.CodeElement{{
		Kind:            core.KindFunction,
		Name:            name,
		StartLine:       ex.StartLine(node),
		EndLine:         ex.EndLine(node),
		RawText:         ex.Text(node),
		Language:        languageName,
		Visibility:      core.VisibilityPublic,
		ComplexityScore: 1,
	}}
}

// extractErrorSubtree recovers stored procedures and functions the
// grammar could not parse by scanning the raw text of ERROR nodes.
func extractErrorSubtree(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	text := ex.Text(node)
	match := procedureRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	return []core.CodeElement{{
		Kind:            core.KindFunction,
		Name:            strings.Trim(match[2], `"`),
		StartLine:       ex.StartLine(node),
		EndLine:         ex.EndLine(node),
		RawText:         text,
		Language:        languageName,
		Modifiers:       []string{strings.ToLower(match[1])},
		Visibility:      core.VisibilityPublic,
		ComplexityScore: 1,
	}}
}
