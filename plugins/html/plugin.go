// Package html implements the HTML plugin: elements with ids map onto
// classes, script and style elements onto functions, so structural
// queries surface the document skeleton.
package html

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

const languageName = "html"

// Definition describes HTML to the base extraction machinery.
type Definition struct{}

// New returns the HTML plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return languageName }

func (d *Definition) Extensions() []string {
	return []string{".html", ".htm"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPublic
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"elements":  {"element"},
		"classes":   {"element"},
		"scripts":   {"script_element"},
		"styles":    {"style_element"},
		"functions": {"script_element", "style_element"},
	}
}

func (d *Definition) Handlers() map[string]base.Handler {
	return map[string]base.Handler{
		"element":        {Category: "elements", Extract: extractElement},
		"script_element": {Category: "scripts", Extract: extractScript},
		"style_element":  {Category: "styles", Extract: extractStyle},
	}
}

// tagAndID pulls the tag name and optional id attribute from the start
// tag of an element node.
func tagAndID(ex *base.Extraction, node *sitter.Node) (string, string) {
	start := base.FirstChildOfTypes(node, "start_tag", "self_closing_tag")
	if start == nil {
		return "", ""
	}
	tag := ""
	if name := base.FirstChildOfTypes(start, "tag_name"); name != nil {
		tag = ex.Text(name)
	}
	id := ""
	for _, attr := range base.ChildrenOfType(start, "attribute") {
		if name := base.FirstChildOfTypes(attr, "attribute_name"); name != nil && ex.Text(name) == "id" {
			if val := base.FirstChildOfTypes(attr, "quoted_attribute_value", "attribute_value"); val != nil {
				id = strings.Trim(ex.Text(val), `"'`)
			}
		}
	}
	return tag, id
}

// extractElement keeps only elements that carry an id; emitting every
// element would drown structural queries in markup noise.
func extractElement(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	tag, id := tagAndID(ex, node)
	if tag == "" || id == "" {
		return nil
	}
	return []core.CodeElement{{
		Kind:      core.KindClass,
		Name:      tag + "#" + id,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   ex.Text(node),
		Language:  languageName,
		ClassType: core.ClassTypeClass,
		IsNested:  ex.IsNested(node),
	}}
}

func extractScript(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	return scriptOrStyle(ex, node, "script")
}

func extractStyle(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	return scriptOrStyle(ex, node, "style")
}

func scriptOrStyle(ex *base.Extraction, node *sitter.Node, name string) []core.CodeElement {
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
