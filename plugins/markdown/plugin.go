// Package markdown implements the Markdown plugin. Headings map onto
// the classes category as document sections; fenced code blocks map
// onto functions so generic queries surface something useful.
package markdown

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

const languageName = "markdown"

// Definition describes Markdown to the base extraction machinery.
type Definition struct{}

// New returns the Markdown plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return languageName }

func (d *Definition) Extensions() []string {
	return []string{".md", ".markdown"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPublic
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"sections":    {"atx_heading", "setext_heading"},
		"classes":     {"atx_heading", "setext_heading"},
		"code_blocks": {"fenced_code_block"},
		"functions":   {"fenced_code_block"},
	}
}

func (d *Definition) Handlers() map[string]base.Handler {
	return map[string]base.Handler{
		"atx_heading":       {Category: "sections", Extract: extractHeading},
		"setext_heading":    {Category: "sections", Extract: extractHeading},
		"fenced_code_block": {Category: "code_blocks", Extract: extractCodeBlock},
	}
}

func extractHeading(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	text := strings.TrimSpace(ex.Text(node))
	title := strings.TrimSpace(strings.TrimLeft(text, "# "))
	if title == "" {
		if idx := strings.IndexByte(text, '\n'); idx > 0 {
			title = strings.TrimSpace(text[:idx])
		}
	}
	if title == "" {
		return nil
	}
	level := len(text) - len(strings.TrimLeft(text, "#"))
	el := core.CodeElement{
		Kind:      core.KindClass,
		Name:      title,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   ex.Text(node),
		Language:  languageName,
		ClassType: core.ClassTypeClass,
		IsNested:  level > 1,
	}
	return []core.CodeElement{el}
}

func extractCodeBlock(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	lang := ""
	if info := base.FirstChildOfTypes(node, "info_string"); info != nil {
		lang = strings.TrimSpace(ex.Text(info))
	}
	name := "code"
	if lang != "" {
		name = lang
	}
	return []core.CodeElement{{
		Kind:         core.KindFunction,
		Name:         name,
		StartLine:    ex.StartLine(node),
		EndLine:      ex.EndLine(node),
		RawText:      ex.Text(node),
		Language:     languageName,
		ReturnType:   lang,
		Visibility:   core.VisibilityPublic,
		ComplexityScore: 1,
	}}
}
