// Package css implements the CSS plugin: rule sets map onto functions
// keyed by selector text, at-rules onto classes, and custom properties
// onto variables.
package css

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

const languageName = "css"

// Definition describes CSS to the base extraction machinery.
type Definition struct{}

// New returns the CSS plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return languageName }

func (d *Definition) Extensions() []string {
	return []string{".css"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPublic
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"rules":     {"rule_set"},
		"functions": {"rule_set"},
		"at_rules":  {"media_statement", "import_statement", "keyframes_statement"},
		"classes":   {"media_statement", "keyframes_statement"},
		"variables": {"declaration"},
		"imports":   {"import_statement"},
	}
}

func (d *Definition) Handlers() map[string]base.Handler {
	return map[string]base.Handler{
		"rule_set":            {Category: "rules", Extract: extractRuleSet},
		"media_statement":     {Category: "at_rules", Extract: extractAtRule},
		"keyframes_statement": {Category: "at_rules", Extract: extractAtRule},
		"import_statement":    {Category: "imports", Extract: extractImport},
		"declaration":         {Category: "variables", Extract: extractCustomProperty},
	}
}

func extractRuleSet(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	selectors := base.FirstChildOfTypes(node, "selectors")
	name := strings.TrimSpace(ex.Text(selectors))
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

func extractAtRule(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	text := ex.Text(node)
	name := text
	if idx := strings.IndexByte(text, '{'); idx > 0 {
		name = text[:idx]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return []core.CodeElement{{
		Kind:      core.KindClass,
		Name:      name,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   text,
		Language:  languageName,
		ClassType: core.ClassTypeClass,
	}}
}

func extractImport(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	text := strings.TrimSpace(ex.Text(node))
	target := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "@import")), ";")
	target = strings.Trim(target, `"'`)
	if target == "" {
		return nil
	}
	return []core.CodeElement{{
		Kind:      core.KindImport,
		Name:      target,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   text,
		Language:  languageName,
	}}
}

// extractCustomProperty keeps only --custom-property declarations.
func extractCustomProperty(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	text := strings.TrimSpace(ex.Text(node))
	if !strings.HasPrefix(text, "--") {
		return nil
	}
	name := text
	if idx := strings.IndexByte(text, ':'); idx > 0 {
		name = strings.TrimSpace(text[:idx])
	}
	return []core.CodeElement{{
		Kind:         core.KindVariable,
		Name:         name,
		StartLine:    ex.StartLine(node),
		EndLine:      ex.EndLine(node),
		RawText:      text,
		Language:     languageName,
		VariableType: "custom-property",
		Visibility:   core.VisibilityPublic,
	}}
}
