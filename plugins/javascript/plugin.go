// Package javascript implements the JavaScript language plugin.
// Arrow functions assigned to variables inherit the variable name;
// grouped declarations emit one element per declarator.
package javascript

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

const languageName = "javascript"

var commentTypes = map[string]bool{"comment": true}

var decisionTypes = map[string]bool{
	"if_statement":       true,
	"for_statement":      true,
	"for_in_statement":   true,
	"while_statement":    true,
	"do_statement":       true,
	"switch_case":        true,
	"catch_clause":       true,
	"ternary_expression": true,
}

// Definition describes JavaScript to the base extraction machinery.
type Definition struct{}

// New returns the JavaScript plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return languageName }

func (d *Definition) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPublic
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"functions": {"function_declaration", "generator_function_declaration", "arrow_function", "function_expression", "method_definition"},
		"methods":   {"method_definition"},
		"classes":   {"class_declaration", "class_expression"},
		"fields":    {"field_definition"},
		"variables": {"variable_declaration", "lexical_declaration"},
		"imports":   {"import_statement"},
		"exports":   {"export_statement"},
	}
}

func (d *Definition) Handlers() map[string]base.Handler {
	return map[string]base.Handler{
		"function_declaration":           {Category: "functions", Extract: extractFunction},
		"generator_function_declaration": {Category: "functions", Extract: extractFunction},
		"arrow_function":                 {Category: "functions", Extract: extractArrow},
		"function_expression":            {Category: "functions", Extract: extractArrow},
		"method_definition":              {Category: "functions", Extract: extractMethod},
		"class_declaration":              {Category: "classes", Extract: extractClass},
		"class_expression":               {Category: "classes", Extract: extractClass},
		"field_definition":               {Category: "fields", Extract: extractFieldDefinition},
		"variable_declaration":           {Category: "variables", Extract: extractVariables},
		"lexical_declaration":            {Category: "variables", Extract: extractVariables},
		"import_statement":               {Category: "imports", Extract: extractImport},
		"export_statement":               {Category: "exports", Extract: extractExport},
	}
}

func parameterList(ex *base.Extraction, params *sitter.Node) []core.Param {
	if params == nil {
		return nil
	}
	var out []core.Param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier", "rest_pattern", "object_pattern", "array_pattern", "assignment_pattern":
			out = append(out, core.Param{Name: ex.Text(child)})
		}
	}
	return out
}

func functionElement(ex *base.Extraction, node *sitter.Node, name string) core.CodeElement {
	body := node.ChildByFieldName("body")
	return core.CodeElement{
		Kind:            core.KindFunction,
		Name:            name,
		StartLine:       ex.StartLine(node),
		EndLine:         ex.EndLine(node),
		RawText:         ex.Text(node),
		Language:        ex.Language(),
		Parameters:      parameterList(ex, node.ChildByFieldName("parameters")),
		Visibility:      core.VisibilityPublic,
		ComplexityScore: ex.Complexity(body, decisionTypes),
		Docstring:       ex.DocComment(docRoot(node), node, commentTypes),
	}
}

func docRoot(node *sitter.Node) *sitter.Node {
	for node.Parent() != nil {
		node = node.Parent()
	}
	return node
}

func extractFunction(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		name = "anonymous"
	}
	return []core.CodeElement{functionElement(ex, node, name)}
}

// extractArrow names an arrow or function expression after the variable
// or property it is assigned to.
func extractArrow(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := "anonymous"
	switch parent := node.Parent(); {
	case parent == nil:
	case parent.Type() == "variable_declarator":
		if id := parent.ChildByFieldName("name"); id != nil {
			name = ex.Text(id)
		}
	case parent.Type() == "pair":
		if key := parent.ChildByFieldName("key"); key != nil {
			name = ex.Text(key)
		}
	case parent.Type() == "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil {
			name = ex.Text(left)
		}
	}
	return []core.CodeElement{functionElement(ex, node, name)}
}

func extractMethod(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		if key := base.FirstChildOfTypes(node, "property_identifier"); key != nil {
			name = ex.Text(key)
		}
	}
	if name == "" {
		name = "anonymous"
	}
	el := functionElement(ex, node, name)
	text := ex.Text(node)
	el.IsStatic = strings.HasPrefix(text, "static ")
	if name == "constructor" {
		el.IsConstructor = true
	}
	if strings.HasPrefix(name, "#") {
		el.Visibility = core.VisibilityPrivate
	}
	return []core.CodeElement{el}
}

func extractClass(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		name = "anonymous"
	}
	el := core.CodeElement{
		Kind:               core.KindClass,
		Name:               name,
		StartLine:          ex.StartLine(node),
		EndLine:            ex.EndLine(node),
		RawText:            ex.Text(node),
		Language:           ex.Language(),
		ClassType:          core.ClassTypeClass,
		Visibility:         core.VisibilityPublic,
		IsNested:           ex.IsNested(node),
		FullyQualifiedName: name,
		Docstring:          ex.DocComment(docRoot(node), node, commentTypes),
	}
	if heritage := base.FirstChildOfTypes(node, "class_heritage"); heritage != nil {
		el.Superclass = strings.TrimSpace(strings.TrimPrefix(ex.Text(heritage), "extends"))
	}
	return []core.CodeElement{el}
}

func extractFieldDefinition(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ""
	if prop := base.FirstChildOfTypes(node, "property_identifier", "private_property_identifier"); prop != nil {
		name = ex.Text(prop)
	}
	if name == "" {
		return nil
	}
	el := core.CodeElement{
		Kind:       core.KindVariable,
		Name:       name,
		StartLine:  ex.StartLine(node),
		EndLine:    ex.EndLine(node),
		RawText:    ex.Text(node),
		Language:   ex.Language(),
		Visibility: core.VisibilityPublic,
		IsStatic:   strings.HasPrefix(ex.Text(node), "static "),
	}
	if strings.HasPrefix(name, "#") {
		el.Visibility = core.VisibilityPrivate
	}
	return []core.CodeElement{el}
}

// extractVariables emits one element per declarator.
func extractVariables(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	kindText := ""
	if first := node.Child(0); first != nil {
		kindText = ex.Text(first) // var, let, const
	}
	var out []core.CodeElement
	for _, declarator := range base.ChildrenOfType(node, "variable_declarator") {
		id := declarator.ChildByFieldName("name")
		if id == nil {
			continue
		}
		// Skip declarators whose value is a function; those surface
		// through the functions category with the inherited name.
		if value := declarator.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function_expression":
				continue
			}
		}
		name := ex.Text(id)
		out = append(out, core.CodeElement{
			Kind:         core.KindVariable,
			Name:         name,
			StartLine:    ex.StartLine(node),
			EndLine:      ex.EndLine(node),
			RawText:      ex.Text(node),
			Language:     ex.Language(),
			Modifiers:    []string{kindText},
			Visibility:   core.VisibilityPublic,
			IsConstant:   kindText == "const" && base.IsConstantName(name),
			VariableType: kindText,
		})
	}
	return out
}

func extractImport(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	source := ""
	if src := node.ChildByFieldName("source"); src != nil {
		source = strings.Trim(ex.Text(src), "\"'`")
	}
	if source == "" {
		return nil
	}
	el := core.CodeElement{
		Kind:       core.KindImport,
		Name:       source,
		StartLine:  ex.StartLine(node),
		EndLine:    ex.EndLine(node),
		RawText:    ex.Text(node),
		Language:   ex.Language(),
		IsWildcard: strings.Contains(ex.Text(node), "* as "),
	}
	if clause := base.FirstChildOfTypes(node, "import_clause"); clause != nil {
		if ns := base.FirstChildOfTypes(clause, "namespace_import"); ns != nil {
			if ident := base.FirstChildOfTypes(ns, "identifier"); ident != nil {
				el.AliasedAs = ex.Text(ident)
			}
		}
	}
	return []core.CodeElement{el}
}

func extractExport(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	text := ex.Text(node)
	name := ""
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		if n := decl.ChildByFieldName("name"); n != nil {
			name = ex.Text(n)
		}
	}
	if name == "" {
		name = strings.TrimSpace(strings.TrimPrefix(text, "export"))
		if idx := strings.IndexAny(name, " \n{;"); idx > 0 {
			name = name[:idx]
		}
	}
	return []core.CodeElement{{
		Kind:      core.KindImport,
		Name:      name,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   text,
		Language:  ex.Language(),
	}}
}
