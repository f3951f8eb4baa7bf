// Package typescript implements the TypeScript language plugin. It
// extends the JavaScript vocabulary with interfaces, enums, type
// aliases, accessibility modifiers, and decorators.
package typescript

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

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

// Definition describes TypeScript to the base extraction machinery.
// Tsx embeds it, overriding only the language tag and extensions.
type Definition struct{}

// New returns the TypeScript plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return "typescript" }

func (d *Definition) Extensions() []string {
	return []string{".ts", ".mts", ".cts"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPublic
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"functions":   {"function_declaration", "generator_function_declaration", "arrow_function", "function_expression", "method_definition"},
		"methods":     {"method_definition"},
		"classes":     {"class_declaration", "abstract_class_declaration", "interface_declaration", "enum_declaration"},
		"fields":      {"public_field_definition", "property_signature"},
		"variables":   {"variable_declaration", "lexical_declaration"},
		"imports":     {"import_statement"},
		"annotations": {"decorator"},
		"types":       {"type_alias_declaration"},
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
		"abstract_class_declaration":     {Category: "classes", Extract: extractClass},
		"interface_declaration":          {Category: "classes", Extract: extractInterface},
		"enum_declaration":               {Category: "classes", Extract: extractEnum},
		"public_field_definition":        {Category: "fields", Extract: extractField},
		"property_signature":             {Category: "fields", Extract: extractField},
		"variable_declaration":           {Category: "variables", Extract: extractVariables},
		"lexical_declaration":            {Category: "variables", Extract: extractVariables},
		"import_statement":               {Category: "imports", Extract: extractImport},
		"decorator":                      {Category: "annotations", Extract: extractDecorator},
		"type_alias_declaration":         {Category: "types", Extract: extractTypeAlias},
	}
}

// AnnotationNodeTypes feeds the lazy per-line annotation index.
func (d *Definition) AnnotationNodeTypes() []string {
	return []string{"decorator"}
}

// ScanAnnotation converts a decorator node to a reference record.
func (d *Definition) ScanAnnotation(ex *base.Extraction, node *sitter.Node) (core.AnnotationRef, bool) {
	text := strings.TrimSpace(strings.TrimPrefix(ex.Text(node), "@"))
	if text == "" {
		return core.AnnotationRef{}, false
	}
	ref := core.AnnotationRef{Name: text}
	if open := strings.Index(text, "("); open > 0 {
		ref.Name = text[:open]
		ref.Arguments = strings.TrimSuffix(text[open+1:], ")")
	}
	return ref, true
}

func docRoot(node *sitter.Node) *sitter.Node {
	for node.Parent() != nil {
		node = node.Parent()
	}
	return node
}

// visibilityOf scans for an accessibility_modifier child.
func visibilityOf(ex *base.Extraction, node *sitter.Node) core.Visibility {
	if mod := base.FirstChildOfTypes(node, "accessibility_modifier"); mod != nil {
		switch ex.Text(mod) {
		case "private":
			return core.VisibilityPrivate
		case "protected":
			return core.VisibilityProtected
		}
	}
	return core.VisibilityPublic
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
		case "required_parameter", "optional_parameter":
			p := core.Param{}
			if pattern := child.ChildByFieldName("pattern"); pattern != nil {
				p.Name = ex.Text(pattern)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				p.Type = strings.TrimSpace(strings.TrimPrefix(ex.Text(t), ":"))
			}
			out = append(out, p)
		case "identifier":
			out = append(out, core.Param{Name: ex.Text(child)})
		}
	}
	return out
}

func returnTypeOf(ex *base.Extraction, node *sitter.Node) string {
	if rt := node.ChildByFieldName("return_type"); rt != nil {
		return strings.TrimSpace(strings.TrimPrefix(ex.Text(rt), ":"))
	}
	return ""
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
		ReturnType:      returnTypeOf(ex, node),
		Visibility:      core.VisibilityPublic,
		ComplexityScore: ex.Complexity(body, decisionTypes),
		Docstring:       ex.DocComment(docRoot(node), node, commentTypes),
	}
}

func extractFunction(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		name = "anonymous"
	}
	return []core.CodeElement{functionElement(ex, node, name)}
}

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
	}
	return []core.CodeElement{functionElement(ex, node, name)}
}

func extractMethod(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		name = "anonymous"
	}
	el := functionElement(ex, node, name)
	el.Visibility = visibilityOf(ex, node)
	text := ex.Text(node)
	el.IsStatic = strings.Contains(firstLine(text), "static ")
	el.IsAbstract = strings.Contains(firstLine(text), "abstract ")
	if name == "constructor" {
		el.IsConstructor = true
		el.ReturnType = "void"
	}
	el.Annotations = decoratorsOf(ex, node)
	return []core.CodeElement{el}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// decoratorsOf collects decorator children preceding the declaration.
func decoratorsOf(ex *base.Extraction, node *sitter.Node) []core.AnnotationRef {
	def := &Definition{}
	var out []core.AnnotationRef
	for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "decorator"; prev = prev.PrevNamedSibling() {
		if ref, ok := def.ScanAnnotation(ex, prev); ok {
			out = append([]core.AnnotationRef{ref}, out...)
		}
	}
	for _, dec := range base.ChildrenOfType(node, "decorator") {
		if ref, ok := def.ScanAnnotation(ex, dec); ok {
			out = append(out, ref)
		}
	}
	return out
}

func classElement(ex *base.Extraction, node *sitter.Node, classType core.ClassType) core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		name = "anonymous"
	}
	return core.CodeElement{
		Kind:               core.KindClass,
		Name:               name,
		StartLine:          ex.StartLine(node),
		EndLine:            ex.EndLine(node),
		RawText:            ex.Text(node),
		Language:           ex.Language(),
		ClassType:          classType,
		Visibility:         core.VisibilityPublic,
		IsNested:           ex.IsNested(node),
		FullyQualifiedName: name,
		Docstring:          ex.DocComment(docRoot(node), node, commentTypes),
		Annotations:        decoratorsOf(ex, node),
	}
}

func extractClass(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	el := classElement(ex, node, core.ClassTypeClass)
	if node.Type() == "abstract_class_declaration" {
		el.IsAbstract = true
		el.Modifiers = append(el.Modifiers, "abstract")
	}
	if heritage := base.FirstChildOfTypes(node, "class_heritage"); heritage != nil {
		text := ex.Text(heritage)
		if idx := strings.Index(text, "extends "); idx >= 0 {
			rest := text[idx+len("extends "):]
			if cut := strings.Index(rest, "implements"); cut >= 0 {
				rest = rest[:cut]
			}
			el.Superclass = strings.TrimSpace(rest)
		}
		if idx := strings.Index(text, "implements "); idx >= 0 {
			for _, iface := range strings.Split(text[idx+len("implements "):], ",") {
				el.Interfaces = append(el.Interfaces, strings.TrimSpace(iface))
			}
		}
	}
	return []core.CodeElement{el}
}

func extractInterface(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	el := classElement(ex, node, core.ClassTypeInterface)
	if ext := base.FirstChildOfTypes(node, "extends_type_clause", "extends_clause"); ext != nil {
		text := strings.TrimSpace(strings.TrimPrefix(ex.Text(ext), "extends"))
		for _, parent := range strings.Split(text, ",") {
			el.Interfaces = append(el.Interfaces, strings.TrimSpace(parent))
		}
	}
	return []core.CodeElement{el}
}

func extractEnum(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	return []core.CodeElement{classElement(ex, node, core.ClassTypeEnum)}
}

func extractField(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ""
	if n := node.ChildByFieldName("name"); n != nil {
		name = ex.Text(n)
	}
	if name == "" {
		return nil
	}
	fieldType := ""
	if t := node.ChildByFieldName("type"); t != nil {
		fieldType = strings.TrimSpace(strings.TrimPrefix(ex.Text(t), ":"))
	}
	text := firstLine(ex.Text(node))
	isStatic := strings.Contains(text, "static ")
	isReadonly := strings.Contains(text, "readonly ")
	el := core.CodeElement{
		Kind:         core.KindVariable,
		Name:         name,
		StartLine:    ex.StartLine(node),
		EndLine:      ex.EndLine(node),
		RawText:      ex.Text(node),
		Language:     ex.Language(),
		VariableType: fieldType,
		FieldType:    fieldType,
		Visibility:   visibilityOf(ex, node),
		IsStatic:     isStatic,
		IsFinal:      isReadonly,
		IsConstant:   isStatic && isReadonly && base.IsConstantName(name),
		Annotations:  decoratorsOf(ex, node),
	}
	return []core.CodeElement{el}
}

func extractVariables(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	kindText := ""
	if first := node.Child(0); first != nil {
		kindText = ex.Text(first)
	}
	var out []core.CodeElement
	for _, declarator := range base.ChildrenOfType(node, "variable_declarator") {
		id := declarator.ChildByFieldName("name")
		if id == nil {
			continue
		}
		if value := declarator.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function_expression":
				continue
			}
		}
		name := ex.Text(id)
		varType := kindText
		if t := declarator.ChildByFieldName("type"); t != nil {
			varType = strings.TrimSpace(strings.TrimPrefix(ex.Text(t), ":"))
		}
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
			VariableType: varType,
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
	return []core.CodeElement{el}
}

func extractDecorator(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	def := &Definition{}
	ref, ok := def.ScanAnnotation(ex, node)
	if !ok {
		return nil
	}
	return []core.CodeElement{{
		Kind:      core.KindAnnotation,
		Name:      ref.Name,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   ex.Text(node),
		Language:  ex.Language(),
		Arguments: ref.Arguments,
	}}
}

func extractTypeAlias(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		return nil
	}
	return []core.CodeElement{{
		Kind:         core.KindVariable,
		Name:         name,
		StartLine:    ex.StartLine(node),
		EndLine:      ex.EndLine(node),
		RawText:      ex.Text(node),
		Language:     ex.Language(),
		VariableType: "type",
		Visibility:   core.VisibilityPublic,
	}}
}
