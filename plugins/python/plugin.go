// Package python implements the Python language plugin. Docstrings are
// taken from the first string statement of a body; decorators become
// annotations; naming conventions decide visibility.
package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

const languageName = "python"

// noneSentinel is the return type recorded for __init__ constructors.
const noneSentinel = "None"

var decisionTypes = map[string]bool{
	"if_statement":           true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"conditional_expression": true,
	"boolean_operator":       true,
	"case_clause":            true,
}

// Definition describes Python to the base extraction machinery.
type Definition struct{}

// New returns the Python plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return languageName }

func (d *Definition) Extensions() []string {
	return []string{".py", ".pyw", ".pyi"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPublic
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"functions":   {"function_definition"},
		"methods":     {"function_definition"},
		"classes":     {"class_definition"},
		"fields":      {"assignment"},
		"variables":   {"assignment"},
		"imports":     {"import_statement", "import_from_statement"},
		"annotations": {"decorator"},
	}
}

func (d *Definition) Handlers() map[string]base.Handler {
	return map[string]base.Handler{
		"function_definition":   {Category: "functions", Extract: extractFunction},
		"class_definition":      {Category: "classes", Extract: extractClass},
		"assignment":            {Category: "variables", Extract: extractAssignment},
		"import_statement":      {Category: "imports", Extract: extractImport},
		"import_from_statement": {Category: "imports", Extract: extractImportFrom},
		"decorator":             {Category: "annotations", Extract: extractDecorator},
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

// visibilityOf applies Python naming conventions: a single leading
// underscore marks private by convention; dunder names stay public.
func visibilityOf(name string) core.Visibility {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return core.VisibilityPublic
	}
	if strings.HasPrefix(name, "_") {
		return core.VisibilityPrivate
	}
	return core.VisibilityPublic
}

// docstringOf returns the stripped first string statement of body.
func docstringOf(ex *base.Extraction, body *sitter.Node) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Type() != "expression_statement" {
		return ""
	}
	str := base.FirstChildOfTypes(first, "string")
	if str == nil {
		return ""
	}
	text := ex.Text(str)
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return strings.TrimSpace(text[len(q) : len(text)-len(q)])
		}
	}
	return strings.TrimSpace(text)
}

// decoratorsOf collects decorators from an enclosing decorated_definition.
func decoratorsOf(ex *base.Extraction, node *sitter.Node) []core.AnnotationRef {
	parent := node.Parent()
	if parent == nil || parent.Type() != "decorated_definition" {
		return nil
	}
	def := &Definition{}
	var out []core.AnnotationRef
	for _, dec := range base.ChildrenOfType(parent, "decorator") {
		if ref, ok := def.ScanAnnotation(ex, dec); ok {
			out = append(out, ref)
		}
	}
	return out
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
		case "identifier":
			out = append(out, core.Param{Name: ex.Text(child)})
		case "typed_parameter", "typed_default_parameter":
			p := core.Param{Type: ex.Text(child.ChildByFieldName("type"))}
			if ident := base.FirstChildOfTypes(child, "identifier"); ident != nil {
				p.Name = ex.Text(ident)
			}
			out = append(out, p)
		case "default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				out = append(out, core.Param{Name: ex.Text(name)})
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, core.Param{Name: ex.Text(child)})
		}
	}
	return out
}

func insideClass(node *sitter.Node) bool {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		switch anc.Type() {
		case "class_definition":
			return true
		case "function_definition":
			return false
		}
	}
	return false
}

func insideFunction(node *sitter.Node) bool {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Type() == "function_definition" {
			return true
		}
	}
	return false
}

func extractFunction(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		return nil
	}
	body := node.ChildByFieldName("body")
	isCtor := name == "__init__" && insideClass(node)

	el := core.CodeElement{
		Kind:            core.KindFunction,
		Name:            name,
		StartLine:       ex.StartLine(node),
		EndLine:         ex.EndLine(node),
		RawText:         ex.Text(node),
		Language:        languageName,
		Parameters:      parameterList(ex, node.ChildByFieldName("parameters")),
		ReturnType:      strings.TrimSpace(strings.TrimPrefix(ex.Text(node.ChildByFieldName("return_type")), "->")),
		Visibility:      visibilityOf(name),
		IsConstructor:   isCtor,
		ComplexityScore: ex.Complexity(body, decisionTypes),
		Docstring:       docstringOf(ex, body),
		Annotations:     decoratorsOf(ex, node),
	}
	if isCtor {
		el.ReturnType = noneSentinel
	}
	for _, ann := range el.Annotations {
		switch ann.Name {
		case "staticmethod":
			el.IsStatic = true
		case "abstractmethod", "abc.abstractmethod":
			el.IsAbstract = true
		}
	}
	return []core.CodeElement{el}
}

func extractClass(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		return nil
	}
	el := core.CodeElement{
		Kind:               core.KindClass,
		Name:               name,
		StartLine:          ex.StartLine(node),
		EndLine:            ex.EndLine(node),
		RawText:            ex.Text(node),
		Language:           languageName,
		ClassType:          core.ClassTypeClass,
		Visibility:         visibilityOf(name),
		IsNested:           ex.IsNested(node),
		FullyQualifiedName: name,
		Docstring:          docstringOf(ex, node.ChildByFieldName("body")),
		Annotations:        decoratorsOf(ex, node),
	}
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			child := supers.NamedChild(i)
			if child == nil {
				continue
			}
			base := ex.Text(child)
			if el.Superclass == "" {
				el.Superclass = base
			}
			el.Interfaces = append(el.Interfaces, base)
		}
	}
	return []core.CodeElement{el}
}

// extractAssignment keeps module-level bindings and class attributes;
// assignments inside function bodies are locals and are skipped.
func extractAssignment(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	if insideFunction(node) {
		return nil
	}
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}
	name := ex.Text(left)
	el := core.CodeElement{
		Kind:         core.KindVariable,
		Name:         name,
		StartLine:    ex.StartLine(node),
		EndLine:      ex.EndLine(node),
		RawText:      ex.Text(node),
		Language:     languageName,
		VariableType: strings.TrimSpace(strings.TrimPrefix(ex.Text(node.ChildByFieldName("type")), ":")),
		Visibility:   visibilityOf(name),
	}
	return []core.CodeElement{el}
}

func extractImport(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	var out []core.CodeElement
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier":
			out = append(out, importElement(ex, node, ex.Text(child), ""))
		case "aliased_import":
			name := ex.Text(child.ChildByFieldName("name"))
			alias := ex.Text(child.ChildByFieldName("alias"))
			out = append(out, importElement(ex, node, name, alias))
		}
	}
	return out
}

func extractImportFrom(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	module := ex.Text(node.ChildByFieldName("module_name"))
	if module == "" {
		return nil
	}
	el := importElement(ex, node, module, "")
	el.IsWildcard = strings.Contains(ex.Text(node), "import *")
	return []core.CodeElement{el}
}

func importElement(ex *base.Extraction, node *sitter.Node, name, alias string) core.CodeElement {
	return core.CodeElement{
		Kind:      core.KindImport,
		Name:      name,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   ex.Text(node),
		Language:  languageName,
		AliasedAs: alias,
	}
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
		Language:  languageName,
		Arguments: ref.Arguments,
	}}
}
