// Package java implements the Java language plugin: methods,
// constructors, classes, fields, imports, packages, and annotations,
// with javadoc attachment and cyclomatic complexity scoring.
package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/scry/core"
	"github.com/termfx/scry/plugins/base"
)

const languageName = "java"

// voidSentinel is the return type recorded for constructors.
const voidSentinel = "void"

var commentTypes = map[string]bool{
	"block_comment": true,
	"line_comment":  true,
}

var decisionTypes = map[string]bool{
	"if_statement":          true,
	"for_statement":         true,
	"enhanced_for_statement": true,
	"while_statement":       true,
	"do_statement":          true,
	"switch_label":          true,
	"catch_clause":          true,
	"ternary_expression":    true,
}

// Definition describes Java to the base extraction machinery.
type Definition struct{}

// New returns the Java plugin.
func New() *base.Plugin {
	return base.New(&Definition{})
}

func (d *Definition) Language() string { return languageName }

func (d *Definition) Extensions() []string {
	return []string{".java"}
}

func (d *Definition) DefaultVisibility() core.Visibility {
	return core.VisibilityPackage
}

func (d *Definition) Categories() map[string][]string {
	return map[string][]string{
		"functions":   {"method_declaration", "constructor_declaration"},
		"methods":     {"method_declaration"},
		"classes":     {"class_declaration", "interface_declaration", "enum_declaration", "record_declaration"},
		"fields":      {"field_declaration"},
		"variables":   {"local_variable_declaration"},
		"imports":     {"import_declaration"},
		"packages":    {"package_declaration"},
		"annotations": {"annotation", "marker_annotation"},
	}
}

func (d *Definition) Handlers() map[string]base.Handler {
	return map[string]base.Handler{
		"method_declaration":      {Category: "functions", Extract: extractMethod},
		"constructor_declaration": {Category: "functions", Extract: extractConstructor},
		"class_declaration":       {Category: "classes", Extract: extractClass},
		"interface_declaration":   {Category: "classes", Extract: extractClass},
		"enum_declaration":        {Category: "classes", Extract: extractClass},
		"record_declaration":      {Category: "classes", Extract: extractClass},
		"field_declaration":       {Category: "fields", Extract: extractField},
		"local_variable_declaration": {Category: "variables", Extract: extractLocalVariable},
		"import_declaration":      {Category: "imports", Extract: extractImport},
		"package_declaration":     {Category: "packages", Extract: extractPackage},
		"annotation":              {Category: "annotations", Extract: extractAnnotation},
		"marker_annotation":       {Category: "annotations", Extract: extractAnnotation},
	}
}

// AnnotationNodeTypes feeds the lazy per-line annotation index.
func (d *Definition) AnnotationNodeTypes() []string {
	return []string{"annotation", "marker_annotation"}
}

// ScanAnnotation converts an annotation node to a reference record.
func (d *Definition) ScanAnnotation(ex *base.Extraction, node *sitter.Node) (core.AnnotationRef, bool) {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		return core.AnnotationRef{}, false
	}
	ref := core.AnnotationRef{Name: strings.TrimPrefix(name, "@")}
	if args := node.ChildByFieldName("arguments"); args != nil {
		ref.Arguments = strings.Trim(ex.Text(args), "()")
	}
	return ref, true
}

func modifierList(ex *base.Extraction, node *sitter.Node) []string {
	mods := base.FirstChildOfTypes(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "annotation", "marker_annotation":
			continue
		}
		out = append(out, ex.Text(child))
	}
	return out
}

func annotationRefs(ex *base.Extraction, node *sitter.Node) []core.AnnotationRef {
	mods := base.FirstChildOfTypes(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []core.AnnotationRef
	def := &Definition{}
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "annotation" || child.Type() == "marker_annotation" {
			if ref, ok := def.ScanAnnotation(ex, child); ok {
				out = append(out, ref)
			}
		}
	}
	return out
}

func parameterList(ex *base.Extraction, params *sitter.Node) []core.Param {
	if params == nil {
		return nil
	}
	var out []core.Param
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "formal_parameter", "spread_parameter":
			p := core.Param{
				Name: ex.Text(child.ChildByFieldName("name")),
				Type: ex.Text(child.ChildByFieldName("type")),
			}
			if p.Name == "" {
				// Spread parameters keep the identifier as last child.
				if ident := base.FirstChildOfTypes(child, "identifier"); ident != nil {
					p.Name = ex.Text(ident)
				}
			}
			out = append(out, p)
		}
	}
	return out
}

func throwsList(ex *base.Extraction, node *sitter.Node) []string {
	throws := base.FirstChildOfTypes(node, "throws")
	if throws == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(throws.ChildCount()); i++ {
		child := throws.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		out = append(out, ex.Text(child))
	}
	return out
}

// multiCatchExtras counts additional exception types in multi-catch
// clauses; each extra alternative is one more decision point.
func multiCatchExtras(ex *base.Extraction, body *sitter.Node) int {
	if body == nil {
		return 0
	}
	extra := 0
	var visit func(node *sitter.Node, depth int)
	visit = func(node *sitter.Node, depth int) {
		if depth > base.MaxWalkDepth {
			return
		}
		if node.Type() == "catch_type" {
			types := 0
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				if child != nil && child.IsNamed() {
					types++
				}
			}
			if types > 1 {
				extra += types - 1
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child != nil {
				visit(child, depth+1)
			}
		}
	}
	visit(body, 0)
	return extra
}

func signatureOf(ex *base.Extraction, node *sitter.Node) base.Signature {
	return ex.Signature(node, func() base.Signature {
		return base.Signature{
			Name:       ex.Text(node.ChildByFieldName("name")),
			ReturnType: ex.Text(node.ChildByFieldName("type")),
			Parameters: parameterList(ex, node.ChildByFieldName("parameters")),
			Modifiers:  modifierList(ex, node),
			Throws:     throwsList(ex, node),
		}
	})
}

func root(node *sitter.Node) *sitter.Node {
	for node.Parent() != nil {
		node = node.Parent()
	}
	return node
}

func packageNameOf(ex *base.Extraction, node *sitter.Node) string {
	program := root(node)
	pkg := base.FirstChildOfTypes(program, "package_declaration")
	if pkg == nil {
		return ""
	}
	if name := base.FirstChildOfTypes(pkg, "scoped_identifier", "identifier"); name != nil {
		return ex.Text(name)
	}
	return ""
}

func extractMethod(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	sig := signatureOf(ex, node)
	if sig.Name == "" {
		return nil
	}
	body := node.ChildByFieldName("body")
	el := core.CodeElement{
		Kind:            core.KindFunction,
		Name:            sig.Name,
		StartLine:       ex.StartLine(node),
		EndLine:         ex.EndLine(node),
		RawText:         ex.Text(node),
		Language:        languageName,
		Parameters:      sig.Parameters,
		ReturnType:      sig.ReturnType,
		Modifiers:       sig.Modifiers,
		Visibility:      base.VisibilityFromModifiers(sig.Modifiers, ex.DefaultVisibility()),
		IsStatic:        contains(sig.Modifiers, "static"),
		IsAbstract:      contains(sig.Modifiers, "abstract"),
		IsFinal:         contains(sig.Modifiers, "final"),
		Throws:          sig.Throws,
		ComplexityScore: ex.Complexity(body, decisionTypes) + multiCatchExtras(ex, body),
		Docstring:       ex.DocComment(root(node), node, commentTypes),
		Annotations:     annotationRefs(ex, node),
	}
	return []core.CodeElement{el}
}

func extractConstructor(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	sig := signatureOf(ex, node)
	if sig.Name == "" {
		return nil
	}
	body := node.ChildByFieldName("body")
	el := core.CodeElement{
		Kind:            core.KindFunction,
		Name:            sig.Name,
		StartLine:       ex.StartLine(node),
		EndLine:         ex.EndLine(node),
		RawText:         ex.Text(node),
		Language:        languageName,
		Parameters:      sig.Parameters,
		ReturnType:      voidSentinel,
		Modifiers:       sig.Modifiers,
		Visibility:      base.VisibilityFromModifiers(sig.Modifiers, ex.DefaultVisibility()),
		IsConstructor:   true,
		Throws:          sig.Throws,
		ComplexityScore: ex.Complexity(body, decisionTypes) + multiCatchExtras(ex, body),
		Docstring:       ex.DocComment(root(node), node, commentTypes),
		Annotations:     annotationRefs(ex, node),
	}
	return []core.CodeElement{el}
}

func classTypeOf(nodeType string) core.ClassType {
	switch nodeType {
	case "interface_declaration":
		return core.ClassTypeInterface
	case "enum_declaration":
		return core.ClassTypeEnum
	case "record_declaration":
		return core.ClassTypeRecord
	default:
		return core.ClassTypeClass
	}
}

func extractClass(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ex.Text(node.ChildByFieldName("name"))
	if name == "" {
		return nil
	}
	mods := modifierList(ex, node)
	pkg := packageNameOf(ex, node)
	nested := ex.IsNested(node)

	fqn := name
	if nested {
		// Qualify through enclosing class names.
		parts := []string{name}
		for anc := node.Parent(); anc != nil; anc = anc.Parent() {
			if n := anc.ChildByFieldName("name"); n != nil && isClassDecl(anc.Type()) {
				parts = append([]string{ex.Text(n)}, parts...)
			}
		}
		fqn = strings.Join(parts, ".")
	}
	if pkg != "" {
		fqn = pkg + "." + fqn
	}

	el := core.CodeElement{
		Kind:               core.KindClass,
		Name:               name,
		StartLine:          ex.StartLine(node),
		EndLine:            ex.EndLine(node),
		RawText:            ex.Text(node),
		Language:           languageName,
		ClassType:          classTypeOf(node.Type()),
		Modifiers:          mods,
		Visibility:         base.VisibilityFromModifiers(mods, ex.DefaultVisibility()),
		IsNested:           nested,
		FullyQualifiedName: fqn,
		PackageName:        pkg,
		Docstring:          ex.DocComment(root(node), node, commentTypes),
		Annotations:        annotationRefs(ex, node),
	}
	if super := node.ChildByFieldName("superclass"); super != nil {
		el.Superclass = strings.TrimSpace(strings.TrimPrefix(ex.Text(super), "extends"))
	}
	if ifaces := base.FirstChildOfTypes(node, "super_interfaces"); ifaces != nil {
		for _, list := range base.ChildrenOfType(ifaces, "type_list") {
			for i := 0; i < int(list.ChildCount()); i++ {
				child := list.Child(i)
				if child != nil && child.IsNamed() {
					el.Interfaces = append(el.Interfaces, ex.Text(child))
				}
			}
		}
	}
	return []core.CodeElement{el}
}

func isClassDecl(nodeType string) bool {
	switch nodeType {
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		return true
	}
	return false
}

// extractField emits one element per declarator so grouped declarations
// like "private String a, b, c;" yield three variables.
func extractField(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	mods := modifierList(ex, node)
	fieldType := ex.Text(node.ChildByFieldName("type"))
	annotations := annotationRefs(ex, node)
	isStatic := contains(mods, "static")
	isFinal := contains(mods, "final")
	doc := ex.DocComment(root(node), node, commentTypes)

	var out []core.CodeElement
	for _, declarator := range base.ChildrenOfType(node, "variable_declarator") {
		name := ex.Text(declarator.ChildByFieldName("name"))
		if name == "" {
			continue
		}
		out = append(out, core.CodeElement{
			Kind:         core.KindVariable,
			Name:         name,
			StartLine:    ex.StartLine(node),
			EndLine:      ex.EndLine(node),
			RawText:      ex.Text(node),
			Language:     languageName,
			VariableType: fieldType,
			FieldType:    fieldType,
			Modifiers:    mods,
			Visibility:   base.VisibilityFromModifiers(mods, ex.DefaultVisibility()),
			IsStatic:     isStatic,
			IsFinal:      isFinal,
			IsConstant:   isStatic && isFinal && base.IsConstantName(name),
			Annotations:  annotations,
			Docstring:    doc,
		})
	}
	return out
}

func extractLocalVariable(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	mods := modifierList(ex, node)
	varType := ex.Text(node.ChildByFieldName("type"))
	var out []core.CodeElement
	for _, declarator := range base.ChildrenOfType(node, "variable_declarator") {
		name := ex.Text(declarator.ChildByFieldName("name"))
		if name == "" {
			continue
		}
		out = append(out, core.CodeElement{
			Kind:         core.KindVariable,
			Name:         name,
			StartLine:    ex.StartLine(node),
			EndLine:      ex.EndLine(node),
			RawText:      ex.Text(node),
			Language:     languageName,
			VariableType: varType,
			Modifiers:    mods,
			Visibility:   core.VisibilityDefault,
			IsFinal:      contains(mods, "final"),
		})
	}
	return out
}

func extractImport(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	text := ex.Text(node)
	name := ""
	if target := base.FirstChildOfTypes(node, "scoped_identifier", "identifier"); target != nil {
		name = ex.Text(target)
	}
	if name == "" {
		return nil
	}
	isWildcard := strings.Contains(text, ".*")
	if isWildcard {
		name += ".*"
	}
	el := core.CodeElement{
		Kind:           core.KindImport,
		Name:           name,
		StartLine:      ex.StartLine(node),
		EndLine:        ex.EndLine(node),
		RawText:        text,
		Language:       languageName,
		IsStaticImport: base.FirstChildOfTypes(node, "static") != nil || strings.Contains(text, "import static "),
		IsWildcard:     isWildcard,
	}
	return []core.CodeElement{el}
}

func extractPackage(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
	name := ""
	if target := base.FirstChildOfTypes(node, "scoped_identifier", "identifier"); target != nil {
		name = ex.Text(target)
	}
	if name == "" {
		return nil
	}
	return []core.CodeElement{{
		Kind:      core.KindPackage,
		Name:      name,
		StartLine: ex.StartLine(node),
		EndLine:   ex.EndLine(node),
		RawText:   ex.Text(node),
		Language:  languageName,
	}}
}

func extractAnnotation(ex *base.Extraction, node *sitter.Node) []core.CodeElement {
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

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
