package core

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ElementKind discriminates CodeElement variants.
type ElementKind string

const (
	KindFunction   ElementKind = "function"
	KindClass      ElementKind = "class"
	KindVariable   ElementKind = "variable"
	KindImport     ElementKind = "import"
	KindPackage    ElementKind = "package"
	KindAnnotation ElementKind = "annotation"
)

// Visibility levels across languages. Languages without an explicit
// modifier fall back to their default (Java: package, Python/TS: public).
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
	VisibilityPrivate   Visibility = "private"
	VisibilityDefault   Visibility = "default"
)

// ClassType distinguishes class-like declarations.
type ClassType string

const (
	ClassTypeClass     ClassType = "class"
	ClassTypeInterface ClassType = "interface"
	ClassTypeEnum      ClassType = "enum"
	ClassTypeRecord    ClassType = "record"
	ClassTypeTrait     ClassType = "trait"
	ClassTypeStruct    ClassType = "struct"
)

// Param is one formal parameter of a function or method.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// AnnotationRef is an annotation/decorator attached to another element.
// Name never carries the @ or # sigil.
type AnnotationRef struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// CodeElement is the uniform element model emitted by every language
// plugin. Kind selects which payload fields are meaningful; unused
// fields stay at their zero value and are omitted from JSON.
type CodeElement struct {
	Kind      ElementKind `json:"kind"`
	Name      string      `json:"name"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
	RawText   string      `json:"raw_text,omitempty"`
	Language  string      `json:"language"`

	// Function payload
	Parameters      []Param         `json:"parameters,omitempty"`
	ReturnType      string          `json:"return_type,omitempty"`
	Modifiers       []string        `json:"modifiers,omitempty"`
	Visibility      Visibility      `json:"visibility,omitempty"`
	IsConstructor   bool            `json:"is_constructor,omitempty"`
	IsStatic        bool            `json:"is_static,omitempty"`
	IsAbstract      bool            `json:"is_abstract,omitempty"`
	IsFinal         bool            `json:"is_final,omitempty"`
	Throws          []string        `json:"throws,omitempty"`
	ComplexityScore int             `json:"complexity_score,omitempty"`
	Docstring       string          `json:"docstring,omitempty"`
	Annotations     []AnnotationRef `json:"annotations,omitempty"`

	// Class payload
	ClassType          ClassType `json:"class_type,omitempty"`
	Superclass         string    `json:"superclass,omitempty"`
	Interfaces         []string  `json:"interfaces,omitempty"`
	IsNested           bool      `json:"is_nested,omitempty"`
	FullyQualifiedName string    `json:"fully_qualified_name,omitempty"`
	PackageName        string    `json:"package_name,omitempty"`

	// Variable payload
	VariableType string `json:"variable_type,omitempty"`
	FieldType    string `json:"field_type,omitempty"`
	IsConstant   bool   `json:"is_constant,omitempty"`

	// Import payload
	IsStaticImport bool   `json:"is_static_import,omitempty"`
	IsWildcard     bool   `json:"is_wildcard,omitempty"`
	AliasedAs      string `json:"aliased_as,omitempty"`

	// Annotation payload
	Arguments string `json:"arguments,omitempty"`
}

// HasModifier reports whether the element carries the given modifier.
func (e *CodeElement) HasModifier(mod string) bool {
	for _, m := range e.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// CaptureRecord is one matched node emitted by the query service.
// Content is an owned copy of the source slice, never a reference into
// the tree buffer.
type CaptureRecord struct {
	CaptureName string `json:"capture_name"`
	NodeType    string `json:"node_type"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	Content     string `json:"content"`
}

// SearchMatch is a single content-search hit. Text has interior
// whitespace runs collapsed to single spaces; Matches holds 0-based
// [start, end) byte offsets into Text.
type SearchMatch struct {
	File    string   `json:"file"`
	Line    int      `json:"line"`
	Text    string   `json:"text"`
	Matches [][2]int `json:"matches,omitempty"`
}

// ParseResult bundles a parsed tree with the grammar handle and the
// retained source. The tree owns parser state; callers slice Source to
// materialize owned strings before the tree is closed.
type ParseResult struct {
	Tree     *sitter.Tree
	Language *sitter.Language
	Source   []byte
	LangName string
	FilePath string
}

// Root returns the root node of the parsed tree.
func (p *ParseResult) Root() *sitter.Node {
	if p == nil || p.Tree == nil {
		return nil
	}
	return p.Tree.RootNode()
}

// Close releases the underlying tree. Safe on nil.
func (p *ParseResult) Close() {
	if p != nil && p.Tree != nil {
		p.Tree.Close()
	}
}

// NodeText returns an owned copy of the source slice covered by node.
func (p *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(start) > len(p.Source) || int(end) > len(p.Source) || start > end {
		return ""
	}
	return string(p.Source[start:end])
}

// AnalysisResult is the bundle returned by analyzer.AnalyzeFile.
type AnalysisResult struct {
	Path      string                   `json:"path"`
	Language  string                   `json:"language"`
	Elements  map[string][]CodeElement `json:"elements"`
	LineCount int                      `json:"line_count"`
	Encoding  string                   `json:"encoding"`
}

// ElementCount returns the total number of elements across categories.
func (a *AnalysisResult) ElementCount() int {
	n := 0
	for _, els := range a.Elements {
		n += len(els)
	}
	return n
}

// Formatter renders a response object to text. Implementations are
// supplied by callers; the core never constructs one.
type Formatter func(v any) (string, error)
