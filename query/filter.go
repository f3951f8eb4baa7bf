package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/termfx/scry/core"
)

// predicate is one parsed clause of a filter expression. Clauses are
// conjoined with implicit AND.
type predicate struct {
	attr    string
	op      string // "=", "!=", "=~", "!~", ">", "<"
	value   string
	number  float64
	isNum   bool
	boolVal bool
	isBool  bool
	re      *regexp.Regexp
}

// Filter evaluates a comma-separated predicate expression against
// capture records.
type Filter struct {
	predicates []predicate
}

// ParseFilter compiles a filter expression such as
// "name=~get.*,public=true,line>10". Regexes are compiled once here.
func ParseFilter(expr string) (*Filter, error) {
	f := &Filter{}
	for _, clause := range strings.Split(expr, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		p, err := parsePredicate(clause)
		if err != nil {
			return nil, err
		}
		f.predicates = append(f.predicates, p)
	}
	if len(f.predicates) == 0 {
		return nil, &core.InvalidArgumentsError{Field: "filter", Reason: "empty filter expression"}
	}
	return f, nil
}

func parsePredicate(clause string) (predicate, error) {
	ops := []string{"!~", "=~", "!=", "=", ">", "<"}
	for _, op := range ops {
		idx := strings.Index(clause, op)
		if idx <= 0 {
			continue
		}
		attr := strings.TrimSpace(clause[:idx])
		value := strings.TrimSpace(clause[idx+len(op):])
		p := predicate{attr: strings.ToLower(attr), op: op, value: value}

		switch op {
		case "=~", "!~":
			re, err := regexp.Compile(value)
			if err != nil {
				return predicate{}, &core.InvalidArgumentsError{
					Field:  "filter",
					Reason: fmt.Sprintf("bad regex %q: %v", value, err),
				}
			}
			p.re = re
		case ">", "<":
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return predicate{}, &core.InvalidArgumentsError{
					Field:  "filter",
					Reason: fmt.Sprintf("numeric comparison needs a number, got %q", value),
				}
			}
			p.number = n
			p.isNum = true
		case "=":
			if value == "true" || value == "false" {
				p.boolVal = value == "true"
				p.isBool = true
			}
		}
		return p, nil
	}
	return predicate{}, &core.InvalidArgumentsError{
		Field:  "filter",
		Reason: fmt.Sprintf("unrecognized predicate %q", clause),
	}
}

// Apply returns the records matching every predicate.
func (f *Filter) Apply(records []core.CaptureRecord) []core.CaptureRecord {
	var out []core.CaptureRecord
	for _, rec := range records {
		if f.matches(&rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (f *Filter) matches(rec *core.CaptureRecord) bool {
	for _, p := range f.predicates {
		if !p.eval(rec) {
			return false
		}
	}
	return true
}

func (p *predicate) eval(rec *core.CaptureRecord) bool {
	value, ok := attributeOf(rec, p.attr)
	if !ok {
		// Unknown attributes evaluate false.
		return false
	}
	switch p.op {
	case "=":
		if p.isBool {
			return (value == "true") == p.boolVal
		}
		return value == p.value
	case "!=":
		return value != p.value
	case "=~":
		return p.re.MatchString(value)
	case "!~":
		return !p.re.MatchString(value)
	case ">", "<":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		if p.op == ">" {
			return n > p.number
		}
		return n < p.number
	}
	return false
}

// attributeOf derives a named attribute from a capture record.
func attributeOf(rec *core.CaptureRecord, attr string) (string, bool) {
	switch attr {
	case "name":
		return deriveName(rec.Content), true
	case "line", "start_line":
		return strconv.Itoa(rec.StartLine), true
	case "end_line":
		return strconv.Itoa(rec.EndLine), true
	case "node_type", "type":
		return rec.NodeType, true
	case "capture", "capture_name":
		return rec.CaptureName, true
	case "content":
		return rec.Content, true
	case "public", "private", "protected":
		vis := deriveVisibility(rec.Content)
		return strconv.FormatBool(vis == attr), true
	case "visibility":
		return deriveVisibility(rec.Content), true
	case "static":
		return strconv.FormatBool(hasWord(rec.Content, "static")), true
	case "final":
		return strconv.FormatBool(hasWord(rec.Content, "final")), true
	}
	// Capture-name subkeys: "function.name" matches capture "function".
	if idx := strings.IndexByte(attr, '.'); idx > 0 {
		if rec.CaptureName == attr[:idx] {
			return attributeOf(rec, attr[idx+1:])
		}
	}
	return "", false
}

var identRe = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

var keywordSet = map[string]bool{
	"public": true, "private": true, "protected": true, "static": true,
	"final": true, "abstract": true, "synchronized": true, "native": true,
	"default": true, "async": true, "def": true, "function": true,
	"class": true, "interface": true, "enum": true, "record": true,
	"const": true, "let": true, "var": true, "void": true, "new": true,
	"export": true, "import": true, "extends": true, "implements": true,
	"readonly": true, "override": true,
}

// deriveName extracts the declared identifier from a capture's content:
// the identifier immediately before the first parameter list, or the
// first non-keyword identifier.
func deriveName(content string) string {
	head := content
	if idx := strings.IndexByte(head, '\n'); idx > 0 {
		head = head[:idx]
	}
	if open := strings.IndexByte(head, '('); open > 0 {
		idents := identRe.FindAllString(head[:open], -1)
		for i := len(idents) - 1; i >= 0; i-- {
			if !keywordSet[idents[i]] {
				return idents[i]
			}
		}
	}
	for _, ident := range identRe.FindAllString(head, -1) {
		if !keywordSet[ident] {
			return ident
		}
	}
	return ""
}

func deriveVisibility(content string) string {
	head := content
	if idx := strings.IndexByte(head, '\n'); idx > 0 {
		head = head[:idx]
	}
	switch {
	case hasWord(head, "public"):
		return "public"
	case hasWord(head, "protected"):
		return "protected"
	case hasWord(head, "private"):
		return "private"
	}
	return "default"
}

func hasWord(s, word string) bool {
	idx := 0
	for {
		at := strings.Index(s[idx:], word)
		if at < 0 {
			return false
		}
		at += idx
		before := at == 0 || !isWordByte(s[at-1])
		afterIdx := at + len(word)
		after := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return true
		}
		idx = at + len(word)
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
