// Package queries resolves (language, key) pairs to tree-sitter query
// source text. Query patterns live in embedded .scm files, one file per
// key; singular and plural key spellings resolve to the same entry.
package queries

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/termfx/scry/core"
)

//go:embed files
var queryFS embed.FS

// aliasOf maps alternate key spellings to the canonical file name.
var aliasOf = map[string]string{
	"function":   "functions",
	"method":     "methods",
	"class":      "classes",
	"field":      "fields",
	"import":     "imports",
	"package":    "packages",
	"annotation": "annotations",
	"variable":   "variables",
	"decorator":  "annotations",
	"decorators": "annotations",
	"section":    "sections",
	"heading":    "sections",
	"headings":   "sections",
	"element":    "elements",
	"script":     "scripts",
	"style":      "styles",
	"rule":       "rules",
	"selector":   "selectors",
	"at_rule":    "at_rules",
	"table":      "tables",
	"view":       "views",
	"index":      "indexes",
	"error":      "errors",
	"export":     "exports",
	"type":       "types",
	"code_block": "code_blocks",
}

// descriptions holds human-readable text per canonical key.
var descriptions = map[string]string{
	"functions":   "Function and constructor declarations",
	"methods":     "Method declarations",
	"classes":     "Class-like declarations (classes, interfaces, enums, records)",
	"fields":      "Field and class-level attribute declarations",
	"imports":     "Import statements",
	"packages":    "Package or module declarations",
	"annotations": "Annotations and decorators",
	"variables":   "Variable declarations and module-level bindings",
	"exports":     "Export statements",
	"types":       "Type alias declarations",
	"sections":    "Document headings",
	"code_blocks": "Fenced code blocks",
	"elements":    "Markup elements",
	"scripts":     "Embedded script elements",
	"styles":      "Embedded style elements",
	"rules":       "Style rule sets",
	"selectors":   "Rule selectors",
	"at_rules":    "At-rules (media, import, keyframes)",
	"tables":      "CREATE TABLE statements",
	"views":       "CREATE VIEW statements",
	"indexes":     "CREATE INDEX statements",
	"errors":      "ERROR nodes (grammar recovery, e.g. stored procedures)",
}

var (
	listOnce sync.Once
	byLang   map[string][]string
)

// CanonicalKey resolves aliases to the canonical key name.
func CanonicalKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if canon, ok := aliasOf[k]; ok {
		return canon
	}
	return k
}

// Get returns the query source for (language, key). Aliases resolve to
// the same entry; a missing entry yields QueryNotFoundError.
func Get(language, key string) (string, error) {
	canon := CanonicalKey(key)
	data, err := queryFS.ReadFile(fmt.Sprintf("files/%s/%s.scm", language, canon))
	if err != nil {
		return "", &core.QueryNotFoundError{Language: language, Key: key}
	}
	return string(data), nil
}

// Describe returns the human description for (language, key).
func Describe(language, key string) (string, error) {
	canon := CanonicalKey(key)
	if _, err := Get(language, canon); err != nil {
		return "", err
	}
	if d, ok := descriptions[canon]; ok {
		return d, nil
	}
	return canon, nil
}

// List returns the canonical query keys available for a language,
// sorted alphabetically. Unknown languages yield an empty list.
func List(language string) []string {
	listOnce.Do(buildIndex)
	keys := byLang[language]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Languages returns every language with at least one query file.
func Languages() []string {
	listOnce.Do(buildIndex)
	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func buildIndex() {
	byLang = map[string][]string{}
	langDirs, err := queryFS.ReadDir("files")
	if err != nil {
		return
	}
	for _, dir := range langDirs {
		if !dir.IsDir() {
			continue
		}
		entries, err := queryFS.ReadDir("files/" + dir.Name())
		if err != nil {
			continue
		}
		var keys []string
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, ".scm") {
				continue
			}
			keys = append(keys, strings.TrimSuffix(name, ".scm"))
		}
		sort.Strings(keys)
		byLang[dir.Name()] = keys
	}
}
