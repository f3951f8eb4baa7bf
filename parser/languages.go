package parser

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/sql"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// grammarFns maps canonical language tags to grammar constructors.
// Grammars are loaded lazily on first parse and retained for the life
// of the process; after that the handles are read-only.
var grammarFns = map[string]func() *sitter.Language{
	"java":       java.GetLanguage,
	"python":     python.GetLanguage,
	"javascript": javascript.GetLanguage,
	"typescript": typescript.GetLanguage,
	"tsx":        tsx.GetLanguage,
	"markdown":   markdown.GetLanguage,
	"html":       html.GetLanguage,
	"css":        css.GetLanguage,
	"sql":        sql.GetLanguage,
}

// aliases maps common alternate tags to canonical ones.
var aliases = map[string]string{
	"js":  "javascript",
	"jsx": "javascript",
	"ts":  "typescript",
	"py":  "python",
	"md":  "markdown",
}

var (
	handleMu sync.RWMutex
	handles  = map[string]*sitter.Language{}
)

// Canonical normalizes a language tag to its canonical lowercase form.
func Canonical(language string) string {
	tag := strings.ToLower(strings.TrimSpace(language))
	if canon, ok := aliases[tag]; ok {
		return canon
	}
	return tag
}

// IsSupported reports whether a grammar exists for the language tag.
func IsSupported(language string) bool {
	_, ok := grammarFns[Canonical(language)]
	return ok
}

// SupportedLanguages returns the canonical tags of every grammar.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(grammarFns))
	for tag := range grammarFns {
		langs = append(langs, tag)
	}
	return langs
}

// Language returns the process-wide grammar handle for a language,
// loading it on first use.
func Language(language string) (*sitter.Language, bool) {
	tag := Canonical(language)

	handleMu.RLock()
	lang, ok := handles[tag]
	handleMu.RUnlock()
	if ok {
		return lang, true
	}

	fn, ok := grammarFns[tag]
	if !ok {
		return nil, false
	}

	handleMu.Lock()
	defer handleMu.Unlock()
	if lang, ok := handles[tag]; ok {
		return lang, true
	}
	lang = fn()
	handles[tag] = lang
	return lang, lang != nil
}
