package plugins

import (
	"sync"

	"github.com/termfx/scry/plugins/css"
	"github.com/termfx/scry/plugins/html"
	"github.com/termfx/scry/plugins/java"
	"github.com/termfx/scry/plugins/javascript"
	"github.com/termfx/scry/plugins/markdown"
	"github.com/termfx/scry/plugins/python"
	"github.com/termfx/scry/plugins/sql"
	"github.com/termfx/scry/plugins/typescript"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry with every built-in
// language plugin registered. Adding a language means adding a plugin
// package here and its query files; nothing else changes.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Register(java.New())
		defaultRegistry.Register(python.New())
		defaultRegistry.Register(javascript.New())
		defaultRegistry.Register(typescript.New())
		defaultRegistry.Register(typescript.NewTsx())
		defaultRegistry.Register(markdown.New())
		defaultRegistry.Register(html.New())
		defaultRegistry.Register(css.New())
		defaultRegistry.Register(sql.New())
	})
	return defaultRegistry
}
