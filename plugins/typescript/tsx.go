package typescript

import (
	"github.com/termfx/scry/plugins/base"
)

// TsxDefinition reuses the TypeScript vocabulary under the tsx grammar.
type TsxDefinition struct {
	Definition
}

// NewTsx returns the TSX plugin.
func NewTsx() *base.Plugin {
	return base.New(&TsxDefinition{})
}

func (d *TsxDefinition) Language() string { return "tsx" }

func (d *TsxDefinition) Extensions() []string {
	return []string{".tsx"}
}
