package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termfx/scry/parser"
)

const fixtureSource = "# Title\n\nIntro text.\n\n## Usage\n\n```go\nfunc main() {}\n```\n"

func TestHeadingsAndCodeBlocks(t *testing.T) {
	result, err := parser.ParseString(context.Background(), fixtureSource, "markdown")
	require.NoError(t, err)
	defer result.Close()

	elements := New().ExtractElements(result.Tree, result.Source)

	titles := map[string]bool{}
	for _, s := range elements["sections"] {
		titles[s.Name] = true
	}
	assert.True(t, titles["Title"])
	assert.True(t, titles["Usage"])

	require.Len(t, elements["code_blocks"], 1)
	assert.Equal(t, "go", elements["code_blocks"][0].Name)
}
