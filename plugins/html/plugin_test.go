package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termfx/scry/parser"
)

const fixtureSource = `<!DOCTYPE html>
<html>
<head>
  <style>body { margin: 0; }</style>
  <script>console.log("hi");</script>
</head>
<body>
  <div id="app">
    <span>plain</span>
  </div>
</body>
</html>
`

func TestElementsWithIDs(t *testing.T) {
	result, err := parser.ParseString(context.Background(), fixtureSource, "html")
	require.NoError(t, err)
	defer result.Close()

	elements := New().ExtractElements(result.Tree, result.Source)

	names := map[string]bool{}
	for _, e := range elements["elements"] {
		names[e.Name] = true
	}
	assert.True(t, names["div#app"])
	// Elements without ids stay out of the element model.
	assert.False(t, names["span"])

	require.Len(t, elements["scripts"], 1)
	require.Len(t, elements["styles"], 1)
}
