package base

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termfx/scry/core"
)

func TestVisibilityFromModifiers(t *testing.T) {
	tests := []struct {
		name     string
		mods     []string
		fallback core.Visibility
		want     core.Visibility
	}{
		{"explicit_public", []string{"public", "static"}, core.VisibilityPackage, core.VisibilityPublic},
		{"explicit_private", []string{"private"}, core.VisibilityPackage, core.VisibilityPrivate},
		{"explicit_protected", []string{"final", "protected"}, core.VisibilityPackage, core.VisibilityProtected},
		{"fallback_package", []string{"static"}, core.VisibilityPackage, core.VisibilityPackage},
		{"fallback_public", nil, core.VisibilityPublic, core.VisibilityPublic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VisibilityFromModifiers(tt.mods, tt.fallback))
		})
	}
}

func TestIsConstantName(t *testing.T) {
	assert.True(t, IsConstantName("MAX_RESULTS"))
	assert.True(t, IsConstantName("X"))
	assert.False(t, IsConstantName("maxResults"))
	assert.False(t, IsConstantName("Max"))
	assert.False(t, IsConstantName(""))
	assert.False(t, IsConstantName("_"))
}

func TestStripCommentMarkers(t *testing.T) {
	javadoc := "/**\n * Finds a user.\n *\n * @param id the id\n */"
	stripped := StripCommentMarkers(javadoc)
	assert.Contains(t, stripped, "Finds a user.")
	assert.NotContains(t, stripped, "/**")
	assert.NotContains(t, stripped, "*/")

	line := "// short note"
	assert.Equal(t, "short note", StripCommentMarkers(line))

	hash := "# python style"
	assert.Equal(t, "python style", StripCommentMarkers(hash))
}
