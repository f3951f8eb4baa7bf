package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFdBasic(t *testing.T) {
	cmd := BuildFdCommand(FdConfig{Pattern: "*.py", Roots: []string{"/path"}})
	assert.Equal(t, "fd", cmd[0])
	assert.Contains(t, cmd, "--color")
	assert.Contains(t, cmd, "never")
	assert.Contains(t, cmd, "*.py")
	assert.Equal(t, "/path", cmd[len(cmd)-1])
}

func TestBuildFdPatternDefaultsToDot(t *testing.T) {
	cmd := BuildFdCommand(FdConfig{Roots: []string{"/a", "/b"}})
	// Without a pattern, "." keeps the roots from being read as one.
	assert.Equal(t, []string{".", "/a", "/b"}, cmd[len(cmd)-3:])
}

func TestBuildFdFlagMapping(t *testing.T) {
	tests := []struct {
		name string
		cfg  FdConfig
		flag string
	}{
		{"glob", FdConfig{Glob: true, Roots: []string{"/p"}}, "--glob"},
		{"full_path", FdConfig{FullPathMatch: true, Roots: []string{"/p"}}, "-p"},
		{"absolute", FdConfig{Absolute: true, Roots: []string{"/p"}}, "-a"},
		{"symlinks", FdConfig{FollowSymlinks: true, Roots: []string{"/p"}}, "-L"},
		{"hidden", FdConfig{Hidden: true, Roots: []string{"/p"}}, "-H"},
		{"no_ignore", FdConfig{NoIgnore: true, Roots: []string{"/p"}}, "-I"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, BuildFdCommand(tt.cfg), tt.flag)
		})
	}
}

func TestBuildFdValueFlags(t *testing.T) {
	cmd := BuildFdCommand(FdConfig{
		Roots:         []string{"/p"},
		Depth:         2,
		Types:         []string{"f", "d"},
		Extensions:    []string{".go", "py"},
		Exclude:       []string{"node_modules"},
		Size:          []string{"+1k"},
		ChangedWithin: "1d",
		ChangedBefore: "2w",
		Limit:         50,
	})
	assert.Subset(t, cmd, []string{"-d", "2"})
	assert.Subset(t, cmd, []string{"-t", "f"})
	assert.Subset(t, cmd, []string{"-t", "d"})
	// Extensions lose their leading dot.
	assert.Subset(t, cmd, []string{"-e", "go"})
	assert.Subset(t, cmd, []string{"-e", "py"})
	assert.NotContains(t, cmd, ".go")
	assert.Subset(t, cmd, []string{"-E", "node_modules"})
	assert.Subset(t, cmd, []string{"-S", "+1k"})
	assert.Subset(t, cmd, []string{"--changed-within", "1d"})
	assert.Subset(t, cmd, []string{"--changed-before", "2w"})
	assert.Subset(t, cmd, []string{"--max-results", "50"})
}

func TestBuildFdDeterministic(t *testing.T) {
	cfg := FdConfig{Pattern: "x", Roots: []string{"/p"}, Hidden: true, Depth: 3}
	assert.Equal(t, BuildFdCommand(cfg), BuildFdCommand(cfg))
}
