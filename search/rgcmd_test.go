package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRgDefaultsToJSON(t *testing.T) {
	cmd := BuildRgCommand(RgConfig{Query: "test", Roots: []string{"/p"}})
	assert.Equal(t, []string{"rg", "--json", "--no-heading", "--color", "never"}, cmd[:5])
	assert.NotContains(t, cmd, "--count-matches")
}

func TestBuildRgCountModeTakesPrecedence(t *testing.T) {
	cmd := BuildRgCommand(RgConfig{Query: "test", Roots: []string{"/p"}, CountOnlyMatches: true})
	assert.Contains(t, cmd, "--count-matches")
	assert.NotContains(t, cmd, "--json")
}

func TestBuildRgCaseFlags(t *testing.T) {
	tests := []struct {
		mode string
		flag string
	}{
		{CaseSmart, "-S"},
		{CaseInsensitive, "-i"},
		{CaseSensitive, "-s"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cmd := BuildRgCommand(RgConfig{Query: "q", Roots: []string{"/p"}, Case: tt.mode})
			assert.Contains(t, cmd, tt.flag)
		})
	}
}

func TestBuildRgSearchModeFlags(t *testing.T) {
	cmd := BuildRgCommand(RgConfig{
		Query: "q", Roots: []string{"/p"},
		FixedStrings: true, Word: true, Multiline: true,
		FollowSymlinks: true, Hidden: true, NoIgnore: true,
	})
	for _, flag := range []string{"-F", "-w", "--multiline", "-L", "-H", "-u"} {
		assert.Contains(t, cmd, flag)
	}
}

func TestBuildRgExcludeGlobsGetBangPrefix(t *testing.T) {
	cmd := BuildRgCommand(RgConfig{
		Query: "q", Roots: []string{"/p"},
		IncludeGlobs: []string{"*.go"},
		ExcludeGlobs: []string{"vendor/**", "!dist/**"},
	})
	assert.Subset(t, cmd, []string{"-g", "*.go"})
	assert.Subset(t, cmd, []string{"-g", "!vendor/**"})
	// Already-prefixed patterns are not double-prefixed.
	assert.Subset(t, cmd, []string{"-g", "!dist/**"})
	assert.NotContains(t, cmd, "!!dist/**")
}

func TestBuildRgContextAndLimits(t *testing.T) {
	cmd := BuildRgCommand(RgConfig{
		Query: "q", Roots: []string{"/p"},
		ContextBefore: 2, ContextAfter: 3, MaxCount: 7, Encoding: "shift_jis",
	})
	assert.Subset(t, cmd, []string{"-B", "2"})
	assert.Subset(t, cmd, []string{"-A", "3"})
	assert.Subset(t, cmd, []string{"-m", "7"})
	assert.Subset(t, cmd, []string{"--encoding", "shift_jis"})
}

func TestBuildRgMaxFilesize(t *testing.T) {
	// Default applies when unset.
	cmd := BuildRgCommand(RgConfig{Query: "q", Roots: []string{"/p"}})
	assert.Subset(t, cmd, []string{"--max-filesize", "1G"})

	// User value passes through.
	cmd = BuildRgCommand(RgConfig{Query: "q", Roots: []string{"/p"}, MaxFilesize: "200M"})
	assert.Subset(t, cmd, []string{"--max-filesize", "200M"})

	// Values above the hard cap clamp to 10G.
	cmd = BuildRgCommand(RgConfig{Query: "q", Roots: []string{"/p"}, MaxFilesize: "50G"})
	assert.Subset(t, cmd, []string{"--max-filesize", "10G"})

	// Garbage falls back to the default.
	cmd = BuildRgCommand(RgConfig{Query: "q", Roots: []string{"/p"}, MaxFilesize: "huge"})
	assert.Subset(t, cmd, []string{"--max-filesize", "1G"})
}

func TestBuildRgQueryBeforeRoots(t *testing.T) {
	cmd := BuildRgCommand(RgConfig{Query: "needle", Roots: []string{"/a", "/b"}})
	require.GreaterOrEqual(t, len(cmd), 3)
	assert.Equal(t, []string{"needle", "/a", "/b"}, cmd[len(cmd)-3:])
}

func TestParseSizeToBytes(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1K", 1024, true},
		{"2M", 2 * 1024 * 1024, true},
		{"1G", 1024 * 1024 * 1024, true},
		{"512", 512, true},
		{"10m", 10 * 1024 * 1024, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseSizeToBytes(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 2000, ClampInt(0, 2000, 10000))
	assert.Equal(t, 5, ClampInt(5, 2000, 10000))
	assert.Equal(t, 10000, ClampInt(99999, 2000, 10000))
	assert.Equal(t, 2000, ClampInt(-1, 2000, 10000))
}
