package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/scry/core"
)

func sampleMatches() []core.SearchMatch {
	return []core.SearchMatch{
		{File: "src/app/a.py", Line: 1, Text: "alpha"},
		{File: "src/app/b.py", Line: 2, Text: "beta"},
		{File: "src/app/a.py", Line: 5, Text: "gamma"},
	}
}

func TestGroupByFilePreservesMultiset(t *testing.T) {
	matches := sampleMatches()
	groups := GroupByFile(matches)
	require.Len(t, groups, 2)

	total := 0
	for _, g := range groups {
		assert.Equal(t, len(g.Matches), g.MatchCount)
		total += g.MatchCount
	}
	assert.Equal(t, len(matches), total)

	// Every input match appears in exactly one group.
	seen := map[string]int{}
	for _, g := range groups {
		for _, m := range g.Matches {
			seen[g.File+":"+m.Text]++
		}
	}
	for _, m := range matches {
		assert.Equal(t, 1, seen[m.File+":"+m.Text])
	}
}

func TestGroupByFileEmpty(t *testing.T) {
	assert.Empty(t, GroupByFile(nil))
}

func TestOptimizePathsStripsCommonPrefix(t *testing.T) {
	matches := []core.SearchMatch{
		{File: "/home/user/project/src/a.py", Line: 1},
		{File: "/home/user/project/lib/b.py", Line: 2},
	}
	out := OptimizePaths(matches)
	assert.Equal(t, "src/a.py", out[0].File)
	assert.Equal(t, "lib/b.py", out[1].File)
	// Everything except the path is preserved.
	assert.Equal(t, matches[0].Line, out[0].Line)
}

func TestOptimizePathsAbbreviatesDeepPaths(t *testing.T) {
	matches := []core.SearchMatch{
		{File: "a/b/c/d/e/f.py", Line: 1},
		{File: "x/y.py", Line: 2},
	}
	out := OptimizePaths(matches)
	assert.Contains(t, out[0].File, ".../")
}

func TestOptimizePathsIdempotent(t *testing.T) {
	matches := []core.SearchMatch{
		{File: "/home/user/project/src/deep/very/nested/a.py", Line: 1},
		{File: "/home/user/project/lib/b.py", Line: 2},
	}
	once := OptimizePaths(matches)
	twice := OptimizePaths(once)
	assert.Equal(t, once, twice)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 10, 50)
	assert.Equal(t, 0, s.TotalMatches)
	assert.Equal(t, "No matches found", s.Text)
}

func TestSummarizeTopFiles(t *testing.T) {
	var matches []core.SearchMatch
	for i := 0; i < 5; i++ {
		matches = append(matches, core.SearchMatch{File: "busy.py", Line: i + 1, Text: "hit"})
	}
	matches = append(matches, core.SearchMatch{File: "quiet.py", Line: 1, Text: "hit"})

	s := Summarize(matches, 10, 50)
	assert.Equal(t, 6, s.TotalMatches)
	assert.Equal(t, 2, s.TotalFiles)
	require.NotEmpty(t, s.TopFiles)
	// Busiest file first.
	assert.Equal(t, "busy.py", s.TopFiles[0].File)
	assert.Equal(t, 5, s.TopFiles[0].MatchCount)
	assert.LessOrEqual(t, len(s.TopFiles[0].SampleLines), 3)
}

func TestSummarizeTruncatesLongSamples(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	matches := []core.SearchMatch{{File: "a.py", Line: 1, Text: string(long)}}
	s := Summarize(matches, 10, 50)
	require.NotEmpty(t, s.TopFiles)
	require.NotEmpty(t, s.TopFiles[0].SampleLines)
	// "L1: " prefix + 60 chars + ellipsis.
	assert.LessOrEqual(t, len(s.TopFiles[0].SampleLines[0]), 4+60+3)
}

func TestSummarizeMarksTruncation(t *testing.T) {
	var matches []core.SearchMatch
	for i := 0; i < 15; i++ {
		matches = append(matches, core.SearchMatch{File: string(rune('a'+i)) + ".py", Line: 1, Text: "hit"})
	}
	s := Summarize(matches, 10, 50)
	assert.True(t, s.Truncated)
	assert.Len(t, s.TopFiles, 10)
}
