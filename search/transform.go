package search

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/termfx/scry/core"
)

// summarization defaults mirroring the response-size expectations of
// token-constrained consumers.
const (
	summaryMaxFiles      = 10
	summaryMaxTotalLines = 50
	summarySampleWidth   = 60
	pathDepthThreshold   = 4
)

// GroupByFile eliminates per-match file duplication. Every input match
// lands in exactly one group; group order follows first appearance, so
// the transformation preserves the match multiset.
func GroupByFile(matches []core.SearchMatch) []FileGroup {
	if len(matches) == 0 {
		return []FileGroup{}
	}
	index := map[string]int{}
	var groups []FileGroup
	for _, m := range matches {
		i, ok := index[m.File]
		if !ok {
			i = len(groups)
			index[m.File] = i
			groups = append(groups, FileGroup{File: m.File})
		}
		groups[i].Matches = append(groups[i].Matches, GroupedLine{
			Line:      m.Line,
			Text:      m.Text,
			Positions: m.Matches,
		})
		groups[i].MatchCount++
	}
	return groups
}

// OptimizePaths strips the longest common prefix from match paths and
// abbreviates deep paths by replacing middle components with ".../".
// Applying it twice is a no-op.
func OptimizePaths(matches []core.SearchMatch) []core.SearchMatch {
	if len(matches) == 0 {
		return matches
	}
	var paths []string
	for _, m := range matches {
		if m.File != "" {
			paths = append(paths, m.File)
		}
	}
	prefix := commonDir(paths)

	out := make([]core.SearchMatch, len(matches))
	for i, m := range matches {
		out[i] = m
		if m.File != "" {
			out[i].File = optimizePath(m.File, prefix)
		}
	}
	return out
}

func commonDir(paths []string) string {
	if len(paths) < 2 {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(paths[0]), "/")
	for _, p := range paths[1:] {
		other := strings.Split(filepath.ToSlash(p), "/")
		n := 0
		for n < len(parts) && n < len(other)-1 && parts[n] == other[n] {
			n++
		}
		parts = parts[:n]
		if len(parts) == 0 {
			return ""
		}
	}
	return strings.Join(parts, "/")
}

func optimizePath(path, prefix string) string {
	p := filepath.ToSlash(path)
	if prefix != "" && strings.HasPrefix(p, prefix+"/") {
		p = p[len(prefix)+1:]
	}
	if strings.Contains(p, ".../") {
		return p
	}
	parts := strings.Split(p, "/")
	if len(parts) > pathDepthThreshold {
		p = parts[0] + "/.../" + strings.Join(parts[len(parts)-2:], "/")
	}
	return p
}

// Summarize reduces a result set to the top files by match count with a
// few sample lines each, truncated for token efficiency.
func Summarize(matches []core.SearchMatch, maxFiles, maxTotalLines int) Summary {
	if maxFiles <= 0 {
		maxFiles = summaryMaxFiles
	}
	if maxTotalLines <= 0 {
		maxTotalLines = summaryMaxTotalLines
	}
	if len(matches) == 0 {
		return Summary{Text: "No matches found", TopFiles: []FileSummary{}}
	}

	groups := GroupByFile(matches)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].MatchCount > groups[j].MatchCount
	})

	var paths []string
	for _, g := range groups {
		paths = append(paths, g.File)
	}
	prefix := commonDir(paths)

	summary := Summary{
		TotalMatches: len(matches),
		TotalFiles:   len(groups),
	}

	remaining := maxTotalLines
	for _, g := range groups {
		if len(summary.TopFiles) >= maxFiles || remaining <= 0 {
			break
		}
		entry := FileSummary{
			File:       optimizePath(g.File, prefix),
			MatchCount: g.MatchCount,
		}
		samples := min(3, min(remaining, len(g.Matches)))
		for _, m := range g.Matches[:samples] {
			text := strings.TrimSpace(m.Text)
			if text == "" {
				continue
			}
			truncated := text
			if len(truncated) > summarySampleWidth {
				truncated = truncated[:summarySampleWidth] + "..."
			}
			entry.SampleLines = append(entry.SampleLines, fmt.Sprintf("L%d: %s", m.Line, truncated))
			remaining--
		}
		if len(entry.SampleLines) == 0 {
			entry.SampleLines = []string{fmt.Sprintf("Found %d matches", g.MatchCount)}
		}
		summary.TopFiles = append(summary.TopFiles, entry)
	}

	if summary.TotalFiles <= maxFiles {
		summary.Text = fmt.Sprintf("Found %d matches in %d files", summary.TotalMatches, summary.TotalFiles)
	} else {
		summary.Text = fmt.Sprintf("Found %d matches in %d files (showing top %d)",
			summary.TotalMatches, summary.TotalFiles, len(summary.TopFiles))
		summary.Truncated = true
	}
	return summary
}
