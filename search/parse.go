package search

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/termfx/scry/core"
)

// rgEvent is one line of ripgrep's NDJSON output. Only "match" events
// carry data we keep.
type rgEvent struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		LineNumber int `json:"line_number"`
		Lines      struct {
			Text string `json:"text"`
		} `json:"lines"`
		Submatches []struct {
			Start int `json:"start"`
			End   int `json:"end"`
		} `json:"submatches"`
	} `json:"data"`
}

// ParseFdOutput splits fd stdout into trimmed, non-empty paths with an
// optional limit.
func ParseFdOutput(stdout []byte, limit int) []string {
	if len(stdout) == 0 {
		return nil
	}
	var files []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, line)
		if limit > 0 && len(files) >= limit {
			break
		}
	}
	return files
}

// ParseRgJSONMatches decodes the NDJSON event stream, keeping only
// match events. Line text is whitespace-collapsed; malformed lines are
// skipped; parsing stops at the hard cap.
func ParseRgJSONMatches(stdout []byte) []core.SearchMatch {
	var matches []core.SearchMatch
	for _, raw := range bytes.Split(stdout, []byte("\n")) {
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		var evt rgEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			slog.Debug("skipping malformed rg json line", "error", err)
			continue
		}
		if evt.Type != "match" || evt.Data.Path.Text == "" {
			continue
		}

		match := core.SearchMatch{
			File: evt.Data.Path.Text,
			Line: evt.Data.LineNumber,
			Text: collapseWhitespace(evt.Data.Lines.Text),
		}
		for _, sm := range evt.Data.Submatches {
			match.Matches = append(match.Matches, [2]int{sm.Start, sm.End})
		}
		matches = append(matches, match)

		if len(matches) >= MaxResultsHardCap {
			break
		}
	}
	return matches
}

// ParseRgCountOutput parses "path:N" lines into a per-file count map
// with a synthetic total under TotalCountKey.
func ParseRgCountOutput(stdout []byte) map[string]int {
	counts := map[string]int{}
	total := 0
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.LastIndexByte(line, ':')
		if idx <= 0 {
			continue
		}
		n, err := strconv.Atoi(line[idx+1:])
		if err != nil {
			continue
		}
		counts[line[:idx]] = n
		total += n
	}
	counts[TotalCountKey] = total
	return counts
}

// collapseWhitespace reduces interior whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
