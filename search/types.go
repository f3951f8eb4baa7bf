// Package search composes fd and ripgrep into a strategy-driven search
// pipeline: argument validation, command construction, bounded-parallel
// execution, result parsing, and per-mode response shaping.
package search

import (
	"github.com/termfx/scry/core"
)

// Safety caps enforced at the parser stage; not caller-configurable.
const (
	MaxResultsHardCap   = 10000
	DefaultResultsLimit = 2000
)

// TotalCountKey is the synthetic entry carrying the aggregate count in
// per-file count maps.
const TotalCountKey = "__total__"

// CaseMode values accepted by the validator.
const (
	CaseSmart       = "smart"
	CaseInsensitive = "insensitive"
	CaseSensitive   = "sensitive"
)

// Context is the validated, immutable argument record a strategy runs
// with. It is produced only by Validate.
type Context struct {
	Query string
	Roots []string
	Files []string

	Case         string
	FixedStrings bool
	Word         bool
	Multiline    bool

	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool
	Hidden         bool
	NoIgnore       bool
	MaxFilesize    string

	ContextBefore int
	ContextAfter  int
	Encoding      string
	MaxCount      int
	TimeoutMS     int

	TotalOnly        bool
	CountOnlyMatches bool
	SummaryOnly      bool
	GroupByFile      bool
	OptimizePaths    bool

	OutputFile     string
	SuppressOutput bool
	OutputFormat   string
	EnableParallel bool

	ProjectRoot string
}

// FileGroup is one file's matches in grouped responses.
type FileGroup struct {
	File       string        `json:"file"`
	Matches    []GroupedLine `json:"matches"`
	MatchCount int           `json:"match_count"`
}

// GroupedLine is a match with the file path factored out.
type GroupedLine struct {
	Line      int      `json:"line"`
	Text      string   `json:"text"`
	Positions [][2]int `json:"positions,omitempty"`
}

// FileSummary is one entry of a summary response.
type FileSummary struct {
	File        string   `json:"file"`
	MatchCount  int      `json:"match_count"`
	SampleLines []string `json:"sample_lines,omitempty"`
}

// Summary aggregates a result set for token-efficient consumption.
type Summary struct {
	TotalMatches int           `json:"total_matches"`
	TotalFiles   int           `json:"total_files"`
	Text         string        `json:"summary"`
	TopFiles     []FileSummary `json:"top_files"`
	Truncated    bool          `json:"truncated,omitempty"`
}

// Response is the common shape returned by search strategies. Fields
// are populated per mode; the TotalCount strategy returns a bare int
// instead.
type Response struct {
	Success      bool               `json:"success"`
	Count        int                `json:"count,omitempty"`
	Results      []core.SearchMatch `json:"results,omitempty"`
	Files        []FileGroup        `json:"files,omitempty"`
	Summary      *Summary           `json:"summary,omitempty"`
	CountOnly    bool               `json:"count_only,omitempty"`
	TotalMatches int                `json:"total_matches,omitempty"`
	FileCounts   map[string]int     `json:"file_counts,omitempty"`
	Truncated    bool               `json:"truncated,omitempty"`
	ElapsedMS    int64              `json:"elapsed_ms"`
	Meta         map[string]any     `json:"meta,omitempty"`
	OutputFile   string             `json:"output_file,omitempty"`
	FileSaved    string             `json:"file_saved,omitempty"`
}
