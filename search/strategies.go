package search

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/termfx/scry/core"
)

// Engine dispatches a validated context to exactly one strategy based
// on the output-mode flags. The formatter and output directory are
// injected by the caller; the engine never constructs a formatter.
type Engine struct {
	ProjectRoot string
	Formatter   core.Formatter
	OutputDir   string
}

// strategy shapes one output mode. Execute returns either a *Response
// or a bare int (total-only mode).
type strategy interface {
	execute(ctx context.Context, e *Engine, sc *Context) (any, error)
}

// Search validates args and runs the selected strategy.
func (e *Engine) Search(ctx context.Context, args map[string]any) (any, error) {
	if !CommandExists("rg") {
		return nil, &core.MissingCommandError{Name: "rg"}
	}
	sc, err := Validate(args, e.ProjectRoot)
	if err != nil {
		return nil, err
	}
	return e.selectStrategy(sc).execute(ctx, e, sc)
}

// selectStrategy picks the single strategy for the context. The
// validator already rejected conflicting mode flags, so priority order
// here only documents precedence.
func (e *Engine) selectStrategy(sc *Context) strategy {
	switch {
	case sc.TotalOnly:
		return totalCountStrategy{}
	case sc.CountOnlyMatches:
		return perFileCountStrategy{}
	case sc.OptimizePaths:
		return optimizedPathsStrategy{}
	case sc.GroupByFile:
		return groupedStrategy{}
	case sc.SummaryOnly:
		return summaryStrategy{}
	default:
		return normalStrategy{}
	}
}

// rgConfigFrom maps the context onto an rg configuration.
func rgConfigFrom(sc *Context, countOnly bool) RgConfig {
	targets := sc.Roots
	if len(targets) == 0 {
		targets = sc.Files
	}
	return RgConfig{
		Query:            sc.Query,
		Roots:            targets,
		Case:             sc.Case,
		FixedStrings:     sc.FixedStrings,
		Word:             sc.Word,
		Multiline:        sc.Multiline,
		IncludeGlobs:     sc.IncludeGlobs,
		ExcludeGlobs:     sc.ExcludeGlobs,
		FollowSymlinks:   sc.FollowSymlinks,
		Hidden:           sc.Hidden,
		NoIgnore:         sc.NoIgnore,
		MaxFilesize:      sc.MaxFilesize,
		ContextBefore:    sc.ContextBefore,
		ContextAfter:     sc.ContextAfter,
		Encoding:         sc.Encoding,
		MaxCount:         sc.MaxCount,
		CountOnlyMatches: countOnly,
	}
}

func timeoutOf(sc *Context) time.Duration {
	if sc.TimeoutMS > 0 {
		return time.Duration(sc.TimeoutMS) * time.Millisecond
	}
	return 0
}

// detectGitignoreInterference checks whether a searched root carries an
// ignore file whose rules would exclude the target area. When the
// caller did not ask for no_ignore explicitly, the flag is enabled
// silently and the decision is recorded in the response metadata.
func detectGitignoreInterference(sc *Context) bool {
	if sc.NoIgnore {
		return false
	}
	for _, root := range sc.Roots {
		data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			switch line {
			case "*", "**", "/*", "/":
				return true
			}
			// A rule ignoring the root's own directory name hides
			// everything the caller pointed at.
			if line != "" && !strings.HasPrefix(line, "#") &&
				strings.Trim(line, "/") == filepath.Base(root) {
				return true
			}
		}
	}
	return false
}

// runMatches executes the search and parses matches, applying the
// common pre-steps every strategy shares.
func runMatches(ctx context.Context, sc *Context) ([]core.SearchMatch, map[string]any, error) {
	meta := map[string]any{}
	if detectGitignoreInterference(sc) {
		sc.NoIgnore = true
		meta["auto_no_ignore"] = true
		slog.Info("gitignore rules would hide the search area; enabling no_ignore")
	}

	cfg := rgConfigFrom(sc, false)
	var (
		code   int
		stdout []byte
		stderr []byte
		err    error
	)
	if len(sc.Roots) > 1 && sc.EnableParallel {
		code, stdout, stderr, err = runParallel(ctx, cfg, timeoutOf(sc))
	} else {
		code, stdout, stderr, err = RunCommand(ctx, BuildRgCommand(cfg), nil, timeoutOf(sc))
	}
	if err != nil {
		return nil, meta, err
	}
	if code != 0 && code != 1 {
		return nil, meta, &core.CommandFailedError{
			ExitCode: code,
			Stderr:   SanitizeErrorMessage(string(stderr)),
		}
	}
	return ParseRgJSONMatches(stdout), meta, nil
}

// runCounts executes the search in count mode and merges per-chunk
// counts when parallel.
func runCounts(ctx context.Context, sc *Context) (map[string]int, map[string]any, error) {
	meta := map[string]any{}
	if detectGitignoreInterference(sc) {
		sc.NoIgnore = true
		meta["auto_no_ignore"] = true
		slog.Info("gitignore rules would hide the search area; enabling no_ignore")
	}

	cfg := rgConfigFrom(sc, true)
	targets := cfg.Roots
	if len(targets) > 1 && sc.EnableParallel {
		chunks := splitRoots(targets, maxChunks)
		maps := make([]map[string]int, 0, len(chunks))
		for _, chunk := range chunks {
			chunkCfg := cfg
			chunkCfg.Roots = chunk
			code, stdout, stderr, err := RunCommand(ctx, BuildRgCommand(chunkCfg), nil, timeoutOf(sc))
			if err != nil {
				return nil, meta, err
			}
			if code != 0 && code != 1 {
				return nil, meta, &core.CommandFailedError{
					ExitCode: code,
					Stderr:   SanitizeErrorMessage(string(stderr)),
				}
			}
			maps = append(maps, ParseRgCountOutput(stdout))
		}
		return mergeCounts(maps), meta, nil
	}

	code, stdout, stderr, err := RunCommand(ctx, BuildRgCommand(cfg), nil, timeoutOf(sc))
	if err != nil {
		return nil, meta, err
	}
	if code != 0 && code != 1 {
		return nil, meta, &core.CommandFailedError{
			ExitCode: code,
			Stderr:   SanitizeErrorMessage(string(stderr)),
		}
	}
	return ParseRgCountOutput(stdout), meta, nil
}

// truncate applies the caller's max_count bounded by the hard cap.
func truncate(matches []core.SearchMatch, maxCount int) ([]core.SearchMatch, bool) {
	limit := ClampInt(maxCount, DefaultResultsLimit, MaxResultsHardCap)
	if len(matches) <= limit {
		return matches, len(matches) >= MaxResultsHardCap
	}
	return matches[:limit], true
}

// finish applies the output-file contract and returns the response.
func finish(e *Engine, sc *Context, resp *Response) (any, error) {
	if sc.OutputFile == "" {
		return resp, nil
	}
	if e.Formatter == nil {
		return nil, &core.InvalidArgumentsError{Field: "output_file", Reason: "no formatter configured"}
	}
	text, err := e.Formatter(resp)
	if err != nil {
		return nil, err
	}
	dir := e.OutputDir
	if dir == "" {
		dir = sc.ProjectRoot
	}
	target := filepath.Join(dir, sc.OutputFile)
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return nil, err
	}
	if sc.SuppressOutput {
		return &Response{
			Success:    true,
			Count:      resp.Count,
			ElapsedMS:  resp.ElapsedMS,
			OutputFile: sc.OutputFile,
			FileSaved:  target,
		}, nil
	}
	resp.OutputFile = sc.OutputFile
	resp.FileSaved = target
	return resp, nil
}

type normalStrategy struct{}

func (normalStrategy) execute(ctx context.Context, e *Engine, sc *Context) (any, error) {
	start := time.Now()
	matches, meta, err := runMatches(ctx, sc)
	if err != nil {
		return nil, err
	}
	matches, truncated := truncate(matches, sc.MaxCount)
	resp := &Response{
		Success:   true,
		Count:     len(matches),
		Results:   matches,
		Truncated: truncated,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if len(meta) > 0 {
		resp.Meta = meta
	}
	return finish(e, sc, resp)
}

type optimizedPathsStrategy struct{}

func (optimizedPathsStrategy) execute(ctx context.Context, e *Engine, sc *Context) (any, error) {
	start := time.Now()
	matches, meta, err := runMatches(ctx, sc)
	if err != nil {
		return nil, err
	}
	matches, truncated := truncate(matches, sc.MaxCount)
	resp := &Response{
		Success:   true,
		Count:     len(matches),
		Results:   OptimizePaths(matches),
		Truncated: truncated,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if len(meta) > 0 {
		resp.Meta = meta
	}
	return finish(e, sc, resp)
}

type groupedStrategy struct{}

func (groupedStrategy) execute(ctx context.Context, e *Engine, sc *Context) (any, error) {
	start := time.Now()
	matches, meta, err := runMatches(ctx, sc)
	if err != nil {
		return nil, err
	}
	matches, truncated := truncate(matches, sc.MaxCount)
	resp := &Response{
		Success:   true,
		Count:     len(matches),
		Files:     GroupByFile(matches),
		Truncated: truncated,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if len(meta) > 0 {
		resp.Meta = meta
	}
	return finish(e, sc, resp)
}

type summaryStrategy struct{}

func (summaryStrategy) execute(ctx context.Context, e *Engine, sc *Context) (any, error) {
	start := time.Now()
	matches, meta, err := runMatches(ctx, sc)
	if err != nil {
		return nil, err
	}
	matches, _ = truncate(matches, sc.MaxCount)
	summary := Summarize(matches, summaryMaxFiles, summaryMaxTotalLines)
	resp := &Response{
		Success:   true,
		Count:     len(matches),
		Summary:   &summary,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	if len(meta) > 0 {
		resp.Meta = meta
	}
	return finish(e, sc, resp)
}

type perFileCountStrategy struct{}

func (perFileCountStrategy) execute(ctx context.Context, e *Engine, sc *Context) (any, error) {
	start := time.Now()
	counts, meta, err := runCounts(ctx, sc)
	if err != nil {
		return nil, err
	}
	total := counts[TotalCountKey]
	fileCounts := make(map[string]int, len(counts))
	for file, n := range counts {
		if file != TotalCountKey {
			fileCounts[file] = n
		}
	}
	resp := &Response{
		Success:      true,
		CountOnly:    true,
		TotalMatches: total,
		FileCounts:   fileCounts,
		ElapsedMS:    time.Since(start).Milliseconds(),
	}
	if len(meta) > 0 {
		resp.Meta = meta
	}
	return finish(e, sc, resp)
}

type totalCountStrategy struct{}

func (totalCountStrategy) execute(ctx context.Context, e *Engine, sc *Context) (any, error) {
	counts, _, err := runCounts(ctx, sc)
	if err != nil {
		return nil, err
	}
	return counts[TotalCountKey], nil
}
