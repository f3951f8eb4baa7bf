package search

import (
	"context"
	"time"

	"github.com/termfx/scry/core"
)

// ListResponse is the shape returned by ListFiles.
type ListResponse struct {
	Success   bool     `json:"success"`
	Count     int      `json:"count"`
	Files     []string `json:"files"`
	Truncated bool     `json:"truncated,omitempty"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// ListFiles is the thin filename-search wrapper: validate, build the fd
// command, execute, parse.
func (e *Engine) ListFiles(ctx context.Context, args map[string]any) (*ListResponse, error) {
	if !CommandExists("fd") {
		return nil, &core.MissingCommandError{Name: "fd"}
	}

	roots, err := stringList(args, "roots")
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, &core.InvalidArgumentsError{Field: "roots", Reason: "required parameter missing"}
	}
	projectRoot := e.ProjectRoot
	resolved, err := resolvePaths(roots, projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := FdConfig{Roots: resolved, Absolute: true}
	if err := readStrings(args, map[string]*string{
		"pattern":        &cfg.Pattern,
		"changed_within": &cfg.ChangedWithin,
		"changed_before": &cfg.ChangedBefore,
	}); err != nil {
		return nil, err
	}
	if err := readBools(args, map[string]*bool{
		"glob":            &cfg.Glob,
		"full_path_match": &cfg.FullPathMatch,
		"follow_symlinks": &cfg.FollowSymlinks,
		"hidden":          &cfg.Hidden,
		"no_ignore":       &cfg.NoIgnore,
	}); err != nil {
		return nil, err
	}
	if err := readInts(args, map[string]*int{
		"depth": &cfg.Depth,
		"limit": &cfg.Limit,
	}); err != nil {
		return nil, err
	}
	if cfg.Depth < 0 {
		return nil, &core.InvalidArgumentsError{Field: "depth", Reason: "must be >= 0"}
	}
	if cfg.Limit < 0 {
		return nil, &core.InvalidArgumentsError{Field: "limit", Reason: "must be >= 0"}
	}
	if cfg.Types, err = stringList(args, "types"); err != nil {
		return nil, err
	}
	if cfg.Extensions, err = stringList(args, "extensions"); err != nil {
		return nil, err
	}
	if cfg.Exclude, err = stringList(args, "exclude"); err != nil {
		return nil, err
	}
	if cfg.Size, err = stringList(args, "size"); err != nil {
		return nil, err
	}

	var timeout time.Duration
	timeoutMS := 0
	if err := readInts(args, map[string]*int{"timeout_ms": &timeoutMS}); err != nil {
		return nil, err
	}
	if timeoutMS > 0 {
		timeout = time.Duration(timeoutMS) * time.Millisecond
	}

	start := time.Now()
	code, stdout, stderr, err := RunCommand(ctx, BuildFdCommand(cfg), nil, timeout)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, &core.CommandFailedError{
			ExitCode: code,
			Stderr:   SanitizeErrorMessage(string(stderr)),
		}
	}

	limit := ClampInt(cfg.Limit, DefaultResultsLimit, MaxResultsHardCap)
	files := ParseFdOutput(stdout, limit)
	return &ListResponse{
		Success:   true,
		Count:     len(files),
		Files:     files,
		Truncated: len(files) >= limit,
		ElapsedMS: time.Since(start).Milliseconds(),
	}, nil
}
