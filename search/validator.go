package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/termfx/scry/core"
)

var outputModeFlags = []string{
	"total_only", "count_only_matches", "summary_only", "group_by_file", "optimize_paths",
}

// Validate turns a loosely-typed argument bag into an immutable search
// Context, enforcing presence, types, ranges, enums, mutual exclusion,
// and path containment. projectRoot bounds every root and file path.
func Validate(args map[string]any, projectRoot string) (*Context, error) {
	if projectRoot == "" {
		projectRoot, _ = os.Getwd()
	}
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, &core.InvalidArgumentsError{Field: "project_root", Reason: err.Error()}
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, &core.InvalidArgumentsError{Field: "query", Reason: "required parameter missing"}
	}

	roots, err := stringList(args, "roots")
	if err != nil {
		return nil, err
	}
	files, err := stringList(args, "files")
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 && len(files) == 0 {
		return nil, &core.InvalidArgumentsError{Field: "roots", Reason: "either roots or files must be provided"}
	}
	if len(roots) > 0 && len(files) > 0 {
		return nil, &core.InvalidArgumentsError{Field: "roots", Reason: "roots and files are mutually exclusive"}
	}

	ctx := &Context{
		Query:       query,
		Case:        CaseSmart,
		ProjectRoot: absRoot,

		EnableParallel: true,
		OutputFormat:   "json",
	}

	if err := readBools(args, map[string]*bool{
		"fixed_strings":      &ctx.FixedStrings,
		"word":               &ctx.Word,
		"multiline":          &ctx.Multiline,
		"follow_symlinks":    &ctx.FollowSymlinks,
		"hidden":             &ctx.Hidden,
		"no_ignore":          &ctx.NoIgnore,
		"total_only":         &ctx.TotalOnly,
		"count_only_matches": &ctx.CountOnlyMatches,
		"summary_only":       &ctx.SummaryOnly,
		"group_by_file":      &ctx.GroupByFile,
		"optimize_paths":     &ctx.OptimizePaths,
		"suppress_output":    &ctx.SuppressOutput,
		"enable_parallel":    &ctx.EnableParallel,
	}); err != nil {
		return nil, err
	}

	if err := readInts(args, map[string]*int{
		"context_before": &ctx.ContextBefore,
		"context_after":  &ctx.ContextAfter,
		"max_count":      &ctx.MaxCount,
		"timeout_ms":     &ctx.TimeoutMS,
	}); err != nil {
		return nil, err
	}
	if ctx.ContextBefore < 0 {
		return nil, &core.InvalidArgumentsError{Field: "context_before", Reason: "must be >= 0"}
	}
	if ctx.ContextAfter < 0 {
		return nil, &core.InvalidArgumentsError{Field: "context_after", Reason: "must be >= 0"}
	}
	if _, set := args["max_count"]; set && ctx.MaxCount < 1 {
		return nil, &core.InvalidArgumentsError{Field: "max_count", Reason: "must be >= 1"}
	}
	if _, set := args["timeout_ms"]; set && ctx.TimeoutMS < 1 {
		return nil, &core.InvalidArgumentsError{Field: "timeout_ms", Reason: "must be >= 1"}
	}

	if err := readStrings(args, map[string]*string{
		"case":          &ctx.Case,
		"encoding":      &ctx.Encoding,
		"max_filesize":  &ctx.MaxFilesize,
		"output_file":   &ctx.OutputFile,
		"output_format": &ctx.OutputFormat,
	}); err != nil {
		return nil, err
	}
	switch ctx.Case {
	case CaseSmart, CaseInsensitive, CaseSensitive:
	default:
		return nil, &core.InvalidArgumentsError{
			Field:  "case",
			Reason: fmt.Sprintf("must be one of smart, insensitive, sensitive; got %q", ctx.Case),
		}
	}
	switch ctx.OutputFormat {
	case "json", "toon":
	default:
		return nil, &core.InvalidArgumentsError{
			Field:  "output_format",
			Reason: fmt.Sprintf("must be json or toon; got %q", ctx.OutputFormat),
		}
	}

	if ctx.IncludeGlobs, err = stringList(args, "include_globs"); err != nil {
		return nil, err
	}
	if ctx.ExcludeGlobs, err = stringList(args, "exclude_globs"); err != nil {
		return nil, err
	}
	for _, glob := range append(append([]string{}, ctx.IncludeGlobs...), ctx.ExcludeGlobs...) {
		if !doublestar.ValidatePattern(strings.TrimPrefix(glob, "!")) {
			return nil, &core.InvalidArgumentsError{Field: "include_globs", Reason: fmt.Sprintf("invalid glob %q", glob)}
		}
	}

	modes := 0
	for _, flag := range outputModeFlags {
		if v, ok := args[flag].(bool); ok && v {
			modes++
		}
	}
	if modes > 1 {
		return nil, &core.InvalidArgumentsError{
			Field:  "output_mode",
			Reason: "at most one output mode flag may be set",
		}
	}

	if ctx.Roots, err = resolvePaths(roots, absRoot); err != nil {
		return nil, err
	}
	if ctx.Files, err = resolvePaths(files, absRoot); err != nil {
		return nil, err
	}
	warnOversized(ctx.Files, ctx.MaxFilesize)

	return ctx, nil
}

func stringList(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &core.InvalidArgumentsError{Field: key, Reason: "must be a list of strings"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &core.InvalidArgumentsError{Field: key, Reason: "must be a list"}
	}
}

func readBools(args map[string]any, dest map[string]*bool) error {
	for key, ptr := range dest {
		raw, ok := args[key]
		if !ok {
			continue
		}
		v, ok := raw.(bool)
		if !ok {
			return &core.InvalidArgumentsError{Field: key, Reason: "must be a boolean"}
		}
		*ptr = v
	}
	return nil
}

func readInts(args map[string]any, dest map[string]*int) error {
	for key, ptr := range dest {
		raw, ok := args[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case int:
			*ptr = v
		case float64:
			*ptr = int(v)
		default:
			return &core.InvalidArgumentsError{Field: key, Reason: "must be an integer"}
		}
	}
	return nil
}

func readStrings(args map[string]any, dest map[string]*string) error {
	for key, ptr := range dest {
		raw, ok := args[key]
		if !ok {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			return &core.InvalidArgumentsError{Field: key, Reason: "must be a string"}
		}
		*ptr = v
	}
	return nil
}

// resolvePaths makes paths absolute and rejects any that escape the
// project root.
func resolvePaths(paths []string, projectRoot string) ([]string, error) {
	var out []string
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(projectRoot, p)
		}
		abs = filepath.Clean(abs)
		rel, err := filepath.Rel(projectRoot, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, &core.PathOutsideRootError{Path: p}
		}
		out = append(out, abs)
	}
	return out, nil
}

// warnOversized logs named files larger than the effective filesize
// cap: the underlying search silently skips them, which surprises
// callers who listed the file explicitly.
func warnOversized(files []string, maxFilesize string) {
	limit, ok := parseSizeToBytes(maxFilesize)
	if !ok || limit <= 0 {
		limit, _ = parseSizeToBytes(defaultMaxFilesize)
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.Size() > limit {
			slog.Warn("named file exceeds max_filesize and will be skipped by the search",
				"file", f, "size", info.Size(), "limit", limit)
		}
	}
}
