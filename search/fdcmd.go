package search

import (
	"strconv"
	"strings"
)

// FdConfig is the immutable configuration for one fd invocation.
type FdConfig struct {
	Pattern       string
	Glob          bool
	FullPathMatch bool

	Types      []string
	Extensions []string
	Exclude    []string

	Depth          int // 0 means unlimited
	FollowSymlinks bool
	Hidden         bool
	NoIgnore       bool

	Size          []string
	ChangedWithin string
	ChangedBefore string

	Absolute bool
	Limit    int // 0 means no limit

	Roots []string
}

// BuildFdCommand maps an FdConfig to an argument vector. It is a pure
// transformation; nothing is executed here. The pattern always comes
// before the roots, substituting "." when absent so the roots are not
// interpreted as a pattern.
func BuildFdCommand(cfg FdConfig) []string {
	cmd := []string{"fd", "--color", "never"}

	// Search mode flags
	if cfg.Glob {
		cmd = append(cmd, "--glob")
	}
	if cfg.FullPathMatch {
		cmd = append(cmd, "-p")
	}

	// Output format
	if cfg.Absolute {
		cmd = append(cmd, "-a")
	}

	// Traversal behavior
	if cfg.FollowSymlinks {
		cmd = append(cmd, "-L")
	}
	if cfg.Hidden {
		cmd = append(cmd, "-H")
	}
	if cfg.NoIgnore {
		cmd = append(cmd, "-I")
	}

	if cfg.Depth > 0 {
		cmd = append(cmd, "-d", strconv.Itoa(cfg.Depth))
	}

	// File type filters
	for _, t := range cfg.Types {
		cmd = append(cmd, "-t", t)
	}
	for _, ext := range cfg.Extensions {
		cmd = append(cmd, "-e", strings.TrimPrefix(ext, "."))
	}
	for _, pattern := range cfg.Exclude {
		cmd = append(cmd, "-E", pattern)
	}

	// File attribute filters
	for _, size := range cfg.Size {
		cmd = append(cmd, "-S", size)
	}
	if cfg.ChangedWithin != "" {
		cmd = append(cmd, "--changed-within", cfg.ChangedWithin)
	}
	if cfg.ChangedBefore != "" {
		cmd = append(cmd, "--changed-before", cfg.ChangedBefore)
	}

	if cfg.Limit > 0 {
		cmd = append(cmd, "--max-results", strconv.Itoa(cfg.Limit))
	}

	if cfg.Pattern != "" {
		cmd = append(cmd, cfg.Pattern)
	} else {
		cmd = append(cmd, ".")
	}

	cmd = append(cmd, cfg.Roots...)
	return cmd
}
