package search

import (
	"bytes"
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/termfx/scry/core"
)

// maxChunks bounds both the number of root chunks and the concurrent
// child processes.
const maxChunks = 4

var parallelSem = semaphore.NewWeighted(maxChunks)

// splitRoots partitions roots into at most n chunks as evenly as
// possible, distributing the remainder to leading chunks.
func splitRoots(roots []string, n int) [][]string {
	if n > len(roots) {
		n = len(roots)
	}
	if n <= 1 {
		return [][]string{roots}
	}
	size := len(roots) / n
	rem := len(roots) % n
	chunks := make([][]string, 0, n)
	idx := 0
	for i := 0; i < n; i++ {
		take := size
		if i < rem {
			take++
		}
		chunks = append(chunks, roots[idx:idx+take])
		idx += take
	}
	return chunks
}

type chunkResult struct {
	exitCode int
	stdout   []byte
	stderr   []byte
	err      error
}

// runParallel builds one rg command per root chunk, launches them with
// bounded concurrency, and merges outputs in chunk-index order so the
// result is deterministic. In JSON mode stdout blobs concatenate and
// the merged exit code is 0 if any chunk matched; in count mode the
// caller sums the parsed maps. A chunk failing critically (exit code
// outside {0, 1}) becomes the merged failure.
func runParallel(ctx context.Context, cfg RgConfig, timeout time.Duration) (int, []byte, []byte, error) {
	chunks := splitRoots(cfg.Roots, maxChunks)
	if len(chunks) == 1 {
		return RunCommand(ctx, BuildRgCommand(cfg), nil, timeout)
	}

	results := make([]chunkResult, len(chunks))
	done := make(chan int, len(chunks))

	for i, chunk := range chunks {
		chunkCfg := cfg
		chunkCfg.Roots = chunk
		argv := BuildRgCommand(chunkCfg)
		go func(i int, argv []string) {
			if err := parallelSem.Acquire(ctx, 1); err != nil {
				results[i] = chunkResult{exitCode: -1, err: err}
				done <- i
				return
			}
			defer parallelSem.Release(1)
			code, out, errOut, err := RunCommand(ctx, argv, nil, timeout)
			results[i] = chunkResult{exitCode: code, stdout: out, stderr: errOut, err: err}
			done <- i
		}(i, argv)
	}
	for range chunks {
		<-done
	}

	merged := bytes.Buffer{}
	mergedStderr := bytes.Buffer{}
	anyMatch := false
	for _, res := range results {
		if res.err != nil {
			return res.exitCode, nil, res.stderr, res.err
		}
		switch res.exitCode {
		case 0:
			anyMatch = true
		case 1:
			// No matches in this chunk; not a failure.
		default:
			return res.exitCode, nil, res.stderr,
				&core.CommandFailedError{
					ExitCode: res.exitCode,
					Stderr:   SanitizeErrorMessage(string(res.stderr)),
				}
		}
		merged.Write(res.stdout)
		if len(res.stderr) > 0 {
			mergedStderr.Write(res.stderr)
			mergedStderr.WriteByte('\n')
		}
	}

	exit := 1
	if anyMatch {
		exit = 0
	}
	return exit, merged.Bytes(), mergedStderr.Bytes(), nil
}

// mergeCounts sums per-file counts across chunk outputs. Files appear
// in at most one chunk, but summing is defensive and commutative.
func mergeCounts(maps []map[string]int) map[string]int {
	merged := map[string]int{}
	total := 0
	for _, m := range maps {
		for file, count := range m {
			if file == TotalCountKey {
				continue
			}
			merged[file] += count
			total += count
		}
	}
	merged[TotalCountKey] = total
	return merged
}
