package search

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/termfx/scry/core"
)

// Exit codes reserved by the runner.
const (
	exitTimeout  = 124
	exitNotFound = 127
)

var (
	probeMu    sync.Mutex
	probeCache = map[string]bool{}
)

// CommandExists probes PATH for an executable, caching the answer for
// the life of the process.
func CommandExists(name string) bool {
	probeMu.Lock()
	defer probeMu.Unlock()
	if ok, cached := probeCache[name]; cached {
		return ok
	}
	_, err := exec.LookPath(name)
	probeCache[name] = err == nil
	return err == nil
}

// MissingCommands reports which of the required external tools are
// absent from PATH.
func MissingCommands() []string {
	var missing []string
	for _, name := range []string{"fd", "rg"} {
		if !CommandExists(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// RunCommand spawns argv with captured stdio and an optional timeout.
// Timeouts kill the child and yield exit code 124; a missing executable
// yields 127. The child never outlives the call.
func RunCommand(ctx context.Context, argv []string, stdin []byte, timeout time.Duration) (int, []byte, []byte, error) {
	if len(argv) == 0 {
		return -1, nil, nil, &core.InvalidArgumentsError{Field: "argv", Reason: "empty command"}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return exitTimeout, stdout.Bytes(), []byte("command timed out and was killed"), core.ErrCommandTimeout
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return exitNotFound, nil, []byte("executable not found: " + argv[0]),
				&core.MissingCommandError{Name: argv[0]}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), stdout.Bytes(), stderr.Bytes(), nil
		}
		return -1, stdout.Bytes(), stderr.Bytes(), err
	}
	return 0, stdout.Bytes(), stderr.Bytes(), nil
}

var permissionRe = regexp.MustCompile(`(?i)(permission denied|access is denied|operation not permitted)`)

var redactions = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`/etc/[^\s:]+`), "/etc/[redacted]"},
	{regexp.MustCompile(`/var/[^\s:]+`), "/var/[redacted]"},
	{regexp.MustCompile(`/sys/[^\s:]+`), "/sys/[redacted]"},
	{regexp.MustCompile(`/proc/[^\s:]+`), "/proc/[redacted]"},
	{regexp.MustCompile(`/root/[^\s:]+`), "/root/[redacted]"},
	{regexp.MustCompile(`/boot/[^\s:]+`), "/boot/[redacted]"},
	{regexp.MustCompile(`[A-Z]:\\Windows\\[^\s:]+`), `C:\Windows\[redacted]`},
	{regexp.MustCompile(`[A-Z]:\\Program Files\\[^\s:]+`), `C:\Program Files\[redacted]`},
	{regexp.MustCompile(`(?i)(password|token|secret|api[_-]?key)[=:]\S+`), "$1=[redacted]"},
}

// SanitizeErrorMessage redacts sensitive paths and credential-looking
// substrings from stderr, and collapses repeated permission-denied
// lines into a single summary.
func SanitizeErrorMessage(message string) string {
	if message == "" {
		return message
	}

	lines := strings.Split(message, "\n")
	var permissionLines, otherLines []string
	for _, line := range lines {
		if permissionRe.MatchString(line) {
			permissionLines = append(permissionLines, line)
		} else if strings.TrimSpace(line) != "" {
			otherLines = append(otherLines, line)
		}
	}

	if len(permissionLines) > 1 {
		otherLines = append(otherLines,
			"Permission denied accessing "+strconv.Itoa(len(permissionLines))+" restricted paths")
	} else {
		otherLines = append(otherLines, permissionLines...)
	}

	out := strings.Join(otherLines, "\n")
	for _, r := range redactions {
		out = r.re.ReplaceAllString(out, r.replacement)
	}
	return out
}
