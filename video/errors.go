package video

import (
	"fmt"
	"strings"
)

const stderrTailLines = 20

// ToolError reports an external command that exited unsuccessfully.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// tail keeps the last stderrTailLines non-empty lines of output.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimRight(line, "\r"))
		}
	}
	if len(kept) > stderrTailLines {
		kept = kept[len(kept)-stderrTailLines:]
	}
	return strings.Join(kept, "\n")
}
