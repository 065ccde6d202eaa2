package video

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary the pipeline needs.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports whether a requirement resolved on PATH.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// Requirements returns the toolkit binaries t invokes.
func (t *Toolkit) Requirements() []Requirement {
	return []Requirement{
		{Name: "ffmpeg", Command: t.FFmpeg, Description: "frame extraction and reassembly"},
		{Name: "ffprobe", Command: t.FFprobe, Description: "frame rate and audio probing"},
	}
}

// CheckBinaries resolves every requirement with exec.LookPath.
func CheckBinaries(reqs []Requirement) []Status {
	results := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		switch path, err := exec.LookPath(req.Command); {
		case req.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		default:
			status.Available = true
			status.Path = path
		}
		results = append(results, status)
	}
	return results
}
