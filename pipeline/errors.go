package pipeline

import (
	"errors"
	"fmt"
)

// Stage names one step of a conversion run.
type Stage string

const (
	StagePrepare    Stage = "prepare"
	StageExtract    Stage = "extract"
	StageProbe      Stage = "probe"
	StageRender     Stage = "render"
	StageReassemble Stage = "reassemble"
	StageCleanup    Stage = "cleanup"
)

// Process exit statuses. Each stage has its own so scripts can tell where a
// run stopped.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

var stageExitCodes = map[Stage]int{
	StagePrepare:    3,
	StageExtract:    4,
	StageProbe:      5,
	StageRender:     6,
	StageReassemble: 7,
	StageCleanup:    8,
}

// ErrPartialBatch means some frames failed to render, so the frame sequence
// has gaps and cannot be reassembled.
var ErrPartialBatch = errors.New("partial batch")

// StageError wraps the error that stopped a run in the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func (e *StageError) ExitCode() int {
	if code, ok := stageExitCodes[e.Stage]; ok {
		return code
	}
	return ExitFailure
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
