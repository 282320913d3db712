// Package domain defines core business types and interfaces.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactKind identifies how the backend is launched.
type ArtifactKind string

const (
	// ArtifactBinary is a packaged, directly executable backend.
	ArtifactBinary ArtifactKind = "binary"
	// ArtifactScript is a backend script run through an interpreter.
	ArtifactScript ArtifactKind = "script"
)

// String returns the string representation of the artifact kind.
func (k ArtifactKind) String() string {
	return string(k)
}

// Artifact is the backend selected for a single dispatch.
type Artifact struct {
	Kind ArtifactKind `json:"kind"`
	Path string       `json:"path"`

	// Interpreter is set only for ArtifactScript.
	Interpreter string `json:"interpreter,omitempty"`
}

// RunResult contains the result of one backend invocation.
type RunResult struct {
	RunID     string        `json:"run_id"`
	Artifact  Artifact      `json:"artifact"`
	Args      []string      `json:"args"`
	Output    string        `json:"output"`
	Succeeded bool          `json:"succeeded"`
	ExitCode  int           `json:"exit_code"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// NewRunResult creates a RunResult for the given artifact and arguments.
func NewRunResult(artifact Artifact, args []string) *RunResult {
	return &RunResult{
		RunID:     uuid.New().String(),
		Artifact:  artifact,
		Args:      args,
		StartTime: time.Now(),
	}
}

// Complete marks the result as complete.
func (r *RunResult) Complete(output string, exitCode int) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Output = output
	r.ExitCode = exitCode
	r.Succeeded = exitCode == 0
}

// Outcome folds a dispatch into the text shown to the caller and whether the
// run succeeded. Lookup and spawn errors surface as their message; a run that
// exited non-zero surfaces its combined output, same as a successful one.
func Outcome(result *RunResult, err error) (string, bool) {
	if err != nil {
		return err.Error(), false
	}
	if result == nil {
		return "", false
	}
	return result.Output, result.Succeeded
}
