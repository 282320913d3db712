package domain

import "context"

// Dispatcher runs the external backend against an exports directory.
// Implementations block until the backend process exits.
type Dispatcher interface {
	// Dispatch resolves the backend artifact and runs it. A returned error
	// means the process never ran (no artifact, spawn failure); a process
	// that ran and exited non-zero is reported through RunResult.Succeeded.
	Dispatch(ctx context.Context, exportsDir string) (*RunResult, error)
}
