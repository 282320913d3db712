// Package app provides the command facade the UI layer calls into.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
	"github.com/sharkusmanch/wrapped-runner/internal/pathresolve"
)

// ErrMissingExportsDir is returned when a payload carries neither key.
var ErrMissingExportsDir = errors.New("missing required parameter `exports_dir` or `exportsDir`")

// RunFailedError reports a backend that ran but exited non-zero. Its message
// is the combined output, so callers show it the same way as a success.
type RunFailedError struct {
	Result *domain.RunResult
}

func (e *RunFailedError) Error() string {
	return e.Result.Output
}

// Commands adapts caller input into dispatcher and path resolver calls.
type Commands struct {
	dispatcher domain.Dispatcher
	resolver   *pathresolve.Resolver
	logger     *slog.Logger
}

// CommandsOption configures Commands.
type CommandsOption func(*Commands)

// WithDispatcher sets the dispatcher.
func WithDispatcher(d domain.Dispatcher) CommandsOption {
	return func(c *Commands) {
		c.dispatcher = d
	}
}

// WithResolver sets the path resolver.
func WithResolver(r *pathresolve.Resolver) CommandsOption {
	return func(c *Commands) {
		c.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CommandsOption {
	return func(c *Commands) {
		c.logger = l
	}
}

// NewCommands creates a new Commands.
func NewCommands(opts ...CommandsOption) *Commands {
	c := &Commands{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ParsePayload decodes a loosely-typed JSON object. Keys whose value is not
// a string (including null) are treated as absent, and valid JSON that is not
// an object carries no keys at all. Only malformed JSON is an error.
func ParsePayload(data []byte) (domain.RunPayload, error) {
	if !json.Valid(data) {
		return domain.RunPayload{}, fmt.Errorf("failed to parse payload: %w", json.Unmarshal(data, new(any)))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.RunPayload{}, nil
	}

	return domain.RunPayload{
		ExportsDirSnake: stringField(raw, "exports_dir"),
		ExportsDirCamel: stringField(raw, "exportsDir"),
	}, nil
}

func stringField(raw map[string]json.RawMessage, key string) *string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	var s *string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil
	}
	return s
}

// RunBackend runs the backend for the payload's exports directory and
// returns its combined output.
func (c *Commands) RunBackend(ctx context.Context, payload domain.RunPayload) (string, error) {
	exportsDir, ok := payload.ExportsDir()
	if !ok {
		return "", ErrMissingExportsDir
	}
	if c.dispatcher == nil {
		return "", fmt.Errorf("no dispatcher configured")
	}

	c.logger.Debug("direct run requested", "exports_dir", exportsDir)

	result, err := c.dispatcher.Dispatch(ctx, exportsDir)
	if err != nil {
		return "", err
	}
	if !result.Succeeded {
		return "", &RunFailedError{Result: result}
	}
	return result.Output, nil
}

// EnsureBackupDir provisions the backups directory and returns its path.
func (c *Commands) EnsureBackupDir() (string, error) {
	if c.resolver == nil {
		return "", fmt.Errorf("no path resolver configured")
	}
	dir, err := c.resolver.EnsureBackupDirectory()
	if err != nil {
		return "", err
	}
	return dir.Path, nil
}

// NormalizePath returns the directory a user-chosen path refers to.
func (c *Commands) NormalizePath(path string) string {
	return pathresolve.NormalizePathToDirectory(path)
}
