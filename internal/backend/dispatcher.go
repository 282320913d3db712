// Package backend runs the external data-processing backend, either as a
// packaged binary or as a script through an interpreter.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
)

const (
	defaultExecutable  = "MessagesWrapped"
	defaultScript      = "MessagesWrapped.py"
	defaultInterpreter = "python3"
	defaultMaxWorkers  = 4
)

// ErrNoArtifact is returned when no candidate backend location exists.
var ErrNoArtifact = errors.New("no backend binary or script found")

// SpawnError means the backend process could not be started at all.
type SpawnError struct {
	Artifact domain.Artifact
	Program  string
	Err      error
}

func (e *SpawnError) Error() string {
	if e.Artifact.Kind == domain.ArtifactScript {
		return fmt.Sprintf("failed to spawn %s: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("failed to execute binary: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Dispatcher implements domain.Dispatcher by probing the filesystem for the
// backend and running it to completion.
type Dispatcher struct {
	workDir     string
	executable  string
	script      string
	interpreter string
	maxWorkers  int
	logger      *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkDir sets the directory candidates are probed relative to.
// When unset the process working directory is used at dispatch time.
func WithWorkDir(dir string) Option {
	return func(d *Dispatcher) {
		d.workDir = dir
	}
}

// WithExecutable sets the packaged binary name.
func WithExecutable(name string) Option {
	return func(d *Dispatcher) {
		d.executable = name
	}
}

// WithScript sets the fallback script name.
func WithScript(name string) Option {
	return func(d *Dispatcher) {
		d.script = name
	}
}

// WithInterpreter sets the command used to run the script.
func WithInterpreter(cmd string) Option {
	return func(d *Dispatcher) {
		d.interpreter = cmd
	}
}

// WithMaxWorkers sets the value passed as --max-workers.
func WithMaxWorkers(n int) Option {
	return func(d *Dispatcher) {
		d.maxWorkers = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		executable:  defaultExecutable,
		script:      defaultScript,
		interpreter: defaultInterpreter,
		maxWorkers:  defaultMaxWorkers,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch resolves the backend and runs it against exportsDir, blocking
// until the process exits.
func (d *Dispatcher) Dispatch(ctx context.Context, exportsDir string) (*domain.RunResult, error) {
	wd, err := d.resolveWorkDir()
	if err != nil {
		return nil, err
	}

	artifact, err := d.resolve(wd)
	if err != nil {
		d.logger.Warn("backend not found", "work_dir", wd, "error", err)
		return nil, err
	}

	args := d.Args(exportsDir)
	program, argv := Command(artifact, args)

	executable := true
	if artifact.Kind == domain.ArtifactBinary {
		executable = isExecutable(artifact.Path)
		if !executable {
			d.logger.Warn("backend binary is not executable", "path", artifact.Path)
		}
	}

	result := domain.NewRunResult(artifact, argv)
	logger := d.logger.With("run_id", result.RunID)
	logger.Info("starting backend",
		"kind", artifact.Kind,
		"program", program,
		"args", argv,
	)

	// #nosec G204 -- program is a probed artifact path or the configured interpreter
	cmd := exec.CommandContext(ctx, program, argv...)
	cmd.Dir = wd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("backend run interrupted: %w", ctx.Err())
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			spawnErr := &SpawnError{Artifact: artifact, Program: program, Err: err}
			logger.Error("backend failed to start", "error", spawnErr, "executable", executable)
			return nil, spawnErr
		}
		exitCode = exitErr.ExitCode()
	}

	result.Complete(decodeOutput(stdout.Bytes())+decodeOutput(stderr.Bytes()), exitCode)

	if result.Succeeded {
		logger.Info("backend completed", "duration", result.Duration)
	} else {
		logger.Warn("backend exited with failure",
			"exit_code", result.ExitCode,
			"duration", result.Duration,
		)
	}

	return result, nil
}

// Resolve returns the artifact a dispatch would run right now.
func (d *Dispatcher) Resolve() (domain.Artifact, error) {
	wd, err := d.resolveWorkDir()
	if err != nil {
		return domain.Artifact{}, err
	}
	return d.resolve(wd)
}

// Args builds the backend arguments shared by both artifact kinds.
func (d *Dispatcher) Args(exportsDir string) []string {
	return []string{
		"--exports-dir=" + exportsDir,
		"--max-workers=" + strconv.Itoa(d.maxWorkers),
	}
}

// Command returns the program to execute and its full argument list.
// Scripts are run through their interpreter with the script path first.
func Command(artifact domain.Artifact, args []string) (string, []string) {
	if artifact.Kind == domain.ArtifactScript {
		argv := make([]string, 0, len(args)+1)
		argv = append(argv, artifact.Path)
		argv = append(argv, args...)
		return artifact.Interpreter, argv
	}
	return artifact.Path, args
}

func (d *Dispatcher) resolveWorkDir() (string, error) {
	if d.workDir != "" {
		return d.workDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return wd, nil
}

// decodeOutput converts process output to text, replacing invalid UTF-8.
func decodeOutput(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// Ensure Dispatcher implements domain.Dispatcher.
var _ domain.Dispatcher = (*Dispatcher)(nil)
