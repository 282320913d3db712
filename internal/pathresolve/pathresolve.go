// Package pathresolve provides the filesystem helpers the UI layer uses to
// prepare directories before a backend run.
package pathresolve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
)

const backupsDirName = "backups"

// Resolver provisions application support directories.
type Resolver struct {
	appName    string
	systemRoot string
	homeDir    func() (string, error)
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSystemRoot sets the root of the system-wide Application Support tree.
func WithSystemRoot(root string) Option {
	return func(r *Resolver) {
		r.systemRoot = root
	}
}

// WithHomeDir overrides home directory lookup.
func WithHomeDir(fn func() (string, error)) Option {
	return func(r *Resolver) {
		r.homeDir = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver for the given application name.
func New(appName string, opts ...Option) *Resolver {
	r := &Resolver{
		appName:    appName,
		systemRoot: "/",
		homeDir:    os.UserHomeDir,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// EnsureBackupDirectory creates the backups directory, preferring the
// system-wide tree and falling back to the per-user one. Repeated calls
// converge on the same path.
func (r *Resolver) EnsureBackupDirectory() (domain.BackupDirectory, error) {
	systemBase := r.appSupportDir(r.systemRoot)

	sysErr := os.MkdirAll(systemBase, 0o755)
	if sysErr == nil {
		backups := filepath.Join(systemBase, backupsDirName)
		if err := os.MkdirAll(backups, 0o755); err != nil {
			return domain.BackupDirectory{}, fmt.Errorf("failed to create backups directory: %w", err)
		}
		r.logger.Debug("backup directory ready", "path", backups, "outcome", domain.OutcomePrimary)
		return domain.BackupDirectory{Path: backups, Outcome: domain.OutcomePrimary}, nil
	}

	// The system-wide failure is not returned; only the fallback can fail the call.
	r.logger.Warn("system application support unavailable, using per-user directory",
		"path", systemBase,
		"error", sysErr,
	)

	home, err := r.homeDir()
	if err != nil {
		return domain.BackupDirectory{}, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	backups := filepath.Join(r.appSupportDir(home), backupsDirName)
	if err := os.MkdirAll(backups, 0o755); err != nil {
		return domain.BackupDirectory{}, fmt.Errorf("failed to create backups directory: %w", err)
	}

	r.logger.Info("backup directory ready", "path", backups, "outcome", domain.OutcomeFallback)
	return domain.BackupDirectory{Path: backups, Outcome: domain.OutcomeFallback}, nil
}

func (r *Resolver) appSupportDir(root string) string {
	return filepath.Join(root, "Library", "Application Support", r.appName)
}

// NormalizePathToDirectory returns path when it is an existing directory and
// its parent otherwise. An existing file named without a directory resolves
// to ".". Other paths without a parent are returned unchanged. A path that
// cannot be inspected is treated like a file.
func NormalizePathToDirectory(path string) string {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return path
	}

	if parent, ok := parentDir(path); ok {
		return parent
	}
	if err == nil {
		return "."
	}
	return path
}

// parentDir reports the parent of path, if it has one. The root, the empty
// path and a bare relative name have none.
func parentDir(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	clean := filepath.Clean(path)
	dir := filepath.Dir(clean)
	if dir == clean {
		return "", false
	}
	if dir == "." && !strings.HasPrefix(path, "."+string(filepath.Separator)) {
		return "", false
	}
	return dir, true
}
