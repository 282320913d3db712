package pathresolve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
)

const testAppName = "iMessageWrapped"

// blockedRoot returns a root under which MkdirAll always fails, because one
// of its segments is a regular file.
func blockedRoot(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))
	return file
}

func staticHome(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func TestEnsureBackupDirectory_Primary(t *testing.T) {
	root := t.TempDir()
	r := New(testAppName, WithSystemRoot(root), WithHomeDir(staticHome(t.TempDir())))

	dir, err := r.EnsureBackupDirectory()
	require.NoError(t, err)

	want := filepath.Join(root, "Library", "Application Support", testAppName, "backups")
	assert.Equal(t, want, dir.Path)
	assert.Equal(t, domain.OutcomePrimary, dir.Outcome)
	assert.DirExists(t, want)
}

func TestEnsureBackupDirectory_Idempotent(t *testing.T) {
	r := New(testAppName, WithSystemRoot(t.TempDir()))

	first, err := r.EnsureBackupDirectory()
	require.NoError(t, err)
	second, err := r.EnsureBackupDirectory()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnsureBackupDirectory_FallbackToHome(t *testing.T) {
	home := t.TempDir()
	r := New(testAppName, WithSystemRoot(blockedRoot(t)), WithHomeDir(staticHome(home)))

	dir, err := r.EnsureBackupDirectory()
	require.NoError(t, err)

	want := filepath.Join(home, "Library", "Application Support", testAppName, "backups")
	assert.Equal(t, want, dir.Path)
	assert.Equal(t, domain.OutcomeFallback, dir.Outcome)
	assert.DirExists(t, want)

	again, err := r.EnsureBackupDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestEnsureBackupDirectory_HomeLookupFails(t *testing.T) {
	r := New(testAppName,
		WithSystemRoot(blockedRoot(t)),
		WithHomeDir(func() (string, error) { return "", errors.New("$HOME is not defined") }),
	)

	_, err := r.EnsureBackupDirectory()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve home directory")
	assert.Contains(t, err.Error(), "$HOME is not defined")
}

func TestEnsureBackupDirectory_FallbackCreateFails(t *testing.T) {
	r := New(testAppName,
		WithSystemRoot(blockedRoot(t)),
		WithHomeDir(staticHome(blockedRoot(t))),
	)

	_, err := r.EnsureBackupDirectory()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create backups directory")
}

func TestEnsureBackupDirectory_DefaultHomeUsesEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	r := New(testAppName, WithSystemRoot(blockedRoot(t)))

	dir, err := r.EnsureBackupDirectory()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Library", "Application Support", testAppName, "backups"), dir.Path)
}

func TestNormalizePathToDirectory(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "chat.db")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0600))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"existing directory", base, base},
		{"existing file", file, base},
		{"missing file in existing dir", filepath.Join(base, "missing.txt"), base},
		{"missing nested path", filepath.Join(base, "a", "b"), filepath.Join(base, "a")},
		{"root", "/", "/"},
		{"bare relative name", "does-not-exist-xyz", "does-not-exist-xyz"},
		{"dot relative name", "./does-not-exist-xyz", "."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePathToDirectory(tt.path))
		})
	}
}

func TestNormalizePathToDirectory_BareFileInWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.WriteFile("chat.db", []byte("data"), 0600))

	got := NormalizePathToDirectory("chat.db")

	assert.Equal(t, ".", got)
	assert.DirExists(t, got)
}
