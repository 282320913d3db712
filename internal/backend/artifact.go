package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
)

// candidate produces one probe location for a working directory.
type candidate func(d *Dispatcher, wd string) domain.Artifact

// candidates are probed in order; the first that exists wins.
var candidates = []candidate{
	binaryAt("src-tauri", "binaries"),
	// cwd may already be the src-tauri directory
	binaryAt("binaries"),
	scriptAt("..", "Backend"),
	scriptAt("Backend"),
}

func binaryAt(dirs ...string) candidate {
	return func(d *Dispatcher, wd string) domain.Artifact {
		parts := append([]string{wd}, dirs...)
		return domain.Artifact{
			Kind: domain.ArtifactBinary,
			Path: filepath.Join(append(parts, d.executable)...),
		}
	}
}

func scriptAt(dirs ...string) candidate {
	return func(d *Dispatcher, wd string) domain.Artifact {
		parts := append([]string{wd}, dirs...)
		return domain.Artifact{
			Kind:        domain.ArtifactScript,
			Path:        filepath.Join(append(parts, d.script)...),
			Interpreter: d.interpreter,
		}
	}
}

// resolve walks the candidates and returns the first existing artifact.
func (d *Dispatcher) resolve(wd string) (domain.Artifact, error) {
	var last domain.Artifact
	for _, c := range candidates {
		last = c(d, wd)
		if _, err := os.Stat(last.Path); err == nil {
			d.logger.Debug("backend artifact resolved", "kind", last.Kind, "path", last.Path)
			return last, nil
		}
		d.logger.Debug("backend candidate missing", "path", last.Path)
	}
	return domain.Artifact{}, fmt.Errorf("%w. Checked %s", ErrNoArtifact, last.Path)
}
