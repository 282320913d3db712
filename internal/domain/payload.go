package domain

// RunPayload is the loosely-typed direct-invocation input. Callers send
// either snake_case or camelCase; ExportsDir picks snake_case first.
type RunPayload struct {
	ExportsDirSnake *string `json:"exports_dir,omitempty"`
	ExportsDirCamel *string `json:"exportsDir,omitempty"`
}

// ExportsDir returns the resolved exports directory and whether either key
// was present.
func (p RunPayload) ExportsDir() (string, bool) {
	if p.ExportsDirSnake != nil {
		return *p.ExportsDirSnake, true
	}
	if p.ExportsDirCamel != nil {
		return *p.ExportsDirCamel, true
	}
	return "", false
}
