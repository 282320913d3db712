//go:build !unix

package backend

// isExecutable cannot be checked cheaply here; the spawn decides.
func isExecutable(string) bool {
	return true
}
