package domain

// ProvisionOutcome records which tier served a directory request.
// It travels with the path and is logged so degraded modes stay visible.
type ProvisionOutcome string

const (
	// OutcomePrimary means the preferred location was used.
	OutcomePrimary ProvisionOutcome = "primary"
	// OutcomeFallback means the preferred location failed and the fallback was used.
	OutcomeFallback ProvisionOutcome = "fallback"
)

// String returns the string representation of the outcome.
func (o ProvisionOutcome) String() string {
	return string(o)
}

// BackupDirectory is a provisioned backups directory.
type BackupDirectory struct {
	Path    string           `json:"path"`
	Outcome ProvisionOutcome `json:"outcome"`
}

// ServerState reports whether the run server bound its listener.
type ServerState string

const (
	// ServerListening means the listener is bound and accepting.
	ServerListening ServerState = "listening"
	// ServerUnavailable means the bind failed; runs are only reachable in-process.
	ServerUnavailable ServerState = "unavailable"
)

// String returns the string representation of the state.
func (s ServerState) String() string {
	return string(s)
}
