package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRunPayload_ExportsDir(t *testing.T) {
	tests := []struct {
		name    string
		payload RunPayload
		want    string
		wantOK  bool
	}{
		{"snake only", RunPayload{ExportsDirSnake: strPtr("/a")}, "/a", true},
		{"camel only", RunPayload{ExportsDirCamel: strPtr("/b")}, "/b", true},
		{"both prefers snake", RunPayload{ExportsDirSnake: strPtr("/a"), ExportsDirCamel: strPtr("/b")}, "/a", true},
		{"empty string is present", RunPayload{ExportsDirSnake: strPtr("")}, "", true},
		{"neither", RunPayload{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.payload.ExportsDir()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunResult_Complete(t *testing.T) {
	r := NewRunResult(Artifact{Kind: ArtifactBinary, Path: "/bin/x"}, []string{"--a"})
	require.NotEmpty(t, r.RunID)

	r.Complete("out", 2)

	assert.False(t, r.Succeeded)
	assert.Equal(t, 2, r.ExitCode)
	assert.Equal(t, "out", r.Output)
	assert.False(t, r.EndTime.Before(r.StartTime))
}

func TestNewRunResult_UniqueIDs(t *testing.T) {
	a := NewRunResult(Artifact{}, nil)
	b := NewRunResult(Artifact{}, nil)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestOutcome(t *testing.T) {
	ok := NewRunResult(Artifact{}, nil)
	ok.Complete("fine\n", 0)
	failed := NewRunResult(Artifact{}, nil)
	failed.Complete("Traceback\n", 1)

	text, succeeded := Outcome(ok, nil)
	assert.Equal(t, "fine\n", text)
	assert.True(t, succeeded)

	text, succeeded = Outcome(failed, nil)
	assert.Equal(t, "Traceback\n", text)
	assert.False(t, succeeded)

	text, succeeded = Outcome(nil, errors.New("failed to spawn python3: not found"))
	assert.Equal(t, "failed to spawn python3: not found", text)
	assert.False(t, succeeded)
}
