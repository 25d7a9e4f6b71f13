package launch

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailstack/hailstack/internal/config"
)

// TestMergeEnvLayering verifies the override order: shared variables beat
// the inherited environment, per-service extras beat both, and no key
// appears twice in the result.
func TestMergeEnvLayering(t *testing.T) {
	base := []string{"PATH=/usr/bin", "DB_HOST=stale", "HOME=/home/u"}
	shared := []string{"DB_HOST=localhost", "DB_PORT=5432"}
	extra := map[string]string{"DB_PORT": "5433", "EXTRA": "1"}

	merged := MergeEnv(base, shared, extra)

	assert.Equal(t, []string{
		"PATH=/usr/bin",
		"DB_HOST=localhost",
		"HOME=/home/u",
		"DB_PORT=5433",
		"EXTRA=1",
	}, merged)
}

// TestMergeEnvSkipsMalformedEntries verifies entries without '=' are dropped
// rather than passed to the child.
func TestMergeEnvSkipsMalformedEntries(t *testing.T) {
	merged := MergeEnv([]string{"BROKEN", "OK=1"}, nil, nil)
	assert.Equal(t, []string{"OK=1"}, merged)
}

// TestStartMissingBinary verifies a start failure is reported per service
// with the command line in the message, and that PID stays zero.
func TestStartMissingBinary(t *testing.T) {
	l := NewLauncher(nil)

	pid, err := l.Start(config.Service{
		Name:    "ghost",
		Command: []string{"/does/not/exist/hailstack-test-binary"},
	})
	require.Error(t, err)
	assert.Zero(t, pid)
	assert.Contains(t, err.Error(), `service "ghost"`)
}

// TestStartAllContinuesPastFailures verifies one bad service does not stop
// the rest of the stack from launching.
func TestStartAllContinuesPastFailures(t *testing.T) {
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("no `true` binary on this system")
	}

	l := NewLauncher([]string{"DB_HOST=localhost"})
	results := l.StartAll([]config.Service{
		{Name: "broken", Command: []string{"/does/not/exist/hailstack-test-binary"}},
		{Name: "fine", Command: []string{truePath}},
	})

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.NotZero(t, results[1].PID, "started service should report its PID")
}
