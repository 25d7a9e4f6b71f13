package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailstack/hailstack/internal/config"
)

// TestBuildDatabaseLabels verifies the label schema the db subcommands
// rely on for rediscovering the container.
func TestBuildDatabaseLabels(t *testing.T) {
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	db := config.DB{Host: "localhost", Port: "5433", Name: "rides", User: "ops", Password: "x"}

	labels := BuildDatabaseLabels(db, createdAt)

	assert.Equal(t, ManagedByValue, labels[LabelManagedBy])
	assert.Equal(t, RoleDatabase, labels[LabelRole])
	assert.Equal(t, "rides", labels[LabelDatabase])
	assert.Equal(t, "5433", labels[LabelHostPort])
	assert.Equal(t, "2026-08-01T12:00:00Z", labels[LabelCreatedAt])

	// Credentials must never leak into labels.
	for key, value := range labels {
		assert.NotEqual(t, "x", value, "label %s should not carry the password", key)
	}
}

// TestDatabasePortBindings verifies the 5432 → host port publication.
func TestDatabasePortBindings(t *testing.T) {
	portSet, portMap, err := databasePortBindings("15432")
	require.NoError(t, err)

	require.Len(t, portSet, 1)
	require.Len(t, portMap, 1)
	for port, bindings := range portMap {
		assert.Equal(t, "5432/tcp", string(port))
		require.Len(t, bindings, 1)
		assert.Equal(t, "0.0.0.0", bindings[0].HostIP)
		assert.Equal(t, "15432", bindings[0].HostPort)
	}

	_, _, err = databasePortBindings("  ")
	assert.Error(t, err, "empty host port should be rejected")
}

// TestDatabaseInfoRunning covers the state predicate used by EnsureDatabase.
func TestDatabaseInfoRunning(t *testing.T) {
	assert.True(t, (&DatabaseInfo{State: "running"}).Running())
	assert.False(t, (&DatabaseInfo{State: "exited"}).Running())
	assert.False(t, (&DatabaseInfo{State: "created"}).Running())
}
