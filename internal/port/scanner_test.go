package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailstack/hailstack/internal/config"
)

// TestIsPortFree verifies the scanner against a real listener: the port is
// reported busy while held and free again after release.
func TestIsPortFree(t *testing.T) {
	// Grab an ephemeral port from the OS so the test never collides with
	// anything else running on the machine.
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	heldPort := listener.Addr().(*net.TCPAddr).Port

	s := NewScanner()
	assert.False(t, s.IsPortFree(heldPort), "held port should be reported busy")

	require.NoError(t, listener.Close())
	assert.True(t, s.IsPortFree(heldPort), "released port should be reported free")
}

// TestCheckServices verifies per-service statuses and that portless
// services are skipped.
func TestCheckServices(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()
	heldPort := listener.Addr().(*net.TCPAddr).Port

	s := NewScanner()
	statuses := s.CheckServices([]config.Service{
		{Name: "busy", Command: []string{"./busy"}, Port: heldPort},
		{Name: "portless", Command: []string{"./worker"}},
	})

	require.Len(t, statuses, 1, "services without a port are not scanned")
	assert.Equal(t, "busy", statuses[0].ServiceName)
	assert.Equal(t, heldPort, statuses[0].Port)
	assert.False(t, statuses[0].Free)
	assert.Contains(t, statuses[0].String(), "in use")
}
