package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDriverStatus verifies parsing of the three driver states,
// including the multi-word "in a drive" value and case folding.
func TestParseDriverStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    DriverStatus
		wantErr bool
	}{
		{"off", StatusOff, false},
		{"accepting", StatusAccepting, false},
		{"in a drive", StatusInADrive, false},
		{"ACCEPTING", StatusAccepting, false},
		{"driving", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDriverStatus(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q should be rejected", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

// TestRequestStatusIsValid verifies the request lifecycle states.
func TestRequestStatusIsValid(t *testing.T) {
	assert.True(t, RequestPending.IsValid())
	assert.True(t, RequestMatched.IsValid())
	assert.True(t, RequestCompleted.IsValid())
	assert.False(t, RequestStatus("cancelled").IsValid())
}

// TestZoneWeights verifies the zone table: names keep their spaces and
// weights ascend in steps of 10 from Downtown Core to Airport Terminal.
func TestZoneWeights(t *testing.T) {
	names := ZoneNames()
	require.Len(t, names, 5)

	prev := 0
	for _, name := range names {
		w, ok := ZoneWeight(name)
		require.True(t, ok, "zone %q should be known", name)
		assert.Equal(t, prev+10, w, "zone %q weight", name)
		prev = w
	}

	_, ok := ZoneWeight("Downtown_Core")
	assert.False(t, ok, "underscored names are not valid zones")
}

// TestProximityScore verifies the absolute-difference scoring and the
// error path for unknown zones.
func TestProximityScore(t *testing.T) {
	score, err := ProximityScore("Downtown Core", "Airport Terminal")
	require.NoError(t, err)
	assert.Equal(t, 40, score)

	// Symmetric.
	score, err = ProximityScore("Airport Terminal", "Downtown Core")
	require.NoError(t, err)
	assert.Equal(t, 40, score)

	// Same zone scores zero.
	score, err = ProximityScore("The Suburbs", "The Suburbs")
	require.NoError(t, err)
	assert.Equal(t, 0, score)

	_, err = ProximityScore("Nowhere", "Downtown Core")
	assert.Error(t, err)
	_, err = ProximityScore("Downtown Core", "Nowhere")
	assert.Error(t, err)
}

// TestCLIErrorUnwrap verifies that CLIError participates in error chains.
func TestCLIErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := WrapCLIError(ExitDatabaseError, "query failed", inner)

	assert.Equal(t, ExitDatabaseError, err.Code)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "query failed")

	bare := NewCLIError(ExitLaunchFailed, "boom")
	assert.Nil(t, bare.Unwrap())
	assert.Equal(t, "boom", bare.Error())
}
