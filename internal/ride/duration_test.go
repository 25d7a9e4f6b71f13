package ride

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
		want        time.Duration
	}{
		{
			name:        "same zone is the minimum ride",
			source:      "Downtown Core",
			destination: "Downtown Core",
			want:        2 * time.Second,
		},
		{
			name:        "adjacent zones",
			source:      "Downtown Core",
			destination: "Central Station",
			want:        12 * time.Second,
		},
		{
			name:        "longest hop across the map",
			source:      "Downtown Core",
			destination: "Airport Terminal",
			want:        42 * time.Second,
		},
		{
			name:        "direction does not matter",
			source:      "Airport Terminal",
			destination: "Downtown Core",
			want:        42 * time.Second,
		},
		{
			name:        "unknown source falls back",
			source:      "Atlantis",
			destination: "Downtown Core",
			want:        10 * time.Second,
		},
		{
			name:        "unknown destination falls back",
			source:      "Downtown Core",
			destination: "",
			want:        10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.source, tt.destination))
		})
	}
}
