package simulate

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/hailstack/hailstack/internal/model"
)

var (
	firstNames = []string{
		"Alex", "Ben", "Charlie", "Dana", "Emily",
		"Frank", "Grace", "Henry", "Ivy", "Jack",
	}
	lastNames = []string{
		"Smith", "Jones", "Chen", "Lee", "Singh",
		"Garcia", "Brown", "Miller",
	}

	// New drivers start either online or off shift, never mid-ride.
	startStatuses = []model.DriverStatus{
		model.StatusAccepting,
		model.StatusOff,
	}
)

// Rand is the randomness the generators draw from. *rand.Rand satisfies
// it; tests pass a seeded source.
type Rand interface {
	Intn(n int) int
}

// Generator produces random drivers and ride requests.
type Generator struct {
	rng Rand
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng Rand) *Generator {
	return &Generator{rng: rng}
}

// NewDefaultGenerator creates a generator with its own seeded source.
func NewDefaultGenerator() *Generator {
	return NewGenerator(rand.New(rand.NewSource(rand.Int63())))
}

// Driver generates a random driver ready for registration.
func (g *Generator) Driver() model.Driver {
	return model.Driver{
		DriverID: DriverID(),
		Name: fmt.Sprintf("%s %s",
			g.pick(firstNames), g.pick(lastNames)),
		Status:   startStatuses[g.rng.Intn(len(startStatuses))],
		Location: g.Zone(),
	}
}

// Ride generates a random ride request for a fresh user.
func (g *Generator) Ride() model.RideRequest {
	return model.RideRequest{
		UserID:      UserID(),
		Source:      g.Zone(),
		Destination: g.Zone(),
		Status:      model.RequestPending,
	}
}

// Zone picks a random zone name.
func (g *Generator) Zone() string {
	zones := model.ZoneNames()
	return zones[g.rng.Intn(len(zones))]
}

func (g *Generator) pick(names []string) string {
	return names[g.rng.Intn(len(names))]
}

// DriverID returns a fresh identifier of the form DRV-3F0A1C.
func DriverID() string {
	return "DRV-" + hexToken(6)
}

// UserID returns a fresh identifier of the form USER-9B2E44D1.
func UserID() string {
	return "USER-" + hexToken(8)
}

// StressUserID returns an identifier of the form STRESS-9B2E44D1, keeping
// load-test traffic distinguishable from simulated users.
func StressUserID() string {
	return "STRESS-" + hexToken(8)
}

func hexToken(n int) string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:])[:n])
}
