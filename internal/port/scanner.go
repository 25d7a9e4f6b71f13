package port

import (
	"fmt"
	"net"

	"github.com/hailstack/hailstack/internal/config"
)

// Status reports the preflight result for one service's declared port.
type Status struct {
	// ServiceName is the manifest service that declared the port.
	ServiceName string

	// Port is the declared TCP port.
	Port int

	// Free reports whether the port could be bound at scan time.
	Free bool
}

// String renders the status for launcher output,
// e.g. "orchestrator :8000 free" or "events :8080 in use".
func (s Status) String() string {
	state := "free"
	if !s.Free {
		state = "in use"
	}
	return fmt.Sprintf("%s :%d %s", s.ServiceName, s.Port, state)
}

// Scanner checks TCP port availability on the host machine.
//
// It binds with net.Listen rather than parsing /proc/net or shelling out
// to lsof: asking the OS for the bind is the only check that cannot drift
// from what the launched service will experience seconds later. The
// struct is stateless; it exists so a bind address or timeout can be
// added without changing call sites.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortFree reports whether a TCP port can currently be bound.
//
// The probe binds all interfaces (":port") because the stack services
// bind 0.0.0.0 as well; probing 127.0.0.1 only would miss conflicts on
// other interfaces. The listener is closed immediately — the scan must
// not hold the port the service is about to take.
func (s *Scanner) IsPortFree(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}

// CheckServices scans the declared port of every manifest service that
// has one. Services without a port are skipped. The scan never fails —
// a busy port is a Status with Free=false, not an error.
func (s *Scanner) CheckServices(services []config.Service) []Status {
	var statuses []Status
	for _, svc := range services {
		if svc.Port == 0 {
			continue
		}
		statuses = append(statuses, Status{
			ServiceName: svc.Name,
			Port:        svc.Port,
			Free:        s.IsPortFree(svc.Port),
		})
	}
	return statuses
}
