// Package launch starts stack processes as detached children.
//
// The launcher's whole contract is: build the child environment (parent
// environment, then the shared DB_* variables, then per-service extras),
// start the process in its own session, report the PID, and walk away.
// It never waits on a child, never watches for readiness, and never
// restarts anything — a service that dies after a successful Start is
// the service's own problem, observable only through the OS.
package launch
