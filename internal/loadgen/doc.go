// Package loadgen drives bulk traffic against a running orchestrator:
// sequential driver registration and a concurrent ride-request stress run.
package loadgen
