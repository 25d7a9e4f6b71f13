// Package api is the HTTP client for a running orchestrator.
package api
