// Package queue drains buffered ride requests into the orchestrator.
package queue
