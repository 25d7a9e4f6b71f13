// Package simulate generates random drivers and ride requests for
// exercising a running stack.
package simulate
