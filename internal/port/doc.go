// Package port implements the advisory preflight scan run before the
// stack is launched.
//
// The scanner asks the OS directly via net.Listen whether a service's
// declared port is still free. The result is informational only: the
// launcher reports a busy port and launches anyway, because failure
// handling belongs to the launched service, not to the launcher.
package port
