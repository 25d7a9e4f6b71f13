package launch

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/hailstack/hailstack/internal/config"
)

// Result records the outcome of one service launch. Err is nil when the
// process started; a started process that later exits is not reflected
// here — the launcher does not watch its children.
type Result struct {
	// Service is the manifest entry that was launched.
	Service config.Service

	// PID is the OS process id of the started child, zero on failure.
	PID int

	// Err is the start failure, if any.
	Err error
}

// Launcher spawns detached stack processes with a shared base environment.
type Launcher struct {
	// baseEnv is appended to the parent environment for every child.
	// In practice this is the five DB_* variables.
	baseEnv []string
}

// NewLauncher creates a Launcher that injects the given variables
// (KEY=value form) into every child it starts.
func NewLauncher(baseEnv []string) *Launcher {
	return &Launcher{baseEnv: baseEnv}
}

// Start launches a single service detached and returns its PID.
//
// The child gets the merged environment, the service's working directory,
// and no terminal: stdin, stdout and stderr all go to the null device.
// On Unix the child is placed in its own session so it survives the
// launcher exiting and does not receive the launcher's signals.
func (l *Launcher) Start(svc config.Service) (int, error) {
	cmd := exec.Command(svc.Command[0], svc.Command[1:]...)
	cmd.Dir = svc.Dir
	cmd.Env = MergeEnv(os.Environ(), l.baseEnv, svc.Env)
	// Leaving Stdin/Stdout/Stderr nil connects the child to os.DevNull.
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start service %q (%s): %w",
			svc.Name, strings.Join(svc.Command, " "), err)
	}

	pid := cmd.Process.Pid

	// Release drops our handle on the child so no Wait is required and
	// the launcher can exit immediately.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("service %q started (pid %d) but release failed: %w", svc.Name, pid, err)
	}
	return pid, nil
}

// StartAll launches every service in manifest order and returns one Result
// per service. A failed start does not stop the remaining launches: the
// services are independent and partial stacks are still useful.
func (l *Launcher) StartAll(services []config.Service) []Result {
	results := make([]Result, 0, len(services))
	for _, svc := range services {
		pid, err := l.Start(svc)
		results = append(results, Result{Service: svc, PID: pid, Err: err})
	}
	return results
}

// MergeEnv combines an environment with override layers. Later layers win:
// a key appearing in extra replaces the same key from base or shared.
// The result carries at most one entry per key, in first-seen order, so
// children never see duplicate variables.
func MergeEnv(base, shared []string, extra map[string]string) []string {
	index := make(map[string]int)
	merged := make([]string, 0, len(base)+len(shared)+len(extra))

	set := func(entry string) {
		key, _, ok := strings.Cut(entry, "=")
		if !ok {
			return
		}
		if i, seen := index[key]; seen {
			merged[i] = entry
			return
		}
		index[key] = len(merged)
		merged = append(merged, entry)
	}

	for _, entry := range base {
		set(entry)
	}
	for _, entry := range shared {
		set(entry)
	}
	// Sort the extra keys so the merged slice is deterministic.
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		set(key + "=" + extra[key])
	}
	return merged
}
