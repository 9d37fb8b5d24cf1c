//go:build linux || darwin

package ancestry

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

func chain(maxDepth int) []Entry {
	var out []Entry
	seen := make(map[int]struct{})
	pid := os.Getpid()

	for i := 0; i < maxDepth; i++ {
		if pid == 0 {
			break
		}
		if _, ok := seen[pid]; ok {
			break
		}
		seen[pid] = struct{}{}

		ppid, name, ok := processInfo(pid)
		out = append(out, Entry{PID: pid, Name: name})
		if !ok {
			break
		}
		pid = ppid
	}

	return out
}

// processInfoFunc is swappable per-OS: Linux prefers /proc, falling back to
// ps; Darwin has no /proc so goes straight to ps.
var processInfoFunc = processInfoPS

func processInfo(pid int) (ppid int, name string, ok bool) {
	return processInfoFunc(pid)
}

// processInfoPS shells out to `ps`, the portable fallback the original
// hook script uses for macOS (and Linux, if /proc is unavailable —
// containers with a restricted /proc, permission-denied, etc).
func processInfoPS(pid int) (int, string, bool) {
	cmd := exec.Command("ps", "-o", "ppid=,comm=", "-p", strconv.Itoa(pid))
	done := make(chan struct{})
	var out []byte
	var err error
	go func() {
		out, err = cmd.Output()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		_ = cmd.Process.Kill()
		return 0, "?", false
	}
	if err != nil {
		return 0, "?", false
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, "?", false
	}
	ppid, convErr := strconv.Atoi(fields[0])
	if convErr != nil {
		return 0, "?", false
	}
	name := "?"
	if len(fields) > 1 {
		name = strings.Join(fields[1:], " ")
	}
	return ppid, name, true
}
