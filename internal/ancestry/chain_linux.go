//go:build linux

package ancestry

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

func init() {
	processInfoFunc = processInfoLinux
}

// processInfoLinux reads /proc/<pid>/status, the fast path on Linux; it
// falls back to the shared `ps`-based probe if /proc is unavailable (e.g. a
// restricted container, or a pid that has already exited).
func processInfoLinux(pid int) (int, string, bool) {
	f, err := os.Open("/proc/" + strconv.Itoa(pid) + "/status")
	if err != nil {
		return processInfoPS(pid)
	}
	defer f.Close()

	var ppid int
	var name string
	havePpid := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Name:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "PPid:"):
			v, convErr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "PPid:")))
			if convErr == nil {
				ppid = v
				havePpid = true
			}
		}
	}

	if !havePpid {
		return processInfoPS(pid)
	}
	if name == "" {
		name = "?"
	}
	return ppid, name, true
}
