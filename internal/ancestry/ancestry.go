// Package ancestry implements the Ancestor Chain of spec §4.11: walking the
// current process's parent chain up to a bounded depth, for correlating a
// short-lived hook invocation with the long-lived file-service sessions it
// should affect.
package ancestry

// Entry is one (pid, imageName) pair in an ancestor chain.
type Entry struct {
	PID  int
	Name string
}

// systemPIDs are excluded from overlap matching: pid 0 (scheduler/idle) and
// pid 4 (the Windows "System" process) never meaningfully identify a
// specific editor or terminal session.
var systemPIDs = map[int]struct{}{0: {}, 4: {}}

// MaxDepth is the default chain depth, per spec §4.11.
const MaxDepth = 10

// Chain walks from the current process toward the root, stopping at
// maxDepth entries, at pid 0, or on revisiting a pid (cycle guard). The
// first element is always the current process.
func Chain(maxDepth int) []Entry {
	return chain(maxDepth)
}

// PIDs extracts just the pid sequence from a chain, the form used in wire
// messages and Session Store filters.
func PIDs(chain []Entry) []int {
	out := make([]int, len(chain))
	for i, e := range chain {
		out[i] = e.PID
	}
	return out
}

// Names extracts just the image-name sequence from a chain.
func Names(chain []Entry) []string {
	out := make([]string, len(chain))
	for i, e := range chain {
		out[i] = e.Name
	}
	return out
}

// Overlap reports whether two pid sets share any non-system pid.
func Overlap(a, b []int) bool {
	setB := make(map[int]struct{}, len(b))
	for _, p := range b {
		if _, system := systemPIDs[p]; system {
			continue
		}
		setB[p] = struct{}{}
	}
	for _, p := range a {
		if _, system := systemPIDs[p]; system {
			continue
		}
		if _, ok := setB[p]; ok {
			return true
		}
	}
	return false
}
