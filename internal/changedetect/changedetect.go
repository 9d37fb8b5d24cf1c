// Package changedetect implements the Change Detector of spec §4.3: it
// diffs the current on-disk state of every tracked file against the last
// observed (mtime, content) pair and emits a formatted [CHANGED_FILES]
// trailer.
package changedetect

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/lineage-mcp/lineage-mcp/internal/session"
)

// Status values for a ChangeEntry.
const (
	StatusDeleted  = "deleted"
	StatusModified = "modified"
)

// ChangeEntry describes one tracked file whose on-disk state has diverged
// from the session's recollection of it.
type ChangeEntry struct {
	Path              string
	Status            string
	ChangedLineRanges string // only set for StatusModified
	SecondsAgo        string // only set for StatusModified; pre-formatted per spec
}

// Detector scans a session's tracked files for external changes. A single
// Detector is normally shared by all tool handlers in one process.
type Detector struct {
	state *session.State
	group singleflight.Group
}

// New creates a Detector bound to state.
func New(state *session.State) *Detector {
	return &Detector{state: state}
}

// SnapshotChanges walks the tracked map and compares on-disk state against
// it, per spec §4.3. Concurrent callers within the same tick collapse onto
// one scan via singleflight, since every caller observes the same tracked
// snapshot and would otherwise duplicate file reads.
func (d *Detector) SnapshotChanges() []ChangeEntry {
	v, _, _ := d.group.Do("snapshot", func() (interface{}, error) {
		return d.snapshotOnce(), nil
	})
	return v.([]ChangeEntry)
}

func (d *Detector) snapshotOnce() []ChangeEntry {
	var out []ChangeEntry

	for path, old := range d.state.Tracked() {
		info, err := os.Stat(path)
		if err != nil {
			out = append(out, ChangeEntry{Path: path, Status: StatusDeleted})
			continue
		}

		currentMtime := info.ModTime().UnixMilli()
		if currentMtime <= old.MtimeMs {
			continue
		}

		newContent, err := readUTF8Lenient(path)
		if err != nil {
			out = append(out, ChangeEntry{Path: path, Status: StatusDeleted})
			continue
		}

		ranges := ChangedLineRanges(old.Content, newContent)

		secondsAgo := float64(currentMtime-old.MtimeMs) / 1000
		out = append(out, ChangeEntry{
			Path:              path,
			Status:            StatusModified,
			ChangedLineRanges: ranges,
			SecondsAgo:        formatSecondsAgo(secondsAgo),
		})

		d.state.UpdateTrackedContent(path, currentMtime, newContent)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func formatSecondsAgo(seconds float64) string {
	if seconds >= 1 {
		return strconv.Itoa(int(seconds))
	}
	return strconv.FormatFloat(seconds, 'f', 2, 64)
}

// FormatSection renders the [CHANGED_FILES] trailer for entries, or ""
// if entries is empty.
func FormatSection(entries []ChangeEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n[CHANGED_FILES]")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n- %s (%s)", e.Path, e.Status)
		if e.Status == StatusModified {
			fmt.Fprintf(&b, ": lines %s (%ss ago)", e.ChangedLineRanges, e.SecondsAgo)
		}
	}
	return b.String()
}

func readUTF8Lenient(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
