package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List implements the "list" handler of spec §4.6: stat children of the
// target directory and render a sorted markdown table, directories
// first, then files, both ordered by name.
func (h *Handlers) List(path string, newSession bool) string {
	h.recordCall(fmt.Sprintf("[list:%s]", displayPath(path)))

	if msg, interrupted := h.interruptGate(); interrupted {
		return msg
	}

	if newSession {
		h.State.TryNewSession()
	}

	full, err := h.resolveOrError(path)
	if err != nil {
		return err.Error()
	}

	info, statErr := os.Stat(full)
	if statErr != nil {
		return fmt.Sprintf("Error: Directory not found: %s", displayPath(path))
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: Path is not a directory: %s", path)
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return fmt.Sprintf("Error: Directory not found: %s", displayPath(path))
	}

	sort.Slice(entries, func(i, j int) bool {
		iDir, jDir := entries[i].IsDir(), entries[j].IsDir()
		if iDir != jDir {
			return iDir
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	lines := []string{"| Name | Type | Size |", "|------|------|------|"}
	for _, e := range entries {
		rel, relErr := filepath.Rel(h.Guard.GetBaseDir(), filepath.Join(full, e.Name()))
		if relErr != nil {
			continue
		}
		if e.IsDir() {
			lines = append(lines, fmt.Sprintf("| %s/ | 📁 dir | - |", rel))
			continue
		}
		fi, statErr := e.Info()
		if statErr != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("| %s | 📄 file | %d bytes |", rel, fi.Size()))
	}

	output := strings.Join(lines, "\n") + h.changedFilesTrailer()
	h.reportFilesTracked()
	return output
}

func displayPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}
