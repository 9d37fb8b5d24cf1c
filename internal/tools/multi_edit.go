package tools

import (
	"fmt"
	"os"
	"strings"
)

// EditSpec is one entry of a multi_edit batch.
type EditSpec struct {
	FilePath   string
	OldString  *string
	NewString  *string
	ReplaceAll bool
}

// MultiEdit implements the "multi_edit" handler of spec §4.6: applies
// each edit independently, never aborting the batch on a single
// failure, and appends one aggregate [CHANGED_FILES] block at the end.
// Gated by config.EnableMultiEdit by the caller (mcpserver), not here.
func (h *Handlers) MultiEdit(edits []EditSpec, newSession bool) string {
	h.recordCall(fmt.Sprintf("[multi_edit:%d]", len(edits)))

	if msg, interrupted := h.interruptGate(); interrupted {
		return msg
	}

	if newSession {
		h.State.TryNewSession()
	}

	if len(edits) == 0 {
		return "Error: No edits provided"
	}

	var results []string
	for i, spec := range edits {
		n := i + 1
		if spec.FilePath == "" {
			results = append(results, fmt.Sprintf("Edit %d: Error: missing 'file_path'", n))
			continue
		}
		if spec.OldString == nil {
			results = append(results, fmt.Sprintf("Edit %d: Error: missing 'old_string'", n))
			continue
		}
		if spec.NewString == nil {
			results = append(results, fmt.Sprintf("Edit %d: Error: missing 'new_string'", n))
			continue
		}

		full, resolveErr := h.resolveOrError(spec.FilePath)
		if resolveErr != nil {
			results = append(results, fmt.Sprintf("Edit %d (%s): %s", n, spec.FilePath, resolveErr.Error()))
			continue
		}

		info, statErr := os.Stat(full)
		if statErr != nil {
			results = append(results, fmt.Sprintf("Edit %d (%s): Error: File not found", n, spec.FilePath))
			continue
		}
		if info.IsDir() {
			results = append(results, fmt.Sprintf("Edit %d (%s): Error: Path is not a file", n, spec.FilePath))
			continue
		}

		data, readErr := os.ReadFile(full)
		if readErr != nil {
			results = append(results, fmt.Sprintf("Edit %d (%s): Error reading file: %s", n, spec.FilePath, readErr))
			continue
		}

		result, editErr := applyEdit(string(data), *spec.OldString, *spec.NewString, spec.ReplaceAll)
		if editErr != nil {
			results = append(results, fmt.Sprintf("Edit %d (%s): %s", n, spec.FilePath, editErr.Error()))
			continue
		}

		if writeErr := os.WriteFile(full, []byte(result.content), 0o644); writeErr != nil {
			results = append(results, fmt.Sprintf("Edit %d (%s): Error writing file: %s", n, spec.FilePath, writeErr))
			continue
		}

		mtime, _ := fileMtimeMs(full)
		h.State.TrackFile(full, mtime, result.content)
		results = append(results, fmt.Sprintf("Edit %d (%s): Successfully replaced %d occurrence(s)", n, spec.FilePath, result.count))
	}

	output := strings.Join(results, "\n") + h.changedFilesTrailer()
	h.reportFilesTracked()
	return output
}
