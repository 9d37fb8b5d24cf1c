package tools

import (
	"fmt"
	"os"
)

// Delete implements the "delete" handler of spec §4.6: directories must
// be empty (os.Remove already refuses non-empty ones), files are
// unlinked; the path is untracked on success either way.
func (h *Handlers) Delete(path string, newSession bool) string {
	h.recordCall(fmt.Sprintf("[delete:%s]", path))

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
		return fmt.Sprintf("Error: File not found: %s", path)
	}

	var output string
	if info.IsDir() {
		if rmErr := os.Remove(full); rmErr != nil {
			return fmt.Sprintf("Error deleting file: %s", rmErr)
		}
		output = fmt.Sprintf("Successfully deleted empty directory: %s", path)
	} else {
		if rmErr := os.Remove(full); rmErr != nil {
			return fmt.Sprintf("Error deleting file: %s", rmErr)
		}
		output = fmt.Sprintf("Successfully deleted file: %s", path)
	}

	h.State.UntrackFile(full)

	output += h.changedFilesTrailer()
	h.reportFilesTracked()
	return output
}
