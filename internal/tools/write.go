package tools

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileMtimeMs stats path and returns its modification time in
// milliseconds, the granularity the Change Detector compares against.
func fileMtimeMs(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixMilli(), nil
}

// Write implements the "write" handler of spec §4.6: create parent
// folders, write utf-8, then trackFile with the new mtime and content so
// the write is never reported as an external change on a subsequent
// call.
func (h *Handlers) Write(path, content string, newSession bool) string {
	h.recordCall(fmt.Sprintf("[write:%s]", path))

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

	if mkErr := os.MkdirAll(filepath.Dir(full), 0o755); mkErr != nil {
		return fmt.Sprintf("Error writing file: %s", mkErr)
	}
	if writeErr := os.WriteFile(full, []byte(content), 0o644); writeErr != nil {
		return fmt.Sprintf("Error writing file: %s", writeErr)
	}

	mtime, _ := fileMtimeMs(full)
	h.State.TrackFile(full, mtime, content)

	output := fmt.Sprintf("Successfully wrote to %s", path) + h.changedFilesTrailer()
	h.reportFilesTracked()
	return output
}
