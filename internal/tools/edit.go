package tools

import (
	"fmt"
	"os"
	"strings"
)

// Edit implements the "edit" handler of spec §4.6 and the exact error
// strings from spec §8 scenario 1/2: zero matches is a MatchError,
// ambiguous matches (>1 occurrence, replaceAll false) names the count
// and hints at replaceAll.
func (h *Handlers) Edit(path, oldString, newString string, replaceAll, newSession bool) string {
	h.recordCall(fmt.Sprintf("[edit:%s]", path))

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
		return fmt.Sprintf("Error: File not found: %s (base directory: %s)", path, h.Guard.GetBaseDir())
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: Path is not a file: %s (base directory: %s)", path, h.Guard.GetBaseDir())
	}

	data, readErr := os.ReadFile(full)
	if readErr != nil {
		return fmt.Sprintf("Error reading file: %s", readErr)
	}
	content := string(data)

	result, editErr := applyEdit(content, oldString, newString, replaceAll)
	if editErr != nil {
		return editErr.Error()
	}

	if writeErr := os.WriteFile(full, []byte(result.content), 0o644); writeErr != nil {
		return fmt.Sprintf("Error writing file: %s", writeErr)
	}

	mtime, _ := fileMtimeMs(full)
	h.State.TrackFile(full, mtime, result.content)

	output := fmt.Sprintf("Successfully replaced %d occurrence(s) in %s", result.count, path) + h.changedFilesTrailer()
	h.reportFilesTracked()
	return output
}

type editResult struct {
	content string
	count   int
}

// editError is returned (as error.Error()) verbatim by Edit, exactly the
// strings from spec §8's concrete scenarios.
type editError struct{ msg string }

func (e *editError) Error() string { return e.msg }

// applyEdit performs the count/validate/replace logic shared by Edit and
// MultiEdit.
func applyEdit(content, oldString, newString string, replaceAll bool) (editResult, error) {
	count := strings.Count(content, oldString)
	if count == 0 {
		return editResult{}, &editError{"Error: String not found in file"}
	}
	if !replaceAll && count > 1 {
		return editResult{}, &editError{fmt.Sprintf(
			"Error: String found %d times. Use replace_all=True to replace all, or make the string more specific.", count)}
	}

	var newContent string
	if replaceAll {
		newContent = strings.ReplaceAll(content, oldString, newString)
	} else {
		newContent = strings.Replace(content, oldString, newString, 1)
	}
	return editResult{content: newContent, count: count}, nil
}
