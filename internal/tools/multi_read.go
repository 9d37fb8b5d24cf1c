package tools

import (
	"fmt"
	"os"
	"strings"
)

// MaxMultiReadFiles is the cap from spec §7's ValidationError ("more
// than 5 entries").
const MaxMultiReadFiles = 5

// MultiRead implements the supplemented "multi_read" tool (SPEC_FULL.md
// §C.1): reads up to MaxMultiReadFiles files in one call, each section
// headed by "--- <path> ---". The aggregate [CHANGED_FILES] block and
// instruction sections are appended once at the end; Resolver.Emit
// already skips folders already provided this session, so accumulating
// per-file in the same loop naturally deduplicates across the batch.
// Gated by config.EnableMultiRead by the caller.
func (h *Handlers) MultiRead(paths []string, showLineNumbers, newSession bool) string {
	h.recordCall(fmt.Sprintf("[multi_read:%d]", len(paths)))

	if msg, interrupted := h.interruptGate(); interrupted {
		return msg
	}

	if newSession {
		h.State.TryNewSession()
	}

	if len(paths) == 0 {
		return "Error: No file paths provided"
	}
	if len(paths) > MaxMultiReadFiles {
		return fmt.Sprintf("Error: Too many files requested (%d). Maximum is %d.", len(paths), MaxMultiReadFiles)
	}

	var sections []string
	var instructionTrailer strings.Builder

	for _, p := range paths {
		header := fmt.Sprintf("--- %s ---", p)

		full, resolveErr := h.resolveOrError(p)
		if resolveErr != nil {
			sections = append(sections, header+"\n"+resolveErr.Error())
			continue
		}

		info, statErr := os.Stat(full)
		if statErr != nil {
			sections = append(sections, fmt.Sprintf("%s\nError: File not found: %s", header, p))
			continue
		}
		if info.IsDir() {
			sections = append(sections, fmt.Sprintf("%s\nError: Path is not a file: %s", header, p))
			continue
		}

		data, readErr := os.ReadFile(full)
		if readErr != nil {
			sections = append(sections, fmt.Sprintf("%s\nError reading file: %s", header, readErr))
			continue
		}
		content := readLenientUTF8(data)

		body := content
		if showLineNumbers {
			body = readByOffsetLimit(content, nil, nil, true)
		}
		sections = append(sections, header+"\n"+body)

		mtime, _ := fileMtimeMs(full)
		h.State.TrackFile(full, mtime, content)
		h.Resolver.MarkIfInstructionFile(full)
		instructionTrailer.WriteString(h.Resolver.Emit(h.Resolver.ResolveFor(full)))
	}

	output := strings.Join(sections, "\n\n")
	output += h.changedFilesTrailer()
	output += instructionTrailer.String()

	h.reportFilesTracked()
	return output
}
