package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/lineage-mcp/lineage-mcp/internal/paginator"
)

// ReadOptions selects one of the two mutually exclusive pagination
// modes described in spec §4.5: cursor-based (Cursor != nil) or
// line-based (Offset/Limit != nil). Supplying both is a ValidationError.
type ReadOptions struct {
	Cursor          *int
	Offset          *int
	Limit           *int
	ShowLineNumbers bool
	NewSession      bool
}

// Read implements the "read" handler of spec §4.5/§4.6.
func (h *Handlers) Read(path string, opts ReadOptions) string {
	h.recordCall(fmt.Sprintf("[read:%s]", path))

	if msg, interrupted := h.interruptGate(); interrupted {
		return msg
	}

	if opts.NewSession {
		h.State.TryNewSession()
	}

	if opts.Cursor != nil && (opts.Offset != nil || opts.Limit != nil) {
		return "Error: Cannot use 'cursor' with 'offset' or 'limit'. Choose one pagination method."
	}
	if opts.Cursor != nil && *opts.Cursor < 0 {
		return fmt.Sprintf("Error: cursor must be non-negative, got %d", *opts.Cursor)
	}
	if opts.Offset != nil && *opts.Offset < 0 {
		return fmt.Sprintf("Error: offset must be non-negative, got %d", *opts.Offset)
	}
	if opts.Limit != nil && *opts.Limit < 0 {
		return fmt.Sprintf("Error: limit must be non-negative, got %d", *opts.Limit)
	}

	full, err := h.resolveOrError(path)
	if err != nil {
		return err.Error()
	}

	info, statErr := os.Stat(full)
	if statErr != nil {
		return fmt.Sprintf("Error: File not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: Path is not a file: %s", path)
	}

	data, readErr := os.ReadFile(full)
	if readErr != nil {
		return fmt.Sprintf("Error reading file: %s", readErr)
	}
	fullContent := readLenientUTF8(data)

	trailer := h.changedDetectionTrackThenTrailer(full, fullContent)

	var body string
	if opts.Cursor != nil {
		body = h.readByCursor(path, fullContent, *opts.Cursor, opts.ShowLineNumbers, len(trailer))
	} else {
		body = readByOffsetLimit(fullContent, opts.Offset, opts.Limit, opts.ShowLineNumbers)
	}

	h.reportFilesTracked()
	return h.debugPrefix() + body + trailer
}

// changedDetectionTrackThenTrailer tracks full for change detection
// (always tracking the complete file, even on a partial paginated read,
// per spec §4.6's "read" bullet) and composes the combined
// [CHANGED_FILES] + instruction trailer used for both layouts.
func (h *Handlers) changedDetectionTrackThenTrailer(full, fullContent string) string {
	mtime, _ := fileMtimeMs(full)
	h.State.TrackFile(full, mtime, fullContent)
	h.Resolver.MarkIfInstructionFile(full)

	return h.changedFilesTrailer() + h.instructionTrailer(full)
}

// readByCursor implements the cursor-based pagination contract of spec
// §4.5: the trailer is computed first, its length (plus a small fixed
// header estimate) is subtracted from the configured limit to get the
// effective budget, floored at 1.
func (h *Handlers) readByCursor(path, content string, cursor int, withLineNumbers bool, trailerLen int) string {
	const headerEstimate = 200
	limit := h.Config.ReadCharLimitFor(h.ClientName)
	budget := limit - trailerLen - headerEstimate
	if budget < 1 {
		budget = 1
	}

	chunk := paginator.ExtractByCursor(content, cursor, budget, withLineNumbers)
	totalChars := len(content)

	startChar := cursor
	if startChar > totalChars {
		startChar = totalChars
	}
	readsRemaining := paginator.ReadsRemaining(totalChars, chunk.NextCursor, limit)

	header := paginator.Header(path, startChar, startChar+len(chunk.Text), totalChars, readsRemaining, chunk)

	var footer string
	if chunk.NextCursor >= totalChars {
		footer = paginator.EOFFooter
	} else {
		footer = paginator.ContinuationFooter(path, chunk.NextCursor, readsRemaining, chunk.EndLine+1)
	}

	return header + chunk.Text + footer
}

// readByOffsetLimit implements the line-based alternative mode of spec
// §4.5: an exact slice, no trailer-budget accounting.
func readByOffsetLimit(content string, offset, limit *int, withLineNumbers bool) string {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	total := len(lines)

	start := 0
	if offset != nil {
		start = *offset
	}
	if start >= total {
		return ""
	}

	end := total
	if limit != nil {
		end = start + *limit
		if end > total {
			end = total
		}
	}

	selected := lines[start:end]
	if !withLineNumbers {
		return strings.Join(selected, "")
	}

	var b strings.Builder
	for i, line := range selected {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d→%s", start+i+1, strings.TrimRight(line, "\r\n"))
	}
	return b.String()
}

func readLenientUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
