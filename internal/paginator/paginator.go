// Package paginator implements the Read Paginator of spec §4.5: deterministic,
// line-boundary-aligned chunking of file content under a character budget.
package paginator

import (
	"fmt"
	"strings"
)

// Chunk is the result of one extractByCursor call.
type Chunk struct {
	Text       string
	NextCursor int
	StartLine  int // 1-indexed
	EndLine    int // 1-indexed, inclusive
	TotalLines int
}

// line is one splitlines(keepends=true) element plus its starting offset in
// the original content.
type line struct {
	text   string // includes trailing terminator, if any
	offset int
}

// splitLinesKeepEnds mirrors Python's str.splitlines(keepends=True): a
// trailing newline produces no extra empty element, but every line retains
// its own terminator.
func splitLinesKeepEnds(content string) []line {
	if content == "" {
		return nil
	}
	var lines []line
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, line{text: content[start : i+1], offset: start})
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, line{text: content[start:], offset: start})
	}
	return lines
}

// ExtractByCursor implements extractByCursor(content, cursor, budget,
// withLineNumbers) per spec §4.5.
func ExtractByCursor(content string, cursor, budget int, withLineNumbers bool) Chunk {
	totalChars := len(content)
	lines := splitLinesKeepEnds(content)
	totalLines := len(lines)

	if cursor < 0 {
		cursor = 0
	}

	if cursor >= totalChars {
		return Chunk{
			Text:       "",
			NextCursor: totalChars,
			StartLine:  totalLines,
			EndLine:    totalLines,
			TotalLines: totalLines,
		}
	}

	startIdx := lineIndexContaining(lines, cursor)

	var b strings.Builder
	cost := 0
	endIdx := startIdx

	for i := startIdx; i < len(lines); i++ {
		l := lines[i]
		lineCost := renderedCost(l.text, i+1, withLineNumbers)

		if i > startIdx && cost+lineCost > budget {
			break
		}

		if withLineNumbers {
			b.WriteString(fmt.Sprintf("%d→%s", i+1, strings.TrimRight(l.text, "\n")))
			b.WriteByte('\n')
		} else {
			b.WriteString(l.text)
		}
		cost += lineCost
		endIdx = i
	}

	nextCursor := totalChars
	if endIdx+1 < len(lines) {
		nextCursor = lines[endIdx+1].offset
	}

	return Chunk{
		Text:       b.String(),
		NextCursor: nextCursor,
		StartLine:  startIdx + 1,
		EndLine:    endIdx + 1,
		TotalLines: totalLines,
	}
}

// renderedCost is the cost §4.5 assigns to including line n (1-indexed).
func renderedCost(text string, n int, withLineNumbers bool) int {
	if !withLineNumbers {
		return len(text)
	}
	rendered := fmt.Sprintf("%d→%s", n, strings.TrimRight(text, "\n"))
	return len(rendered) + 1
}

func lineIndexContaining(lines []line, cursor int) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].offset <= cursor {
			return i
		}
	}
	return 0
}

// ReadsRemaining is ceil((totalChars - nextCursor) / limit), per spec §6.
func ReadsRemaining(totalChars, nextCursor, limit int) int {
	remaining := totalChars - nextCursor
	if remaining <= 0 {
		return 0
	}
	if limit <= 0 {
		limit = 1
	}
	return (remaining + limit - 1) / limit
}

// Header renders the paginated-read header fragment per spec §6.
func Header(path string, startChar, endChar, totalChars int, readsRemaining int, c Chunk) string {
	percent := 0.0
	if totalChars > 0 {
		percent = float64(endChar) * 100 / float64(totalChars)
	}
	return fmt.Sprintf(
		"[chars %d-%d of %d (%.0f%% of file), ~%d reads remaining] File: %s\nShowing lines %d-%d of %d\n\n",
		startChar, endChar, totalChars, percent, readsRemaining, path, c.StartLine, c.EndLine, c.TotalLines,
	)
}

// ContinuationFooter renders the footer for a chunk that is not the last in
// the file.
func ContinuationFooter(path string, nextCursor, readsRemaining, nextStartLine int) string {
	return fmt.Sprintf(
		"\n\n---\nTo continue reading, use: read(file_path=\"%s\", cursor=%d)\n(~%d reads remaining, next starts at line %d)",
		path, nextCursor, readsRemaining, nextStartLine,
	)
}

// EOFFooter renders the footer emitted once the read has reached EOF.
const EOFFooter = "\n\n---\nEnd of file reached."
