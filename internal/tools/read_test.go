package tools

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestReadCursorCoversWholeFileAcrossResponses(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 1; i <= 200; i++ {
		b.WriteString(strings.Repeat("x", 5))
		b.WriteByte('\n')
	}
	content := b.String()
	os.WriteFile(filepath.Join(dir, "f.txt"), []byte(content), 0o644)

	h := newHandlers(t, dir)
	h.Config.ReadCharLimit = 300

	var seen strings.Builder
	cursor := 0
	for i := 0; i < 50; i++ {
		c := cursor
		out := h.Read("f.txt", ReadOptions{Cursor: &c})
		seen.WriteString(bodyOf(out))

		if strings.Contains(out, "End of file reached.") {
			break
		}
		nextCursor, ok := extractNextCursor(out)
		if !ok {
			t.Fatalf("expected a continuation footer, got:\n%s", out)
		}
		if nextCursor <= cursor {
			t.Fatalf("cursor did not advance: %d -> %d", cursor, nextCursor)
		}
		cursor = nextCursor
	}

	if seen.String() != content {
		t.Fatalf("reassembled content did not match original.\ngot len=%d want len=%d", seen.Len(), len(content))
	}
}

func TestReadInterruptBlocksIO(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "f.txt"), []byte("hello"), 0o644)

	h := newHandlers(t, dir)
	h.State.Interrupt()

	out := h.Read("f.txt", ReadOptions{})
	if out != h.Config.InterruptMessage {
		t.Fatalf("expected interrupt banner, got: %q", out)
	}
}

func TestReadCursorAndOffsetMutuallyExclusive(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "f.txt"), []byte("hello"), 0o644)

	h := newHandlers(t, dir)
	cursor, offset := 0, 0
	out := h.Read("f.txt", ReadOptions{Cursor: &cursor, Offset: &offset})
	if !strings.Contains(out, "Cannot use 'cursor' with 'offset' or 'limit'") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestReadReinjectsBaseInstructionAfterSecondClear(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "AGENTS.md"), []byte("follow these rules"), 0o644)
	os.WriteFile(filepath.Join(dir, "f.txt"), []byte("hello"), 0o644)

	h := newHandlers(t, dir)

	h.State.Clear() // clearCount 1: initial boot, base file not re-provided
	out1 := h.Read("f.txt", ReadOptions{})
	if strings.Contains(out1, "follow these rules") {
		t.Fatalf("did not expect base instruction file after first clear, got:\n%s", out1)
	}

	h.State.Clear() // clearCount 2: simulated compaction, must re-provide
	out2 := h.Read("f.txt", ReadOptions{})
	if !strings.Contains(out2, "follow these rules") {
		t.Fatalf("expected base instruction file re-injected after second clear, got:\n%s", out2)
	}
}

// bodyOf strips the paginator header (ending in the first blank line) and
// footer (starting at the first "\n\n---\n"), relying on the test fixture
// never containing a blank line itself.
func bodyOf(out string) string {
	start := 0
	if idx := strings.Index(out, "\n\n"); idx != -1 {
		start = idx + 2
	}
	rest := out[start:]
	if idx := strings.Index(rest, "\n\n---\n"); idx != -1 {
		rest = rest[:idx]
	}
	return rest
}

func extractNextCursor(out string) (int, bool) {
	const marker = "cursor="
	idx := strings.Index(out, marker)
	if idx == -1 {
		return 0, false
	}
	rest := out[idx+len(marker):]
	end := strings.IndexByte(rest, ')')
	if end == -1 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
