package trayui

import (
	"testing"
	"unicode/utf8"

	"github.com/lineage-mcp/lineage-mcp/internal/traystore"
)

func TestFilterSessionsEmptyQueryReturnsAll(t *testing.T) {
	sessions := []traystore.SessionRecord{
		{SessionID: "a", BaseDir: "/repo/one"},
		{SessionID: "b", BaseDir: "/repo/two"},
	}
	out := filterSessions(sessions, "")
	if len(out) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(out))
	}
}

func TestFilterSessionsFuzzyMatchesSubsequence(t *testing.T) {
	sessions := []traystore.SessionRecord{
		{SessionID: "a", BaseDir: "/repo/alligator", ClientName: "Claude Code"},
		{SessionID: "b", BaseDir: "/repo/banana", ClientName: "opencode"},
	}
	out := filterSessions(sessions, "alg")
	if len(out) != 1 || out[0].SessionID != "a" {
		t.Fatalf("expected only session a to match, got %+v", out)
	}
}

func TestFilterSessionsNoMatchReturnsEmpty(t *testing.T) {
	sessions := []traystore.SessionRecord{
		{SessionID: "a", BaseDir: "/repo/one"},
	}
	out := filterSessions(sessions, "zzzzzznomatch")
	if len(out) != 0 {
		t.Fatalf("expected no matches, got %d", len(out))
	}
}

func TestTruncateShortensLongStrings(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Fatalf("expected unchanged, got %q", got)
	}
	got := truncate("a very long base directory path", 10)
	if utf8.RuneCountInString(got) != 10 {
		t.Fatalf("expected truncated length 10, got %q (%d)", got, utf8.RuneCountInString(got))
	}
}
