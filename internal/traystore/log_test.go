package traystore

import (
	"testing"

	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

func TestMessageLogRecentOrderedNewestFirst(t *testing.T) {
	l := NewMessageLog(3)
	l.Log("s1", traypipe.DirectionReceived, traypipe.Message{Type: traypipe.TypeRegister})
	l.Log("s1", traypipe.DirectionReceived, traypipe.Message{Type: traypipe.TypeUpdate})
	l.Log("s1", traypipe.DirectionSent, traypipe.Message{Type: traypipe.TypeClearCache})

	recent := l.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}
	if recent[0].Message.Type != traypipe.TypeClearCache {
		t.Fatalf("expected newest first, got %+v", recent[0])
	}
	if recent[2].Message.Type != traypipe.TypeRegister {
		t.Fatalf("expected oldest last, got %+v", recent[2])
	}
}

func TestMessageLogDropsOldestWhenFull(t *testing.T) {
	l := NewMessageLog(2)
	l.Log("s1", traypipe.DirectionReceived, traypipe.Message{Type: traypipe.TypeRegister})
	l.Log("s1", traypipe.DirectionReceived, traypipe.Message{Type: traypipe.TypeUpdate})
	l.Log("s1", traypipe.DirectionReceived, traypipe.Message{Type: traypipe.TypeUnregister})

	recent := l.Recent(0)
	if len(recent) != 2 {
		t.Fatalf("expected capacity-bounded 2 entries, got %d", len(recent))
	}
	if recent[0].Message.Type != traypipe.TypeUnregister || recent[1].Message.Type != traypipe.TypeUpdate {
		t.Fatalf("expected oldest (register) dropped, got %+v", recent)
	}
}

func TestMessageLogDeepCopiesAncestorSlices(t *testing.T) {
	l := NewMessageLog(5)
	pids := []int{1, 2, 3}
	l.Log("s1", traypipe.DirectionReceived, traypipe.Message{AncestorPids: pids})

	pids[0] = 999
	recent := l.Recent(1)
	if recent[0].Message.AncestorPids[0] != 1 {
		t.Fatalf("expected deep copy, mutation leaked: %+v", recent[0].Message.AncestorPids)
	}
}
