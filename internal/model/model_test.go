package model

import (
	"testing"
	"time"
)

func TestLookupPrefix(t *testing.T) {
	idx := NewIndex()
	idx.Solutions = append(idx.Solutions, &Solution{
		Envelope: Envelope{ID: "abc123def456"},
		Problem:  "parse CSV",
	})
	idx.Errors = append(idx.Errors, &ErrorPattern{
		Envelope:     Envelope{ID: "abd999000111"},
		ErrorMessage: "nil deref",
	})

	if m := idx.LookupPrefix("abc123"); m == nil || m.Env().ID != "abc123def456" {
		t.Error("expected prefix match on the solution")
	}
	// An ambiguous prefix resolves to the first record in insertion order.
	if m := idx.LookupPrefix("ab"); m == nil || m.Env().ID != "abc123def456" {
		t.Error("expected first insertion-order match")
	}
	if idx.LookupPrefix("zzz") != nil {
		t.Error("expected no match")
	}
	if idx.LookupPrefix("") != nil {
		t.Error("empty prefix must not match")
	}
}

func TestMemoriesExcludesPinned(t *testing.T) {
	idx := NewIndex()
	idx.Solutions = append(idx.Solutions, &Solution{Envelope: Envelope{ID: "sol000000001"}})
	idx.Pinned = append(idx.Pinned, &PinnedMemory{ID: "pin000000001", Pinned: true})

	if got := len(idx.Memories()); got != 1 {
		t.Errorf("expected 1 searchable memory, got %d", got)
	}
}

func TestTasksInOrder(t *testing.T) {
	idx := NewIndex()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	idx.Tasks["b"] = &TaskCluster{ID: "b", CreatedAt: base.Add(time.Minute)}
	idx.Tasks["a"] = &TaskCluster{ID: "a", CreatedAt: base}
	idx.Tasks["c"] = &TaskCluster{ID: "c", CreatedAt: base.Add(time.Minute)}

	got := idx.TasksInOrder()
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestRefineTargetsKindField(t *testing.T) {
	s := &Solution{Problem: "p", Solution: "old"}
	s.Refine("new")
	if s.Solution != "new" || s.Problem != "p" {
		t.Errorf("refine touched the wrong field: %+v", s)
	}

	e := &ErrorPattern{ErrorMessage: "m", Resolution: "old"}
	e.Refine("new")
	if e.Resolution != "new" || e.ErrorMessage != "m" {
		t.Errorf("refine touched the wrong field: %+v", e)
	}
}

func TestNormalizeFillsMaps(t *testing.T) {
	idx := &Index{}
	idx.Normalize()
	if idx.Tasks == nil || idx.Gravity == nil || idx.Signals == nil || idx.Projects == nil {
		t.Error("expected all maps initialized")
	}
}
