package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memberberries/berry/internal/store"
)

func newConcentrator(t *testing.T) (*Concentrator, *store.Store) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewConcentrator(s), s
}

func TestProcessTextStoresMemories(t *testing.T) {
	c, s := newConcentrator(t)

	stored, err := c.ProcessText("I keep getting the same issue: the docker build fails on arm runners")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stored) == 0 {
		t.Fatal("expected stored candidates")
	}
	if stored[0].StoredID == "" {
		t.Error("expected stored id on candidate")
	}

	got := s.SearchSolutions("docker build fails", 3)
	if len(got) == 0 {
		t.Fatal("expected the repeated issue stored as a solution record")
	}
	if !strings.HasPrefix(got[0].Problem, "Repeated issue:") {
		t.Errorf("unexpected problem text %q", got[0].Problem)
	}
	hasTag := false
	for _, tag := range got[0].Tags {
		if tag == "repeated" {
			hasTag = true
		}
	}
	if !hasTag {
		t.Error("expected the repeated tag")
	}
}

func TestProcessTextAutoPins(t *testing.T) {
	c, s := newConcentrator(t)

	stored, err := c.ProcessText("That worked, we fixed it by using ssh deploy@build.internal for the upload step")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stored) == 0 {
		t.Fatal("expected stored candidates")
	}
	if len(s.Pins()) != 1 {
		t.Fatalf("expected the connection string pinned, got %d pins", len(s.Pins()))
	}
	if !s.Pins()[0].Sensitive {
		t.Error("expected the pin marked sensitive")
	}
}

func TestProcessTextLearnsSignals(t *testing.T) {
	c, s := newConcentrator(t)

	if _, err := c.ProcessText("CRITICAL: that worked, fixed it by raising the limit"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if s.SignalScore("critical") == 0 {
		t.Error("expected emphasized word learned")
	}

	// Reopen: learned signals survive the persist.
	reopened, err := store.Open(s.Root())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.SignalScore("critical") == 0 {
		t.Error("expected learned signal persisted")
	}
}

func TestProcessTextNeutral(t *testing.T) {
	c, s := newConcentrator(t)

	stored, err := c.ProcessText("the sky is blue today")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("expected nothing extracted, got %d", len(stored))
	}
	if got := s.Stats()["solutions"]; got != 0 {
		t.Errorf("expected no records, got %d solutions", got)
	}
}

func TestProcessTranscript(t *testing.T) {
	c, s := newConcentrator(t)

	lines := []string{
		`{"role": "user", "content": "I keep getting the same issue: the docker build fails on arm runners"}`,
		`{"role": "assistant", "content": [{"type": "text", "text": "That worked. We fixed it by pinning the base image digest."}]}`,
		``,
		`not json at all`,
	}
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	stored, err := c.ProcessTranscript(path, 0)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stored) == 0 {
		t.Fatal("expected memories from transcript")
	}
	if got := s.Stats()["solutions"]; got == 0 {
		t.Error("expected solutions stored from transcript")
	}
}

func TestProcessTranscriptMissingFile(t *testing.T) {
	c, _ := newConcentrator(t)

	stored, err := c.ProcessTranscript(filepath.Join(t.TempDir(), "absent.jsonl"), 5)
	if err != nil {
		t.Fatalf("expected graceful handling, got %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("expected no memories, got %d", len(stored))
	}
}

func TestProcessTranscriptTail(t *testing.T) {
	c, s := newConcentrator(t)

	var lines []string
	// Old messages that would extract if not cut off by the tail window.
	for i := 0; i < 10; i++ {
		lines = append(lines, `{"role": "user", "content": "I keep getting the same issue: stale caches in ci"}`)
	}
	for i := 0; i < 5; i++ {
		lines = append(lines, `{"role": "user", "content": "nothing to see"}`)
	}
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	stored, err := c.ProcessTranscript(path, 5)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("expected the tail window to exclude old messages, got %d", len(stored))
	}
	if got := s.Stats()["solutions"]; got != 0 {
		t.Errorf("expected no records, got %d", got)
	}
}
