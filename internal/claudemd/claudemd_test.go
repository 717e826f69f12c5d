package claudemd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memberberries/berry/internal/store"
)

func newManager(t *testing.T) (*Manager, *store.Store, string) {
	t.Helper()
	project := t.TempDir()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewManager(project, s), s, project
}

func TestSplit(t *testing.T) {
	content := "# My Project\n\nuser text\n\n" + MarkerStart + "\ngenerated\n" + MarkerEnd + "\n"
	user, section := Split(content)
	if !strings.HasSuffix(user, "user text") {
		t.Errorf("unexpected user content %q", user)
	}
	if section != "generated" {
		t.Errorf("unexpected section %q", section)
	}
}

func TestSplitNoMarkers(t *testing.T) {
	user, section := Split("# Just user content\n")
	if user != "# Just user content" || section != "" {
		t.Errorf("got user=%q section=%q", user, section)
	}
}

func TestSplitMissingEndMarker(t *testing.T) {
	user, section := Split("intro\n" + MarkerStart + "\ndangling generated text")
	if user != "intro" {
		t.Errorf("unexpected user content %q", user)
	}
	if section != "dangling generated text" {
		t.Errorf("unexpected section %q", section)
	}
}

func TestEnsureExists(t *testing.T) {
	m, _, _ := newManager(t)

	created, err := m.EnsureExists()
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !created {
		t.Fatal("expected file created")
	}
	data, err := os.ReadFile(m.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), MarkerStart) || !strings.Contains(string(data), MarkerEnd) {
		t.Error("template missing managed-section markers")
	}

	created, err = m.EnsureExists()
	if err != nil || created {
		t.Errorf("second ensure: created=%v err=%v", created, err)
	}
}

func TestSyncPreservesUserContent(t *testing.T) {
	m, s, _ := newManager(t)

	if _, err := s.AddPreference("style", "prefer table tests", nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	userText := "# widget\n\nHand-written notes that must survive.\n"
	if err := os.WriteFile(m.Path(), []byte(userText), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := m.Sync("testing style"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	data, _ := os.ReadFile(m.Path())
	content := string(data)
	if !strings.Contains(content, "Hand-written notes that must survive.") {
		t.Error("user content lost")
	}
	if !strings.Contains(content, "prefer table tests") {
		t.Error("expected preference rendered in section")
	}
	if !strings.Contains(content, "## Your Preferences") {
		t.Error("expected preferences heading")
	}
}

func TestSyncIsIdempotentOnStructure(t *testing.T) {
	m, _, _ := newManager(t)

	for i := 0; i < 3; i++ {
		if err := m.Sync(""); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
	}
	data, _ := os.ReadFile(m.Path())
	if got := strings.Count(string(data), MarkerStart); got != 1 {
		t.Errorf("expected exactly one managed section, found %d", got)
	}
}

func TestSectionEmptyStore(t *testing.T) {
	m, _, _ := newManager(t)

	section := m.Section("")
	if !strings.Contains(section, "Building your memory") {
		t.Errorf("expected placeholder for empty store, got %q", section)
	}
}

func TestClean(t *testing.T) {
	m, _, _ := newManager(t)

	if err := m.Sync("anything"); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if err := m.Clean(); err != nil {
		t.Fatalf("clean: %v", err)
	}
	data, _ := os.ReadFile(m.Path())
	if strings.Contains(string(data), MarkerStart) {
		t.Error("managed section still present after clean")
	}
}

func TestCleanMissingFile(t *testing.T) {
	m, _, _ := newManager(t)
	if err := m.Clean(); err == nil {
		t.Error("expected error when file is missing")
	}
}

func TestDetectorTechStack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/widget\n")
	writeFile(t, dir, "Dockerfile", "FROM scratch\n")
	writeFile(t, dir, "package.json", `{"devDependencies": {"typescript": "^5"}}`)

	stack := NewDetector(dir).TechStack()
	set := map[string]bool{}
	for _, s := range stack {
		set[s] = true
	}
	for _, want := range []string{"Go", "Docker", "JavaScript/Node.js", "TypeScript"} {
		if !set[want] {
			t.Errorf("expected %q in stack %v", want, stack)
		}
	}
}

func TestDetectorArchitecture(t *testing.T) {
	dir := t.TempDir()
	if got := NewDetector(dir).Architecture(); got != "Unknown" {
		t.Errorf("empty dir classified as %q", got)
	}

	for _, sub := range []string{"models", "views", "controllers"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if got := NewDetector(dir).Architecture(); got != "MVC" {
		t.Errorf("expected MVC, got %q", got)
	}
}

func TestDetectorDescription(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/widget\n")

	desc := NewDetector(dir).Description()
	if !strings.Contains(desc, "Go") {
		t.Errorf("expected stack in description, got %q", desc)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
