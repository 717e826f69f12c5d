package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveRootOverride(t *testing.T) {
	got, err := Config{Root: "/tmp/berries", Mode: ModeLocal}.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "/tmp/berries" {
		t.Errorf("expected explicit root to win, got %q", got)
	}
}

func TestResolveLocal(t *testing.T) {
	project := t.TempDir()
	got, err := Config{Mode: ModeLocal, ProjectPath: project}.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(project, storeDirName) {
		t.Errorf("unexpected local root %q", got)
	}
}

func TestResolveGlobal(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := Config{Mode: ModeGlobal, ProjectPath: t.TempDir()}.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(home, storeDirName) {
		t.Errorf("unexpected global root %q", got)
	}
}

func TestResolveAutoPrefersExistingLocal(t *testing.T) {
	project := t.TempDir()
	local := filepath.Join(project, storeDirName)
	if err := os.Mkdir(local, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := Config{Mode: ModeAuto, ProjectPath: project}.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != local {
		t.Errorf("expected existing local store preferred, got %q", got)
	}
}

func TestResolveAutoFallsBackToGlobal(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := Config{ProjectPath: t.TempDir()}.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(home, storeDirName) {
		t.Errorf("expected global fallback, got %q", got)
	}
}

func TestResolveUnknownMode(t *testing.T) {
	if _, err := (Config{Mode: "weird", ProjectPath: t.TempDir()}).Resolve(); err == nil {
		t.Error("expected error for unknown mode")
	}
}
