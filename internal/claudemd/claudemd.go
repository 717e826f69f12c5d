// Package claudemd maintains the auto-managed context section of a
// project's CLAUDE.md: user-authored content stays untouched above the
// delimiter, the section below is regenerated from the memory store.
package claudemd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/memberberries/berry/internal/store"
)

const (
	MarkerStart = "<!-- BERRY CONTEXT - Auto-managed, do not edit below this line -->"
	MarkerEnd   = "<!-- END BERRY -->"
)

// Manager rewrites one project's CLAUDE.md.
type Manager struct {
	projectPath string
	store       *store.Store
	now         func() time.Time
}

// NewManager returns a manager for the given project directory.
func NewManager(projectPath string, s *store.Store) *Manager {
	return &Manager{projectPath: projectPath, store: s, now: time.Now}
}

// Path returns the managed file's location.
func (m *Manager) Path() string {
	return filepath.Join(m.projectPath, "CLAUDE.md")
}

// EnsureExists creates CLAUDE.md from the default template when missing.
// It reports whether the file was created.
func (m *Manager) EnsureExists() (bool, error) {
	if _, err := os.Stat(m.Path()); err == nil {
		return false, nil
	}
	name := filepath.Base(m.projectPath)
	content := fmt.Sprintf(`# %s

## Project Overview

<!-- Add your project description here -->

## Conventions

<!-- List coding conventions and standards -->

---

%s

*No context loaded yet. Run a sync to load relevant memories.*

%s
`, name, MarkerStart, MarkerEnd)
	if err := os.WriteFile(m.Path(), []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("create %s: %w", m.Path(), err)
	}
	log.Info("created CLAUDE.md", "path", m.Path())
	return true, nil
}

// Split separates user-authored content from the managed section. A missing
// end marker claims the rest of the file for the managed section rather
// than leaking stale generated text into user content.
func Split(content string) (userContent, section string) {
	start := strings.Index(content, MarkerStart)
	if start == -1 {
		return strings.TrimRight(content, " \t\n"), ""
	}
	userContent = strings.TrimRight(content[:start], " \t\n")
	rest := content[start+len(MarkerStart):]
	if end := strings.Index(rest, MarkerEnd); end != -1 {
		rest = rest[:end]
	}
	return userContent, strings.TrimSpace(rest)
}

// Read splits the current file. A missing file is empty user content.
func (m *Manager) Read() (userContent, section string, err error) {
	data, err := os.ReadFile(m.Path())
	if os.IsNotExist(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	userContent, section = Split(string(data))
	return userContent, section, nil
}

// Section renders the managed block from the store: preferences, relevant
// solutions, known errors, antipatterns, conventions, and project context,
// all focused by the query.
func (m *Manager) Section(query string) string {
	searchQuery := query
	if searchQuery == "" {
		searchQuery = "general development context"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n*Context synced: %s*\n", m.now().Format("2006-01-02 15:04"))
	if query != "" {
		display := query
		if len(display) > 100 {
			display = display[:100] + "..."
		}
		fmt.Fprintf(&b, "*Query: %s*\n", display)
	}
	headerLen := b.Len()

	if prefs := m.store.SearchPreferences(searchQuery, 3); len(prefs) > 0 {
		b.WriteString("\n## Your Preferences\n")
		for _, p := range prefs {
			fmt.Fprintf(&b, "- **%s**: %s\n", p.Category, p.Content)
		}
	}
	if sols := m.store.SearchSolutions(searchQuery, 2); len(sols) > 0 {
		b.WriteString("\n## Relevant Solutions\n")
		for _, s := range sols {
			fmt.Fprintf(&b, "- **%s**: %s\n", s.Problem, s.Solution)
		}
	}
	if errs := m.store.SearchErrors(searchQuery, 2); len(errs) > 0 {
		b.WriteString("\n## Known Error Patterns\n")
		for _, e := range errs {
			msg := e.ErrorMessage
			if len(msg) > 100 {
				msg = msg[:100] + "..."
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", msg, e.Resolution)
		}
	}
	if aps := m.store.SearchAntipatterns(searchQuery, 2); len(aps) > 0 {
		b.WriteString("\n## Antipatterns (Avoid These)\n")
		for _, a := range aps {
			fmt.Fprintf(&b, "- **Don't**: %s\n  - *Why*: %s\n  - *Instead*: %s\n", a.Pattern, a.Reason, a.Alternative)
		}
	}
	if convs := m.store.SearchGitConventions(searchQuery, 2); len(convs) > 0 {
		b.WriteString("\n## Git Conventions\n")
		for _, c := range convs {
			fmt.Fprintf(&b, "- **%s**: %s\n  - *Example*: `%s`\n", c.ConventionType, c.Pattern, c.Example)
		}
	}
	if tps := m.store.SearchTesting(searchQuery, 2); len(tps) > 0 {
		b.WriteString("\n## Testing Patterns\n")
		for _, tp := range tps {
			fmt.Fprintf(&b, "- **%s (%s)**: %s\n", tp.Strategy, tp.Framework, tp.Pattern)
		}
	}
	if notes := m.store.SearchAPINotes(searchQuery, 2); len(notes) > 0 {
		b.WriteString("\n## API Notes\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "- **%s**: %s\n", n.ServiceName, n.Notes)
		}
	}
	if ctx := m.store.GetProjectContext(m.projectPath); ctx != nil {
		b.WriteString("\n## Project Context\n")
		if ctx.Description != "" {
			fmt.Fprintf(&b, "- **Description**: %s\n", ctx.Description)
		}
		if len(ctx.TechStack) > 0 {
			fmt.Fprintf(&b, "- **Tech Stack**: %s\n", strings.Join(ctx.TechStack, ", "))
		}
	}

	if b.Len() == headerLen {
		b.WriteString("\n*Building your memory...*\n*Insights will be captured automatically as you work.*\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Sync regenerates the managed section in place, creating the file first if
// needed.
func (m *Manager) Sync(query string) error {
	if _, err := m.EnsureExists(); err != nil {
		return err
	}
	userContent, _, err := m.Read()
	if err != nil {
		return err
	}

	separator := "\n\n---"
	if strings.HasSuffix(strings.TrimRight(userContent, " \t\n"), "---") {
		separator = ""
	}
	content := fmt.Sprintf("%s%s\n\n%s\n%s\n%s\n",
		userContent, separator, MarkerStart, m.Section(query), MarkerEnd)
	if err := os.WriteFile(m.Path(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", m.Path(), err)
	}
	return nil
}

// Clean strips the managed section, leaving only user content.
func (m *Manager) Clean() error {
	data, err := os.ReadFile(m.Path())
	if os.IsNotExist(err) {
		return fmt.Errorf("no CLAUDE.md at %s", m.Path())
	}
	if err != nil {
		return err
	}
	userContent, _ := Split(string(data))
	return os.WriteFile(m.Path(), []byte(userContent+"\n"), 0o644)
}
