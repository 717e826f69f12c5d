package store

import (
	"regexp"
	"strings"

	"github.com/memberberries/berry/internal/embedding"
	"github.com/memberberries/berry/internal/model"
)

// Archive soft-deletes a memory by id or unique id prefix and halves its
// gravitational mass. It reports whether a record matched. Pinned memories
// cannot be archived; they are not part of the prefix-addressable record set.
func (s *Store) Archive(idOrPrefix string) (bool, error) {
	m := s.idx.LookupPrefix(idOrPrefix)
	if m == nil {
		return false, nil
	}
	m.Env().Archived = true
	s.scaleMass(m.Env().ID, 0.5)
	return true, s.saveWithMirror(m)
}

// Unarchive restores an archived memory and doubles its mass back.
func (s *Store) Unarchive(idOrPrefix string) (bool, error) {
	m := s.idx.LookupPrefix(idOrPrefix)
	if m == nil {
		return false, nil
	}
	m.Env().Archived = false
	s.scaleMass(m.Env().ID, 2)
	return true, s.saveWithMirror(m)
}

// scaleMass multiplies an existing gravity entry's mass, clamped to the
// floor. Untracked memories have no mass to scale.
func (s *Store) scaleMass(id string, factor float64) {
	g, ok := s.idx.Gravity[id]
	if !ok {
		return
	}
	g.Mass *= factor
	if g.Mass < model.MassFloor {
		g.Mass = model.MassFloor
	}
}

// Refine overwrites the kind-appropriate content field of a memory, marks it
// refined, and recomputes the embedding over the full record text.
func (s *Store) Refine(idOrPrefix, content string) (bool, error) {
	m := s.idx.LookupPrefix(idOrPrefix)
	if m == nil {
		return false, nil
	}
	m.Refine(content)
	env := m.Env()
	env.Refined = true
	now := s.now().UTC()
	env.RefinedAt = &now
	env.Embedding = embedding.Embed(m.FullText())
	return true, s.saveWithMirror(m)
}

// QualityReport flags one memory as a refinement candidate.
type QualityReport struct {
	ID      string     `json:"id"`
	Kind    model.Kind `json:"kind"`
	Score   int        `json:"score"`
	Reasons []string   `json:"reasons"`
}

var (
	lineNumberArtifact = regexp.MustCompile(`(?m)^\s*\d+(?:→|\t)`)
	rawAPIMarkers      = []string{`"role":`, `"type": "message"`, `{"id":`, `{'model':`, `msg_01`}
)

// NeedingRefinement scans unrefined, unarchived memories for signs of
// low-quality capture: truncated text, transcript line-number artifacts,
// heavy code punctuation, raw API payload fragments. A record is reported
// when at least two heuristics fire.
func (s *Store) NeedingRefinement() []QualityReport {
	var reports []QualityReport
	for _, m := range s.idx.Memories() {
		env := m.Env()
		if env.Archived || env.Refined {
			continue
		}
		text := m.FullText()
		var reasons []string
		if len(text) < 20 {
			reasons = append(reasons, "content too short")
		}
		if lineNumberArtifact.MatchString(text) {
			reasons = append(reasons, "line-number artifacts from a transcript")
		}
		if bracketDensity(text) > 0.05 {
			reasons = append(reasons, "high bracket density, likely raw code dump")
		}
		for _, marker := range rawAPIMarkers {
			if strings.Contains(text, marker) {
				reasons = append(reasons, "raw API payload fragment")
				break
			}
		}
		if len(reasons) >= 2 {
			reports = append(reports, QualityReport{
				ID:      env.ID,
				Kind:    m.Kind(),
				Score:   len(reasons),
				Reasons: reasons,
			})
		}
	}
	return reports
}

func bracketDensity(text string) float64 {
	if text == "" {
		return 0
	}
	n := 0
	for _, r := range text {
		switch r {
		case '{', '}', '[', ']':
			n++
		}
	}
	return float64(n) / float64(len([]rune(text)))
}
