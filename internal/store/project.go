package store

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/charmbracelet/log"

	"github.com/memberberries/berry/internal/model"
)

// ProjectHash derives the index key for a project path.
func ProjectHash(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:12]
}

// AddProjectContext stores (or replaces) per-project knowledge keyed by the
// path hash, and returns the hash.
func (s *Store) AddProjectContext(path string, ctx *model.ProjectContext) (string, error) {
	hash := ProjectHash(path)
	ctx.Hash = hash
	ctx.Path = path
	ctx.UpdatedAt = s.now().UTC()
	s.idx.Projects[hash] = ctx
	if err := s.storage.Save(s.idx); err != nil {
		return "", err
	}
	if err := s.storage.WriteMirror("projects", hash, ctx, false); err != nil {
		log.Warn("mirror write failed", "kind", "project", "hash", hash, "err", err)
	}
	return hash, nil
}

// GetProjectContext returns the stored context for a project path, or nil.
func (s *Store) GetProjectContext(path string) *model.ProjectContext {
	return s.idx.Projects[ProjectHash(path)]
}

// AddSession records a summary of one coding session.
func (s *Store) AddSession(summary string, keyLearnings []string, projectPath string) (*model.Session, error) {
	rec := &model.Session{
		ID:           s.newULID(),
		Summary:      summary,
		KeyLearnings: keyLearnings,
		ProjectPath:  projectPath,
		CreatedAt:    s.now().UTC(),
	}
	s.idx.Sessions = append(s.idx.Sessions, rec)
	if err := s.storage.Save(s.idx); err != nil {
		return nil, err
	}
	if err := s.storage.WriteMirror("sessions", rec.ID, rec, false); err != nil {
		log.Warn("mirror write failed", "kind", "session", "id", rec.ID, "err", err)
	}
	return rec, nil
}
