// Package store implements typed CRUD and semantic search over the memory
// index.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/memberberries/berry/internal/embedding"
	"github.com/memberberries/berry/internal/model"
	"github.com/memberberries/berry/internal/storage"
)

// Store owns the in-memory index and persists every mutation whole through
// the storage layer.
type Store struct {
	idx     *model.Index
	storage *storage.Store
	entropy *rand.Rand
	now     func() time.Time
}

// Open loads (or creates) the index under the given storage root.
func Open(root string) (*Store, error) {
	st, err := storage.New(root)
	if err != nil {
		return nil, err
	}
	return &Store{
		idx:     st.Load(),
		storage: st,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}, nil
}

// Index exposes the aggregate document.
func (s *Store) Index() *model.Index { return s.idx }

// Root returns the storage root directory.
func (s *Store) Root() string { return s.storage.Dir() }

// Persist writes the whole index to disk.
func (s *Store) Persist() error { return s.storage.Save(s.idx) }

// contentID derives a collision-resistant short identifier from record
// content plus timestamp.
func contentID(content string, ts time.Time) string {
	sum := sha256.Sum256([]byte(content + ts.Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])[:12]
}

func (s *Store) newULID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// saveWithMirror persists the index and mirrors one record into its
// per-kind subdirectory. A failed mirror write is logged, not fatal: the
// index is the source of truth.
func (s *Store) saveWithMirror(m model.Memory) error {
	if err := s.storage.Save(s.idx); err != nil {
		return err
	}
	env := m.Env()
	if err := s.storage.WriteMirror(m.Kind().Dir(), env.ID, m, false); err != nil {
		log.Warn("mirror write failed", "kind", m.Kind(), "id", env.ID, "err", err)
	}
	return nil
}

func (s *Store) newEnvelope(salient string, tags []string) model.Envelope {
	now := s.now().UTC()
	return model.Envelope{
		ID:        contentID(salient, now),
		Tags:      tags,
		CreatedAt: now,
		Embedding: embedding.Embed(salient),
	}
}

// AddSolution stores a solved problem.
func (s *Store) AddSolution(problem, solution, codeSnippet string, tags []string) (*model.Solution, error) {
	rec := &model.Solution{Problem: problem, Solution: solution, CodeSnippet: codeSnippet}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.Solutions = append(s.idx.Solutions, rec)
	return rec, s.saveWithMirror(rec)
}

// AddError stores an error pattern and its resolution.
func (s *Store) AddError(errorMessage, resolution, context string, tags []string) (*model.ErrorPattern, error) {
	rec := &model.ErrorPattern{ErrorMessage: errorMessage, Resolution: resolution, Context: context}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.Errors = append(s.idx.Errors, rec)
	return rec, s.saveWithMirror(rec)
}

// AddAntipattern stores something to avoid.
func (s *Store) AddAntipattern(pattern, reason, alternative string, tags []string) (*model.Antipattern, error) {
	rec := &model.Antipattern{Pattern: pattern, Reason: reason, Alternative: alternative}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.Antipatterns = append(s.idx.Antipatterns, rec)
	return rec, s.saveWithMirror(rec)
}

// AddPreference stores a user preference under a category.
func (s *Store) AddPreference(category, content string, tags []string) (*model.Preference, error) {
	rec := &model.Preference{Category: category, Content: content}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.Preferences = append(s.idx.Preferences, rec)
	return rec, s.saveWithMirror(rec)
}

// AddGitConvention stores a commit/branch/PR convention.
func (s *Store) AddGitConvention(conventionType, pattern, example string, tags []string) (*model.GitConvention, error) {
	rec := &model.GitConvention{ConventionType: conventionType, Pattern: pattern, Example: example}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.GitConventions = append(s.idx.GitConventions, rec)
	return rec, s.saveWithMirror(rec)
}

// AddDependency stores notes about a package.
func (s *Store) AddDependency(name, versionConstraint, notes string, tags []string) (*model.Dependency, error) {
	rec := &model.Dependency{Name: name, VersionConstraint: versionConstraint, Notes: notes}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.Dependencies = append(s.idx.Dependencies, rec)
	return rec, s.saveWithMirror(rec)
}

// AddTestingPattern stores a testing strategy.
func (s *Store) AddTestingPattern(strategy, framework, pattern, example string, tags []string) (*model.TestingPattern, error) {
	rec := &model.TestingPattern{Strategy: strategy, Framework: framework, Pattern: pattern, Example: example}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.Testing = append(s.idx.Testing, rec)
	return rec, s.saveWithMirror(rec)
}

// AddEnvironmentNote stores configuration for an environment type.
func (s *Store) AddEnvironmentNote(envType, config, notes string, tags []string) (*model.EnvironmentNote, error) {
	rec := &model.EnvironmentNote{EnvType: envType, Config: config, Notes: notes}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.Environment = append(s.idx.Environment, rec)
	return rec, s.saveWithMirror(rec)
}

// AddAPINote stores quirks of an external service.
func (s *Store) AddAPINote(serviceName, endpoint, notes string, tags []string) (*model.APINote, error) {
	rec := &model.APINote{ServiceName: serviceName, Endpoint: endpoint, Notes: notes}
	rec.Envelope = s.newEnvelope(rec.SearchText(), tags)
	s.idx.APINotes = append(s.idx.APINotes, rec)
	return rec, s.saveWithMirror(rec)
}

// GetDependency returns the most recent dependency record with the given
// name, or nil.
func (s *Store) GetDependency(name string) *model.Dependency {
	for i := len(s.idx.Dependencies) - 1; i >= 0; i-- {
		if d := s.idx.Dependencies[i]; d.Name == name && !d.Archived {
			return d
		}
	}
	return nil
}

// GetEnvironment returns the most recent environment note for the given
// type, or nil.
func (s *Store) GetEnvironment(envType string) *model.EnvironmentNote {
	for i := len(s.idx.Environment) - 1; i >= 0; i-- {
		if e := s.idx.Environment[i]; e.EnvType == envType && !e.Archived {
			return e
		}
	}
	return nil
}
