// Package gravity implements the weighted relevance score: reference counts,
// task-attachment bonuses, and staleness decay over the memory index.
package gravity

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/memberberries/berry/internal/model"
)

const (
	// InitialMass is assigned on a memory's first contact with the engine.
	InitialMass = 1.0
	// ReferenceBoost is added on every explicit reference.
	ReferenceBoost = 0.5
	// AttachBoost is added to both sides of a new task attachment.
	AttachBoost = 1.0
	// DefaultStaleAfter is the age past which decay applies.
	DefaultStaleAfter = 7 * 24 * time.Hour
	// DefaultDecayFactor multiplies the mass of each stale memory.
	DefaultDecayFactor = 0.9
	// attachThreshold is the minimum lexical score for an auto-attach.
	attachThreshold = 3
)

// Backend is the slice of the store the engine needs: the live index and a
// way to persist it.
type Backend interface {
	Index() *model.Index
	Persist() error
}

// Engine mutates gravity state through a Backend.
type Engine struct {
	b       Backend
	entropy *rand.Rand
	now     func() time.Time
}

// New returns an engine over the given backend.
func New(b Backend) *Engine {
	return &Engine{
		b:       b,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// gravityFor returns the memory's gravity entry, creating it with the
// initial mass on first contact.
func (e *Engine) gravityFor(id string) *model.Gravity {
	idx := e.b.Index()
	g, ok := idx.Gravity[id]
	if !ok {
		g = &model.Gravity{Mass: InitialMass}
		idx.Gravity[id] = g
	}
	return g
}

// Reference records an explicit use of a memory: reference count up, mass up,
// last-accessed refreshed. The id may be a unique prefix.
func (e *Engine) Reference(idOrPrefix string) (*model.Gravity, error) {
	m := e.b.Index().LookupPrefix(idOrPrefix)
	if m == nil {
		return nil, fmt.Errorf("no memory matches %q", idOrPrefix)
	}
	g := e.gravityFor(m.Env().ID)
	g.References++
	g.Mass += ReferenceBoost
	g.LastAccessed = e.now().UTC()
	return g, e.b.Persist()
}

// CreateTask starts a new task cluster. A parent id, when given, must name an
// existing cluster.
func (e *Engine) CreateTask(name, description, parentID string) (*model.TaskCluster, error) {
	idx := e.b.Index()
	if parentID != "" {
		if _, ok := idx.Tasks[parentID]; !ok {
			return nil, fmt.Errorf("parent task %q not found", parentID)
		}
	}
	now := e.now().UTC()
	t := &model.TaskCluster{
		ID:          ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		Name:        name,
		Description: description,
		ParentID:    parentID,
		Mass:        InitialMass,
		MemberIDs:   []string{},
		CreatedAt:   now,
		LastActive:  now,
	}
	idx.Tasks[t.ID] = t
	return t, e.b.Persist()
}

// Attach links a memory to a task. Attaching an existing member is a no-op;
// a new attachment boosts both the task's and the memory's mass.
func (e *Engine) Attach(memoryID, taskID string) (bool, error) {
	idx := e.b.Index()
	t, ok := idx.Tasks[taskID]
	if !ok {
		return false, fmt.Errorf("task %q not found", taskID)
	}
	m := idx.LookupPrefix(memoryID)
	if m == nil {
		return false, fmt.Errorf("no memory matches %q", memoryID)
	}
	id := m.Env().ID

	now := e.now().UTC()
	t.LastActive = now
	if t.HasMember(id) {
		return false, e.b.Persist()
	}
	t.MemberIDs = append(t.MemberIDs, id)
	t.Mass += AttachBoost

	g := e.gravityFor(id)
	if !g.HasTask(taskID) {
		g.TaskIDs = append(g.TaskIDs, taskID)
	}
	g.Mass += AttachBoost
	g.LastAccessed = now
	return true, e.b.Persist()
}

// AutoAttach scores every task cluster by lexical overlap with the memory's
// tags and content and attaches to the best one when the score clears the
// threshold. Equal scores go to the earliest-created cluster. Returns the
// chosen task, or nil when nothing scored high enough.
func (e *Engine) AutoAttach(memoryID string, tags []string, content string) (*model.TaskCluster, error) {
	idx := e.b.Index()
	if idx.LookupPrefix(memoryID) == nil {
		return nil, fmt.Errorf("no memory matches %q", memoryID)
	}

	contentWords := tokenize(content)
	var best *model.TaskCluster
	bestScore := 0
	for _, t := range idx.TasksInOrder() {
		nameWords := tokenize(t.Name)
		descWords := tokenize(t.Description)

		score := 0
		for _, tag := range tags {
			w := strings.ToLower(tag)
			if nameWords[w] {
				score += 3
			}
			if descWords[w] {
				score += 2
			}
		}
		for w := range contentWords {
			if nameWords[w] {
				score += 2
			}
			if descWords[w] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = t, score
		}
	}
	if best == nil || bestScore < attachThreshold {
		return nil, nil
	}
	if _, err := e.Attach(memoryID, best.ID); err != nil {
		return nil, err
	}
	return best, nil
}

// tokenize splits free text (or a hyphen/underscore separated name) into a
// lowercase word set.
func tokenize(s string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '-', '_', '/', ',', '.', ':':
			return true
		}
		return false
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// Decay multiplies the mass of every memory whose last access is older than
// staleAfter, clamped to the floor. Each call within the same stale window
// compounds; last-accessed is not refreshed by decay itself.
func (e *Engine) Decay(staleAfter time.Duration, factor float64) int {
	idx := e.b.Index()
	cutoff := e.now().UTC().Add(-staleAfter)
	decayed := 0
	for _, g := range idx.Gravity {
		if g.LastAccessed.After(cutoff) {
			continue
		}
		g.Mass *= factor
		if g.Mass < model.MassFloor {
			g.Mass = model.MassFloor
		}
		decayed++
	}
	return decayed
}

// Ranked annotates a memory with its current gravity state.
type Ranked struct {
	Memory     model.Memory `json:"memory"`
	Mass       float64      `json:"mass"`
	References int          `json:"references"`
}

// TopByGravity applies lazy decay, then returns up to k non-archived tracked
// memories sorted by mass descending. Ties break by id for a stable order.
func (e *Engine) TopByGravity(k int) ([]Ranked, error) {
	idx := e.b.Index()
	e.Decay(DefaultStaleAfter, DefaultDecayFactor)

	var out []Ranked
	for id, g := range idx.Gravity {
		m := idx.Lookup(id)
		if m == nil || m.Env().Archived {
			continue
		}
		out = append(out, Ranked{Memory: m, Mass: g.Mass, References: g.References})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mass != out[j].Mass {
			return out[i].Mass > out[j].Mass
		}
		return out[i].Memory.Env().ID < out[j].Memory.Env().ID
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, e.b.Persist()
}

// TaskMemories returns a task's member memories, optionally unioned with the
// members of its direct children, sorted by current mass descending.
func (e *Engine) TaskMemories(taskID string, includeSubtasks bool) ([]Ranked, error) {
	idx := e.b.Index()
	t, ok := idx.Tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("task %q not found", taskID)
	}

	seen := map[string]bool{}
	ids := append([]string(nil), t.MemberIDs...)
	if includeSubtasks {
		for _, child := range idx.TasksInOrder() {
			if child.ParentID != taskID {
				continue
			}
			ids = append(ids, child.MemberIDs...)
		}
	}

	var out []Ranked
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		m := idx.Lookup(id)
		if m == nil {
			continue
		}
		r := Ranked{Memory: m}
		if g, ok := idx.Gravity[id]; ok {
			r.Mass, r.References = g.Mass, g.References
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mass > out[j].Mass })
	return out, nil
}
