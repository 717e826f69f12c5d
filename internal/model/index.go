package model

import (
	"sort"
	"strings"
	"time"
)

// MassFloor is the minimum gravitational mass a memory can decay to.
const MassFloor = 0.1

// PinnedMemory is a protected record: exempt from archival, decay, and
// refinement, and removable only by an explicit unpin.
type PinnedMemory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags,omitempty"`
	Sensitive bool      `json:"sensitive"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"timestamp"`
}

// TaskCluster groups memories under a named unit of work.
type TaskCluster struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	Mass        float64   `json:"mass"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
	LastActive  time.Time `json:"last_active"`
}

// HasMember reports whether a memory id is already in the cluster.
func (t *TaskCluster) HasMember(id string) bool {
	for _, m := range t.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Gravity is the relevance-ranking state for one memory.
type Gravity struct {
	Mass         float64   `json:"mass"`
	References   int       `json:"references"`
	TaskIDs      []string  `json:"task_ids,omitempty"`
	LastAccessed time.Time `json:"last_accessed"`
}

// HasTask reports whether the memory is attached to the given task.
func (g *Gravity) HasTask(id string) bool {
	for _, t := range g.TaskIDs {
		if t == id {
			return true
		}
	}
	return false
}

// LearnedSignal tracks a user-specific signal word picked up from
// conversation, used to boost extraction importance over time.
type LearnedSignal struct {
	Kind      string    `json:"kind"`
	Weight    int       `json:"weight"`
	Effective int       `json:"effective"`
	LastSeen  time.Time `json:"last_seen"`
}

// ProjectContext holds per-project knowledge keyed by a path hash.
type ProjectContext struct {
	Hash         string    `json:"hash"`
	Path         string    `json:"path"`
	Name         string    `json:"name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Architecture string    `json:"architecture,omitempty"`
	TechStack    []string  `json:"tech_stack,omitempty"`
	Conventions  []string  `json:"conventions,omitempty"`
	Notes        []string  `json:"notes,omitempty"`
	UpdatedAt    time.Time `json:"last_updated"`
}

// Session is a summary of one coding session.
type Session struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	KeyLearnings []string  `json:"key_learnings,omitempty"`
	ProjectPath  string    `json:"project_path,omitempty"`
	CreatedAt    time.Time `json:"timestamp"`
}

// Index is the single aggregate document: every mutation rewrites it whole.
type Index struct {
	Solutions      []*Solution                `json:"solutions"`
	Errors         []*ErrorPattern            `json:"errors"`
	Antipatterns   []*Antipattern             `json:"antipatterns"`
	Preferences    []*Preference              `json:"preferences"`
	GitConventions []*GitConvention           `json:"git_conventions"`
	Dependencies   []*Dependency              `json:"dependencies"`
	Testing        []*TestingPattern          `json:"testing"`
	Environment    []*EnvironmentNote         `json:"environment"`
	APINotes       []*APINote                 `json:"api_notes"`
	Pinned         []*PinnedMemory            `json:"pinned"`
	Projects       map[string]*ProjectContext `json:"projects"`
	Sessions       []*Session                 `json:"sessions"`
	Tasks          map[string]*TaskCluster    `json:"task_clusters"`
	Gravity        map[string]*Gravity        `json:"memory_gravity"`
	Signals        map[string]*LearnedSignal  `json:"learned_signals"`
}

// NewIndex returns an empty index with all maps initialized.
func NewIndex() *Index {
	idx := &Index{}
	idx.Normalize()
	return idx
}

// Normalize fills any missing top-level keys with their defaults. Loading a
// partial document (e.g. an old backup) merges it against the default schema
// by passing through here.
func (idx *Index) Normalize() {
	if idx.Projects == nil {
		idx.Projects = map[string]*ProjectContext{}
	}
	if idx.Tasks == nil {
		idx.Tasks = map[string]*TaskCluster{}
	}
	if idx.Gravity == nil {
		idx.Gravity = map[string]*Gravity{}
	}
	if idx.Signals == nil {
		idx.Signals = map[string]*LearnedSignal{}
	}
}

// Memories returns every typed record across all kinds in stable insertion
// order (kind by kind). Pinned memories are not included; they are not part
// of the searchable record set.
func (idx *Index) Memories() []Memory {
	out := make([]Memory, 0,
		len(idx.Solutions)+len(idx.Errors)+len(idx.Antipatterns)+
			len(idx.Preferences)+len(idx.GitConventions)+len(idx.Dependencies)+
			len(idx.Testing)+len(idx.Environment)+len(idx.APINotes))
	for _, m := range idx.Solutions {
		out = append(out, m)
	}
	for _, m := range idx.Errors {
		out = append(out, m)
	}
	for _, m := range idx.Antipatterns {
		out = append(out, m)
	}
	for _, m := range idx.Preferences {
		out = append(out, m)
	}
	for _, m := range idx.GitConventions {
		out = append(out, m)
	}
	for _, m := range idx.Dependencies {
		out = append(out, m)
	}
	for _, m := range idx.Testing {
		out = append(out, m)
	}
	for _, m := range idx.Environment {
		out = append(out, m)
	}
	for _, m := range idx.APINotes {
		out = append(out, m)
	}
	return out
}

// Lookup finds a memory by exact id across all kinds.
func (idx *Index) Lookup(id string) Memory {
	for _, m := range idx.Memories() {
		if m.Env().ID == id {
			return m
		}
	}
	return nil
}

// LookupPrefix finds the first memory whose id matches the given id or id
// prefix, in insertion order. Pinned records are never matched.
func (idx *Index) LookupPrefix(idOrPrefix string) Memory {
	if idOrPrefix == "" {
		return nil
	}
	for _, m := range idx.Memories() {
		if strings.HasPrefix(m.Env().ID, idOrPrefix) {
			return m
		}
	}
	return nil
}

// TasksInOrder returns task clusters sorted by creation time. ULID task ids
// sort chronologically, which breaks creation-time ties deterministically.
func (idx *Index) TasksInOrder() []*TaskCluster {
	out := make([]*TaskCluster, 0, len(idx.Tasks))
	for _, t := range idx.Tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
