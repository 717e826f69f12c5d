package gravity

import (
	"math"
	"testing"
	"time"

	"github.com/memberberries/berry/internal/model"
	"github.com/memberberries/berry/internal/store"
)

func newEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(s), s
}

func addSolution(t *testing.T, s *store.Store, problem string) *model.Solution {
	t.Helper()
	rec, err := s.AddSolution(problem, "resolution for "+problem, "", nil)
	if err != nil {
		t.Fatalf("add solution: %v", err)
	}
	return rec
}

func TestReferenceFirstContact(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "parse CSV")

	g, err := e.Reference(rec.ID)
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	if g.References != 1 {
		t.Errorf("expected 1 reference, got %d", g.References)
	}
	if got := g.Mass; got != InitialMass+ReferenceBoost {
		t.Errorf("expected mass %v, got %v", InitialMass+ReferenceBoost, got)
	}
	if g.LastAccessed.IsZero() {
		t.Error("expected last-accessed refreshed")
	}
}

func TestReferenceUnknownID(t *testing.T) {
	e, _ := newEngine(t)
	if _, err := e.Reference("ffffff"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestAttachAndTaskMemories(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "fix token refresh")

	task, err := e.CreateTask("fix-auth", "", "")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	added, err := e.Attach(rec.ID, task.ID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if !added {
		t.Fatal("expected a new attachment")
	}

	members, err := e.TaskMemories(task.ID, false)
	if err != nil {
		t.Fatalf("task memories: %v", err)
	}
	if len(members) != 1 || members[0].Memory.Env().ID != rec.ID {
		t.Fatalf("expected the attached memory, got %d members", len(members))
	}
	if members[0].Mass < 2 {
		t.Errorf("expected mass >= 2 after attach, got %v", members[0].Mass)
	}
	if task.Mass != InitialMass+AttachBoost {
		t.Errorf("expected task mass %v, got %v", InitialMass+AttachBoost, task.Mass)
	}
}

func TestAttachIdempotent(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "fix token refresh")
	task, _ := e.CreateTask("fix-auth", "", "")

	if _, err := e.Attach(rec.ID, task.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	added, err := e.Attach(rec.ID, task.ID)
	if err != nil {
		t.Fatalf("second attach: %v", err)
	}
	if added {
		t.Error("expected repeat attach to be a no-op")
	}
	if len(task.MemberIDs) != 1 {
		t.Errorf("expected 1 member, got %d", len(task.MemberIDs))
	}
	if task.Mass != InitialMass+AttachBoost {
		t.Errorf("expected mass unchanged on repeat attach, got %v", task.Mass)
	}
}

func TestCreateTaskUnknownParent(t *testing.T) {
	e, _ := newEngine(t)
	if _, err := e.CreateTask("child", "", "01J00000000000000000000000"); err == nil {
		t.Error("expected error for unknown parent")
	}
}

func TestDecayCompounds(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "parse CSV")
	s.Index().Gravity[rec.ID] = &model.Gravity{
		Mass:         1.0,
		LastAccessed: time.Now().UTC().Add(-10 * 24 * time.Hour),
	}

	e.Decay(DefaultStaleAfter, DefaultDecayFactor)
	g := s.Index().Gravity[rec.ID]
	if math.Abs(g.Mass-0.9) > 1e-9 {
		t.Fatalf("expected mass 0.9 after one decay, got %v", g.Mass)
	}

	// Decay does not refresh last-accessed, so a second call in the same
	// stale window compounds.
	e.Decay(DefaultStaleAfter, DefaultDecayFactor)
	if math.Abs(g.Mass-0.81) > 1e-9 {
		t.Errorf("expected mass 0.81 after two decays, got %v", g.Mass)
	}
}

func TestDecayFloor(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "parse CSV")
	s.Index().Gravity[rec.ID] = &model.Gravity{
		Mass:         0.12,
		LastAccessed: time.Now().UTC().Add(-30 * 24 * time.Hour),
	}

	for i := 0; i < 50; i++ {
		e.Decay(DefaultStaleAfter, DefaultDecayFactor)
	}
	if g := s.Index().Gravity[rec.ID]; g.Mass < model.MassFloor {
		t.Errorf("mass decayed below floor: %v", g.Mass)
	}
}

func TestDecaySkipsFresh(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "parse CSV")
	if _, err := e.Reference(rec.ID); err != nil {
		t.Fatalf("reference: %v", err)
	}

	if n := e.Decay(DefaultStaleAfter, DefaultDecayFactor); n != 0 {
		t.Errorf("expected no decay on a fresh memory, got %d", n)
	}
}

func TestAutoAttachByTag(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "refresh expired tokens")
	task, _ := e.CreateTask("fix-auth", "login token refresh", "")

	got, err := e.AutoAttach(rec.ID, []string{"auth"}, "token refresh loop")
	if err != nil {
		t.Fatalf("auto-attach: %v", err)
	}
	if got == nil || got.ID != task.ID {
		t.Fatal("expected attachment to fix-auth")
	}
	if !task.HasMember(rec.ID) {
		t.Error("expected memory in task member set")
	}
}

func TestAutoAttachBelowThreshold(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "tune database indexes")
	if _, err := e.CreateTask("fix-auth", "login token refresh", ""); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := e.AutoAttach(rec.ID, nil, "slow query on the orders table")
	if err != nil {
		t.Fatalf("auto-attach: %v", err)
	}
	if got != nil {
		t.Errorf("expected no attachment, got %q", got.Name)
	}
}

func TestAutoAttachTieGoesToOldest(t *testing.T) {
	e, s := newEngine(t)
	rec := addSolution(t, s, "auth fix")
	older, _ := e.CreateTask("auth-cleanup", "", "")
	if _, err := e.CreateTask("auth-rewrite", "", ""); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := e.AutoAttach(rec.ID, []string{"auth"}, "")
	if err != nil {
		t.Fatalf("auto-attach: %v", err)
	}
	if got == nil || got.ID != older.ID {
		t.Errorf("expected tie broken by creation order")
	}
}

func TestTopByGravity(t *testing.T) {
	e, s := newEngine(t)
	heavy := addSolution(t, s, "heavy memory")
	light := addSolution(t, s, "light memory")
	archived := addSolution(t, s, "archived memory")

	for i := 0; i < 4; i++ {
		if _, err := e.Reference(heavy.ID); err != nil {
			t.Fatalf("reference: %v", err)
		}
	}
	if _, err := e.Reference(light.ID); err != nil {
		t.Fatalf("reference: %v", err)
	}
	if _, err := e.Reference(archived.ID); err != nil {
		t.Fatalf("reference: %v", err)
	}
	if ok, err := s.Archive(archived.ID); err != nil || !ok {
		t.Fatalf("archive: ok=%v err=%v", ok, err)
	}

	top, err := e.TopByGravity(10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 ranked memories, got %d", len(top))
	}
	if top[0].Memory.Env().ID != heavy.ID {
		t.Error("expected the most referenced memory first")
	}
	if top[0].References != 4 {
		t.Errorf("expected 4 references, got %d", top[0].References)
	}

	limited, err := e.TopByGravity(1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected k to bound results, got %d", len(limited))
	}
}

func TestTaskMemoriesIncludeSubtasks(t *testing.T) {
	e, s := newEngine(t)
	parentRec := addSolution(t, s, "parent work")
	childRec := addSolution(t, s, "child work")

	parent, _ := e.CreateTask("release", "", "")
	child, err := e.CreateTask("release-docs", "", parent.ID)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if _, err := e.Attach(parentRec.ID, parent.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := e.Attach(childRec.ID, child.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	direct, err := e.TaskMemories(parent.ID, false)
	if err != nil {
		t.Fatalf("task memories: %v", err)
	}
	if len(direct) != 1 {
		t.Fatalf("expected 1 direct member, got %d", len(direct))
	}

	all, err := e.TaskMemories(parent.ID, true)
	if err != nil {
		t.Fatalf("task memories: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected members unioned with subtask, got %d", len(all))
	}
}
