package store

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/memberberries/berry/internal/model"
	"github.com/memberberries/berry/internal/security"
)

// AddPinned stores a protected memory. Sensitive shapes in the content are
// reported as a warning but never block the write.
func (s *Store) AddPinned(name, content, category string, tags []string, sensitive bool) (*model.PinnedMemory, error) {
	if labels := security.DetectSensitive(content); len(labels) > 0 {
		log.Warn("pinned content looks sensitive", "name", name, "detected", strings.Join(labels, ", "))
		sensitive = true
	}
	rec := &model.PinnedMemory{
		ID:        s.newULID(),
		Name:      name,
		Content:   content,
		Category:  category,
		Tags:      tags,
		Sensitive: sensitive,
		Pinned:    true,
		CreatedAt: s.now().UTC(),
	}
	s.idx.Pinned = append(s.idx.Pinned, rec)
	if err := s.storage.Save(s.idx); err != nil {
		return nil, err
	}
	if err := s.storage.WriteMirror("pinned", rec.ID, rec, true); err != nil {
		log.Warn("mirror write failed", "kind", "pinned", "id", rec.ID, "err", err)
	}
	return rec, nil
}

// Unpin hard-deletes a pinned memory by exact id. This is the only operation
// that removes a record outright rather than archiving it.
func (s *Store) Unpin(id string) (bool, error) {
	for i, p := range s.idx.Pinned {
		if p.ID != id {
			continue
		}
		s.idx.Pinned = append(s.idx.Pinned[:i], s.idx.Pinned[i+1:]...)
		if err := s.storage.Save(s.idx); err != nil {
			return false, err
		}
		if err := s.storage.RemoveMirror("pinned", id); err != nil {
			log.Warn("mirror remove failed", "id", id, "err", err)
		}
		return true, nil
	}
	return false, nil
}

// Pins returns all pinned memories in insertion order.
func (s *Store) Pins() []*model.PinnedMemory { return s.idx.Pinned }

// AutoPinIfNeeded pins content that matches an auto-pin trigger (connection
// strings, hosts, endpoints). An existing pin of the same category already
// containing the matched text suppresses a duplicate. Returns nil when
// nothing was pinned.
func (s *Store) AutoPinIfNeeded(content, nameHint string) (*model.PinnedMemory, error) {
	pin := security.DetectAutoPin(content)
	if pin == nil {
		return nil, nil
	}
	for _, p := range s.idx.Pinned {
		if p.Category == pin.Category && strings.Contains(p.Content, pin.Matched) {
			return nil, nil
		}
	}
	name := pin.Description
	if nameHint != "" {
		name = nameHint + " (" + pin.Description + ")"
	}
	return s.AddPinned(name, content, pin.Category, nil, pin.Sensitive)
}
