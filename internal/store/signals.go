package store

import (
	"strings"

	"github.com/memberberries/berry/internal/model"
)

// LearnSignal bumps the weight of a user-specific signal word. The change is
// in-memory only; callers batch signal updates and Persist once.
func (s *Store) LearnSignal(word, kind string, weight int) {
	word = strings.ToLower(word)
	sig, ok := s.idx.Signals[word]
	if !ok {
		sig = &model.LearnedSignal{Kind: kind}
		s.idx.Signals[word] = sig
	}
	sig.Weight += weight
	sig.LastSeen = s.now().UTC()
}

// SignalScore returns the accumulated boost for a signal word, zero when the
// word has never been learned. Words that led to memories actually being
// used again count double.
func (s *Store) SignalScore(word string) int {
	sig, ok := s.idx.Signals[strings.ToLower(word)]
	if !ok {
		return 0
	}
	return sig.Weight + 2*sig.Effective
}

// RecordEffectiveSignal marks a signal word as having produced a memory that
// was later referenced, reinforcing it for future extraction.
func (s *Store) RecordEffectiveSignal(word string) {
	word = strings.ToLower(word)
	sig, ok := s.idx.Signals[word]
	if !ok {
		sig = &model.LearnedSignal{Kind: "effective"}
		s.idx.Signals[word] = sig
	}
	sig.Effective++
	sig.LastSeen = s.now().UTC()
}
