package store

import (
	"sort"

	"github.com/memberberries/berry/internal/embedding"
	"github.com/memberberries/berry/internal/model"
)

// DefaultTopK bounds search results when the caller does not say otherwise.
const DefaultTopK = 3

// searchKind ranks one kind's records against a query by cosine similarity.
// Archived records are excluded. The sort is stable, so equal similarities
// (including the all-zero scores of an empty query) keep insertion order.
func searchKind[T model.Memory](items []T, query string, topK int) []T {
	if topK <= 0 {
		topK = DefaultTopK
	}
	q := embedding.Embed(query)

	type scored struct {
		item T
		sim  float64
	}
	cands := make([]scored, 0, len(items))
	for _, it := range items {
		if it.Env().Archived {
			continue
		}
		cands = append(cands, scored{it, embedding.Cosine(q, it.Env().Embedding)})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].sim > cands[j].sim })
	if len(cands) > topK {
		cands = cands[:topK]
	}
	out := make([]T, len(cands))
	for i, c := range cands {
		out[i] = c.item
	}
	return out
}

// SearchSolutions returns the topK solutions most similar to the query.
func (s *Store) SearchSolutions(query string, topK int) []*model.Solution {
	return searchKind(s.idx.Solutions, query, topK)
}

// SearchErrors returns the topK error patterns most similar to the query.
func (s *Store) SearchErrors(query string, topK int) []*model.ErrorPattern {
	return searchKind(s.idx.Errors, query, topK)
}

// SearchAntipatterns returns the topK antipatterns most similar to the query.
func (s *Store) SearchAntipatterns(query string, topK int) []*model.Antipattern {
	return searchKind(s.idx.Antipatterns, query, topK)
}

// SearchPreferences returns the topK preferences most similar to the query.
func (s *Store) SearchPreferences(query string, topK int) []*model.Preference {
	return searchKind(s.idx.Preferences, query, topK)
}

// SearchGitConventions returns the topK conventions most similar to the query.
func (s *Store) SearchGitConventions(query string, topK int) []*model.GitConvention {
	return searchKind(s.idx.GitConventions, query, topK)
}

// SearchDependencies returns the topK dependencies most similar to the query.
func (s *Store) SearchDependencies(query string, topK int) []*model.Dependency {
	return searchKind(s.idx.Dependencies, query, topK)
}

// SearchTesting returns the topK testing patterns most similar to the query.
func (s *Store) SearchTesting(query string, topK int) []*model.TestingPattern {
	return searchKind(s.idx.Testing, query, topK)
}

// SearchEnvironment returns the topK environment notes most similar to the
// query.
func (s *Store) SearchEnvironment(query string, topK int) []*model.EnvironmentNote {
	return searchKind(s.idx.Environment, query, topK)
}

// SearchAPINotes returns the topK API notes most similar to the query.
func (s *Store) SearchAPINotes(query string, topK int) []*model.APINote {
	return searchKind(s.idx.APINotes, query, topK)
}

// SearchAll ranks every kind together and returns the topK overall.
func (s *Store) SearchAll(query string, topK int) []model.Memory {
	return searchKind(s.idx.Memories(), query, topK)
}
