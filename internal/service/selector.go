package service

import (
	"course-advisor/internal/domain"
)

// AdaptiveSelector picks the next most informative question for a session.
// The strategy prefers questions whose traits have the lowest cumulative
// accumulated score so far: early on that diversifies category coverage,
// later it refines among traits that are already leading.
type AdaptiveSelector struct {
	catalog *Catalog
}

func NewAdaptiveSelector(catalog *Catalog) *AdaptiveSelector {
	return &AdaptiveSelector{catalog: catalog}
}

// NextQuestion returns the unanswered question with the least-represented
// traits, or nil when the pool is exhausted. Ties break by ascending question
// id, which the catalog's stable ordering gives for free, so the choice is
// reproducible for equal accumulator state. Callers must consult the
// termination policy first; pool exhaustion and early stop are distinct
// conditions.
func (s *AdaptiveSelector) NextQuestion(session *domain.Session) *domain.Question {
	var best *domain.Question
	bestCoverage := 0.0
	for i := range s.catalog.questions {
		q := &s.catalog.questions[i]
		if session.Asked(q.ID) {
			continue
		}
		coverage := s.traitCoverage(q, session.TraitScores)
		if best == nil || coverage < bestCoverage {
			best = q
			bestCoverage = coverage
		}
	}
	if best == nil {
		return nil
	}
	q := *best
	return &q
}

// traitCoverage sums the accumulated score of every distinct trait the
// question's options can award.
func (s *AdaptiveSelector) traitCoverage(q *domain.Question, scores map[string]float64) float64 {
	total := 0.0
	seen := make(map[string]struct{})
	for _, opt := range q.Options {
		for _, trait := range opt.Traits {
			if _, ok := seen[trait]; ok {
				continue
			}
			seen[trait] = struct{}{}
			total += scores[trait]
		}
		for _, trait := range opt.ExtraTraits {
			if _, ok := seen[trait]; ok {
				continue
			}
			seen[trait] = struct{}{}
			total += scores[trait]
		}
	}
	return total
}
