package service

import (
	"testing"

	"course-advisor/internal/domain"
)

func selectorFixture(t *testing.T) (*Catalog, *AdaptiveSelector) {
	t.Helper()
	questions := []domain.Question{
		testQuestion("q1", "logic", testOption("o1", 1, "Analytical")),
		testQuestion("q2", "arts", testOption("o1", 1, "Creative")),
		testQuestion("q3", "people", testOption("o1", 1, "Social")),
	}
	courses := []domain.Course{testCourse("c1", "Any", 0, nil, "Analytical")}
	catalog := mustCatalog(t, questions, courses)
	return catalog, NewAdaptiveSelector(catalog)
}

func TestNextQuestionPrefersLeastCoveredTraits(t *testing.T) {
	_, selector := selectorFixture(t)

	session := &domain.Session{
		MaxQuestions: 3,
		TraitScores:  map[string]float64{"Analytical": 5, "Creative": 2},
	}

	// Social has no accumulated score yet, so q3 is the most informative.
	next := selector.NextQuestion(session)
	if next == nil || next.ID != "q3" {
		t.Fatalf("expected q3, got %+v", next)
	}
}

func TestNextQuestionTieBreaksByID(t *testing.T) {
	_, selector := selectorFixture(t)

	// Equal (zero) coverage everywhere: the lowest question id wins.
	session := &domain.Session{MaxQuestions: 3, TraitScores: map[string]float64{}}
	next := selector.NextQuestion(session)
	if next == nil || next.ID != "q1" {
		t.Fatalf("expected q1 on tie, got %+v", next)
	}
}

func TestNextQuestionSkipsAskedAndExhausts(t *testing.T) {
	_, selector := selectorFixture(t)

	session := &domain.Session{
		MaxQuestions:     3,
		AskedQuestionIDs: []string{"q1", "q2"},
		TraitScores:      map[string]float64{},
	}
	next := selector.NextQuestion(session)
	if next == nil || next.ID != "q3" {
		t.Fatalf("expected q3 as only remaining question, got %+v", next)
	}

	session.AskedQuestionIDs = append(session.AskedQuestionIDs, "q3")
	if got := selector.NextQuestion(session); got != nil {
		t.Fatalf("expected nil on exhausted pool, got %+v", got)
	}
}

func TestNextQuestionDeterministic(t *testing.T) {
	_, selector := selectorFixture(t)

	session := &domain.Session{
		MaxQuestions: 3,
		TraitScores:  map[string]float64{"Creative": 1, "Social": 1},
	}
	first := selector.NextQuestion(session)
	for i := 0; i < 50; i++ {
		again := selector.NextQuestion(session)
		if again == nil || again.ID != first.ID {
			t.Fatalf("expected stable selection %q, got %+v", first.ID, again)
		}
	}
}
