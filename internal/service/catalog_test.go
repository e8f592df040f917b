package service

import (
	"errors"
	"testing"

	"course-advisor/internal/domain"
)

func testOption(id string, weight float64, traits ...string) domain.Option {
	return domain.Option{ID: id, Text: "option " + id, Traits: traits, Weight: weight}
}

func testQuestion(id, category string, options ...domain.Option) domain.Question {
	return domain.Question{ID: id, Category: category, Prompt: "prompt " + id, Options: options}
}

func testCourse(id, name string, minGrade float64, tracks []string, traits ...string) domain.Course {
	return domain.Course{ID: id, Name: name, MinGrade: minGrade, RecommendedTracks: tracks, Traits: traits}
}

func mustCatalog(t *testing.T, questions []domain.Question, courses []domain.Course) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(questions, courses, NewTraitNormalizer(nil))
	if err != nil {
		t.Fatalf("expected valid catalog, got %v", err)
	}
	return catalog
}

func TestNewCatalogRejectsEmptyPools(t *testing.T) {
	questions := []domain.Question{testQuestion("q1", "interests", testOption("o1", 1, "Analytical"))}
	courses := []domain.Course{testCourse("c1", "Computer Science", 85, nil, "Analytical")}

	var cfgErr *domain.ConfigurationError

	if _, err := NewCatalog(nil, courses, nil); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for empty questions, got %v", err)
	}
	if _, err := NewCatalog(questions, nil, nil); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for empty courses, got %v", err)
	}
}

func TestNewCatalogRejectsDuplicatesAndBadOptions(t *testing.T) {
	courses := []domain.Course{testCourse("c1", "Nursing", 80, nil, "Compassionate")}
	var cfgErr *domain.ConfigurationError

	dup := []domain.Question{
		testQuestion("q1", "interests", testOption("o1", 1, "Analytical")),
		testQuestion("q1", "interests", testOption("o2", 1, "Creative")),
	}
	if _, err := NewCatalog(dup, courses, nil); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for duplicate question id, got %v", err)
	}

	noOptions := []domain.Question{{ID: "q1", Category: "interests", Prompt: "p"}}
	if _, err := NewCatalog(noOptions, courses, nil); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for question without options, got %v", err)
	}

	noTraits := []domain.Question{testQuestion("q1", "interests", domain.Option{ID: "o1", Text: "t", Weight: 1})}
	if _, err := NewCatalog(noTraits, courses, nil); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for option without traits, got %v", err)
	}
}

func TestNewCatalogNormalizesTraitsOnce(t *testing.T) {
	questions := []domain.Question{testQuestion("q1", "interests", testOption("o1", 0, "Quantitative"))}
	courses := []domain.Course{testCourse("c1", "Data Science", 85, nil, "Data-driven")}

	catalog := mustCatalog(t, questions, courses)

	q, ok := catalog.Question("q1")
	if !ok {
		t.Fatal("expected q1 in catalog")
	}
	if got := q.Options[0].Traits[0]; got != "Analytical" {
		t.Fatalf("expected option trait normalized to Analytical, got %q", got)
	}
	if got := q.Options[0].Weight; got != 1 {
		t.Fatalf("expected default weight 1, got %v", got)
	}
	if got := catalog.Courses()[0].Traits[0]; got != "Analytical" {
		t.Fatalf("expected course trait normalized to Analytical, got %q", got)
	}
}

func TestCatalogStableOrdering(t *testing.T) {
	questions := []domain.Question{
		testQuestion("q3", "a", testOption("o1", 1, "X")),
		testQuestion("q1", "a", testOption("o1", 1, "Y")),
		testQuestion("q2", "a", testOption("o1", 1, "Z")),
	}
	courses := []domain.Course{
		testCourse("c2", "B", 0, nil, "Y"),
		testCourse("c1", "A", 0, nil, "X"),
	}

	catalog := mustCatalog(t, questions, courses)

	ids := []string{}
	for _, q := range catalog.Questions() {
		ids = append(ids, q.ID)
	}
	if ids[0] != "q1" || ids[1] != "q2" || ids[2] != "q3" {
		t.Fatalf("expected questions sorted by id, got %v", ids)
	}
	if catalog.Courses()[0].ID != "c1" {
		t.Fatalf("expected courses sorted by id, got %v", catalog.Courses()[0].ID)
	}
}
