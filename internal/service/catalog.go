package service

import (
	"sort"

	"course-advisor/internal/domain"
)

// Catalog is the immutable snapshot of questions and courses shared by every
// session. It is constructed once at startup and injected into the engine;
// after construction it is read-only and safe for concurrent use without
// locking. All trait tags are normalized exactly once here, so the rest of
// the engine compares canonical labels directly.
type Catalog struct {
	questions  []domain.Question
	questionBy map[string]int
	courses    []domain.Course
	normalizer *TraitNormalizer
}

// NewCatalog validates and freezes the loaded catalogs. Empty or malformed
// input is a ConfigurationError: the service must refuse to start rather
// than allow sessions that can never progress.
func NewCatalog(questions []domain.Question, courses []domain.Course, normalizer *TraitNormalizer) (*Catalog, error) {
	if normalizer == nil {
		normalizer = NewTraitNormalizer(nil)
	}
	if len(questions) == 0 {
		return nil, domain.NewConfigurationError("question catalog is empty")
	}
	if len(courses) == 0 {
		return nil, domain.NewConfigurationError("course catalog is empty")
	}

	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })

	byID := make(map[string]int, len(qs))
	for i := range qs {
		q := &qs[i]
		if q.ID == "" {
			return nil, domain.NewConfigurationError("question at index %d has no id", i)
		}
		if _, dup := byID[q.ID]; dup {
			return nil, domain.NewConfigurationError("duplicate question id %q", q.ID)
		}
		if len(q.Options) == 0 {
			return nil, domain.NewConfigurationError("question %q has no options", q.ID)
		}
		opts := make([]domain.Option, len(q.Options))
		copy(opts, q.Options)
		for j := range opts {
			opt := &opts[j]
			if opt.ID == "" {
				return nil, domain.NewConfigurationError("question %q option at index %d has no id", q.ID, j)
			}
			if opt.Weight <= 0 {
				opt.Weight = 1
			}
			opt.Traits = normalizer.NormalizeAll(opt.Traits)
			opt.ExtraTraits = normalizer.NormalizeAll(opt.ExtraTraits)
			if len(opt.Traits) == 0 && len(opt.ExtraTraits) == 0 {
				return nil, domain.NewConfigurationError("question %q option %q carries no traits", q.ID, opt.ID)
			}
		}
		q.Options = opts
		byID[q.ID] = i
	}

	cs := make([]domain.Course, len(courses))
	copy(cs, courses)
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
	seen := make(map[string]struct{}, len(cs))
	for i := range cs {
		c := &cs[i]
		if c.ID == "" {
			return nil, domain.NewConfigurationError("course at index %d has no id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, domain.NewConfigurationError("duplicate course id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		c.Traits = normalizer.NormalizeAll(c.Traits)
	}

	return &Catalog{
		questions:  qs,
		questionBy: byID,
		courses:    cs,
		normalizer: normalizer,
	}, nil
}

// Questions returns the full question pool in stable id order.
func (c *Catalog) Questions() []domain.Question { return c.questions }

// Question looks up one question by id.
func (c *Catalog) Question(id string) (domain.Question, bool) {
	i, ok := c.questionBy[id]
	if !ok {
		return domain.Question{}, false
	}
	return c.questions[i], true
}

// QuestionCount returns the pool size.
func (c *Catalog) QuestionCount() int { return len(c.questions) }

// Courses returns all candidate courses in stable id order.
func (c *Catalog) Courses() []domain.Course { return c.courses }

// Normalizer exposes the trait normalizer the catalog was built with.
func (c *Catalog) Normalizer() *TraitNormalizer { return c.normalizer }
