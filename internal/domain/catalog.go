package domain

// Question is an immutable catalog entry. Loaded once at startup, never
// mutated during a session.
type Question struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Prompt   string   `json:"prompt"`
	Options  []Option `json:"options"`
}

// OptionByID returns the option with the given id, if it belongs to the question.
func (q Question) OptionByID(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Option belongs to exactly one Question. Traits carry the canonical labels
// awarded when the option is chosen; Weight defaults to 1 at catalog load.
// ExtraTraits and RecommendedCourseIDs are type-specific payload for
// specialized question types.
type Option struct {
	ID                   string   `json:"id"`
	Text                 string   `json:"text"`
	Traits               []string `json:"traits"`
	Weight               float64  `json:"weight"`
	ExtraTraits          []string `json:"extra_traits,omitempty"`
	RecommendedCourseIDs []string `json:"recommended_course_ids,omitempty"`
}

// Course is an immutable catalog entry. Traits is a list, not a set: the
// order may matter for display but carries no scoring weight.
type Course struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	MinGrade          float64  `json:"min_grade"`
	RecommendedTracks []string `json:"recommended_tracks"`
	Traits            []string `json:"traits"`
}

// AcademicRecord is the optional academic context used by the scoring engine.
// Supplied by an external lookup; absent records simply skip the academic and
// track scoring components.
type AcademicRecord struct {
	UserID  string  `json:"user_id"`
	Average float64 `json:"average"`
	Track   string  `json:"track"`
}
