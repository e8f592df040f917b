package domain

import "time"

// CourseMatch is one ranked recommendation. Score is a percentage in [0,100].
type CourseMatch struct {
	CourseID      string   `json:"course_id"`
	CourseName    string   `json:"course_name"`
	Score         float64  `json:"score"`
	MatchedTraits []string `json:"matched_traits"`
}

// RecommendationResult is the plain result value the core exposes; a
// collaborator persists it. Confidence is 0-100. TraitsDiscovered counts
// distinct traits that received nonzero weight.
type RecommendationResult struct {
	Matches          []CourseMatch `json:"matches"`
	Confidence       float64       `json:"confidence"`
	TraitsDiscovered int           `json:"traits_discovered"`
	AnsweredCount    int           `json:"answered_count"`
	GeneratedAt      time.Time     `json:"generated_at"`
}

// AttemptRecord is the row handed to the persistence sink once a session
// completes: final results plus session metadata.
type AttemptRecord struct {
	ID            string               `json:"id"`
	SessionID     string               `json:"session_id"`
	UserID        string               `json:"user_id,omitempty"`
	AnsweredCount int                  `json:"answered_count"`
	MaxQuestions  int                  `json:"max_questions"`
	Confidence    float64              `json:"confidence"`
	TopCourseID   string               `json:"top_course_id,omitempty"`
	Results       RecommendationResult `json:"results"`
	CreatedAt     time.Time            `json:"created_at"`
}
