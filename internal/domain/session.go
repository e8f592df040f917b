package domain

import "time"

// Session is one in-progress or completed assessment attempt. It is owned
// exclusively by the assessment flow; the service serializes access per
// session id, so the struct itself carries no locking.
type Session struct {
	ID               string                `json:"id"`
	UserID           string                `json:"user_id,omitempty"`
	MaxQuestions     int                   `json:"max_questions"`
	AskedQuestionIDs []string              `json:"asked_question_ids"`
	TraitScores      map[string]float64    `json:"trait_scores"`
	AnsweredCount    int                   `json:"answered_count"`
	Complete         bool                  `json:"complete"`
	Results          *RecommendationResult `json:"results,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// Asked reports whether the question was already presented in this session.
func (s *Session) Asked(questionID string) bool {
	for _, id := range s.AskedQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// AddAnswer accumulates the trait weights of a chosen option and marks the
// question as asked. Callers must validate first; this never fails.
func (s *Session) AddAnswer(questionID string, traits []string, weight float64) {
	if s.TraitScores == nil {
		s.TraitScores = make(map[string]float64)
	}
	for _, trait := range traits {
		s.TraitScores[trait] += weight
	}
	s.AskedQuestionIDs = append(s.AskedQuestionIDs, questionID)
	s.AnsweredCount++
	s.UpdatedAt = time.Now().UTC()
}

// CloneSession returns a deep copy so stored sessions never share maps or
// slices with callers.
func CloneSession(s Session) Session {
	out := s
	out.AskedQuestionIDs = append([]string(nil), s.AskedQuestionIDs...)
	if s.TraitScores != nil {
		out.TraitScores = make(map[string]float64, len(s.TraitScores))
		for k, v := range s.TraitScores {
			out.TraitScores[k] = v
		}
	}
	if s.Results != nil {
		res := *s.Results
		res.Matches = append([]CourseMatch(nil), s.Results.Matches...)
		out.Results = &res
	}
	return out
}
