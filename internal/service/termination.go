package service

import (
	"course-advisor/internal/domain"
)

// TerminationPolicy decides when a session stops asking questions.
type TerminationPolicy struct{}

// MinimumRequired is the floor for early finishes: ceil(0.5 * maxQuestions).
// Ending below it would leave too little signal for a trustworthy ranking.
func MinimumRequired(maxQuestions int) int {
	return (maxQuestions + 1) / 2
}

// ShouldStop reports whether the session must not receive another question:
// budget exhausted, or no unanswered questions remain in the pool.
func (TerminationPolicy) ShouldStop(session *domain.Session, poolSize int) bool {
	if session.AnsweredCount >= session.MaxQuestions {
		return true
	}
	return session.AnsweredCount >= poolSize
}

// ValidateEarlyFinish rejects early-finish requests below the minimum with a
// ValidationError naming the shortfall; it is never silently ignored.
func (TerminationPolicy) ValidateEarlyFinish(session *domain.Session) error {
	min := MinimumRequired(session.MaxQuestions)
	if session.AnsweredCount >= min {
		return nil
	}
	missing := min - session.AnsweredCount
	plural := ""
	if missing != 1 {
		plural = "s"
	}
	return domain.NewValidationError("need %d more answer%s before finishing early", missing, plural)
}
