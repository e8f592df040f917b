package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-advisor/internal/domain"
	"course-advisor/internal/repository"
)

// AssessmentService drives the adaptive assessment flow: session lifecycle,
// answer accumulation, next-question selection, completion and ranking.
type AssessmentService struct {
	catalog   *Catalog
	store     SessionStore
	selector  *AdaptiveSelector
	scorer    *ScoringEngine
	policy    TerminationPolicy
	attempts  repository.AttemptRepository
	academics repository.AcademicRepository
	logger    *zap.Logger

	// Per-session-id mutexes. Correct clients never race on a session id,
	// but duplicate network retries can; mutation must still serialize.
	locks sync.Map
}

func NewAssessmentService(
	catalog *Catalog,
	store SessionStore,
	scorer *ScoringEngine,
	attempts repository.AttemptRepository,
	academics repository.AcademicRepository,
	logger *zap.Logger,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		catalog:   catalog,
		store:     store,
		selector:  NewAdaptiveSelector(catalog),
		scorer:    scorer,
		attempts:  attempts,
		academics: academics,
		logger:    logger,
	}
}

// StartResult is the response of StartSession.
type StartResult struct {
	SessionID     string          `json:"session_id"`
	FirstQuestion domain.Question `json:"first_question"`
	MaxQuestions  int             `json:"max_questions"`
}

// AnswerResult is the response of Answer: either the next question or the
// final results once the session completes.
type AnswerResult struct {
	Complete     bool                         `json:"complete"`
	NextQuestion *domain.Question             `json:"next_question,omitempty"`
	Results      *domain.RecommendationResult `json:"results,omitempty"`
}

// StartSession creates a session and returns the first question. userID may
// be empty (anonymous attempts are allowed).
func (s *AssessmentService) StartSession(ctx context.Context, userID string, maxQuestions int) (StartResult, error) {
	if maxQuestions <= 0 {
		return StartResult{}, domain.NewValidationError("max_questions must be positive, got %d", maxQuestions)
	}
	if pool := s.catalog.QuestionCount(); maxQuestions > pool {
		return StartResult{}, domain.NewValidationError("max_questions %d exceeds catalog size %d", maxQuestions, pool)
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		MaxQuestions: maxQuestions,
		TraitScores:  make(map[string]float64),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The catalog guarantees a non-empty pool, so a first question always exists.
	first := s.selector.NextQuestion(&session)
	if first == nil {
		return StartResult{}, domain.NewConfigurationError("question pool is empty")
	}

	if err := s.store.Put(ctx, session); err != nil {
		return StartResult{}, err
	}

	s.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.Int("max_questions", maxQuestions),
	)
	return StartResult{
		SessionID:     session.ID,
		FirstQuestion: *first,
		MaxQuestions:  maxQuestions,
	}, nil
}

// Answer records one chosen option. It validates fully before mutating, so a
// rejected call leaves trait scores untouched. On success it returns either
// the next question or, once the termination policy fires or the pool runs
// dry, the final ranked results.
func (s *AssessmentService) Answer(ctx context.Context, sessionID, questionID, optionID string) (AnswerResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return AnswerResult{}, err
	}
	if !ok {
		return AnswerResult{}, domain.NewNotFoundError("session %s not found", sessionID)
	}
	if session.Complete {
		return AnswerResult{}, domain.NewConflictError("session %s is already complete", sessionID)
	}

	question, ok := s.catalog.Question(questionID)
	if !ok {
		return AnswerResult{}, domain.NewNotFoundError("question %s not found", questionID)
	}
	if session.Asked(questionID) {
		return AnswerResult{}, domain.NewConflictError("question %s was already answered in this session", questionID)
	}
	option, ok := question.OptionByID(optionID)
	if !ok {
		return AnswerResult{}, domain.NewNotFoundError("option %s does not belong to question %s", optionID, questionID)
	}

	traits := make([]string, 0, len(option.Traits)+len(option.ExtraTraits))
	traits = append(traits, option.Traits...)
	traits = append(traits, option.ExtraTraits...)
	session.AddAnswer(questionID, traits, option.Weight)

	if s.policy.ShouldStop(&session, s.catalog.QuestionCount()) {
		results, err := s.complete(ctx, &session)
		if err != nil {
			return AnswerResult{}, err
		}
		return AnswerResult{Complete: true, Results: results}, nil
	}

	next := s.selector.NextQuestion(&session)
	if next == nil {
		// Pool exhausted before the budget: complete anyway.
		results, err := s.complete(ctx, &session)
		if err != nil {
			return AnswerResult{}, err
		}
		return AnswerResult{Complete: true, Results: results}, nil
	}

	if err := s.store.Put(ctx, session); err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{NextQuestion: next}, nil
}

// FinishEarly ends the session before the budget is reached, provided at
// least half of it was answered.
func (s *AssessmentService) FinishEarly(ctx context.Context, sessionID string) (*domain.RecommendationResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFoundError("session %s not found", sessionID)
	}
	if session.Complete {
		return session.Results, nil
	}
	if err := s.policy.ValidateEarlyFinish(&session); err != nil {
		return nil, err
	}
	return s.complete(ctx, &session)
}

// Results returns the final recommendations of a completed session.
func (s *AssessmentService) Results(ctx context.Context, sessionID string) (*domain.RecommendationResult, error) {
	session, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFoundError("session %s not found", sessionID)
	}
	if !session.Complete || session.Results == nil {
		return nil, domain.NewConflictError("session %s is not complete yet", sessionID)
	}
	return session.Results, nil
}

// IsTerminal reports whether the session can receive another question.
func (s *AssessmentService) IsTerminal(ctx context.Context, sessionID string) (bool, error) {
	session, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, domain.NewNotFoundError("session %s not found", sessionID)
	}
	if session.Complete {
		return true, nil
	}
	return s.policy.ShouldStop(&session, s.catalog.QuestionCount()), nil
}

// complete ranks courses, attaches confidence, stores the completed session
// (the idle TTL evicts it later) and hands the attempt to the persistence
// sink. Persistence failures are logged, not surfaced: the caller still gets
// their results.
func (s *AssessmentService) complete(ctx context.Context, session *domain.Session) (*domain.RecommendationResult, error) {
	academic := s.lookupAcademic(ctx, session.UserID)

	matches := s.scorer.ScoreCourses(session.TraitScores, academic)
	confidence := s.scorer.Confidence(matches, session.AnsweredCount, session.MaxQuestions)

	discovered := 0
	for _, score := range session.TraitScores {
		if score > 0 {
			discovered++
		}
	}

	results := &domain.RecommendationResult{
		Matches:          matches,
		Confidence:       confidence,
		TraitsDiscovered: discovered,
		AnsweredCount:    session.AnsweredCount,
		GeneratedAt:      time.Now().UTC(),
	}
	session.Complete = true
	session.Results = results
	session.UpdatedAt = results.GeneratedAt

	if err := s.store.Put(ctx, *session); err != nil {
		return nil, err
	}
	s.locks.Delete(session.ID)

	if s.attempts != nil {
		attempt := domain.AttemptRecord{
			ID:            uuid.NewString(),
			SessionID:     session.ID,
			UserID:        session.UserID,
			AnsweredCount: session.AnsweredCount,
			MaxQuestions:  session.MaxQuestions,
			Confidence:    confidence,
			Results:       *results,
			CreatedAt:     results.GeneratedAt,
		}
		if len(matches) > 0 {
			attempt.TopCourseID = matches[0].CourseID
		}
		if err := s.attempts.Create(ctx, attempt); err != nil {
			s.logger.Warn("attempt persistence failed",
				zap.Error(err),
				zap.String("session_id", session.ID),
			)
		}
	}

	s.logger.Info("session completed",
		zap.String("session_id", session.ID),
		zap.Int("answered", session.AnsweredCount),
		zap.Float64("confidence", confidence),
	)
	return results, nil
}

func (s *AssessmentService) lookupAcademic(ctx context.Context, userID string) *domain.AcademicRecord {
	if s.academics == nil || userID == "" {
		return nil
	}
	record, err := s.academics.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("academic lookup failed", zap.Error(err), zap.String("user_id", userID))
		return nil
	}
	return record
}

func (s *AssessmentService) lockSession(id string) func() {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
