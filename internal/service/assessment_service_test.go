package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"course-advisor/internal/domain"
)

type mockAttemptRepo struct {
	attempts []domain.AttemptRecord
	err      error
}

func (m *mockAttemptRepo) Create(_ context.Context, attempt domain.AttemptRecord) error {
	if m.err != nil {
		return m.err
	}
	m.attempts = append(m.attempts, attempt)
	return nil
}

type mockAcademicRepo struct {
	records map[string]*domain.AcademicRecord
	err     error
}

func (m *mockAcademicRepo) GetByUserID(_ context.Context, userID string) (*domain.AcademicRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records[userID], nil
}

func assessmentFixture(t *testing.T, questionCount int) (*AssessmentService, *mockAttemptRepo) {
	t.Helper()

	var questions []domain.Question
	traits := []string{"Analytical", "Creative", "Social", "Practical", "Technical", "Leadership"}
	for i := 0; i < questionCount; i++ {
		id := string(rune('a' + i))
		questions = append(questions, testQuestion(
			"q-"+id, "general",
			testOption("opt-1", 1, traits[i%len(traits)]),
			testOption("opt-2", 2, traits[(i+1)%len(traits)]),
		))
	}
	courses := []domain.Course{
		testCourse("c1", "Computer Science", 85, []string{"STEM"}, "Analytical", "Technical"),
		testCourse("c2", "Fine Arts", 75, []string{"HUMSS"}, "Creative"),
		testCourse("c3", "Business Administration", 78, []string{"ABM"}, "Leadership", "Social"),
		testCourse("c4", "Social Work", 75, []string{"HUMSS"}, "Social", "Compassionate"),
	}
	catalog := mustCatalog(t, questions, courses)
	attempts := &mockAttemptRepo{}
	academics := &mockAcademicRepo{records: map[string]*domain.AcademicRecord{
		"user-1": {UserID: "user-1", Average: 90, Track: "STEM"},
	}}

	scorer := NewScoringEngine(catalog, DefaultScoringConfig())
	store := NewMemorySessionStore(time.Minute)
	svc := NewAssessmentService(catalog, store, scorer, attempts, academics, zap.NewNop())
	return svc, attempts
}

func TestStartSessionValidatesBudget(t *testing.T) {
	svc, _ := assessmentFixture(t, 6)
	ctx := context.Background()

	var validationErr *domain.ValidationError
	if _, err := svc.StartSession(ctx, "", 0); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for zero budget, got %v", err)
	}
	if _, err := svc.StartSession(ctx, "", -3); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for negative budget, got %v", err)
	}
	if _, err := svc.StartSession(ctx, "", 7); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError when budget exceeds catalog, got %v", err)
	}

	start, err := svc.StartSession(ctx, "", 4)
	if err != nil {
		t.Fatalf("expected session, got %v", err)
	}
	if start.SessionID == "" || start.FirstQuestion.ID == "" {
		t.Fatalf("expected session id and first question, got %+v", start)
	}
}

func TestAnswerFlowCompletesAtBudget(t *testing.T) {
	svc, attempts := assessmentFixture(t, 6)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, "user-1", 3)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	question := start.FirstQuestion
	var result AnswerResult
	for i := 0; i < 3; i++ {
		result, err = svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID)
		if err != nil {
			t.Fatalf("answer %d failed: %v", i+1, err)
		}
		if result.Complete {
			break
		}
		question = *result.NextQuestion
	}

	if !result.Complete {
		t.Fatal("expected completion at budget")
	}
	if result.Results == nil || len(result.Results.Matches) != 4 {
		t.Fatalf("expected ranked results for all courses, got %+v", result.Results)
	}
	if result.Results.Confidence < 0 || result.Results.Confidence > 100 {
		t.Fatalf("confidence out of range: %v", result.Results.Confidence)
	}
	if result.Results.AnsweredCount != 3 {
		t.Fatalf("expected 3 answers recorded, got %d", result.Results.AnsweredCount)
	}

	if len(attempts.attempts) != 1 {
		t.Fatalf("expected one persisted attempt, got %d", len(attempts.attempts))
	}
	if attempts.attempts[0].UserID != "user-1" || attempts.attempts[0].TopCourseID == "" {
		t.Fatalf("expected attempt metadata, got %+v", attempts.attempts[0])
	}
}

func TestAnswerRejectsUnknownIDs(t *testing.T) {
	svc, _ := assessmentFixture(t, 6)
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 4)
	question := start.FirstQuestion

	var notFoundErr *domain.NotFoundError
	if _, err := svc.Answer(ctx, "no-such-session", question.ID, question.Options[0].ID); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for unknown session, got %v", err)
	}
	if _, err := svc.Answer(ctx, start.SessionID, "no-such-question", question.Options[0].ID); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for unknown question, got %v", err)
	}
	if _, err := svc.Answer(ctx, start.SessionID, question.ID, "no-such-option"); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for mismatched option, got %v", err)
	}
}

func TestAnswerDuplicateIsConflictAndLeavesStateUntouched(t *testing.T) {
	svc, _ := assessmentFixture(t, 6)
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 4)
	question := start.FirstQuestion

	if _, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID); err != nil {
		t.Fatalf("first answer failed: %v", err)
	}

	before, ok, _ := svc.store.Get(ctx, start.SessionID)
	if !ok {
		t.Fatal("expected session in store")
	}

	var conflictErr *domain.ConflictError
	if _, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID); !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError on duplicate answer, got %v", err)
	}

	after, _, _ := svc.store.Get(ctx, start.SessionID)
	if !reflect.DeepEqual(before.TraitScores, after.TraitScores) {
		t.Fatalf("expected trait scores unchanged, got %v then %v", before.TraitScores, after.TraitScores)
	}
	if after.AnsweredCount != before.AnsweredCount {
		t.Fatalf("expected answered count unchanged, got %d then %d", before.AnsweredCount, after.AnsweredCount)
	}
}

func TestAnswerNeverRepeatsQuestionsAndRespectsBudget(t *testing.T) {
	svc, _ := assessmentFixture(t, 6)
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 5)
	question := start.FirstQuestion
	seen := map[string]bool{}

	for {
		if seen[question.ID] {
			t.Fatalf("question %s presented twice", question.ID)
		}
		seen[question.ID] = true

		result, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[1].ID)
		if err != nil {
			t.Fatalf("answer failed: %v", err)
		}
		if result.Complete {
			if result.Results.AnsweredCount > 5 {
				t.Fatalf("answered count %d exceeds budget", result.Results.AnsweredCount)
			}
			return
		}
		question = *result.NextQuestion
	}
}

func TestTraitScoresOnlyIncrease(t *testing.T) {
	svc, _ := assessmentFixture(t, 6)
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 5)
	question := start.FirstQuestion
	previous := map[string]float64{}

	for {
		result, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID)
		if err != nil {
			t.Fatalf("answer failed: %v", err)
		}

		session, ok, _ := svc.store.Get(ctx, start.SessionID)
		if ok {
			for trait, score := range previous {
				if session.TraitScores[trait] < score {
					t.Fatalf("trait %s decreased from %v to %v", trait, score, session.TraitScores[trait])
				}
			}
			for trait, score := range session.TraitScores {
				if score < 0 {
					t.Fatalf("trait %s went negative: %v", trait, score)
				}
				previous[trait] = score
			}
		}

		if result.Complete {
			return
		}
		question = *result.NextQuestion
	}
}

func TestFinishEarlyBoundary(t *testing.T) {
	// Budget 8 over an 8-question pool: the early-finish minimum is 4.
	svc, _ := assessmentFixture(t, 8)
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 8)
	question := start.FirstQuestion

	// Answer 3 of minimum 4, then try to finish.
	for i := 0; i < 3; i++ {
		result, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID)
		if err != nil {
			t.Fatalf("answer failed: %v", err)
		}
		question = *result.NextQuestion
	}

	var validationErr *domain.ValidationError
	_, err := svc.FinishEarly(ctx, start.SessionID)
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError below minimum, got %v", err)
	}
	if !strings.Contains(validationErr.Message, "need 1 more answer") {
		t.Fatalf("expected shortfall named, got %q", validationErr.Message)
	}

	// One more answer reaches the minimum; finishing now succeeds.
	if _, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	results, err := svc.FinishEarly(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("expected finish at minimum, got %v", err)
	}
	if results.AnsweredCount != 4 {
		t.Fatalf("expected 4 answers, got %d", results.AnsweredCount)
	}

	// Finishing a finished session just returns the same results.
	again, err := svc.FinishEarly(ctx, start.SessionID)
	if err != nil {
		t.Fatalf("expected idempotent finish, got %v", err)
	}
	if again.GeneratedAt != results.GeneratedAt {
		t.Fatal("expected stored results returned unchanged")
	}
}

func TestPoolExhaustionCompletesSession(t *testing.T) {
	// Budget equal to the whole pool: the session completes exactly when the
	// last question is answered, with no repeat and no dangling state.
	svc, _ := assessmentFixture(t, 4)
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 4)
	question := start.FirstQuestion

	var result AnswerResult
	var err error
	answered := 0
	for {
		result, err = svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID)
		if err != nil {
			t.Fatalf("answer failed: %v", err)
		}
		answered++
		if result.Complete {
			break
		}
		question = *result.NextQuestion
	}

	if answered != 4 {
		t.Fatalf("expected completion after pool exhaustion at 4 answers, got %d", answered)
	}
	terminal, err := svc.IsTerminal(ctx, start.SessionID)
	if err != nil || !terminal {
		t.Fatalf("expected terminal session, got terminal=%v err=%v", terminal, err)
	}
}

func TestDeterministicRunsProduceIdenticalResults(t *testing.T) {
	run := func() *domain.RecommendationResult {
		svc, _ := assessmentFixture(t, 6)
		ctx := context.Background()

		start, err := svc.StartSession(ctx, "user-1", 4)
		if err != nil {
			t.Fatalf("start failed: %v", err)
		}
		question := start.FirstQuestion
		for {
			result, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID)
			if err != nil {
				t.Fatalf("answer failed: %v", err)
			}
			if result.Complete {
				return result.Results
			}
			question = *result.NextQuestion
		}
	}

	first := run()
	second := run()

	if !reflect.DeepEqual(first.Matches, second.Matches) {
		t.Fatalf("expected identical rankings, got %v vs %v", first.Matches, second.Matches)
	}
	if first.Confidence != second.Confidence {
		t.Fatalf("expected identical confidence, got %v vs %v", first.Confidence, second.Confidence)
	}
	if first.TraitsDiscovered != second.TraitsDiscovered {
		t.Fatalf("expected identical trait counts, got %d vs %d", first.TraitsDiscovered, second.TraitsDiscovered)
	}
}

func TestResultsRequiresCompletion(t *testing.T) {
	svc, _ := assessmentFixture(t, 6)
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 4)

	var conflictErr *domain.ConflictError
	if _, err := svc.Results(ctx, start.SessionID); !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError for incomplete session, got %v", err)
	}

	var notFoundErr *domain.NotFoundError
	if _, err := svc.Results(ctx, "missing"); !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for unknown session, got %v", err)
	}
}

func TestAttemptPersistenceFailureDoesNotBlockResults(t *testing.T) {
	svc, attempts := assessmentFixture(t, 6)
	attempts.err = errors.New("sink unavailable")
	ctx := context.Background()

	start, _ := svc.StartSession(ctx, "", 4)
	question := start.FirstQuestion
	for {
		result, err := svc.Answer(ctx, start.SessionID, question.ID, question.Options[0].ID)
		if err != nil {
			t.Fatalf("answer failed: %v", err)
		}
		if result.Complete {
			if result.Results == nil {
				t.Fatal("expected results despite persistence failure")
			}
			return
		}
		question = *result.NextQuestion
	}
}
