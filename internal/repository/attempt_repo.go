package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"course-advisor/internal/domain"
)

// AttemptRepository is the persistence sink for completed assessments. One
// source-of-truth table; per-user views are a query concern, not a second
// table to keep in sync.
type AttemptRepository interface {
	Create(ctx context.Context, attempt domain.AttemptRecord) error
}

type PgAttemptRepository struct {
	pool *pgxpool.Pool
}

func NewPgAttemptRepository(pool *pgxpool.Pool) *PgAttemptRepository {
	return &PgAttemptRepository{pool: pool}
}

func (r *PgAttemptRepository) Create(ctx context.Context, attempt domain.AttemptRecord) error {
	const query = `
		INSERT INTO assessment_attempts
			(id, session_id, user_id, answered_count, max_questions, confidence, top_course_id, results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	results, err := json.Marshal(attempt.Results)
	if err != nil {
		return err
	}

	var userID interface{}
	if attempt.UserID != "" {
		userID = attempt.UserID
	}

	_, err = r.pool.Exec(ctx, query,
		attempt.ID,
		attempt.SessionID,
		userID,
		attempt.AnsweredCount,
		attempt.MaxQuestions,
		attempt.Confidence,
		attempt.TopCourseID,
		results,
		attempt.CreatedAt,
	)
	return err
}
