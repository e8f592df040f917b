package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"course-advisor/internal/domain"
)

// AcademicRepository looks up the academic context used by the scorer.
// A missing record is not an error: scoring simply skips the academic and
// track components.
type AcademicRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.AcademicRecord, error)
}

type PgAcademicRepository struct {
	pool *pgxpool.Pool
}

func NewPgAcademicRepository(pool *pgxpool.Pool) *PgAcademicRepository {
	return &PgAcademicRepository{pool: pool}
}

func (r *PgAcademicRepository) GetByUserID(ctx context.Context, userID string) (*domain.AcademicRecord, error) {
	const query = `
		SELECT user_id, average, track
		FROM academic_records
		WHERE user_id = $1
	`
	var record domain.AcademicRecord
	err := r.pool.QueryRow(ctx, query, userID).Scan(&record.UserID, &record.Average, &record.Track)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
