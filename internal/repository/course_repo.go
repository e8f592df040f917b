package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"course-advisor/internal/domain"
)

type CourseRepository interface {
	ListAll(ctx context.Context) ([]domain.Course, error)
}

type PgCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCourseRepository(pool *pgxpool.Pool) *PgCourseRepository {
	return &PgCourseRepository{pool: pool}
}

// ListAll loads the course catalog. recommended_track is historically a
// comma list ("STEM, ICT"); it is split into the canonical multi-valued
// shape here and nowhere else.
func (r *PgCourseRepository) ListAll(ctx context.Context) ([]domain.Course, error) {
	const query = `
		SELECT id, name, description, min_grade, recommended_track, traits
		FROM courses
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var (
			c           domain.Course
			description *string
			track       string
			traits      string
		)
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.MinGrade, &track, &traits); err != nil {
			return nil, err
		}
		if description != nil {
			c.Description = *description
		}
		c.RecommendedTracks = splitList(track)
		c.Traits = splitList(traits)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}
