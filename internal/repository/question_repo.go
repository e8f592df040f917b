package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"course-advisor/internal/domain"
)

type QuestionRepository interface {
	ListAll(ctx context.Context) ([]domain.Question, error)
}

type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

// ListAll loads the full question bank with options in catalog order. The
// traits column is a comma list in older seed data, so it is split here:
// this is the single normalization point, the engine never sees raw shapes.
func (r *PgQuestionRepository) ListAll(ctx context.Context) ([]domain.Question, error) {
	const questionQuery = `
		SELECT id, category, prompt
		FROM questions
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, questionQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	index := make(map[string]int)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Category, &q.Prompt); err != nil {
			return nil, err
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const optionQuery = `
		SELECT id, question_id, text, traits, weight, extra_traits, recommended_course_ids
		FROM question_options
		ORDER BY question_id, position
	`
	optRows, err := r.pool.Query(ctx, optionQuery)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var (
			opt               domain.Option
			questionID        string
			traits            string
			extraTraits       *string
			recommendedCourse *string
		)
		if err := optRows.Scan(&opt.ID, &questionID, &opt.Text, &traits, &opt.Weight, &extraTraits, &recommendedCourse); err != nil {
			return nil, err
		}
		opt.Traits = splitList(traits)
		if extraTraits != nil {
			opt.ExtraTraits = splitList(*extraTraits)
		}
		if recommendedCourse != nil {
			opt.RecommendedCourseIDs = splitList(*recommendedCourse)
		}
		i, ok := index[questionID]
		if !ok {
			continue
		}
		questions[i].Options = append(questions[i].Options, opt)
	}
	if err := optRows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
