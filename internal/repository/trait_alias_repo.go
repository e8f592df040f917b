package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TraitAliasRepository interface {
	ListAll(ctx context.Context) (map[string]string, error)
}

type PgTraitAliasRepository struct {
	pool *pgxpool.Pool
}

func NewPgTraitAliasRepository(pool *pgxpool.Pool) *PgTraitAliasRepository {
	return &PgTraitAliasRepository{pool: pool}
}

// ListAll returns raw label -> canonical trait rows. These are merged over
// the built-in alias defaults at startup.
func (r *PgTraitAliasRepository) ListAll(ctx context.Context) (map[string]string, error) {
	const query = `
		SELECT raw_label, canonical
		FROM trait_aliases
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aliases := make(map[string]string)
	for rows.Next() {
		var raw, canonical string
		if err := rows.Scan(&raw, &canonical); err != nil {
			return nil, err
		}
		aliases[raw] = canonical
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return aliases, nil
}
