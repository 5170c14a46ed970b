package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ngo-membership-platform/internal/domain"
	"ngo-membership-platform/internal/domain/model"
	"ngo-membership-platform/internal/domain/ports/repository"
)

var _ repository.ProfileRepository = (*profileRepo)(nil)

// profileRepo reads from the profiles table owned by the auth system.
// This service never writes profiles.
type profileRepo struct{ pool *pgxpool.Pool }

func NewProfileRepo(pool *pgxpool.Pool) *profileRepo {
	return &profileRepo{pool: pool}
}

func (r *profileRepo) FindByID(ctx context.Context, qx any, id string) (*model.Profile, error) {
	const q = `SELECT id, email, full_name, created_at FROM profiles WHERE id=$1;`

	row, err := pickRow(ctx, r.pool, qx, q, id)
	if err != nil {
		return nil, err
	}

	p := &model.Profile{}
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}
