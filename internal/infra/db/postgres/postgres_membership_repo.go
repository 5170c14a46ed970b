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

var _ repository.MembershipRepository = (*membershipRepo)(nil)

type membershipRepo struct{ pool *pgxpool.Pool }

func NewMembershipRepo(pool *pgxpool.Pool) *membershipRepo {
	return &membershipRepo{pool: pool}
}

func (r *membershipRepo) Save(ctx context.Context, qx any, m *model.Membership) error {
	const q = `
INSERT INTO memberships (id, profile_id, member_id, membership_type, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6);`

	_, err := execSQL(ctx, r.pool, qx, q, m.ID, m.ProfileID, m.MemberID, m.Type, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// profile_id carries a unique constraint; a concurrent first
			// payment already created the row. Callers re-fetch.
			return domain.ErrAlreadyExists
		}
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *membershipRepo) FindByProfileID(ctx context.Context, qx any, profileID string) (*model.Membership, error) {
	const q = `
SELECT id, profile_id, member_id, membership_type, created_at, updated_at
  FROM memberships WHERE profile_id=$1;`

	row, err := pickRow(ctx, r.pool, qx, q, profileID)
	if err != nil {
		return nil, err
	}

	m := &model.Membership{}
	if err := row.Scan(&m.ID, &m.ProfileID, &m.MemberID, &m.Type, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}

// UpgradeToPaid flips membership_type forward only; a row already at 'paid'
// still counts as affected so replays stay harmless.
func (r *membershipRepo) UpgradeToPaid(ctx context.Context, qx any, profileID string) (bool, error) {
	const q = `
UPDATE memberships SET membership_type='paid', updated_at=NOW()
 WHERE profile_id=$1;`

	cmd, err := execSQL(ctx, r.pool, qx, q, profileID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *membershipRepo) ListUnpaidWithPaidPayments(ctx context.Context, qx any, limit int) ([]*model.Membership, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
SELECT DISTINCT m.id, m.profile_id, m.member_id, m.membership_type, m.created_at, m.updated_at
  FROM memberships m
  JOIN payments p ON p.membership_id = m.id AND p.status = 'paid'
 WHERE m.membership_type = 'member'
 ORDER BY m.created_at ASC
 LIMIT $1;`

	rows, err := queryRows(ctx, r.pool, qx, q, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Membership
	for rows.Next() {
		m := new(model.Membership)
		if err := rows.Scan(&m.ID, &m.ProfileID, &m.MemberID, &m.Type, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, nil
}
