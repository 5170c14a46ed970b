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

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) Save(ctx context.Context, qx any, p *model.Payment) error {
	const q = `
INSERT INTO payments (id, profile_id, membership_id, amount, status, order_id, payment_id, method, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`

	_, err := execSQL(ctx, r.pool, qx, q, p.ID, p.ProfileID, p.MembershipID, p.Amount, p.Status, p.OrderID, p.PaymentID, p.Method, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// (order_id, payment_id) is unique: a replay of an already
			// verified payment. The use case treats this as a no-op success.
			return domain.ErrAlreadyExists
		}
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByProviderIDs(ctx context.Context, qx any, orderID, paymentID string) (*model.Payment, error) {
	const q = `
SELECT id, profile_id, membership_id, amount, status, order_id, payment_id, method, created_at
  FROM payments WHERE order_id=$1 AND payment_id=$2;`

	row, err := pickRow(ctx, r.pool, qx, q, orderID, paymentID)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{}
	if err := row.Scan(&p.ID, &p.ProfileID, &p.MembershipID, &p.Amount, &p.Status, &p.OrderID, &p.PaymentID, &p.Method, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) ListByProfile(ctx context.Context, qx any, profileID string, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, profile_id, membership_id, amount, status, order_id, payment_id, method, created_at
  FROM payments WHERE profile_id=$1 ORDER BY created_at DESC LIMIT $2;`

	rows, err := queryRows(ctx, r.pool, qx, q, profileID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p := new(model.Payment)
		if err := rows.Scan(&p.ID, &p.ProfileID, &p.MembershipID, &p.Amount, &p.Status, &p.OrderID, &p.PaymentID, &p.Method, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *paymentRepo) SumByPeriod(ctx context.Context, qx any, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='paid' AND created_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, qx, q, period)
	if err != nil {
		return 0, err
	}

	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
