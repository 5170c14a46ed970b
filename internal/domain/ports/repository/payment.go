package repository

import (
	"context"

	"ngo-membership-platform/internal/domain/model"
)

// -----------------------------
// Payments
// -----------------------------

type PaymentRepository interface {
	// Save inserts a payment row. (order_id, payment_id) is unique; a
	// duplicate insert returns domain.ErrAlreadyExists so verification can
	// treat a replay as a no-op success.
	Save(ctx context.Context, qx any, p *model.Payment) error
	FindByProviderIDs(ctx context.Context, qx any, orderID, paymentID string) (*model.Payment, error)
	ListByProfile(ctx context.Context, qx any, profileID string, limit int) ([]*model.Payment, error)
	// SumByPeriod totals paid amounts since the start of the given period
	// ("week"|"month"|"year"), for the stats surface.
	SumByPeriod(ctx context.Context, qx any, period string) (int64, error)
}

// -----------------------------
// Profiles (read-only here)
// -----------------------------

type ProfileRepository interface {
	FindByID(ctx context.Context, qx any, id string) (*model.Profile, error)
}
