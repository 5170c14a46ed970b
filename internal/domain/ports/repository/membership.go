package repository

import (
	"context"

	"ngo-membership-platform/internal/domain/model"
)

// -----------------------------
// Memberships
// -----------------------------

type MembershipRepository interface {
	// Save inserts a membership. The store enforces one row per profile;
	// a duplicate insert returns domain.ErrAlreadyExists so callers can
	// re-fetch instead of failing.
	Save(ctx context.Context, qx any, m *model.Membership) error
	FindByProfileID(ctx context.Context, qx any, profileID string) (*model.Membership, error)
	// UpgradeToPaid flips membership_type to 'paid' for the profile and
	// reports whether exactly one row was affected.
	UpgradeToPaid(ctx context.Context, qx any, profileID string) (bool, error)
	// ListUnpaidWithPaidPayments returns memberships still in the 'member'
	// tier that already have at least one paid payment row. Used by the
	// reconciler to repair the insert/upgrade window.
	ListUnpaidWithPaidPayments(ctx context.Context, qx any, limit int) ([]*model.Membership, error)
}
