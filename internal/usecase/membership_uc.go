package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ngo-membership-platform/internal/domain"
	"ngo-membership-platform/internal/domain/model"
	"ngo-membership-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ MembershipUseCase = (*membershipUC)(nil)

type MembershipUseCase interface {
	// Ensure returns the profile's membership, creating an unpaid one if none
	// exists. Sequentially idempotent: a second call returns the same row.
	Ensure(ctx context.Context, qx any, profileID string) (*model.Membership, error)
	// Get returns the membership or domain.ErrNotFound.
	Get(ctx context.Context, profileID string) (*model.Membership, error)
	// MarkPaid upgrades the membership to the paid tier and confirms exactly
	// one row was affected; otherwise domain.ErrMembershipUpgrade.
	MarkPaid(ctx context.Context, qx any, profileID string) error
}

type membershipUC struct {
	memberships repository.MembershipRepository
	log         *zerolog.Logger
}

func NewMembershipUseCase(memberships repository.MembershipRepository, logger *zerolog.Logger) *membershipUC {
	return &membershipUC{memberships: memberships, log: logger}
}

func (u *membershipUC) Ensure(ctx context.Context, qx any, profileID string) (*model.Membership, error) {
	if profileID == "" {
		return nil, domain.ErrInvalidArgument
	}

	m, err := u.memberships.FindByProfileID(ctx, qx, profileID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		// A lookup failure is not "absent"; creating here could duplicate.
		return nil, err
	}

	fresh, err := model.NewMembership(profileID)
	if err != nil {
		return nil, err
	}
	if err := u.memberships.Save(ctx, qx, fresh); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost the race on first-time creation; the winner's row is the
			// membership. Re-fetch it.
			return u.memberships.FindByProfileID(ctx, qx, profileID)
		}
		return nil, err
	}

	u.log.Info().
		Str("profile_id", profileID).
		Str("member_id", fresh.MemberID).
		Msg("membership created")
	return fresh, nil
}

func (u *membershipUC) Get(ctx context.Context, profileID string) (*model.Membership, error) {
	if profileID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.memberships.FindByProfileID(ctx, repository.NoTX, profileID)
}

func (u *membershipUC) MarkPaid(ctx context.Context, qx any, profileID string) error {
	ok, err := u.memberships.UpgradeToPaid(ctx, qx, profileID)
	if err != nil {
		u.log.Error().Err(err).Str("profile_id", profileID).Msg("membership upgrade failed")
		return domain.ErrMembershipUpgrade
	}
	if !ok {
		u.log.Error().Str("profile_id", profileID).Msg("membership upgrade affected no rows")
		return domain.ErrMembershipUpgrade
	}
	return nil
}
