package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"ngo-membership-platform/internal/domain"
	"ngo-membership-platform/internal/domain/model"
	"ngo-membership-platform/internal/domain/ports/adapter"
	"ngo-membership-platform/internal/domain/ports/repository"
	"ngo-membership-platform/internal/infra/logging"
	"ngo-membership-platform/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CreateOrder registers a provider order for the amount in major currency
	// units (rupees) and returns the provider's record of it.
	CreateOrder(ctx context.Context, profileID string, amountMajor int64, currency string) (*model.Order, error)
	// Verify validates the provider's signature for the attempt, then
	// reconciles membership and payment state. Returns the persisted payment
	// on success; a replay of an already verified payment returns the
	// original row with no new writes.
	Verify(ctx context.Context, profileID string, attempt model.PaymentAttempt) (*model.Payment, error)
	// ListByProfile returns the profile's payment audit trail, newest first.
	ListByProfile(ctx context.Context, profileID string, limit int) ([]*model.Payment, error)
	// SumByPeriod totals paid amounts per period (used by stats/panel).
	SumByPeriod(ctx context.Context, qx any, period string) (int64, error)
}

// Locker serializes concurrent verifications of the same payment. A nil
// locker disables locking (unit tests, single-instance deployments).
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

type paymentUC struct {
	payments    repository.PaymentRepository
	memberships MembershipUseCase
	gateway     adapter.PaymentGateway
	locker      Locker
	log         *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	memberships MembershipUseCase,
	gateway adapter.PaymentGateway,
	locker Locker,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		payments:    payments,
		memberships: memberships,
		gateway:     gateway,
		locker:      locker,
		log:         logger,
	}
}

func (u *paymentUC) CreateOrder(ctx context.Context, profileID string, amountMajor int64, currency string) (*model.Order, error) {
	if profileID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if amountMajor <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	receipt := fmt.Sprintf("rcpt_%d", time.Now().UnixNano())
	order, err := u.gateway.CreateOrder(ctx, amountMajor*100, currency, receipt)
	if err != nil {
		u.log.Error().Err(err).Int64("amount", amountMajor).Msg("order create failed")
		return nil, err
	}
	metrics.IncOrderCreated()
	u.log.Info().
		Str("order_id", order.ID).
		Int64("amount_minor", order.Amount).
		Str("currency", order.Currency).
		Msg("order created")
	return order, nil
}

// Verify runs the steps of payment verification strictly in sequence. No step
// begins before the previous one's result is known, and nothing is written
// before the signature check passes.
func (u *paymentUC) Verify(ctx context.Context, profileID string, attempt model.PaymentAttempt) (*model.Payment, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.Verify")()

	// 1. Authenticated identity.
	if profileID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	// 2. Signature. The sole cryptographic trust boundary; fails closed.
	if !u.gateway.VerifySignature(attempt.OrderID, attempt.PaymentID, attempt.Signature) {
		u.log.Warn().
			Str("profile_id", profileID).
			Str("order_id", attempt.OrderID).
			Str("payment_id", attempt.PaymentID).
			Msg("payment signature mismatch")
		return nil, domain.ErrInvalidSignature
	}

	// Serialize concurrent verifications of the same provider payment.
	if u.locker != nil {
		token, err := u.locker.TryLock(ctx, "verify:"+attempt.PaymentID, 30*time.Second)
		if err != nil {
			return nil, domain.ErrLockHeld
		}
		defer func() { _ = u.locker.Unlock(ctx, "verify:"+attempt.PaymentID, token) }()
	}

	// 3. Authoritative detail from the provider. Client-supplied amounts and
	// methods are never trusted.
	order, err := u.gateway.FetchOrder(ctx, attempt.OrderID)
	if err != nil {
		return nil, err
	}
	detail, err := u.gateway.FetchPayment(ctx, attempt.PaymentID)
	if err != nil {
		// A failed fetch is an error; it must not be masked by the method
		// fallback below.
		return nil, err
	}

	// 4. Membership lookup-or-create.
	membership, err := u.memberships.Ensure(ctx, repository.NoTX, profileID)
	if err != nil {
		return nil, err
	}

	// 5. Payment persistence. Amount comes from the provider order, minor
	// units back to major.
	method := detail.Method
	if method == "" {
		method = u.gateway.Name()
	}
	p := &model.Payment{
		ID:           ulid.Make().String(),
		ProfileID:    profileID,
		MembershipID: membership.ID,
		Amount:       order.Amount / 100,
		Status:       model.PaymentStatusPaid,
		OrderID:      attempt.OrderID,
		PaymentID:    attempt.PaymentID,
		Method:       method,
		CreatedAt:    time.Now(),
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Replay of an already verified payment: no-op success with the
			// original row.
			existing, findErr := u.payments.FindByProviderIDs(ctx, repository.NoTX, attempt.OrderID, attempt.PaymentID)
			if findErr != nil {
				return nil, findErr
			}
			u.log.Info().
				Str("order_id", attempt.OrderID).
				Str("payment_id", attempt.PaymentID).
				Msg("verified payment replayed, returning existing record")
			return existing, nil
		}
		return nil, err
	}
	metrics.IncPayment(string(model.PaymentStatusPaid))

	// 6. Membership upgrade. If this fails the payment row above already
	// exists; the reconciler repairs that window.
	if err := u.memberships.MarkPaid(ctx, repository.NoTX, profileID); err != nil {
		u.log.Error().
			Str("profile_id", profileID).
			Str("payment_id", attempt.PaymentID).
			Msg("payment recorded but membership upgrade failed")
		return p, err
	}

	u.log.Info().
		Str("profile_id", profileID).
		Str("order_id", attempt.OrderID).
		Str("payment_id", attempt.PaymentID).
		Int64("amount", p.Amount).
		Str("method", p.Method).
		Msg("payment verified")
	return p, nil
}

func (u *paymentUC) ListByProfile(ctx context.Context, profileID string, limit int) ([]*model.Payment, error) {
	if profileID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return u.payments.ListByProfile(ctx, repository.NoTX, profileID, limit)
}

func (u *paymentUC) SumByPeriod(ctx context.Context, qx any, period string) (int64, error) {
	return u.payments.SumByPeriod(ctx, qx, period)
}
