//go:build !integration

package web_test

import (
	"context"
	"time"

	"ngo-membership-platform/internal/domain"
	"ngo-membership-platform/internal/domain/model"
)

// Hand-rolled use case stubs. Each method panics unless its Func hook is set,
// so a test that reaches an endpoint it did not stub fails loudly.

type stubPaymentUC struct {
	CreateOrderFunc   func(ctx context.Context, profileID string, amountMajor int64, currency string) (*model.Order, error)
	VerifyFunc        func(ctx context.Context, profileID string, attempt model.PaymentAttempt) (*model.Payment, error)
	ListByProfileFunc func(ctx context.Context, profileID string, limit int) ([]*model.Payment, error)

	VerifyCalls int
}

func (s *stubPaymentUC) CreateOrder(ctx context.Context, profileID string, amountMajor int64, currency string) (*model.Order, error) {
	if s.CreateOrderFunc == nil {
		panic("unexpected CreateOrder call")
	}
	return s.CreateOrderFunc(ctx, profileID, amountMajor, currency)
}

func (s *stubPaymentUC) Verify(ctx context.Context, profileID string, attempt model.PaymentAttempt) (*model.Payment, error) {
	s.VerifyCalls++
	if s.VerifyFunc == nil {
		panic("unexpected Verify call")
	}
	return s.VerifyFunc(ctx, profileID, attempt)
}

func (s *stubPaymentUC) ListByProfile(ctx context.Context, profileID string, limit int) ([]*model.Payment, error) {
	if s.ListByProfileFunc == nil {
		panic("unexpected ListByProfile call")
	}
	return s.ListByProfileFunc(ctx, profileID, limit)
}

func (s *stubPaymentUC) SumByPeriod(ctx context.Context, qx any, period string) (int64, error) {
	panic("unexpected SumByPeriod call")
}

type stubMembershipUC struct {
	GetFunc func(ctx context.Context, profileID string) (*model.Membership, error)
}

func (s *stubMembershipUC) Ensure(ctx context.Context, qx any, profileID string) (*model.Membership, error) {
	panic("unexpected Ensure call")
}

func (s *stubMembershipUC) Get(ctx context.Context, profileID string) (*model.Membership, error) {
	if s.GetFunc == nil {
		panic("unexpected Get call")
	}
	return s.GetFunc(ctx, profileID)
}

func (s *stubMembershipUC) MarkPaid(ctx context.Context, qx any, profileID string) error {
	panic("unexpected MarkPaid call")
}

type stubProfileRepo struct {
	Profiles map[string]*model.Profile
}

func (s *stubProfileRepo) FindByID(ctx context.Context, qx any, id string) (*model.Profile, error) {
	if p, ok := s.Profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func samplePayment() *model.Payment {
	return &model.Payment{
		ID:           "01J8ZYXWVUTSRQPONMLKJIHGFE",
		ProfileID:    "p1",
		MembershipID: "m1",
		Amount:       499,
		Status:       model.PaymentStatusPaid,
		OrderID:      "order_1",
		PaymentID:    "pay_1",
		Method:       "card",
		CreatedAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}
