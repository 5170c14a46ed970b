//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ngo-membership-platform/internal/domain"
	"ngo-membership-platform/internal/domain/model"
	"ngo-membership-platform/internal/infra/payment"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Mock membership repository ---

// MockMembershipRepo is a small in-memory implementation used by unit tests.
// Every method counts its calls so tests can assert "zero storage calls"
// properties, and each has an overridable Func hook to simulate failures.
type MockMembershipRepo struct {
	mu    sync.Mutex
	store map[string]*model.Membership // by profile ID

	FindCalls    int
	SaveCalls    int
	UpgradeCalls int

	FindByProfileIDFunc func(ctx context.Context, qx any, profileID string) (*model.Membership, error)
	SaveFunc            func(ctx context.Context, qx any, m *model.Membership) error
	UpgradeToPaidFunc   func(ctx context.Context, qx any, profileID string) (bool, error)
}

func NewMockMembershipRepo() *MockMembershipRepo {
	return &MockMembershipRepo{store: make(map[string]*model.Membership)}
}

func (m *MockMembershipRepo) StorageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FindCalls + m.SaveCalls + m.UpgradeCalls
}

func (m *MockMembershipRepo) FindByProfileID(ctx context.Context, qx any, profileID string) (*model.Membership, error) {
	m.mu.Lock()
	m.FindCalls++
	m.mu.Unlock()
	if m.FindByProfileIDFunc != nil {
		return m.FindByProfileIDFunc(ctx, qx, profileID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.store[profileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ms
	return &cp, nil
}

func (m *MockMembershipRepo) Save(ctx context.Context, qx any, ms *model.Membership) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, qx, ms)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[ms.ProfileID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *ms
	m.store[ms.ProfileID] = &cp
	return nil
}

func (m *MockMembershipRepo) UpgradeToPaid(ctx context.Context, qx any, profileID string) (bool, error) {
	m.mu.Lock()
	m.UpgradeCalls++
	m.mu.Unlock()
	if m.UpgradeToPaidFunc != nil {
		return m.UpgradeToPaidFunc(ctx, qx, profileID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.store[profileID]
	if !ok {
		return false, nil
	}
	ms.Type = model.MembershipTypePaid
	ms.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockMembershipRepo) ListUnpaidWithPaidPayments(ctx context.Context, qx any, limit int) ([]*model.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Membership
	for _, ms := range m.store {
		if ms.Type == model.MembershipTypeMember {
			cp := *ms
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Get returns the stored membership without counting as a storage call from
// the code under test; assertion helper only.
func (m *MockMembershipRepo) Get(profileID string) *model.Membership {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.store[profileID]
	if !ok {
		return nil
	}
	cp := *ms
	return &cp
}

// --- Mock payment repository ---

type MockPaymentRepo struct {
	mu   sync.Mutex
	rows []*model.Payment

	SaveCalls int
	FindCalls int
	ListCalls int

	SaveFunc func(ctx context.Context, qx any, p *model.Payment) error
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{}
}

func (m *MockPaymentRepo) StorageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls + m.FindCalls + m.ListCalls
}

func (m *MockPaymentRepo) Save(ctx context.Context, qx any, p *model.Payment) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, qx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.OrderID == p.OrderID && r.PaymentID == p.PaymentID {
			// mirrors the (order_id, payment_id) unique constraint
			return domain.ErrAlreadyExists
		}
	}
	cp := *p
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *MockPaymentRepo) FindByProviderIDs(ctx context.Context, qx any, orderID, paymentID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	for _, r := range m.rows {
		if r.OrderID == orderID && r.PaymentID == paymentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) ListByProfile(ctx context.Context, qx any, profileID string, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	var out []*model.Payment
	for _, r := range m.rows {
		if r.ProfileID == profileID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPaymentRepo) SumByPeriod(ctx context.Context, qx any, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, r := range m.rows {
		if r.Status == model.PaymentStatusPaid {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (m *MockPaymentRepo) Rows() []*model.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Payment, 0, len(m.rows))
	for _, r := range m.rows {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

// --- Mock payment gateway ---

// MockPaymentGateway verifies signatures with the real HMAC routine against
// Secret, so tests exercise the production signature path end to end.
type MockPaymentGateway struct {
	Secret   string
	Orders   map[string]*model.Order
	Payments map[string]*model.PaymentDetail

	CreateOrderFunc  func(ctx context.Context, amount int64, currency, receipt string) (*model.Order, error)
	FetchOrderFunc   func(ctx context.Context, orderID string) (*model.Order, error)
	FetchPaymentFunc func(ctx context.Context, paymentID string) (*model.PaymentDetail, error)
}

func NewMockPaymentGateway(secret string) *MockPaymentGateway {
	return &MockPaymentGateway{
		Secret:   secret,
		Orders:   make(map[string]*model.Order),
		Payments: make(map[string]*model.PaymentDetail),
	}
}

func (g *MockPaymentGateway) Name() string { return "razorpay" }

func (g *MockPaymentGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*model.Order, error) {
	if g.CreateOrderFunc != nil {
		return g.CreateOrderFunc(ctx, amount, currency, receipt)
	}
	o := &model.Order{ID: "order_created", Amount: amount, Currency: currency, Receipt: receipt}
	g.Orders[o.ID] = o
	return o, nil
}

func (g *MockPaymentGateway) FetchOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if g.FetchOrderFunc != nil {
		return g.FetchOrderFunc(ctx, orderID)
	}
	o, ok := g.Orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (g *MockPaymentGateway) FetchPayment(ctx context.Context, paymentID string) (*model.PaymentDetail, error) {
	if g.FetchPaymentFunc != nil {
		return g.FetchPaymentFunc(ctx, paymentID)
	}
	d, ok := g.Payments[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (g *MockPaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifyPaymentSignature(g.Secret, orderID, paymentID, signature)
}

// --- Mock locker ---

type MockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	UnlockCalls int
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if l.TryLockFunc != nil {
		return l.TryLockFunc(ctx, key, ttl)
	}
	return "token", nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.UnlockCalls++
	return nil
}
