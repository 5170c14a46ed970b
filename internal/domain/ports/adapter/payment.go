package adapter

import (
	"context"

	"ngo-membership-platform/internal/domain/model"
)

// PaymentGateway is the hex port for the payment provider. The concrete
// gateway is constructed once at process start from configuration and injected
// wherever payments are initiated or verified; handlers never reach for an
// ambient global client.
type PaymentGateway interface {
	Name() string

	// CreateOrder registers a payment intent with the provider. amount is in
	// minor currency units (paise) as the provider requires.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*model.Order, error)

	// FetchOrder retrieves the authoritative order record by provider id.
	// The amount it carries, not any client-supplied value, is the source of
	// truth for reconciliation.
	FetchOrder(ctx context.Context, orderID string) (*model.Order, error)

	// FetchPayment retrieves the authoritative payment detail by provider id.
	// A fetch failure is an error; an absent method field is not.
	FetchPayment(ctx context.Context, paymentID string) (*model.PaymentDetail, error)

	// VerifySignature checks the provider's HMAC proof that it authorized the
	// given order/payment pair. It must fail closed and compare in constant
	// time.
	VerifySignature(orderID, paymentID, signature string) bool
}
