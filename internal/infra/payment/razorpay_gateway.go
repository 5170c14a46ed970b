package payment

import (
	"context"
	"fmt"

	"ngo-membership-platform/internal/domain/model"
	"ngo-membership-platform/internal/domain/ports/adapter"

	razorpay "github.com/razorpay/razorpay-go"
)

var _ adapter.PaymentGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements the PaymentGateway port on the official Razorpay
// SDK. One instance is constructed at process start and injected; it is safe
// for concurrent use.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
	currency  string
}

func NewRazorpayGateway(keyID, keySecret, currency string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
		currency:  currency,
	}, nil
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// CreateOrder registers an order with Razorpay. amount is in minor units.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*model.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amount)
	}
	if currency == "" {
		currency = g.currency
	}
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return orderFromBody(body)
}

func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (*model.Order, error) {
	body, err := g.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order fetch %s: %w", orderID, err)
	}
	return orderFromBody(body)
}

func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*model.PaymentDetail, error) {
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch %s: %w", paymentID, err)
	}
	d := &model.PaymentDetail{
		ID:      asString(body["id"]),
		OrderID: asString(body["order_id"]),
		Method:  asString(body["method"]),
		Status:  asString(body["status"]),
	}
	if d.ID == "" {
		return nil, fmt.Errorf("razorpay payment fetch %s: response missing id", paymentID)
	}
	return d, nil
}

func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(g.keySecret, orderID, paymentID, signature)
}

func orderFromBody(body map[string]interface{}) (*model.Order, error) {
	o := &model.Order{
		ID:       asString(body["id"]),
		Currency: asString(body["currency"]),
		Receipt:  asString(body["receipt"]),
	}
	if o.ID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}
	amount, ok := asInt64(body["amount"])
	if !ok {
		return nil, fmt.Errorf("razorpay order %s: response missing amount", o.ID)
	}
	o.Amount = amount
	return o, nil
}

// The SDK decodes JSON into map[string]interface{}, so numbers arrive as
// float64 and absent fields as nil.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
