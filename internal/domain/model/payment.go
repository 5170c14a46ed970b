package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"   // verified at provider and persisted
	PaymentStatusFailed PaymentStatus = "failed" // verification or persistence failed
)

// Payment is one verified transaction, recorded after signature verification
// succeeds. Rows are append-only: this flow never updates or deletes them, so
// the table doubles as the audit trail.
type Payment struct {
	ID           string // ULID, sortable by creation time
	ProfileID    string // UUID of the paying identity
	MembershipID string // UUID -> Membership; the row is guaranteed to exist at insert time
	Amount       int64  // major currency units (rupees), derived from the provider order
	Status       PaymentStatus
	OrderID      string // provider order id
	PaymentID    string // provider payment id; (OrderID, PaymentID) is unique
	Method       string // provider-reported method; "razorpay" when the field is absent
	CreatedAt    time.Time
}

// Order is the provider-issued intent to charge. It is owned by the provider
// and referenced by id; we keep no local copy beyond the duration of a flow.
type Order struct {
	ID       string
	Amount   int64 // minor currency units (paise), as registered with the provider
	Currency string
	Receipt  string
}

// PaymentDetail is the authoritative payment record fetched back from the
// provider after verification. Method may be empty when the provider omits it.
type PaymentDetail struct {
	ID      string
	OrderID string
	Method  string
	Status  string
}

// PaymentAttempt is the wire payload a client returns after the provider's
// checkout completes. It exists only for the duration of verification.
type PaymentAttempt struct {
	OrderID   string
	PaymentID string
	Signature string
}
