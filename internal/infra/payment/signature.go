package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature checks the checkout signature Razorpay hands to the
// client after a charge: HMAC-SHA256 over "<order_id>|<payment_id>" with the
// key secret, hex-encoded. This is the sole cryptographic trust boundary of
// the verification flow; no other check substitutes for it.
//
// The comparison is constant-time. A malformed (non-hex) signature can never
// match and fails closed.
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := h.Sum(nil)

	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, supplied)
}
