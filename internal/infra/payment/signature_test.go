//go:build !integration

package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signFor(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "test_key_secret"

	t.Run("should accept the correct signature", func(t *testing.T) {
		sig := signFor(secret, "order_1", "pay_1")
		if !VerifyPaymentSignature(secret, "order_1", "pay_1", sig) {
			t.Error("expected correct signature to verify")
		}
	})

	t.Run("should reject any single-character mutation", func(t *testing.T) {
		sig := signFor(secret, "order_1", "pay_1")
		for i := 0; i < len(sig); i++ {
			mutated := []byte(sig)
			if mutated[i] == 'a' {
				mutated[i] = 'b'
			} else {
				mutated[i] = 'a'
			}
			if VerifyPaymentSignature(secret, "order_1", "pay_1", string(mutated)) {
				t.Fatalf("mutated signature at index %d was accepted", i)
			}
		}
	})

	t.Run("should reject a signature computed with another secret", func(t *testing.T) {
		sig := signFor("other_secret", "order_1", "pay_1")
		if VerifyPaymentSignature(secret, "order_1", "pay_1", sig) {
			t.Error("signature from a different secret was accepted")
		}
	})

	t.Run("should reject a signature for different identifiers", func(t *testing.T) {
		sig := signFor(secret, "order_1", "pay_1")
		if VerifyPaymentSignature(secret, "order_2", "pay_1", sig) {
			t.Error("signature was accepted for a different order id")
		}
		if VerifyPaymentSignature(secret, "order_1", "pay_2", sig) {
			t.Error("signature was accepted for a different payment id")
		}
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, sig := range []string{"", "not-hex", "zz", "deadbeef"} {
			if VerifyPaymentSignature(secret, "order_1", "pay_1", sig) {
				t.Errorf("malformed signature %q was accepted", sig)
			}
		}
	})
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	gw, err := NewRazorpayGateway("rzp_test_key", "test_key_secret", "INR")
	if err != nil {
		t.Fatalf("expected gateway to construct, got: %v", err)
	}
	sig := signFor("test_key_secret", "order_1", "pay_1")
	if !gw.VerifySignature("order_1", "pay_1", sig) {
		t.Error("gateway rejected a valid signature")
	}
	if gw.VerifySignature("order_1", "pay_1", "deadbeef") {
		t.Error("gateway accepted an invalid signature")
	}
}

func TestNewRazorpayGateway_RequiresCredentials(t *testing.T) {
	if _, err := NewRazorpayGateway("", "secret", "INR"); err == nil {
		t.Error("expected error for missing key id")
	}
	if _, err := NewRazorpayGateway("key", "", "INR"); err == nil {
		t.Error("expected error for missing key secret")
	}
}
