package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ngo-membership-platform/internal/domain"
	"ngo-membership-platform/internal/domain/model"
	"ngo-membership-platform/internal/domain/ports/repository"
	"ngo-membership-platform/internal/infra/metrics"
)

// All failures cross this boundary as {"error": string}; nothing is allowed
// to escape as an unhandled panic or a bare status code. The client shows the
// string verbatim in a dialog.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---- order initiation ----

type orderCreateRequest struct {
	Amount   int64  `json:"amount"` // major currency units (rupees)
	Currency string `json:"currency"`
}

func (s *Server) createOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		profileID := profileIDFrom(ctx)

		var req orderCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		order, err := s.payUC.CreateOrder(ctx, profileID, req.Amount, req.Currency)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeError(w, http.StatusBadRequest, "Amount must be positive")
				return
			}
			s.log.Error().Err(err).Msg("order create failed")
			writeError(w, http.StatusBadGateway, "Failed to create order")
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"` // minor units, as registered with the provider
			Currency string `json:"currency"`
		}{ID: order.ID, Amount: order.Amount, Currency: order.Currency})
	}
}

// ---- payment verification ----

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// verifyPaymentHandler is the client-facing verification action. The browser
// checkout handler posts the provider-issued identifiers here after the
// Razorpay UI completes a charge.
func (s *Server) verifyPaymentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		result, reason := "ok", ""
		defer func() {
			metrics.PaymentVerifyRequests.WithLabelValues(result, reason).Inc()
			metrics.PaymentVerifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}()

		// Step 1 of the flow: resolve the authenticated identity. No further
		// work, and no storage access, happens without a session.
		profileID, authErr := s.sessions.ProfileID(r)
		if authErr != nil {
			result, reason = "fail", "unauthenticated"
			writeError(w, http.StatusUnauthorized, domain.ErrNotAuthenticated.Error())
			return
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			result, reason = "fail", "bad_json"
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		payment, err := s.payUC.Verify(ctx, profileID, model.PaymentAttempt{
			OrderID:   req.RazorpayOrderID,
			PaymentID: req.RazorpayPaymentID,
			Signature: req.RazorpaySignature,
		})
		if err != nil {
			result = "fail"
			switch {
			case errors.Is(err, domain.ErrNotAuthenticated):
				reason = "unauthenticated"
				writeError(w, http.StatusUnauthorized, err.Error())
			case errors.Is(err, domain.ErrInvalidSignature):
				reason = "bad_signature"
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrLockHeld):
				reason = "locked"
				writeError(w, http.StatusConflict, "Payment verification already in progress")
			case errors.Is(err, domain.ErrMembershipUpgrade):
				// The payment row exists by now; surface the exact message so
				// support can reconcile from the dialog text.
				reason = "reconcile_error"
				writeError(w, http.StatusInternalServerError, err.Error())
			default:
				reason = "provider_error"
				s.log.Error().Err(err).Str("order_id", req.RazorpayOrderID).Msg("payment verification failed")
				writeError(w, http.StatusBadGateway, "Payment verification failed")
			}
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Success   bool   `json:"success"`
			PaymentID string `json:"paymentId"`
		}{Success: true, PaymentID: payment.PaymentID})
	}
}

// ---- membership ----

func (s *Server) membershipGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		profileID := profileIDFrom(ctx)

		m, err := s.memUC.Get(ctx, profileID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "No membership for this profile")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to load membership")
			return
		}

		// Display name/email come from the profiles table the auth system
		// owns; absence is not an error for this endpoint.
		var email, fullName string
		if p, err := s.profiles.FindByID(ctx, repository.NoTX, profileID); err == nil {
			email, fullName = p.Email, p.FullName
		}

		writeJSON(w, http.StatusOK, struct {
			MemberID  string `json:"member_id"`
			Type      string `json:"membership_type"`
			Email     string `json:"email,omitempty"`
			FullName  string `json:"full_name,omitempty"`
			CreatedAt string `json:"created_at"`
		}{
			MemberID:  m.MemberID,
			Type:      string(m.Type),
			Email:     email,
			FullName:  fullName,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
}

// ---- payment audit trail ----

func (s *Server) paymentsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		profileID := profileIDFrom(ctx)

		payments, err := s.payUC.ListByProfile(ctx, profileID, 50)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list payments")
			return
		}

		type paymentResponse struct {
			ID        string `json:"id"`
			Amount    int64  `json:"amount"`
			Status    string `json:"status"`
			OrderID   string `json:"order_id"`
			PaymentID string `json:"payment_id"`
			Method    string `json:"method"`
			CreatedAt string `json:"created_at"`
		}
		data := make([]paymentResponse, 0, len(payments))
		for _, p := range payments {
			data = append(data, paymentResponse{
				ID:        p.ID,
				Amount:    p.Amount,
				Status:    string(p.Status),
				OrderID:   p.OrderID,
				PaymentID: p.PaymentID,
				Method:    p.Method,
				CreatedAt: p.CreatedAt.Format(time.RFC3339),
			})
		}

		writeJSON(w, http.StatusOK, struct {
			Data []paymentResponse `json:"data"`
		}{Data: data})
	}
}
