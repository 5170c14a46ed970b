package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ngo-membership-platform/internal/domain/ports/repository"
	"ngo-membership-platform/internal/infra/logging"
	"ngo-membership-platform/internal/usecase"
)

type Server struct {
	payUC    usecase.PaymentUseCase
	memUC    usecase.MembershipUseCase
	profiles repository.ProfileRepository
	sessions *SessionManager
	log      *zerolog.Logger
}

func NewServer(
	payUC usecase.PaymentUseCase,
	memUC usecase.MembershipUseCase,
	profiles repository.ProfileRepository,
	sessions *SessionManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		payUC:    payUC,
		memUC:    memUC,
		profiles: profiles,
		sessions: sessions,
		log:      logger,
	}
}

// Router builds the HTTP routing for the service.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceID, s.requestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// The verify action performs its own authentication check as its
		// first step, so it sits outside the session middleware.
		r.Post("/payments/verify", s.verifyPaymentHandler())

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/payments/order", s.createOrderHandler())
			r.Get("/payments", s.paymentsListHandler())
			r.Get("/membership", s.membershipGetHandler())
		})
	})
	return r
}

// ---- middleware ----

type ctxKey string

const ctxProfileID ctxKey = "profile_id"

func profileIDFrom(ctx context.Context) string {
	if v := ctx.Value(ctxProfileID); v != nil {
		return v.(string)
	}
	return ""
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID, err := s.sessions.ProfileID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}
		ctx := context.WithValue(r.Context(), ctxProfileID, profileID)
		ctx = logging.WithProfileID(ctx, profileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logging.With(r.Context(), s.log)
		start := time.Now()
		ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
