package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ngo-membership-platform/internal/config"
	pg "ngo-membership-platform/internal/infra/db/postgres"
	"ngo-membership-platform/internal/infra/logging"
	"ngo-membership-platform/internal/infra/metrics"
	pay "ngo-membership-platform/internal/infra/payment"
	red "ngo-membership-platform/internal/infra/redis"
	"ngo-membership-platform/internal/infra/sched"
	"ngo-membership-platform/internal/infra/web"
	"ngo-membership-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	membershipRepo := pg.NewMembershipRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	profileRepo := pg.NewProfileRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Payment gateway (one client per process, injected everywhere) ----
	gateway, err := pay.NewRazorpayGateway(
		cfg.Payment.Razorpay.KeyID,
		cfg.Payment.Razorpay.KeySecret,
		cfg.Payment.Razorpay.Currency,
	)
	if err != nil {
		log.Fatalf("razorpay gateway: %v", err)
	}

	// ---- Use cases ----
	memUC := usecase.NewMembershipUseCase(membershipRepo, logger)
	payUC := usecase.NewPaymentUseCase(paymentRepo, memUC, gateway, locker, logger)

	// ---- Web ----
	sessions := web.NewSessionManager(
		cfg.Session.HMACSecret,
		cfg.Session.Secure,
		cfg.Session.CookieDomain,
		cfg.Session.CookieName,
		cfg.Session.TTL,
	)
	server := web.NewServer(payUC, memUC, profileRepo, sessions, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	// ---- Reconciler ----
	reconciler := sched.NewMembershipReconciler(membershipRepo, txManager, cfg.Reconciler.Interval, logger)
	go reconciler.Start(ctx)

	// ---- DB pool stats ----
	go func() {
		t := time.NewTicker(15 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
