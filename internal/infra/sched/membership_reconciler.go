package sched

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"ngo-membership-platform/internal/domain/ports/repository"
	"ngo-membership-platform/internal/infra/metrics"
)

// MembershipReconciler periodically scans for paid payments whose membership
// is still in the 'member' tier and upgrades them. This covers the window
// where the process crashed (or the update failed) between payment insert and
// membership upgrade, since no transaction spans the two writes.
type MembershipReconciler struct {
	memberships repository.MembershipRepository
	txm         repository.TransactionManager
	interval    time.Duration // how often to scan
	log         *zerolog.Logger
}

// NewMembershipReconciler builds the worker. txm may be nil; repairs then run
// outside a transaction, which is still safe because UpgradeToPaid only moves
// the tier forward.
func NewMembershipReconciler(memberships repository.MembershipRepository, txm repository.TransactionManager, interval time.Duration, logger *zerolog.Logger) *MembershipReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MembershipReconciler{memberships: memberships, txm: txm, interval: interval, log: logger}
}

func (w *MembershipReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *MembershipReconciler) tick(ctx context.Context) {
	if w.txm == nil {
		if err := w.repair(ctx, repository.NoTX); err != nil {
			w.log.Error().Err(err).Msg("membership-reconciler: repair pass failed")
		}
		return
	}
	err := w.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return w.repair(ctx, tx)
	})
	if err != nil {
		w.log.Error().Err(err).Msg("membership-reconciler: repair pass failed")
	}
}

func (w *MembershipReconciler) repair(ctx context.Context, qx repository.Tx) error {
	stale, err := w.memberships.ListUnpaidWithPaidPayments(ctx, qx, 200)
	if err != nil {
		return err
	}
	for _, m := range stale {
		ok, err := w.memberships.UpgradeToPaid(ctx, qx, m.ProfileID)
		if err != nil {
			w.log.Error().Err(err).Str("profile_id", m.ProfileID).Msg("membership-reconciler: upgrade failed")
			continue
		}
		if !ok {
			// Row disappeared between the scan and the update; next tick
			// will see the current state.
			continue
		}
		metrics.IncMembershipRepair()
		w.log.Info().
			Str("profile_id", m.ProfileID).
			Str("member_id", m.MemberID).
			Msg("membership-reconciler: repaired membership")
	}
	return nil
}
