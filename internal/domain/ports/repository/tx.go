package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `qx`.
//
// Keeps use-case interfaces clean (no transaction types leaking out) while
// letting repository methods that accept `qx any` detect a tx and use tx-bound
// Exec/Query as needed. The concrete type of `qx` is infra-defined (pgx.Tx for
// Postgres). Repositories MUST gracefully accept `nil` qx (non-transactional
// path).
//
// Note: the verification flow deliberately does NOT wrap its payment-insert +
// membership-upgrade sequence in a transaction; the reconciler repairs the
// window instead. The manager exists for callers that do need atomicity.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
