package txbridge

import (
	"context"
	"database/sql"
	"net/http"
)

// Tx is the per-handler accessor for the request's transaction. Obtain one
// with FromRequest (or FromContext), use it like a *sql.Tx, and release it
// with Close when done:
//
//	tx, err := txbridge.FromRequest(r)
//	if err != nil { ... }
//	defer tx.Close()
//
// While a Tx is open, no other FromRequest call on the same request can
// succeed; Close hands the transaction back so the next consumer (or the
// middleware's finalization) can take it. A Tx must not be used after Close
// or Commit.
type Tx struct {
	lease   *Lease[*sql.Tx]
	metrics *Metrics
	closed  bool
}

// FromRequest returns the transaction bound to the request, beginning it on
// first use.
//
// It fails with ErrMiddlewareMissing when the request never passed through
// Middleware, with ErrOverlappingUse when another Tx for this request is
// still open (or an explicit Commit already consumed the transaction), and
// with a *BeginError when starting the transaction fails.
func FromRequest(r *http.Request) (*Tx, error) {
	return FromContext(r.Context())
}

// FromContext is FromRequest for code that only has the request's context.
func FromContext(ctx context.Context) (*Tx, error) {
	lazy, ok := ctx.Value(ctxKey{}).(*lazyTx)
	if !ok {
		return nil, ErrMiddlewareMissing
	}
	lease, err := lazy.getOrBegin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{lease: lease, metrics: lazy.metrics}, nil
}

// Close releases the transaction back to the request so it can be acquired
// again or finalized by the middleware. Idempotent; a no-op after Commit.
func (t *Tx) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.lease.Release()
}

// Commit commits the transaction immediately instead of waiting for the
// response outcome. The request's transaction slot is permanently emptied:
// any later FromRequest on the same request fails with ErrOverlappingUse,
// and the middleware's own finalization becomes a no-op.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return &CommitError{Err: sql.ErrTxDone}
	}
	t.closed = true
	tx := t.lease.Steal()
	if err := tx.Commit(); err != nil {
		t.metrics.addFailure(ctx, "commit")
		return &CommitError{Err: err}
	}
	t.metrics.addCommitted(ctx)
	return nil
}

// Unwrap exposes the underlying *sql.Tx for operations Tx does not forward.
func (t *Tx) Unwrap() *sql.Tx {
	return t.lease.Value()
}

// ExecContext executes a query that returns no rows.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.lease.Value().ExecContext(ctx, query, args...)
}

// Exec executes a query that returns no rows, without a context.
func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	return t.lease.Value().Exec(query, args...)
}

// QueryContext executes a query that returns rows.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.lease.Value().QueryContext(ctx, query, args...)
}

// Query executes a query that returns rows, without a context.
func (t *Tx) Query(query string, args ...any) (*sql.Rows, error) {
	return t.lease.Value().Query(query, args...)
}

// QueryRowContext executes a query expected to return at most one row.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.lease.Value().QueryRowContext(ctx, query, args...)
}

// QueryRow executes a query expected to return at most one row, without a
// context.
func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	return t.lease.Value().QueryRow(query, args...)
}

// PrepareContext creates a prepared statement scoped to the transaction.
func (t *Tx) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return t.lease.Value().PrepareContext(ctx, query)
}
