package txbridge

import (
	"context"
	"database/sql"
	"sync"
)

// Beginner starts transactions. *sql.DB and *sql.Conn both satisfy it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// lazyTx defers starting a transaction until the first accessor asks for one.
// It holds a lease on the binding's outer slot; the leased value is the inner
// transaction slot, nil until the first successful begin. Releasing the lease
// at the end of the request moves the inner slot (and with it the
// transaction's fate) back to the middleware.
type lazyTx struct {
	pool    Beginner
	metrics *Metrics

	mu       sync.Mutex
	lease    *Lease[*Slot[*sql.Tx]]
	begun    *sql.Tx // set once, teardown fallback when a Tx is never closed
	returned bool
}

// getOrBegin returns a lease on the request's transaction, beginning it on
// first use. The transaction is begun at most once per request; a begin
// failure leaves the state untouched so a later call may try again.
func (l *lazyTx) getOrBegin(ctx context.Context) (*Lease[*sql.Tx], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.returned {
		// Request teardown already reclaimed the slot.
		return nil, ErrOverlappingUse
	}

	if inner := l.lease.Value(); inner != nil {
		txLease, ok := inner.Lease()
		if !ok {
			return nil, ErrOverlappingUse
		}
		return txLease, nil
	}

	tx, err := l.pool.BeginTx(ctx, nil)
	if err != nil {
		l.metrics.addFailure(ctx, "begin")
		return nil, &BeginError{Err: err}
	}
	l.metrics.addBegun(ctx)
	l.begun = tx

	inner, txLease := NewLeasedSlot(tx)
	l.lease.Set(inner)
	return txLease, nil
}

// endLease releases the outer lease, returning the inner slot to the
// middleware's slot. Idempotent.
func (l *lazyTx) endLease() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.returned {
		return
	}
	l.returned = true
	l.lease.Release()
}

// begunTx returns the transaction begun for this request, if any.
func (l *lazyTx) begunTx() *sql.Tx {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.begun
}
