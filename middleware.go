package txbridge

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const scopeName = "github.com/altuslabsxyz/tx-bridge"

type ctxKey struct{}

// Middleware returns a net/http middleware that binds a lazily-started
// transaction from pool to every request it wraps.
//
// The transaction begins the first time FromRequest is called on the request
// and is shared by every later call. Once the inner handler returns, the
// response status decides the transaction's fate: success (2xx by default,
// see WithSuccessCheck) commits, anything else rolls back. A request that
// never touches the transaction costs nothing.
//
// If the commit fails, the buffered downstream response is discarded and
// replaced through the configured error responder. A panic in the inner
// handler rolls the transaction back and re-panics.
func Middleware(pool Beginner, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	tracer := otel.Tracer(scopeName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "txbridge.transaction")
			defer span.End()

			b := bind(pool, cfg.metrics)
			r = r.WithContext(context.WithValue(ctx, ctxKey{}, b.lazy))

			defer func() {
				if p := recover(); p != nil {
					b.rollback(ctx, cfg)
					panic(p)
				}
			}()

			bw := newBufferedWriter()
			next.ServeHTTP(bw, r)

			tx, leaked := b.drain()
			if leaked {
				cfg.logger.Warn("request transaction was never closed; reclaiming it",
					"method", r.Method,
					"path", r.URL.Path,
				)
			}

			if tx == nil {
				// Never begun, or already consumed by an explicit commit.
				bw.copyTo(w)
				return
			}

			if !cfg.successCheck(bw.statusCode()) {
				if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
					cfg.metrics.addFailure(ctx, "rollback")
					cfg.logger.Error("transaction rollback failed", "error", err)
				} else {
					cfg.metrics.addRolledBack(ctx)
				}
				bw.copyTo(w)
				return
			}

			if err := tx.Commit(); err != nil {
				cfg.metrics.addFailure(ctx, "commit")
				cfg.logger.Error("transaction commit failed",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
				span.RecordError(err)
				span.SetStatus(codes.Error, "commit failed")
				cfg.errorResponder(w, r, &CommitError{Err: err})
				return
			}
			cfg.metrics.addCommitted(ctx)
			bw.copyTo(w)
		})
	}
}

// binding anchors one request's transaction: the outer slot the inner
// transaction slot returns to, plus the lazyTx handed to the request context.
type binding struct {
	outer *Slot[*Slot[*sql.Tx]]
	lazy  *lazyTx
}

func bind(pool Beginner, m *Metrics) *binding {
	outer, lease := NewLeasedSlot[*Slot[*sql.Tx]](nil)
	return &binding{
		outer: outer,
		lazy:  &lazyTx{pool: pool, metrics: m, lease: lease},
	}
}

// drain reclaims the request's transaction, if any. A nil result means there
// is nothing left to decide: no transaction was ever begun, or an explicit
// Tx.Commit already consumed it. leaked reports that the transaction had to
// be reclaimed from an unclosed Tx.
func (b *binding) drain() (tx *sql.Tx, leaked bool) {
	b.lazy.endLease()

	inner, ok := b.outer.IntoInner()
	if !ok || inner == nil {
		return nil, false
	}
	if tx, ok := inner.IntoInner(); ok {
		return tx, false
	}
	if inner.onLoan() {
		// A handler acquired a Tx and never closed it. The request is over,
		// so take the transaction back directly.
		return b.lazy.begunTx(), true
	}
	// Stolen by an explicit commit.
	return nil, false
}

// rollback drains and rolls back whatever transaction is left. Used on the
// panic path, where no response classification will happen.
func (b *binding) rollback(ctx context.Context, cfg *config) {
	tx, _ := b.drain()
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		cfg.metrics.addFailure(ctx, "rollback")
		cfg.logger.Error("transaction rollback failed", "error", err)
		return
	}
	cfg.metrics.addRolledBack(ctx)
}

// bufferedWriter holds the downstream response until the transaction's fate
// is decided, so a failed commit can still replace it.
type bufferedWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) statusCode() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

func (b *bufferedWriter) copyTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, vs := range b.header {
		dst[k] = vs
	}
	w.WriteHeader(b.statusCode())
	_, _ = w.Write(b.body.Bytes())
}
