package server

import (
	"log/slog"
	"net/http"

	txbridge "github.com/altuslabsxyz/tx-bridge"
	"github.com/altuslabsxyz/tx-bridge/internal/adapter/handler"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Notes   *handler.NotesHandler
	Metrics http.Handler
}

// NewRouter wires the notes API behind the transaction middleware. The
// health and metrics endpoints stay outside it: they never touch the
// database and must not pay for a buffered response.
func NewRouter(pool txbridge.Beginner, h *Handlers, logger *slog.Logger, metrics *txbridge.Metrics) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /notes", h.Notes.Create)
	api.HandleFunc("POST /notes/batch", h.Notes.CreateBatch)
	api.HandleFunc("GET /notes", h.Notes.List)

	txMiddleware := txbridge.Middleware(pool,
		txbridge.WithLogger(logger),
		txbridge.WithMetrics(metrics),
	)

	mux := http.NewServeMux()
	mux.Handle("/notes", txMiddleware(api))
	mux.Handle("/notes/", txMiddleware(api))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}
	return mux
}
