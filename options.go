package txbridge

import (
	"log/slog"
	"net/http"
)

// Option configures the Middleware.
type Option func(*config)

type config struct {
	successCheck   func(status int) bool
	errorResponder func(http.ResponseWriter, *http.Request, error)
	logger         *slog.Logger
	metrics        *Metrics
}

func defaultConfig() *config {
	return &config{
		successCheck: func(status int) bool {
			return status >= 200 && status < 300
		},
		errorResponder: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		},
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithSuccessCheck overrides the response classification that decides between
// commit and rollback. The default treats 2xx statuses as success and
// everything else, redirects included, as failure.
func WithSuccessCheck(check func(status int) bool) Option {
	return func(c *config) {
		c.successCheck = check
	}
}

// WithErrorResponder overrides how a commit failure is turned into the final
// response. The default writes a generic 500. The error passed to the
// responder is a *CommitError.
func WithErrorResponder(respond func(w http.ResponseWriter, r *http.Request, err error)) Option {
	return func(c *config) {
		c.errorResponder = respond
	}
}

// WithLogger sets the logger used for commit/rollback failures and misuse
// warnings. Logging is off by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables transaction lifecycle counters.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}
