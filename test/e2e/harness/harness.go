// Package harness provides an in-process test harness for end-to-end
// testing: a real HTTP server serving the notes API over a real SQLite
// database, with the transaction middleware in between.
package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/altuslabsxyz/tx-bridge/internal/adapter/handler"
	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/persistence/sqlite"
	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/server"
)

// Harness manages the in-process test environment.
type Harness struct {
	t *testing.T

	DB     *sqlite.DB
	Server *httptest.Server
	Logger *slog.Logger
}

// New creates a harness with all components wired together. Everything is
// torn down through t.Cleanup.
func New(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{t: t}

	// Suppress logs during tests unless they indicate real trouble.
	h.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "e2e.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(t.Context()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	h.DB = db

	notes := handler.NewNotesHandler(h.Logger)
	router := server.NewRouter(db, &server.Handlers{Notes: notes}, h.Logger, nil)

	h.Server = httptest.NewServer(router)

	t.Cleanup(func() {
		h.Server.Close()
		h.DB.Close()
	})
	return h
}

// CreateNote posts a single note. abort makes the handler fail the request
// after the insert so the middleware rolls it back.
func (h *Harness) CreateNote(title, body string, abort bool) *http.Response {
	h.t.Helper()

	url := h.Server.URL + "/notes"
	if abort {
		url += "?abort=1"
	}
	return h.post(url, map[string]string{"title": title, "body": body})
}

// CreateBatch posts several notes in one request, sharing one transaction.
func (h *Harness) CreateBatch(titles ...string) *http.Response {
	h.t.Helper()

	payload := make([]map[string]string, 0, len(titles))
	for _, title := range titles {
		payload = append(payload, map[string]string{"title": title})
	}
	return h.post(h.Server.URL+"/notes/batch", payload)
}

// CountNotes reads the persisted note count directly from the database,
// outside any request transaction.
func (h *Harness) CountNotes() int {
	h.t.Helper()

	var n int
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		h.t.Fatalf("failed to count notes: %v", err)
	}
	return n
}

func (h *Harness) post(url string, payload any) *http.Response {
	h.t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		h.t.Fatalf("failed to marshal payload: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		h.t.Fatalf("request failed: %v", err)
	}
	h.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// Get issues a GET against the harness server.
func (h *Harness) Get(path string) *http.Response {
	h.t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s%s", h.Server.URL, path))
	if err != nil {
		h.t.Fatalf("request failed: %v", err)
	}
	h.t.Cleanup(func() { resp.Body.Close() })
	return resp
}
