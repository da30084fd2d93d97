package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	txbridge "github.com/altuslabsxyz/tx-bridge"
	"github.com/altuslabsxyz/tx-bridge/internal/domain/entity"
	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/persistence/sqlite"
)

func newTestHandler(t *testing.T) (http.Handler, *sqlite.DB) {
	t.Helper()

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	notes := NewNotesHandler(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /notes", notes.Create)
	mux.HandleFunc("POST /notes/batch", notes.CreateBatch)
	mux.HandleFunc("GET /notes", notes.List)

	return txbridge.Middleware(db, txbridge.WithLogger(logger))(mux), db
}

func countNotes(t *testing.T, db *sqlite.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&n))
	return n
}

func TestCreateNote(t *testing.T) {
	h, db := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"first","body":"hello"}`))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var note entity.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "first", note.Title)

	assert.Equal(t, 1, countNotes(t, db))
}

func TestCreateNoteValidation(t *testing.T) {
	h, db := newTestHandler(t)

	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"body":"no title"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Equal(t, 0, countNotes(t, db))
}

func TestCreateNoteAbortRollsBack(t *testing.T) {
	h, db := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notes?abort=1", strings.NewReader(`{"title":"doomed"}`))
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, countNotes(t, db), "the insert happened inside the request transaction and must be rolled back")
}

func TestCreateBatchSharesOneTransaction(t *testing.T) {
	h, db := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notes/batch",
		strings.NewReader(`[{"title":"one"},{"title":"two"},{"title":"three"}]`))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 3, countNotes(t, db))
}

func TestCreateBatchValidationRollsBackEarlierInserts(t *testing.T) {
	h, db := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notes/batch",
		strings.NewReader(`[{"title":"ok"},{"title":""}]`))
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, countNotes(t, db), "the first insert must not survive the failed batch")
}

func TestListNotes(t *testing.T) {
	h, db := newTestHandler(t)

	_, err := db.Exec(`INSERT INTO notes (id, title, body) VALUES ('n1', 'stored', 'b')`)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var notes []entity.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "stored", notes[0].Title)
}
