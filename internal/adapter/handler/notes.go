package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	txbridge "github.com/altuslabsxyz/tx-bridge"
	"github.com/altuslabsxyz/tx-bridge/internal/domain/entity"
	domainerrors "github.com/altuslabsxyz/tx-bridge/internal/domain/errors"
	"github.com/altuslabsxyz/tx-bridge/internal/domain/logger"
)

// NotesHandler serves the notes API. Every write goes through the request's
// transaction; the txbridge middleware commits or rolls it back based on the
// response status this handler produces.
type NotesHandler struct {
	logger logger.Logger
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(logger logger.Logger) *NotesHandler {
	return &NotesHandler{logger: logger}
}

type noteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Create handles POST /notes.
//
// The "abort" query parameter makes the handler respond 422 after the insert,
// which causes the middleware to roll the insert back. It exists so the demo
// can show outcome-driven rollback end to end.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note := entity.NewNote(req.Title, req.Body)
	if err := note.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := txbridge.FromRequest(r)
	if err != nil {
		h.txError(w, err)
		return
	}
	defer tx.Close()

	if err := insertNote(r, tx, note); err != nil {
		h.logger.Error("failed to insert note", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if r.URL.Query().Get("abort") != "" {
		respondError(w, http.StatusUnprocessableEntity, "aborted by request")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// CreateBatch handles POST /notes/batch. Each note is inserted through its
// own accessor call, but all of them share the request's single transaction:
// either every note is persisted or none is.
func (h *NotesHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []noteRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(reqs) == 0 {
		respondError(w, http.StatusBadRequest, "at least one note is required")
		return
	}

	notes := make([]*entity.Note, 0, len(reqs))
	for _, req := range reqs {
		note := entity.NewNote(req.Title, req.Body)
		if err := note.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		tx, err := txbridge.FromRequest(r)
		if err != nil {
			h.txError(w, err)
			return
		}
		err = insertNote(r, tx, note)
		tx.Close()
		if err != nil {
			h.logger.Error("failed to insert note", "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		notes = append(notes, note)
	}

	respondJSON(w, http.StatusCreated, notes)
}

// List handles GET /notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	tx, err := txbridge.FromRequest(r)
	if err != nil {
		h.txError(w, err)
		return
	}
	defer tx.Close()

	rows, err := tx.QueryContext(r.Context(),
		`SELECT id, title, body, created_at FROM notes ORDER BY created_at, id`)
	if err != nil {
		h.logger.Error("failed to list notes", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer rows.Close()

	notes := make([]entity.Note, 0)
	for rows.Next() {
		var n entity.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.CreatedAt); err != nil {
			h.logger.Error("failed to scan note", "error", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		h.logger.Error("failed to list notes", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

func insertNote(r *http.Request, tx *txbridge.Tx, note *entity.Note) error {
	_, err := tx.ExecContext(r.Context(),
		`INSERT INTO notes (id, title, body, created_at) VALUES (?, ?, ?, ?)`,
		note.ID, note.Title, note.Body, note.CreatedAt)
	if err != nil {
		return domainerrors.NewInternalError("insert note", err)
	}
	return nil
}

// txError maps accessor failures to responses. Wiring defects are internal
// errors; a begin failure means the database is unavailable right now.
func (h *NotesHandler) txError(w http.ResponseWriter, err error) {
	var beginErr *txbridge.BeginError
	if errors.As(err, &beginErr) {
		h.logger.Error("failed to begin request transaction", "error", err)
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	h.logger.Error("transaction accessor failed", "error", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
