// Package e2e exercises the transaction middleware through a real HTTP
// server and a real SQLite database: requests whose responses succeed leave
// their rows behind, requests that fail leave nothing.
package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/tx-bridge/internal/domain/entity"
	"github.com/altuslabsxyz/tx-bridge/test/e2e/harness"
)

func TestBatchInsertsShareOneTransaction(t *testing.T) {
	h := harness.New(t)

	resp := h.CreateBatch("first", "second")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var notes []entity.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&notes))
	assert.Len(t, notes, 2)

	assert.Equal(t, 2, h.CountNotes(), "both inserts committed together")
}

func TestFailedRequestLeavesNoRows(t *testing.T) {
	h := harness.New(t)

	resp := h.CreateNote("doomed", "never persisted", true)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Equal(t, 0, h.CountNotes(), "the insert was rolled back with the failed response")
}

func TestRequestsAreIsolated(t *testing.T) {
	h := harness.New(t)

	require.Equal(t, http.StatusCreated, h.CreateNote("kept", "", false).StatusCode)
	require.Equal(t, http.StatusUnprocessableEntity, h.CreateNote("dropped", "", true).StatusCode)
	require.Equal(t, http.StatusCreated, h.CreateNote("also kept", "", false).StatusCode)

	assert.Equal(t, 2, h.CountNotes(), "a failed request must not disturb its neighbours")
}

func TestListReflectsCommittedState(t *testing.T) {
	h := harness.New(t)

	require.Equal(t, http.StatusCreated, h.CreateNote("visible", "", false).StatusCode)
	h.CreateNote("invisible", "", true)

	resp := h.Get("/notes")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var notes []entity.Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "visible", notes[0].Title)
}

func TestHealthzBypassesTransactions(t *testing.T) {
	h := harness.New(t)

	resp := h.Get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
