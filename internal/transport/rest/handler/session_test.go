package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
	"github.com/ibtsamraza/psychometric-analysis/internal/session"
)

func newSessionRouter(store *session.Store) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/sessions/{sessionId}/status", NewSessionHandler(store).GetStatus).Methods("GET")
	return r
}

func TestGetStatus(t *testing.T) {
	store := session.NewStore()
	store.Upsert("s1", "generate_analysis", "Running psychometric analysis…", 10, "Alice")
	router := newSessionRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/sessions/s1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got model.SessionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "generate_analysis", got.Agent)
	assert.Equal(t, 10, got.Progress)
	assert.Equal(t, "Alice", got.Name)
}

func TestGetStatus_Unknown(t *testing.T) {
	router := newSessionRouter(session.NewStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/sessions/missing/status", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "unknown", got["status"])
}

func TestGetStatus_AfterPoll(t *testing.T) {
	store := session.NewStore()
	first := store.Upsert("s1", "start", "Starting analysis…", 0, "Alice")
	router := newSessionRouter(store)

	// Nothing newer than the first record yet.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/v1/sessions/s1/status?after=%d", first.Timestamp), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	store.Upsert("s1", "generate_analysis", "Running psychometric analysis…", 10, "Alice")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/v1/sessions/s1/status?after=%d", first.Timestamp), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.SessionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 10, got.Progress)
	assert.Greater(t, got.Timestamp, first.Timestamp)
}

func TestGetStatus_BadAfter(t *testing.T) {
	router := newSessionRouter(session.NewStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/sessions/s1/status?after=notanumber", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
