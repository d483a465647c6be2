package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
	"github.com/ibtsamraza/psychometric-analysis/internal/service"
)

// AnalyzeHandler handles analysis endpoints
type AnalyzeHandler struct {
	analysisSvc *service.AnalysisService
	logger      *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analysisSvc *service.AnalysisService, logger *zap.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{analysisSvc: analysisSvc, logger: logger}
}

type analyzeResponse struct {
	SessionID string               `json:"sessionId"`
	Report    *model.SessionReport `json:"report,omitempty"`
}

// Analyze handles POST /v1/analyze. With ?async=true the batch runs in
// the background and only the session ID is returned; progress is then
// observable via the session endpoints.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.run(w, r, req)
}

// AnalyzeUpload handles POST /v1/analyze/upload: multipart form with a
// "scores" and an "items" CSV file and an optional "name" field, parsed
// into a single-profile batch.
func (h *AnalyzeHandler) AnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	const maxUpload = 10 << 20
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	scoresFile, _, err := r.FormFile("scores")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing scores file")
		return
	}
	defer scoresFile.Close()

	itemsFile, _, err := r.FormFile("items")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing items file")
		return
	}
	defer itemsFile.Close()

	domains, err := service.ParseScoresCSV(scoresFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, responses, err := service.ParseItemsCSV(itemsFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = "Sheet1"
	}

	h.run(w, r, model.AnalyzeRequest{
		Profiles: []model.ProfileInput{{
			Name:      name,
			Domains:   domains,
			Items:     items,
			Responses: responses,
		}},
	})
}

func (h *AnalyzeHandler) run(w http.ResponseWriter, r *http.Request, req model.AnalyzeRequest) {
	if len(req.Profiles) == 0 {
		writeError(w, http.StatusBadRequest, service.ErrNoProfiles.Error())
		return
	}

	sessionID := uuid.New().String()

	if r.URL.Query().Get("async") == "true" {
		// Detach from the request context; the run outlives the response.
		go func() {
			if _, err := h.analysisSvc.AnalyzeBatch(context.Background(), req, sessionID); err != nil {
				h.logger.Error("async analyze batch failed", zap.String("session", sessionID), zap.Error(err))
			}
		}()
		writeJSON(w, http.StatusAccepted, analyzeResponse{SessionID: sessionID})
		return
	}

	report, err := h.analysisSvc.AnalyzeBatch(r.Context(), req, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrNoProfiles) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{SessionID: sessionID, Report: report})
}
