package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ibtsamraza/psychometric-analysis/internal/service"
)

// ReportHandler serves persisted session reports
type ReportHandler struct {
	analysisSvc *service.AnalysisService
}

// NewReportHandler creates a new report handler
func NewReportHandler(analysisSvc *service.AnalysisService) *ReportHandler {
	return &ReportHandler{analysisSvc: analysisSvc}
}

// Get handles GET /v1/reports/{sessionId}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	report, err := h.analysisSvc.GetReport(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
