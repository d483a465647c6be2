package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ibtsamraza/psychometric-analysis/internal/service"
	"github.com/ibtsamraza/psychometric-analysis/internal/session"
	"github.com/ibtsamraza/psychometric-analysis/internal/transport/rest/handler"
	"github.com/ibtsamraza/psychometric-analysis/internal/transport/rest/middleware"
	"github.com/ibtsamraza/psychometric-analysis/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	AnalysisService *service.AnalysisService
	Sessions        *session.Store
	Logger          *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	analyzeHandler := handler.NewAnalyzeHandler(c.AnalysisService, c.Logger)
	sessionHandler := handler.NewSessionHandler(c.Sessions)
	reportHandler := handler.NewReportHandler(c.AnalysisService)
	wsHandler := ws.NewHandler(c.Sessions, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/status", sessionHandler.GetStatus).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/analyze", analyzeHandler.Analyze).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/analyze/upload", analyzeHandler.AnalyzeUpload).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/reports/{sessionId}", reportHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
