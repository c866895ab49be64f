package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/pipeline-leak-watch/internal/diagnosis"
	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

// WriteTimeout bounds a response, including narrative calls that wait on the
// completion API. OPENAI_TIMEOUT is capped below it.
const WriteTimeout = 60 * time.Second

// FleetService is the read side of the monitor the API serves.
type FleetService interface {
	Fleet() []domain.PipelineEntity
	Pipeline(id int) (domain.PipelineEntity, error)
	Threshold() float64
	KPIs(threshold float64) domain.KPIStats
	AdvancedKPIs(threshold float64) domain.AdvancedKPIs
	Regions() []domain.RegionalRisk
	Simulate(id int) (domain.CascadeResult, error)
	WhatIf(id int, attribute string, percent float64) (domain.WhatIfResult, error)
	History(id, days int) ([]domain.HistoryPoint, error)
}

// Narrator produces narrative diagnostics. A nil Narrator disables the
// narrative endpoints.
type Narrator interface {
	Diagnose(ctx context.Context, p domain.PipelineEntity) (diagnosis.Diagnosis, error)
	RootCause(ctx context.Context, p domain.PipelineEntity) (diagnosis.RootCause, error)
	FollowUp(ctx context.Context, req diagnosis.FollowUpRequest) (string, error)
}

// Server exposes the fleet API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	fleet      FleetService
	narrator   Narrator
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, fleet FleetService, narrator Narrator, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
		fleet:    fleet,
		narrator: narrator,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/pipelines", s.handleFleet)
	mux.HandleFunc("GET /api/pipelines/{id}", s.handlePipeline)
	mux.HandleFunc("GET /api/pipelines/{id}/history", s.handleHistory)
	mux.HandleFunc("POST /api/pipelines/{id}/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/pipelines/{id}/what-if", s.handleWhatIf)
	mux.HandleFunc("GET /api/kpis", s.handleKPIs)
	mux.HandleFunc("GET /api/kpis/advanced", s.handleAdvancedKPIs)
	mux.HandleFunc("GET /api/regions", s.handleRegions)

	mux.HandleFunc("POST /api/diagnose", s.handleDiagnose)
	mux.HandleFunc("POST /api/root-cause", s.handleRootCause)
	mux.HandleFunc("POST /api/follow-up", s.handleFollowUp)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr, "narrative_enabled", s.narrator != nil)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
