package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	jobledger "jobescrow/contexts/escrow/job-ledger"
	ledgererrors "jobescrow/contexts/escrow/job-ledger/domain/errors"
	ledgerhttp "jobescrow/contexts/escrow/job-ledger/transport/http"
	judgingengine "jobescrow/contexts/escrow/judging-engine"
	judgeerrors "jobescrow/contexts/escrow/judging-engine/domain/errors"
	_ "jobescrow/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SenderHeader carries the caller address, the ledger's notion of identity.
const SenderHeader = "X-Sender-Address"

// ReadinessCheck reports whether backing services are reachable.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger
	addr   string
	jobs   jobledger.Module
	judge  judgingengine.Module
	ready  ReadinessCheck
}

func New(
	jobs jobledger.Module,
	judge judgingengine.Module,
	ready ReadinessCheck,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		jobs:   jobs,
		judge:  judge,
		ready:  ready,
	}
	s.registerRoutes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /readyz", s.handleReady)

	s.mux.HandleFunc("POST /v1/jobs", s.handlePostJob)
	s.mux.HandleFunc("GET /v1/jobs", s.handleListJobs)
	s.mux.HandleFunc("GET /v1/jobs/next-id", s.handleNextJobID)
	s.mux.HandleFunc("GET /v1/jobs/{job_id}", s.handleGetJob)
	s.mux.HandleFunc("POST /v1/jobs/{job_id}/delivery", s.handleSubmitDelivery)
	s.mux.HandleFunc("POST /v1/jobs/{job_id}/judge", s.handleJudge)
	s.mux.HandleFunc("GET /v1/jobs/{job_id}/budget", s.handleBudget)
	s.mux.HandleFunc("GET /v1/jobs/{job_id}/{field}", s.handleField)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handlePostJob(w http.ResponseWriter, r *http.Request) {
	sender, ok := requireSender(w, r)
	if !ok {
		return
	}

	var req ledgerhttp.PostJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.jobs.Handler.PostJobHandler(r.Context(), sender, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmitDelivery(w http.ResponseWriter, r *http.Request) {
	sender, ok := requireSender(w, r)
	if !ok {
		return
	}
	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	var req ledgerhttp.SubmitDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.jobs.Handler.SubmitDeliveryHandler(r.Context(), sender, jobID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJudge(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	resp, err := s.judge.Handler.JudgeHandler(r.Context(), jobID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	resp, err := s.jobs.Handler.GetJobHandler(r.Context(), jobID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.jobs.Handler.ListJobsHandler(
		r.Context(),
		query.Get("client"),
		query.Get("freelancer"),
		query.Get("status"),
	)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNextJobID(w http.ResponseWriter, r *http.Request) {
	resp, err := s.jobs.Handler.NextJobIDHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	resp, err := s.jobs.Handler.BudgetHandler(r.Context(), jobID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	resp, err := s.jobs.Handler.FieldHandler(r.Context(), jobID, r.PathValue("field"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidJobInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrJobNotFound),
		errors.Is(err, judgeerrors.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidStatusTransition),
		errors.Is(err, judgeerrors.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, judgeerrors.ErrJudgeInProgress):
		writeError(w, http.StatusConflict, "judge_in_progress", err.Error())
	case errors.Is(err, ledgererrors.ErrIdempotencyKeyConflict):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, judgeerrors.ErrNoConsensus):
		writeError(w, http.StatusBadGateway, "no_consensus", err.Error())
	case errors.Is(err, judgeerrors.ErrFetchFailed):
		writeError(w, http.StatusBadGateway, "fetch_failed", err.Error())
	case errors.Is(err, judgeerrors.ErrMalformedVerdict):
		writeError(w, http.StatusBadGateway, "malformed_verdict", err.Error())
	case errors.Is(err, judgeerrors.ErrEvaluationFailed):
		writeError(w, http.StatusBadGateway, "evaluation_failed", err.Error())
	default:
		s.logger.Error("unhandled request error",
			"event", "http_internal_error",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireSender(w http.ResponseWriter, r *http.Request) (string, bool) {
	sender := strings.TrimSpace(r.Header.Get(SenderHeader))
	if sender == "" {
		writeError(w, http.StatusUnauthorized, "missing_sender", SenderHeader+" header is required")
		return "", false
	}
	return sender, true
}

func parseJobID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	jobID, err := strconv.ParseUint(r.PathValue("job_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_job_id", "job_id must be a non-negative integer")
		return 0, false
	}
	return jobID, true
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
