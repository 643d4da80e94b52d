package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/samudraneel05/TDSProject1/internal/app/intake"
	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

// SubmissionService is the intake logic the HTTP API exposes.
type SubmissionService interface {
	Submit(ctx context.Context, req intake.SubmitRequest) (*intake.SubmitResult, error)
	List(ctx context.Context) ([]model.Submission, error)
}

// HandlerConfig is the configuration for the HTTP API handler.
type HandlerConfig struct {
	Service SubmissionService
	Clock   func() time.Time
	Logger  log.Logger
}

func (c *HandlerConfig) defaults() error {
	if c.Service == nil {
		return fmt.Errorf("submission service is required")
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "httpapi.Handler"})
	return nil
}

type handler struct {
	svc    SubmissionService
	clock  func() time.Time
	logger log.Logger
}

// NewHandler returns the HTTP handler that serves the submission API.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	h := handler{
		svc:    cfg.Service,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/submit", h.submit)
		r.Get("/submissions", h.listSubmissions)
	})

	return r, nil
}

func (h handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": h.clock().UTC().Format(time.RFC3339),
	})
}

type submitRequest struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

func (h handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.svc.Submit(r.Context(), intake.SubmitRequest{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   req.RepoURL,
		CommitSHA: req.CommitSHA,
		PagesURL:  req.PagesURL,
	})
	switch {
	case errors.Is(err, intake.ErrNoMatchingTask):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "No matching task found",
			"details": "The provided email, task, round, and nonce do not match any sent task",
		})
		return
	case errors.Is(err, model.ErrNotValid):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Errorf("Could not process submission: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	message := "Submission updated"
	if res.Status == intake.SubmitStatusReceived {
		message = "Submission received"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"message":   message,
		"timestamp": res.Timestamp.UTC().Format(time.RFC3339),
	})
}

type submissionJSON struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

func (h handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorf("Could not list submissions: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	items := make([]submissionJSON, 0, len(subs))
	for _, s := range subs {
		items = append(items, submissionJSON{
			ID:        s.ID,
			Timestamp: s.UpdatedAt.UTC().Format(time.RFC3339),
			Email:     s.Identity,
			Task:      s.TaskID,
			Round:     s.Round,
			RepoURL:   s.RepoURL,
			CommitSHA: s.CommitSHA,
			PagesURL:  s.PagesURL,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(items),
		"submissions": items,
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (h handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		h.logger.Debugf("%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Millisecond))
	})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
