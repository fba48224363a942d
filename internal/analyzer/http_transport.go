package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/platform/errs"
)

const (
	requestTimeout = 10 * time.Second

	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

var errURLRequired = errors.New("the \"url\" field is required")

// Pinger reports whether the backing store is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Transport handles HTTP requests for sites and analyses.
type Transport struct {
	service *Service
	health  Pinger
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, health Pinger, logger *slog.Logger) *Transport {
	return &Transport{service: service, health: health, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to r.
func (t *Transport) RegisterRoutes(r chi.Router) {
	r.Get("/health", t.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sites", func(r chi.Router) {
			r.Post("/", t.handleCreateSite)
			r.Get("/", t.handleListSites)
			r.Get("/{siteId}", t.handleGetSite)
		})

		r.Route("/analysis/{siteId}", func(r chi.Router) {
			r.Post("/", t.handleStart)
			r.Get("/progress", t.handleProgress)
			r.Get("/jobs/{jobId}", t.handleJob)
			r.Get("/latest", t.handleLatest)
			r.Get("/history", t.handleHistory)
		})
	})
}

type createSiteRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

func (r createSiteRequest) validate() error {
	if r.URL == "" {
		return errURLRequired
	}
	return nil
}

type healthResponse struct {
	Status string `json:"status"`
}

func (t *Transport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if t.health != nil {
		if err := t.health.Ping(r.Context()); err != nil {
			t.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
			t.renderJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	t.renderJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (t *Transport) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req createSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return
	}

	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	site, err := t.service.CreateSite(ctx, req.URL, req.Name)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusCreated, site)
}

func (t *Transport) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := t.service.ListSites(r.Context())
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, sites)
}

func (t *Transport) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteID, ok := t.siteID(w, r)
	if !ok {
		return
	}

	site, err := t.service.GetSite(r.Context(), siteID)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, site)
}

func (t *Transport) handleStart(w http.ResponseWriter, r *http.Request) {
	siteID, ok := t.siteID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	job, err := t.service.Start(ctx, siteID)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusAccepted, job)
}

func (t *Transport) handleProgress(w http.ResponseWriter, r *http.Request) {
	siteID, ok := t.siteID(w, r)
	if !ok {
		return
	}

	job, err := t.service.Progress(r.Context(), siteID)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, job)
}

func (t *Transport) handleJob(w http.ResponseWriter, r *http.Request) {
	siteID, ok := t.siteID(w, r)
	if !ok {
		return
	}

	job, err := t.service.Job(r.Context(), siteID, chi.URLParam(r, "jobId"))
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, job)
}

func (t *Transport) handleLatest(w http.ResponseWriter, r *http.Request) {
	siteID, ok := t.siteID(w, r)
	if !ok {
		return
	}

	latest, err := t.service.Latest(r.Context(), siteID)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, latest)
}

func (t *Transport) handleHistory(w http.ResponseWriter, r *http.Request) {
	siteID, ok := t.siteID(w, r)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			t.renderError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100.")
			return
		}
		limit = n
	}

	records, err := t.service.History(r.Context(), siteID, limit)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, records)
}

// siteID parses the {siteId} path parameter, rendering a 400 on failure.
func (t *Transport) siteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "siteId"), 10, 64)
	if err != nil || id < 1 {
		t.renderError(w, http.StatusBadRequest, "siteId must be a positive integer.")
		return 0, false
	}
	return id, true
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		t.logger.Error("unhandled service error", slog.Any("error", err))
		t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	t.renderError(w, statusFor(errs.KindOf(err)), appErr.Message)
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.InvalidInput:
		return http.StatusBadRequest
	case errs.NotFound:
		return http.StatusNotFound
	case errs.Unreachable:
		return http.StatusBadGateway
	case errs.Timeout:
		return http.StatusGatewayTimeout
	case errs.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
