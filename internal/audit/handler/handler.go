package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dealaudit/internal/audit"
	"dealaudit/pkg/domain"
	dErrors "dealaudit/pkg/domain-errors"
	"dealaudit/pkg/platform/httputil"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service runs the audit pipeline for one session.
type Service interface {
	Run(ctx context.Context, session audit.Session) (*audit.SessionResult, error)
}

// ReportLog is the read side of the audit store the admin feed needs.
type ReportLog interface {
	GetByID(ctx context.Context, id domain.ReportID) (*audit.AuditReport, error)
	ListRecent(ctx context.Context, limit int) ([]audit.AuditReport, error)
}

// Handler wires audit endpoints to the audit service and report log.
type Handler struct {
	service Service
	reports ReportLog
	logger  *slog.Logger
}

// New constructs an audit handler with its dependencies.
func New(service Service, reports ReportLog, logger *slog.Logger) *Handler {
	return &Handler{service: service, reports: reports, logger: logger}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/audit/sessions", h.HandleRunSession)
	r.Route("/admin/audit", func(r chi.Router) {
		r.Get("/reports", h.HandleListReports)
		r.Get("/reports/{reportID}", h.HandleGetReport)
		r.Get("/summary", h.HandleSummary)
	})
}

// HandleRunSession handles POST /audit/sessions.
func (h *Handler) HandleRunSession(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[RunSessionRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := req.ToDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Run(r.Context(), session)
	if err != nil {
		var invalid *audit.InvalidSessionError
		if errors.As(err, &invalid) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, invalid.Error()))
			return
		}
		h.logger.Error("audit run failed", "session_id", req.SessionID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleListReports handles GET /admin/audit/reports.
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be between 1 and 100"))
		return
	}

	reports, err := h.reports.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("list audit reports failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if reports == nil {
		reports = []audit.AuditReport{}
	}
	httputil.WriteJSON(w, http.StatusOK, reports)
}

// HandleGetReport handles GET /admin/audit/reports/{reportID}.
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInvalidInput, "invalid report id", err))
		return
	}

	report, err := h.reports.GetByID(r.Context(), id)
	if err != nil {
		if dErrors.CodeOf(err) != dErrors.CodeNotFound {
			h.logger.Error("get audit report failed", "report_id", id.String(), "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleSummary handles GET /admin/audit/summary, the dashboard trend feed.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", defaultListLimit)
	if window < 1 || window > maxListLimit {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "window must be between 1 and 100"))
		return
	}

	reports, err := h.reports.ListRecent(r.Context(), window)
	if err != nil {
		h.logger.Error("audit summary failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, buildSummary(window, reports))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}
