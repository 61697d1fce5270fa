// Package httpapi exposes the program queries, cascade delete and invitation
// responses over JSON HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"partnerhub/internal/core"
	"partnerhub/internal/programs"
	"partnerhub/pkg/domain"
)

// Programs is the program service surface the handler needs.
type Programs interface {
	Catalog(ctx context.Context, opts programs.CatalogOptions) []programs.CatalogItem
	SummariesForPartner(ctx context.Context, partnerID string, opts programs.PartnerOptions) []programs.ProgramSummary
	PartnerMetrics(ctx context.Context, partnerID string, opts programs.PartnerOptions) programs.PartnerProgramMetrics
	Summary(ctx context.Context, programID string) (programs.ProgramSummary, bool)
	DeleteProgram(ctx context.Context, programID string) (bool, error)
	MyPrograms(ctx context.Context, sessions domain.SessionProvider) (domain.Partner, []programs.ProgramSummary, bool)
	AcceptInvitation(ctx context.Context, token, actorID string) (domain.ProgramInvitation, error)
	DeclineInvitation(ctx context.Context, token, actorID string) (domain.ProgramInvitation, error)
}

// Handler routes /api/v1 requests to the program service.
type Handler struct {
	Programs Programs
	Sessions domain.SessionProvider
	Logger   core.Logger

	router chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithSessions sets the provider consulted by /api/v1/me routes.
func WithSessions(p domain.SessionProvider) Option {
	return func(h *Handler) { h.Sessions = p }
}

// WithLogger sets the request logger.
func WithLogger(l core.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.Logger = l
		}
	}
}

// NewHandler constructs the API handler.
func NewHandler(p Programs, opts ...Option) *Handler {
	h := &Handler{Programs: p, Sessions: ContextSessions{}, Logger: nopLogger{}}
	for _, opt := range opts {
		opt(h)
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", h.handleCatalog)
		r.Route("/partners/{partnerID}", func(r chi.Router) {
			r.Get("/programs", h.handlePartnerPrograms)
			r.Get("/metrics", h.handlePartnerMetrics)
		})
		r.Get("/programs/{programID}", h.handleProgram)
		r.Delete("/programs/{programID}", h.handleDeleteProgram)
		r.Get("/me/programs", h.handleMyPrograms)
		r.Post("/invitations/{token}/accept", h.handleAnswer(true))
		r.Post("/invitations/{token}/decline", h.handleAnswer(false))
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Programs == nil {
		writeError(w, http.StatusInternalServerError, "program service not configured")
		return
	}
	h.router.ServeHTTP(w, r)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	includePrivate, ok := boolQuery(w, r, "includePrivate")
	if !ok {
		return
	}
	items := h.Programs.Catalog(r.Context(), programs.CatalogOptions{IncludePrivate: includePrivate})
	writeJSON(w, http.StatusOK, map[string]any{"catalog": items})
}

func (h *Handler) handlePartnerPrograms(w http.ResponseWriter, r *http.Request) {
	opts, ok := partnerOptions(w, r)
	if !ok {
		return
	}
	summaries := h.Programs.SummariesForPartner(r.Context(), chi.URLParam(r, "partnerID"), opts)
	writeJSON(w, http.StatusOK, map[string]any{"programs": summaries})
}

func (h *Handler) handlePartnerMetrics(w http.ResponseWriter, r *http.Request) {
	opts, ok := partnerOptions(w, r)
	if !ok {
		return
	}
	metrics := h.Programs.PartnerMetrics(r.Context(), chi.URLParam(r, "partnerID"), opts)
	writeJSON(w, http.StatusOK, map[string]any{"metrics": metrics})
}

func (h *Handler) handleProgram(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.Programs.Summary(r.Context(), chi.URLParam(r, "programID"))
	if !ok {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (h *Handler) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	programID := chi.URLParam(r, "programID")
	removed, err := h.Programs.DeleteProgram(r.Context(), programID)
	if err != nil {
		h.Logger.Error("delete program failed", "program_id", programID, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMyPrograms(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	if _, ok := h.Sessions.CurrentSession(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	partner, summaries, ok := h.Programs.MyPrograms(r.Context(), h.Sessions)
	if !ok {
		writeError(w, http.StatusNotFound, "no partner for session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"partner":  partner,
		"programs": summaries,
		"metrics":  programs.AggregateProgramMetrics(summaries),
	})
}

func (h *Handler) handleAnswer(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		actor := ""
		if h.Sessions != nil {
			if s, ok := h.Sessions.CurrentSession(r.Context()); ok {
				actor = s.Email
			}
		}
		answer := h.Programs.DeclineInvitation
		if accept {
			answer = h.Programs.AcceptInvitation
		}
		inv, err := answer(r.Context(), token, actor)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{"invitation": inv})
		case errors.Is(err, programs.ErrInvitationNotFound):
			writeError(w, http.StatusNotFound, "invitation not found")
		case errors.Is(err, programs.ErrInvitationClosed), errors.Is(err, programs.ErrInvitationExpired):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.Logger.Error("answer invitation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "invitation update failed")
		}
	}
}

func partnerOptions(w http.ResponseWriter, r *http.Request) (programs.PartnerOptions, bool) {
	related, ok := boolQuery(w, r, "includeRelated")
	return programs.PartnerOptions{IncludeRelated: related}, ok
}

func boolQuery(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return false, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
