// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/predboard/internal/adapters/repository"
	service "github.com/okian/predboard/internal/app"
	"github.com/okian/predboard/internal/auth"
	"github.com/okian/predboard/internal/domain/scoring"
	"github.com/okian/predboard/internal/domain/sequence"
	"github.com/okian/predboard/internal/domain/types"
	"github.com/okian/predboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionProvider
	AdminDependencies
	ActualsDependencies
	SubmissionDependencies
	LeaderboardDependencies
	RankDependencies
	NamesProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	adminHandler       *AdminHandler
	actualsHandler     *ActualsHandler
	submissionsHandler *SubmissionsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	namesHandler       *NamesHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// ?limit on /leaderboard and maxUpload caps request bodies carrying files.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int, maxUpload int64) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		adminHandler:       NewAdminHandler(deps, deps),
		actualsHandler:     NewActualsHandler(deps, deps, maxUpload),
		submissionsHandler: NewSubmissionsHandler(deps, deps, maxUpload),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		namesHandler:       NewNamesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/admin/unlock", MetricsMiddleware(s.adminHandler.HandleUnlock, "admin_unlock"))
	mux.HandleFunc("/admin/lock", MetricsMiddleware(s.adminHandler.HandleLock, "admin_lock"))
	mux.HandleFunc("/actuals", MetricsMiddleware(s.actualsHandler.HandleActuals, "actuals"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/names", MetricsMiddleware(s.namesHandler.HandleGetNames, "names"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = publicMessage(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and error code. Failures the user can
// fix are 4xx and carry the underlying message.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, service.ErrNoActuals):
		return http.StatusConflict, "no_actuals"
	case errors.Is(err, scoring.ErrLengthMismatch):
		return http.StatusBadRequest, "length_mismatch"
	case errors.Is(err, scoring.ErrEmptyInput):
		return http.StatusBadRequest, "empty_input"
	case errors.Is(err, sequence.ErrParse):
		return http.StatusBadRequest, "parse_error"
	case errors.Is(err, repository.ErrMissingName):
		return http.StatusBadRequest, "missing_name"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
