package api

import (
	"context"
	"io"
	"net/http"

	"github.com/okian/predboard/internal/auth"
	"github.com/okian/predboard/internal/domain/types"
	"github.com/okian/predboard/internal/session"
	"github.com/okian/predboard/pkg/metrics"
)

// ActualsDependencies defines the actuals operations.
type ActualsDependencies interface {
	ActualsStatus(ctx context.Context, st *session.State) (types.ActualsStatus, error)
	UploadActuals(ctx context.Context, st *session.State, r io.Reader) (types.ActualsStatus, error)
	ClearActuals(ctx context.Context, st *session.State) error
}

// ActualsHandler handles /actuals requests.
type ActualsHandler struct {
	deps      ActualsDependencies
	sessions  SessionProvider
	maxUpload int64
}

// NewActualsHandler creates a new actuals handler.
func NewActualsHandler(deps ActualsDependencies, sessions SessionProvider, maxUpload int64) *ActualsHandler {
	return &ActualsHandler{deps: deps, sessions: sessions, maxUpload: maxUpload}
}

// HandleActuals dispatches GET, POST and DELETE on /actuals.
func (h *ActualsHandler) HandleActuals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleStatus(w, r)
	case http.MethodPost:
		h.handleUpload(w, r)
	case http.MethodDelete:
		h.handleClear(w, r)
	default:
		writeFailure(r.Context(), w, NewKind("api.actuals", ErrMethodNotAllowed))
	}
}

func (h *ActualsHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_actuals"
	st := currentSession(w, r, h.sessions)
	status, err := h.deps.ActualsStatus(r.Context(), st)
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *ActualsHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_actuals"
	st := currentSession(w, r, h.sessions)
	// Checked before reading the body so locked sessions cannot push large uploads.
	if !st.AdminUnlocked() {
		metrics.RecordAuthFailure()
		writeFailure(r.Context(), w, NewKind(op, auth.ErrUnauthorized))
		return
	}

	var form struct{}
	if err := decodeForm(w, r, h.maxUpload, &form); err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	f, err := formFile(r, "file")
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	defer func() { _ = f.Close() }()

	status, err := h.deps.UploadActuals(r.Context(), st, f)
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *ActualsHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_actuals"
	st := currentSession(w, r, h.sessions)
	if err := h.deps.ClearActuals(r.Context(), st); err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
