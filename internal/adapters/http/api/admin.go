package api

import (
	"context"
	"net/http"

	"github.com/okian/predboard/internal/session"
)

const adminFormLimit = 64 << 10

// AdminDependencies defines the admin gate operations.
type AdminDependencies interface {
	Unlock(ctx context.Context, st *session.State, credential string) error
	Lock(ctx context.Context, st *session.State)
}

// AdminHandler handles the admin unlock and lock requests.
type AdminHandler struct {
	deps     AdminDependencies
	sessions SessionProvider
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies, sessions SessionProvider) *AdminHandler {
	return &AdminHandler{deps: deps, sessions: sessions}
}

type unlockForm struct {
	Password string `schema:"password"`
}

type adminResponse struct {
	Unlocked bool `json:"unlocked"`
}

// HandleUnlock handles POST /admin/unlock requests.
func (h *AdminHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_unlock"
	if r.Method != http.MethodPost {
		writeFailure(r.Context(), w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	st := currentSession(w, r, h.sessions)

	var form unlockForm
	if err := decodeForm(w, r, adminFormLimit, &form); err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	if err := h.deps.Unlock(r.Context(), st, form.Password); err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, adminResponse{Unlocked: true})
}

// HandleLock handles POST /admin/lock requests.
func (h *AdminHandler) HandleLock(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_lock"
	if r.Method != http.MethodPost {
		writeFailure(r.Context(), w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	st := currentSession(w, r, h.sessions)
	h.deps.Lock(r.Context(), st)
	writeJSON(w, http.StatusOK, adminResponse{Unlocked: false})
}
