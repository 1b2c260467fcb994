package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/okian/predboard/internal/domain/types"
	"github.com/okian/predboard/internal/session"
)

// OtherName is the name choice that defers to the free-text other_name field.
const OtherName = "Other"

// SubmissionDependencies defines the scoring operation.
type SubmissionDependencies interface {
	Submit(ctx context.Context, st *session.State, name string, predictions io.Reader) (types.Outcome, error)
}

// SubmissionsHandler handles prediction uploads.
type SubmissionsHandler struct {
	deps      SubmissionDependencies
	sessions  SessionProvider
	maxUpload int64
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps SubmissionDependencies, sessions SessionProvider, maxUpload int64) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps, sessions: sessions, maxUpload: maxUpload}
}

type submissionForm struct {
	Name      string `schema:"name"`
	OtherName string `schema:"other_name"`
}

// resolvedName returns the submitter name, honouring the "Other" choice.
func (f submissionForm) resolvedName() string {
	if strings.EqualFold(strings.TrimSpace(f.Name), OtherName) {
		return f.OtherName
	}
	return f.Name
}

// HandlePostSubmission handles POST /submissions requests.
func (h *SubmissionsHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	if r.Method != http.MethodPost {
		writeFailure(r.Context(), w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	st := currentSession(w, r, h.sessions)

	var form submissionForm
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

	outcome, err := h.deps.Submit(r.Context(), st, form.resolvedName(), f)
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
