package api

import "net/http"

// NamesProvider lists the preset submitter names.
type NamesProvider interface {
	Names() []string
}

// NamesHandler handles GET /names.
type NamesHandler struct {
	deps NamesProvider
}

// NewNamesHandler creates a new names handler.
func NewNamesHandler(deps NamesProvider) *NamesHandler {
	return &NamesHandler{deps: deps}
}

type namesResponse struct {
	Names []string `json:"names"`
	Other string   `json:"other"`
}

// HandleGetNames returns the preset names plus the free-text choice.
func (h *NamesHandler) HandleGetNames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeFailure(r.Context(), w, NewKind("api.get_names", ErrMethodNotAllowed))
		return
	}
	writeJSON(w, http.StatusOK, namesResponse{Names: h.deps.Names(), Other: OtherName})
}
