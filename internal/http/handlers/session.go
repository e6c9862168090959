package handlers

import (
	"net/http"

	"delivery-sync/internal/logx"
)

// SessionHandler manages the cached user profile.
type SessionHandler struct {
	uc     sessionUsecase
	logger logx.Logger
}

// NewSessionHandler wires a sessionUsecase into HTTP handlers.
func NewSessionHandler(logger logx.Logger, uc sessionUsecase) *SessionHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SessionHandler{uc: uc, logger: logger}
}

// Get handles GET /session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := h.uc.Session(r.Context())
	if sess == nil {
		writeError(h.logger, w, r, http.StatusNotFound, "no session")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sess)
}

// Put handles PUT /session.
func (h *SessionHandler) Put(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}
	sess := body.toModel()
	if err := h.uc.SaveSession(r.Context(), sess); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sess)
}

// Delete handles DELETE /session and wipes all local data.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.uc.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
