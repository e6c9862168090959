package handlers

import (
	"net/http"

	"delivery-sync/internal/logx"
)

// RequestHandler serves the delivery request intents.
type RequestHandler struct {
	uc     requestUsecase
	logger logx.Logger
}

// NewRequestHandler wires a requestUsecase into HTTP handlers.
func NewRequestHandler(logger logx.Logger, uc requestUsecase) *RequestHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &RequestHandler{uc: uc, logger: logger}
}

// List handles GET /requests.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, newListResponse(h.uc.List(r.Context())))
}

// GetByID handles GET /requests/{id}.
func (h *RequestHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rec)
}

// Create handles POST /requests. The record is committed locally even when
// the remote push fails; its syncStatus tells the caller what happened.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	rec, err := h.uc.Create(ctx, body.toModel())
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/requests/"+rec.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, rec)
}

// UpdateStatus handles PATCH /requests/{id}/status.
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var body statusBody
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	rec, err := h.uc.UpdateStatus(ctx, id, body.Status)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rec)
}

// AssignPartner handles POST /requests/{id}/partner.
func (h *RequestHandler) AssignPartner(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var body partnerBody
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	rec, err := h.uc.AssignPartner(ctx, id, body.PartnerID, body.PartnerName)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rec)
}

// Sync handles POST /requests/{id}/sync.
func (h *RequestHandler) Sync(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	rec, err := h.uc.SyncOne(ctx, id)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, rec)
}
