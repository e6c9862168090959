package handlers

import (
	"net/http"

	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
)

// SyncHandler exposes queue, refresh and connectivity controls.
type SyncHandler struct {
	uc     syncUsecase
	net    connectivity
	logger logx.Logger
}

// NewSyncHandler wires the sync usecase and the connectivity monitor.
func NewSyncHandler(logger logx.Logger, uc syncUsecase, net connectivity) *SyncHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SyncHandler{uc: uc, net: net, logger: logger}
}

// Status handles GET /sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.uc.Status(r.Context()))
}

// Pending handles GET /sync/pending.
func (h *SyncHandler) Pending(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, newListResponse(h.uc.Pending(r.Context())))
}

// Drain handles POST /sync/pending.
func (h *SyncHandler) Drain(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	res, err := h.uc.SyncPending(ctx)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, res)
}

// Refresh handles POST /sync/refresh.
func (h *SyncHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	res, err := h.uc.Refresh(ctx)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, res)
}

// Force handles POST /sync/force.
func (h *SyncHandler) Force(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	res, err := h.uc.ForceSync(ctx)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, res)
}

// SetConnectivity handles PUT /connectivity.
func (h *SyncHandler) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	var body connectivityBody
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}
	if body.Online == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "online is required")
		return
	}
	changed := h.net.Set(*body.Online)
	writeJSON(h.logger, w, r, http.StatusOK, connectivityResponse{
		Online:  h.net.IsOnline(),
		Changed: changed,
	})
}

// LocalStats handles GET /statistics.
func (h *SyncHandler) LocalStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.uc.Stats(r.Context()))
}

// RemoteStats handles GET /statistics/remote?period=.
func (h *SyncHandler) RemoteStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	period := domain.StatsPeriod(r.URL.Query().Get("period"))
	st, err := h.uc.RemoteStatistics(ctx, period)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, st)
}
