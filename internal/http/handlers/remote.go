package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
	"delivery-sync/internal/logx"
)

type remoteDirectory interface {
	ListPartners(ctx context.Context, location string, radius int) ([]domain.Partner, error)
	SyncStatus(ctx context.Context) (map[string]any, error)
}

// RemoteHandler proxies read-only lookups that have no local copy.
type RemoteHandler struct {
	remote remoteDirectory
	net    connectivity
	logger logx.Logger
}

// NewRemoteHandler wires the remote directory and the connectivity monitor.
func NewRemoteHandler(logger logx.Logger, remote remoteDirectory, net connectivity) *RemoteHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &RemoteHandler{remote: remote, net: net, logger: logger}
}

// Partners handles GET /partners?location=&radius=.
func (h *RemoteHandler) Partners(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	radius := 0
	if s := q.Get("radius"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid radius")
			return
		}
		radius = v
	}
	if !h.net.IsOnline() {
		writeAppError(h.logger, w, r, fmt.Errorf("partners: %w", apperr.ErrNetworkUnavailable))
		return
	}

	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	partners, err := h.remote.ListPartners(ctx, q.Get("location"), radius)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	if partners == nil {
		partners = []domain.Partner{}
	}
	writeJSON(h.logger, w, r, http.StatusOK, partners)
}

// SyncStatus handles GET /sync/remote-status.
func (h *RemoteHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	if !h.net.IsOnline() {
		writeAppError(h.logger, w, r, fmt.Errorf("remote sync status: %w", apperr.ErrNetworkUnavailable))
		return
	}

	ctx, cancel := withSyncTimeout(r.Context())
	defer cancel()

	st, err := h.remote.SyncStatus(ctx)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, st)
}
