package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
	"delivery-sync/internal/http/handlers"
	"delivery-sync/internal/http/middleware"
	"delivery-sync/internal/http/router"
	"delivery-sync/internal/logx"
	"delivery-sync/internal/metrics"
	"delivery-sync/internal/reachability"
	"delivery-sync/internal/repository"
	"delivery-sync/internal/service/syncer"
)

type unreachableAPI struct{}

func (unreachableAPI) CreateRequest(context.Context, domain.DeliveryRequest) (domain.DeliveryRequest, error) {
	return domain.DeliveryRequest{}, apperr.ErrRemoteUnavailable
}

func (unreachableAPI) UpdateRequest(context.Context, int64, domain.RequestUpdate) (domain.DeliveryRequest, error) {
	return domain.DeliveryRequest{}, apperr.ErrRemoteUnavailable
}

func (unreachableAPI) ListRequests(context.Context, domain.ListQuery) (domain.RequestPage, error) {
	return domain.RequestPage{}, apperr.ErrRemoteUnavailable
}

func (unreachableAPI) ListAssignedRequests(context.Context, domain.ListQuery) (domain.RequestPage, error) {
	return domain.RequestPage{}, apperr.ErrRemoteUnavailable
}

func (unreachableAPI) SyncBatch(context.Context, []domain.DeliveryRequest) ([]domain.DeliveryRequest, error) {
	return nil, apperr.ErrRemoteUnavailable
}

func (unreachableAPI) Statistics(context.Context, domain.StatsPeriod, domain.Role) (domain.Statistics, error) {
	return domain.Statistics{}, apperr.ErrRemoteUnavailable
}

func (unreachableAPI) ListPartners(context.Context, string, int) ([]domain.Partner, error) {
	return nil, apperr.ErrRemoteUnavailable
}

func (unreachableAPI) SyncStatus(context.Context) (map[string]any, error) {
	return nil, apperr.ErrRemoteUnavailable
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mon := reachability.NewMonitor(false, reachability.WithDispatch(func(func()) {}))
	store := repository.NewRecordStore(repository.NewMemorySlots(), nil, nil)
	engine := syncer.NewEngine(store, unreachableAPI{}, mon)

	httpMetrics := metrics.NewHTTP()
	reg := prometheus.NewRegistry()
	reg.MustRegister(httpMetrics.Collectors()...)

	h := router.New(router.Deps{
		Base:        handlers.New(logx.Nop()),
		Requests:    handlers.NewRequestHandler(logx.Nop(), engine),
		Sync:        handlers.NewSyncHandler(logx.Nop(), engine, mon),
		Session:     handlers.NewSessionHandler(logx.Nop(), engine),
		Remote:      handlers.NewRemoteHandler(logx.Nop(), unreachableAPI{}, mon),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Middlewares: []func(http.Handler) http.Handler{middleware.Observability(logx.Nop(), httpMetrics)},
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouter_OfflineLifecycle(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/requests",
		`{"pickupAddress":"A","dropoffAddress":"B","customerName":"C","customerPhone":"123"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.DeliveryRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, domain.SyncOffline, created.SyncStatus)

	resp = do(t, srv, http.MethodGet, "/requests/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/sync/pending", "")
	var pending struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pending))
	require.Equal(t, 1, pending.Count)

	resp = do(t, srv, http.MethodPost, "/sync/force", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/partners?radius=5", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/connectivity", `{"online":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/sync/force", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/sync/remote-status", "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/requests", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Zero(t, list.Count)
}

func TestRouter_NotFoundAndMetrics(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/requests", "")
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp = do(t, srv, http.MethodHead, "/healthcheck", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), `http_requests_total{method="GET"`)
	require.Contains(t, string(raw), `status="404"`)
}
