// Package deliveryapi is the typed client of the remote delivery REST API.
// It owns the translation between server records and local records.
package deliveryapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"delivery-sync/internal/apperr"
	"delivery-sync/internal/domain"
)

const maxBodyBytes = 4 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	Rate       float64
	Burst      int
	HTTPClient *http.Client
	Now        func() time.Time
}

// Client calls the remote delivery API.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	now     func() time.Time

	mu    sync.RWMutex
	token string
}

// New builds a client. A non-positive rate disables throttling.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		limiter: limiter,
		now:     now,
		token:   opts.Token,
	}
}

// SetToken replaces the bearer token used for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Ping probes connectivity with OPTIONS /auth/login/. Any HTTP answer means reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.base+"/auth/login/", nil)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(apperr.ErrNetworkUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	return nil
}

// CreateRequest creates rec remotely and returns the server view of it.
func (c *Client) CreateRequest(ctx context.Context, rec domain.DeliveryRequest) (domain.DeliveryRequest, error) {
	body, err := c.do(ctx, http.MethodPost, "/delivery-requests/", nil, toCreatePayload(rec, false))
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	d, err := decodeRecord(body)
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	if d.ID == nil {
		return domain.DeliveryRequest{}, decodeError("create response", errors.New("missing id"))
	}
	return toDomain(d, c.now()), nil
}

// UpdateRequest patches status and driver of a remote record.
func (c *Client) UpdateRequest(ctx context.Context, serverID int64, upd domain.RequestUpdate) (domain.DeliveryRequest, error) {
	path := "/delivery-requests/" + strconv.FormatInt(serverID, 10) + "/"
	body, err := c.do(ctx, http.MethodPatch, path, nil, updatePayload{Status: string(upd.Status), Driver: upd.DriverID})
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.DeliveryRequest{ServerID: &serverID, Status: upd.Status}, nil
	}
	d, err := decodeRecord(body)
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	if d.ID == nil {
		d.ID = &serverID
	}
	return toDomain(d, c.now()), nil
}

// GetRequest fetches one remote record.
func (c *Client) GetRequest(ctx context.Context, serverID int64) (domain.DeliveryRequest, error) {
	body, err := c.do(ctx, http.MethodGet, "/delivery-requests/"+strconv.FormatInt(serverID, 10)+"/", nil, nil)
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	d, err := decodeRecord(body)
	if err != nil {
		return domain.DeliveryRequest{}, err
	}
	return toDomain(d, c.now()), nil
}

// DeleteRequest deletes one remote record.
func (c *Client) DeleteRequest(ctx context.Context, serverID int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/delivery-requests/"+strconv.FormatInt(serverID, 10)+"/", nil, nil)
	return err
}

// ListRequests lists the caller's requests.
func (c *Client) ListRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error) {
	return c.list(ctx, "/delivery-requests/", q)
}

// ListAssignedRequests lists the requests assigned to the authenticated driver.
func (c *Client) ListAssignedRequests(ctx context.Context, q domain.ListQuery) (domain.RequestPage, error) {
	return c.list(ctx, "/delivery-requests/assigned/", q)
}

func (c *Client) list(ctx context.Context, path string, q domain.ListQuery) (domain.RequestPage, error) {
	body, err := c.do(ctx, http.MethodGet, path, listValues(q), nil)
	if err != nil {
		return domain.RequestPage{}, err
	}
	env, err := decodeList(body)
	if err != nil {
		return domain.RequestPage{}, err
	}
	return domain.RequestPage{
		Results:  toDomainList(env.Records, c.now()),
		Count:    env.Count,
		Next:     env.Next,
		Previous: env.Previous,
	}, nil
}

func listValues(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	return v
}

// SyncBatch posts queued records to the bulk endpoint. The returned records
// are whatever the server echoed back; the list may be empty.
func (c *Client) SyncBatch(ctx context.Context, recs []domain.DeliveryRequest) ([]domain.DeliveryRequest, error) {
	payload := batchPayload{Requests: make([]createPayload, 0, len(recs))}
	for _, r := range recs {
		payload.Requests = append(payload.Requests, toCreatePayload(r, true))
	}
	body, err := c.do(ctx, http.MethodPost, "/sync/pending/", nil, payload)
	if err != nil {
		return nil, err
	}
	// The ack body is informational; an unreadable one is not a failure.
	env, err := decodeList(body)
	if err != nil {
		return nil, nil
	}
	return toDomainList(env.Records, c.now()), nil
}

// SyncStatus returns the server-side sync report.
func (c *Client) SyncStatus(ctx context.Context) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, "/sync/status/", nil, nil)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	var w wrapped
	if err := json.Unmarshal(body, &w); err != nil || !present(w.Data) {
		return out, nil
	}
	if err := json.Unmarshal(w.Data, &out); err != nil {
		return map[string]any{}, nil
	}
	return out, nil
}

// Statistics fetches role-scoped statistics. A malformed envelope yields zeroes.
func (c *Client) Statistics(ctx context.Context, period domain.StatsPeriod, role domain.Role) (domain.Statistics, error) {
	if period == "" {
		period = domain.PeriodAll
	}
	zero := domain.Statistics{Period: period}

	scope := "customer"
	if role == domain.RoleDriver {
		scope = "driver"
	}
	v := url.Values{}
	if period != domain.PeriodAll {
		v.Set("period", string(period))
	}
	body, err := c.do(ctx, http.MethodGet, "/statistics/"+scope+"/", v, nil)
	if err != nil {
		return zero, err
	}
	var resp struct {
		Success bool               `json:"success"`
		Data    *domain.Statistics `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !resp.Success || resp.Data == nil {
		return zero, nil
	}
	if resp.Data.Period == "" {
		resp.Data.Period = period
	}
	return *resp.Data, nil
}

// ListPartners lists drivers available for assignment.
func (c *Client) ListPartners(ctx context.Context, location string, radius int) ([]domain.Partner, error) {
	v := url.Values{}
	if location != "" {
		v.Set("location", location)
	}
	if radius > 0 {
		v.Set("radius", strconv.Itoa(radius))
	}
	body, err := c.do(ctx, http.MethodGet, "/partners/", v, nil)
	if err != nil {
		return nil, err
	}
	var partners []domain.Partner
	if err := json.Unmarshal(unwrap(body), &partners); err != nil {
		return []domain.Partner{}, nil
	}
	if partners == nil {
		partners = []domain.Partner{}
	}
	return partners, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(method, path, err)
	}

	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: body}
	}
	return body, nil
}
