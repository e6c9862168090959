package deliveryapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"delivery-sync/internal/apperr"
)

// StatusError is a non-2xx answer from the remote API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   []byte
}

func (e *StatusError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, msg)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// Unwrap classifies the status into the sync error taxonomy.
func (e *StatusError) Unwrap() error {
	if e.Temporary() {
		return apperr.ErrRemoteUnavailable
	}
	return apperr.ErrRemoteRejected
}

// Temporary reports whether the server asked to come back later.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

// Message returns the "message" or "detail" of the error body, if any.
func (e *StatusError) Message() string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Detail
}

// FieldErrors decodes a 400 body of the form {"field": ["msg", ...]}.
func (e *StatusError) FieldErrors() map[string][]string {
	if e.Code != http.StatusBadRequest {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for k, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[k] = list
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err == nil {
			out[k] = []string{one}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AsStatusError extracts a *StatusError from err.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func transportError(method, path string, err error) error {
	return fmt.Errorf("%s %s: %w", method, path, errors.Join(apperr.ErrRemoteUnavailable, err))
}

func decodeError(what string, err error) error {
	return fmt.Errorf("decode %s: %w", what, errors.Join(apperr.ErrRemoteUnavailable, err))
}

var errInvalidJSON = errors.New("invalid json")
