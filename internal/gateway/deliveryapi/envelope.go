package deliveryapi

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// listShape names the list layouts the remote API is known to return.
type listShape int

const (
	shapeUnknown listShape = iota
	shapeResults
	shapeRequests
	shapeNestedRequests
	shapeBareArray
)

func (s listShape) String() string {
	switch s {
	case shapeResults:
		return "results"
	case shapeRequests:
		return "requests"
	case shapeNestedRequests:
		return "data.requests"
	case shapeBareArray:
		return "array"
	default:
		return "unknown"
	}
}

// listEnvelope is the decoded list response, independent of its shape.
type listEnvelope struct {
	Shape    listShape
	Records  []recordDTO
	Count    int
	Next     string
	Previous string
}

type wrapped struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type listProbe struct {
	Results    json.RawMessage `json:"results"`
	Count      int             `json:"count"`
	Next       *string         `json:"next"`
	Previous   *string         `json:"previous"`
	Requests   json.RawMessage `json:"requests"`
	Pagination *paginationDTO  `json:"pagination"`
	Data       json.RawMessage `json:"data"`
}

// unwrap strips a {"success": ..., "data": ...} wrapper when present.
func unwrap(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return body
	}
	var w wrapped
	if err := json.Unmarshal(body, &w); err != nil {
		return body
	}
	if w.Success != nil && len(w.Data) > 0 {
		return bytes.TrimSpace(w.Data)
	}
	return body
}

func present(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) > 0 && !bytes.Equal(s, []byte("null"))
}

// decodeList resolves the list shape. Invalid JSON is an error; valid JSON
// of an unrecognized shape yields an empty shapeUnknown envelope.
func decodeList(body []byte) (listEnvelope, error) {
	body = unwrap(body)
	if len(body) == 0 {
		return listEnvelope{Shape: shapeUnknown}, nil
	}

	switch body[0] {
	case '[':
		var recs []recordDTO
		if err := json.Unmarshal(body, &recs); err != nil {
			return listEnvelope{}, decodeError("list", err)
		}
		return listEnvelope{Shape: shapeBareArray, Records: recs, Count: len(recs)}, nil
	case '{':
	default:
		if !json.Valid(body) {
			return listEnvelope{}, decodeError("list", errInvalidJSON)
		}
		return listEnvelope{Shape: shapeUnknown}, nil
	}

	var p listProbe
	if err := json.Unmarshal(body, &p); err != nil {
		return listEnvelope{}, decodeError("list", err)
	}

	switch {
	case present(p.Results):
		var recs []recordDTO
		if err := json.Unmarshal(p.Results, &recs); err != nil {
			return listEnvelope{}, decodeError("results", err)
		}
		env := listEnvelope{Shape: shapeResults, Records: recs, Count: p.Count}
		if p.Next != nil {
			env.Next = *p.Next
		}
		if p.Previous != nil {
			env.Previous = *p.Previous
		}
		return env, nil
	case present(p.Data):
		var nested listProbe
		if err := json.Unmarshal(p.Data, &nested); err != nil || !present(nested.Requests) {
			return listEnvelope{Shape: shapeUnknown}, nil
		}
		env, err := fromRequests(nested.Requests, nested.Pagination)
		env.Shape = shapeNestedRequests
		return env, err
	case present(p.Requests):
		env, err := fromRequests(p.Requests, p.Pagination)
		env.Shape = shapeRequests
		return env, err
	default:
		return listEnvelope{Shape: shapeUnknown}, nil
	}
}

func fromRequests(raw json.RawMessage, pg *paginationDTO) (listEnvelope, error) {
	var recs []recordDTO
	if err := json.Unmarshal(raw, &recs); err != nil {
		return listEnvelope{}, decodeError("requests", err)
	}
	env := listEnvelope{Records: recs, Count: len(recs)}
	if pg != nil {
		env.Count = pg.Total
		if pg.Page < pg.TotalPages {
			env.Next = "page=" + strconv.Itoa(pg.Page+1)
		}
		if pg.Page > 1 {
			env.Previous = "page=" + strconv.Itoa(pg.Page-1)
		}
	}
	return env, nil
}

// decodeRecord decodes a single, possibly wrapped, record.
func decodeRecord(body []byte) (recordDTO, error) {
	var d recordDTO
	if err := json.Unmarshal(unwrap(body), &d); err != nil {
		return recordDTO{}, decodeError("record", err)
	}
	return d, nil
}
