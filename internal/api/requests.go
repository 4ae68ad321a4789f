// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/synthrec/internal/synth"
	"github.com/tomtom215/synthrec/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// RecommendRequest is the body of POST /api/recommend and
// POST /api/recommend-simple. UserID is a pointer so that a missing field
// is told apart from user 0.
type RecommendRequest struct {
	DataType string `json:"dataType" validate:"required,oneof=ott social media"`
	UserID   *int   `json:"userId" validate:"required,min=0"`
	TopK     int    `json:"topK" validate:"omitempty,min=1,max=100"`
}

// Domain returns the validated data type as a synth.Domain.
func (r *RecommendRequest) Domain() synth.Domain {
	return synth.Domain(r.DataType)
}

// StoredRecommendationsRequest holds the parameters of
// GET /api/recommendations/{dataType}/{userId}. The user id arrives as a
// raw path segment and is sanitized before it is parsed.
type StoredRecommendationsRequest struct {
	DataType string `validate:"required,oneof=ott social media"`
	UserID   string `validate:"required,identifier"`
	TopK     int    `validate:"omitempty,min=1,max=100"`
}

// StatsRequest holds the query of GET /api/stats.
type StatsRequest struct {
	DataType string `validate:"required,oneof=ott social media"`
}

// errBadBody marks request bodies that are not a single JSON object.
var errBadBody = errors.New("request body must be a JSON object")

// decodeJSONBody reads one JSON object from the request body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadBody)
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: larger than %d bytes", errBadBody, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after object", errBadBody)
	}
	return nil
}

// queryInt parses an optional integer query parameter. A missing or empty
// parameter yields 0.
func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

// dataTypeParam reads the data type from ?dataType=, falling back to the
// older ?type= spelling.
func dataTypeParam(r *http.Request) string {
	q := r.URL.Query()
	if v := q.Get("dataType"); v != "" {
		return strings.ToLower(v)
	}
	return strings.ToLower(q.Get("type"))
}

// parseUserID converts a sanitized path user id into an index.
func parseUserID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("userId must be a non-negative integer, got %q", raw)
	}
	return id, nil
}

// validate runs struct validation and writes a 400 on failure. It reports
// whether the handler may continue.
func validate(rw *ResponseWriter, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
