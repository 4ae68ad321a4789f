// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	mw.RateLimitWindow = time.Minute
	f := newFixture(t, fixtureOptions{middleware: mw})

	for i := 0; i < 2; i++ {
		if rec := f.do(t, http.MethodGet, "/api/stats?dataType=ott", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := f.do(t, http.MethodGet, "/api/stats?dataType=ott", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing on 429")
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("429 envelope = %+v, want %s", env.Error, ErrCodeTooManyRequests)
	}

	// Health checks are never limited.
	for i := 0; i < 5; i++ {
		if rec := f.do(t, http.MethodGet, "/api/health", nil); rec.Code != http.StatusOK {
			t.Fatalf("health request %d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	t.Parallel()
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 1
	mw.RateLimitDisabled = true
	f := newFixture(t, fixtureOptions{middleware: mw})

	for i := 0; i < 5; i++ {
		if rec := f.do(t, http.MethodGet, "/api/stats?dataType=ott", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()
	f := newFixture(t, fixtureOptions{})

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound, ErrCodeNotFound},
		{"ncf path not served", http.MethodGet, "/api/ncf/3", http.StatusNotFound, ErrCodeNotFound},
		{"get on post route", http.MethodGet, "/api/recommend", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{"post on get route", http.MethodPost, "/api/stats", http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := f.do(t, tt.method, tt.target, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t, fixtureOptions{})

	f.do(t, http.MethodGet, "/api/recommendations/ott/0", nil)

	rec := f.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"synthrec_api_requests_total",
		`endpoint="/api/recommendations/{dataType}/{userId}"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics output missing %s", want)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	mw.CORSAllowedOrigins = []string{"https://dashboard.example"}
	f := newFixture(t, fixtureOptions{middleware: mw})

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{"allowed origin", "https://dashboard.example", "https://dashboard.example"},
		{"other origin", "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodOptions, "/api/recommend", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			f.server.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestRouter_GzipResponses(t *testing.T) {
	t.Parallel()
	f := newFixture(t, fixtureOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations/ott/0", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env testEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success {
		t.Errorf("gzip response envelope = %+v, want success", env)
	}
}
