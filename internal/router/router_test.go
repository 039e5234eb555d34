// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/handlers"
	"affiliatedesk/internal/middleware"
	"affiliatedesk/internal/store"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func newTestRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	st := store.New(store.NewMemoryAdapter())
	session := dispatch.NewSession(nil, nil, dispatch.Pacing{})
	catalog, err := compose.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	limiter := middleware.NewRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)
	return New(handlers.NewAPI(st, session, catalog, nil), limiter)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t, 10)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{"GET", "/health", "", http.StatusOK},
		{"GET", "/api/dashboard", "", http.StatusOK},
		{"GET", "/api/affiliates", "", http.StatusOK},
		{"POST", "/api/affiliates", `{}`, http.StatusUnprocessableEntity},
		{"PUT", "/api/products/ghost", `{"name":"x","link":"https://x.test"}`, http.StatusOK},
		{"DELETE", "/api/samples/ghost", "", http.StatusNoContent},
		{"PATCH", "/api/samples/ghost/status", `{"status":"Shipped"}`, http.StatusOK},
		{"GET", "/api/samples/ghost/reminder", "", http.StatusNotFound},
		{"GET", "/api/content", "", http.StatusOK},
		{"POST", "/api/content/ghost/toggle", "", http.StatusOK},
		{"GET", "/api/templates", "", http.StatusOK},
		{"GET", "/api/broadcast", "", http.StatusOK},
		{"POST", "/api/broadcast/dispatch", "", http.StatusUnprocessableEntity},
		{"POST", "/api/command", `{"text":"hi"}`, http.StatusServiceUnavailable},
		{"GET", "/api/assistant", "", http.StatusServiceUnavailable},
		{"PUT", "/api/assistant", `{"provider":"gemini"}`, http.StatusServiceUnavailable},
		{"GET", "/api/nope", "", http.StatusNotFound},
		{"POST", "/health", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	r := newTestRouter(t, 10)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/dashboard", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestCommandRateLimited(t *testing.T) {
	r := newTestRouter(t, 2)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest("POST", "/api/command", strings.NewReader(`{"text":"hi"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, third request should be limited", codes)
	}

	// Other routes are not limited.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("dashboard status = %d", rec.Code)
	}
}
