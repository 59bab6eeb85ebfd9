package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()

		rl.Limit(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}
}

func TestRateLimiter_RejectsAboveBurst(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	first.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	rl.Limit(next).ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rr = httptest.NewRecorder()
	rl.Limit(next).ServeHTTP(rr, second)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rr.Code)
	}
}

func TestRateLimiter_TracksClientsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, addr := range []string{"10.0.0.3:1", "10.0.0.4:1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()

		rl.Limit(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("client %s: expected 200, got %d", addr, rr.Code)
		}
	}
}

func TestRateLimiter_ResetForgetsClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.RemoteAddr = "10.0.0.5:1"
	rr := httptest.NewRecorder()
	rl.Limit(next).ServeHTTP(rr, req)

	rl.Reset()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.RemoteAddr = "10.0.0.5:1"
	rr = httptest.NewRecorder()
	rl.Limit(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected fresh budget after reset, got %d", rr.Code)
	}
}
