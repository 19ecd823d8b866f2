package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fairyhunter13/warung-price-bot/internal/obs"
)

func TestWithRequestID_Generated(t *testing.T) {
	obs.InitLogger()
	var got string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" {
		t.Fatalf("expected generated request id")
	}
	if rr.Header().Get("X-Request-Id") != got {
		t.Fatalf("response header mismatch: %q vs %q", rr.Header().Get("X-Request-Id"), got)
	}
}

func TestWithRequestID_Propagated(t *testing.T) {
	var got string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "caller-supplied" {
		t.Fatalf("expected propagated id, got %q", got)
	}
}

func TestWithAPIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	exclude := map[string]bool{"/webhook/telegram": true}
	h := WithAPIKey("s3cret", exclude, ok)

	// Missing key
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/metrics", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	// Wrong key
	req := httptest.NewRequest(http.MethodGet, "/debug/metrics", nil)
	req.Header.Set("X-API-Key", "wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	// Correct key
	req = httptest.NewRequest(http.MethodGet, "/debug/metrics", nil)
	req.Header.Set("X-API-Key", "s3cret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	// Excluded path needs no key
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on excluded path, got %d", rr.Code)
	}

	// Empty configured key disables the guard
	open := WithAPIKey("", nil, ok)
	rr = httptest.NewRecorder()
	open.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/metrics", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with guard disabled, got %d", rr.Code)
	}
}

func TestWithRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	l := NewRateLimiter(2)
	h := WithRateLimit(l, ok)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, rr.Code)
		}
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}

	// A different client is unaffected
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for second client, got %d", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	if ip := clientIP(req); ip != "192.0.2.10" {
		t.Fatalf("expected remote addr host, got %q", ip)
	}

	req.Header.Set("X-Real-IP", "198.51.100.7")
	if ip := clientIP(req); ip != "198.51.100.7" {
		t.Fatalf("expected X-Real-IP, got %q", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	if ip := clientIP(req); ip != "203.0.113.9" {
		t.Fatalf("expected first forwarded hop, got %q", ip)
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	l := NewRateLimiter(1)
	current := time.Now()
	l.now = func() time.Time { return current }

	if !l.Allow("c") {
		t.Fatalf("first request should pass")
	}
	if l.Allow("c") {
		t.Fatalf("second request within window should fail")
	}

	current = current.Add(61 * time.Second)
	if !l.Allow("c") {
		t.Fatalf("request after window expiry should pass")
	}
}

func TestRateLimiterUnlimited(t *testing.T) {
	l := NewRateLimiter(0)
	for i := 0; i < 1000; i++ {
		if !l.Allow("c") {
			t.Fatalf("limit <= 0 must always allow")
		}
	}
}
