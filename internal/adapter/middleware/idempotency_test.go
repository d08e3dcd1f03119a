package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(IdempotencyMiddleware(rdb, ttl))
	e.POST("/wallets/credit", handler)
	e.GET("/wallets/credit", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func validHeaders() map[string]string {
	return map[string]string{
		"Ax-Request-Id": strings.Repeat("a", 32),
		"Ax-Request-At": time.Now().UTC().Format(time.RFC3339),
		"Ax-Actor-Id":   strings.Repeat("b", 24),
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/wallets/credit", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})

	body := func() io.Reader { return mkJSONBody(t, map[string]int{"x": 1}) }

	cases := []struct {
		name   string
		mutate func(h map[string]string)
	}{
		{"missing Ax-Request-Id", func(h map[string]string) { delete(h, "Ax-Request-Id") }},
		{"invalid Ax-Request-Id", func(h map[string]string) { h["Ax-Request-Id"] = "NOT-VALID" }},
		{"missing Ax-Request-At", func(h map[string]string) { delete(h, "Ax-Request-At") }},
		{"invalid Ax-Request-At", func(h map[string]string) { h["Ax-Request-At"] = "not-a-time" }},
		{"skewed Ax-Request-At", func(h map[string]string) {
			h["Ax-Request-At"] = time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		}},
		{"missing Ax-Actor-Id", func(h map[string]string) { delete(h, "Ax-Actor-Id") }},
		{"invalid Ax-Actor-Id", func(h map[string]string) { h["Ax-Actor-Id"] = "UPPERCASE" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := validHeaders()
			tc.mutate(h)
			rec := doReq(t, e, http.MethodPost, "/wallets/credit", body(), h)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_ReplayReturnsStoredResponse(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var calls int32
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		n := atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusCreated, map[string]any{"call": n})
	})

	h := validHeaders()
	payload := map[string]any{"amount": 10.00}

	first := doReq(t, e, http.MethodPost, "/wallets/credit", mkJSONBody(t, payload), h)
	if first.Code != http.StatusCreated {
		t.Fatalf("first call: want 201, got %d", first.Code)
	}

	second := doReq(t, e, http.MethodPost, "/wallets/credit", mkJSONBody(t, payload), h)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: want 201, got %d", second.Code)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body differs: %s vs %s", first.Body.String(), second.Body.String())
	}
}

func Test_SameRequestIdDifferentBody_Conflict(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})

	h := validHeaders()
	if rec := doReq(t, e, http.MethodPost, "/wallets/credit", mkJSONBody(t, map[string]any{"amount": 10}), h); rec.Code != http.StatusCreated {
		t.Fatalf("first call: want 201, got %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, "/wallets/credit", mkJSONBody(t, map[string]any{"amount": 999}), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("reused id with different body: want 409, got %d", rec.Code)
	}
}

func Test_InProgress_Conflict(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})

	h := validHeaders()
	body := map[string]any{"amount": 10}

	// plant a provisional (in-progress) entry the way a concurrent request would
	bodyBytes, _ := json.Marshal(body)
	key := buildKey(http.MethodPost, "/wallets/credit", h["Ax-Actor-Id"], h["Ax-Request-Id"])
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(bodyBytes), RequestID: h["Ax-Request-Id"], CreatedAt: nowUTC()}
	payload, _ := json.Marshal(entry)
	if err := rdb.Set(context.Background(), key, payload, provisionalLockTTL).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/wallets/credit", mkJSONBody(t, body), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress: want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_RedisDown_Returns503(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})
	mr.Close() // kill the store

	rec := doReq(t, e, http.MethodPost, "/wallets/credit", mkJSONBody(t, map[string]int{"x": 1}), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", rec.Code)
	}
}
