package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/opportune-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func limitedEngine(counter Counter, max int, allow AllowFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), RealIP(true))
	rl := RateLimit(counter, max, 15*time.Minute, KeyByIPAndPath(), allow, helpers.NewDiscardLogger())
	r.POST("/login", rl, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/forgot-password", rl, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_MemoryCounter(t *testing.T) {
	r := limitedEngine(NewMemoryCounter(), 10, nil)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "203.0.113.7").Code, "attempt %d", i+1)
	}
	w := hit(r, http.MethodPost, "/login", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TooManyAttemptsMessage, body["message"])
	assert.NotEmpty(t, body["request_id"])

	// other clients and other routes keep their own windows
	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "203.0.113.8").Code)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/api/forgot-password", "203.0.113.7").Code)
}

func TestRateLimit_RedisCounter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r := limitedEngine(NewRedisCounter(rdb), 2, nil)

	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "198.51.100.1").Code)
	w := hit(r, http.MethodPost, "/login", "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "900", w.Header().Get("Retry-After"))

	mr.FastForward(16 * time.Minute)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "198.51.100.1").Code)
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := limitedEngine(failingCounter{}, 1, nil)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "203.0.113.7").Code)
	}
}

func TestRateLimit_AllowPrivateIP(t *testing.T) {
	r := limitedEngine(NewMemoryCounter(), 1, AllowPrivateIP())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "10.0.0.5").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost, "/login", "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, http.MethodPost, "/login", "203.0.113.7").Code)
}

func TestMemoryCounter_WindowResets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	m := NewMemoryCounter()
	m.now = func() time.Time { return now }

	n, ttl, _ := m.Incr(context.Background(), "k", time.Minute)
	assert.Equal(t, 1, n)
	assert.Equal(t, time.Minute, ttl)

	now = now.Add(30 * time.Second)
	n, ttl, _ = m.Incr(context.Background(), "k", time.Minute)
	assert.Equal(t, 2, n)
	assert.Equal(t, 30*time.Second, ttl)

	now = now.Add(31 * time.Second)
	n, _, _ = m.Incr(context.Background(), "k", time.Minute)
	assert.Equal(t, 1, n)

	now = now.Add(2 * time.Minute)
	_, _, _ = m.Incr(context.Background(), "other", time.Minute)
	assert.NotContains(t, m.windows, "k")
}

func TestRealIP(t *testing.T) {
	capture := func(trust bool, hdr, val string) string {
		r := gin.New()
		var got string
		r.GET("/", RealIP(trust), func(c *gin.Context) { got = c.GetString(CtxRealIPKey) })
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		if hdr != "" {
			req.Header.Set(hdr, val)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	assert.Equal(t, "203.0.113.9", capture(true, "CF-Connecting-IP", "203.0.113.9"))
	assert.Equal(t, "203.0.113.1", capture(true, "X-Forwarded-For", "203.0.113.1, 10.0.0.1"))
	assert.Equal(t, "192.0.2.1", capture(true, "X-Forwarded-For", "garbage"))
	assert.Equal(t, "192.0.2.1", capture(false, "CF-Connecting-IP", "203.0.113.9"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestIDMiddleware(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const id = "3f1f8d5a-8c7c-4c39-9b5e-1d0f0c9a7e21"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("s", time.Hour, 15*time.Minute)
	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) { c.String(http.StatusOK, UserID(c)+"|"+c.GetString(CtxUserEmailKey)) })

	token, _, err := jwt.GenerateAccessToken("u1", "a@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1|a@x.com", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	reset, _, _ := jwt.IssueResetToken("a@x.com")
	for _, h := range []string{"", "Bearer garbage", "Bearer " + reset} {
		req = httptest.NewRequest(http.MethodGet, "/me", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
	}
}
