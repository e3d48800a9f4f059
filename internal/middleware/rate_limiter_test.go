package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_ThrottlesPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimiter(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	w := call("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients keep their own window
	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code)
}

func TestIPLimiter_WindowResetAndPurge(t *testing.T) {
	l := newIPLimiter("test", 1, time.Minute)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	ok, _ := l.allow("10.0.0.1", now)
	assert.True(t, ok)
	ok, _ = l.allow("10.0.0.1", now.Add(time.Second))
	assert.False(t, ok)

	ok, _ = l.allow("10.0.0.1", now.Add(2*time.Minute))
	assert.True(t, ok, "a new window opens once the old one ends")

	assert.Zero(t, l.purge(now.Add(2*time.Minute)))
	assert.Equal(t, 1, l.purge(now.Add(5*time.Minute)))
}
