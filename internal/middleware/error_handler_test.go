package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wasssssim/verger-du-coin/internal/apierror"
	"github.com/wasssssim/verger-du-coin/internal/metrics"
	"github.com/wasssssim/verger-du-coin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guarded() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("till drawer jammed") })
	r.GET("/db", func(c *gin.Context) {
		_ = c.Error(errors.New(`pq: relation "sales" does not exist`))
	})
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("already answered"))
		c.JSON(http.StatusConflict, apierror.New("Sale already synced"))
	})
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	before := testutil.ToFloat64(metrics.PanicsRecovered)

	w := get(guarded(), "/boom")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Detail)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PanicsRecovered))
}

func TestErrorHandler_HidesDriverMessage(t *testing.T) {
	w := get(guarded(), "/db")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	w := get(guarded(), "/handled")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Sale already synced")
}
