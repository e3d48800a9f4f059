package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/middleware"
	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func sign(t *testing.T, role, typ string, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "7d1b2c9e-6f38-4c1a-9a51-1d2f7f0e4b11",
		"username": "marie",
		"role":     role,
		"typ":      typ,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protected() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/staff", middleware.JWTAuth(secret), middleware.RequireStaff(), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.UserID(c).String())
	})
	r.GET("/admin", middleware.JWTAuth(secret), middleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func call(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protected()

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing header", "/staff", "", http.StatusUnauthorized},
		{"garbage", "/staff", "abc.def.ghi", http.StatusUnauthorized},
		{"expired", "/staff", sign(t, model.RoleCashier, "access", -time.Minute), http.StatusUnauthorized},
		{"refresh token", "/staff", sign(t, model.RoleCashier, "refresh", time.Hour), http.StatusUnauthorized},
		{"cashier on staff route", "/staff", sign(t, model.RoleCashier, "access", time.Hour), http.StatusOK},
		{"customer on staff route", "/staff", sign(t, model.RoleCustomer, "access", time.Hour), http.StatusForbidden},
		{"cashier on admin route", "/admin", sign(t, model.RoleCashier, "access", time.Hour), http.StatusForbidden},
		{"admin on admin route", "/admin", sign(t, model.RoleAdmin, "access", time.Hour), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(r, tc.path, tc.token)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestJWTAuth_ExposesUserID(t *testing.T) {
	w := call(protected(), "/staff", sign(t, model.RoleAdmin, "access", time.Hour))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7d1b2c9e-6f38-4c1a-9a51-1d2f7f0e4b11", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "till-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "till-7", w.Body.String())
	assert.Equal(t, "till-7", w.Header().Get(middleware.RequestIDHeader))
}
