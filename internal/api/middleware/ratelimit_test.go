package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func doFrom(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newLimitedEcho(perMinute int) *echo.Echo {
	e := newTestEcho()
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimitPerIP(perMinute))
	return e
}

func TestRateLimitPerIP_BlocksAfterBurst(t *testing.T) {
	e := newLimitedEcho(3)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doFrom(e, "10.0.0.1").Code, "request %d", i)
	}

	rec := doFrom(e, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitPerIP_SeparateBucketsPerIP(t *testing.T) {
	e := newLimitedEcho(1)

	require.Equal(t, http.StatusOK, doFrom(e, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, doFrom(e, "10.0.0.1").Code)
	require.Equal(t, http.StatusOK, doFrom(e, "10.0.0.2").Code)
}

func TestRateLimitPerIP_Disabled(t *testing.T) {
	e := newLimitedEcho(0)

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, doFrom(e, "10.0.0.1").Code)
	}
}
