package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newRateLimitTestServer(requestsPerSecond float64, burst int) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	e.Use(RateLimiting(requestsPerSecond, burst))
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func TestRateLimiting(t *testing.T) {
	t.Run("버스트_이내_요청_허용", func(t *testing.T) {
		e := newRateLimitTestServer(1, 3)

		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("버스트_초과시_429와_Retry-After", func(t *testing.T) {
		e := newRateLimitTestServer(0.001, 1)

		first := httptest.NewRecorder()
		e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "1", second.Header().Get("Retry-After"))
	})

	t.Run("IP별_독립적인_제한", func(t *testing.T) {
		e := newRateLimitTestServer(0.001, 1)

		reqA := httptest.NewRequest(http.MethodGet, "/", nil)
		reqA.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
		recA := httptest.NewRecorder()
		e.ServeHTTP(recA, reqA)
		assert.Equal(t, http.StatusOK, recA.Code)

		// 다른 IP는 첫 번째 IP의 소비량에 영향받지 않는다.
		reqB := httptest.NewRequest(http.MethodGet, "/", nil)
		reqB.Header.Set(echo.HeaderXRealIP, "10.0.0.2")
		recB := httptest.NewRecorder()
		e.ServeHTTP(recB, reqB)
		assert.Equal(t, http.StatusOK, recB.Code)
	})

	t.Run("잘못된_설정값은_패닉", func(t *testing.T) {
		assert.Panics(t, func() { RateLimiting(0, 10) })
		assert.Panics(t, func() { RateLimiting(10, 0) })
	})
}

func TestIPRateLimiter_getLimiter(t *testing.T) {
	limiter := newIPRateLimiter(10, 5)

	first := limiter.getLimiter("10.0.0.1")
	second := limiter.getLimiter("10.0.0.1")
	other := limiter.getLimiter("10.0.0.2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}
