package system

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gdistrict/gschool-connect/internal/pkg/version"
	"github.com/gdistrict/gschool-connect/internal/service/api/model/system"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHealthChecker 헬스체크 결과를 고정값으로 돌려주는 테스트 구현입니다.
type stubHealthChecker struct {
	err error
}

func (s *stubHealthChecker) Health() error { return s.err }

func serveGET(t *testing.T, handler echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))

	return rec
}

func TestHealthCheckHandler(t *testing.T) {
	t.Run("의존성_정상", func(t *testing.T) {
		h := NewHandler(&stubHealthChecker{}, version.Info{})

		rec := serveGET(t, h.HealthCheckHandler, "/health")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp system.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, healthStatusHealthy, resp.Status)
		assert.Equal(t, healthStatusHealthy, resp.Dependencies[dependencyNotificationService].Status)
	})

	t.Run("의존성_오류시_unhealthy", func(t *testing.T) {
		h := NewHandler(&stubHealthChecker{err: assert.AnError}, version.Info{})

		rec := serveGET(t, h.HealthCheckHandler, "/health")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp system.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, healthStatusUnhealthy, resp.Status)
	})

	t.Run("의존성_미초기화시_unhealthy", func(t *testing.T) {
		h := NewHandler(nil, version.Info{})

		rec := serveGET(t, h.HealthCheckHandler, "/health")

		var resp system.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, healthStatusUnhealthy, resp.Status)
		assert.Equal(t, msgDepStatusNotInitialized, resp.Dependencies[dependencyNotificationService].Message)
	})
}

func TestVersionHandler(t *testing.T) {
	h := NewHandler(&stubHealthChecker{}, version.Info{
		Version:     "1.2.3",
		BuildDate:   "2026-08-01T00:00:00Z",
		BuildNumber: "42",
	})

	rec := serveGET(t, h.VersionHandler, "/version")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp system.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "42", resp.BuildNumber)
	assert.Equal(t, runtime.Version(), resp.GoVersion)
}
