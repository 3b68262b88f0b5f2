package api

import (
	"github.com/gdistrict/gschool-connect/internal/service/api/handler/system"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 전역(시스템) 라우트를 설정합니다.
//
// 등록되는 엔드포인트:
//   - GET /health  - 서버/의존성 헬스체크 (인증 없음, 모니터링용)
//   - GET /version - 빌드 버전 정보 (인증 없음)
func RegisterRoutes(e *echo.Echo, systemHandler *system.Handler) {
	e.GET("/health", systemHandler.HealthCheckHandler)
	e.GET("/version", systemHandler.VersionHandler)
}
