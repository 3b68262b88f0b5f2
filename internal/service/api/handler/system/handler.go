// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 인증이 필요 없는 시스템 수준의 API를 처리합니다.
package system

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gdistrict/gschool-connect/internal/pkg/version"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/model/system"
	"github.com/gdistrict/gschool-connect/internal/service/contract"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/labstack/echo/v4"
)

// 헬스체크 상태와 외부 의존성 식별 상수입니다.
const (
	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"

	dependencyNotificationService = "notification_service"

	msgDepStatusHealthy        = "정상 작동 중"
	msgDepStatusNotInitialized = "서비스가 초기화되지 않음"
)

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	notificationHealth contract.NotificationHealthChecker

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(notificationHealth contract.NotificationHealthChecker, buildInfo version.Info) *Handler {
	return &Handler{
		notificationHealth: notificationHealth,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서버와 외부 의존성의 상태를 반환합니다.
// 인증 없이 호출 가능하며, 모니터링 시스템에서 사용됩니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	uptime := int64(time.Since(h.serverStartTime).Seconds())

	// 외부 의존성 상태 수집
	deps := make(map[string]system.DependencyStatus)

	if h.notificationHealth != nil {
		if err := h.notificationHealth.Health(); err != nil {
			deps[dependencyNotificationService] = system.DependencyStatus{
				Status:  healthStatusUnhealthy,
				Message: err.Error(),
			}
		} else {
			deps[dependencyNotificationService] = system.DependencyStatus{
				Status:  healthStatusHealthy,
				Message: msgDepStatusHealthy,
			}
		}
	} else {
		deps[dependencyNotificationService] = system.DependencyStatus{
			Status:  healthStatusUnhealthy,
			Message: msgDepStatusNotInitialized,
		}
	}

	// 하나라도 unhealthy면 전체 상태를 unhealthy로 설정
	serverStatus := healthStatusHealthy
	for _, dep := range deps {
		if dep.Status != healthStatusHealthy {
			serverStatus = healthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       serverStatus,
		Uptime:       uptime,
		Dependencies: deps,
	})
}

// VersionHandler 서버의 버전, 빌드 시간, 빌드 번호, Go 버전을 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/version",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug("버전 정보 요청")

	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:     h.buildInfo.Version,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   runtime.Version(),
	})
}
