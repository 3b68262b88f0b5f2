// Package v1 교실 대시보드 API의 라우트를 정의하고 설정합니다.
//
// /api 경로 하위의 모든 엔드포인트를 관리합니다. 교사 조작 엔드포인트는
// 세션 토큰 인증과 권한 등급 검사를 거치며, 학생 확장 프로그램이 호출하는
// 엔드포인트(policy, heartbeat 등)는 인증 없이 접근할 수 있습니다.
package v1

import (
	"github.com/gdistrict/gschool-connect/internal/service/api/auth"
	"github.com/gdistrict/gschool-connect/internal/service/api/middleware"
	"github.com/gdistrict/gschool-connect/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 /api 라우트를 설정합니다.
//
// 권한 체계:
//   - 학생 엔드포인트: 인증 없음 (확장 프로그램은 별도 계정이 없음)
//   - 교사 엔드포인트: 세션 토큰 + teacher 등급 (admin 포함)
//   - 관리자 엔드포인트: 세션 토큰 + admin 등급 (카테고리 정책 변경)
func RegisterRoutes(e *echo.Echo, h *handler.Handler, authenticator *auth.Authenticator) {
	api := e.Group("/api")

	requireAuth := middleware.RequireAuthentication(authenticator)
	optionalAuth := middleware.OptionalAuthentication(authenticator)
	requireTeacher := middleware.RequireRole(auth.RoleTeacher)
	requireAdmin := middleware.RequireRole(auth.RoleAdmin)
	jsonBody := middleware.ValidateContentType(echo.MIMEApplicationJSON)

	// 인증
	api.POST("/login", h.LoginHandler, jsonBody)
	api.GET("/whoami", h.WhoamiHandler, requireAuth)

	// 학생 확장 프로그램 엔드포인트 (인증 없음)
	api.POST("/policy", h.PolicyHandler, jsonBody)
	api.GET("/commands/:student", h.CommandsDrainHandler)
	api.POST("/heartbeat", h.HeartbeatHandler, jsonBody)
	api.POST("/offtask/check", h.OffTaskCheckHandler, jsonBody)
	api.POST("/classify", h.ClassifyHandler, jsonBody)
	api.POST("/alerts", h.AlertAddHandler, jsonBody)
	api.POST("/raise_hand", h.RaiseHandHandler, jsonBody)
	api.POST("/poll_response", h.PollResponseHandler, jsonBody)
	api.POST("/exam_violation", h.ExamViolationHandler, jsonBody)
	api.GET("/dm/me", h.DMSelfHandler)

	// 교사와 학생이 공유하는 메시지 발신 경로. 세션 유무로 발신 주체를 구분한다.
	api.POST("/dm/send", h.DMSendHandler, optionalAuth, jsonBody)

	// 교사 엔드포인트
	teacher := api.Group("", requireAuth, requireTeacher)
	teacher.POST("/announce", h.AnnounceHandler, jsonBody)
	teacher.GET("/scenes", h.ScenesListHandler)
	teacher.POST("/scenes", h.SceneCreateHandler, jsonBody)
	teacher.PUT("/scenes/:id", h.SceneUpdateHandler, jsonBody)
	teacher.DELETE("/scenes/:id", h.SceneDeleteHandler)
	teacher.POST("/scenes/apply", h.SceneApplyHandler, jsonBody)
	teacher.POST("/scenes/clear", h.SceneClearHandler)
	teacher.GET("/scenes/export", h.SceneExportHandler)
	teacher.POST("/scenes/import", h.SceneImportHandler, jsonBody)
	teacher.POST("/command", h.CommandHandler, jsonBody)
	teacher.GET("/presence", h.PresenceHandler)
	teacher.POST("/class/set", h.ClassSetHandler, jsonBody)
	teacher.POST("/class/toggle", h.ClassToggleHandler, jsonBody)
	teacher.POST("/extension/toggle", h.ExtensionToggleHandler, jsonBody)
	teacher.GET("/alerts", h.AlertsListHandler)
	teacher.POST("/alerts/clear", h.AlertsClearHandler, jsonBody)
	teacher.GET("/engagement", h.EngagementHandler)
	teacher.GET("/raise_hand", h.RaisedHandsHandler)
	teacher.POST("/raise_hand/clear", h.RaiseHandClearHandler, jsonBody)
	teacher.POST("/poll", h.PollCreateHandler, jsonBody)
	teacher.GET("/poll", h.PollsListHandler)
	teacher.POST("/notify", h.NotifyHandler, jsonBody)
	teacher.GET("/timeline", h.TimelineHandler)
	teacher.POST("/student/set", h.StudentSetHandler, jsonBody)
	teacher.GET("/dm/unread", h.DMUnreadHandler)
	teacher.GET("/dm/:student", h.DMThreadHandler)
	teacher.POST("/dm/mark_read", h.DMMarkReadHandler, jsonBody)
	teacher.POST("/exam", h.ExamHandler, jsonBody)
	teacher.GET("/exam_violations", h.ExamViolationsHandler)
	teacher.POST("/exam_violations/clear", h.ExamViolationsClearHandler, jsonBody)

	// 관리자 엔드포인트 (카테고리 차단 정책)
	api.GET("/categories", h.CategoriesHandler, requireAuth, requireTeacher)
	api.POST("/categories", h.CategoryUpdateHandler, requireAuth, requireAdmin, jsonBody)
}
