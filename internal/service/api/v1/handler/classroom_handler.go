package handler

import (
	"net/http"

	"github.com/gdistrict/gschool-connect/internal/service/api/auth"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	"github.com/gdistrict/gschool-connect/internal/service/classroom"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/labstack/echo/v4"
)

// announceRequest 공지 요청 본문입니다.
// 구버전 대시보드와 확장 프로그램이 각각 다른 키를 사용하므로 세 키를 모두 받습니다.
type announceRequest struct {
	Message      string `json:"message"`
	Text         string `json:"text"`
	Announcement string `json:"announcement"`
}

// messageText 세 공지 키 중 처음으로 값이 있는 것을 반환합니다.
func (r announceRequest) messageText() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Text != "" {
		return r.Text
	}
	return r.Announcement
}

// AnnounceHandler 교실 공지를 설정하고 전체 학생에게 정책 갱신을 브로드캐스트합니다.
// 빈 메시지는 공지 철회로 처리됩니다.
//
// POST /api/announce
func (h *Handler) AnnounceHandler(c echo.Context) error {
	var req announceRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := h.classroom.Announce(req.messageText()); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}

// ClassSetHandler 수업 설정(활성화, 허용 목록, 차단 목록 등)을 변경합니다.
//
// POST /api/class/set
func (h *Handler) ClassSetHandler(c echo.Context) error {
	var update classroom.ClassUpdate
	if err := c.Bind(&update); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	class, err := h.classroom.SetClass(update)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, class)
}

// classToggleRequest 수업 플래그 토글 요청입니다.
type classToggleRequest struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// ClassToggleHandler 수업의 불리언 플래그(focus_mode, paused)를 토글합니다.
//
// POST /api/class/toggle
func (h *Handler) ClassToggleHandler(c echo.Context) error {
	var req classToggleRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	class, err := h.classroom.ToggleClass(req.Key, req.Value)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, class)
}

// extensionToggleRequest 확장 프로그램 전역 스위치 요청입니다.
type extensionToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// ExtensionToggleHandler 학생 확장 프로그램의 전역 활성화 여부를 변경합니다.
//
// POST /api/extension/toggle
func (h *Handler) ExtensionToggleHandler(c echo.Context) error {
	var req extensionToggleRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	identity, err := auth.IdentityFrom(c)
	if err != nil {
		return httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	if err := h.classroom.SetExtensionEnabled(req.Enabled, identity.Email); err != nil {
		return httputil.FromAppError(err)
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"enabled": req.Enabled,
		"by":      identity.Email,
	}).Info("확장 프로그램 전역 스위치 변경")

	return httputil.Success(c)
}

// commandRequest 학생 명령 큐잉 요청입니다. target이 "*"이면 전체 브로드캐스트입니다.
type commandRequest struct {
	Target  string         `json:"target"`
	Student string         `json:"student"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// CommandHandler 특정 학생 또는 전체("*")에게 전달할 명령을 큐에 등록합니다.
//
// POST /api/command
func (h *Handler) CommandHandler(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	target := req.Target
	if target == "" {
		target = req.Student
	}

	err := h.classroom.PushCommand(target, classroom.Command{
		Type:    req.Type,
		Payload: req.Payload,
	})
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}

// CommandsDrainHandler 학생의 대기 명령을 원샷으로 비우고 반환합니다.
// 같은 명령은 두 번 전달되지 않습니다.
//
// GET /api/commands/:student
func (h *Handler) CommandsDrainHandler(c echo.Context) error {
	student := c.Param("student")

	commands, err := h.classroom.DrainCommands(student)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"commands": commands,
	})
}

// HeartbeatHandler 학생 확장 프로그램의 주기적 상태 보고를 처리합니다.
// 게스트 계정의 보고는 저장하지 않고 확장 비활성 응답만 반환합니다.
//
// POST /api/heartbeat
func (h *Handler) HeartbeatHandler(c echo.Context) error {
	var req classroom.HeartbeatRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	resp, err := h.classroom.Heartbeat(req)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// PresenceHandler 전체 학생의 접속 상태 스냅샷을 반환합니다.
//
// GET /api/presence
func (h *Handler) PresenceHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.classroom.PresenceSnapshot())
}

// defaultTimelineLimit timeline 조회의 기본 반환 개수입니다.
const defaultTimelineLimit = 200

// TimelineHandler 학생 활동 기록을 조회합니다.
//
// student 파라미터가 있으면 해당 학생의 기록을 시간순으로, 없으면 전체 학생의
// 기록을 학생 식별자를 붙여 최신순으로 반환합니다. since는 Unix 초 기준입니다.
//
// GET /api/timeline?student=s1&since=1700000000&limit=200
func (h *Handler) TimelineHandler(c echo.Context) error {
	since := int64(0)
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			return httputil.NewBadRequestError("since 값은 양의 정수여야 합니다")
		}
		since = parsed
	}

	limit := defaultTimelineLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			return httputil.NewBadRequestError("limit 값은 양의 정수여야 합니다")
		}
		limit = int(parsed)
	}

	if student := c.QueryParam("student"); student != "" {
		items, err := h.classroom.Timeline(student, since, limit)
		if err != nil {
			return httputil.FromAppError(err)
		}
		return c.JSON(http.StatusOK, map[string]any{"items": items})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": h.classroom.TimelineAll(since, limit),
	})
}

// studentSetRequest 학생별 플래그 덮어쓰기 요청입니다. nil 필드는 변경하지 않습니다.
type studentSetRequest struct {
	Student   string `json:"student"`
	FocusMode *bool  `json:"focus_mode"`
	Paused    *bool  `json:"paused"`
}

// StudentSetHandler 특정 학생의 focus_mode/paused 플래그를 수업 설정과 별도로 덮어씁니다.
//
// POST /api/student/set
func (h *Handler) StudentSetHandler(c echo.Context) error {
	var req studentSetRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	override, err := h.classroom.SetStudentOverride(req.Student, classroom.StudentOverride{
		FocusMode: req.FocusMode,
		Paused:    req.Paused,
	})
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"student":   req.Student,
		"overrides": override,
	})
}

// notifyRequest 전체 학생 알림 요청입니다.
type notifyRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NotifyHandler 전체 학생에게 알림 명령을 브로드캐스트합니다.
// 제목과 메시지는 길이 제한에 맞춰 잘립니다.
//
// POST /api/notify
func (h *Handler) NotifyHandler(c echo.Context) error {
	var req notifyRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := h.classroom.Notify(req.Title, req.Message); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}

// EngagementHandler 시간 창 기반의 학생별 참여도/위험도 평가를 반환합니다.
// window 쿼리 파라미터는 초 단위이며 허용 범위를 벗어나면 보정됩니다.
//
// GET /api/engagement?window=1800
func (h *Handler) EngagementHandler(c echo.Context) error {
	window := int64(0)
	if raw := c.QueryParam("window"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			return httputil.NewBadRequestError("window 값은 양의 정수여야 합니다")
		}
		window = parsed
	}

	return c.JSON(http.StatusOK, h.classroom.Engagement(window))
}
