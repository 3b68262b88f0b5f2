package handler

import (
	"fmt"
	"net/http"

	"github.com/gdistrict/gschool-connect/internal/pkg/mark"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	"github.com/gdistrict/gschool-connect/internal/service/classroom"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/labstack/echo/v4"
)

// AlertAddHandler 학생 확장 프로그램이 보고하는 이탈 경고를 기록하고
// 운영자 채널로 전달합니다.
//
// POST /api/alerts
func (h *Handler) AlertAddHandler(c echo.Context) error {
	var alert classroom.Alert
	if err := c.Bind(&alert); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := h.classroom.AddAlert(alert); err != nil {
		return httputil.FromAppError(err)
	}

	// 운영자 알림은 부가 기능이므로 실패해도 API 응답에는 영향을 주지 않는다.
	message := fmt.Sprintf("[%s] %s 학생 경고", alert.Kind, alert.Student)
	if alert.URL != "" {
		message += " (" + alert.URL + ")"
	}
	if err := h.notificationSender.NotifyWithMark(mark.Risk, message); err != nil {
		applog.WithComponent(constants.ComponentHandler).WithError(err).Warn("이탈 경고 운영자 알림 발송 실패")
	}

	return httputil.Success(c)
}

// AlertsListHandler 최근 이탈 경고 목록을 반환합니다.
//
// GET /api/alerts
func (h *Handler) AlertsListHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"alerts": h.classroom.Alerts(),
	})
}

// studentFilterRequest 학생 단위 정리 요청입니다. student가 비어있으면 전체를 대상으로 합니다.
type studentFilterRequest struct {
	Student string `json:"student"`
}

// AlertsClearHandler 특정 학생 또는 전체의 이탈 경고를 삭제합니다.
//
// POST /api/alerts/clear
func (h *Handler) AlertsClearHandler(c echo.Context) error {
	var req studentFilterRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	removed, err := h.classroom.ClearAlerts(req.Student)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"result_code": 0,
		"removed":     removed,
	})
}

// raiseHandRequest 손들기 요청입니다.
type raiseHandRequest struct {
	Student string `json:"student"`
	Note    string `json:"note"`
}

// RaiseHandHandler 학생의 손들기 요청을 기록하고 운영자 채널로 전달합니다.
//
// POST /api/raise_hand
func (h *Handler) RaiseHandHandler(c echo.Context) error {
	var req raiseHandRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := h.classroom.RaiseHand(req.Student, req.Note); err != nil {
		return httputil.FromAppError(err)
	}

	message := fmt.Sprintf("%s 학생이 손을 들었습니다", req.Student)
	if req.Note != "" {
		message += ": " + req.Note
	}
	if err := h.notificationSender.NotifyWithMark(mark.RaiseHand, message); err != nil {
		applog.WithComponent(constants.ComponentHandler).WithError(err).Warn("손들기 운영자 알림 발송 실패")
	}

	return httputil.Success(c)
}

// RaisedHandsHandler 현재 손들기 목록을 반환합니다.
//
// GET /api/raise_hand
func (h *Handler) RaisedHandsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"hands": h.classroom.RaisedHands(),
	})
}

// RaiseHandClearHandler 특정 학생 또는 전체의 손들기를 내립니다.
//
// POST /api/raise_hand/clear
func (h *Handler) RaiseHandClearHandler(c echo.Context) error {
	var req studentFilterRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	removed, err := h.classroom.ClearRaisedHands(req.Student)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"result_code": 0,
		"removed":     removed,
	})
}

// pollCreateRequest 설문 생성 요청입니다.
type pollCreateRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// PollCreateHandler 설문을 생성하고 전체 학생에게 설문 명령을 브로드캐스트합니다.
//
// POST /api/poll
func (h *Handler) PollCreateHandler(c echo.Context) error {
	var req pollCreateRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	poll, err := h.classroom.CreatePoll(req.Question, req.Options)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, poll)
}

// PollsListHandler 전체 설문 목록(응답 포함)을 반환합니다.
//
// GET /api/poll
func (h *Handler) PollsListHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"polls": h.classroom.Polls(),
	})
}

// pollResponseRequest 설문 응답 요청입니다. 같은 학생의 재응답은 기존 응답을 대체합니다.
type pollResponseRequest struct {
	PollID  string `json:"poll_id"`
	ID      string `json:"id"`
	Student string `json:"student"`
	Answer  string `json:"answer"`
}

// PollResponseHandler 설문에 대한 학생 응답을 기록합니다.
//
// POST /api/poll_response
func (h *Handler) PollResponseHandler(c echo.Context) error {
	var req pollResponseRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	pollID := req.PollID
	if pollID == "" {
		pollID = req.ID
	}

	if err := h.classroom.RespondPoll(pollID, req.Student, req.Answer); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}
