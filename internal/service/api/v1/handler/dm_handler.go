package handler

import (
	"net/http"

	"github.com/gdistrict/gschool-connect/internal/service/api/auth"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
)

// dmSendRequest 1:1 메시지 발신 요청입니다.
// 교사는 세션으로 신원이 확인되고, 학생은 from과 student로 스스로를 밝힙니다.
type dmSendRequest struct {
	Student string `json:"student"`
	From    string `json:"from"`
	Text    string `json:"text"`
}

// DMSendHandler 교사 또는 학생의 1:1 메시지를 학생 스레드에 추가합니다.
//
// 세션 토큰이 있는 요청은 교사 발신으로 처리되며, 토큰 없는 요청은
// from이 "student"인 경우에만 학생 발신으로 받아들입니다.
//
// POST /api/dm/send
func (h *Handler) DMSendHandler(c echo.Context) error {
	var req dmSendRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	from := "student"
	user := req.Student

	if identity, err := auth.IdentityFrom(c); err == nil {
		from = "teacher"
		user = identity.Email
	} else if req.From != "student" {
		return httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	msg, err := h.classroom.SendDirectMessage(req.Student, from, user, req.Text)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, msg)
}

// DMSelfHandler 학생이 자신의 스레드에 쌓인 메시지를 조회합니다.
//
// GET /api/dm/me?student=s1
func (h *Handler) DMSelfHandler(c echo.Context) error {
	messages, err := h.classroom.DirectMessages(c.QueryParam("student"), 0)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"messages": messages})
}

// DMThreadHandler 교사가 특정 학생과의 메시지 스레드를 조회합니다.
//
// GET /api/dm/:student
func (h *Handler) DMThreadHandler(c echo.Context) error {
	messages, err := h.classroom.DirectMessages(c.Param("student"), 0)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"messages": messages})
}

// DMUnreadHandler 학생별 읽지 않은 메시지 개수를 반환합니다.
//
// GET /api/dm/unread
func (h *Handler) DMUnreadHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.classroom.UnreadDirectMessageCounts())
}

// dmMarkReadRequest 읽음 처리 요청입니다.
type dmMarkReadRequest struct {
	Student string `json:"student"`
}

// DMMarkReadHandler 학생 스레드의 학생 발신 메시지를 읽음으로 표시합니다.
//
// POST /api/dm/mark_read
func (h *Handler) DMMarkReadHandler(c echo.Context) error {
	var req dmMarkReadRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := h.classroom.MarkDirectMessagesRead(req.Student); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}
