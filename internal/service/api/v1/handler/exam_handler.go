package handler

import (
	"net/http"

	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/labstack/echo/v4"
)

// defaultViolationLimit 위반 기록 조회의 기본 반환 개수입니다.
const defaultViolationLimit = 200

// examRequest 시험 모드 제어 요청입니다.
type examRequest struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}

// ExamHandler 시험 모드를 시작하거나 종료합니다.
//
// action이 "start"이면 시험 URL로 전체 학생의 화면을 고정하고,
// "end"이면 시험 모드를 해제합니다.
//
// POST /api/exam
func (h *Handler) ExamHandler(c echo.Context) error {
	var req examRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	switch req.Action {
	case "start":
		if err := h.classroom.StartExam(req.URL); err != nil {
			return httputil.FromAppError(err)
		}
	case "end":
		if err := h.classroom.EndExam(); err != nil {
			return httputil.FromAppError(err)
		}
	default:
		return httputil.NewBadRequestError("action은 start 또는 end여야 합니다")
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"action": req.Action,
	}).Info("시험 모드 상태 변경")

	return c.JSON(http.StatusOK, h.classroom.ExamStatus())
}

// examViolationRequest 시험 중 이탈 행위 보고입니다.
type examViolationRequest struct {
	Student string `json:"student"`
	URL     string `json:"url"`
	Reason  string `json:"reason"`
}

// ExamViolationHandler 학생 확장 프로그램의 시험 중 이탈 행위 보고를 기록합니다.
//
// POST /api/exam_violation
func (h *Handler) ExamViolationHandler(c echo.Context) error {
	var req examViolationRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := h.classroom.AddExamViolation(req.Student, req.URL, req.Reason); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}

// ExamViolationsHandler 최근 위반 기록을 반환합니다.
//
// GET /api/exam_violations
func (h *Handler) ExamViolationsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"violations": h.classroom.ExamViolationLog(defaultViolationLimit),
	})
}

// examViolationsClearRequest 위반 기록 제거 요청입니다. student가 비어 있으면 전체를 제거합니다.
type examViolationsClearRequest struct {
	Student string `json:"student"`
}

// ExamViolationsClearHandler 위반 기록을 제거하고 제거된 개수를 반환합니다.
//
// POST /api/exam_violations/clear
func (h *Handler) ExamViolationsClearHandler(c echo.Context) error {
	var req examViolationsClearRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	removed, err := h.classroom.ClearExamViolations(req.Student)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"removed": removed})
}
