package handler

import (
	"net/http"

	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	"github.com/gdistrict/gschool-connect/internal/service/classifier"
	"github.com/labstack/echo/v4"
)

// policyRequest 유효 정책 조회 요청입니다. student가 비어있으면 대기 명령 없이 반환합니다.
type policyRequest struct {
	Student string `json:"student"`
}

// PolicyHandler 학생에게 적용되는 유효 정책을 반환합니다.
// 수업 플래그, 학생별 오버라이드, 현재 장면과 병합된 허용/차단 목록,
// 원샷 대기 명령이 포함됩니다.
//
// POST /api/policy
func (h *Handler) PolicyHandler(c echo.Context) error {
	var req policyRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	policy, err := h.classroom.Policy(req.Student, h.scenes)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, policy)
}

// offTaskCheckRequest 과업 이탈 판정 요청입니다.
type offTaskCheckRequest struct {
	Student string `json:"student"`
	URL     string `json:"url"`
}

// OffTaskCheckHandler 학생이 보고한 URL의 과업 이탈 여부를 판정하고 기록합니다.
//
// POST /api/offtask/check
func (h *Handler) OffTaskCheckHandler(c echo.Context) error {
	var req offTaskCheckRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	verdict, err := h.classroom.CheckOffTask(req.Student, req.URL, h.scenes)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, verdict)
}

// classifyRequest URL 분류 요청입니다. body가 비어있으면 서버가 페이지 본문을 수집합니다.
type classifyRequest struct {
	URL  string `json:"url"`
	Body string `json:"body"`
}

// ClassifyHandler URL을 카테고리로 분류하고 차단 여부를 판정합니다.
// 차단 판정에는 수업 허용 목록과 카테고리별 시간 일정이 반영됩니다.
//
// POST /api/classify
func (h *Handler) ClassifyHandler(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if req.URL == "" {
		return httputil.NewBadRequestError("url은 필수입니다")
	}

	class, settings := h.classroom.ClassState()

	decision := h.classifier.Decide(c.Request().Context(), req.URL, req.Body, class.Allowlist, settings.BlockedRedirect)

	return c.JSON(http.StatusOK, decision)
}

// CategoriesHandler 분류 카테고리 목록(차단 플래그, 시간 일정 포함)을 반환합니다.
//
// GET /api/categories
func (h *Handler) CategoriesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"categories": h.classifier.Categories(),
	})
}

// CategoryUpdateHandler 카테고리의 차단 플래그, 리다이렉트 주소, 시간 일정을 변경합니다.
//
// POST /api/categories
func (h *Handler) CategoryUpdateHandler(c echo.Context) error {
	var update classifier.CategoryUpdate
	if err := c.Bind(&update); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := h.classifier.UpdateCategory(update); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}
