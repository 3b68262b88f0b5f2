package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	"github.com/gdistrict/gschool-connect/internal/service/scene"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/labstack/echo/v4"
)

// scenesResponse 장면 목록 응답입니다. current는 적용 중인 장면의 ID입니다.
type scenesResponse struct {
	Scenes  []*scene.Scene `json:"scenes"`
	Current string         `json:"current,omitempty"`
}

// ScenesListHandler 등록된 모든 장면과 현재 적용 중인 장면을 반환합니다.
//
// GET /api/scenes
func (h *Handler) ScenesListHandler(c echo.Context) error {
	resp := scenesResponse{
		Scenes: h.scenes.List(),
	}
	if active := h.scenes.Active(); active != nil {
		resp.Current = active.ID
	}

	return c.JSON(http.StatusOK, resp)
}

// SceneCreateHandler 새 장면을 등록합니다.
//
// POST /api/scenes
func (h *Handler) SceneCreateHandler(c echo.Context) error {
	var def scene.Definition
	if err := c.Bind(&def); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	created, err := h.scenes.Create(def)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, created)
}

// SceneUpdateHandler 기존 장면의 정의를 변경합니다.
//
// PUT /api/scenes/:id
func (h *Handler) SceneUpdateHandler(c echo.Context) error {
	var def scene.Definition
	if err := c.Bind(&def); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	updated, err := h.scenes.Update(c.Param("id"), def)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// SceneDeleteHandler 장면을 삭제합니다. 적용 중이던 장면이면 적용도 해제됩니다.
//
// DELETE /api/scenes/:id
func (h *Handler) SceneDeleteHandler(c echo.Context) error {
	if err := h.scenes.Delete(c.Param("id")); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}

// sceneApplyRequest 장면 적용/해제 요청입니다.
// 대시보드는 scene_id 키를, 구버전 클라이언트는 id 키를 사용합니다.
type sceneApplyRequest struct {
	SceneID string `json:"scene_id"`
	ID      string `json:"id"`
	Disable bool   `json:"disable"`
}

// SceneApplyHandler 장면을 적용하거나(disable=true인 경우) 현재 장면을 해제합니다.
//
// POST /api/scenes/apply
func (h *Handler) SceneApplyHandler(c echo.Context) error {
	var req sceneApplyRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if req.Disable {
		if _, err := h.scenes.Disable(); err != nil {
			return httputil.FromAppError(err)
		}

		return httputil.Success(c)
	}

	id := req.SceneID
	if id == "" {
		id = req.ID
	}
	if id == "" {
		return httputil.NewBadRequestError("scene_id는 필수입니다")
	}

	applied, err := h.scenes.Apply(id)
	if err != nil {
		return httputil.FromAppError(err)
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"scene_id":   applied.ID,
		"scene_name": applied.Name,
		"scene_type": applied.Type,
	}).Info("장면 적용됨")

	return c.JSON(http.StatusOK, applied)
}

// SceneClearHandler 현재 적용 중인 장면을 해제합니다.
//
// POST /api/scenes/clear
func (h *Handler) SceneClearHandler(c echo.Context) error {
	if _, err := h.scenes.Clear(); err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.Success(c)
}

// SceneExportHandler 전체 장면 목록을 JSON 스냅샷으로 내보냅니다.
//
// GET /api/scenes/export
func (h *Handler) SceneExportHandler(c echo.Context) error {
	data, err := h.scenes.Export()
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSONBlob(http.StatusOK, data)
}

// SceneImportHandler JSON 스냅샷에서 장면 목록을 가져옵니다.
// replace 쿼리 파라미터가 참이면 기존 장면을 모두 대체합니다.
//
// POST /api/scenes/import?replace=true
func (h *Handler) SceneImportHandler(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return httputil.NewBadRequestError("요청 본문을 읽을 수 없습니다")
	}

	replace, _ := strconv.ParseBool(c.QueryParam("replace"))

	imported, err := h.scenes.Import(data, replace)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"result_code": 0,
		"imported":    imported,
	})
}
