package dashboard

import (
	"context"
	"net/http"

	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

// 백엔드 API 경로
const (
	announcePath   = "/api/announce"
	sceneApplyPath = "/api/scenes/apply"
)

// 사용자에게 표시되는 결과 메시지. 기존 대시보드와 문구가 일치해야 합니다.
const (
	msgAnnounceSent     = "Announcement sent"
	msgAnnounceFailed   = "Announcement failed to send"
	msgSceneApplied     = "Scene applied"
	msgSceneApplyFailed = "Failed to apply scene"
	msgSceneDisabled    = "Scene disabled"
	msgSceneDisableFail = "Failed to disable scene"

	promptAnnounceLabel = "전체 학생에게 보낼 공지"
)

// Handler 교사 대시보드의 조작을 백엔드 API 호출로 처리합니다.
//
// 호출 간 중복 제거나 취소는 하지 않습니다. 동시에 두 번 호출되면
// 두 개의 독립적인 요청과 두 번의 독립적인 정리가 일어납니다.
type Handler struct {
	client *Client
	hooks  Hooks
}

// NewHandler Handler 인스턴스를 생성합니다.
//
// Panics:
//   - client가 nil인 경우
func NewHandler(client *Client, hooks Hooks) *Handler {
	if client == nil {
		panic("Client는 필수입니다")
	}

	return &Handler{
		client: client,
		hooks:  hooks,
	}
}

// Announce 공지 내용을 입력받아 전체 학생에게 공지합니다.
//
// 입력이 비어 있거나 취소되면 요청 없이 즉시 반환합니다.
// 전송이 완료되면(상태 코드와 무관하게) 성공 알림을 한 번 표시하고,
// 전송 자체가 실패하면 로그를 남기고 차단형 경고를 표시합니다.
// 오버레이 표시나 재시도는 하지 않습니다.
func (h *Handler) Announce(ctx context.Context) {
	message := h.hooks.prompt(promptAnnounceLabel)
	if message == "" {
		return
	}

	resp, err := h.client.postJSON(ctx, announcePath, map[string]string{"message": message}, nil)
	if err != nil {
		applog.WithComponent(component).WithError(err).Error("공지 전송 실패")
		h.hooks.alert(msgAnnounceFailed)
		return
	}
	resp.Body.Close()

	h.hooks.notify(msgAnnounceSent)
}

// ApplyScene 지정한 장면을 적용합니다.
//
// id가 비어 있으면 아무 일도 하지 않습니다. 드롭다운을 닫은 뒤에는
// 결과와 무관하게 오버레이 숨김과 장면 목록 갱신이 보장됩니다.
func (h *Handler) ApplyScene(ctx context.Context, id string) {
	if id == "" {
		return
	}

	h.hooks.closeDropdown()

	// 이후의 모든 경로에서 오버레이 정리와 목록 갱신을 보장한다.
	defer func() {
		h.hooks.hideOverlay()
		h.hooks.refreshScenes()
	}()

	h.hooks.showOverlay()

	resp, err := h.client.postJSON(ctx, sceneApplyPath, map[string]string{"scene_id": id}, nil)
	if err != nil {
		applog.WithComponent(component).WithError(err).Error("장면 적용 요청 실패")
		h.hooks.alert(msgSceneApplyFailed)
		return
	}
	defer resp.Body.Close()

	if isSuccess(resp.StatusCode) {
		h.hooks.notify(msgSceneApplied)
		return
	}

	h.hooks.alert(msgSceneApplyFailed)
}

// DisableScene 현재 적용 중인 장면을 해제합니다.
//
// ApplyScene과 같은 흐름이지만 사전 조건이 없으며 본문으로 disable 플래그를 보냅니다.
func (h *Handler) DisableScene(ctx context.Context) {
	h.hooks.closeDropdown()

	defer func() {
		h.hooks.hideOverlay()
		h.hooks.refreshScenes()
	}()

	h.hooks.showOverlay()

	resp, err := h.client.postJSON(ctx, sceneApplyPath, map[string]bool{"disable": true}, nil)
	if err != nil {
		applog.WithComponent(component).WithError(err).Error("장면 해제 요청 실패")
		h.hooks.alert(msgSceneDisableFail)
		return
	}
	defer resp.Body.Close()

	if isSuccess(resp.StatusCode) {
		h.hooks.notify(msgSceneDisabled)
		return
	}

	h.hooks.alert(msgSceneDisableFail)
}

// isSuccess 2xx 상태 코드 여부를 반환합니다.
func isSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}
