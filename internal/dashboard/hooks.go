package dashboard

import (
	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

const component = "dashboard"

// Hooks 대시보드 UI 기능을 핸들러에 주입하는 구조체입니다.
//
// 모든 필드는 선택 사항입니다. nil인 훅은 건너뛰거나(UI 조작) 다음 수단으로
// 대체되므로(알림), 훅이 일부만 구현된 환경에서도 핸들러는 항상 동작합니다.
type Hooks struct {
	// Toast 짧은 알림 메시지를 표시합니다.
	Toast func(message string)

	// ShowToast Toast가 없을 때 사용하는 대체 알림 수단입니다.
	ShowToast func(message string)

	// Log 진단 메시지를 기록합니다. 없으면 애플리케이션 로거로 대체됩니다.
	Log func(message string)

	// Alert 사용자의 확인이 필요한 차단형 경고를 표시합니다.
	Alert func(message string)

	// Prompt 사용자에게 입력을 요청합니다. 취소하면 빈 문자열을 반환해야 합니다.
	Prompt func(label string) string

	// CloseDropdown 장면 선택 드롭다운을 닫습니다.
	CloseDropdown func()

	// ShowOverlay 처리 중 오버레이를 표시합니다.
	ShowOverlay func()

	// HideOverlay 처리 중 오버레이를 숨깁니다.
	HideOverlay func()

	// RefreshScenes 장면 목록을 다시 불러옵니다.
	RefreshScenes func()
}

// notify 사용 가능한 첫 번째 알림 수단으로 메시지를 전달합니다.
// Toast → ShowToast → 진단 로그 순서로 대체되며, 절대 실패하지 않습니다.
func (h Hooks) notify(message string) {
	switch {
	case h.Toast != nil:
		h.Toast(message)
	case h.ShowToast != nil:
		h.ShowToast(message)
	default:
		h.log(message)
	}
}

// alert 차단형 경고를 표시합니다. Alert 훅이 없으면 알림 수단으로 대체됩니다.
func (h Hooks) alert(message string) {
	if h.Alert != nil {
		h.Alert(message)
		return
	}

	h.notify(message)
}

// log 진단 메시지를 기록합니다.
func (h Hooks) log(message string) {
	if h.Log != nil {
		h.Log(message)
		return
	}

	applog.WithComponent(component).Info(message)
}

// prompt 사용자 입력을 요청합니다. Prompt 훅이 없으면 취소로 간주합니다.
func (h Hooks) prompt(label string) string {
	if h.Prompt == nil {
		return ""
	}

	return h.Prompt(label)
}

// closeDropdown nil 안전 래퍼입니다.
func (h Hooks) closeDropdown() {
	if h.CloseDropdown != nil {
		h.CloseDropdown()
	}
}

func (h Hooks) showOverlay() {
	if h.ShowOverlay != nil {
		h.ShowOverlay()
	}
}

func (h Hooks) hideOverlay() {
	if h.HideOverlay != nil {
		h.HideOverlay()
	}
}

func (h Hooks) refreshScenes() {
	if h.RefreshScenes != nil {
		h.RefreshScenes()
	}
}
