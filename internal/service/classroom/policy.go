package classroom

import (
	"strings"

	"github.com/gdistrict/gschool-connect/internal/service/scene"
)

// SceneProvider 현재 적용 중인 장면을 조회하는 인터페이스입니다.
type SceneProvider interface {
	Active() *scene.Scene
}

// Policy 학생에게 내려갈 유효 정책을 구성합니다.
//
// 수업 플래그에 학생별 덮어쓰기를 적용한 뒤 현재 장면을 반영합니다.
// 허용 장면은 수업 허용 목록을 장면의 allow 목록으로 대체하고 집중 모드를 강제하며,
// 차단 장면은 장면의 block 목록을 교사 차단 목록에 추가합니다.
// 대기 중인 명령(Pending)은 이 호출에서 한 번만 전달됩니다.
func (m *Manager) Policy(student string, scenes SceneProvider) (Policy, error) {
	student = strings.TrimSpace(student)

	var active *scene.Scene
	if scenes != nil {
		active = scenes.Active()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	focusMode := m.st.Class.FocusMode
	paused := m.st.Class.Paused
	if student != "" {
		if override, ok := m.st.StudentOverrides[student]; ok {
			if override.FocusMode != nil {
				focusMode = *override.FocusMode
			}
			if override.Paused != nil {
				paused = *override.Paused
			}
		}
	}

	allowlist := append([]string(nil), m.st.Class.Allowlist...)
	teacherBlocks := append([]string(nil), m.st.Class.TeacherBlocks...)

	var sceneRef *PolicySceneRef
	if active != nil {
		sceneRef = &PolicySceneRef{
			ID:   active.ID,
			Name: active.Name,
			Type: string(active.Type),
		}

		switch active.Type {
		case scene.TypeAllowed:
			allowlist = append([]string(nil), active.Allow...)
			focusMode = true
		case scene.TypeBlocked:
			teacherBlocks = append(teacherBlocks, active.Block...)
		}
	}

	pending := []Command{}
	if student != "" {
		drained, err := m.drainLocked(student)
		if err != nil {
			return Policy{}, err
		}
		pending = drained
	}

	return Policy{
		BlockedRedirect: m.st.Settings.BlockedRedirect,
		FocusMode:       focusMode,
		Paused:          paused,
		Announcement:    m.st.Announcement,
		Class: PolicyClass{
			ID:     DefaultClassID,
			Name:   m.st.Class.Name,
			Active: m.st.Class.Active,
		},
		Allowlist:     allowlist,
		TeacherBlocks: teacherBlocks,
		ChatEnabled:   m.st.Settings.ChatEnabled,
		Pending:       pending,
		Timestamp:     m.now().Unix(),
		Scenes:        PolicySceneStatus{Current: sceneRef},
	}, nil
}
