package classroom

import (
	"net/url"
	"strings"

	"github.com/gdistrict/gschool-connect/internal/service/scene"
	"github.com/gdistrict/gschool-connect/pkg/urlmatch"
)

// offTaskKeywords 허용 목록과 무관하게 과업 이탈로 판정하는 호스트 키워드입니다.
var offTaskKeywords = []string{"coolmath", "roblox", "twitch", "steam", "epicgames"}

// OffTaskVerdict 과업 이탈 판정 결과입니다.
type OffTaskVerdict struct {
	OnTask bool   `json:"on_task"`
	Reason string `json:"reason"`
}

// CheckOffTask 학생이 보고한 URL이 현재 수업의 허용 범위에 속하는지 판정하고
// 그 결과를 이탈 기록으로 남깁니다.
//
// 판정 순서:
//  1. 호스트에 오락성 키워드가 포함되면 허용 목록과 무관하게 이탈로 판정합니다.
//  2. 허용 장면이 적용 중이면 장면의 allow 목록이, 아니면 수업 허용 목록이 기준입니다.
//  3. 기준 목록이 비어 있으면 판정 근거가 없으므로 과업 수행 중으로 간주합니다.
func (m *Manager) CheckOffTask(student, rawURL string, scenes SceneProvider) (OffTaskVerdict, error) {
	student = strings.TrimSpace(student)
	if student == "" {
		return OffTaskVerdict{}, ErrStudentRequired
	}

	verdict := m.judgeOffTask(rawURL, scenes)

	if err := m.RecordOffTaskEvent(student, rawURL, verdict.OnTask); err != nil {
		return OffTaskVerdict{}, err
	}

	return verdict, nil
}

func (m *Manager) judgeOffTask(rawURL string, scenes SceneProvider) OffTaskVerdict {
	host := hostOf(rawURL)
	for _, keyword := range offTaskKeywords {
		if strings.Contains(host, keyword) {
			return OffTaskVerdict{OnTask: false, Reason: "entertainment site"}
		}
	}

	patterns := m.effectiveAllowlist(scenes)
	if len(patterns) == 0 {
		return OffTaskVerdict{OnTask: true, Reason: "no allowlist configured"}
	}

	list, _ := urlmatch.NewListLenient(patterns)
	if list.Match(rawURL) {
		return OffTaskVerdict{OnTask: true, Reason: "matches allowlist"}
	}

	return OffTaskVerdict{OnTask: false, Reason: "outside allowlist"}
}

// effectiveAllowlist 현재 판정 기준이 되는 허용 패턴 목록을 반환합니다.
func (m *Manager) effectiveAllowlist(scenes SceneProvider) []string {
	if scenes != nil {
		if active := scenes.Active(); active != nil && active.Type == scene.TypeAllowed {
			return append([]string(nil), active.Allow...)
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.st.Class.Allowlist...)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Hostname())
}
