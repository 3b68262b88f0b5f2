package classroom

import "strings"

// 참여도 평가 시간 창의 허용 범위 (초)
const (
	defaultEngagementWindow = 1800
	minEngagementWindow     = 60
	maxEngagementWindow     = 14400
)

// RecordOffTaskEvent 학생의 과업 이탈 판정 결과를 기록합니다.
// 참여도 평가와 위험도 산정의 입력으로 사용됩니다.
func (m *Manager) RecordOffTaskEvent(student, url string, onTask bool) error {
	student = strings.TrimSpace(student)
	if student == "" {
		return ErrStudentRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.OffTaskEvents = append(m.st.OffTaskEvents, OffTaskEvent{
		Student:   student,
		URL:       url,
		Timestamp: m.now().Unix(),
		OnTask:    onTask,
	})
	if len(m.st.OffTaskEvents) > maxOffTaskEvents {
		m.st.OffTaskEvents = m.st.OffTaskEvents[len(m.st.OffTaskEvents)-maxOffTaskEvents:]
	}

	return m.persistLocked()
}

// Engagement 시간 창 내 활동을 기준으로 학생별 참여도와 위험도를 평가합니다.
//
// 참여도는 시간 창 내 활동 기록 대비 이탈 판정의 비율로 계산하며,
// 활동 기록이 없으면 판단 근거가 없으므로 1.0으로 간주합니다.
// window는 초 단위이며 [60, 14400] 범위로 고정됩니다. 0 이하는 기본값(1800초)입니다.
func (m *Manager) Engagement(window int64) EngagementReport {
	if window <= 0 {
		window = defaultEngagementWindow
	}
	if window < minEngagementWindow {
		window = minEngagementWindow
	}
	if window > maxEngagementWindow {
		window = maxEngagementWindow
	}

	now := m.now().Unix()
	since := now - window

	m.mu.RLock()
	defer m.mu.RUnlock()

	report := EngagementReport{
		Window:   window,
		Since:    since,
		Now:      now,
		Students: []StudentEngagement{},
	}

	for _, student := range m.knownStudentsLocked() {
		activity := 0
		for _, e := range m.st.History[student] {
			if e.Timestamp >= since {
				activity++
			}
		}

		offTask := 0
		for _, e := range m.st.OffTaskEvents {
			if e.Student == student && e.Timestamp >= since && !e.OnTask {
				offTask++
			}
		}

		alerts := 0
		for _, a := range m.st.Alerts {
			if a.Student == student && a.Timestamp >= since {
				alerts++
			}
		}

		engagement := 1.0
		if activity > 0 {
			engagement = 1.0 - float64(offTask)/float64(activity)
			if engagement < 0 {
				engagement = 0
			}
			if engagement > 1 {
				engagement = 1
			}
		}

		entry := StudentEngagement{
			Student:       student,
			Engagement:    engagement,
			OffTaskEvents: offTask,
			Alerts:        alerts,
			Risk:          riskLevel(engagement, offTask, alerts),
		}

		if p := m.st.Presence[student]; p != nil {
			entry.TabsOpen = len(p.Tabs)
			entry.LastSeen = p.LastSeen
		}

		report.Students = append(report.Students, entry)
	}

	return report
}

// riskLevel 참여도 점수와 이탈/알림 횟수로 위험 등급을 판정합니다.
func riskLevel(engagement float64, offTask, alerts int) string {
	switch {
	case engagement < 0.4 || offTask >= 10 || alerts >= 5:
		return "high"
	case engagement < 0.6 || offTask >= 5 || alerts >= 3:
		return "medium"
	default:
		return "low"
	}
}
