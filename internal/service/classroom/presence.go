package classroom

import (
	"sort"
	"strings"
	"time"

	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

// timelineMinInterval 같은 URL에 머무르는 동안 활동 기록을 다시 남기기까지의 최소 간격입니다.
const timelineMinInterval = 15 * time.Second

// guestTokens 이메일이나 이름에 포함되면 게스트(체험) 계정으로 간주하는 토큰입니다.
var guestTokens = []string{"guest", "anon", "anonymous", "trial", "temp"}

// isGuestStudent 게스트 계정 여부를 판정합니다. 이메일이 비어 있거나,
// 이메일 또는 이름에 게스트 토큰이 포함되면 게스트입니다.
func isGuestStudent(email, name string) bool {
	if strings.TrimSpace(email) == "" {
		return true
	}

	email = strings.ToLower(email)
	name = strings.ToLower(name)
	for _, token := range guestTokens {
		if strings.Contains(email, token) || strings.Contains(name, token) {
			return true
		}
	}

	return false
}

// Heartbeat 학생 확장 프로그램의 주기 보고를 처리합니다.
//
// 게스트 계정은 아무 것도 기록하지 않고 확장 프로그램 비활성 응답만 돌려보냅니다.
// 정식 계정은 접속 상태를 갱신하고, URL이 바뀌었거나 마지막 기록 후 15초가
// 지났으면 활동 기록에 항목을 추가합니다.
func (m *Manager) Heartbeat(req HeartbeatRequest) (HeartbeatResponse, error) {
	student := strings.TrimSpace(req.Student)
	now := m.now()

	if isGuestStudent(student, req.StudentName) {
		return HeartbeatResponse{
			ServerTime:       now.Unix(),
			ExtensionEnabled: false,
		}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.st.Presence[student]
	if p == nil {
		p = &Presence{}
		m.st.Presence[student] = p
	}

	p.LastSeen = now.Unix()
	p.StudentName = strings.TrimSpace(req.StudentName)
	p.Tab = req.Tab
	p.Tabs = req.Tabs
	if req.Screenshot != "" {
		p.Screenshot = req.Screenshot
	}

	m.appendTimelineLocked(student, req.Tab, now)

	if err := m.persistLocked(); err != nil {
		return HeartbeatResponse{}, err
	}

	return HeartbeatResponse{
		ServerTime:       now.Unix(),
		ExtensionEnabled: m.st.ExtensionEnabled,
	}, nil
}

// appendTimelineLocked 활동 기록 추가 규칙을 적용합니다. 호출자는 쓰기 락을 보유해야 합니다.
func (m *Manager) appendTimelineLocked(student string, tab TabInfo, now time.Time) {
	if tab.URL == "" {
		return
	}

	timeline := m.st.History[student]
	if len(timeline) > 0 {
		last := timeline[len(timeline)-1]
		if last.URL == tab.URL && now.Unix()-last.Timestamp < int64(timelineMinInterval.Seconds()) {
			return
		}
	}

	timeline = append(timeline, TimelineEntry{
		Timestamp:  now.Unix(),
		Title:      tab.Title,
		URL:        tab.URL,
		FavIconURL: tab.FavIconURL,
	})
	if len(timeline) > maxTimelineEntries {
		timeline = timeline[len(timeline)-maxTimelineEntries:]
	}

	m.st.History[student] = timeline
}

// PresenceSnapshot 전체 학생의 접속 상태 복사본을 반환합니다.
func (m *Manager) PresenceSnapshot() map[string]Presence {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[string]Presence, len(m.st.Presence))
	for student, p := range m.st.Presence {
		cp := *p
		cp.Tabs = append([]TabInfo(nil), p.Tabs...)
		snapshot[student] = cp
	}

	return snapshot
}

// SweepPresence 지정된 TTL보다 오래 보고가 없는 학생의 접속 상태를 제거하고
// 제거된 학생 수를 반환합니다. 주기 작업(스케줄러)에서 호출됩니다.
func (m *Manager) SweepPresence(ttl time.Duration) (int, error) {
	cutoff := m.now().Add(-ttl).Unix()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for student, p := range m.st.Presence {
		if p.LastSeen < cutoff {
			delete(m.st.Presence, student)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}

	if err := m.persistLocked(); err != nil {
		return 0, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"removed": removed,
		"ttl":     ttl.String(),
	}).Info("장기 미접속 학생 접속 상태 정리 완료")

	return removed, nil
}

// Timeline 학생의 활동 기록을 since(Unix 초) 이후 기준으로 최대 limit개 반환합니다.
// limit이 0 이하이거나 한도를 넘으면 보존 한도로 고정됩니다.
func (m *Manager) Timeline(student string, since int64, limit int) ([]TimelineEntry, error) {
	student = strings.TrimSpace(student)
	if student == "" {
		return nil, ErrStudentRequired
	}

	if limit <= 0 || limit > maxTimelineEntries {
		limit = maxTimelineEntries
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]TimelineEntry, 0, limit)
	for _, e := range m.st.History[student] {
		if e.Timestamp >= since {
			entries = append(entries, e)
		}
	}

	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return entries, nil
}

// TimelineAll 전체 학생의 활동 기록을 학생 식별자를 붙여 최신순으로 반환합니다.
// since(Unix 초) 이전 항목은 제외되며, limit 초과분은 잘립니다.
func (m *Manager) TimelineAll(since int64, limit int) []TimelineEvent {
	if limit <= 0 || limit > maxTimelineEntries {
		limit = maxTimelineEntries
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]TimelineEvent, 0, limit)
	for student, timeline := range m.st.History {
		for _, e := range timeline {
			if e.Timestamp >= since {
				events = append(events, TimelineEvent{Student: student, TimelineEntry: e})
			}
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp > events[j].Timestamp
	})

	if len(events) > limit {
		events = events[:limit]
	}

	return events
}

// KnownStudents 접속 중이거나 활동 기록이 있는 학생의 정렬된 목록을 반환합니다.
func (m *Manager) KnownStudents() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.knownStudentsLocked()
}

func (m *Manager) knownStudentsLocked() []string {
	seen := make(map[string]struct{}, len(m.st.Presence)+len(m.st.History))
	for student := range m.st.Presence {
		seen[student] = struct{}{}
	}
	for student := range m.st.History {
		seen[student] = struct{}{}
	}

	students := make([]string, 0, len(seen))
	for student := range seen {
		students = append(students, student)
	}
	sort.Strings(students)

	return students
}
