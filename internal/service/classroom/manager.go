// Package classroom 교실 상태(수업, 출석, 명령 큐, 알림, 설문, 감사 로그)를 관리합니다.
package classroom

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gdistrict/gschool-connect/internal/service/contract"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/iancoleman/strcase"
)

// component Classroom Manager 로깅용 컴포넌트 이름
const component = "classroom.manager"

// stateName 상태 저장소에서 교실 스냅샷을 구분하는 컬렉션 이름입니다.
const stateName = "classroom"

// state 저장소에 기록되는 교실의 전체 상태입니다.
type state struct {
	Settings         Settings                   `json:"settings"`
	Class            Class                      `json:"class"`
	Announcement     string                     `json:"announcement,omitempty"`
	ExtensionEnabled bool                       `json:"extension_enabled"`
	StudentOverrides map[string]StudentOverride `json:"student_overrides,omitempty"`

	// Broadcast 모든 학생에게 전달되는 명령 큐입니다. 학생별 전달 커서(Presence.BroadcastCursor)로
	// 중복 전달을 방지하며, 오래된 항목은 한도 초과 시 잘려 나갑니다.
	Broadcast    []Command `json:"broadcast,omitempty"`
	BroadcastSeq uint64    `json:"broadcast_seq,omitempty"`

	// PerStudent 특정 학생에게만 전달되는 명령 큐입니다. 전달 즉시 비워집니다(One-Shot).
	PerStudent map[string][]Command `json:"per_student,omitempty"`

	Presence map[string]*Presence       `json:"presence,omitempty"`
	History  map[string][]TimelineEntry `json:"history,omitempty"`

	Alerts        []Alert          `json:"alerts,omitempty"`
	RaisedHands   []RaisedHand     `json:"raised_hands,omitempty"`
	Polls         map[string]*Poll `json:"polls,omitempty"`
	OffTaskEvents []OffTaskEvent   `json:"offtask_events,omitempty"`
	Audit         []AuditEntry     `json:"audit,omitempty"`

	// DM 학생별 1:1 메시지 스레드입니다.
	DM map[string][]DirectMessage `json:"dm,omitempty"`

	Exam           ExamState       `json:"exam"`
	ExamViolations []ExamViolation `json:"exam_violations,omitempty"`
}

// defaultState 최초 실행 시 사용되는 기본 교실 상태입니다.
func defaultState() state {
	return state{
		Settings: Settings{
			ChatEnabled:     false,
			BlockedRedirect: DefaultBlockedRedirect,
		},
		Class: Class{
			Name:          "Period 1",
			Active:        true,
			FocusMode:     false,
			Paused:        false,
			Allowlist:     []string{},
			TeacherBlocks: []string{},
			Students:      []string{},
		},
		ExtensionEnabled: true,
		StudentOverrides: map[string]StudentOverride{},
		PerStudent:       map[string][]Command{},
		Presence:         map[string]*Presence{},
		History:          map[string][]TimelineEntry{},
		Polls:            map[string]*Poll{},
		DM:               map[string][]DirectMessage{},
	}
}

// ensureMaps 역직렬화 후 nil 맵을 초기화하여 이후 접근을 안전하게 만듭니다.
func (s *state) ensureMaps() {
	if s.StudentOverrides == nil {
		s.StudentOverrides = map[string]StudentOverride{}
	}
	if s.PerStudent == nil {
		s.PerStudent = map[string][]Command{}
	}
	if s.Presence == nil {
		s.Presence = map[string]*Presence{}
	}
	if s.History == nil {
		s.History = map[string][]TimelineEntry{}
	}
	if s.Polls == nil {
		s.Polls = map[string]*Poll{}
	}
	if s.DM == nil {
		s.DM = map[string][]DirectMessage{}
	}
	if s.Settings.BlockedRedirect == "" {
		s.Settings.BlockedRedirect = DefaultBlockedRedirect
	}
}

// Manager 교실 상태의 모든 변경과 조회를 직렬화하는 관리자입니다.
//
// 모든 변경은 스냅샷을 저장소에 기록한 후 메모리에 반영됩니다.
// 시계(now)는 테스트에서 주입 가능하도록 필드로 분리되어 있습니다.
type Manager struct {
	mu sync.RWMutex

	st state

	store contract.StateStore

	now func() time.Time
}

// NewManager 저장소에서 기존 스냅샷을 불러와 교실 관리자를 초기화합니다.
// 저장된 스냅샷이 없으면 기본 상태로 시작합니다.
func NewManager(store contract.StateStore) (*Manager, error) {
	if store == nil {
		panic("StateStore는 필수입니다")
	}

	m := &Manager{
		store: store,
		now:   time.Now,
	}

	var st state
	err := store.Load(stateName, &st)
	switch {
	case err == nil:
		st.ensureMaps()
		m.st = st
	case errors.Is(err, contract.ErrStateNotFound):
		m.st = defaultState()
	default:
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"students_present":  len(m.st.Presence),
		"extension_enabled": m.st.ExtensionEnabled,
	}).Info("교실 관리자 초기화 완료")

	return m, nil
}

// persistLocked 현재 상태를 저장소에 기록합니다. 호출자는 쓰기 락을 보유해야 합니다.
func (m *Manager) persistLocked() error {
	if err := m.store.Save(stateName, m.st); err != nil {
		return NewErrStatePersistFailed(err)
	}
	return nil
}

// auditLocked 감사 로그 항목을 추가합니다. 이벤트 키는 snake_case로 정규화됩니다.
// 호출자는 쓰기 락을 보유해야 하며, 이어서 persistLocked를 호출해야 합니다.
func (m *Manager) auditLocked(event string, fields map[string]any) {
	entry := AuditEntry{
		Event:     strcase.ToSnake(event),
		Timestamp: m.now().Unix(),
		Fields:    fields,
	}

	m.st.Audit = append(m.st.Audit, entry)
	if len(m.st.Audit) > maxAuditEntries {
		m.st.Audit = m.st.Audit[len(m.st.Audit)-maxAuditEntries:]
	}
}

// Announce 공지 메시지를 설정하고 모든 학생에게 정책 갱신을 지시합니다.
// 빈 메시지는 공지 철회로 동작합니다.
func (m *Manager) Announce(message string) error {
	message = strings.TrimSpace(message)

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.st.Announcement
	m.st.Announcement = message
	m.broadcastLocked(Command{Type: "policy_refresh"})
	m.auditLocked("announce", map[string]any{"message": message})

	if err := m.persistLocked(); err != nil {
		m.st.Announcement = prev
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"length": len(message),
	}).Info("공지 등록 완료")

	return nil
}

// Announcement 현재 공지 메시지를 반환합니다.
func (m *Manager) Announcement() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.Announcement
}

// ClassState 현재 수업 상태와 전역 설정의 복사본을 반환합니다.
func (m *Manager) ClassState() (Class, Settings) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.cloneClassLocked(), m.st.Settings
}

func (m *Manager) cloneClassLocked() Class {
	cls := m.st.Class
	cls.Allowlist = append([]string(nil), m.st.Class.Allowlist...)
	cls.TeacherBlocks = append([]string(nil), m.st.Class.TeacherBlocks...)
	cls.Students = append([]string(nil), m.st.Class.Students...)
	return cls
}

// SetClass 수업 설정을 변경합니다.
//
// 비활성 상태에서 활성으로 전환되면 수업 시작 알림을 브로드캐스트하며,
// 변경 후에는 항상 정책 갱신 명령을 브로드캐스트합니다.
func (m *Manager) SetClass(update ClassUpdate) (Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prevActive := m.st.Class.Active

	if update.TeacherBlocks != nil {
		m.st.Class.TeacherBlocks = append([]string(nil), (*update.TeacherBlocks)...)
	}
	if update.Allowlist != nil {
		m.st.Class.Allowlist = append([]string(nil), (*update.Allowlist)...)
	}
	if update.ChatEnabled != nil {
		m.st.Settings.ChatEnabled = *update.ChatEnabled
	}
	if update.Active != nil {
		m.st.Class.Active = *update.Active
	}
	if update.Passcode != "" {
		m.st.Settings.Passcode = update.Passcode
	}

	// 수업이 새로 활성화되면 학생들에게 참여 안내를 보냅니다.
	if m.st.Class.Active && !prevActive {
		m.broadcastLocked(Command{
			Type: "notify",
			Payload: map[string]any{
				"title":   "Class session is active",
				"message": "Please join and stay until dismissed.",
			},
		})
	}

	m.broadcastLocked(Command{Type: "policy_refresh"})
	m.auditLocked("class_set", map[string]any{"active": m.st.Class.Active})

	if err := m.persistLocked(); err != nil {
		return Class{}, err
	}

	return m.cloneClassLocked(), nil
}

// ToggleClass 수업의 focus_mode 또는 paused 플래그를 변경합니다.
func (m *Manager) ToggleClass(key string, value bool) (Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch key {
	case "focus_mode":
		m.st.Class.FocusMode = value
	case "paused":
		m.st.Class.Paused = value
	default:
		return Class{}, NewErrInvalidToggleKey(key)
	}

	m.auditLocked("class_toggle", map[string]any{"key": key, "value": value})

	if err := m.persistLocked(); err != nil {
		return Class{}, err
	}

	return m.cloneClassLocked(), nil
}

// UpdateSettings 교실 전역 설정을 변경합니다. (관리자 전용 조작)
func (m *Manager) UpdateSettings(update SettingsUpdate) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if update.BlockedRedirect != nil {
		m.st.Settings.BlockedRedirect = *update.BlockedRedirect
	}
	if update.ChatEnabled != nil {
		m.st.Settings.ChatEnabled = *update.ChatEnabled
	}
	if update.Passcode != "" {
		m.st.Settings.Passcode = update.Passcode
	}

	m.auditLocked("settings_update", nil)

	if err := m.persistLocked(); err != nil {
		return Settings{}, err
	}

	return m.st.Settings, nil
}

// SetStudentOverride 특정 학생의 focus_mode/paused 플래그 덮어쓰기를 설정하고
// 병합된 결과를 반환합니다. nil 필드는 기존 값을 유지합니다.
func (m *Manager) SetStudentOverride(student string, override StudentOverride) (StudentOverride, error) {
	student = strings.TrimSpace(student)
	if student == "" {
		return StudentOverride{}, ErrStudentRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.st.StudentOverrides[student]
	if override.FocusMode != nil {
		existing.FocusMode = override.FocusMode
	}
	if override.Paused != nil {
		existing.Paused = override.Paused
	}
	m.st.StudentOverrides[student] = existing

	m.auditLocked("student_set", map[string]any{"student": student})

	if err := m.persistLocked(); err != nil {
		return StudentOverride{}, err
	}

	return existing, nil
}

// SetExtensionEnabled 전체 학생 확장 프로그램의 동작 여부를 일괄 제어합니다. (Kill Switch)
func (m *Manager) SetExtensionEnabled(enabled bool, by string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.ExtensionEnabled = enabled
	m.auditLocked("extension_toggle", map[string]any{"enabled": enabled, "by": by})

	if err := m.persistLocked(); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"enabled": enabled,
		"by":      by,
	}).Info("확장 프로그램 전역 스위치 변경 완료")

	return nil
}

// ExtensionEnabled 확장 프로그램 전역 스위치 상태를 반환합니다.
func (m *Manager) ExtensionEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.ExtensionEnabled
}

// AuditLog 최근 감사 로그를 최대 limit개 반환합니다. limit이 0 이하이면 전체를 반환합니다.
func (m *Manager) AuditLog(limit int) []AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.st.Audit
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return append([]AuditEntry(nil), entries...)
}

// TrimAudit 지정된 시각보다 오래된 감사 로그 항목을 제거하고 제거된 개수를 반환합니다.
func (m *Manager) TrimAudit(olderThan time.Time) (int, error) {
	cutoff := olderThan.Unix()

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]AuditEntry, 0, len(m.st.Audit))
	for _, e := range m.st.Audit {
		if e.Timestamp >= cutoff {
			kept = append(kept, e)
		}
	}

	removed := len(m.st.Audit) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	m.st.Audit = kept

	if err := m.persistLocked(); err != nil {
		return 0, err
	}

	return removed, nil
}
