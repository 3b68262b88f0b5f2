package classroom

import (
	"strings"

	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

// 1:1 메시지의 발신 주체 구분
const (
	dmFromStudent = "student"
	dmFromTeacher = "teacher"
)

// SendDirectMessage 학생 스레드에 1:1 메시지를 추가합니다.
//
// from이 "student"가 아니면 교사 발신으로 정규화되며, 학생이 보낸 메시지는
// 교사가 확인할 때까지 읽지 않음 상태로 남습니다.
func (m *Manager) SendDirectMessage(student, from, user, text string) (DirectMessage, error) {
	student = strings.TrimSpace(student)
	if student == "" {
		return DirectMessage{}, ErrStudentRequired
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return DirectMessage{}, ErrMessageTextRequired
	}

	if from != dmFromStudent {
		from = dmFromTeacher
	}
	if strings.TrimSpace(user) == "" {
		user = student
	}

	msg := DirectMessage{
		From:      from,
		User:      user,
		Text:      text,
		Timestamp: m.now().Unix(),
		Unread:    from == dmFromStudent,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	thread := append(m.st.DM[student], msg)
	if len(thread) > maxDirectMessages {
		thread = thread[len(thread)-maxDirectMessages:]
	}
	m.st.DM[student] = thread

	m.auditLocked("dm_send", map[string]any{"student": student, "from": from})

	if err := m.persistLocked(); err != nil {
		return DirectMessage{}, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"student": student,
		"from":    from,
	}).Debug("1:1 메시지 저장 완료")

	return msg, nil
}

// DirectMessages 학생 스레드의 메시지를 최대 limit개 반환합니다.
// limit이 0 이하이거나 한도를 넘으면 보존 한도로 고정됩니다.
func (m *Manager) DirectMessages(student string, limit int) ([]DirectMessage, error) {
	student = strings.TrimSpace(student)
	if student == "" {
		return nil, ErrStudentRequired
	}

	if limit <= 0 || limit > maxDirectMessages {
		limit = maxDirectMessages
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	thread := m.st.DM[student]
	if len(thread) > limit {
		thread = thread[len(thread)-limit:]
	}

	return append([]DirectMessage{}, thread...), nil
}

// UnreadDirectMessageCounts 학생별로 교사가 아직 확인하지 않은
// 학생 발신 메시지 개수를 반환합니다.
func (m *Manager) UnreadDirectMessageCounts() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int, len(m.st.DM))
	for student, thread := range m.st.DM {
		n := 0
		for _, msg := range thread {
			if msg.From == dmFromStudent && msg.Unread {
				n++
			}
		}
		if n > 0 {
			counts[student] = n
		}
	}

	return counts
}

// MarkDirectMessagesRead 학생 스레드의 학생 발신 메시지를 모두 읽음으로 표시합니다.
func (m *Manager) MarkDirectMessagesRead(student string) error {
	student = strings.TrimSpace(student)
	if student == "" {
		return ErrStudentRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	for i := range m.st.DM[student] {
		msg := &m.st.DM[student][i]
		if msg.From == dmFromStudent && msg.Unread {
			msg.Unread = false
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return m.persistLocked()
}
