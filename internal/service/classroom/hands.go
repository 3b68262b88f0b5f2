package classroom

import "strings"

// RaiseHand 학생의 손들기 요청을 기록합니다.
func (m *Manager) RaiseHand(student, note string) error {
	student = strings.TrimSpace(student)
	if student == "" {
		return ErrStudentRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.RaisedHands = append(m.st.RaisedHands, RaisedHand{
		Student:   student,
		Note:      strings.TrimSpace(note),
		Timestamp: m.now().Unix(),
	})
	if len(m.st.RaisedHands) > maxRaisedHands {
		m.st.RaisedHands = m.st.RaisedHands[len(m.st.RaisedHands)-maxRaisedHands:]
	}

	return m.persistLocked()
}

// RaisedHands 처리되지 않은 손들기 요청 목록을 반환합니다.
func (m *Manager) RaisedHands() []RaisedHand {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]RaisedHand(nil), m.st.RaisedHands...)
}

// ClearRaisedHands 손들기 요청을 제거하고 제거된 개수를 반환합니다.
// student가 비어 있으면 전체를, 지정되어 있으면 해당 학생의 요청만 제거합니다.
func (m *Manager) ClearRaisedHands(student string) (int, error) {
	student = strings.TrimSpace(student)

	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []RaisedHand
	if student != "" {
		kept = make([]RaisedHand, 0, len(m.st.RaisedHands))
		for _, h := range m.st.RaisedHands {
			if h.Student != student {
				kept = append(kept, h)
			}
		}
	}

	removed := len(m.st.RaisedHands) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	m.st.RaisedHands = kept

	if err := m.persistLocked(); err != nil {
		return 0, err
	}

	return removed, nil
}
