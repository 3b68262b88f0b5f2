package classroom

import "strings"

// maxAlertsReturned 목록 조회 시 반환하는 최근 알림의 최대 개수입니다.
const maxAlertsReturned = 200

// AddAlert 교사의 주의가 필요한 알림을 기록합니다.
func (m *Manager) AddAlert(alert Alert) error {
	alert.Student = strings.TrimSpace(alert.Student)
	if alert.Student == "" {
		return ErrStudentRequired
	}
	if alert.Kind == "" {
		alert.Kind = "generic"
	}
	alert.Timestamp = m.now().Unix()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.Alerts = append(m.st.Alerts, alert)
	if len(m.st.Alerts) > maxAlerts {
		m.st.Alerts = m.st.Alerts[len(m.st.Alerts)-maxAlerts:]
	}

	return m.persistLocked()
}

// Alerts 최근 알림을 최대 200개 반환합니다.
func (m *Manager) Alerts() []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alerts := m.st.Alerts
	if len(alerts) > maxAlertsReturned {
		alerts = alerts[len(alerts)-maxAlertsReturned:]
	}

	return append([]Alert(nil), alerts...)
}

// ClearAlerts 알림을 제거하고 제거된 개수를 반환합니다.
// student가 비어 있으면 전체 알림을, 지정되어 있으면 해당 학생의 알림만 제거합니다.
func (m *Manager) ClearAlerts(student string) (int, error) {
	student = strings.TrimSpace(student)

	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []Alert
	if student != "" {
		kept = make([]Alert, 0, len(m.st.Alerts))
		for _, a := range m.st.Alerts {
			if a.Student != student {
				kept = append(kept, a)
			}
		}
	}

	removed := len(m.st.Alerts) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	m.st.Alerts = kept
	m.auditLocked("alerts_clear", map[string]any{"student": student, "removed": removed})

	if err := m.persistLocked(); err != nil {
		return 0, err
	}

	return removed, nil
}
