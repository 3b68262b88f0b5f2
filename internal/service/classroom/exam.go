package classroom

import (
	"strings"

	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

// defaultExamViolationReason 위반 사유가 생략된 보고에 기록되는 기본 사유입니다.
const defaultExamViolationReason = "tab_violation"

// StartExam 시험 모드를 시작하고 전체 학생에게 시험 페이지 고정을 지시합니다.
func (m *Manager) StartExam(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrExamURLRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.Exam = ExamState{Active: true, URL: url}
	m.broadcastLocked(Command{
		Type:    "exam_start",
		Payload: map[string]any{"url": url},
	})
	m.auditLocked("exam_start", map[string]any{"url": url})

	if err := m.persistLocked(); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"url": url,
	}).Info("시험 모드 시작")

	return nil
}

// EndExam 시험 모드를 종료합니다. 이미 종료된 상태에서도 에러 없이 동작합니다.
func (m *Manager) EndExam() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.Exam = ExamState{}
	m.broadcastLocked(Command{Type: "exam_end"})
	m.auditLocked("exam_end", nil)

	if err := m.persistLocked(); err != nil {
		return err
	}

	applog.WithComponent(component).Info("시험 모드 종료")

	return nil
}

// ExamStatus 시험 모드의 현재 상태를 반환합니다.
func (m *Manager) ExamStatus() ExamState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.Exam
}

// AddExamViolation 시험 중 이탈 행위 보고를 기록합니다.
// 사유가 비어 있으면 탭 이동 위반으로 간주합니다.
func (m *Manager) AddExamViolation(student, url, reason string) error {
	student = strings.TrimSpace(student)
	if student == "" {
		return ErrStudentRequired
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultExamViolationReason
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.ExamViolations = append(m.st.ExamViolations, ExamViolation{
		Student:   student,
		URL:       url,
		Reason:    reason,
		Timestamp: m.now().Unix(),
	})
	if len(m.st.ExamViolations) > maxExamViolations {
		m.st.ExamViolations = m.st.ExamViolations[len(m.st.ExamViolations)-maxExamViolations:]
	}

	return m.persistLocked()
}

// ExamViolationLog 최근 위반 기록을 최대 limit개 반환합니다.
// limit이 0 이하이거나 한도를 넘으면 보존 한도로 고정됩니다.
func (m *Manager) ExamViolationLog(limit int) []ExamViolation {
	if limit <= 0 || limit > maxExamViolations {
		limit = maxExamViolations
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	violations := m.st.ExamViolations
	if len(violations) > limit {
		violations = violations[len(violations)-limit:]
	}

	return append([]ExamViolation{}, violations...)
}

// ClearExamViolations 위반 기록을 제거하고 제거된 개수를 반환합니다.
// student가 비어 있으면 전체를, 지정되면 해당 학생의 기록만 제거합니다.
func (m *Manager) ClearExamViolations(student string) (int, error) {
	student = strings.TrimSpace(student)

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.st.ExamViolations[:0:0]
	if student != "" {
		for _, v := range m.st.ExamViolations {
			if v.Student != student {
				kept = append(kept, v)
			}
		}
	}

	removed := len(m.st.ExamViolations) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	m.st.ExamViolations = kept
	m.auditLocked("exam_violations_clear", map[string]any{"student": student, "removed": removed})

	if err := m.persistLocked(); err != nil {
		return 0, err
	}

	return removed, nil
}
