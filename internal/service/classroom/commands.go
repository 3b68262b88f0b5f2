package classroom

import (
	"strings"

	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/gdistrict/gschool-connect/pkg/strutil"
)

// 알림 명령의 제목/본문 길이 한도
const (
	maxNotifyTitleLength   = 120
	maxNotifyMessageLength = 500
)

// broadcastLocked 모든 학생에게 전달될 명령을 브로드캐스트 큐에 추가합니다.
// 각 항목은 증가하는 Seq 번호를 부여받으며 학생별 커서로 전달 여부를 추적합니다.
// 호출자는 쓰기 락을 보유해야 합니다.
func (m *Manager) broadcastLocked(cmd Command) {
	m.st.BroadcastSeq++
	cmd.Seq = m.st.BroadcastSeq

	m.st.Broadcast = append(m.st.Broadcast, cmd)
	if len(m.st.Broadcast) > maxBroadcastEntries {
		m.st.Broadcast = m.st.Broadcast[len(m.st.Broadcast)-maxBroadcastEntries:]
	}
}

// PushCommand 특정 학생("student") 또는 전체("*")에게 명령을 전달합니다.
func (m *Manager) PushCommand(target string, cmd Command) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return ErrStudentRequired
	}
	if strings.TrimSpace(cmd.Type) == "" {
		return ErrCommandTypeRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if target == "*" {
		m.broadcastLocked(cmd)
	} else {
		queue := append(m.st.PerStudent[target], cmd)
		if len(queue) > maxPendingPerQueue {
			queue = queue[len(queue)-maxPendingPerQueue:]
		}
		m.st.PerStudent[target] = queue
	}

	if err := m.persistLocked(); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"target": target,
		"type":   cmd.Type,
	}).Debug("명령 큐에 추가 완료")

	return nil
}

// DrainCommands 학생에게 전달할 명령을 모아 반환합니다.
//
// 개인 큐는 반환과 동시에 비워지고(One-Shot), 브로드캐스트 큐에서는 학생의
// 커서(Seq) 이후에 추가된 항목만 복사하여 전달한 뒤 커서를 전진시킵니다.
// 한 학생의 수신이 다른 학생의 수신에 영향을 주지 않습니다.
func (m *Manager) DrainCommands(student string) ([]Command, error) {
	student = strings.TrimSpace(student)
	if student == "" {
		return nil, ErrStudentRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.drainLocked(student)
}

// drainLocked DrainCommands의 본체입니다. 호출자는 쓰기 락을 보유해야 합니다.
func (m *Manager) drainLocked(student string) ([]Command, error) {
	commands := append([]Command(nil), m.st.PerStudent[student]...)
	delete(m.st.PerStudent, student)

	// 첫 하트비트 전에 수신을 시작한 학생도 커서가 유지되도록 접속 항목을 만들어 둔다.
	p := m.st.Presence[student]
	created := p == nil
	if created {
		p = &Presence{LastSeen: m.now().Unix()}
		m.st.Presence[student] = p
	}

	cursor := p.BroadcastCursor
	for _, cmd := range m.st.Broadcast {
		if cmd.Seq > cursor {
			commands = append(commands, cmd)
			cursor = cmd.Seq
		}
	}

	advanced := cursor != p.BroadcastCursor
	p.BroadcastCursor = cursor

	if len(commands) == 0 && !advanced && !created {
		return []Command{}, nil
	}

	if err := m.persistLocked(); err != nil {
		return nil, err
	}

	if commands == nil {
		commands = []Command{}
	}

	return commands, nil
}

// BroadcastPolicyRefresh 모든 학생에게 정책을 다시 받아가도록 지시합니다.
// 장면 적용/해제 등 정책에 영향을 주는 외부 변경에 연결됩니다.
func (m *Manager) BroadcastPolicyRefresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.broadcastLocked(Command{Type: "policy_refresh"})

	if err := m.persistLocked(); err != nil {
		applog.WithComponent(component).WithError(err).Error("정책 갱신 브로드캐스트 저장 실패")
	}
}

// Notify 모든 학생에게 화면 알림 명령을 브로드캐스트합니다.
// 제목과 본문이 비어 있으면 기본값으로 채우고 길이 한도로 자릅니다.
func (m *Manager) Notify(title, message string) error {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)

	if title == "" {
		title = "G School"
	}
	if message == "" {
		message = "Notification from your teacher."
	}

	title = strutil.Truncate(title, maxNotifyTitleLength)
	message = strutil.Truncate(message, maxNotifyMessageLength)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.broadcastLocked(Command{
		Type: "notify",
		Payload: map[string]any{
			"title":   title,
			"message": message,
		},
	})
	m.auditLocked("notify_all", map[string]any{"title": title})

	return m.persistLocked()
}
