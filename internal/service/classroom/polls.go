package classroom

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CreatePoll 설문을 생성하고 모든 학생에게 설문 참여 명령을 브로드캐스트합니다.
func (m *Manager) CreatePoll(question string, options []string) (Poll, error) {
	question = strings.TrimSpace(question)

	cleaned := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			cleaned = append(cleaned, opt)
		}
	}

	if question == "" || len(cleaned) == 0 {
		return Poll{}, ErrPollQuestionRequired
	}

	poll := &Poll{
		ID:        uuid.NewString(),
		Question:  question,
		Options:   cleaned,
		Responses: []PollResponse{},
		CreatedAt: m.now().Unix(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.Polls[poll.ID] = poll
	m.broadcastLocked(Command{
		Type: "poll",
		Payload: map[string]any{
			"id":       poll.ID,
			"question": poll.Question,
			"options":  poll.Options,
		},
	})
	m.auditLocked("poll_create", map[string]any{"poll_id": poll.ID})

	if err := m.persistLocked(); err != nil {
		delete(m.st.Polls, poll.ID)
		return Poll{}, err
	}

	return clonePoll(poll), nil
}

// RespondPoll 설문에 대한 학생의 응답을 기록합니다.
// 같은 학생이 다시 응답하면 기존 응답을 대체합니다.
func (m *Manager) RespondPoll(pollID, student, answer string) error {
	student = strings.TrimSpace(student)
	if student == "" {
		return ErrStudentRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	poll, ok := m.st.Polls[pollID]
	if !ok {
		return ErrPollNotFound
	}

	response := PollResponse{
		Student:   student,
		Answer:    strings.TrimSpace(answer),
		Timestamp: m.now().Unix(),
	}

	replaced := false
	for i, r := range poll.Responses {
		if r.Student == student {
			poll.Responses[i] = response
			replaced = true
			break
		}
	}
	if !replaced {
		poll.Responses = append(poll.Responses, response)
	}

	return m.persistLocked()
}

// Poll 설문 하나를 조회합니다.
func (m *Manager) Poll(pollID string) (Poll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	poll, ok := m.st.Polls[pollID]
	if !ok {
		return Poll{}, ErrPollNotFound
	}

	return clonePoll(poll), nil
}

// Polls 전체 설문을 생성 시각 오름차순으로 반환합니다.
func (m *Manager) Polls() []Poll {
	m.mu.RLock()
	defer m.mu.RUnlock()

	polls := make([]Poll, 0, len(m.st.Polls))
	for _, p := range m.st.Polls {
		polls = append(polls, clonePoll(p))
	}

	sort.Slice(polls, func(i, j int) bool {
		if polls[i].CreatedAt != polls[j].CreatedAt {
			return polls[i].CreatedAt < polls[j].CreatedAt
		}
		return polls[i].ID < polls[j].ID
	})

	return polls
}

func clonePoll(p *Poll) Poll {
	cp := *p
	cp.Options = append([]string(nil), p.Options...)
	cp.Responses = append([]PollResponse(nil), p.Responses...)
	return cp
}
