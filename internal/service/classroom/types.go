package classroom

// DefaultClassID 단일 교시 운영 모델의 기본 수업 식별자입니다.
const DefaultClassID = "period1"

// DefaultBlockedRedirect 차단 페이지로 사용할 기본 리다이렉트 주소입니다.
const DefaultBlockedRedirect = "https://blocked.gdistrict.org/blocked"

// 목록별 보존 한도
const (
	maxTimelineEntries  = 500
	maxAlerts           = 500
	maxAuditEntries     = 500
	maxOffTaskEvents    = 2000
	maxRaisedHands      = 200
	maxPendingPerQueue  = 50
	maxBroadcastEntries = 100
	maxDirectMessages   = 200
	maxExamViolations   = 500
)

// Settings 교실 전역 설정입니다.
type Settings struct {
	ChatEnabled     bool   `json:"chat_enabled"`
	BlockedRedirect string `json:"blocked_redirect,omitempty"`
	Passcode        string `json:"passcode,omitempty"`
}

// Class 수업(교시)의 상태와 접속 제어 목록입니다.
type Class struct {
	Name          string   `json:"name"`
	Active        bool     `json:"active"`
	FocusMode     bool     `json:"focus_mode"`
	Paused        bool     `json:"paused"`
	Allowlist     []string `json:"allowlist"`
	TeacherBlocks []string `json:"teacher_blocks"`
	Students      []string `json:"students"`
}

// StudentOverride 수업 단위 플래그를 특정 학생에 한해 덮어쓰는 설정입니다.
type StudentOverride struct {
	FocusMode *bool `json:"focus_mode,omitempty"`
	Paused    *bool `json:"paused,omitempty"`
}

// Command 학생 확장 프로그램에 전달되는 명령입니다.
// Type 외의 필드는 명령 종류마다 다르므로 Payload에 그대로 담습니다.
type Command struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`

	// Seq 브로드캐스트 명령의 전달 순서 번호입니다. 개인 명령에서는 0입니다.
	Seq uint64 `json:"seq,omitempty"`
}

// TabInfo 하트비트로 보고되는 브라우저 탭 정보입니다.
type TabInfo struct {
	ID         int    `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	FavIconURL string `json:"favIconUrl,omitempty"`
}

// Presence 학생의 최근 접속 상태입니다.
type Presence struct {
	LastSeen    int64     `json:"last_seen"`
	StudentName string    `json:"student_name,omitempty"`
	Tab         TabInfo   `json:"tab"`
	Tabs        []TabInfo `json:"tabs"`
	Screenshot  string    `json:"screenshot,omitempty"`

	// broadcastCursor 마지막으로 전달한 브로드캐스트 명령의 Seq입니다.
	BroadcastCursor uint64 `json:"broadcast_cursor,omitempty"`
}

// TimelineEntry 학생 활동 기록의 한 항목입니다.
type TimelineEntry struct {
	Timestamp  int64  `json:"ts"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url"`
	FavIconURL string `json:"favIconUrl,omitempty"`
}

// TimelineEvent 전체 학생 활동 기록 조회에서 학생 식별자가 붙은 항목입니다.
type TimelineEvent struct {
	Student string `json:"student"`
	TimelineEntry
}

// DirectMessage 교사와 학생 사이에 오간 1:1 메시지입니다.
// From은 발신 주체의 역할(teacher 또는 student)입니다.
type DirectMessage struct {
	From      string `json:"from"`
	User      string `json:"user"`
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"`

	// Unread 학생이 보낸 메시지 중 교사가 아직 확인하지 않은 것을 표시합니다.
	Unread bool `json:"unread,omitempty"`
}

// ExamState 시험 모드의 현재 상태입니다. 활성화 중에는 학생 브라우저가
// 시험 URL 외의 탭 이동을 위반으로 보고합니다.
type ExamState struct {
	Active bool   `json:"active"`
	URL    string `json:"url,omitempty"`
}

// ExamViolation 시험 모드 중 학생 확장 프로그램이 보고한 이탈 행위입니다.
type ExamViolation struct {
	Student   string `json:"student"`
	URL       string `json:"url,omitempty"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"ts"`
}

// Alert 이탈 행동 등 교사의 주의가 필요한 알림입니다.
type Alert struct {
	Timestamp int64   `json:"ts"`
	Student   string  `json:"student"`
	Kind      string  `json:"kind"`
	Score     float64 `json:"score,omitempty"`
	Title     string  `json:"title,omitempty"`
	URL       string  `json:"url,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// RaisedHand 학생의 손들기 요청입니다.
type RaisedHand struct {
	Student   string `json:"student"`
	Note      string `json:"note,omitempty"`
	Timestamp int64  `json:"ts"`
}

// Poll 수업 중 진행되는 설문입니다.
type Poll struct {
	ID        string         `json:"id"`
	Question  string         `json:"question"`
	Options   []string       `json:"options"`
	Responses []PollResponse `json:"responses"`
	CreatedAt int64          `json:"created_at"`
}

// PollResponse 설문에 대한 학생의 응답입니다.
type PollResponse struct {
	Student   string `json:"student"`
	Answer    string `json:"answer"`
	Timestamp int64  `json:"ts"`
}

// OffTaskEvent 학생의 과업 이탈 판정 기록입니다.
type OffTaskEvent struct {
	Student   string `json:"student"`
	URL       string `json:"url"`
	Timestamp int64  `json:"ts"`
	OnTask    bool   `json:"on_task"`
}

// AuditEntry 교사/관리자 조작의 감사 기록입니다.
// Event 키는 snake_case로 정규화되어 저장됩니다.
type AuditEntry struct {
	Event     string         `json:"event"`
	Timestamp int64          `json:"ts"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// HeartbeatRequest 학생 확장 프로그램이 주기적으로 보고하는 상태입니다.
type HeartbeatRequest struct {
	Student     string    `json:"student"`
	StudentName string    `json:"student_name"`
	Tab         TabInfo   `json:"tab"`
	Tabs        []TabInfo `json:"tabs"`
	Screenshot  string    `json:"screenshot"`
}

// HeartbeatResponse 하트비트에 대한 서버 응답입니다.
type HeartbeatResponse struct {
	ServerTime       int64 `json:"server_time"`
	ExtensionEnabled bool  `json:"extension_enabled"`
}

// ClassUpdate 수업 설정 변경 요청입니다. nil 필드는 변경하지 않습니다.
type ClassUpdate struct {
	Active        *bool     `json:"active,omitempty"`
	Allowlist     *[]string `json:"allowlist,omitempty"`
	TeacherBlocks *[]string `json:"teacher_blocks,omitempty"`
	ChatEnabled   *bool     `json:"chat_enabled,omitempty"`
	Passcode      string    `json:"passcode,omitempty"`
}

// SettingsUpdate 교실 전역 설정 변경 요청입니다. nil 필드는 변경하지 않습니다.
type SettingsUpdate struct {
	ChatEnabled     *bool   `json:"chat_enabled,omitempty"`
	BlockedRedirect *string `json:"blocked_redirect,omitempty"`
	Passcode        string  `json:"passcode,omitempty"`
}

// Policy 학생 확장 프로그램에 내려가는 유효 정책입니다.
type Policy struct {
	BlockedRedirect string            `json:"blocked_redirect"`
	FocusMode       bool              `json:"focus_mode"`
	Paused          bool              `json:"paused"`
	Announcement    string            `json:"announcement"`
	Class           PolicyClass       `json:"class"`
	Allowlist       []string          `json:"allowlist"`
	TeacherBlocks   []string          `json:"teacher_blocks"`
	ChatEnabled     bool              `json:"chat_enabled"`
	Pending         []Command         `json:"pending"`
	Timestamp       int64             `json:"ts"`
	Scenes          PolicySceneStatus `json:"scenes"`
}

// PolicyClass 정책 응답에 포함되는 수업 요약입니다.
type PolicyClass struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PolicySceneStatus 정책 응답에 포함되는 현재 장면 요약입니다.
type PolicySceneStatus struct {
	Current *PolicySceneRef `json:"current"`
}

// PolicySceneRef 현재 적용 중인 장면의 참조 정보입니다.
type PolicySceneRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// EngagementReport 시간 창 기반 참여도 평가 결과입니다.
type EngagementReport struct {
	Window   int64               `json:"window"`
	Since    int64               `json:"since"`
	Now      int64               `json:"now"`
	Students []StudentEngagement `json:"students"`
}

// StudentEngagement 학생별 참여도 점수와 위험도입니다.
type StudentEngagement struct {
	Student       string  `json:"student"`
	Engagement    float64 `json:"engagement"`
	OffTaskEvents int     `json:"offtask_events"`
	Alerts        int     `json:"alerts"`
	TabsOpen      int     `json:"tabs_open"`
	LastSeen      int64   `json:"last_seen"`
	Risk          string  `json:"risk"`
}
