package classroom

import (
	"strings"
	"testing"
	"time"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/gdistrict/gschool-connect/internal/service/scene"
	"github.com/gdistrict/gschool-connect/internal/service/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager 임시 디렉토리 기반 파일 저장소를 사용하는 교실 관리자를 생성합니다.
func newTestManager(t *testing.T) *Manager {
	t.Helper()

	store, err := storage.NewFileStateStore(t.TempDir())
	require.NoError(t, err)

	m, err := NewManager(store)
	require.NoError(t, err)

	return m
}

// staticScenes 고정된 장면을 반환하는 테스트용 SceneProvider입니다.
type staticScenes struct {
	active *scene.Scene
}

func (s *staticScenes) Active() *scene.Scene { return s.active }

func TestNewManager_기본_상태(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	cls, settings := m.ClassState()
	assert.Equal(t, "Period 1", cls.Name)
	assert.True(t, cls.Active)
	assert.False(t, cls.FocusMode)
	assert.Equal(t, DefaultBlockedRedirect, settings.BlockedRedirect)
	assert.True(t, m.ExtensionEnabled())
}

func TestManager_재시작_후_상태_복원(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := storage.NewFileStateStore(dir)
	require.NoError(t, err)

	m1, err := NewManager(store)
	require.NoError(t, err)

	require.NoError(t, m1.Announce("내일은 현장 학습입니다"))
	require.NoError(t, m1.SetExtensionEnabled(false, "admin@gdistrict.org"))

	store2, err := storage.NewFileStateStore(dir)
	require.NoError(t, err)

	m2, err := NewManager(store2)
	require.NoError(t, err)

	assert.Equal(t, "내일은 현장 학습입니다", m2.Announcement())
	assert.False(t, m2.ExtensionEnabled())
}

func TestManager_Announce(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	require.NoError(t, m.Announce("  5분 후 쉬는 시간  "))
	assert.Equal(t, "5분 후 쉬는 시간", m.Announcement())

	// 공지는 정책 갱신 명령으로 전달된다.
	commands, err := m.DrainCommands("kim@gdistrict.org")
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "policy_refresh", commands[0].Type)

	// 감사 로그에 snake_case 이벤트로 기록된다.
	audit := m.AuditLog(0)
	require.NotEmpty(t, audit)
	assert.Equal(t, "announce", audit[len(audit)-1].Event)

	// 빈 공지는 철회로 동작한다.
	require.NoError(t, m.Announce(""))
	assert.Empty(t, m.Announcement())
}

func TestManager_SetClass(t *testing.T) {
	t.Parallel()

	t.Run("비활성에서 활성 전환 시 수업 시작 알림 브로드캐스트", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		// 접속 상태를 만들어 브로드캐스트 전달 커서가 유지되게 한다.
		_, err := m.Heartbeat(HeartbeatRequest{Student: "kim@gdistrict.org"})
		require.NoError(t, err)

		inactive := false
		_, err = m.SetClass(ClassUpdate{Active: &inactive})
		require.NoError(t, err)

		// 이전 명령을 비워 전환 시점의 명령만 관찰한다.
		_, err = m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)

		active := true
		cls, err := m.SetClass(ClassUpdate{Active: &active})
		require.NoError(t, err)
		assert.True(t, cls.Active)

		commands, err := m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)
		require.Len(t, commands, 2)
		assert.Equal(t, "notify", commands[0].Type)
		assert.Equal(t, "policy_refresh", commands[1].Type)
	})

	t.Run("활성 유지 변경은 정책 갱신만 브로드캐스트", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		_, err := m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)

		allow := []string{"*.khanacademy.org"}
		cls, err := m.SetClass(ClassUpdate{Allowlist: &allow})
		require.NoError(t, err)
		assert.Equal(t, allow, cls.Allowlist)

		commands, err := m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)
		require.Len(t, commands, 1)
		assert.Equal(t, "policy_refresh", commands[0].Type)
	})
}

func TestManager_ToggleClass(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	cls, err := m.ToggleClass("focus_mode", true)
	require.NoError(t, err)
	assert.True(t, cls.FocusMode)

	cls, err = m.ToggleClass("paused", true)
	require.NoError(t, err)
	assert.True(t, cls.Paused)

	_, err = m.ToggleClass("chat_enabled", true)
	require.Error(t, err)
	assert.Equal(t, apperrors.InvalidInput, apperrors.UnderlyingType(err))
}

func TestManager_명령_큐(t *testing.T) {
	t.Parallel()

	t.Run("개인 명령은 한 번만 전달된다", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		require.NoError(t, m.PushCommand("kim@gdistrict.org", Command{Type: "focus_tab"}))

		commands, err := m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)
		require.Len(t, commands, 1)
		assert.Equal(t, "focus_tab", commands[0].Type)

		commands, err = m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)
		assert.Empty(t, commands)

		// 다른 학생에게는 전달되지 않는다.
		commands, err = m.DrainCommands("lee@gdistrict.org")
		require.NoError(t, err)
		assert.Empty(t, commands)
	})

	t.Run("브로드캐스트는 학생마다 독립적으로 한 번씩 전달된다", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		_, err := m.Heartbeat(HeartbeatRequest{Student: "kim@gdistrict.org"})
		require.NoError(t, err)
		_, err = m.Heartbeat(HeartbeatRequest{Student: "lee@gdistrict.org"})
		require.NoError(t, err)

		require.NoError(t, m.PushCommand("*", Command{Type: "lock_screen"}))

		commands, err := m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)
		require.Len(t, commands, 1)
		assert.Equal(t, "lock_screen", commands[0].Type)

		// 먼저 받아간 학생이 있어도 다른 학생의 전달에 영향이 없다.
		commands, err = m.DrainCommands("lee@gdistrict.org")
		require.NoError(t, err)
		require.Len(t, commands, 1)

		// 같은 학생이 다시 받아가면 비어 있다.
		commands, err = m.DrainCommands("kim@gdistrict.org")
		require.NoError(t, err)
		assert.Empty(t, commands)
	})

	t.Run("하트비트 전에 받아가도 커서가 저장된다", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		require.NoError(t, m.PushCommand("*", Command{Type: "lock_screen"}))

		// 아직 한 번도 하트비트를 보내지 않은 학생의 첫 수신.
		commands, err := m.DrainCommands("park@gdistrict.org")
		require.NoError(t, err)
		require.Len(t, commands, 1)

		// 같은 브로드캐스트가 다시 전달되지 않는다.
		commands, err = m.DrainCommands("park@gdistrict.org")
		require.NoError(t, err)
		assert.Empty(t, commands)
	})

	t.Run("실패: 잘못된 입력", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		assert.ErrorIs(t, m.PushCommand("", Command{Type: "notify"}), ErrStudentRequired)
		assert.ErrorIs(t, m.PushCommand("kim@gdistrict.org", Command{}), ErrCommandTypeRequired)

		_, err := m.DrainCommands(" ")
		assert.ErrorIs(t, err, ErrStudentRequired)
	})
}

func TestManager_Notify(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	longTitle := ""
	for range 30 {
		longTitle += "제목제목제"
	}

	require.NoError(t, m.Notify(longTitle, ""))

	commands, err := m.DrainCommands("kim@gdistrict.org")
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "notify", commands[0].Type)

	// 한도를 넘는 제목은 말줄임표가 붙어 잘린다.
	title, _ := commands[0].Payload["title"].(string)
	assert.Equal(t, maxNotifyTitleLength+1, len([]rune(title)))
	assert.True(t, strings.HasSuffix(title, "…"))
	assert.Equal(t, "Notification from your teacher.", commands[0].Payload["message"])
}

func TestManager_Heartbeat(t *testing.T) {
	t.Parallel()

	t.Run("정식 계정은 접속 상태와 활동 기록을 남긴다", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		resp, err := m.Heartbeat(HeartbeatRequest{
			Student:     "kim@gdistrict.org",
			StudentName: "김철수",
			Tab:         TabInfo{Title: "Khan Academy", URL: "https://www.khanacademy.org/math"},
			Tabs:        []TabInfo{{URL: "https://www.khanacademy.org/math"}},
		})
		require.NoError(t, err)
		assert.True(t, resp.ExtensionEnabled)
		assert.NotZero(t, resp.ServerTime)

		presence := m.PresenceSnapshot()
		require.Contains(t, presence, "kim@gdistrict.org")
		assert.Equal(t, "김철수", presence["kim@gdistrict.org"].StudentName)

		timeline, err := m.Timeline("kim@gdistrict.org", 0, 0)
		require.NoError(t, err)
		assert.Len(t, timeline, 1)
	})

	t.Run("게스트 계정은 기록 없이 비활성 응답만 받는다", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		for _, student := range []string{"", "guest1@gdistrict.org", "anon@gdistrict.org", "trial-user@gdistrict.org"} {
			resp, err := m.Heartbeat(HeartbeatRequest{Student: student, Tab: TabInfo{URL: "https://example.org"}})
			require.NoError(t, err)
			assert.False(t, resp.ExtensionEnabled)
		}

		// 이름에 게스트 토큰이 있어도 게스트로 판정한다.
		resp, err := m.Heartbeat(HeartbeatRequest{Student: "kim@gdistrict.org", StudentName: "Temp Account"})
		require.NoError(t, err)
		assert.False(t, resp.ExtensionEnabled)

		assert.Empty(t, m.PresenceSnapshot())
	})

	t.Run("같은 URL의 연속 보고는 15초 간격 규칙을 따른다", func(t *testing.T) {
		t.Parallel()

		m := newTestManager(t)

		base := time.Unix(1_700_000_000, 0)
		m.now = func() time.Time { return base }

		req := HeartbeatRequest{Student: "kim@gdistrict.org", Tab: TabInfo{URL: "https://www.desmos.com"}}

		_, err := m.Heartbeat(req)
		require.NoError(t, err)

		// 15초 미만의 같은 URL 재보고는 기록되지 않는다.
		m.now = func() time.Time { return base.Add(5 * time.Second) }
		_, err = m.Heartbeat(req)
		require.NoError(t, err)

		timeline, err := m.Timeline("kim@gdistrict.org", 0, 0)
		require.NoError(t, err)
		assert.Len(t, timeline, 1)

		// URL이 바뀌면 즉시 기록된다.
		req.Tab.URL = "https://www.geogebra.org"
		_, err = m.Heartbeat(req)
		require.NoError(t, err)

		// 15초가 지나면 같은 URL도 다시 기록된다.
		m.now = func() time.Time { return base.Add(25 * time.Second) }
		_, err = m.Heartbeat(req)
		require.NoError(t, err)

		timeline, err = m.Timeline("kim@gdistrict.org", 0, 0)
		require.NoError(t, err)
		assert.Len(t, timeline, 3)
	})
}

func TestManager_SweepPresence(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	base := time.Unix(1_700_000_000, 0)

	m.now = func() time.Time { return base }
	_, err := m.Heartbeat(HeartbeatRequest{Student: "kim@gdistrict.org"})
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(10 * time.Minute) }
	_, err = m.Heartbeat(HeartbeatRequest{Student: "lee@gdistrict.org"})
	require.NoError(t, err)

	removed, err := m.SweepPresence(5 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	presence := m.PresenceSnapshot()
	assert.NotContains(t, presence, "kim@gdistrict.org")
	assert.Contains(t, presence, "lee@gdistrict.org")
}

func TestManager_Engagement(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	base := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return base }

	// kim: 활동 4회 중 이탈 2회 -> 참여도 0.5 (medium)
	for i, u := range []string{"https://a.org", "https://b.org", "https://c.org", "https://d.org"} {
		m.now = func() time.Time { return base.Add(time.Duration(i) * 20 * time.Second) }
		_, err := m.Heartbeat(HeartbeatRequest{Student: "kim@gdistrict.org", Tab: TabInfo{URL: u}})
		require.NoError(t, err)
	}
	require.NoError(t, m.RecordOffTaskEvent("kim@gdistrict.org", "https://b.org", false))
	require.NoError(t, m.RecordOffTaskEvent("kim@gdistrict.org", "https://c.org", false))

	// lee: 활동만 있고 이탈 없음 -> 참여도 1.0 (low)
	_, err := m.Heartbeat(HeartbeatRequest{Student: "lee@gdistrict.org", Tab: TabInfo{URL: "https://a.org"}})
	require.NoError(t, err)

	report := m.Engagement(0)
	assert.Equal(t, int64(defaultEngagementWindow), report.Window)
	require.Len(t, report.Students, 2)

	kim := report.Students[0]
	require.Equal(t, "kim@gdistrict.org", kim.Student)
	assert.InDelta(t, 0.5, kim.Engagement, 0.001)
	assert.Equal(t, 2, kim.OffTaskEvents)
	assert.Equal(t, "medium", kim.Risk)

	lee := report.Students[1]
	require.Equal(t, "lee@gdistrict.org", lee.Student)
	assert.InDelta(t, 1.0, lee.Engagement, 0.001)
	assert.Equal(t, "low", lee.Risk)

	// 시간 창은 허용 범위로 고정된다.
	assert.Equal(t, int64(minEngagementWindow), m.Engagement(1).Window)
	assert.Equal(t, int64(maxEngagementWindow), m.Engagement(100_000).Window)
}

func TestRiskLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		engagement float64
		offTask    int
		alerts     int
		want       string
	}{
		{"정상 참여", 0.9, 1, 0, "low"},
		{"참여도 저하", 0.55, 0, 0, "medium"},
		{"이탈 누적", 1.0, 5, 0, "medium"},
		{"알림 누적", 1.0, 0, 3, "medium"},
		{"참여도 급락", 0.3, 0, 0, "high"},
		{"이탈 과다", 1.0, 10, 0, "high"},
		{"알림 과다", 1.0, 0, 5, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, riskLevel(tt.engagement, tt.offTask, tt.alerts))
		})
	}
}
