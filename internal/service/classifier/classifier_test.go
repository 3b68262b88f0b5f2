package classifier

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdistrict/gschool-connect/internal/config"
	"github.com/gdistrict/gschool-connect/internal/service/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := storage.NewFileStateStore(t.TempDir())
	require.NoError(t, err)

	s, err := NewService(store, &config.ClassifierConfig{
		FetchTimeout: "3s",
		MaxBodyBytes: 1 << 20,
	})
	require.NoError(t, err)

	return s
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		bodyText string
		want     string
	}{
		{"게임 사이트", "https://www.roblox.com/games", "", "Games"},
		{"소셜 미디어", "https://www.tiktok.com/@user", "", "Social Media"},
		{"스트리밍", "https://www.netflix.com/browse", "", "Streaming Services"},
		{"AI 도구", "https://chat.openai.com", "", "AI Chatbots & Tools"},
		{"협업 도구", "https://meet.google.com/abc-defg", "", "Collaboration"},
		{"교육 도메인 가중치", "https://www.mit.edu/research", "", "General / Education"},
		{"워드프레스 로그인", "https://example.com/wp-login.php", "", "Blogs"},
		{"본문 텍스트 기반 판정", "https://unknown-site.example", "live casino poker and slot games", "Gambling"},
		{"해당 없음", "https://unknown-site.example", "", "Uncategorized"},
		{"스킴 없는 입력", "www.twitch.tv/somestreamer", "", "Games"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Classify(tt.url, tt.bodyText)
			assert.Equal(t, tt.want, result.Category)

			if tt.want != CategoryUncategorized {
				assert.Positive(t, result.Confidence)
			}
		})
	}

	t.Run("Allow only 키워드는 최우선", func(t *testing.T) {
		t.Parallel()

		// 다른 카테고리 점수가 더 높아도 Allow only가 선택된다.
		result := Classify("https://k12.instructure.com/courses", "netflix hulu spotify movies anime")
		assert.Equal(t, CategoryAllowOnly, result.Category)
	})

	t.Run("도메인과 호스트 추출", func(t *testing.T) {
		t.Parallel()

		result := Classify("https://chat.openai.com/c/abc", "")
		assert.Equal(t, "chat.openai.com", result.Host)
		assert.Equal(t, "openai.com", result.Domain)
	})
}

func TestSchedule_ActiveAt(t *testing.T) {
	t.Parallel()

	// 2026-08-19은 수요일, 2026-08-22은 토요일이다.
	wednesday10 := time.Date(2026, 8, 19, 10, 30, 0, 0, time.Local)
	wednesday23 := time.Date(2026, 8, 19, 23, 0, 0, 0, time.Local)
	saturday10 := time.Date(2026, 8, 22, 10, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		sched *Schedule
		at    time.Time
		want  bool
	}{
		{"비활성 시간대", &Schedule{Enabled: false, Start: "00:00", End: "23:59"}, wednesday10, false},
		{"주간 수업 시간", &Schedule{Enabled: true, Start: "08:00", End: "15:00"}, wednesday10, true},
		{"수업 시간 밖", &Schedule{Enabled: true, Start: "08:00", End: "15:00"}, wednesday23, false},
		{"자정을 넘기는 구간(야간)", &Schedule{Enabled: true, Start: "22:00", End: "06:00"}, wednesday23, true},
		{"자정을 넘기는 구간(주간)", &Schedule{Enabled: true, Start: "22:00", End: "06:00"}, wednesday10, false},
		{"시작과 종료가 같으면 항상 비활성", &Schedule{Enabled: true, Start: "09:00", End: "09:00"}, wednesday10, false},
		{"평일 한정은 주말에 비활성", &Schedule{Enabled: true, Start: "08:00", End: "15:00", WeekdaysOnly: true}, saturday10, false},
		{"시각 생략은 종일 구간", &Schedule{Enabled: true}, wednesday10, true},
		{"해석 불가 시각은 기본값", &Schedule{Enabled: true, Start: "bogus", End: "bad"}, wednesday10, true},
		{"nil 시간대", nil, wednesday10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.sched.ActiveAt(tt.at))
		})
	}
}

func TestService_Categories(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	list := s.Categories()
	require.Len(t, list, len(Categories))

	// 이름 순 정렬 확인
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].Name < list[i].Name)
	}
}

func TestService_UpdateCategory(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	blocked := true
	blockURL := "https://blocked.gdistrict.org/games"
	require.NoError(t, s.UpdateCategory(CategoryUpdate{
		Name:     "Games",
		Blocked:  &blocked,
		BlockURL: &blockURL,
		Schedule: &Schedule{Enabled: true, Start: "08:00", End: "15:00"},
	}))

	var found *CategoryConfig
	for _, c := range s.Categories() {
		if c.Name == "Games" {
			found = &c
			break
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.Blocked)
	assert.Equal(t, blockURL, found.BlockURL)
	require.NotNil(t, found.Schedule)
	assert.True(t, found.Schedule.Enabled)

	// 목록에 없던 이름은 새로 추가된다.
	require.NoError(t, s.UpdateCategory(CategoryUpdate{Name: "Custom Category", Blocked: &blocked}))
	assert.Len(t, s.Categories(), len(Categories)+1)

	assert.ErrorIs(t, s.UpdateCategory(CategoryUpdate{Name: "  "}), ErrCategoryNameRequired)
}

func TestService_재시작_후_설정_복원(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := storage.NewFileStateStore(dir)
	require.NoError(t, err)

	cfg := &config.ClassifierConfig{FetchTimeout: "3s", MaxBodyBytes: 1 << 20}

	s1, err := NewService(store, cfg)
	require.NoError(t, err)

	blocked := true
	require.NoError(t, s1.UpdateCategory(CategoryUpdate{Name: "Games", Blocked: &blocked}))

	store2, err := storage.NewFileStateStore(dir)
	require.NoError(t, err)

	s2, err := NewService(store2, cfg)
	require.NoError(t, err)

	decision := s2.Decide(context.Background(), "https://www.roblox.com", "roblox", nil, "https://blocked.example")
	assert.True(t, decision.Blocked)
}

func TestService_Decide(t *testing.T) {
	t.Parallel()

	const redirect = "https://blocked.gdistrict.org/blocked"

	t.Run("차단되지 않은 카테고리", func(t *testing.T) {
		t.Parallel()

		s := newTestService(t)

		decision := s.Decide(context.Background(), "https://www.roblox.com", "roblox", nil, redirect)
		assert.Equal(t, "Games", decision.Result.Category)
		assert.False(t, decision.Blocked)
	})

	t.Run("카테고리 차단 플래그", func(t *testing.T) {
		t.Parallel()

		s := newTestService(t)

		blocked := true
		blockURL := "https://blocked.gdistrict.org/games"
		require.NoError(t, s.UpdateCategory(CategoryUpdate{Name: "Games", Blocked: &blocked, BlockURL: &blockURL}))

		decision := s.Decide(context.Background(), "https://www.roblox.com", "roblox", nil, redirect)
		assert.True(t, decision.Blocked)
		assert.Equal(t, blockURL, decision.BlockURL)
	})

	t.Run("시간대가 있으면 시간대가 차단 여부를 결정", func(t *testing.T) {
		t.Parallel()

		s := newTestService(t)

		// 플래그는 차단이지만 시간대가 비활성이므로 허용된다.
		blocked := true
		require.NoError(t, s.UpdateCategory(CategoryUpdate{
			Name:     "Games",
			Blocked:  &blocked,
			Schedule: &Schedule{Enabled: true, Start: "08:00", End: "09:00"},
		}))

		s.now = func() time.Time { return time.Date(2026, 8, 19, 20, 0, 0, 0, time.Local) }

		decision := s.Decide(context.Background(), "https://www.roblox.com", "roblox", nil, redirect)
		assert.False(t, decision.Blocked)

		// 시간대 안에서는 차단된다.
		s.now = func() time.Time { return time.Date(2026, 8, 19, 8, 30, 0, 0, time.Local) }

		decision = s.Decide(context.Background(), "https://www.roblox.com", "roblox", nil, redirect)
		assert.True(t, decision.Blocked)
	})

	t.Run("전역 차단 모드", func(t *testing.T) {
		t.Parallel()

		s := newTestService(t)

		blocked := true
		require.NoError(t, s.UpdateCategory(CategoryUpdate{Name: CategoryGlobalBlockAll, Blocked: &blocked}))

		// 허용 목록에 없는 URL은 카테고리와 무관하게 차단된다.
		decision := s.Decide(context.Background(), "https://www.wikipedia.org", "wikipedia encyclopedia", nil, redirect)
		assert.True(t, decision.Blocked)
		assert.Equal(t, redirect, decision.BlockURL)

		// 허용 목록 항목이 포함된 URL은 통과한다.
		decision = s.Decide(context.Background(), "https://www.wikipedia.org", "wikipedia encyclopedia", []string{"wikipedia"}, redirect)
		assert.False(t, decision.Blocked)

		// 차단 안내 페이지 자체는 항상 허용된다.
		decision = s.Decide(context.Background(), "https://blocked.gdistrict.org/blocked", "", nil, redirect)
		assert.False(t, decision.Blocked)
	})
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	html := `<html><head><style>body { color: red; }</style></head>
	<body><script>var secret = "IGNORED";</script>
	<h1>Live   Casino</h1>
	<p>Poker and   Slots</p></body></html>`

	text := extractText(strings.NewReader(html))

	assert.Equal(t, "live casino poker and slots", text)
	assert.NotContains(t, text, "secret")
	assert.NotContains(t, text, "color")
}
