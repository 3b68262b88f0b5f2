package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile 테스트용 설정 파일을 생성하고 경로를 반환합니다.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gschool-connect.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// validConfigJSON 검증을 통과하는 최소 설정입니다.
const validConfigJSON = `{
  "auth": {
    "jwt_secret": "0123456789abcdef0123456789abcdef",
    "allowed_domain": "gdistrict.org",
    "teachers": [
      {"email": "kim@gdistrict.org", "name": "김교사", "access_key": "key-0123456789abcdef"}
    ]
  }
}`

func TestLoadWithFile(t *testing.T) {
	t.Run("성공: 최소 설정과 기본값 병합", func(t *testing.T) {
		path := writeConfigFile(t, validConfigJSON)

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.Equal(t, DefaultListenPort, cfg.API.ListenPort)
		assert.Equal(t, DefaultDataDir, cfg.Storage.DataDir)
		assert.Equal(t, []string{"*"}, cfg.API.CORS.AllowOrigins)
		assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTLDuration())
		assert.Equal(t, 2*time.Minute, cfg.Scheduler.PresenceTTLDuration())
		assert.Equal(t, 10*time.Second, cfg.Classifier.FetchTimeoutDuration())
		assert.Len(t, cfg.Auth.Teachers, 1)
	})

	t.Run("성공: 설정 파일이 기본값을 덮어씀", func(t *testing.T) {
		path := writeConfigFile(t, `{
  "debug": true,
  "api": {"listen_port": 9000},
  "storage": {"data_dir": "custom-data"},
  "auth": {
    "jwt_secret": "0123456789abcdef0123456789abcdef",
    "teachers": [{"email": "lee@school.kr", "access_key": "key-0123456789abcdef"}]
  }
}`)

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.True(t, cfg.Debug)
		assert.Equal(t, 9000, cfg.API.ListenPort)
		assert.Equal(t, "custom-data", cfg.Storage.DataDir)
	})

	t.Run("성공: 환경 변수가 설정 파일을 덮어씀", func(t *testing.T) {
		t.Setenv("GSCHOOL_API__LISTEN_PORT", "9100")

		path := writeConfigFile(t, validConfigJSON)

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.Equal(t, 9100, cfg.API.ListenPort)
	})

	t.Run("실패: 설정 파일 없음", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("실패: 알 수 없는 필드 (Strict Unmarshal)", func(t *testing.T) {
		path := writeConfigFile(t, `{
  "unknown_field": true,
  "auth": {
    "jwt_secret": "0123456789abcdef0123456789abcdef",
    "teachers": [{"email": "kim@gdistrict.org", "access_key": "key-0123456789abcdef"}]
  }
}`)

		_, err := LoadWithFile(path)
		assert.Error(t, err)
	})

	t.Run("실패: JSON 문법 오류", func(t *testing.T) {
		path := writeConfigFile(t, `{ not json `)

		_, err := LoadWithFile(path)
		assert.Error(t, err)
	})
}

func TestLoadWithFile_검증_실패_케이스(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{
			"jwt_secret 누락",
			`{"auth": {"teachers": [{"email": "a@b.org", "access_key": "key-0123456789abcdef"}]}}`,
		},
		{
			"jwt_secret 길이 부족",
			`{"auth": {"jwt_secret": "short", "teachers": [{"email": "a@b.org", "access_key": "key-0123456789abcdef"}]}}`,
		},
		{
			"교사 계정 없음",
			`{"auth": {"jwt_secret": "0123456789abcdef0123456789abcdef", "teachers": []}}`,
		},
		{
			"교사 이메일 중복",
			`{"auth": {"jwt_secret": "0123456789abcdef0123456789abcdef", "teachers": [
				{"email": "kim@gdistrict.org", "access_key": "key-0123456789abcdef"},
				{"email": "kim@gdistrict.org", "access_key": "key-fedcba9876543210"}
			]}}`,
		},
		{
			"허용 도메인 밖의 교사 계정",
			`{"auth": {"jwt_secret": "0123456789abcdef0123456789abcdef", "allowed_domain": "gdistrict.org", "teachers": [
				{"email": "kim@other.org", "access_key": "key-0123456789abcdef"}
			]}}`,
		},
		{
			"포트 범위 초과",
			fmt.Sprintf(`{"api": {"listen_port": 70000}, "auth": %s}`, validAuthJSON),
		},
		{
			"CORS 와일드카드와 출처 혼용",
			fmt.Sprintf(`{"api": {"cors": {"allow_origins": ["*", "https://x.org"]}}, "auth": %s}`, validAuthJSON),
		},
		{
			"CORS 출처에 경로 포함",
			fmt.Sprintf(`{"api": {"cors": {"allow_origins": ["https://x.org/path"]}}, "auth": %s}`, validAuthJSON),
		},
		{
			"텔레그램 활성화에 토큰 누락",
			fmt.Sprintf(`{"notifier": {"telegram": {"enabled": true, "chat_id": 1}}, "auth": %s}`, validAuthJSON),
		},
		{
			"텔레그램 토큰 형식 오류",
			fmt.Sprintf(`{"notifier": {"telegram": {"enabled": true, "bot_token": "bad-token", "chat_id": 1}}, "auth": %s}`, validAuthJSON),
		},
		{
			"잘못된 Cron 표현식",
			fmt.Sprintf(`{"scheduler": {"presence_sweep_spec": "every minute"}, "auth": %s}`, validAuthJSON),
		},
		{
			"잘못된 하트비트 유효 기간",
			fmt.Sprintf(`{"scheduler": {"presence_ttl": "2 minutes"}, "auth": %s}`, validAuthJSON),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, tc.config)

			_, err := LoadWithFile(path)
			assert.Error(t, err)
		})
	}
}

const validAuthJSON = `{
  "jwt_secret": "0123456789abcdef0123456789abcdef",
  "teachers": [{"email": "kim@gdistrict.org", "access_key": "key-0123456789abcdef"}]
}`

func TestVerifyRecommendations(t *testing.T) {
	t.Run("예약 포트와 비활성 알림 경고", func(t *testing.T) {
		cfg := &AppConfig{
			API: APIConfig{ListenPort: 443},
		}

		warnings := cfg.VerifyRecommendations()

		require.NotEmpty(t, warnings)
		assert.Contains(t, warnings[0], "시스템 예약 포트")
	})

	t.Run("권장 설정 준수 시 텔레그램 경고만", func(t *testing.T) {
		cfg := &AppConfig{
			API: APIConfig{ListenPort: 8077, TLSServer: true},
			Notifier: NotifierConfig{
				Telegram: TelegramConfig{Enabled: true, BotToken: "123456:ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", ChatID: 1},
			},
		}

		assert.Empty(t, cfg.VerifyRecommendations())
	})
}

func TestValidateCORSOrigin(t *testing.T) {
	t.Parallel()

	valid := []string{"https://dashboard.gdistrict.org", "http://localhost:3000"}
	invalid := []string{"ftp://x.org", "https://", "https://x.org/path", "https://x.org?q=1", "x.org"}

	for _, origin := range valid {
		cfg := &CORSConfig{AllowOrigins: []string{origin}}
		assert.NoError(t, cfg.validate(), origin)
	}
	for _, origin := range invalid {
		cfg := &CORSConfig{AllowOrigins: []string{origin}}
		assert.Error(t, cfg.validate(), origin)
	}
}
