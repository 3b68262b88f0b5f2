package auth

import (
	"testing"
	"time"

	"github.com/gdistrict/gschool-connect/internal/config"
	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:     "test-secret-key-of-sufficient-length",
		TokenTTL:      "12h",
		AllowedDomain: "gdistrict.org",
		Teachers: []config.TeacherConfig{
			{Email: "kim@gdistrict.org", Name: "김선생", AccessKey: "kim-access-key-0123456789"},
			{Email: "admin@gdistrict.org", Name: "관리자", AccessKey: "admin-access-key-0123456789", Role: RoleAdmin},
		},
	}
}

func TestAuthenticator_Login(t *testing.T) {
	a := NewAuthenticator(newTestAuthConfig())

	t.Run("정상_로그인", func(t *testing.T) {
		token, identity, err := a.Login("kim@gdistrict.org", "kim-access-key-0123456789")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "kim@gdistrict.org", identity.Email)
		assert.Equal(t, "김선생", identity.Name)
		assert.Equal(t, RoleTeacher, identity.Role)
	})

	t.Run("이메일_대소문자_무시", func(t *testing.T) {
		_, identity, err := a.Login("KIM@GDISTRICT.ORG", "kim-access-key-0123456789")

		require.NoError(t, err)
		assert.Equal(t, "kim@gdistrict.org", identity.Email)
	})

	t.Run("접근_키_불일치", func(t *testing.T) {
		_, _, err := a.Login("kim@gdistrict.org", "wrong-key")

		assert.ErrorIs(t, err, ErrBadLogin)
	})

	t.Run("미등록_계정", func(t *testing.T) {
		_, _, err := a.Login("lee@gdistrict.org", "kim-access-key-0123456789")

		assert.ErrorIs(t, err, ErrBadLogin)
	})

	t.Run("허용_도메인_외_거부", func(t *testing.T) {
		_, _, err := a.Login("kim@example.com", "kim-access-key-0123456789")

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unauthorized))
		assert.NotErrorIs(t, err, ErrBadLogin)
	})

	t.Run("설정된_역할_유지", func(t *testing.T) {
		_, identity, err := a.Login("admin@gdistrict.org", "admin-access-key-0123456789")

		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, identity.Role)
	})
}

func TestAuthenticator_도메인_미설정시_모든_도메인_허용(t *testing.T) {
	cfg := newTestAuthConfig()
	cfg.AllowedDomain = ""
	cfg.Teachers = append(cfg.Teachers, config.TeacherConfig{
		Email: "park@example.com", AccessKey: "park-access-key-0123456789",
	})

	a := NewAuthenticator(cfg)

	_, identity, err := a.Login("park@example.com", "park-access-key-0123456789")

	require.NoError(t, err)
	assert.Equal(t, "park@example.com", identity.Email)
}

func TestAuthenticator_VerifyToken(t *testing.T) {
	a := NewAuthenticator(newTestAuthConfig())

	token, issued, err := a.Login("admin@gdistrict.org", "admin-access-key-0123456789")
	require.NoError(t, err)

	t.Run("발급된_토큰_검증", func(t *testing.T) {
		identity, err := a.VerifyToken(token)

		require.NoError(t, err)
		assert.Equal(t, issued, identity)
	})

	t.Run("위조된_토큰_거부", func(t *testing.T) {
		other := NewAuthenticator(&config.AuthConfig{
			JWTSecret: "another-secret-key-of-sufficient-length",
			TokenTTL:  "12h",
			Teachers:  newTestAuthConfig().Teachers,
		})

		_, err := other.VerifyToken(token)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unauthorized))
	})

	t.Run("만료된_토큰_거부", func(t *testing.T) {
		// 검증 시각을 토큰 유효 기간(12시간) 이후로 이동시킨다.
		expired := NewAuthenticator(newTestAuthConfig())
		expired.now = func() time.Time { return time.Now().Add(13 * time.Hour) }

		_, err := expired.VerifyToken(token)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unauthorized))
	})

	t.Run("임의_문자열_거부", func(t *testing.T) {
		_, err := a.VerifyToken("not-a-jwt")

		assert.Error(t, err)
	})
}

func TestIdentity_AllowsRole(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		required string
		want     bool
	}{
		{"교사는_교사_권한_만족", Identity{Role: RoleTeacher}, RoleTeacher, true},
		{"교사는_관리자_권한_불만족", Identity{Role: RoleTeacher}, RoleAdmin, false},
		{"관리자는_교사_권한_포함", Identity{Role: RoleAdmin}, RoleTeacher, true},
		{"관리자는_관리자_권한_만족", Identity{Role: RoleAdmin}, RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.AllowsRole(tt.required))
		})
	}
}
