// Package auth 교사 로그인과 세션 토큰(JWT)의 발급/검증을 담당합니다.
package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gdistrict/gschool-connect/internal/config"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

// 계정 권한 등급 상수입니다. admin은 teacher의 권한을 포함합니다.
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Identity 인증된 교사의 신원 정보입니다.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AllowsRole 이 신원이 요구되는 권한 등급을 만족하는지 확인합니다.
func (i Identity) AllowsRole(required string) bool {
	if i.Role == RoleAdmin {
		return true
	}
	return i.Role == required
}

// sessionClaims 세션 토큰에 담기는 JWT 클레임입니다. Subject에 이메일이 들어갑니다.
type sessionClaims struct {
	jwt.RegisteredClaims

	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

// teacherAccount 설정에서 로드된 교사 계정입니다.
type teacherAccount struct {
	name      string
	accessKey string
	role      string
}

// Authenticator 교사 계정 인증과 세션 토큰의 발급/검증을 담당합니다.
//
// 설정 파일의 교사 계정 목록을 메모리에 로드하며, 초기화 이후에는 읽기 전용이므로
// 여러 고루틴에서 동시에 사용해도 안전합니다.
type Authenticator struct {
	secret        []byte
	tokenTTL      time.Duration
	allowedDomain string

	// 키: 소문자로 정규화된 이메일
	teachers map[string]teacherAccount

	now func() time.Time
}

// NewAuthenticator 설정에서 교사 계정을 로드하여 Authenticator를 생성합니다.
func NewAuthenticator(cfg *config.AuthConfig) *Authenticator {
	teachers := make(map[string]teacherAccount, len(cfg.Teachers))
	for _, teacher := range cfg.Teachers {
		role := teacher.Role
		if role == "" {
			role = RoleTeacher
		}

		teachers[strings.ToLower(teacher.Email)] = teacherAccount{
			name:      teacher.Name,
			accessKey: teacher.AccessKey,
			role:      role,
		}
	}

	return &Authenticator{
		secret:        []byte(cfg.JWTSecret),
		tokenTTL:      cfg.TokenTTLDuration(),
		allowedDomain: strings.ToLower(strings.TrimSpace(cfg.AllowedDomain)),

		teachers: teachers,

		now: time.Now,
	}
}

// Login 이메일과 접근 키를 검증하고 세션 토큰을 발급합니다.
//
// 허용 도메인이 설정된 경우 도메인을 벗어나는 이메일은 계정 존재 여부와 무관하게
// 거부됩니다. 접근 키 비교는 타이밍 공격을 피하기 위해 상수 시간으로 수행합니다.
func (a *Authenticator) Login(email, accessKey string) (string, Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if a.allowedDomain != "" && !strings.HasSuffix(email, "@"+a.allowedDomain) {
		applog.WithComponentAndFields(constants.ComponentAuth, applog.Fields{
			"email": email,
		}).Warn("허용 도메인 외 로그인 시도")

		return "", Identity{}, NewErrDomainNotAllowed(a.allowedDomain)
	}

	account, ok := a.teachers[email]
	if !ok || subtle.ConstantTimeCompare([]byte(account.accessKey), []byte(accessKey)) != 1 {
		applog.WithComponentAndFields(constants.ComponentAuth, applog.Fields{
			"email": email,
		}).Warn("로그인 실패 (계정 없음 또는 접근 키 불일치)")

		return "", Identity{}, ErrBadLogin
	}

	identity := Identity{
		Email: email,
		Name:  account.name,
		Role:  account.role,
	}

	token, err := a.issueToken(identity)
	if err != nil {
		return "", Identity{}, err
	}

	return token, identity, nil
}

// issueToken 신원 정보를 담은 HS256 서명 토큰을 생성합니다.
func (a *Authenticator) issueToken(identity Identity) (string, error) {
	issuedAt := a.now()

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.AppName,
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.tokenTTL)),
		},

		Name: identity.Name,
		Role: identity.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", NewErrTokenIssueFailed(err)
	}

	return token, nil
}

// TokenTTL 발급되는 세션 토큰의 유효 기간을 반환합니다.
func (a *Authenticator) TokenTTL() time.Duration {
	return a.tokenTTL
}

// VerifyToken 세션 토큰의 서명과 유효 기간을 검증하고 신원 정보를 복원합니다.
func (a *Authenticator) VerifyToken(tokenString string) (Identity, error) {
	claims := &sessionClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.AppName),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Identity{}, NewErrInvalidToken(err)
	}

	role := claims.Role
	if role == "" {
		role = RoleTeacher
	}

	return Identity{
		Email: claims.Subject,
		Name:  claims.Name,
		Role:  role,
	}, nil
}
