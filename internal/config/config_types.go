package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/gdistrict/gschool-connect/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

// StorageConfig 상태 파일(장면 목록, 교실 상태)이 저장될 위치를 정의합니다.
type StorageConfig struct {
	DataDir string `json:"data_dir" validate:"required"`
}

func (c *StorageConfig) validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return apperrors.New(apperrors.InvalidInput, "데이터 디렉토리(storage.data_dir)가 설정되지 않았습니다")
	}

	// 경로가 일반 파일로 선점되어 있으면 서비스 시작이 불가능하다.
	if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("데이터 디렉토리 경로(%s)가 이미 파일로 존재합니다", c.DataDir))
	}

	return nil
}

// AuthConfig 교사 로그인과 세션 토큰 발급 정책을 정의합니다.
type AuthConfig struct {
	// JWTSecret 세션 토큰 서명에 사용하는 비밀키입니다.
	JWTSecret string `json:"jwt_secret" validate:"required,min=32"`

	// TokenTTL 발급된 토큰의 유효 기간입니다. (예: "12h")
	TokenTTL string `json:"token_ttl"`

	// AllowedDomain 로그인 허용 이메일 도메인입니다. 비어있으면 모든 도메인을 허용합니다.
	// 예: "gdistrict.org"
	AllowedDomain string `json:"allowed_domain"`

	// Teachers 로그인 가능한 교사 계정 목록입니다.
	Teachers []TeacherConfig `json:"teachers" validate:"unique=Email"`
}

func (c *AuthConfig) validate() error {
	if len(strings.TrimSpace(c.JWTSecret)) < 32 {
		return apperrors.New(apperrors.InvalidInput, "토큰 서명 비밀키(auth.jwt_secret)는 32자 이상이어야 합니다")
	}

	if _, err := time.ParseDuration(c.TokenTTL); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("토큰 유효 기간(auth.token_ttl) 설정이 올바르지 않습니다: '%s' (예: 12h, 30m)", c.TokenTTL))
	}

	if len(c.Teachers) == 0 {
		return apperrors.New(apperrors.InvalidInput, "교사 계정(auth.teachers)이 하나도 등록되지 않았습니다")
	}

	if err := checkUniqueField(c.Teachers, "Email", "교사 계정"); err != nil {
		return err
	}

	domain := strings.ToLower(strings.TrimSpace(c.AllowedDomain))
	for _, teacher := range c.Teachers {
		if err := validateStruct(teacher, fmt.Sprintf("교사 계정['%s']", teacher.Email)); err != nil {
			return err
		}

		// 계정 이메일 자체가 허용 도메인을 벗어나면 설정 오류로 간주한다.
		if domain != "" && !strings.HasSuffix(strings.ToLower(teacher.Email), "@"+domain) {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("교사 계정['%s']이 허용 도메인('%s')에 속하지 않습니다", teacher.Email, c.AllowedDomain))
		}
	}

	return nil
}

// TeacherConfig 개별 교사 계정의 인증 정보를 정의합니다.
type TeacherConfig struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name"`
	AccessKey string `json:"access_key" validate:"required,min=16"`

	// Role 계정의 권한 등급입니다. "teacher"(기본값) 또는 "admin"만 허용됩니다.
	Role string `json:"role" validate:"omitempty,oneof=teacher admin"`
}

// APIConfig REST API 서버의 포트, TLS, CORS, 속도 제한 설정을 정의합니다.
type APIConfig struct {
	ListenPort  int             `json:"listen_port" validate:"min=1,max=65535"`
	TLSServer   bool            `json:"tls_server"`
	TLSCertFile string          `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string          `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	CORS        CORSConfig      `json:"cors"`
	RateLimit   RateLimitConfig `json:"rate_limit"`
}

func (c *APIConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "ListenPort":
					return apperrors.New(apperrors.InvalidInput, "API 서버 포트(api.listen_port)는 1에서 65535 사이의 값이어야 합니다")
				case "TLSCertFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 인증서 파일 경로(api.tls_cert_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 인증서 파일(api.tls_cert_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 인증서 파일 경로(api.tls_cert_file) 설정이 올바르지 않습니다")
					}
				case "TLSKeyFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 키 파일 경로(api.tls_key_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 키 파일(api.tls_key_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 키 파일 경로(api.tls_key_file) 설정이 올바르지 않습니다")
					}
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "API 서버 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	if err := c.CORS.validate(); err != nil {
		return err
	}

	return c.RateLimit.validate()
}

// VerifyRecommendations API 서버 설정의 권장 사항 준수 여부를 진단합니다.
func (c *APIConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	if !c.TLSServer {
		warnings = append(warnings, "TLS가 비활성화되어 있습니다. 교내망 외부에 노출되는 경우 HTTPS 사용을 권장합니다")
	}

	return warnings
}

// CORSConfig 교차 출처 리소스 공유(CORS) 정책을 설정합니다.
// 대시보드와 학생 확장 프로그램은 별도 출처에서 API를 호출합니다.
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 출처(api.cors.allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 출처와 함께 사용할 수 없습니다. 모든 출처를 허용하려면 와일드카드만 설정하세요")
			}
			return nil
		}
	}

	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "cors_origin" {
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS 출처 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://dashboard.gdistrict.org)", fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "CORS 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// RateLimitConfig IP 단위 요청 속도 제한을 설정합니다.
type RateLimitConfig struct {
	RPS   float64 `json:"rps"`
	Burst int     `json:"burst"`
}

func (c *RateLimitConfig) validate() error {
	if c.RPS <= 0 {
		return apperrors.New(apperrors.InvalidInput, "속도 제한(api.rate_limit.rps)은 0보다 커야 합니다")
	}
	if c.Burst <= 0 {
		return apperrors.New(apperrors.InvalidInput, "속도 제한 버스트(api.rate_limit.burst)는 0보다 커야 합니다")
	}
	return nil
}

// NotifierConfig 운영자 알림 채널을 정의합니다.
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

func (c *NotifierConfig) validate() error {
	return c.Telegram.validate()
}

// TelegramConfig 텔레그램 봇 토큰 및 채팅 ID 정보를 담는 설정 구조체
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id"`
}

func (c *TelegramConfig) validate() error {
	if !c.Enabled {
		return nil
	}

	if err := validateStruct(c, "텔레그램 알림 설정"); err != nil {
		return err
	}
	if strings.TrimSpace(c.BotToken) == "" {
		return apperrors.New(apperrors.InvalidInput, "텔레그램 알림 활성화 시 봇 토큰(notifier.telegram.bot_token)은 필수입니다")
	}
	if c.ChatID == 0 {
		return apperrors.New(apperrors.InvalidInput, "텔레그램 알림 활성화 시 채팅 ID(notifier.telegram.chat_id)는 필수입니다")
	}

	return nil
}

// ClassifierConfig URL 분류기의 페이지 수집 정책을 정의합니다.
type ClassifierConfig struct {
	// FetchTimeout 분류 대상 페이지 수집의 제한 시간입니다. (예: "10s")
	FetchTimeout string `json:"fetch_timeout"`

	// MaxBodyBytes 수집할 응답 본문의 최대 크기입니다.
	MaxBodyBytes int64 `json:"max_body_bytes"`

	// UserAgent 페이지 수집 시 사용할 User-Agent 헤더입니다. 비어있으면 기본값을 사용합니다.
	UserAgent string `json:"user_agent"`
}

func (c *ClassifierConfig) validate() error {
	if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("분류기 수집 제한 시간(classifier.fetch_timeout) 설정이 올바르지 않습니다: '%s'", c.FetchTimeout))
	}
	if c.MaxBodyBytes <= 0 {
		return apperrors.New(apperrors.InvalidInput, "분류기 응답 본문 최대 크기(classifier.max_body_bytes)는 0보다 커야 합니다")
	}
	return nil
}

// SchedulerConfig 백그라운드 작업의 주기와 보존 정책을 정의합니다.
type SchedulerConfig struct {
	// PresenceTTL 하트비트가 이 시간 내에 갱신되지 않으면 오프라인으로 간주합니다.
	PresenceTTL string `json:"presence_ttl"`

	// PresenceSweepSpec 오프라인 판정 작업의 Cron 표현식입니다.
	PresenceSweepSpec string `json:"presence_sweep_spec"`

	// AuditTrimSpec 감사 로그 정리 작업의 Cron 표현식입니다.
	AuditTrimSpec string `json:"audit_trim_spec"`

	// AuditRetentionDays 감사 로그 보존 기간(일)입니다.
	AuditRetentionDays int `json:"audit_retention_days"`
}

func (c *SchedulerConfig) validate() error {
	if _, err := time.ParseDuration(c.PresenceTTL); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("하트비트 유효 기간(scheduler.presence_ttl) 설정이 올바르지 않습니다: '%s'", c.PresenceTTL))
	}

	if err := cronx.Validate(c.PresenceSweepSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("오프라인 판정 주기(scheduler.presence_sweep_spec) Cron 표현식이 유효하지 않습니다: '%s'", c.PresenceSweepSpec))
	}
	if err := cronx.Validate(c.AuditTrimSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("감사 로그 정리 주기(scheduler.audit_trim_spec) Cron 표현식이 유효하지 않습니다: '%s'", c.AuditTrimSpec))
	}

	if c.AuditRetentionDays <= 0 {
		return apperrors.New(apperrors.InvalidInput, "감사 로그 보존 기간(scheduler.audit_retention_days)은 0보다 커야 합니다")
	}

	return nil
}
