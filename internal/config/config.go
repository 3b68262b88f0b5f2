// Package config 애플리케이션 설정의 로드와 검증을 담당합니다.
//
// 설정은 기본값 → JSON 설정 파일 → 환경 변수의 순서로 계층적으로 로드되며,
// 언마샬링 시 구조체에 없는 필드가 발견되면 에러로 처리합니다(Strict).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "gschool-connect"

	// DefaultFilename 실행 인자로 경로가 주어지지 않았을 때 탐색하는 기본 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// envPrefix 환경 변수 오버라이드에 사용하는 접두사입니다.
	// 이중 언더스코어(__)는 계층 구분자(.)로 변환됩니다.
	// 예: GSCHOOL_API__LISTEN_PORT -> api.listen_port
	envPrefix = "GSCHOOL_"
)

// 기본 설정값
const (
	DefaultListenPort        = 8077
	DefaultDataDir           = "data"
	DefaultTokenTTL          = "12h"
	DefaultPresenceTTL       = "2m"
	DefaultPresenceSweepSpec = "* * * * *"  // 매분
	DefaultAuditTrimSpec     = "20 4 * * *" // 매일 04:20
	DefaultAuditRetention    = 14
	DefaultFetchTimeout      = "10s"
	DefaultMaxBodyBytes      = 2 << 20 // 2MB
	DefaultRateLimitRPS      = 20.0
	DefaultRateLimitBurst    = 40
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug      bool             `json:"debug"`
	Storage    StorageConfig    `json:"storage"`
	Auth       AuthConfig       `json:"auth"`
	API        APIConfig        `json:"api"`
	Notifier   NotifierConfig   `json:"notifier"`
	Classifier ClassifierConfig `json:"classifier"`
	Scheduler  SchedulerConfig  `json:"scheduler"`
}

// validate 설정 파일 로드 직후 각 설정 항목의 정합성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Auth.validate(); err != nil {
		return err
	}
	if err := c.API.validate(); err != nil {
		return err
	}
	if err := c.Notifier.validate(); err != nil {
		return err
	}
	if err := c.Classifier.validate(); err != nil {
		return err
	}
	if err := c.Scheduler.validate(); err != nil {
		return err
	}
	return nil
}

// VerifyRecommendations 운영 안정성과 보안을 위해 권장되는 설정의 준수 여부를 진단합니다.
// 에러를 발생시키지는 않으며 잠재적 위험 요소에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	warnings = append(warnings, c.API.VerifyRecommendations()...)

	if !c.Notifier.Telegram.Enabled {
		warnings = append(warnings, "운영자 알림(notifier.telegram)이 비활성화되어 있습니다. 긴급 알림과 손들기 요청이 텔레그램으로 전달되지 않습니다")
	}

	if c.Debug {
		warnings = append(warnings, "Debug 모드가 활성화되어 있습니다. 운영 환경에서는 비활성화를 권장합니다")
	}

	return warnings
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"storage.data_dir":               DefaultDataDir,
		"auth.token_ttl":                 DefaultTokenTTL,
		"api.listen_port":                DefaultListenPort,
		"api.cors.allow_origins":         []string{"*"},
		"api.rate_limit.rps":             DefaultRateLimitRPS,
		"api.rate_limit.burst":           DefaultRateLimitBurst,
		"classifier.fetch_timeout":       DefaultFetchTimeout,
		"classifier.max_body_bytes":      DefaultMaxBodyBytes,
		"scheduler.presence_ttl":         DefaultPresenceTTL,
		"scheduler.presence_sweep_spec":  DefaultPresenceSweepSpec,
		"scheduler.audit_trim_spec":      DefaultAuditTrimSpec,
		"scheduler.audit_retention_days": DefaultAuditRetention,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위)
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 구조체에 없는 필드가 설정에 존재하면 에러
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 정합성 검증
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// parseDuration 설정 문자열을 time.Duration으로 변환하는 공용 헬퍼입니다.
// 설정 검증 단계를 통과한 값에 대해서만 호출해야 합니다.
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// TokenTTLDuration 인증 토큰 유효 기간을 반환합니다.
func (c *AuthConfig) TokenTTLDuration() time.Duration {
	return parseDuration(c.TokenTTL, 12*time.Hour)
}

// PresenceTTLDuration 하트비트 유효 기간을 반환합니다.
func (c *SchedulerConfig) PresenceTTLDuration() time.Duration {
	return parseDuration(c.PresenceTTL, 2*time.Minute)
}

// FetchTimeoutDuration 분류기 페이지 수집 제한 시간을 반환합니다.
func (c *ClassifierConfig) FetchTimeoutDuration() time.Duration {
	return parseDuration(c.FetchTimeout, 10*time.Second)
}
