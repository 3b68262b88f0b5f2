// Package log 애플리케이션 전역 로깅 시스템을 제공합니다.
//
// logrus를 기반으로 lumberjack 로테이션과 레벨별 파일 분리(Main/Critical/Verbose)를
// 구성하며, Setup()으로 초기화한 뒤 패키지 함수(WithComponent 등)로 사용합니다.
package log

import (
	log "github.com/sirupsen/logrus"
)

// SetDebugMode Debug 모드 여부에 따라 전역 로그 레벨을 조정합니다.
//   - Debug 모드: Trace 레벨 (모든 로그 출력)
//   - 운영 모드: Info 레벨
func SetDebugMode(debug bool) {
	if debug {
		log.SetLevel(log.TraceLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// MaskSensitiveData 토큰, 키 등의 민감 정보를 로그에 남기기 전에 마스킹합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 값은 앞 4자 + 뒤 4자만 표시
	return data[:4] + "***" + data[len(data)-4:]
}

// StandardLogger 전역 logrus 표준 로거를 반환합니다.
// 외부 라이브러리(cron 등)에 로거를 주입할 때 사용합니다.
func StandardLogger() *log.Logger {
	return log.StandardLogger()
}

// WithFields 주어진 필드가 설정된 로그 Entry를 반환합니다.
func WithFields(fields log.Fields) *log.Entry {
	return log.WithFields(fields)
}

// WithComponent component 필드가 설정된 로그 Entry를 반환합니다.
// 모든 로그에 component 필드를 일관되게 붙이기 위해 사용합니다.
func WithComponent(component string) *log.Entry {
	return log.WithFields(log.Fields{
		"component": component,
	})
}

// WithComponentAndFields component 필드와 추가 필드가 설정된 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields log.Fields) *log.Entry {
	newFields := make(log.Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component
	return log.WithFields(newFields)
}
