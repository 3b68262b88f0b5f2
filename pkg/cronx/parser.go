// Package cronx 애플리케이션 전역에서 일관된 Cron 표현식 해석을 보장하기 위한 파서를 제공합니다.
package cronx

import "github.com/robfig/cron/v3"

// StandardParser 애플리케이션의 표준 Cron 표현식 파서 구현체를 반환합니다.
//
// 표준 5필드 형식을 사용하며, 설정 파일의 모든 스케줄 표현식은 이 파서로 검증/해석됩니다.
//
// 지원 스펙:
//   - 필드 순서: [분] [시] [일] [월] [요일]
//   - 특수 표현식: @daily, @hourly, @every <duration> 등 (Descriptor)
//
// 예시:
//   - "* * * * *"  : 매분 실행
//   - "20 4 * * *" : 매일 04:20에 실행
//   - "@hourly"    : 매시 정각에 실행
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate 주어진 Cron 표현식이 표준 파서로 해석 가능한지 검증합니다.
func Validate(spec string) error {
	_, err := StandardParser().Parse(spec)
	return err
}
