package log

import (
	"fmt"
	"os"
)

// Options 로깅 시스템 초기화 옵션입니다.
type Options struct {
	Name  string // 로그 파일명에 사용할 애플리케이션 식별자
	Dir   string // 로그 파일 저장 디렉토리 (비어있으면 "logs")
	Level Level  // 최소 로그 레벨

	MaxAge     int  // 로그 파일 보관일 수 (0: 무제한)
	MaxSizeMB  int  // 파일 하나의 최대 크기 (MB, 0: 기본값)
	MaxBackups int  // 로테이션 백업 파일의 최대 개수 (0: 기본값)
	Compress   bool // 로테이션된 백업 파일의 gzip 압축 여부

	EnableCriticalLog bool // ERROR 이상 로그를 별도 파일로 격리 저장할지 여부
	EnableVerboseLog  bool // DEBUG 이하 로그를 별도 파일로 분리 저장할지 여부
	EnableConsoleLog  bool // 표준 출력에도 로그를 내보낼지 여부 (개발 환경용)

	// 로그를 남긴 소스 코드 위치(함수명:라인)를 함께 기록할지 여부입니다.
	ReportCaller bool

	// 호출자 함수 경로가 길 때 잘라낼 공통 prefix입니다.
	// 예: "github.com/gdistrict/gschool-connect"를 지정하면 그 이하 경로만 출력됩니다.
	CallerPathPrefix string
}

// Validate 옵션 값의 유효성을 검증합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 비어 있습니다")
	}

	// 디렉토리 경로가 일반 파일로 선점되어 있으면 MkdirAll이 실패하므로 미리 확인한다.
	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}
