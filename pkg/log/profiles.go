package log

// NewProductionOptions 운영 환경용 로그 설정을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,   // 30일 보관
		MaxSizeMB:  100,  // 100MB 단위 로테이션
		MaxBackups: 20,   // 백업 최대 20개
		Compress:   true, // 디스크 절약을 위해 백업 압축

		EnableCriticalLog: true,  // 장애 분석용 중요 로그 격리
		EnableVerboseLog:  true,  // 상세 로그 분리
		EnableConsoleLog:  false, // 콘솔 출력 비활성화

		ReportCaller:     true,
		CallerPathPrefix: "",
	}
}

// NewDevelopmentOptions 개발 환경용 로그 설정을 반환합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,  // 1일 보관
		MaxSizeMB:  50, // 50MB 단위 로테이션
		MaxBackups: 5,  // 백업 최대 5개
		Compress:   false,

		EnableCriticalLog: false, // 개발 중에는 단일 파일이 보기 편하다
		EnableVerboseLog:  false,
		EnableConsoleLog:  true, // 터미널 출력 활성화

		ReportCaller:     true,
		CallerPathPrefix: "",
	}
}
