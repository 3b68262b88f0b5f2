package constants

// 클라이언트에게 반환되는 에러 메시지 상수입니다.
const (
	// ------------------------------------------------------------------------------------------------
	// 일반 HTTP 에러 (상태 코드 순)
	// ------------------------------------------------------------------------------------------------

	// 400 Bad Request
	ErrMsgBadRequest            = "잘못된 요청입니다"
	ErrMsgBadRequestInvalidBody = "요청 본문을 파싱할 수 없습니다. JSON 형식을 확인해주세요"

	// 401 Unauthorized
	ErrMsgUnauthorized             = "인증이 필요합니다. 로그인 후 다시 시도해주세요"
	ErrMsgUnauthorizedInvalidToken = "세션 토큰이 유효하지 않거나 만료되었습니다"
	ErrMsgUnauthorizedBadLogin     = "이메일 또는 접근 키가 올바르지 않습니다"

	// 403 Forbidden
	ErrMsgForbidden = "이 작업을 수행할 권한이 없습니다"

	// 404 Not Found
	ErrMsgNotFound = "요청한 리소스를 찾을 수 없습니다"

	// 415 Unsupported Media Type
	ErrMsgUnsupportedMediaType = "지원하지 않는 미디어 타입입니다"

	// 429 Too Many Requests
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"

	// 500 Internal Server Error
	ErrMsgInternalServer = "내부 서버 오류가 발생했습니다"

	// 503 Service Unavailable
	ErrMsgServiceUnavailable = "서비스가 점검 중이거나 종료되었습니다. 관리자에게 문의해 주세요"
)

// 내부 로깅을 위한 메시지 상수입니다.
const (
	// ------------------------------------------------------------------------------------------------
	// 서비스 생명주기
	// ------------------------------------------------------------------------------------------------

	LogMsgServiceStarting       = "API 서비스 시작중..."
	LogMsgServiceStarted        = "API 서비스 시작됨"
	LogMsgServiceAlreadyStarted = "API 서비스가 이미 시작됨!!!"
	LogMsgServiceStopping       = "API 서비스 중지중..."
	LogMsgServiceStopped        = "API 서비스 중지됨"
	LogMsgServiceUnexpectedExit = "API 서비스가 예기치 않게 종료되었습니다"

	LogMsgServiceHTTPServerStarting      = "API 서비스 > http 서버 시작"
	LogMsgServiceHTTPServerStopped       = "API 서비스 > http 서버 중지됨"
	LogMsgServiceHTTPServerShutdownError = "API 서비스 > http 서버 종료 중 오류 발생"
	LogMsgServiceHTTPServerFatalError    = "API 서비스 > http 서버를 구성하는 중에 치명적인 오류가 발생하였습니다."

	// ------------------------------------------------------------------------------------------------
	// 에러 핸들러
	// ------------------------------------------------------------------------------------------------

	LogMsgHTTP5xxServerError = "HTTP 서버 오류"
	LogMsgHTTP4xxClientError = "HTTP 클라이언트 오류"

	// ------------------------------------------------------------------------------------------------
	// 미들웨어
	// ------------------------------------------------------------------------------------------------

	LogMsgUnsupportedContentType = "지원하지 않는 Content-Type 요청 거부"
	LogMsgRateLimitExceeded      = "Rate limit 초과"
)

// 시스템 시작/구동 시 발생할 수 있는 크리티컬한 패닉 메시지 상수입니다.
const (
	// PanicMsgAppConfigRequired 패닉 메시지: AppConfig 필수
	PanicMsgAppConfigRequired = "AppConfig는 필수입니다"

	// PanicMsgNotificationSenderRequired 패닉 메시지: NotificationSender 필수
	PanicMsgNotificationSenderRequired = "NotificationSender는 필수입니다"

	// PanicMsgAuthenticatorRequired 패닉 메시지: Authenticator 필수
	PanicMsgAuthenticatorRequired = "Authenticator는 필수입니다"

	// PanicMsgClassroomRequired 패닉 메시지: Classroom Manager 필수
	PanicMsgClassroomRequired = "Classroom Manager는 필수입니다"

	// PanicMsgSceneRegistryRequired 패닉 메시지: Scene Registry 필수
	PanicMsgSceneRegistryRequired = "Scene Registry는 필수입니다"

	// PanicMsgClassifierRequired 패닉 메시지: Classifier 필수
	PanicMsgClassifierRequired = "Classifier는 필수입니다"
)
