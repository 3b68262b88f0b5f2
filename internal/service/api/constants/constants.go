// Package constants API 서비스 전반에서 사용하는 상수를 정의합니다.
package constants

// 로깅 시 로그의 발생 위치(컴포넌트)를 식별하기 위한 상수입니다.
const (
	// ComponentService 서비스 로그의 컴포넌트 이름입니다.
	ComponentService = "api.service"

	// ComponentHandler 핸들러 로그의 컴포넌트 이름입니다.
	ComponentHandler = "api.handler"

	// ComponentMiddleware 미들웨어 로그의 컴포넌트 이름입니다.
	ComponentMiddleware = "api.middleware"

	// ComponentAuth 인증 로그의 컴포넌트 이름입니다.
	ComponentAuth = "api.auth"

	// ComponentErrorHandler 에러 핸들러 로그의 컴포넌트 이름입니다.
	ComponentErrorHandler = "api.error_handler"
)

// 인증 관련 상수입니다.
const (
	// SessionCookieName 발급된 세션 토큰을 담는 쿠키 이름입니다.
	SessionCookieName = "gschool_session"

	// ContextKeyIdentity 인증된 교사 Identity 저장용 Context 키입니다.
	ContextKeyIdentity = "authenticated_identity"
)

// Context 키 상수입니다.
const (
	// HeaderAuthorization Bearer 토큰 전달용 HTTP 헤더 키입니다.
	HeaderAuthorization = "Authorization"
)
