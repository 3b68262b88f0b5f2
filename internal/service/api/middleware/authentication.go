package middleware

import (
	"strings"

	"github.com/gdistrict/gschool-connect/internal/service/api/auth"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/labstack/echo/v4"
)

// bearerPrefix Authorization 헤더의 Bearer 스킴 접두사입니다.
const bearerPrefix = "Bearer "

// RequireAuthentication 세션 토큰 인증을 수행하는 미들웨어를 반환합니다.
//
// 처리 과정:
//  1. 세션 토큰 추출 (Authorization: Bearer 헤더 우선, 세션 쿠키 폴백)
//  2. 토큰 서명/유효 기간 검증
//  3. 검증된 신원 정보를 Context에 저장
//
// 대시보드는 쿠키로, 스크립트/CLI 클라이언트는 Bearer 헤더로 토큰을 전달합니다.
//
// 인증 실패 시:
//   - 401 Unauthorized: 토큰 누락, 서명 불일치, 만료
//
// Panics:
//   - authenticator가 nil인 경우
func RequireAuthentication(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic(constants.PanicMsgAuthenticatorRequired)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)
			}

			identity, err := authenticator.VerifyToken(token)
			if err != nil {
				applog.WithComponentAndFields(constants.ComponentAuth, applog.Fields{
					"method":    c.Request().Method,
					"path":      c.Path(),
					"remote_ip": c.RealIP(),
					"error":     err,
				}).Warn("세션 토큰 검증 실패")

				return httputil.NewUnauthorizedError(constants.ErrMsgUnauthorizedInvalidToken)
			}

			auth.SetIdentity(c, identity)

			return next(c)
		}
	}
}

// OptionalAuthentication 세션 토큰이 있으면 검증하여 신원을 저장하고,
// 없거나 유효하지 않으면 익명 요청으로 계속 진행하는 미들웨어를 반환합니다.
// 교사와 학생이 같은 경로를 공유하는 엔드포인트에서 사용됩니다.
//
// Panics:
//   - authenticator가 nil인 경우
func OptionalAuthentication(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic(constants.PanicMsgAuthenticatorRequired)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := extractToken(c); token != "" {
				if identity, err := authenticator.VerifyToken(token); err == nil {
					auth.SetIdentity(c, identity)
				}
			}

			return next(c)
		}
	}
}

// RequireRole 인증된 신원이 요구 권한 등급을 만족하는지 검사하는 미들웨어를 반환합니다.
// RequireAuthentication 이후에 적용되어야 하며, admin은 teacher 권한을 포함합니다.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := auth.IdentityFrom(c)
			if err != nil {
				return httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)
			}

			if !identity.AllowsRole(role) {
				applog.WithComponentAndFields(constants.ComponentAuth, applog.Fields{
					"email":         identity.Email,
					"role":          identity.Role,
					"required_role": role,
					"path":          c.Path(),
				}).Warn("권한 부족으로 요청 거부")

				return httputil.NewForbiddenError(constants.ErrMsgForbidden)
			}

			return next(c)
		}
	}
}

// extractToken 요청에서 세션 토큰을 추출합니다.
//
// 우선순위:
//  1. Authorization: Bearer 헤더
//  2. 세션 쿠키
func extractToken(c echo.Context) string {
	authorization := c.Request().Header.Get(constants.HeaderAuthorization)
	if strings.HasPrefix(authorization, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
	}

	cookie, err := c.Cookie(constants.SessionCookieName)
	if err != nil || cookie == nil {
		return ""
	}

	return cookie.Value
}
