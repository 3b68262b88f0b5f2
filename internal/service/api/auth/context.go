package auth

import (
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/labstack/echo/v4"
)

// SetIdentity 인증된 신원 정보를 요청 Context에 저장합니다.
// 인증 미들웨어가 토큰 검증 직후 호출합니다.
func SetIdentity(c echo.Context, identity Identity) {
	c.Set(constants.ContextKeyIdentity, identity)
}

// IdentityFrom 요청 Context에서 인증된 신원 정보를 조회합니다.
// 인증 미들웨어를 거치지 않은 요청에서는 ErrIdentityMissingInContext를 반환합니다.
func IdentityFrom(c echo.Context) (Identity, error) {
	v := c.Get(constants.ContextKeyIdentity)
	if v == nil {
		return Identity{}, ErrIdentityMissingInContext
	}

	identity, ok := v.(Identity)
	if !ok {
		return Identity{}, ErrIdentityTypeMismatch
	}

	return identity, nil
}
