package auth

import (
	"errors"
	"fmt"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

var (
	// ErrBadLogin 이메일 또는 접근 키가 일치하지 않을 때 반환하는 에러입니다.
	// 계정 존재 여부를 노출하지 않도록 두 경우 모두 같은 에러를 사용합니다.
	ErrBadLogin = apperrors.New(apperrors.Unauthorized, "이메일 또는 접근 키가 올바르지 않습니다")

	// ErrIdentityMissingInContext Context 내에서 인증된 신원 정보를 조회할 수 없을 때 반환하는 에러입니다.
	ErrIdentityMissingInContext = errors.New("Context에서 인증된 신원 정보를 찾을 수 없습니다")

	// ErrIdentityTypeMismatch Context에 저장된 객체가 예상된 Identity 타입이 아닐 때 반환하는 에러입니다.
	ErrIdentityTypeMismatch = errors.New("Context에 저장된 신원 정보의 타입이 올바르지 않습니다")
)

// NewErrDomainNotAllowed 허용 도메인을 벗어난 이메일의 로그인 시도에 대한 에러를 생성합니다.
func NewErrDomainNotAllowed(domain string) error {
	return apperrors.New(apperrors.Unauthorized, fmt.Sprintf("'%s' 도메인 계정만 로그인할 수 있습니다", domain))
}

// NewErrInvalidToken 세션 토큰 검증 실패 에러를 생성합니다.
func NewErrInvalidToken(err error) error {
	return apperrors.Wrap(err, apperrors.Unauthorized, "세션 토큰이 유효하지 않거나 만료되었습니다")
}

// NewErrTokenIssueFailed 세션 토큰 서명 실패 에러를 생성합니다.
func NewErrTokenIssueFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "세션 토큰 발급에 실패했습니다")
}
