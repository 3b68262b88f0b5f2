package handler

import (
	"net/http"
	"time"

	"github.com/gdistrict/gschool-connect/internal/service/api/auth"
	"github.com/gdistrict/gschool-connect/internal/service/api/constants"
	"github.com/gdistrict/gschool-connect/internal/service/api/httputil"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/labstack/echo/v4"
)

// loginRequest 교사 로그인 요청 본문입니다.
// 접근 키는 구버전 대시보드와의 호환을 위해 password 키로도 받습니다.
type loginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	AccessKey string `json:"access_key"`
}

// loginResponse 로그인 성공 응답입니다. 토큰은 쿠키와 본문 양쪽으로 전달됩니다.
type loginResponse struct {
	ResultCode int    `json:"result_code"`
	Token      string `json:"token"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
}

// LoginHandler 교사 계정을 검증하고 세션 토큰을 발급합니다.
//
// POST /api/login
func (h *Handler) LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	accessKey := req.AccessKey
	if accessKey == "" {
		accessKey = req.Password
	}

	if req.Email == "" || accessKey == "" {
		return httputil.NewBadRequestError("이메일과 접근 키는 필수입니다")
	}

	token, identity, err := h.authenticator.Login(req.Email, accessKey)
	if err != nil {
		return httputil.FromAppError(err)
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"email": identity.Email,
		"role":  identity.Role,
	}).Info("교사 로그인 성공")

	// 대시보드용 세션 쿠키. 스크립트 클라이언트는 본문의 토큰을 Bearer 헤더로 사용한다.
	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authenticator.TokenTTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{
		ResultCode: 0,
		Token:      token,
		Email:      identity.Email,
		Name:       identity.Name,
		Role:       identity.Role,
	})
}

// WhoamiHandler 현재 세션의 신원 정보를 반환합니다.
//
// GET /api/whoami
func (h *Handler) WhoamiHandler(c echo.Context) error {
	identity, err := auth.IdentityFrom(c)
	if err != nil {
		return httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	return c.JSON(http.StatusOK, identity)
}
