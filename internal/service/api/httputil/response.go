// Package httputil HTTP 응답 생성과 에러 변환을 담당하는 유틸리티를 제공합니다.
package httputil

import (
	"net/http"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/gdistrict/gschool-connect/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

// NewBadRequestError 400 Bad Request 에러를 생성합니다
func NewBadRequestError(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, response.ErrorResponse{
		ResultCode: http.StatusBadRequest,
		Message:    message,
	})
}

// NewUnauthorizedError 401 Unauthorized 에러를 생성합니다
func NewUnauthorizedError(message string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, response.ErrorResponse{
		ResultCode: http.StatusUnauthorized,
		Message:    message,
	})
}

// NewForbiddenError 403 Forbidden 에러를 생성합니다
func NewForbiddenError(message string) error {
	return echo.NewHTTPError(http.StatusForbidden, response.ErrorResponse{
		ResultCode: http.StatusForbidden,
		Message:    message,
	})
}

// NewNotFoundError 404 Not Found 에러를 생성합니다
func NewNotFoundError(message string) error {
	return echo.NewHTTPError(http.StatusNotFound, response.ErrorResponse{
		ResultCode: http.StatusNotFound,
		Message:    message,
	})
}

// NewConflictError 409 Conflict 에러를 생성합니다
func NewConflictError(message string) error {
	return echo.NewHTTPError(http.StatusConflict, response.ErrorResponse{
		ResultCode: http.StatusConflict,
		Message:    message,
	})
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다
func NewTooManyRequestsError(message string) error {
	return echo.NewHTTPError(http.StatusTooManyRequests, response.ErrorResponse{
		ResultCode: http.StatusTooManyRequests,
		Message:    message,
	})
}

// NewInternalServerError 500 Internal Server Error 에러를 생성합니다
func NewInternalServerError(message string) error {
	return echo.NewHTTPError(http.StatusInternalServerError, response.ErrorResponse{
		ResultCode: http.StatusInternalServerError,
		Message:    message,
	})
}

// NewServiceUnavailableError 503 Service Unavailable 에러를 생성합니다
func NewServiceUnavailableError(message string) error {
	return echo.NewHTTPError(http.StatusServiceUnavailable, response.ErrorResponse{
		ResultCode: http.StatusServiceUnavailable,
		Message:    message,
	})
}

// FromAppError AppError의 에러 타입을 HTTP 상태 코드로 변환한 에러를 생성합니다.
// 핸들러가 비즈니스 로직의 에러를 HTTP 응답으로 넘길 때 사용합니다.
func FromAppError(err error) error {
	if err == nil {
		return nil
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		message = appErr.Message()
	}

	switch apperrors.UnderlyingType(err) {
	case apperrors.InvalidInput, apperrors.ParsingFailed:
		return NewBadRequestError(message)
	case apperrors.Unauthorized:
		return NewUnauthorizedError(message)
	case apperrors.Forbidden:
		return NewForbiddenError(message)
	case apperrors.NotFound:
		return NewNotFoundError(message)
	case apperrors.Conflict:
		return NewConflictError(message)
	case apperrors.Unavailable, apperrors.Timeout:
		return NewServiceUnavailableError(message)
	default:
		return NewInternalServerError(message)
	}
}

// Success 표준 성공 응답(200 OK)을 JSON 형식으로 반환합니다.
func Success(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse{
		ResultCode: 0,
		Message:    "성공",
	})
}
