package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/gdistrict/gschool-connect/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"잘못된_입력은_400", apperrors.New(apperrors.InvalidInput, "잘못된 값"), http.StatusBadRequest},
		{"파싱_실패는_400", apperrors.New(apperrors.ParsingFailed, "파싱 실패"), http.StatusBadRequest},
		{"인증_실패는_401", apperrors.New(apperrors.Unauthorized, "인증 필요"), http.StatusUnauthorized},
		{"권한_부족은_403", apperrors.New(apperrors.Forbidden, "권한 없음"), http.StatusForbidden},
		{"리소스_없음은_404", apperrors.New(apperrors.NotFound, "없음"), http.StatusNotFound},
		{"충돌은_409", apperrors.New(apperrors.Conflict, "중복"), http.StatusConflict},
		{"일시적_불가는_503", apperrors.New(apperrors.Unavailable, "점검 중"), http.StatusServiceUnavailable},
		{"시간_초과는_503", apperrors.New(apperrors.Timeout, "시간 초과"), http.StatusServiceUnavailable},
		{"내부_오류는_500", apperrors.New(apperrors.Internal, "버그"), http.StatusInternalServerError},
		{"일반_에러는_500", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromAppError(tt.err)

			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.wantCode, he.Code)
		})
	}

	t.Run("nil은_nil", func(t *testing.T) {
		assert.NoError(t, FromAppError(nil))
	})

	t.Run("AppError의_메시지_유지", func(t *testing.T) {
		wrapped := apperrors.Wrap(assert.AnError, apperrors.NotFound, "장면을 찾을 수 없습니다")

		err := FromAppError(wrapped)

		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		resp, ok := he.Message.(response.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, "장면을 찾을 수 없습니다", resp.Message)
		assert.Equal(t, http.StatusNotFound, resp.ResultCode)
	})
}

func TestSuccess(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Success(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result_code":0,"message":"성공"}`, rec.Body.String())
}
