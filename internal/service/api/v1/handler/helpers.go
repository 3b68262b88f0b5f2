package handler

import (
	"strconv"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

// parsePositiveInt 쿼리 파라미터 문자열을 양의 정수로 변환합니다.
func parsePositiveInt(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperrors.Newf(apperrors.InvalidInput, "양의 정수가 아닙니다: '%s'", raw)
	}
	return v, nil
}
