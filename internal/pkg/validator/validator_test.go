package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type announceForm struct {
	Message string `validate:"required,max=2000" korean:"공지 메시지"`
	Email   string `validate:"omitempty,email" korean:"이메일"`
	Count   int    `validate:"min=1" korean:"횟수"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	t.Run("유효한 구조체", func(t *testing.T) {
		err := Struct(&announceForm{Message: "전체 공지", Count: 1})
		assert.NoError(t, err)
	})

	t.Run("필수 필드 누락", func(t *testing.T) {
		err := Struct(&announceForm{Count: 1})
		assert.Error(t, err)
	})
}

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		form     announceForm
		expected string
	}{
		{"required는 korean 태그 필드명 사용", announceForm{Count: 1}, "공지 메시지는 필수입니다"},
		{"min은 숫자 메시지", announceForm{Message: "x", Count: 0}, "횟수는 최소 1 이상이어야 합니다"},
		{"email 형식 메시지", announceForm{Message: "x", Count: 1, Email: "bad"}, "이메일는 올바른 이메일 형식이어야 합니다"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Struct(&tc.form)
			assert.Equal(t, tc.expected, FormatValidationError(err))
		})
	}

	t.Run("nil 에러는 빈 문자열", func(t *testing.T) {
		assert.Equal(t, "", FormatValidationError(nil))
	})

	t.Run("validator 에러가 아니면 원본 메시지", func(t *testing.T) {
		err := assert.AnError
		assert.Equal(t, err.Error(), FormatValidationError(err))
	})
}
