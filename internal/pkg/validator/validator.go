// Package validator 구조체 태그 기반 요청 검증과 한글 에러 메시지 변환을 제공합니다.
package validator

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// validate 전역 validator 인스턴스
	validate *validator.Validate

	// validateOnce 초기화가 정확히 한 번만 실행되도록 보장합니다.
	validateOnce sync.Once
)

// getValidator 초기화된 validator 인스턴스를 반환합니다.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// korean 태그가 있으면 에러 메시지의 필드명으로 사용한다.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			koreanName := fld.Tag.Get("korean")
			if koreanName != "" {
				return koreanName
			}
			return fld.Name
		})
	})

	return validate
}

// Struct 구조체의 validate 태그를 기반으로 검증을 수행합니다.
func Struct(s interface{}) error {
	return getValidator().Struct(s)
}

// FormatValidationError validator 에러를 사용자 친화적인 한글 메시지로 변환합니다.
// 여러 검증 에러가 있으면 첫 번째 에러만 반환합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err.Error()
	}

	return formatFieldError(validationErrors[0])
}

// formatFieldError 개별 필드 에러를 한글 메시지로 변환합니다.
func formatFieldError(fieldErr validator.FieldError) string {
	fieldName := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s는 필수입니다", fieldName)
	case "min":
		if fieldErr.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s는 최소 %s자 이상이어야 합니다", fieldName, fieldErr.Param())
		}
		return fmt.Sprintf("%s는 최소 %s 이상이어야 합니다", fieldName, fieldErr.Param())
	case "max":
		if fieldErr.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s는 최대 %s자까지 입력 가능합니다", fieldName, fieldErr.Param())
		}
		return fmt.Sprintf("%s는 최대 %s까지 입력 가능합니다", fieldName, fieldErr.Param())
	case "email":
		return fmt.Sprintf("%s는 올바른 이메일 형식이어야 합니다", fieldName)
	case "url":
		return fmt.Sprintf("%s는 올바른 URL 형식이어야 합니다", fieldName)
	case "oneof":
		return fmt.Sprintf("%s는 다음 값 중 하나여야 합니다: %s", fieldName, fieldErr.Param())
	default:
		return fmt.Sprintf("%s 검증 실패: %s", fieldName, fieldErr.Tag())
	}
}
