package classroom

import (
	"fmt"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

var (
	// ErrStudentRequired 학생 식별자가 비어 있을 때 반환하는 에러입니다.
	ErrStudentRequired = apperrors.New(apperrors.InvalidInput, "학생 식별자는 비어 있을 수 없습니다")

	// ErrCommandTypeRequired 명령 종류(type)가 비어 있을 때 반환하는 에러입니다.
	ErrCommandTypeRequired = apperrors.New(apperrors.InvalidInput, "명령 종류(type)는 비어 있을 수 없습니다")

	// ErrPollNotFound 존재하지 않는 설문에 응답하려 할 때 반환하는 에러입니다.
	ErrPollNotFound = apperrors.New(apperrors.NotFound, "설문을 찾을 수 없습니다")

	// ErrPollQuestionRequired 설문 질문 또는 선택지가 비어 있을 때 반환하는 에러입니다.
	ErrPollQuestionRequired = apperrors.New(apperrors.InvalidInput, "설문 질문과 선택지는 비어 있을 수 없습니다")

	// ErrMessageTextRequired 메시지 본문이 비어 있을 때 반환하는 에러입니다.
	ErrMessageTextRequired = apperrors.New(apperrors.InvalidInput, "메시지 본문은 비어 있을 수 없습니다")

	// ErrExamURLRequired 시험 모드 시작에 시험 URL이 없을 때 반환하는 에러입니다.
	ErrExamURLRequired = apperrors.New(apperrors.InvalidInput, "시험 URL은 비어 있을 수 없습니다")
)

// NewErrInvalidToggleKey class/toggle에서 허용되지 않은 키가 전달되었을 때 반환하는 에러를 생성합니다.
func NewErrInvalidToggleKey(key string) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("변경할 수 없는 수업 플래그입니다: '%s' (focus_mode 또는 paused만 허용)", key))
}

// NewErrStatePersistFailed 교실 상태 저장에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrStatePersistFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "교실 상태 저장에 실패했습니다")
}
