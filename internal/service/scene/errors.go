package scene

import (
	"fmt"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

var (
	// ErrSceneNotFound 요청한 장면이 존재하지 않을 때 반환하는 에러입니다.
	ErrSceneNotFound = apperrors.New(apperrors.NotFound, "장면을 찾을 수 없습니다")

	// ErrSceneNameRequired 장면 이름이 비어 있을 때 반환하는 에러입니다.
	ErrSceneNameRequired = apperrors.New(apperrors.InvalidInput, "장면 이름은 비어 있을 수 없습니다")

	// ErrSceneIDRequired 장면 ID가 비어 있을 때 반환하는 에러입니다.
	ErrSceneIDRequired = apperrors.New(apperrors.InvalidInput, "장면 ID는 비어 있을 수 없습니다")
)

// NewErrInvalidType 허용되지 않은 장면 Type 값이 전달되었을 때 반환하는 에러를 생성합니다.
func NewErrInvalidType(sceneType string) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("장면 구분이 올바르지 않습니다: '%s' (allowed 또는 blocked만 허용)", sceneType))
}

// NewErrInvalidPattern 해석할 수 없는 URL 패턴이 포함되었을 때 반환하는 에러를 생성합니다.
func NewErrInvalidPattern(err error) error {
	return apperrors.Wrap(err, apperrors.InvalidInput, "장면에 해석할 수 없는 URL 패턴이 포함되어 있습니다")
}

// NewErrDuplicateSceneName 같은 구분(Type) 내에 동일한 이름의 장면이 이미 존재할 때 반환하는 에러를 생성합니다.
func NewErrDuplicateSceneName(name string) error {
	return apperrors.New(apperrors.Conflict, fmt.Sprintf("동일한 이름의 장면이 이미 존재합니다: '%s'", name))
}

// NewErrSnapshotPersistFailed 장면 상태 스냅샷 저장에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrSnapshotPersistFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "장면 상태 저장에 실패했습니다")
}

// NewErrImportFailed 장면 목록 가져오기 데이터가 올바르지 않을 때 반환하는 에러를 생성합니다.
func NewErrImportFailed(err error) error {
	return apperrors.Wrap(err, apperrors.ParsingFailed, "장면 목록 가져오기 데이터 해석에 실패했습니다")
}
