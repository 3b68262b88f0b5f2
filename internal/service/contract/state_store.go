package contract

import (
	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

// ErrStateNotFound 저장된 상태 스냅샷을 찾을 수 없을 때 반환하는 에러입니다.
var ErrStateNotFound = apperrors.New(apperrors.NotFound, "조회 실패: 저장된 상태 스냅샷 없음")

// StateStore 서비스 상태 스냅샷(장면 목록, 교실 상태 등)을 저장하고 불러오는 저장소 인터페이스입니다.
//
// name은 저장 단위를 구분하는 논리적 컬렉션 이름이며(예: "scenes", "classrooms"),
// 동일한 name으로 Save를 호출하면 기존 스냅샷을 덮어씁니다.
type StateStore interface {
	// Save 상태 스냅샷을 저장합니다.
	Save(name string, v any) error

	// Load 저장된 상태 스냅샷을 불러옵니다.
	//
	// 저장된 데이터가 없는 경우 ErrStateNotFound 에러를 반환합니다.
	// 호출자는 이 에러를 확인하여 최초 실행 여부를 판단해야 합니다.
	Load(name string, v any) error
}
