package notification

import (
	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

var (
	// ErrQueueFull 발송 대기열이 가득 차서 알림 요청이 거부되었을 때 반환하는 에러입니다.
	ErrQueueFull = apperrors.New(apperrors.Unavailable, "알림 발송 대기열이 가득 찼습니다")

	// ErrServiceStopped 서비스가 실행 중이 아닐 때 반환하는 에러입니다.
	ErrServiceStopped = apperrors.New(apperrors.Unavailable, "Notification 서비스가 실행 중이 아닙니다")

	// ErrNotifierDisabled 운영자 알림 채널이 설정되지 않았을 때 반환하는 에러입니다.
	ErrNotifierDisabled = apperrors.New(apperrors.Unavailable, "운영자 알림 채널이 비활성화되어 있습니다")

	// ErrEmptyMessage 빈 메시지 발송 요청에 반환하는 에러입니다.
	ErrEmptyMessage = apperrors.New(apperrors.InvalidInput, "알림 메시지는 비어 있을 수 없습니다")
)
