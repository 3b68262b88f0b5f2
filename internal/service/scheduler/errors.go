package scheduler

import (
	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

var (
	// ErrClassroomNotInitialized Classroom 관리자가 주입되지 않았을 때 반환하는 에러입니다.
	ErrClassroomNotInitialized = apperrors.New(apperrors.Internal, "Classroom 관리자가 초기화되지 않았습니다")

	// ErrNotificationSenderNotInitialized NotificationSender가 주입되지 않았을 때 반환하는 에러입니다.
	ErrNotificationSenderNotInitialized = apperrors.New(apperrors.Internal, "NotificationSender가 초기화되지 않았습니다")
)
