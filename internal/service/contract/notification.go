package contract

import (
	"github.com/gdistrict/gschool-connect/internal/pkg/mark"
)

// NotificationSender 운영자 알림 발송 기능을 제공하는 인터페이스입니다.
// API, Scheduler와 같은 클라이언트는 이 인터페이스를 통해 알림 서비스를 사용합니다.
type NotificationSender interface {
	// Notify 운영자 채널로 알림 메시지를 발송합니다.
	//
	// 반환값:
	//   - error: 발송 요청이 정상적으로 큐에 등록(실제 전송 결과와는 무관)되면 nil, 실패 시 에러 반환
	Notify(message string) error

	// NotifyWithMark 메시지 성격을 나타내는 마크(이모지)를 앞에 붙여 알림을 발송합니다.
	NotifyWithMark(m mark.Mark, message string) error

	// NotifyError 관리자의 주의가 필요한 "오류" 성격의 알림 메시지를 발송합니다.
	// 시스템 내부 에러, 상태 저장 실패 등 긴급 상황 알림에 적합합니다.
	NotifyError(message string) error
}

// NotificationHealthChecker Notification 서비스의 상태를 확인하는 인터페이스입니다.
type NotificationHealthChecker interface {
	// Health 서비스가 정상적으로 실행 중인지 확인합니다.
	//
	// 반환값:
	//   - error: 서비스가 정상 동작 중이면 nil, 그렇지 않으면 에러 반환 (예: ErrServiceStopped)
	Health() error
}
