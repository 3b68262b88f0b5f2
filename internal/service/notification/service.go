// Package notification 운영자(교사 관리자)에게 긴급 상황을 전달하는 알림 서비스를 제공합니다.
//
// 알림 요청은 버퍼 채널에 적재되고 워커 고루틴이 순차적으로 외부 채널(텔레그램)로
// 전송합니다. 요청자는 실제 전송 결과를 기다리지 않습니다.
package notification

import (
	"context"
	"strings"
	"sync"

	"github.com/gdistrict/gschool-connect/internal/config"
	"github.com/gdistrict/gschool-connect/internal/pkg/mark"
	"github.com/gdistrict/gschool-connect/internal/service"
	"github.com/gdistrict/gschool-connect/internal/service/contract"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
)

const component = "notification.service"

// queueSize 발송 대기열의 버퍼 크기입니다. 초과 요청은 대기 없이 드롭됩니다.
const queueSize = 64

// Sender 알림 메시지를 실제 외부 채널로 전송하는 구현체입니다.
type Sender interface {
	Send(message string) error
}

// Service 큐 기반 운영자 알림 서비스입니다.
//
// 텔레그램 설정이 없으면 비활성 상태로 생성되며, 이때 모든 발송 요청은
// 로그만 남기고 조용히 무시됩니다.
type Service struct {
	sender  Sender
	enabled bool

	queue chan string

	running   bool
	runningMu sync.Mutex
}

var (
	_ service.Service                    = (*Service)(nil)
	_ contract.NotificationSender        = (*Service)(nil)
	_ contract.NotificationHealthChecker = (*Service)(nil)
)

// NewService 설정에 따라 알림 서비스를 생성합니다.
// 텔레그램이 비활성화되어 있으면 발송 기능이 꺼진 서비스를 반환합니다.
func NewService(cfg *config.NotifierConfig) (*Service, error) {
	if !cfg.Telegram.Enabled {
		applog.WithComponent(component).Info("운영자 알림 채널이 설정되지 않아 비활성 상태로 동작합니다")
		return &Service{queue: make(chan string, queueSize)}, nil
	}

	sender, err := newTelegramSender(&cfg.Telegram)
	if err != nil {
		return nil, err
	}

	return newServiceWithSender(sender), nil
}

// newServiceWithSender 발송기를 직접 주입하여 서비스를 생성합니다.
func newServiceWithSender(sender Sender) *Service {
	return &Service{
		sender:  sender,
		enabled: true,
		queue:   make(chan string, queueSize),
	}
}

// Start 알림 서비스를 시작하여 발송 워커를 실행합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Notification 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("Notification 서비스가 이미 시작됨!!!")
		return nil
	}

	go s.run(serviceStopCtx, serviceStopWG)

	s.running = true

	applog.WithComponent(component).Info("Notification 서비스 시작됨")

	return nil
}

// run 발송 대기열을 소비하는 워커 루프입니다.
func (s *Service) run(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case <-serviceStopCtx.Done():
			applog.WithComponent(component).Info("Notification 서비스 중지중...")

			s.runningMu.Lock()
			s.running = false
			s.runningMu.Unlock()

			applog.WithComponent(component).Info("Notification 서비스 중지됨")

			return

		case message := <-s.queue:
			s.deliver(message)
		}
	}
}

// deliver 대기열에서 꺼낸 메시지를 외부 채널로 전송합니다.
// 전송 실패는 로그로만 남기며 워커를 중단시키지 않습니다.
func (s *Service) deliver(message string) {
	if s.sender == nil {
		return
	}

	if err := s.sender.Send(message); err != nil {
		applog.WithComponent(component).WithError(err).Error("운영자 알림 전송 실패")
	}
}

// Notify 운영자 채널로 알림 메시지를 발송합니다.
// 발송 요청이 큐에 등록되면 성공으로 간주하며, 실제 전송 결과와는 무관합니다.
func (s *Service) Notify(message string) error {
	return s.enqueue(message)
}

// NotifyWithMark 메시지 성격을 나타내는 마크(이모지)를 덧붙여 알림을 발송합니다.
func (s *Service) NotifyWithMark(m mark.Mark, message string) error {
	return s.enqueue(message + m.WithSpace())
}

// NotifyError 관리자의 주의가 필요한 "오류" 성격의 알림 메시지를 발송합니다.
func (s *Service) NotifyError(message string) error {
	return s.NotifyWithMark(mark.Alert, message)
}

// enqueue 메시지를 발송 대기열에 등록합니다. 대기열이 가득 차 있으면
// 시스템 보호를 위해 대기하지 않고 즉시 드롭합니다.
func (s *Service) enqueue(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	if !s.enabled {
		applog.WithComponent(component).Debug("알림 채널 비활성 상태: 메시지를 무시합니다")
		return nil
	}

	select {
	case s.queue <- message:
		return nil
	default:
		applog.WithComponentAndFields(component, applog.Fields{
			"queue_size": queueSize,
		}).Warn("알림 요청 거부: 발송 대기열 용량 초과 (Queue Full)")
		return ErrQueueFull
	}
}

// Health 서비스가 알림을 발송할 수 있는 상태인지 확인합니다.
func (s *Service) Health() error {
	if !s.enabled {
		return ErrNotifierDisabled
	}

	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return ErrServiceStopped
	}

	return nil
}
