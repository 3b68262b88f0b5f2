// Package scheduler 교실 상태의 주기적 정리 작업을 Cron 스케줄로 실행합니다.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdistrict/gschool-connect/internal/config"
	"github.com/gdistrict/gschool-connect/internal/service/contract"
	"github.com/gdistrict/gschool-connect/pkg/cronx"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// ClassroomJanitor 스케줄러가 호출하는 교실 상태 정리 작업입니다.
type ClassroomJanitor interface {
	// SweepPresence TTL보다 오래 보고가 없는 학생의 접속 상태를 제거합니다.
	SweepPresence(ttl time.Duration) (int, error)

	// TrimAudit 지정된 시각보다 오래된 감사 로그를 제거합니다.
	TrimAudit(olderThan time.Time) (int, error)
}

// Scheduler 설정된 Cron 주기에 맞춰 교실 상태 정리 작업을 실행하는 서비스입니다.
type Scheduler struct {
	cfg *config.SchedulerConfig

	classroom          ClassroomJanitor
	notificationSender contract.NotificationSender

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(cfg *config.SchedulerConfig, classroom ClassroomJanitor, notificationSender contract.NotificationSender) *Scheduler {
	if classroom == nil {
		panic("ClassroomJanitor는 필수입니다")
	}
	if notificationSender == nil {
		panic("NotificationSender는 필수입니다")
	}

	return &Scheduler{
		cfg: cfg,

		classroom: classroom,

		notificationSender: notificationSender,
	}
}

// Start 스케줄러를 시작하고 정리 작업들을 Cron 엔진에 등록합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Scheduler 서비스 시작중...")

	if s.classroom == nil {
		serviceStopWG.Done()
		return ErrClassroomNotInitialized
	}
	if s.notificationSender == nil {
		serviceStopWG.Done()
		return ErrNotificationSenderNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// Cron 엔진 초기화
	// - Recover: 작업 Panic 발생 시 복구하여 다른 작업에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	s.registerJobs()

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_schedules": len(s.cron.Entries()),
	}).Info("Scheduler 서비스 시작됨")

	// 종료 신호 대기
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
// 실행 중인 작업이 있으면 완료될 때까지 대기합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("Scheduler 서비스 중지중...")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 중지됨")
}

// registerJobs 정리 작업들을 Cron 엔진에 등록합니다.
// 등록 실패는 해당 작업만 건너뛰고 관리자에게 알립니다.
func (s *Scheduler) registerJobs() {
	presenceTTL := s.cfg.PresenceTTLDuration()
	if _, err := s.cron.AddFunc(s.cfg.PresenceSweepSpec, func() {
		s.sweepPresence(presenceTTL)
	}); err != nil {
		s.logAndNotifyError(fmt.Sprintf("스케줄 등록 실패: 잘못된 Cron 표현식입니다 (presence_sweep_spec: %s)", s.cfg.PresenceSweepSpec), err)
	}

	retention := time.Duration(s.cfg.AuditRetentionDays) * 24 * time.Hour
	if _, err := s.cron.AddFunc(s.cfg.AuditTrimSpec, func() {
		s.trimAudit(retention)
	}); err != nil {
		s.logAndNotifyError(fmt.Sprintf("스케줄 등록 실패: 잘못된 Cron 표현식입니다 (audit_trim_spec: %s)", s.cfg.AuditTrimSpec), err)
	}
}

// sweepPresence 장기 미접속 학생의 접속 상태를 정리합니다.
func (s *Scheduler) sweepPresence(ttl time.Duration) {
	removed, err := s.classroom.SweepPresence(ttl)
	if err != nil {
		s.logAndNotifyError("접속 상태 정리 작업 실패", err)
		return
	}

	if removed > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"removed": removed,
		}).Debug("접속 상태 정리 작업 완료")
	}
}

// trimAudit 보존 기간이 지난 감사 로그를 정리합니다.
func (s *Scheduler) trimAudit(retention time.Duration) {
	removed, err := s.classroom.TrimAudit(time.Now().Add(-retention))
	if err != nil {
		s.logAndNotifyError("감사 로그 정리 작업 실패", err)
		return
	}

	if removed > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"removed": removed,
		}).Info("감사 로그 정리 작업 완료")
	}
}

// logAndNotifyError 스케줄러 작업 중 발생한 오류를 로깅하고 관리자에게 알립니다.
func (s *Scheduler) logAndNotifyError(message string, err error) {
	applog.WithComponent(component).WithError(err).Error(message)

	if notifyErr := s.notificationSender.NotifyError(fmt.Sprintf("%s: %v", message, err)); notifyErr != nil {
		applog.WithComponent(component).WithError(notifyErr).Warn("스케줄러 오류 알림 발송 실패")
	}
}
