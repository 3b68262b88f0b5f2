package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdistrict/gschool-connect/internal/config"
	"github.com/gdistrict/gschool-connect/internal/pkg/version"
	"github.com/gdistrict/gschool-connect/internal/service"
	"github.com/gdistrict/gschool-connect/internal/service/api"
	"github.com/gdistrict/gschool-connect/internal/service/classifier"
	"github.com/gdistrict/gschool-connect/internal/service/classroom"
	"github.com/gdistrict/gschool-connect/internal/service/notification"
	"github.com/gdistrict/gschool-connect/internal/service/scene"
	"github.com/gdistrict/gschool-connect/internal/service/scheduler"
	"github.com/gdistrict/gschool-connect/internal/service/storage"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	log "github.com/sirupsen/logrus"
)

const (
	banner = `
   ____  ____         _                    _     ____                                 _
  / ___|/ ___|   ___ | |__    ___    ___  | |   / ___| ___   _ __   _ __    ___  ___ | |_
 | |  _ \___ \  / __|| '_ \  / _ \  / _ \ | |  | |    / _ \ | '_ \ | '_ \  / _ \/ __|| __|
 | |_| | ___) || (__ | | | || (_) || (_) || |  | |___| (_) || | | || | | ||  __/ (__ | |_
  \____||____/  \___||_| |_| \___/  \___/ |_|   \____|\___/ |_| |_||_| |_| \___|\___| \__|
                                                                          %s
------------------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	// 아스키아트 출력(폰트:standard)
	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	// 빌드 정보 출력
	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 권장 설정 미준수 항목을 경고로 알린다.
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 상태 저장소와 도메인 컴포넌트를 생성하고 초기화한다.
	stateStore, err := storage.NewFileStateStore(appConfig.Storage.DataDir)
	if err != nil {
		log.Fatalf("상태 저장소 초기화 실패: %v", err)
	}

	classroomManager, err := classroom.NewManager(stateStore)
	if err != nil {
		log.Fatalf("교실 상태 초기화 실패: %v", err)
	}

	sceneRegistry, err := scene.NewRegistry(stateStore)
	if err != nil {
		log.Fatalf("장면 레지스트리 초기화 실패: %v", err)
	}

	// 장면 적용 상태가 바뀌면 모든 학생에게 정책 갱신 명령을 내린다.
	sceneRegistry.SetChangeListener(classroomManager.BroadcastPolicyRefresh)

	classifierService, err := classifier.NewService(stateStore, &appConfig.Classifier)
	if err != nil {
		log.Fatalf("분류기 초기화 실패: %v", err)
	}

	notificationService, err := notification.NewService(&appConfig.Notifier)
	if err != nil {
		log.Fatalf("운영자 알림 초기화 실패: %v", err)
	}

	schedulerService := scheduler.NewService(&appConfig.Scheduler, classroomManager, notificationService)

	apiService := api.NewService(appConfig, api.Dependencies{
		Classroom:          classroomManager,
		Scenes:             sceneRegistry,
		Classifier:         classifierService,
		NotificationSender: notificationService,
		NotificationHealth: notificationService,
	}, buildInfo)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다.
	services := []service.Service{notificationService, schedulerService, apiService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done
}
