package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// 로그 파일 확장자
	fileExt = "log"

	// 기본 로테이션 정책
	defaultMaxSizeMB  = 100 // 파일 하나당 최대 크기 (MB)
	defaultMaxBackups = 20  // 로테이션 백업 최대 보관 개수
)

var (
	// Setup()이 프로세스 생명주기 동안 한 번만 실행되도록 보장한다.
	setupOnce sync.Once

	// 최초 초기화 결과를 보관하여 Setup 재호출 시 동일한 값을 반환한다.
	// 초기화에 실패했다면 재시도하지 않고 최초의 에러를 그대로 반환한다.
	globalCloser   io.Closer
	globalSetupErr error
)

// Setup 전역 로깅 시스템을 초기화하고 옵션에 따라 파일 출력을 구성합니다.
//
// main 함수 도입부에서 호출하고, 반환된 Closer는 defer로 해제를 보장해야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setupInternal(opts)
	})

	return globalCloser, globalSetupErr
}

// setupInternal 실제 초기화 로직입니다. sync.Once를 통해 한 번만 호출됩니다.
func setupInternal(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logrus.SetLevel(level)

	logrus.SetReportCaller(opts.ReportCaller)

	// Logrus는 io.Discard여도 포맷팅을 수행하므로, 비용이 없는 포맷터로 교체한다.
	logrus.SetFormatter(&silentFormatter{})

	// 파일/콘솔 출력에 실제로 사용할 포맷터 (Hook에서 한 번만 수행)
	textFormatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if opts.CallerPathPrefix != "" {
				if cut, found := strings.CutPrefix(function, opts.CallerPathPrefix); found {
					function = "..." + cut
				}
			}
			return
		},
	}

	logDir := opts.Dir
	if logDir == "" {
		logDir = "logs"
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}

	// 기본 출력(os.Stderr)은 비활성화하고 모든 로그 처리를 Hook에 위임한다.
	// 중복 출력을 막고 파일/콘솔 분배를 한 곳에서 제어하기 위함이다.
	logrus.SetOutput(io.Discard)

	var consoleWriter io.Writer
	if opts.EnableConsoleLog {
		consoleWriter = os.Stdout
	}

	// 초기화 실패 시 이미 생성한 리소스를 롤백하기 위해 추적한다.
	var closers []io.Closer
	succeeded := false

	defer func() {
		if !succeeded {
			for _, c := range closers {
				if c != nil {
					_ = c.Close()
				}
			}
		}
	}()

	newRotatingLogger := func(suffix string) *lumberjack.Logger {
		name := opts.Name
		if suffix != "" {
			name += "." + suffix
		}
		return &lumberjack.Logger{
			Filename:   filepath.Join(logDir, fmt.Sprintf("%s.%s", name, fileExt)),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
			LocalTime:  true,
		}
	}

	mainLogger := newRotatingLogger("")
	closers = append(closers, mainLogger)

	h := &hook{
		mainWriter: mainLogger,
		formatter:  textFormatter,
	}

	if opts.EnableCriticalLog {
		criticalLogger := newRotatingLogger("critical")
		closers = append(closers, criticalLogger)
		h.criticalWriter = criticalLogger
	}

	if opts.EnableVerboseLog {
		verboseLogger := newRotatingLogger("verbose")
		closers = append(closers, verboseLogger)
		h.verboseWriter = verboseLogger
	}

	if consoleWriter != nil {
		h.consoleWriter = consoleWriter
	}

	logrus.AddHook(h)

	succeeded = true

	c := &closer{
		closers: closers,
		hook:    h,
	}

	// Fatal 로그 발생 시(os.Exit 직전) 남은 로그를 디스크에 쓰고 리소스를 해제한다.
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}
