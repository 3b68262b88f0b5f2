package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 이벤트를 여러 Writer로 라우팅하는 Hook 구현체입니다.
//
// 단일 로그 이벤트는 중요도에 따라 다음과 같이 분배됩니다.
//   - Error 이상: Critical + Main
//   - Info/Warn: Main
//   - Debug 이하: Verbose만 (운영 로그 오염 방지)
//   - Console: 설정된 경우 모든 레벨
type hook struct {
	mainWriter     io.Writer // 운영 이력 기록 채널 (INFO 이상)
	criticalWriter io.Writer // 장애 격리 채널 (ERROR 이상)
	verboseWriter  io.Writer // 디버깅 채널 (DEBUG 이하)
	consoleWriter  io.Writer // 표준 출력 (모든 레벨)

	formatter Formatter

	mu sync.RWMutex // 로그 기록(RLock)과 종료(Lock) 간의 동시성 제어

	closed bool // true이면 모든 기록 요청을 거부
}

// Levels 이 Hook이 수신할 로그 레벨의 집합을 반환합니다.
func (h *hook) Levels() []Level {
	return AllLevels
}

// Fire 수신한 로그 이벤트를 레벨별 라우팅 정책에 따라 각 Writer에 기록합니다.
func (h *hook) Fire(entry *Entry) error {
	// RLock으로 동시 로깅을 허용하면서, 기록 도중 Close되지 않도록 보호한다.
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	// 포맷팅은 한 번만 수행하고 모든 Writer가 공유한다.
	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error

	// 콘솔 출력 실패는 전체 로깅 가용성에 영향을 주지 않도록 에러를 전파하지 않는다.
	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 콘솔 출력 쓰기 실패: %v\n", err)
		}
	}

	// Critical 기록이 실패하더라도 메인 기록은 반드시 시도해야 하므로 에러 반환을 유예한다.
	if entry.Level <= ErrorLevel {
		if h.criticalWriter != nil {
			if _, err := h.criticalWriter.Write(msg); err != nil {
				firstErr = err

				fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Critical 로그 쓰기 실패 (데이터 유실 위험): %v\n", err)
			}
		}
	}

	// Debug 이하 로그는 Verbose 파일에만 남기고 여기서 종료한다.
	// Main 채널로 내려가지 않아야 운영 로그가 상세 로그에 묻히지 않는다.
	if entry.Level >= DebugLevel {
		if h.verboseWriter != nil {
			if _, err := h.verboseWriter.Write(msg); err != nil {
				if firstErr == nil {
					firstErr = err
				}

				fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] Verbose 로그 쓰기 실패: %v\n", err)
			}
		}

		return firstErr
	}

	// 메인 기록: Critical 성공 여부와 무관하게 항상 시도한다.
	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}

			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Main 로그 쓰기 실패 (운영 기록 유실 위험): %v\n", err)
		}
	}

	return firstErr
}

// Close Hook을 종료 상태로 전환하여 이후의 모든 기록 요청을 차단합니다.
func (h *hook) Close() error {
	// Lock 획득 시점에 진행 중이던 모든 Fire(RLock)가 끝났음이 보장된다.
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
