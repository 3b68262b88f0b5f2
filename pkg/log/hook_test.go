//go:build test

package log

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failWriter 항상 에러를 반환하는 Writer입니다.
type failWriter struct {
	err error
}

func (w *failWriter) Write(p []byte) (n int, err error) {
	return 0, w.err
}

// safeBuffer 동시 Fire 호출을 허용하는 hook 특성상 Writer도 thread-safe해야 합니다.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *safeBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func newTestHook() (*hook, *safeBuffer, *safeBuffer, *safeBuffer, *safeBuffer) {
	mainBuf := &safeBuffer{}
	critBuf := &safeBuffer{}
	verbBuf := &safeBuffer{}
	consBuf := &safeBuffer{}

	h := &hook{
		mainWriter:     mainBuf,
		criticalWriter: critBuf,
		verboseWriter:  verbBuf,
		consoleWriter:  consBuf,
		formatter:      &TextFormatter{DisableTimestamp: true},
	}
	return h, mainBuf, critBuf, verbBuf, consBuf
}

func TestHook_Levels(t *testing.T) {
	h := &hook{}
	assert.Equal(t, AllLevels, h.Levels())
}

func TestHook_Fire_레벨별_라우팅(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		level      Level
		expectMain bool
		expectCrit bool
		expectVerb bool
	}{
		{"Panic은 Critical과 Main에 기록", PanicLevel, true, true, false},
		{"Fatal은 Critical과 Main에 기록", FatalLevel, true, true, false},
		{"Error는 Critical과 Main에 기록", ErrorLevel, true, true, false},
		{"Warn은 Main에만 기록", WarnLevel, true, false, false},
		{"Info는 Main에만 기록", InfoLevel, true, false, false},
		{"Debug는 Verbose에만 기록", DebugLevel, false, false, true},
		{"Trace는 Verbose에만 기록", TraceLevel, false, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, main, crit, verb, cons := newTestHook()

			err := h.Fire(&Entry{Level: tc.level, Message: "test message"})
			require.NoError(t, err)

			check := func(buf *safeBuffer, expected bool, name string) {
				if expected {
					assert.Contains(t, buf.String(), "test message", "%s에 기록되어야 함", name)
				} else {
					assert.Empty(t, buf.String(), "%s는 비어 있어야 함", name)
				}
			}

			check(main, tc.expectMain, "MainWriter")
			check(crit, tc.expectCrit, "CriticalWriter")
			check(verb, tc.expectVerb, "VerboseWriter")

			// 콘솔은 레벨 필터링 없이 항상 기록된다.
			assert.Contains(t, cons.String(), "test message")
		})
	}
}

func TestHook_Fire_장애_격리(t *testing.T) {
	t.Parallel()

	t.Run("Critical Writer 실패 시에도 Main은 기록되어야 함", func(t *testing.T) {
		expectedErr := errors.New("disk full")
		h, main, _, _, _ := newTestHook()
		h.criticalWriter = &failWriter{err: expectedErr}

		err := h.Fire(&Entry{Level: ErrorLevel, Message: "critical failure"})

		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, main.String(), "critical failure")
	})

	t.Run("Verbose Writer 실패 시에도 Main은 오염되지 않음", func(t *testing.T) {
		expectedErr := errors.New("disk full")
		h, main, _, _, _ := newTestHook()
		h.verboseWriter = &failWriter{err: expectedErr}

		err := h.Fire(&Entry{Level: DebugLevel, Message: "verbose failure"})

		assert.ErrorIs(t, err, expectedErr)
		assert.Empty(t, main.String())
	})

	t.Run("콘솔 쓰기 실패는 무시됨", func(t *testing.T) {
		h, main, _, _, _ := newTestHook()
		h.consoleWriter = &failWriter{err: errors.New("stdout closed")}

		err := h.Fire(&Entry{Level: InfoLevel, Message: "console failure"})

		assert.NoError(t, err)
		assert.Contains(t, main.String(), "console failure")
	})
}

func TestHook_Close_이후_기록_차단(t *testing.T) {
	t.Parallel()

	h, main, _, _, _ := newTestHook()

	require.NoError(t, h.Fire(&Entry{Level: InfoLevel, Message: "alive"}))
	require.Contains(t, main.String(), "alive")
	main.Reset()

	require.NoError(t, h.Close())

	require.NoError(t, h.Fire(&Entry{Level: InfoLevel, Message: "dead"}))
	assert.Empty(t, main.String(), "Close 이후 로그는 무시되어야 함")
}

func TestHook_동시성(t *testing.T) {
	t.Parallel()

	h, _, _, _, _ := newTestHook()

	const goroutines = 50

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(goroutines + 1)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 100; j++ {
				_ = h.Fire(&Entry{Level: InfoLevel, Message: "stress"})
			}
		}()
	}

	go func() {
		defer wg.Done()
		<-start
		_ = h.Close()
	}()

	close(start)
	wg.Wait()
}
