// Package storage 서비스 상태 스냅샷을 파일 시스템에 보관하는 저장소 구현을 제공합니다.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/gdistrict/gschool-connect/internal/service/contract"
	"github.com/gdistrict/gschool-connect/pkg/concurrency"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/tidwall/gjson"
)

// component Storage 로깅용 컴포넌트 이름
const component = "storage"

// defaultDataDirectory 상태 스냅샷을 저장할 기본 디렉토리 이름입니다.
const defaultDataDirectory = "data"

// tempFilePattern 임시 파일 저장 시 사용되는 임시 파일의 이름 패턴입니다.
const tempFilePattern = "state-*.tmp"

// fileStateStore 파일 시스템을 기반으로 상태 스냅샷을 저장하는 저장소 구현체입니다.
//
// [파일 구조]
//   - state-{name}-{hash}.json: 상태 스냅샷이 JSON 형식으로 저장됩니다.
//   - state-*.tmp: 파일 저장 중 생성되는 임시 파일입니다.
//   - *.corrupt-{timestamp}: 손상이 감지되어 격리된 파일입니다.
type fileStateStore struct {
	baseDir string

	// locks 동일한 파일에 대한 동시 읽기/쓰기를 방지하기 위한 파일별 뮤텍스입니다.
	locks *concurrency.KeyedMutex
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ contract.StateStore = (*fileStateStore)(nil)

// NewFileStateStore 파일 시스템 기반의 상태 저장소를 생성합니다.
//
// 초기화 과정에서 저장 디렉토리를 생성하고, 이전 실행에서 남은 임시 파일을 정리합니다.
// dir에 빈 문자열("")을 전달하면 기본 디렉토리("data")를 사용하며,
// 상대 경로는 절대 경로로 자동 변환됩니다.
func NewFileStateStore(dir string) (contract.StateStore, error) {
	if dir == "" {
		dir = defaultDataDirectory
	}

	// 이후 모든 파일 작업의 기준이 되는 절대 경로로 변환합니다.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, NewErrAbsPathConversionFailed(err)
	}

	// 초기화 시점에 디렉토리 생성 및 접근 권한을 미리 확인하여
	// Save 시점에 발생할 수 있는 에러를 조기에 발견합니다.
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, NewErrDirectoryAccessFailed(err, absDir)
	}

	s := &fileStateStore{
		baseDir: absDir,

		locks: concurrency.NewKeyedMutex(),
	}

	// 이전 실행에서 남은 오래된 임시 파일을 백그라운드에서 정리합니다.
	// 서버 시작 속도에 영향을 주지 않도록 비동기로 수행하며, 패닉이 전파되지 않도록 복구합니다.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"baseDir": s.baseDir,
					"panic":   r,
				}).Error("임시 파일 정리 중단: 백그라운드 작업 패닉 발생")
			}
		}()

		s.cleanupStaleTempFiles()
	}()

	return s, nil
}

// cleanupStaleTempFiles 이전 실행(크래시, 강제 종료 등)에서 남겨진 오래된 임시 파일을 정리합니다.
func (s *fileStateStore) cleanupStaleTempFiles() {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"dir":   s.baseDir,
			"error": err,
		}).Warn("임시 파일 정리 중단: 디렉토리 조회 실패")

		return
	}

	// 최근 1시간 이내에 수정된 파일은 사용 중일 수 있으므로 보호합니다.
	threshold := time.Now().Add(-1 * time.Hour)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		matched, _ := filepath.Match(tempFilePattern, name)
		if !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(s.baseDir, name)
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패: 파일 제거 오류")
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"file": fullPath,
			}).Info("임시 파일 삭제 완료: 이전 실행 잔존 파일 정리")
		}
	}
}

// Load 저장된 상태 스냅샷을 파일에서 읽어옵니다.
//
// [동시성 제어]
// 읽기 작업에도 Lock을 적용하여 쓰기 중인 파일을 읽는 것을 방지합니다.
// Lock 보유 시간을 최소화하기 위해 파일 읽기(I/O)만 Lock 내부에서 수행하고
// JSON 역직렬화(CPU)는 Lock 외부에서 수행합니다.
//
// [손상 복구]
// 파일 내용이 유효한 JSON이 아닌 경우(비정상 종료로 인한 부분 쓰기 등)
// 해당 파일을 격리(.corrupt-{timestamp})한 후 ErrStateNotFound를 반환하여
// 호출자가 초기 상태에서 다시 시작할 수 있도록 합니다.
func (s *fileStateStore) Load(name string, v any) error {
	if name == "" {
		return ErrEmptyStateName
	}

	// v가 nil이 아닌 포인터인지 검증하여 잘못된 호출을 즉시 차단합니다.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrLoadRequiresPointer
	}

	filename, err := s.resolveSafePath(name)
	if err != nil {
		return err
	}

	// 대소문자를 구분하지 않는 파일 시스템을 위해 Lock 키는 소문자로 정규화합니다.
	lockKey := strings.ToLower(filename)

	var data []byte
	err = s.locks.WithLock(lockKey, func() error {
		var readErr error
		data, readErr = os.ReadFile(filename)
		if readErr != nil {
			// 파일이 아직 생성되지 않은 경우 (첫 실행 등)
			if os.IsNotExist(readErr) {
				return contract.ErrStateNotFound
			}

			return NewErrStateReadFailed(readErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// JSON 유효성 사전 검사: 손상된 파일은 격리 후 초기 상태로 재시작하도록 합니다.
	if !gjson.ValidBytes(data) {
		s.quarantineCorruptFile(name, filename, lockKey)
		return contract.ErrStateNotFound
	}

	if err := json.Unmarshal(data, v); err != nil {
		return NewErrJSONUnmarshalFailed(err)
	}

	return nil
}

// quarantineCorruptFile 손상된 상태 파일을 삭제하지 않고 별도 이름으로 격리합니다.
// 원본 데이터를 보존하여 수동 복구 가능성을 남겨둡니다.
func (s *fileStateStore) quarantineCorruptFile(name, filename, lockKey string) {
	quarantinePath := fmt.Sprintf("%s.corrupt-%s", filename, time.Now().Format("20060102T150405"))

	err := s.locks.WithLock(lockKey, func() error {
		return os.Rename(filename, quarantinePath)
	})

	fields := applog.Fields{
		"name":       name,
		"file":       filename,
		"quarantine": quarantinePath,
	}
	if err != nil {
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Error("상태 파일 격리 실패: 손상된 파일을 이동할 수 없습니다")
		return
	}

	applog.WithComponentAndFields(component, fields).Warn("상태 파일 격리 완료: 손상된 JSON이 감지되어 초기 상태로 재시작합니다")
}

// Save 상태 스냅샷을 파일에 저장합니다.
//
// [저장 전략: 원자적 쓰기]
// 저장 중 시스템 장애(전원 차단, 프로세스 종료)가 발생해도 데이터 무결성을 보장하기 위해
// "임시 파일 쓰기 → 디스크 동기화(fsync) → 원자적 이름 변경(rename)" 전략을 사용합니다.
//
// [동시성 제어]
// 같은 파일에 대한 동시 쓰기를 방지하기 위해 파일별 뮤텍스(KeyedMutex)를 사용합니다.
func (s *fileStateStore) Save(name string, v any) error {
	if name == "" {
		return ErrEmptyStateName
	}

	filename, err := s.resolveSafePath(name)
	if err != nil {
		return err
	}

	// JSON 직렬화는 Lock 획득 전에 수행하여 Lock 보유 시간을 최소화합니다.
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return NewErrJSONMarshalFailed(err)
	}

	return s.locks.WithLock(strings.ToLower(filename), func() error {
		return s.writeAtomic(filename, data)
	})
}

// resolveSafePath 컬렉션 이름으로 안전하게 검증된 파일 경로를 생성합니다.
//
// 생성된 경로가 기본 디렉토리를 벗어나지 않는지 filepath.Rel 기반으로 엄격하게 검증하여
// Path Traversal 공격을 방어합니다.
func (s *fileStateStore) resolveSafePath(name string) (string, error) {
	filename := generateFilename(name)

	fullPath := filepath.Join(s.baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	// 기본 디렉토리 기준 상대 경로가 ".."으로 시작하면 상위 디렉토리로 이탈한 것입니다.
	rel, err := filepath.Rel(s.baseDir, cleanPath)
	if err != nil {
		return "", NewErrPathResolutionFailed(err)
	}

	if strings.HasPrefix(rel, "..") {
		applog.WithComponentAndFields(component, applog.Fields{
			"name":     name,
			"filename": filename,
			"base_dir": s.baseDir,
			"path":     cleanPath,
			"rel_path": rel,
		}).Error("파일 경로 생성 차단: 경로 이탈 시도 감지")

		return "", ErrPathTraversalDetected
	}

	return cleanPath, nil
}

// writeAtomic 데이터를 파일에 원자적으로 저장합니다.
//
// 1. 같은 디렉토리 내에 임시 파일 생성 및 쓰기 (크로스 파일시스템 rename 방지)
// 2. fsync로 물리적 디스크 기록 보장
// 3. 원자적 이름 변경으로 최종 파일 교체
// 4. 부모 디렉토리 fsync로 이름 변경 사항까지 기록 (실패는 무시)
func (s *fileStateStore) writeAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return NewErrDirectoryCreationFailed(err)
	}

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return NewErrTempFileCreationFailed(err)
	}
	tmpPath := tmpFile.Name()

	// Windows에서는 열려 있는 파일을 삭제할 수 없으므로 Close가 Remove보다 먼저 실행되어야 합니다.
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return NewErrFileWriteFailed(err)
	}

	// 운영체제 버퍼 캐시에만 있는 상태에서 전원이 차단되는 것을 방지합니다.
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return NewErrFileSyncFailed(err)
	}

	// Windows에서는 파일이 열려 있으면 rename이 실패하므로 반드시 닫아야 합니다.
	if err := tmpFile.Close(); err != nil {
		return NewErrFileCloseFailed(err)
	}

	if err := s.renameWithRetry(tmpPath, filename); err != nil {
		return NewErrFileRenameFailed(err)
	}

	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		dirFile.Close()
	}

	return nil
}

// renameWithRetry 파일 이름 변경을 재시도 로직과 함께 수행합니다.
//
// Windows 환경에서는 바이러스 백신, 검색 인덱서 등이 파일을 일시적으로 잠글 수 있으므로
// 짧은 대기 후 재시도하여 일시적인 잠금 문제를 우회합니다.
func (s *fileStateStore) renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 5
	const retryDelay = 10 * time.Millisecond

	var lastErr error
	for range maxRetries {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}

		lastErr = err
		time.Sleep(retryDelay)
	}

	return lastErr
}
