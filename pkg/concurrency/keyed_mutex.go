// Package concurrency 동시성 제어 유틸리티를 제공합니다.
package concurrency

import (
	"sync"
)

// KeyedMutex 키 단위로 독립적인 Mutex를 제공합니다.
// 서로 다른 키에 대한 작업은 병렬로 진행되며,
// 참조 카운트로 더 이상 사용되지 않는 Mutex를 즉시 정리합니다.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
	pool  sync.Pool
}

type entry struct {
	mu       sync.Mutex
	refCount int
}

// NewKeyedMutex 새로운 KeyedMutex를 생성합니다.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*entry),
		pool: sync.Pool{
			New: func() interface{} {
				return &entry{}
			},
		},
	}
}

// Len 현재 활성화된(잠겨 있거나 대기 중인) 키의 개수를 반환합니다.
func (km *KeyedMutex) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.locks)
}

// Lock 지정된 키의 락을 획득합니다.
func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	e, ok := km.locks[key]
	if !ok {
		e = km.pool.Get().(*entry)
		e.refCount = 1
		km.locks[key] = e
	} else {
		e.refCount++
	}
	km.mu.Unlock()

	e.mu.Lock()
}

// TryLock 지정된 키의 락 획득을 시도합니다.
// 다른 고루틴이 이미 소유하고 있으면 대기하지 않고 false를 반환합니다.
// true를 반환받은 경우에만 Unlock을 호출해야 합니다.
func (km *KeyedMutex) TryLock(key string) bool {
	km.mu.Lock()
	e, ok := km.locks[key]
	if !ok {
		e = km.pool.Get().(*entry)
		e.refCount = 1
		km.locks[key] = e
		km.mu.Unlock()

		// 새로 만든 Mutex이므로 항상 성공한다.
		e.mu.Lock()
		return true
	}

	if e.mu.TryLock() {
		e.refCount++
		km.mu.Unlock()
		return true
	}

	km.mu.Unlock()
	return false
}

// WithLock 지정된 키의 락을 획득한 상태에서 fn을 실행하고, 완료 후 락을 해제합니다.
// fn에서 패닉이 발생해도 락은 해제됩니다.
func (km *KeyedMutex) WithLock(key string, fn func() error) error {
	km.Lock(key)
	defer km.Unlock(key)

	return fn()
}

// Unlock 지정된 키의 락을 해제합니다.
// 잠기지 않은 키에 대해 호출하면 패닉이 발생합니다.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	defer km.mu.Unlock()

	e, ok := km.locks[key]
	if !ok {
		panic("잠기지 않은 KeyedMutex의 잠금 해제 시도")
	}

	e.mu.Unlock()

	e.refCount--
	if e.refCount <= 0 {
		delete(km.locks, key)
		km.pool.Put(e)
	}
}
