// Package service 애플리케이션을 구성하는 장기 실행 서비스의 공통 생명주기를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션 시작 시 기동되고 종료 시그널에 맞춰 정리되는 장기 실행 서비스입니다.
//
// 구현체는 Start 호출 시 즉시 반환하고 실제 작업은 고루틴에서 수행해야 하며,
// serviceStopCtx가 취소되면 리소스를 정리한 후 serviceStopWG.Done()을 호출해야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
