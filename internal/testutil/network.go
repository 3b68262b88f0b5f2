// Package testutil 통합 테스트에서 실제 네트워크 리소스를 다루기 위한 도우미를 제공합니다.
package testutil

import (
	"fmt"
	"net"
	"time"
)

// GetFreePort 테스트용으로 사용 가능한 임의의 TCP 포트를 반환합니다.
// 반환 직후 다른 프로세스가 선점할 수 있으므로 테스트 전용으로만 사용해야 합니다.
func GetFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// WaitForServer 대시보드 API 서버가 해당 포트에서 리스닝할 때까지 폴링합니다.
// TLS 여부와 무관하게 TCP 연결 수립만 확인합니다.
func WaitForServer(port int, timeout time.Duration) error {
	addr := fmt.Sprintf("localhost:%d", port)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	return fmt.Errorf("서버가 %v 내에 포트 %d에서 시작되지 않았습니다", timeout, port)
}
