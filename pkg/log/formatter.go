package log

import "github.com/sirupsen/logrus"

// silentFormatter 아무런 포맷팅도 수행하지 않는 포맷터입니다.
// Logrus는 출력이 io.Discard여도 포맷팅 연산을 수행하므로 그 비용을 없애기 위해 사용합니다.
// 실제 포맷팅은 Hook 내부에서 한 번만 수행됩니다.
type silentFormatter struct{}

// Format 항상 nil을 반환합니다.
func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
