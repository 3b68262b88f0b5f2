// Package mark 운영자 알림 메시지에 사용되는 이모지 상수를 중앙 관리합니다.
package mark

// Mark 이모지 상수를 위한 타입입니다.
type Mark string

const (
	// Announcement 공지
	Announcement Mark = "📢"

	// SceneApplied 장면 적용
	SceneApplied Mark = "🎬"

	// SceneDisabled 장면 해제
	SceneDisabled Mark = "⏹️"

	// RaiseHand 손들기
	RaiseHand Mark = "✋"

	// Alert 긴급/오류
	Alert Mark = "🚨"

	// Risk 참여도 위험
	Risk Mark = "📉"
)

// WithSpace 마크 앞에 구분용 공백을 추가하여 반환합니다.
func (m Mark) WithSpace() string {
	if m == "" {
		return ""
	}
	return " " + string(m)
}

// String 마크의 순수 이모지 값을 문자열로 반환합니다.
func (m Mark) String() string {
	return string(m)
}
