// Package scene 수업 장면(접속 허용/차단 사이트 프리셋)의 정의와 적용 상태를 관리합니다.
package scene

import (
	"strings"
	"time"

	"github.com/gdistrict/gschool-connect/pkg/urlmatch"
)

// Type 장면의 적용 방식을 나타냅니다.
type Type string

const (
	// TypeAllowed 장면 적용 시 허용 목록의 패턴만 접속을 허용합니다. (집중 모드 강제)
	TypeAllowed Type = "allowed"

	// TypeBlocked 장면 적용 시 차단 목록의 패턴에 해당하는 접속을 차단합니다.
	TypeBlocked Type = "blocked"
)

// Valid 유효한 Type 값인지 여부를 반환합니다.
func (t Type) Valid() bool {
	return t == TypeAllowed || t == TypeBlocked
}

// Scene 교사가 수업 상황에 맞춰 일괄 적용하는 사이트 접속 프리셋입니다.
type Scene struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type"`

	// Allow 허용 URL 패턴 목록입니다. (예: "*://*.khanacademy.org/*")
	Allow []string `json:"allow"`

	// Block 차단 URL 패턴 목록입니다.
	Block []string `json:"block"`

	// Icon 대시보드에 표시할 아이콘 식별자입니다. (선택)
	Icon string `json:"icon,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Definition 장면 생성/수정 요청에 사용되는 입력 값입니다.
type Definition struct {
	Name  string   `json:"name"`
	Type  Type     `json:"type"`
	Allow []string `json:"allow"`
	Block []string `json:"block"`
	Icon  string   `json:"icon"`
}

// clone 외부로 반환하기 위한 복사본을 생성합니다.
// 내부 상태가 호출자에 의해 변경되는 것을 방지합니다.
func (s *Scene) clone() *Scene {
	if s == nil {
		return nil
	}

	c := *s
	c.Allow = append([]string(nil), s.Allow...)
	c.Block = append([]string(nil), s.Block...)

	return &c
}

// normalize 이름/아이콘의 앞뒤 공백을 제거하고 빈 패턴을 걸러냅니다.
func (s *Scene) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Icon = strings.TrimSpace(s.Icon)
	s.Allow = normalizePatterns(s.Allow)
	s.Block = normalizePatterns(s.Block)
}

func normalizePatterns(patterns []string) []string {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	return normalized
}

// validate 장면 정의의 정합성을 검증합니다.
func (s *Scene) validate() error {
	if s.Name == "" {
		return ErrSceneNameRequired
	}
	if !s.Type.Valid() {
		return NewErrInvalidType(string(s.Type))
	}

	// 모든 패턴이 해석 가능한지 검증합니다. 하나라도 잘못되면 장면 전체를 거부합니다.
	if _, err := urlmatch.NewList(s.Allow); err != nil {
		return NewErrInvalidPattern(err)
	}
	if _, err := urlmatch.NewList(s.Block); err != nil {
		return NewErrInvalidPattern(err)
	}

	return nil
}
