// Package urlmatch 허용/차단 목록에 사용되는 URL 매치 패턴을 처리합니다.
//
// 패턴 문법은 "<스킴>://<호스트>/<경로>" 형태이며 각 부분에 와일드카드를 허용합니다.
//
//	*://*.example.com/*   example.com과 모든 하위 도메인의 모든 경로
//	https://docs.google.com/*   특정 호스트의 모든 경로
//	*://quizlet.com/live*   경로 prefix 매칭
//
// 스킴이나 "://" 구분자가 없는 패턴은 호스트 패턴으로 해석합니다.
// 예: "*.youtube.com"은 "*://*.youtube.com/*"과 동일합니다.
package urlmatch

import (
	"fmt"
	"net/url"
	"strings"
)

// Pattern 파싱된 URL 매치 패턴입니다.
type Pattern struct {
	raw string

	scheme string // "*"이면 모든 스킴 허용
	host   string // 소문자 정규화된 호스트
	anySub bool   // "*." prefix: 하위 도메인 포함 매칭
	path   string // "/"로 시작하는 경로 패턴 ("*" 와일드카드 허용)
}

// Parse 패턴 문자열을 파싱합니다.
func Parse(pattern string) (*Pattern, error) {
	raw := strings.TrimSpace(pattern)
	if raw == "" {
		return nil, fmt.Errorf("빈 패턴은 허용되지 않습니다")
	}

	p := &Pattern{raw: raw}

	rest := raw
	if scheme, after, found := strings.Cut(rest, "://"); found {
		p.scheme = strings.ToLower(scheme)
		rest = after
	} else {
		// 스킴 생략 시 모든 스킴을 허용하는 호스트 패턴으로 해석한다.
		p.scheme = "*"
	}

	if p.scheme == "" {
		return nil, fmt.Errorf("잘못된 패턴(스킴 누락): %s", raw)
	}

	host := rest
	p.path = "/*"
	if idx := strings.Index(rest, "/"); idx != -1 {
		host = rest[:idx]
		p.path = rest[idx:]
	}

	host = strings.ToLower(host)
	if after, found := strings.CutPrefix(host, "*."); found {
		p.anySub = true
		host = after
	}
	if host == "" || host == "*" {
		return nil, fmt.Errorf("잘못된 패턴(호스트 누락): %s", raw)
	}
	if strings.Contains(host, "*") {
		return nil, fmt.Errorf("호스트 와일드카드는 \"*.\" prefix만 허용됩니다: %s", raw)
	}
	p.host = host

	return p, nil
}

// String 원본 패턴 문자열을 반환합니다.
func (p *Pattern) String() string {
	return p.raw
}

// Match 주어진 URL이 패턴과 일치하는지 검사합니다.
// 파싱할 수 없는 URL은 일치하지 않는 것으로 처리합니다.
func (p *Pattern) Match(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}

	if p.scheme != "*" && !strings.EqualFold(u.Scheme, p.scheme) {
		return false
	}

	if !p.MatchHost(u.Hostname()) {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return matchWildcard(p.path, path)
}

// MatchHost 호스트명만으로 패턴과 일치하는지 검사합니다.
// 스킴과 경로 조건은 무시합니다.
func (p *Pattern) MatchHost(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}

	if host == p.host {
		return true
	}
	if p.anySub && strings.HasSuffix(host, "."+p.host) {
		return true
	}
	return false
}

// matchWildcard "*"를 임의 문자열로 취급하는 단순 글롭 매칭입니다.
func matchWildcard(pattern, s string) bool {
	segments := strings.Split(pattern, "*")

	// 와일드카드가 없으면 정확히 일치해야 한다.
	if len(segments) == 1 {
		return pattern == s
	}

	// 첫 세그먼트는 prefix로 고정된다.
	if !strings.HasPrefix(s, segments[0]) {
		return false
	}
	s = s[len(segments[0]):]

	// 중간 세그먼트들은 순서대로 등장해야 한다.
	for _, seg := range segments[1 : len(segments)-1] {
		idx := strings.Index(s, seg)
		if idx == -1 {
			return false
		}
		s = s[idx+len(seg):]
	}

	// 마지막 세그먼트는 suffix로 고정된다.
	return strings.HasSuffix(s, segments[len(segments)-1])
}

// List 여러 패턴을 묶어 하나의 허용/차단 목록으로 다룹니다.
type List struct {
	patterns []*Pattern
}

// NewList 패턴 문자열들로 목록을 생성합니다.
// 파싱할 수 없는 패턴이 하나라도 있으면 에러를 반환합니다.
func NewList(patterns []string) (*List, error) {
	l := &List{patterns: make([]*Pattern, 0, len(patterns))}
	for _, raw := range patterns {
		p, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		l.patterns = append(l.patterns, p)
	}
	return l, nil
}

// NewListLenient 패턴 문자열들로 목록을 생성하되, 파싱할 수 없는 패턴은 건너뜁니다.
// 외부에서 수집된 목록(가져오기 파일 등)을 다룰 때 사용합니다.
func NewListLenient(patterns []string) (*List, []string) {
	l := &List{patterns: make([]*Pattern, 0, len(patterns))}
	var rejected []string
	for _, raw := range patterns {
		p, err := Parse(raw)
		if err != nil {
			rejected = append(rejected, raw)
			continue
		}
		l.patterns = append(l.patterns, p)
	}
	return l, rejected
}

// Len 목록에 포함된 패턴의 개수를 반환합니다.
func (l *List) Len() int {
	return len(l.patterns)
}

// Match 목록의 패턴 중 하나라도 URL과 일치하면 true를 반환합니다.
func (l *List) Match(rawURL string) bool {
	for _, p := range l.patterns {
		if p.Match(rawURL) {
			return true
		}
	}
	return false
}

// MatchHost 목록의 패턴 중 하나라도 호스트와 일치하면 true를 반환합니다.
func (l *List) MatchHost(host string) bool {
	for _, p := range l.patterns {
		if p.MatchHost(host) {
			return true
		}
	}
	return false
}
