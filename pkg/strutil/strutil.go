// Package strutil 문자열 처리 유틸리티 함수들을 제공합니다.
package strutil

import (
	"html"
	"regexp"
	"strings"
)

// HTML 태그 제거용 정규식
// < 다음에 영문자가 오는 경우만 태그로 인식하여 수학 기호(<)의 오탐지를 방지합니다.
// 예: "3 < 5"는 유지되고 "<br>"은 제거됩니다.
var htmlTagRegexp = regexp.MustCompile(`</?([a-zA-Z]+)[^>]*>`)

// NormalizeSpaces 앞뒤 공백을 제거하고 연속된 공백을 하나로 축약합니다.
// 예: "  hello   world  " -> "hello world"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

// SplitAndTrim 구분자로 문자열을 분리한 뒤 각 항목의 앞뒤 공백을 제거하고
// 빈 항목을 제외한 슬라이스를 반환합니다. 결과가 없으면 nil을 반환합니다.
// 예: "a, , b,c" (구분자 ",") -> ["a", "b", "c"]
func SplitAndTrim(s, sep string) []string {
	tokens := strings.Split(s, sep)
	if len(tokens) == 0 {
		return nil
	}

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			result = append(result, token)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// Truncate 문자열을 최대 maxLen 룬(rune) 길이로 자릅니다.
// 잘린 경우 말줄임표(…)를 덧붙입니다.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	return string(runes[:maxLen]) + "…"
}

// StripHTMLTags HTML 태그를 제거하고 HTML 엔티티를 디코딩하여 순수 텍스트를 반환합니다.
// 예: "<b>Hello</b> &amp; World" -> "Hello & World"
func StripHTMLTags(s string) string {
	stripped := htmlTagRegexp.ReplaceAllString(s, "")
	return html.UnescapeString(stripped)
}

// ContainsFold 문자열 s가 substr을 대소문자 구분 없이 포함하는지 검사합니다.
//
// strings.ToLower(s)는 호출마다 전체 문자열 복사본을 힙에 할당하므로,
// 원본을 순회하며 부분 슬라이스를 strings.EqualFold로 비교하는 방식을 사용합니다.
//
// 이 방식은 대소문자 변환 시 바이트 길이가 유지된다는 가정에 의존합니다.
// ASCII, 한글 등 대부분의 입력에서는 정확하지만 터키어(İ/i) 같은
// 특수 케이스에서는 부정확할 수 있습니다.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	if len(s) < len(substr) {
		return false
	}

	// range 순회로 룬 경계 인덱스에서만 비교한다.
	for i := range s {
		if i+len(substr) > len(s) {
			break
		}
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}
