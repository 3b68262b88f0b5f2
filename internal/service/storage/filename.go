package storage

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// filenameReplacer 파일명 생성 시 파일 시스템에서 문제를 일으킬 수 있는 특수문자를 안전한 문자로 치환합니다.
//
// 경로 이탈 문자(.., /, \)와 Windows 예약 문자(< > : " | ? *)를 하이픈으로 치환하여
// 파일 시스템 오류와 Path Traversal 위험을 차단합니다.
var filenameReplacer = strings.NewReplacer(
	"..", "--",
	"/", "-",
	"\\", "-",
	"|", "-",
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"?", "-",
	"*", "-",
)

// generateFilename 상태 컬렉션 이름으로 시스템에서 안전하게 사용할 수 있는 고유한 파일명을 생성합니다.
//
// 사람이 읽기 쉬운 Kebab-Case 이름과 원본 이름의 64비트 해시를 결합합니다.
// 해시는 서로 다른 이름이 정제 후 같아지는 경우와 대소문자를 구분하지 않는
// 파일 시스템(Windows)에서의 충돌을 방지합니다.
//
// 생성 패턴: "state-{정제된이름}-{16자리해시}.json"
func generateFilename(name string) string {
	// 가독성 확보: Kebab-Case로 변환 후 파일 시스템 제한을 고려해 50바이트로 자릅니다.
	readable := sanitizeName(name)
	readable = truncateByBytes(readable, 50)

	// 고유성 확보: 길이 접두사를 포함한 원본 이름의 FNV-1a 해시를 덧붙입니다.
	hasher := fnv.New64a()
	_, _ = fmt.Fprintf(hasher, "%d:%s", len(name), name)

	return fmt.Sprintf("state-%s-%016x.json", readable, hasher.Sum64())
}

// sanitizeName 파일명으로 안전하게 사용할 수 있도록 문자열을 정제합니다.
func sanitizeName(s string) string {
	kebab := strcase.ToKebab(s)

	// 제어 문자(0x00-0x1F) 및 DEL(0x7F)은 일부 파일 시스템에서 허용되지 않으므로 치환합니다.
	kebab = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '-'
		}
		return r
	}, kebab)

	return filenameReplacer.Replace(kebab)
}

// truncateByBytes 문자열을 UTF-8 바이트 길이 기준으로 안전하게 자릅니다.
//
// Rune 단위로 순회하며 limit 바이트를 초과하지 않는 지점까지만 잘라
// 멀티바이트 문자가 중간에 깨지는 것을 방지합니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	var totalBytes int
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])

		if totalBytes+size > limit {
			return s[:totalBytes]
		}

		totalBytes += size
		i += size
	}

	return s[:totalBytes]
}
