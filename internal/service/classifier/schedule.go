package classifier

import (
	"strconv"
	"strings"
	"time"
)

// Schedule 카테고리 차단이 유효한 시간대입니다.
//
// 시작/종료는 "HH:MM" 형식의 분 단위 시각이며, 시작이 종료보다 늦으면
// 자정을 넘기는 시간대(예: 22:00~06:00)로 해석합니다.
// 시작과 종료가 같은 퇴화 구간은 항상 비활성입니다.
type Schedule struct {
	Enabled      bool   `json:"enabled"`
	Start        string `json:"start,omitempty"`
	End          string `json:"end,omitempty"`
	WeekdaysOnly bool   `json:"weekdays_only,omitempty"`
}

// ActiveAt 주어진 시각에 이 시간대가 유효한지 판정합니다.
func (s *Schedule) ActiveAt(t time.Time) bool {
	if s == nil || !s.Enabled {
		return false
	}

	if s.WeekdaysOnly {
		wd := t.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}

	start := parseMinuteOfDay(s.Start, 0)
	end := parseMinuteOfDay(s.End, 23*60+59)
	cur := t.Hour()*60 + t.Minute()

	if start == end {
		return false
	}

	if start < end {
		return start <= cur && cur < end
	}

	// 자정을 넘기는 구간
	return !(end <= cur && cur < start)
}

// parseMinuteOfDay "HH:MM" 문자열을 0~1439 범위의 분 단위 시각으로 변환합니다.
// 해석할 수 없으면 기본값을 반환하고, 범위를 벗어난 값은 경계로 고정합니다.
func parseMinuteOfDay(val string, fallback int) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return fallback
	}

	hourPart, minutePart, _ := strings.Cut(val, ":")

	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return fallback
	}

	minute := 0
	if minutePart != "" {
		minute, err = strconv.Atoi(strings.TrimSpace(minutePart))
		if err != nil {
			return fallback
		}
	}

	hour = min(max(hour, 0), 23)
	minute = min(max(minute, 0), 59)

	return hour*60 + minute
}
