package cronx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStandardParser_스케줄_해석 기본 정리 작업 표현식들이 의도한 시각에
// 실행되도록 해석되는지 검증합니다.
func TestStandardParser_스케줄_해석(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		spec string
		want time.Time
	}{
		{
			name: "매분_실행은_다음_분_정각",
			spec: "* * * * *",
			want: time.Date(2026, 3, 2, 10, 31, 0, 0, time.UTC),
		},
		{
			name: "매일_04시20분은_다음_날_새벽",
			spec: "20 4 * * *",
			want: time.Date(2026, 3, 3, 4, 20, 0, 0, time.UTC),
		},
		{
			name: "매시_정각_Descriptor",
			spec: "@hourly",
			want: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		},
		{
			name: "평일_오전_9시",
			spec: "0 9 * * MON-FRI",
			want: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			schedule, err := StandardParser().Parse(tc.spec)
			require.NoError(t, err)

			assert.Equal(t, tc.want, schedule.Next(base))
		})
	}
}

// TestValidate_에러_메시지 거부 사유가 에러 메시지로 드러나는지 확인합니다.
func TestValidate_에러_메시지(t *testing.T) {
	t.Parallel()

	t.Run("필드_수_불일치", func(t *testing.T) {
		t.Parallel()

		err := Validate("0 */5 * * * *")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected exactly 5 fields")
	})

	t.Run("빈_표현식", func(t *testing.T) {
		t.Parallel()

		err := Validate("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty spec string")
	})
}
