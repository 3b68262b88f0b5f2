//go:build test

package log

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"성공: 최소 설정", Options{Name: "gschool-connect"}, false},
		{"실패: Name 누락", Options{}, true},
		{"실패: 음수 MaxAge", Options{Name: "app", MaxAge: -1}, true},
		{"실패: 음수 MaxSizeMB", Options{Name: "app", MaxSizeMB: -1}, true},
		{"실패: 음수 MaxBackups", Options{Name: "app", MaxBackups: -1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("실패: 디렉토리 경로가 파일로 선점됨", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		filePath := filepath.Join(dir, "occupied")
		require.NoError(t, writeFile(filePath, "x"))

		opts := Options{Name: "app", Dir: filePath}
		assert.Error(t, opts.Validate())
	})
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	t.Run("운영 프로파일", func(t *testing.T) {
		opts := NewProductionOptions("gschool-connect")

		assert.Equal(t, InfoLevel, opts.Level)
		assert.True(t, opts.EnableCriticalLog)
		assert.True(t, opts.EnableVerboseLog)
		assert.False(t, opts.EnableConsoleLog)
		assert.NoError(t, opts.Validate())
	})

	t.Run("개발 프로파일", func(t *testing.T) {
		opts := NewDevelopmentOptions("gschool-connect")

		assert.Equal(t, TraceLevel, opts.Level)
		assert.False(t, opts.EnableCriticalLog)
		assert.True(t, opts.EnableConsoleLog)
		assert.NoError(t, opts.Validate())
	})
}
