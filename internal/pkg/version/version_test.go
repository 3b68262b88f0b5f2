package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	// init()에서 런타임 정보가 보강되어야 한다.
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
	assert.NotEmpty(t, info.Version)
}

func TestEnrichBuildInfo(t *testing.T) {
	t.Run("누락된 필드를 런타임 값으로 보강", func(t *testing.T) {
		bi := enrichBuildInfo(Info{})

		assert.Equal(t, runtime.Version(), bi.GoVersion)
		assert.NotEmpty(t, bi.Version)
		assert.NotEmpty(t, bi.Commit)
	})

	t.Run("주입된 값은 유지", func(t *testing.T) {
		bi := enrichBuildInfo(Info{
			Version: "v1.2.3",
			Commit:  "abc1234",
		})

		assert.Equal(t, "v1.2.3", bi.Version)
		assert.Equal(t, "abc1234", bi.Commit)
	})

	t.Run("VCS 메타데이터로 커밋 보강", func(t *testing.T) {
		original := readBuildInfo
		defer func() { readBuildInfo = original }()

		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "deadbeef"},
					{Key: "vcs.modified", Value: "true"},
				},
			}, true
		}

		bi := enrichBuildInfo(Info{})

		assert.Equal(t, "deadbeef", bi.Commit)
		assert.True(t, bi.DirtyBuild)
	})
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	t.Run("전체 정보 포함", func(t *testing.T) {
		info := Info{
			Version:   "v1.0.0",
			Commit:    "abcdef1234567",
			GoVersion: "go1.24.0",
			OS:        "linux",
			Arch:      "amd64",
		}

		s := info.String()

		assert.Contains(t, s, "v1.0.0")
		assert.Contains(t, s, "commit: abcdef1", "커밋 해시는 7자로 축약")
		assert.Contains(t, s, "os: linux")
	})

	t.Run("dirty 빌드 표시", func(t *testing.T) {
		info := Info{Version: "v1.0.0", DirtyBuild: true}
		assert.Contains(t, info.String(), "v1.0.0+dirty")
	})

	t.Run("빈 버전은 unknown", func(t *testing.T) {
		assert.Equal(t, "unknown", Info{}.String())
	})
}

func TestInfo_ToMap(t *testing.T) {
	t.Parallel()

	m := Info{Version: "v1.0.0", Commit: "abc"}.ToMap()

	assert.Equal(t, "v1.0.0", m["version"])
	assert.Equal(t, "abc", m["commit"])
	assert.Contains(t, m, "dirty_build")
}
