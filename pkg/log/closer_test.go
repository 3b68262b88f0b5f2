//go:build test

package log

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCloser io.Closer의 mock 구현체입니다.
type MockCloser struct {
	mock.Mock
}

func (m *MockCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSyncCloser Sync()를 함께 지원하는 mock 구현체입니다.
type MockSyncCloser struct {
	MockCloser
}

func (m *MockSyncCloser) Sync() error {
	args := m.Called()
	return args.Error(0)
}

func TestCloser_Close(t *testing.T) {
	t.Run("성공: 모든 리소스가 정상적으로 닫힘", func(t *testing.T) {
		m1 := new(MockCloser)
		m2 := new(MockCloser)
		h := &hook{}

		m1.On("Close").Return(nil)
		m2.On("Close").Return(nil)

		c := &closer{
			closers: []io.Closer{m1, m2},
			hook:    h,
		}

		err := c.Close()

		assert.NoError(t, err)
		assert.True(t, h.closed, "hook이 먼저 닫혀야 함")
		m1.AssertExpectations(t)
		m2.AssertExpectations(t)
	})

	t.Run("실패: 일부 닫기 실패 시에도 나머지는 시도함", func(t *testing.T) {
		m1 := new(MockCloser)
		m2 := new(MockCloser)
		m3 := new(MockCloser)

		errFail := errors.New("fail to close")

		m1.On("Close").Return(nil)
		m2.On("Close").Return(errFail)
		m3.On("Close").Return(nil)

		c := &closer{
			closers: []io.Closer{m1, m2, m3},
		}

		err := c.Close()

		require.Error(t, err)
		assert.ErrorIs(t, err, errFail)

		m1.AssertExpectations(t)
		m2.AssertExpectations(t)
		m3.AssertExpectations(t)
	})

	t.Run("중복 호출: 두 번째 호출부터는 즉시 nil 반환", func(t *testing.T) {
		m1 := new(MockCloser)
		m1.On("Close").Return(nil).Once()

		c := &closer{
			closers: []io.Closer{m1},
		}

		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())

		m1.AssertExpectations(t)
	})
}

func TestCloser_Sync(t *testing.T) {
	t.Run("Sync 지원 시 Close 전에 호출됨", func(t *testing.T) {
		ms := new(MockSyncCloser)
		ms.On("Sync").Return(nil).Once()
		ms.On("Close").Return(nil).Once()

		c := &closer{
			closers: []io.Closer{ms},
		}

		assert.NoError(t, c.Close())
		ms.AssertExpectations(t)
	})

	t.Run("Sync 실패는 무시하고 Close 진행", func(t *testing.T) {
		ms := new(MockSyncCloser)
		ms.On("Sync").Return(errors.New("sync failed")).Once()
		ms.On("Close").Return(nil).Once()

		c := &closer{
			closers: []io.Closer{ms},
		}

		assert.NoError(t, c.Close())
		ms.AssertExpectations(t)
	})
}

func TestCloser_NilSafe(t *testing.T) {
	t.Run("nil 요소가 있어도 패닉 없이 동작", func(t *testing.T) {
		m1 := new(MockCloser)
		m1.On("Close").Return(nil)

		c := &closer{
			closers: []io.Closer{nil, m1, nil},
			hook:    nil,
		}

		assert.NoError(t, c.Close())
		m1.AssertExpectations(t)
	})
}
