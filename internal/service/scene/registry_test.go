package scene

import (
	"testing"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/gdistrict/gschool-connect/internal/service/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRegistry 임시 디렉토리 기반의 파일 저장소를 사용하는 레지스트리를 생성합니다.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	store, err := storage.NewFileStateStore(t.TempDir())
	require.NoError(t, err)

	r, err := NewRegistry(store)
	require.NoError(t, err)

	return r
}

func TestRegistry_Create(t *testing.T) {
	t.Parallel()

	t.Run("성공: 장면 등록", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		s, err := r.Create(Definition{
			Name:  "수학 시간",
			Type:  TypeAllowed,
			Allow: []string{"*://*.khanacademy.org/*", "*.desmos.com"},
			Icon:  "calculator",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "수학 시간", s.Name)
		assert.Equal(t, TypeAllowed, s.Type)
		assert.Equal(t, "calculator", s.Icon)
		assert.Len(t, r.List(), 1)
	})

	t.Run("실패: 이름 누락", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		_, err := r.Create(Definition{Name: "  ", Type: TypeAllowed})
		assert.ErrorIs(t, err, ErrSceneNameRequired)
	})

	t.Run("실패: 잘못된 Type", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		_, err := r.Create(Definition{Name: "시험 모드", Type: Type("focus")})
		require.Error(t, err)
		assert.Equal(t, apperrors.InvalidInput, apperrors.UnderlyingType(err))
	})

	t.Run("실패: 해석 불가 패턴", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		_, err := r.Create(Definition{
			Name:  "시험 모드",
			Type:  TypeBlocked,
			Block: []string{"*://*/path-only"},
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.InvalidInput, apperrors.UnderlyingType(err))
	})

	t.Run("실패: 같은 Type 내 이름 중복", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		_, err := r.Create(Definition{Name: "수학 시간", Type: TypeAllowed, Allow: []string{"*.desmos.com"}})
		require.NoError(t, err)

		_, err = r.Create(Definition{Name: "수학 시간", Type: TypeAllowed, Allow: []string{"*.geogebra.org"}})
		require.Error(t, err)
		assert.Equal(t, apperrors.Conflict, apperrors.UnderlyingType(err))

		// 다른 Type이면 같은 이름도 허용된다.
		_, err = r.Create(Definition{Name: "수학 시간", Type: TypeBlocked, Block: []string{"*.youtube.com"}})
		assert.NoError(t, err)
	})
}

func TestRegistry_ApplyAndDisable(t *testing.T) {
	t.Parallel()

	t.Run("장면 적용과 해제", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		s, err := r.Create(Definition{Name: "시험 모드", Type: TypeBlocked, Block: []string{"*.youtube.com"}})
		require.NoError(t, err)

		applied, err := r.Apply(s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, applied.ID)

		active := r.Active()
		require.NotNil(t, active)
		assert.Equal(t, s.ID, active.ID)

		wasActive, err := r.Disable()
		require.NoError(t, err)
		assert.True(t, wasActive)
		assert.Nil(t, r.Active())

		// 해제 상태에서의 재해제는 멱등적으로 동작한다.
		wasActive, err = r.Disable()
		require.NoError(t, err)
		assert.False(t, wasActive)
	})

	t.Run("실패: 존재하지 않는 장면 적용", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		_, err := r.Apply("no-such-scene")
		assert.ErrorIs(t, err, ErrSceneNotFound)
	})

	t.Run("실패: 빈 장면 ID", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		_, err := r.Apply("")
		assert.ErrorIs(t, err, ErrSceneIDRequired)
	})
}

func TestRegistry_변경_콜백(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)

	var calls int
	r.SetChangeListener(func() { calls++ })

	s, err := r.Create(Definition{Name: "시험 모드", Type: TypeBlocked, Block: []string{"*.youtube.com"}})
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "등록만으로는 정책이 바뀌지 않는다")

	_, err = r.Apply(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = r.Disable()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// 적용 중이지 않은 상태의 해제도 학생 측 재조회를 위해 콜백을 호출한다.
	wasActive, err := r.Disable()
	require.NoError(t, err)
	assert.False(t, wasActive)
	assert.Equal(t, 3, calls)
}

func TestRegistry_Delete(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)

	s, err := r.Create(Definition{Name: "시험 모드", Type: TypeBlocked, Block: []string{"*.youtube.com"}})
	require.NoError(t, err)

	_, err = r.Apply(s.ID)
	require.NoError(t, err)

	// 적용 중인 장면을 삭제하면 적용 상태도 함께 해제된다.
	require.NoError(t, r.Delete(s.ID))
	assert.Nil(t, r.Active())
	assert.Empty(t, r.List())

	assert.ErrorIs(t, r.Delete(s.ID), ErrSceneNotFound)
}

func TestRegistry_Update(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)

	s, err := r.Create(Definition{Name: "수학 시간", Type: TypeAllowed, Allow: []string{"*.desmos.com"}})
	require.NoError(t, err)

	updated, err := r.Update(s.ID, Definition{
		Name:  "수학 심화",
		Type:  TypeAllowed,
		Allow: []string{"*.desmos.com", "*.geogebra.org"},
	})
	require.NoError(t, err)

	assert.Equal(t, s.ID, updated.ID)
	assert.Equal(t, "수학 심화", updated.Name)
	assert.Len(t, updated.Allow, 2)
	assert.Equal(t, s.CreatedAt, updated.CreatedAt)

	_, err = r.Update("no-such-scene", Definition{Name: "이름", Type: TypeAllowed})
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

func TestRegistry_Clear(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)

	s, err := r.Create(Definition{Name: "수학 시간", Type: TypeAllowed, Allow: []string{"*.desmos.com"}})
	require.NoError(t, err)
	_, err = r.Create(Definition{Name: "시험 모드", Type: TypeBlocked, Block: []string{"*.youtube.com"}})
	require.NoError(t, err)

	_, err = r.Apply(s.ID)
	require.NoError(t, err)

	removed, err := r.Clear()
	require.NoError(t, err)

	assert.Equal(t, 2, removed)
	assert.Empty(t, r.List())
	assert.Nil(t, r.Active())
}

func TestRegistry_ExportImport(t *testing.T) {
	t.Parallel()

	t.Run("내보내기 후 대체 가져오기", func(t *testing.T) {
		t.Parallel()

		src := newTestRegistry(t)

		_, err := src.Create(Definition{Name: "수학 시간", Type: TypeAllowed, Allow: []string{"*.desmos.com"}})
		require.NoError(t, err)
		_, err = src.Create(Definition{Name: "시험 모드", Type: TypeBlocked, Block: []string{"*.youtube.com"}})
		require.NoError(t, err)

		data, err := src.Export()
		require.NoError(t, err)

		dst := newTestRegistry(t)
		_, err = dst.Create(Definition{Name: "기존 장면", Type: TypeAllowed, Allow: []string{"*.example.org"}})
		require.NoError(t, err)

		added, err := dst.Import(data, true)
		require.NoError(t, err)

		assert.Equal(t, 2, added)
		assert.Len(t, dst.List(), 2)
	})

	t.Run("병합 가져오기는 이름 중복을 건너뜀", func(t *testing.T) {
		t.Parallel()

		src := newTestRegistry(t)
		_, err := src.Create(Definition{Name: "수학 시간", Type: TypeAllowed, Allow: []string{"*.desmos.com"}})
		require.NoError(t, err)

		data, err := src.Export()
		require.NoError(t, err)

		dst := newTestRegistry(t)
		_, err = dst.Create(Definition{Name: "수학 시간", Type: TypeAllowed, Allow: []string{"*.geogebra.org"}})
		require.NoError(t, err)

		added, err := dst.Import(data, false)
		require.NoError(t, err)

		assert.Equal(t, 0, added)
		assert.Len(t, dst.List(), 1)
	})

	t.Run("실패: 손상된 가져오기 데이터", func(t *testing.T) {
		t.Parallel()

		r := newTestRegistry(t)

		_, err := r.Import([]byte(`{"scenes": [`), false)
		require.Error(t, err)
		assert.Equal(t, apperrors.ParsingFailed, apperrors.UnderlyingType(err))
	})
}

func TestRegistry_재시작_후_상태_복원(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := storage.NewFileStateStore(dir)
	require.NoError(t, err)

	r1, err := NewRegistry(store)
	require.NoError(t, err)

	s, err := r1.Create(Definition{Name: "시험 모드", Type: TypeBlocked, Block: []string{"*.youtube.com"}})
	require.NoError(t, err)
	_, err = r1.Apply(s.ID)
	require.NoError(t, err)

	// 같은 저장소로 새 레지스트리를 생성하면 이전 상태가 복원되어야 한다.
	store2, err := storage.NewFileStateStore(dir)
	require.NoError(t, err)

	r2, err := NewRegistry(store2)
	require.NoError(t, err)

	require.Len(t, r2.List(), 1)
	active := r2.Active()
	require.NotNil(t, active)
	assert.Equal(t, s.ID, active.ID)
}
