package scene

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gdistrict/gschool-connect/internal/service/contract"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/google/uuid"
)

// component Scene Registry 로깅용 컴포넌트 이름
const component = "scene.registry"

// stateName 상태 저장소에서 장면 스냅샷을 구분하는 컬렉션 이름입니다.
const stateName = "scenes"

// snapshotVersion 스냅샷 파일 포맷의 버전입니다. 포맷 변경 시 증가시킵니다.
const snapshotVersion = 1

// snapshot 저장소에 기록되는 장면 레지스트리의 전체 상태입니다.
type snapshot struct {
	Version       int      `json:"version"`
	Scenes        []*Scene `json:"scenes"`
	ActiveSceneID string   `json:"active_scene_id,omitempty"`
}

// ChangeListener 장면 적용 상태가 변경될 때마다 호출되는 콜백입니다.
// 학생 정책 갱신 브로드캐스트 등 후속 처리를 연결하는 데 사용됩니다.
type ChangeListener func()

// Registry 장면 정의와 현재 적용 상태를 관리하는 레지스트리입니다.
//
// 모든 변경 작업은 스냅샷을 저장소에 기록한 후에 메모리 상태에 반영됩니다.
// 저장에 실패하면 메모리 상태도 변경되지 않으므로, 메모리와 파일 간 정합성이 유지됩니다.
type Registry struct {
	mu sync.RWMutex

	scenes        []*Scene
	activeSceneID string

	store contract.StateStore

	onChange ChangeListener
}

// NewRegistry 저장소에서 기존 스냅샷을 불러와 레지스트리를 초기화합니다.
// 저장된 스냅샷이 없으면 빈 상태로 시작합니다.
func NewRegistry(store contract.StateStore) (*Registry, error) {
	if store == nil {
		panic("StateStore는 필수입니다")
	}

	r := &Registry{
		store: store,
	}

	var snap snapshot
	err := store.Load(stateName, &snap)
	switch {
	case err == nil:
		r.scenes = snap.Scenes
		r.activeSceneID = snap.ActiveSceneID
	case errors.Is(err, contract.ErrStateNotFound):
		// 최초 실행: 빈 상태로 시작
	default:
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"scenes":          len(r.scenes),
		"active_scene_id": r.activeSceneID,
	}).Info("장면 레지스트리 초기화 완료")

	return r, nil
}

// SetChangeListener 장면 적용 상태 변경 시 호출될 콜백을 등록합니다.
// 콜백은 레지스트리 락 해제 후 호출됩니다.
func (r *Registry) SetChangeListener(fn ChangeListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// notifyChange 등록된 변경 콜백을 호출합니다. 락을 보유하지 않은 상태에서 호출해야 합니다.
func (r *Registry) notifyChange() {
	r.mu.RLock()
	fn := r.onChange
	r.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

// persistLocked 현재 메모리 상태를 후보 스냅샷으로 구성하여 저장소에 기록합니다.
// 호출자는 반드시 쓰기 락을 보유해야 합니다.
func (r *Registry) persistLocked(scenes []*Scene, activeSceneID string) error {
	snap := snapshot{
		Version:       snapshotVersion,
		Scenes:        scenes,
		ActiveSceneID: activeSceneID,
	}

	if err := r.store.Save(stateName, snap); err != nil {
		return NewErrSnapshotPersistFailed(err)
	}

	r.scenes = scenes
	r.activeSceneID = activeSceneID

	return nil
}

// List 등록된 모든 장면의 복사본을 반환합니다.
func (r *Registry) List() []*Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scenes := make([]*Scene, 0, len(r.scenes))
	for _, s := range r.scenes {
		scenes = append(scenes, s.clone())
	}

	return scenes
}

// Get 지정된 ID의 장면을 조회합니다.
func (r *Registry) Get(id string) (*Scene, error) {
	if id == "" {
		return nil, ErrSceneIDRequired
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.findLocked(id)
	if s == nil {
		return nil, ErrSceneNotFound
	}

	return s.clone(), nil
}

// findLocked ID로 장면을 검색합니다. 호출자는 락을 보유해야 합니다.
func (r *Registry) findLocked(id string) *Scene {
	for _, s := range r.scenes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// hasDuplicateNameLocked 같은 Type 내에 동일한 이름의 장면이 있는지 확인합니다.
// excludeID가 비어 있지 않으면 해당 장면은 검사에서 제외합니다.
func (r *Registry) hasDuplicateNameLocked(name string, sceneType Type, excludeID string) bool {
	for _, s := range r.scenes {
		if s.ID != excludeID && s.Type == sceneType && s.Name == name {
			return true
		}
	}
	return false
}

// Create 새로운 장면을 등록합니다.
//
// 이름, Type, 패턴의 유효성을 검증하며, 같은 Type 내 이름 중복은 허용하지 않습니다.
func (r *Registry) Create(def Definition) (*Scene, error) {
	now := time.Now()
	s := &Scene{
		ID:        uuid.NewString(),
		Name:      def.Name,
		Type:      def.Type,
		Allow:     def.Allow,
		Block:     def.Block,
		Icon:      def.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.normalize()
	if err := s.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasDuplicateNameLocked(s.Name, s.Type, "") {
		return nil, NewErrDuplicateSceneName(s.Name)
	}

	scenes := append(append([]*Scene{}, r.scenes...), s)
	if err := r.persistLocked(scenes, r.activeSceneID); err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"scene_id": s.ID,
		"name":     s.Name,
		"type":     s.Type,
		"allow":    len(s.Allow),
		"block":    len(s.Block),
	}).Info("장면 등록 완료")

	return s.clone(), nil
}

// Update 기존 장면의 정의를 수정합니다.
func (r *Registry) Update(id string, def Definition) (*Scene, error) {
	if id == "" {
		return nil, ErrSceneIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.findLocked(id)
	if existing == nil {
		return nil, ErrSceneNotFound
	}

	updated := &Scene{
		ID:        existing.ID,
		Name:      def.Name,
		Type:      def.Type,
		Allow:     def.Allow,
		Block:     def.Block,
		Icon:      def.Icon,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}

	updated.normalize()
	if err := updated.validate(); err != nil {
		return nil, err
	}

	if r.hasDuplicateNameLocked(updated.Name, updated.Type, id) {
		return nil, NewErrDuplicateSceneName(updated.Name)
	}

	scenes := make([]*Scene, 0, len(r.scenes))
	for _, s := range r.scenes {
		if s.ID == id {
			scenes = append(scenes, updated)
		} else {
			scenes = append(scenes, s)
		}
	}

	if err := r.persistLocked(scenes, r.activeSceneID); err != nil {
		return nil, err
	}

	return updated.clone(), nil
}

// Delete 장면을 삭제합니다. 삭제 대상이 현재 적용 중인 장면이면 적용 상태도 해제됩니다.
func (r *Registry) Delete(id string) error {
	if id == "" {
		return ErrSceneIDRequired
	}

	r.mu.Lock()

	if r.findLocked(id) == nil {
		r.mu.Unlock()
		return ErrSceneNotFound
	}

	scenes := make([]*Scene, 0, len(r.scenes)-1)
	for _, s := range r.scenes {
		if s.ID != id {
			scenes = append(scenes, s)
		}
	}

	wasActive := r.activeSceneID == id
	activeSceneID := r.activeSceneID
	if wasActive {
		activeSceneID = ""
	}

	if err := r.persistLocked(scenes, activeSceneID); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"scene_id": id,
	}).Info("장면 삭제 완료")

	// 적용 중이던 장면이 삭제되면 학생들의 정책도 갱신되어야 합니다.
	if wasActive {
		r.notifyChange()
	}

	return nil
}

// Apply 지정된 장면을 현재 적용 장면으로 설정합니다.
func (r *Registry) Apply(id string) (*Scene, error) {
	if id == "" {
		return nil, ErrSceneIDRequired
	}

	r.mu.Lock()

	s := r.findLocked(id)
	if s == nil {
		r.mu.Unlock()
		return nil, ErrSceneNotFound
	}

	if err := r.persistLocked(r.scenes, id); err != nil {
		r.mu.Unlock()
		return nil, err
	}

	applied := s.clone()
	r.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"scene_id": applied.ID,
		"name":     applied.Name,
		"type":     applied.Type,
	}).Info("장면 적용 완료")

	r.notifyChange()

	return applied, nil
}

// Disable 현재 적용 중인 장면을 해제합니다.
//
// 반환값:
//   - bool: 해제 시점에 적용 중인 장면이 있었는지 여부
//   - error: 상태 저장 실패 시 에러
//
// 적용 중인 장면이 없어도 에러가 아니며, 호출은 멱등적으로 동작합니다.
// 이 경우에도 정책 변경 알림은 전파되어 학생 측이 최신 정책을 다시 가져갑니다.
func (r *Registry) Disable() (bool, error) {
	r.mu.Lock()

	wasActive := r.activeSceneID != ""
	if !wasActive {
		r.mu.Unlock()
		r.notifyChange()
		return false, nil
	}

	if err := r.persistLocked(r.scenes, ""); err != nil {
		r.mu.Unlock()
		return false, err
	}
	r.mu.Unlock()

	applog.WithComponent(component).Info("장면 적용 해제 완료")

	r.notifyChange()

	return true, nil
}

// Active 현재 적용 중인 장면을 반환합니다. 적용 중인 장면이 없으면 nil을 반환합니다.
func (r *Registry) Active() *Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.activeSceneID == "" {
		return nil
	}

	return r.findLocked(r.activeSceneID).clone()
}

// Clear 모든 장면을 삭제하고 적용 상태를 해제합니다. 삭제된 장면 개수를 반환합니다.
func (r *Registry) Clear() (int, error) {
	r.mu.Lock()

	removed := len(r.scenes)

	if err := r.persistLocked([]*Scene{}, ""); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	r.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"removed": removed,
	}).Info("장면 전체 삭제 완료")

	r.notifyChange()

	return removed, nil
}

// Export 전체 장면 목록을 JSON으로 직렬화하여 반환합니다.
// 적용 상태는 환경 종속적이므로 내보내기에 포함하지 않습니다.
func (r *Registry) Export() ([]byte, error) {
	r.mu.RLock()
	scenes := make([]*Scene, 0, len(r.scenes))
	for _, s := range r.scenes {
		scenes = append(scenes, s.clone())
	}
	r.mu.RUnlock()

	data, err := json.MarshalIndent(struct {
		Version int      `json:"version"`
		Scenes  []*Scene `json:"scenes"`
	}{Version: snapshotVersion, Scenes: scenes}, "", "\t")
	if err != nil {
		return nil, NewErrSnapshotPersistFailed(err)
	}

	return data, nil
}

// Import JSON으로 직렬화된 장면 목록을 가져옵니다.
//
// replace가 true이면 기존 장면을 모두 대체하고, false이면 기존 목록에 병합합니다.
// 병합 시 같은 Type 내 이름이 중복되는 장면은 건너뜁니다.
// 가져온 장면의 ID는 충돌 방지를 위해 항상 새로 발급합니다.
//
// 반환값: 실제로 추가된 장면 개수
func (r *Registry) Import(data []byte, replace bool) (int, error) {
	var payload struct {
		Version int      `json:"version"`
		Scenes  []*Scene `json:"scenes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, NewErrImportFailed(err)
	}

	now := time.Now()
	incoming := make([]*Scene, 0, len(payload.Scenes))
	for _, s := range payload.Scenes {
		if s == nil {
			continue
		}

		s.normalize()
		if err := s.validate(); err != nil {
			return 0, err
		}

		s.ID = uuid.NewString()
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		s.UpdatedAt = now

		incoming = append(incoming, s)
	}

	r.mu.Lock()

	var scenes []*Scene
	activeSceneID := r.activeSceneID
	activeCleared := false
	if replace {
		scenes = []*Scene{}
		activeCleared = activeSceneID != ""
		activeSceneID = ""
	} else {
		scenes = append([]*Scene{}, r.scenes...)
	}

	added := 0
	for _, s := range incoming {
		duplicate := false
		for _, existing := range scenes {
			if existing.Type == s.Type && existing.Name == s.Name {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		scenes = append(scenes, s)
		added++
	}

	if err := r.persistLocked(scenes, activeSceneID); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	r.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"imported": added,
		"replace":  replace,
	}).Info("장면 목록 가져오기 완료")

	if activeCleared {
		r.notifyChange()
	}

	return added, nil
}
