// Package classifier 키워드 점수 기반 URL 분류와 카테고리 차단 정책을 제공합니다.
package classifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gdistrict/gschool-connect/internal/config"
	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
	"github.com/gdistrict/gschool-connect/internal/service/contract"
	applog "github.com/gdistrict/gschool-connect/pkg/log"
	"github.com/gdistrict/gschool-connect/pkg/strutil"
)

const component = "classifier"

// stateName 상태 저장소에서 분류기 설정을 구분하는 컬렉션 이름입니다.
const stateName = "classifier"

// defaultUserAgent 페이지 수집 시 사용하는 기본 User-Agent입니다.
const defaultUserAgent = "Mozilla/5.0"

// blockPageDomain 차단 안내 페이지의 도메인입니다. 전역 차단 모드에서도 항상 허용됩니다.
const blockPageDomain = "blocked.gdistrict.org"

// ErrCategoryNameRequired 카테고리 이름이 비어 있을 때 반환하는 에러입니다.
var ErrCategoryNameRequired = apperrors.New(apperrors.InvalidInput, "카테고리 이름(name)은 비어 있을 수 없습니다")

// CategoryConfig 카테고리별 차단 설정입니다.
type CategoryConfig struct {
	Name     string    `json:"name"`
	Blocked  bool      `json:"blocked"`
	BlockURL string    `json:"block_url,omitempty"`
	Schedule *Schedule `json:"schedule,omitempty"`
}

// CategoryUpdate 카테고리 설정 변경 요청입니다. nil 필드는 변경하지 않습니다.
// BlockURL에 빈 문자열 포인터를 주면 설정이 제거됩니다.
type CategoryUpdate struct {
	Name     string    `json:"name"`
	Blocked  *bool     `json:"blocked,omitempty"`
	BlockURL *string   `json:"block_url,omitempty"`
	Schedule *Schedule `json:"schedule,omitempty"`
}

// Decision 분류 결과에 차단 정책을 적용한 최종 판정입니다.
type Decision struct {
	URL      string `json:"url"`
	Result   Result `json:"result"`
	Blocked  bool   `json:"blocked"`
	BlockURL string `json:"block_url,omitempty"`
}

// categoryState 저장소에 기록되는 분류기 설정 전체입니다.
type categoryState struct {
	Categories map[string]*CategoryConfig `json:"categories"`
}

// Service URL 분류와 카테고리 차단 정책을 관리합니다.
type Service struct {
	mu sync.RWMutex

	categories map[string]*CategoryConfig

	store  contract.StateStore
	client *http.Client

	maxBodyBytes int64
	userAgent    string

	now func() time.Time
}

// NewService 저장소에서 카테고리 설정을 불러와 분류기를 초기화합니다.
// 알려진 카테고리 중 저장되지 않은 항목은 기본값(차단 안 함)으로 채워집니다.
func NewService(store contract.StateStore, cfg *config.ClassifierConfig) (*Service, error) {
	if store == nil {
		panic("StateStore는 필수입니다")
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	s := &Service{
		categories:   map[string]*CategoryConfig{},
		store:        store,
		client:       &http.Client{Timeout: cfg.FetchTimeoutDuration()},
		maxBodyBytes: cfg.MaxBodyBytes,
		userAgent:    userAgent,
		now:          time.Now,
	}

	var st categoryState
	err := store.Load(stateName, &st)
	switch {
	case err == nil:
		if st.Categories != nil {
			s.categories = st.Categories
		}
	case errors.Is(err, contract.ErrStateNotFound):
		// 저장된 설정이 없으면 기본값으로 시작한다.
	default:
		return nil, err
	}

	seeded := 0
	for _, name := range Categories {
		if _, ok := s.categories[name]; !ok {
			s.categories[name] = &CategoryConfig{Name: name}
			seeded++
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"categories": len(s.categories),
		"seeded":     seeded,
	}).Info("분류기 초기화 완료")

	return s, nil
}

// persistLocked 현재 설정을 저장소에 기록합니다. 호출자는 쓰기 락을 보유해야 합니다.
func (s *Service) persistLocked() error {
	if err := s.store.Save(stateName, categoryState{Categories: s.categories}); err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "분류기 설정 저장에 실패했습니다")
	}
	return nil
}

// Categories 전체 카테고리 설정을 이름 순으로 반환합니다.
func (s *Service) Categories() []CategoryConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]CategoryConfig, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		if c.Schedule != nil {
			sched := *c.Schedule
			cp.Schedule = &sched
		}
		list = append(list, cp)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	return list
}

// UpdateCategory 카테고리 설정을 변경합니다. 목록에 없는 이름은 새로 추가됩니다.
func (s *Service) UpdateCategory(update CategoryUpdate) error {
	name := strings.TrimSpace(update.Name)
	if name == "" {
		return ErrCategoryNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[name]
	if !ok {
		c = &CategoryConfig{Name: name}
		s.categories[name] = c
	}

	if update.Blocked != nil {
		c.Blocked = *update.Blocked
	}
	if update.BlockURL != nil {
		c.BlockURL = *update.BlockURL
	}
	if update.Schedule != nil {
		sched := *update.Schedule
		c.Schedule = &sched
	}

	return s.persistLocked()
}

// Decide URL을 분류하고 차단 정책을 적용한 최종 판정을 반환합니다.
//
// bodyText가 비어 있으면 페이지를 직접 수집해 본문 텍스트를 보강합니다.
// allowlist는 전역 차단 모드에서 예외로 허용할 부분 문자열 목록이고,
// defaultRedirect는 카테고리별 차단 주소가 없을 때 사용할 차단 페이지입니다.
//
// 시간대가 설정된 카테고리는 시간대가 차단 여부를 전적으로 결정하며,
// "Global Block All"도 같은 규칙을 따릅니다.
func (s *Service) Decide(ctx context.Context, rawURL, bodyText string, allowlist []string, defaultRedirect string) Decision {
	if bodyText == "" {
		bodyText = s.fetchPageText(ctx, rawURL)
	}

	result := Classify(rawURL, bodyText)
	now := s.now()

	s.mu.RLock()

	globalBlockOn := false
	if global, ok := s.categories[CategoryGlobalBlockAll]; ok {
		globalBlockOn = global.Blocked
		if global.Schedule != nil {
			globalBlockOn = global.Schedule.ActiveAt(now)
		}
	}

	categoryBlocked := false
	categoryBlockURL := ""
	if c, ok := s.categories[result.Category]; ok {
		categoryBlocked = c.Blocked
		categoryBlockURL = c.BlockURL
		if c.Schedule != nil {
			categoryBlocked = c.Schedule.ActiveAt(now)
		}
	}

	s.mu.RUnlock()

	if globalBlockOn && !isAllowlisted(rawURL, allowlist) {
		return Decision{
			URL:      rawURL,
			Result:   result,
			Blocked:  true,
			BlockURL: defaultRedirect,
		}
	}

	blockURL := categoryBlockURL
	if blockURL == "" {
		blockURL = defaultRedirect
	}

	return Decision{
		URL:      rawURL,
		Result:   result,
		Blocked:  categoryBlocked,
		BlockURL: blockURL,
	}
}

// isAllowlisted 전역 차단 모드의 예외 여부를 판정합니다.
// 허용 목록 항목 또는 차단 안내 페이지 도메인이 URL에 포함되면 예외입니다.
func isAllowlisted(rawURL string, allowlist []string) bool {
	lowered := strings.ToLower(rawURL)
	if strings.Contains(lowered, blockPageDomain) {
		return true
	}
	for _, entry := range allowlist {
		if entry != "" && strings.Contains(lowered, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

// fetchPageText URL의 페이지를 수집해 본문 텍스트를 추출합니다.
// 수집 실패는 분류를 막지 않으므로 빈 문자열로 대체합니다.
func (s *Service) fetchPageText(ctx context.Context, rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		applog.WithComponent(component).WithError(err).Debug("분류 대상 페이지 수집 실패")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text") {
		return ""
	}

	return extractText(io.LimitReader(resp.Body, s.maxBodyBytes))
}

// extractText HTML에서 script/style을 제외한 본문 텍스트를 추출해
// 공백을 축약하고 소문자로 정규화합니다.
func extractText(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}

	doc.Find("script, style").Remove()

	return strings.ToLower(strutil.NormalizeSpaces(doc.Text()))
}
