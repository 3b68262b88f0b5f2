// Package dashboard 교사 대시보드의 조작(공지, 장면 적용/해제)을 백엔드 API 호출로
// 옮기는 액션 클라이언트를 제공합니다.
//
// 대시보드 UI 요소(토스트, 오버레이, 드롭다운)는 Hooks로 주입받으므로
// 터미널 클라이언트와 테스트 모두 같은 핸들러를 사용할 수 있습니다.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/gdistrict/gschool-connect/internal/pkg/errors"
)

// Client 백엔드 API 호출에 사용하는 HTTP 클라이언트입니다.
//
// 요청당 한 번의 네트워크 호출만 수행하며, 재시도나 상태 코드 해석은 하지 않습니다.
// 타임아웃 등 전송 동작은 주입된 http.Client의 설정을 그대로 따릅니다.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// headers 모든 요청에 포함되는 기본 헤더입니다. (예: Authorization)
	headers map[string]string
}

// NewClient Client 인스턴스를 생성합니다. httpClient가 nil이면 http.DefaultClient를 사용합니다.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		headers:    map[string]string{},
	}
}

// SetAuthToken 이후의 모든 요청에 포함할 세션 토큰을 설정합니다.
func (c *Client) SetAuthToken(token string) {
	c.headers["Authorization"] = "Bearer " + token
}

// LoginResult 로그인 성공 시 백엔드가 알려주는 세션 신원 정보입니다.
type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login 교사 계정으로 로그인하고 발급된 세션 토큰을 이후 요청에 사용하도록 설정합니다.
//
// 조작 API와 달리 로그인은 성공해야만 의미가 있으므로 2xx가 아닌 응답도 에러로 반환합니다.
func (c *Client) Login(ctx context.Context, email, accessKey string) (LoginResult, error) {
	resp, err := c.postJSON(ctx, "/api/login", map[string]string{
		"email":      email,
		"access_key": accessKey,
	}, nil)
	if err != nil {
		return LoginResult{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return LoginResult{}, apperrors.New(apperrors.Unauthorized, "이메일 또는 접근 키가 올바르지 않습니다")
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return LoginResult{}, apperrors.New(apperrors.Unavailable, "로그인 요청이 실패했습니다 (HTTP "+resp.Status+")")
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return LoginResult{}, apperrors.Wrap(err, apperrors.ParsingFailed, "로그인 응답 해석에 실패했습니다")
	}
	if result.Token == "" {
		return LoginResult{}, apperrors.New(apperrors.Unauthorized, "로그인 응답에 세션 토큰이 없습니다")
	}

	c.SetAuthToken(result.Token)

	return result, nil
}

// postJSON JSON 본문으로 POST 요청을 보내고 응답을 그대로 반환합니다.
//
// Content-Type은 기본적으로 application/json이며, headers로 덮어쓸 수 있습니다.
// 전송 실패(연결 불가, 컨텍스트 취소 등)만 에러로 반환하고,
// 2xx가 아닌 상태 코드는 에러로 취급하지 않습니다. 응답 본문을 닫는 책임은 호출자에게 있습니다.
func (c *Client) postJSON(ctx context.Context, path string, body any, headers map[string]string) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "요청 본문 직렬화에 실패했습니다")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "요청 생성에 실패했습니다")
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.httpClient.Do(req)
}
