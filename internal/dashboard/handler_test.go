package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHooks 훅 호출 순서와 알림/경고 내용을 기록합니다.
type recordingHooks struct {
	mu     sync.Mutex
	events []string

	promptReply string
}

func (r *recordingHooks) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingHooks) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingHooks) hooks() Hooks {
	return Hooks{
		Toast:         func(msg string) { r.record("toast:" + msg) },
		Alert:         func(msg string) { r.record("alert:" + msg) },
		Prompt:        func(string) string { return r.promptReply },
		CloseDropdown: func() { r.record("close_dropdown") },
		ShowOverlay:   func() { r.record("show_overlay") },
		HideOverlay:   func() { r.record("hide_overlay") },
		RefreshScenes: func() { r.record("refresh_scenes") },
	}
}

// capturedRequest 테스트 서버가 수신한 요청 한 건입니다.
type capturedRequest struct {
	Path string
	Body map[string]any
}

// testBackend 요청을 수집하고 지정된 상태 코드로 응답하는 백엔드입니다.
type testBackend struct {
	mu       sync.Mutex
	requests []capturedRequest

	statusCode int
	server     *httptest.Server
}

func newTestBackend(statusCode int) *testBackend {
	b := &testBackend{statusCode: statusCode}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)

		b.mu.Lock()
		b.requests = append(b.requests, capturedRequest{Path: req.URL.Path, Body: body})
		b.mu.Unlock()

		w.WriteHeader(b.statusCode)
	}))
	return b
}

func (b *testBackend) captured() []capturedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]capturedRequest(nil), b.requests...)
}

func newTestHandler(t *testing.T, statusCode int, hooks *recordingHooks) (*Handler, *testBackend) {
	t.Helper()

	backend := newTestBackend(statusCode)
	t.Cleanup(backend.server.Close)

	client := NewClient(backend.server.URL, backend.server.Client())

	return NewHandler(client, hooks.hooks()), backend
}

func TestHandler_Announce(t *testing.T) {
	t.Run("입력_취소시_요청_없음", func(t *testing.T) {
		hooks := &recordingHooks{promptReply: ""}
		h, backend := newTestHandler(t, http.StatusOK, hooks)

		h.Announce(context.Background())

		assert.Empty(t, backend.captured())
		assert.Empty(t, hooks.recorded())
	})

	t.Run("정상_전송시_성공_알림_한_번", func(t *testing.T) {
		hooks := &recordingHooks{promptReply: "10분 후 제출"}
		h, backend := newTestHandler(t, http.StatusOK, hooks)

		h.Announce(context.Background())

		requests := backend.captured()
		require.Len(t, requests, 1)
		assert.Equal(t, "/api/announce", requests[0].Path)
		assert.Equal(t, map[string]any{"message": "10분 후 제출"}, requests[0].Body)

		assert.Equal(t, []string{"toast:Announcement sent"}, hooks.recorded())
	})

	t.Run("상태_코드와_무관하게_전송_완료는_성공", func(t *testing.T) {
		hooks := &recordingHooks{promptReply: "공지"}
		h, _ := newTestHandler(t, http.StatusInternalServerError, hooks)

		h.Announce(context.Background())

		assert.Equal(t, []string{"toast:Announcement sent"}, hooks.recorded())
	})

	t.Run("전송_실패시_경고만_표시", func(t *testing.T) {
		hooks := &recordingHooks{promptReply: "공지"}
		backend := newTestBackend(http.StatusOK)
		backend.server.Close() // 연결 자체가 불가능한 상태를 만든다.

		client := NewClient(backend.server.URL, nil)
		h := NewHandler(client, hooks.hooks())

		h.Announce(context.Background())

		assert.Equal(t, []string{"alert:Announcement failed to send"}, hooks.recorded())
	})
}

func TestHandler_ApplyScene(t *testing.T) {
	t.Run("빈_id는_아무_일도_하지_않음", func(t *testing.T) {
		hooks := &recordingHooks{}
		h, backend := newTestHandler(t, http.StatusOK, hooks)

		h.ApplyScene(context.Background(), "")

		assert.Empty(t, backend.captured())
		assert.Empty(t, hooks.recorded())
	})

	t.Run("성공시_훅_호출_순서", func(t *testing.T) {
		hooks := &recordingHooks{}
		h, backend := newTestHandler(t, http.StatusOK, hooks)

		h.ApplyScene(context.Background(), "scene-1")

		requests := backend.captured()
		require.Len(t, requests, 1)
		assert.Equal(t, "/api/scenes/apply", requests[0].Path)
		assert.Equal(t, map[string]any{"scene_id": "scene-1"}, requests[0].Body)

		assert.Equal(t, []string{
			"close_dropdown",
			"show_overlay",
			"toast:Scene applied",
			"hide_overlay",
			"refresh_scenes",
		}, hooks.recorded())
	})

	t.Run("서버_오류시에도_정리는_보장", func(t *testing.T) {
		hooks := &recordingHooks{}
		h, _ := newTestHandler(t, http.StatusInternalServerError, hooks)

		h.ApplyScene(context.Background(), "scene-1")

		assert.Equal(t, []string{
			"close_dropdown",
			"show_overlay",
			"alert:Failed to apply scene",
			"hide_overlay",
			"refresh_scenes",
		}, hooks.recorded())
	})

	t.Run("전송_실패시에도_정리는_보장", func(t *testing.T) {
		hooks := &recordingHooks{}
		backend := newTestBackend(http.StatusOK)
		backend.server.Close()

		client := NewClient(backend.server.URL, nil)
		h := NewHandler(client, hooks.hooks())

		h.ApplyScene(context.Background(), "scene-1")

		assert.Equal(t, []string{
			"close_dropdown",
			"show_overlay",
			"alert:Failed to apply scene",
			"hide_overlay",
			"refresh_scenes",
		}, hooks.recorded())
	})

	t.Run("동시_호출은_독립적으로_처리", func(t *testing.T) {
		hooks := &recordingHooks{}
		h, backend := newTestHandler(t, http.StatusOK, hooks)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.ApplyScene(context.Background(), "scene-1")
			}()
		}
		wg.Wait()

		assert.Len(t, backend.captured(), 2)

		counts := map[string]int{}
		for _, e := range hooks.recorded() {
			counts[e]++
		}
		assert.Equal(t, 2, counts["hide_overlay"])
		assert.Equal(t, 2, counts["refresh_scenes"])
	})
}

func TestHandler_DisableScene(t *testing.T) {
	t.Run("disable_플래그_전송", func(t *testing.T) {
		hooks := &recordingHooks{}
		h, backend := newTestHandler(t, http.StatusOK, hooks)

		h.DisableScene(context.Background())

		requests := backend.captured()
		require.Len(t, requests, 1)
		assert.Equal(t, "/api/scenes/apply", requests[0].Path)
		assert.Equal(t, map[string]any{"disable": true}, requests[0].Body)

		assert.Equal(t, []string{
			"close_dropdown",
			"show_overlay",
			"toast:Scene disabled",
			"hide_overlay",
			"refresh_scenes",
		}, hooks.recorded())
	})

	t.Run("서버_오류시_경고와_정리", func(t *testing.T) {
		hooks := &recordingHooks{}
		h, _ := newTestHandler(t, http.StatusNotFound, hooks)

		h.DisableScene(context.Background())

		assert.Equal(t, []string{
			"close_dropdown",
			"show_overlay",
			"alert:Failed to disable scene",
			"hide_overlay",
			"refresh_scenes",
		}, hooks.recorded())
	})
}

func TestHooks_notify(t *testing.T) {
	t.Run("Toast_우선", func(t *testing.T) {
		var got string
		h := Hooks{
			Toast:     func(msg string) { got = "toast:" + msg },
			ShowToast: func(msg string) { got = "show_toast:" + msg },
		}

		h.notify("안내")

		assert.Equal(t, "toast:안내", got)
	})

	t.Run("Toast_없으면_ShowToast", func(t *testing.T) {
		var got string
		h := Hooks{ShowToast: func(msg string) { got = msg }}

		h.notify("안내")

		assert.Equal(t, "안내", got)
	})

	t.Run("둘_다_없으면_로그로_대체", func(t *testing.T) {
		var got string
		h := Hooks{Log: func(msg string) { got = msg }}

		h.notify("안내")

		assert.Equal(t, "안내", got)
	})

	t.Run("모든_훅이_없어도_패닉_없음", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Hooks{}.notify("안내")
		})
	})
}

func TestClient_Login(t *testing.T) {
	t.Run("성공시_토큰을_이후_요청에_사용", func(t *testing.T) {
		var gotAuthorization string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch req.URL.Path {
			case "/api/login":
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"result_code":0,"token":"issued-token","email":"kim@gdistrict.org","role":"teacher"}`))
			default:
				gotAuthorization = req.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client())

		result, err := c.Login(context.Background(), "kim@gdistrict.org", "key")
		require.NoError(t, err)
		assert.Equal(t, "issued-token", result.Token)
		assert.Equal(t, "teacher", result.Role)

		resp, err := c.postJSON(context.Background(), "/api/announce", nil, nil)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "Bearer issued-token", gotAuthorization)
	})

	t.Run("인증_실패는_에러", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client())

		_, err := c.Login(context.Background(), "kim@gdistrict.org", "wrong")
		require.Error(t, err)
	})

	t.Run("토큰_없는_응답은_에러", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result_code":0}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client())

		_, err := c.Login(context.Background(), "kim@gdistrict.org", "key")
		require.Error(t, err)
	})
}

func TestClient_postJSON(t *testing.T) {
	t.Run("기본_Content-Type과_헤더_병합", func(t *testing.T) {
		var gotContentType, gotCustom string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotContentType = req.Header.Get("Content-Type")
			gotCustom = req.Header.Get("X-Custom")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client())

		resp, err := c.postJSON(context.Background(), "/api/test", map[string]string{}, map[string]string{"X-Custom": "value"})
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "value", gotCustom)
	})

	t.Run("호출자가_Content-Type_덮어쓰기", func(t *testing.T) {
		var gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotContentType = req.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client())

		resp, err := c.postJSON(context.Background(), "/api/test", map[string]string{}, map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		})
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "application/json; charset=utf-8", gotContentType)
	})

	t.Run("비2xx는_에러가_아님", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client())

		resp, err := c.postJSON(context.Background(), "/api/test", nil, nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("세션_토큰_헤더_포함", func(t *testing.T) {
		var gotAuthorization string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotAuthorization = req.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient(server.URL, server.Client())
		c.SetAuthToken("session-token")

		resp, err := c.postJSON(context.Background(), "/api/test", nil, nil)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "Bearer session-token", gotAuthorization)
	})
}
