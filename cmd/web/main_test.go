package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-visual-studio/internal/gemini"
	"brand-visual-studio/internal/lifecycle"
	"brand-visual-studio/internal/studio"
)

type fakeModel struct {
	mu       sync.Mutex
	calls    int
	imageErr error
}

func (m *fakeModel) GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if strings.HasPrefix(prompt, "THEME:") {
		return "one\ntwo\nthree\nfour\nfive\nsix", nil
	}
	return "A brief.", nil
}

func (m *fakeModel) GenerateImages(ctx context.Context, req gemini.ImageRequest) ([]gemini.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	return []gemini.Image{{Data: []byte("png"), MIMEType: "image/png"}}, nil
}

func newTestServer(t *testing.T, model *fakeModel, tracker *lifecycle.Tracker) *httptest.Server {
	t.Helper()
	st, err := studio.New(studio.Options{Text: model, Images: model, Tracker: tracker})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &server{studio: st, logger: logger}
	srv := httptest.NewServer(withLogging(s.routes(), logger))
	t.Cleanup(srv.Close)
	return srv
}

func postForm(t *testing.T, srv *httptest.Server, path string, values url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(values.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSeriesEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeModel{}, nil)

	resp := postForm(t, srv, "/api/series", url.Values{
		"brand":     {"Luma"},
		"character": {"a fox with blue eyes"},
		"palette":   {"#112233"},
		"scene":     {"walking in rain"},
		"negative":  {"no text, no watermark"},
		"seed":      {"42"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	_, err := uuid.Parse(session.Value)
	assert.NoError(t, err)

	body := decode[map[string]any](t, resp)
	items := body["items"].([]any)
	require.Len(t, items, 3)

	first := items[0].(map[string]any)
	assert.Equal(t, "Square", first["label"])
	assert.Equal(t, "square.png", first["filename"])
	assert.Equal(t, "data:image/png;base64,cG5n", first["image"])
	assert.NotContains(t, first, "Data")
	assert.NotEmpty(t, body["batch_id"])
}

func TestStoryEndpoint(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv := newTestServer(t, &fakeModel{}, nil)

		resp := postForm(t, srv, "/api/story", url.Values{
			"character":    {"old keeper"},
			"theme":        {"a lonely lighthouse keeper"},
			"aspect_ratio": {"tall"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[batchResponse](t, resp)
		require.Len(t, body.Items, 6)
		assert.Equal(t, "Frame 1", body.Items[0].Label)
		assert.Equal(t, "frame-6.png", body.Items[5].Filename)
	})

	t.Run("missing theme", func(t *testing.T) {
		model := &fakeModel{}
		srv := newTestServer(t, model, nil)

		resp := postForm(t, srv, "/api/story", url.Values{"character": {"fox"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, studio.MissingThemeMessage, decode[apiError](t, resp).Error)
		assert.Zero(t, model.calls)
	})
}

func TestFlowEndpoint_Errors(t *testing.T) {
	t.Run("upstream failure is generic", func(t *testing.T) {
		srv := newTestServer(t, &fakeModel{imageErr: errors.New("403 key revoked")}, nil)

		resp := postForm(t, srv, "/api/series", url.Values{"brand": {"Luma"}})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, studio.GenericErrorMessage, decode[apiError](t, resp).Error)
	})

	t.Run("busy session", func(t *testing.T) {
		id := uuid.NewString()
		tracker := lifecycle.New(lifecycle.Options{})
		require.NoError(t, tracker.Begin(id))
		model := &fakeModel{}
		srv := newTestServer(t, model, tracker)

		cookie := &http.Cookie{Name: sessionCookie, Value: id}
		resp := postForm(t, srv, "/api/series", url.Values{}, cookie)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, studio.BusyMessage, decode[apiError](t, resp).Error)

		// another browser session is unaffected
		resp = postForm(t, srv, "/api/series", url.Values{})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("method not allowed", func(t *testing.T) {
		srv := newTestServer(t, &fakeModel{}, nil)

		resp, err := srv.Client().Get(srv.URL + "/api/series")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestStateEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeModel{}, nil)

	resp, err := srv.Client().Get(srv.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", decode[stateResponse](t, resp).State)
}

func TestStaticIndex(t *testing.T) {
	srv := newTestServer(t, &fakeModel{}, nil)

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Generate series")
	assert.Contains(t, string(html), "Generate story")
}
