package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitqa/internal/app"
	"fitqa/internal/config"
)

// newTestServer builds a server whose service is never reached by the
// requests under test; handlers that reject input up front need no backend.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(app.NewAskService(config.DefaultAppConfig(), nil, nil, nil, nil), nil, ":0")
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fitness Q&amp;A")
}

func TestAskRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "malformed json", body: "{"},
		{name: "missing question", body: `{"k": 3}`},
		{name: "question too short", body: `{"question": "a"}`},
		{name: "question all whitespace", body: `{"question": "    "}`},
		{name: "k out of range", body: `{"question": "how much protein?", "k": 500}`},
		{name: "temperature out of range", body: `{"question": "how much protein?", "temperature": 9}`},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/api/v1/ask", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
