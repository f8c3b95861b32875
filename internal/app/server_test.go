package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mf-rl/bot-name-generator/internal/config"
	"github.com/mf-rl/bot-name-generator/internal/domain"
)

func testConfig(provider, key string) config.Config {
	return config.Config{
		NameGenerator: config.NameGeneratorConfig{
			AIProvider: provider,
			GroqAPIKey: key,
			Adjectives: []string{"Swift", "Iron"},
			Nouns:      []string{"Wolf", "Falcon"},
		},
		API: config.APIConfig{Host: "127.0.0.1", Port: 0},
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	return srv
}

// newChatServer fakes the Groq chat-completions endpoint.
func newChatServer(t *testing.T, status int, content string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		body, _ := json.Marshal(map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{"message": map[string]interface{}{"role": "assistant", "content": content}},
			},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(ts.Close)
	return ts, &hits
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if method == http.MethodPost {
		body = strings.NewReader(`{"style":"ignored"}`)
	} else {
		body = strings.NewReader("")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, body))
	return w
}

func decodeName(t *testing.T, w *httptest.ResponseRecorder) domain.GeneratedName {
	t.Helper()
	var got domain.GeneratedName
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
	return got
}

func TestHealthReportsConfiguredProvider(t *testing.T) {
	for _, tc := range []struct{ provider, key string }{
		{"groq", ""},
		{"groq", "gsk_key"},
		{"local", ""},
		{"Something-Else", "k"},
	} {
		srv := newTestServer(t, testConfig(tc.provider, tc.key))
		w := serve(t, srv.Handler(), http.MethodGet, "/api/health")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var got domain.HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, domain.HealthStatus{Status: "ok", Provider: tc.provider}, got)
	}
}

func TestGenerateNameLocal(t *testing.T) {
	srv := newTestServer(t, testConfig("local", "gsk_key"))
	h := srv.Handler()

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		for i := 0; i < 20; i++ {
			w := serve(t, h, method, "/api/generate-name")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			got := decodeName(t, w)
			assert.Equal(t, "local", got.Provider)
			assert.Regexp(t, `^(Swift|Iron)(Wolf|Falcon)\d{1,4}$`, got.Name)
		}
	}
}

func TestGenerateNameUsesGroq(t *testing.T) {
	chat, hits := newChatServer(t, http.StatusOK, "  CoolName123  ")
	cfg := testConfig("groq", "gsk_key")
	cfg.NameGenerator.GroqBaseURL = chat.URL
	h := newTestServer(t, cfg).Handler()

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := serve(t, h, method, "/api/generate-name")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.GeneratedName{Name: "CoolName123", Provider: "groq"}, decodeName(t, w))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestGenerateNameFallsBackToLocal(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		content string
	}{
		{name: "too_long", status: http.StatusOK, content: "ThisNameIsFarTooLongToBeAccepted1234"},
		{name: "empty", status: http.StatusOK, content: "   "},
		{name: "upstream_error", status: http.StatusInternalServerError, content: "ignored"},
		{name: "unauthorized", status: http.StatusUnauthorized, content: "ignored"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chat, hits := newChatServer(t, tc.status, tc.content)
			cfg := testConfig("groq", "gsk_key")
			cfg.NameGenerator.GroqBaseURL = chat.URL

			w := serve(t, newTestServer(t, cfg).Handler(), http.MethodGet, "/api/generate-name")
			require.Equal(t, http.StatusOK, w.Code)
			got := decodeName(t, w)
			assert.Equal(t, "local", got.Provider)
			assert.Regexp(t, `^(Swift|Iron)(Wolf|Falcon)\d{1,4}$`, got.Name)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits))
		})
	}
}

func TestGenerateNameUnreachableGroqStillSucceeds(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadURL := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := testConfig("groq", "gsk_key")
	cfg.NameGenerator.GroqBaseURL = deadURL

	w := serve(t, newTestServer(t, cfg).Handler(), http.MethodPost, "/api/generate-name")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "local", decodeName(t, w).Provider)
}

func TestGenerateNameNoOutboundCallWhenLocalOrUnkeyed(t *testing.T) {
	for _, cfg := range []config.Config{
		testConfig("local", "gsk_key"),
		testConfig("groq", ""),
		testConfig("groq", "   "),
		testConfig("Groq", "gsk_key"),
		testConfig("GROQ", "gsk_key"),
		testConfig(" groq ", "gsk_key"),
	} {
		chat, hits := newChatServer(t, http.StatusOK, "Remote1")
		cfg.NameGenerator.GroqBaseURL = chat.URL

		w := serve(t, newTestServer(t, cfg).Handler(), http.MethodGet, "/api/generate-name")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "local", decodeName(t, w).Provider)
		assert.Zero(t, atomic.LoadInt32(hits))
	}
}

type panickingGenerator struct {
	calls int32
}

func (p *panickingGenerator) Generate(context.Context) domain.GeneratedName {
	atomic.AddInt32(&p.calls, 1)
	panic("word list exploded")
}

func (p *panickingGenerator) GenerateLocal() domain.GeneratedName {
	return domain.GeneratedName{Name: "StormRaven77", Provider: domain.ProviderLocal}
}

func TestGenerateNameUnexpectedFailureStillReturnsName(t *testing.T) {
	gen := &panickingGenerator{}
	srv, err := NewServerWithGenerator(testConfig("local", ""), gen)
	require.NoError(t, err)

	w := serve(t, srv.Handler(), http.MethodPost, "/api/generate-name")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var got domain.NameErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.NameErrorBody{Error: "Failed to generate name", Name: "StormRaven77", Provider: "local"}, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gen.calls))
}

func TestNewServerWithGeneratorRequiresGenerator(t *testing.T) {
	_, err := NewServerWithGenerator(testConfig("local", ""), nil)
	assert.Error(t, err)
}

func TestCORSPreflight(t *testing.T) {
	w := serve(t, newTestServer(t, testConfig("local", "")).Handler(), http.MethodOptions, "/api/generate-name")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestServer(t, testConfig("local", "")).Handler()
	assert.Equal(t, http.StatusNotFound, serve(t, h, http.MethodGet, "/api/nope").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(t, h, http.MethodPost, "/api/health").Code)
}

func TestServeAndShutdown(t *testing.T) {
	srv := newTestServer(t, testConfig("local", ""))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/api/generate-name", ln.Addr()))
	require.NoError(t, err)
	var got domain.GeneratedName
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	_ = resp.Body.Close()
	assert.Equal(t, "local", got.Provider)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
