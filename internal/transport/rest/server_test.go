package rest

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/internal/config"
	"github.com/ZaguanLabs/codelai/internal/transport/middleware"
	"github.com/ZaguanLabs/codelai/processor"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  5 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

func newTestTranslator() *codelai.Translator {
	dicts := codelai.NewCachedDictionary(codelai.StaticTerms{
		{Term: "fetch", Translation: "obtener"},
		{Term: "user", Translation: "usuario"},
	}, codelai.WithDefaults(nil))

	var opts []codelai.TranslatorOption
	for _, rw := range processor.Rewriters() {
		opts = append(opts, codelai.WithRewriter(rw))
	}
	return codelai.NewTranslator(dicts, opts...)
}

func TestServer_Routes(t *testing.T) {
	srv := NewServer(testServerConfig(), newTestTranslator(), discardLogger())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/translate", "application/json",
		strings.NewReader(`{"code":"const msg = \"fetch user\";","language":"js"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
	if resp.Header.Get("Server") != codelai.UserAgent() {
		t.Errorf("expected Server header %q, got %q", codelai.UserAgent(), resp.Header.Get("Server"))
	}

	var result codelai.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Code != `const msg = "obtener usuario";` || result.StringReplacements != 1 {
		t.Errorf("unexpected result %+v", result)
	}

	reset, err := http.Post(ts.URL+"/v1/dictionary/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	reset.Body.Close()
	if reset.StatusCode != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", reset.StatusCode)
	}

	health, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", health.StatusCode)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := NewServer(testServerConfig(), newTestTranslator(), discardLogger())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/translate", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestServer_RateLimited(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimitRPM = 60
	cfg.RateLimitBurst = 1
	srv := NewServer(cfg, newTestTranslator(), discardLogger())
	defer srv.stopLimiter()

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/translate", strings.NewReader(`{"code":"fetch"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", code)
	}

	// Health is never limited.
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected health status 200, got %d", rec.Code)
	}
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	srv := NewServer(testServerConfig(), newTestTranslator(), discardLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
