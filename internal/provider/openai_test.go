package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"muxsummary/internal/analysis"
	"muxsummary/internal/config"
)

const keyEnv = "MUXSUMMARY_TEST_KEY"

type fakeServer struct {
	*httptest.Server
	calls    atomic.Int32
	lastBody atomic.Value
	lastAuth atomic.Value
}

func newFakeServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		fs.lastBody.Store(string(body))
		fs.lastAuth.Store(r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) providerConfig() config.ProviderConfig {
	return config.ProviderConfig{
		BaseURL:     fs.URL + "/v1",
		Model:       "test-model",
		APIKeyEnv:   keyEnv,
		TimeoutMS:   2000,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

func completionJSON(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

func TestAnalyzeSuccess(t *testing.T) {
	t.Setenv(keyEnv, "sk-test")
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionJSON("## Priority Order\n1. A"))
	})

	res := NewClient(StaticResolver(srv.providerConfig())).Analyze(context.Background(), "the prompt")
	if !res.OK() {
		t.Fatalf("expected success, got %v", res)
	}
	if res.Document() != "## Priority Order\n1. A" {
		t.Fatalf("document=%q", res.Document())
	}
	if got := srv.lastAuth.Load().(string); got != "Bearer sk-test" {
		t.Fatalf("authorization=%q", got)
	}
	body := srv.lastBody.Load().(string)
	if !strings.Contains(body, `"model":"test-model"`) || !strings.Contains(body, "the prompt") {
		t.Fatalf("request body missing model or prompt: %s", body)
	}
}

func TestAnalyzeMissingCredentialMakesNoRequest(t *testing.T) {
	t.Setenv(keyEnv, "")
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, completionJSON("unreachable"))
	})

	res := NewClient(StaticResolver(srv.providerConfig())).Analyze(context.Background(), "p")
	if res.Kind() != analysis.KindMissingCredential {
		t.Fatalf("kind=%v, want missing credential", res.Kind())
	}
	if !strings.Contains(res.Detail(), keyEnv) {
		t.Fatalf("detail should name the variable: %q", res.Detail())
	}
	if n := srv.calls.Load(); n != 0 {
		t.Fatalf("network attempts=%d, want 0", n)
	}
}

func TestAnalyzeResolvesCredentialPerCall(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, completionJSON("ok"))
	})
	client := NewClient(StaticResolver(srv.providerConfig()))

	t.Setenv(keyEnv, "")
	if res := client.Analyze(context.Background(), "p"); res.Kind() != analysis.KindMissingCredential {
		t.Fatalf("first call kind=%v", res.Kind())
	}
	t.Setenv(keyEnv, "sk-late")
	if res := client.Analyze(context.Background(), "p"); !res.OK() {
		t.Fatalf("credential added after construction should be used, got %v", res)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	t.Setenv(keyEnv, "sk-test")
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	cfg := srv.providerConfig()
	cfg.TimeoutMS = 50

	res := NewClient(StaticResolver(cfg)).Analyze(context.Background(), "p")
	if res.Kind() != analysis.KindNetworkFailure {
		t.Fatalf("kind=%v detail=%q, want network failure", res.Kind(), res.Detail())
	}
}

func TestAnalyzeConnectionRefused(t *testing.T) {
	t.Setenv(keyEnv, "sk-test")
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := config.ProviderConfig{BaseURL: base + "/v1", Model: "m", APIKeyEnv: keyEnv, TimeoutMS: 1000}
	res := NewClient(StaticResolver(cfg)).Analyze(context.Background(), "p")
	if res.Kind() != analysis.KindNetworkFailure {
		t.Fatalf("kind=%v detail=%q", res.Kind(), res.Detail())
	}
}

func TestAnalyzeRemoteErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail []string
	}{
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"message":"slow down","type":"rate_limit_error"}}`,
			wantDetail: []string{"429", "rate limited", "slow down"},
		},
		{
			name:       "server error with plain body",
			status:     http.StatusBadGateway,
			body:       `upstream unavailable`,
			wantDetail: []string{"502", "upstream unavailable"},
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"invalid api key"}}`,
			wantDetail: []string{"401", "invalid api key"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(keyEnv, "sk-test")
			srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			res := NewClient(StaticResolver(srv.providerConfig())).Analyze(context.Background(), "p")
			if res.Kind() != analysis.KindRemoteError {
				t.Fatalf("kind=%v detail=%q", res.Kind(), res.Detail())
			}
			for _, want := range tt.wantDetail {
				if !strings.Contains(res.Detail(), want) {
					t.Errorf("detail %q missing %q", res.Detail(), want)
				}
			}
			if tt.status != http.StatusTooManyRequests && strings.Contains(res.Detail(), "rate limited") {
				t.Errorf("non-429 labelled as rate limiting: %q", res.Detail())
			}
		})
	}
}

func TestAnalyzeMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"no choices", `{"id":"x","choices":[]}`},
		{"empty content", completionJSON("   ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(keyEnv, "sk-test")
			srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			})
			res := NewClient(StaticResolver(srv.providerConfig())).Analyze(context.Background(), "p")
			if res.Kind() != analysis.KindMalformedResponse {
				t.Fatalf("kind=%v detail=%q, want malformed response", res.Kind(), res.Detail())
			}
		})
	}
}

func TestBuildRequestReasoningModel(t *testing.T) {
	cfg := config.ProviderConfig{Model: "gpt-5.1", Temperature: 0.7, MaxTokens: 1000}
	req := buildRequest(cfg, "p")
	if req.Temperature != 0 {
		t.Fatalf("reasoning model should use default temperature, got %v", req.Temperature)
	}
	if req.MaxCompletionTokens != 1000 || req.MaxTokens != 0 {
		t.Fatalf("max tokens: completion=%d legacy=%d", req.MaxCompletionTokens, req.MaxTokens)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "p" {
		t.Fatalf("messages=%+v", req.Messages)
	}

	cfg.Model = "gpt-4o-mini"
	if got := buildRequest(cfg, "p").Temperature; got != float32(0.7) {
		t.Fatalf("temperature=%v", got)
	}
}

func TestBuildRequestExplicitZeroTemperature(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		sent bool
	}{
		{"zero is sent", 0, true},
		{"positive is sent", 0.2, true},
		{"negative leaves server default", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := buildRequest(config.ProviderConfig{Model: "gpt-4o-mini", Temperature: tt.temp}, "p")
			body, err := json.Marshal(req)
			if err != nil {
				t.Fatal(err)
			}
			var fields map[string]any
			if err := json.Unmarshal(body, &fields); err != nil {
				t.Fatal(err)
			}
			if _, ok := fields["temperature"]; ok != tt.sent {
				t.Fatalf("temperature present=%v, want %v (body=%s)", ok, tt.sent, body)
			}
		})
	}
}
