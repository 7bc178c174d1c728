package completion_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/stance/pkg/completion"
)

func newClient(t *testing.T, handler http.HandlerFunc) *completion.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &completion.Config{BaseURL: srv.URL + "/v1/"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return completion.New(cfg)
}

func TestCompleteSendsRequest(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
	)

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c-1","model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":" 1\n"},"finish_reason":"stop"}]}`)
	})

	req := completion.Request{
		Model: "gpt-4o",
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: "rubric"},
			{Role: completion.RoleUser, Content: "comment"},
		},
		Temperature: 0,
		MaxTokens:   10,
	}

	resp, err := client.Complete(context.Background(), "sk-test", req)
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	if gotPath != "/v1/chat/completions" {
		t.Errorf("path: got %s, want /v1/chat/completions", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization: got %q", gotAuth)
	}

	temp, ok := gotBody["temperature"]
	if !ok {
		t.Error("temperature must be serialized even when zero")
	} else if temp.(float64) != 0 {
		t.Errorf("temperature: got %v, want 0", temp)
	}
	if gotBody["max_tokens"].(float64) != 10 {
		t.Errorf("max_tokens: got %v, want 10", gotBody["max_tokens"])
	}

	msgs := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages: got %d, want 2", len(msgs))
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "rubric" {
		t.Errorf("system message: got %v", first)
	}
	second := msgs[1].(map[string]any)
	if second["role"] != "user" || second["content"] != "comment" {
		t.Errorf("user message: got %v", second)
	}

	content, err := resp.Content()
	if err != nil {
		t.Fatalf("Content error: %v", err)
	}
	if content != " 1\n" {
		t.Errorf("content: got %q, want untrimmed %q", content, " 1\n")
	}
}

func TestCompleteStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			want:   completion.ErrUnauthorized,
			msg:    "Incorrect API key provided",
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached","type":"requests","code":null}}`,
			want:   completion.ErrRateLimited,
			msg:    "Rate limit reached",
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"max_tokens is too large","type":"invalid_request_error"}}`,
			want:   completion.ErrBadRequest,
			msg:    "max_tokens is too large",
		},
		{
			name:   "server error with plain body",
			status: http.StatusBadGateway,
			body:   "bad gateway",
			want:   completion.ErrUpstream,
			msg:    "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := client.Complete(context.Background(), "sk-test", completion.Request{Model: "m"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("error: got %v, want %v", err, tt.want)
			}

			var apiErr *completion.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status: got %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.msg {
				t.Errorf("message: got %q, want %q", apiErr.Message, tt.msg)
			}
		})
	}
}

func TestCompleteMalformedResponse(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	})

	_, err := client.Complete(context.Background(), "sk-test", completion.Request{Model: "m"})
	if !errors.Is(err, completion.ErrMalformedResponse) {
		t.Fatalf("error: got %v, want ErrMalformedResponse", err)
	}
}

func TestCompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := &completion.Config{BaseURL: url}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	_, err := completion.New(cfg).Complete(context.Background(), "sk-test", completion.Request{Model: "m"})
	if !errors.Is(err, completion.ErrTransport) {
		t.Fatalf("error: got %v, want ErrTransport", err)
	}
}

func TestResponseContent(t *testing.T) {
	text := "2"

	tests := []struct {
		name    string
		resp    completion.Response
		want    string
		wantErr error
	}{
		{
			name: "first choice",
			resp: completion.Response{Choices: []completion.Choice{
				{Message: completion.Reply{Content: &text}},
			}},
			want: "2",
		},
		{
			name:    "no choices",
			resp:    completion.Response{},
			wantErr: completion.ErrEmptyResponse,
		},
		{
			name: "null content",
			resp: completion.Response{Choices: []completion.Choice{
				{Message: completion.Reply{}},
			}},
			wantErr: completion.ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.resp.Content()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error: got %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("content: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg completion.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.BaseURL != completion.DefaultBaseURL {
			t.Errorf("base_url: got %s", cfg.BaseURL)
		}
		if cfg.Model != "gpt-4o" {
			t.Errorf("model: got %s, want gpt-4o", cfg.Model)
		}
		if cfg.MaxTokens != 10 {
			t.Errorf("max_tokens: got %d, want 10", cfg.MaxTokens)
		}
		if cfg.TimeoutDuration().String() != "30s" {
			t.Errorf("timeout: got %s, want 30s", cfg.TimeoutDuration())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_COMPLETION_MODEL", "gpt-3.5-turbo")
		t.Setenv("TEST_COMPLETION_TOKEN", "sk-env")
		t.Setenv("TEST_COMPLETION_MAX_TOKENS", "5")

		var cfg completion.Config
		err := cfg.Finalize(&completion.Env{
			Model:     "TEST_COMPLETION_MODEL",
			Token:     "TEST_COMPLETION_TOKEN",
			MaxTokens: "TEST_COMPLETION_MAX_TOKENS",
		})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Model != "gpt-3.5-turbo" {
			t.Errorf("model: got %s", cfg.Model)
		}
		if cfg.Token != "sk-env" {
			t.Errorf("token: got %s", cfg.Token)
		}
		if cfg.MaxTokens != 5 {
			t.Errorf("max_tokens: got %d", cfg.MaxTokens)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			cfg  completion.Config
		}{
			{"relative base_url", completion.Config{BaseURL: "api/v1"}},
			{"negative max_tokens", completion.Config{MaxTokens: -1}},
			{"bad timeout", completion.Config{Timeout: "soon"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.cfg.Finalize(nil); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := completion.Config{Model: "gpt-4o", MaxTokens: 10}
		base.Merge(&completion.Config{Model: "gpt-3.5-turbo"})
		if base.Model != "gpt-3.5-turbo" {
			t.Errorf("model: got %s", base.Model)
		}
		if base.MaxTokens != 10 {
			t.Errorf("max_tokens: got %d, want 10 (unchanged)", base.MaxTokens)
		}
	})
}
