package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/bookforge-backend/internal/platform/logger"
)

func responsesPayload(text string) map[string]any {
	return map[string]any{
		"output": []map[string]any{
			{
				"type": "message",
				"role": "assistant",
				"content": []map[string]any{
					{"type": "output_text", "text": text},
				},
			},
		},
		"usage": map[string]any{"input_tokens": 12, "output_tokens": 34},
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) Client {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)
	t.Setenv("OPENAI_MAX_RETRIES", "2")
	c, err := NewClient(logger.NewNop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing auth header: %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if m, ok := req["model"].(string); !ok || m == "" {
			t.Errorf("request missing model")
		}
		_ = json.NewEncoder(w).Encode(responsesPayload("hello from the model"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.GenerateText(context.Background(), "be brief", "say hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "hello from the model" {
		t.Fatalf("output mismatch: %q", got)
	}
}

func TestGenerateTextRetriesOn500(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			http.Error(w, `{"error": {"message": "internal"}}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(responsesPayload("recovered"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.GenerateText(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("output mismatch: %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
}

func TestGenerateTextDoesNotRetry400(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error": {"message": "bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.GenerateText(context.Background(), "sys", "user"); err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("400 must not be retried, got %d calls", calls)
	}
}

func TestGenerateTextTemperatureFallback(t *testing.T) {
	var sawTemperature, retriedWithout int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := req["temperature"]; ok {
			atomic.StoreInt32(&sawTemperature, 1)
			http.Error(w, `{"error": {"message": "Unsupported parameter: 'temperature' is not supported with this model."}}`, http.StatusBadRequest)
			return
		}
		atomic.StoreInt32(&retriedWithout, 1)
		_ = json.NewEncoder(w).Encode(responsesPayload("no-temp output"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.GenerateText(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "no-temp output" {
		t.Fatalf("output mismatch: %q", got)
	}
	if sawTemperature != 1 || retriedWithout != 1 {
		t.Fatalf("expected temperature rejection then bare retry, got temp=%d retry=%d", sawTemperature, retriedWithout)
	}

	// The rejection is learned: a second call omits temperature immediately.
	atomic.StoreInt32(&sawTemperature, 0)
	if _, err := c.GenerateText(context.Background(), "sys", "user"); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if sawTemperature != 0 {
		t.Fatalf("model should be remembered as no-temperature")
	}
}

func TestGenerateTextEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"output": []any{}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.GenerateText(context.Background(), "sys", "user"); err == nil || !strings.Contains(err.Error(), "no output_text") {
		t.Fatalf("expected empty-output error, got %v", err)
	}
}

func TestParseNoTempModelRules(t *testing.T) {
	models, prefixes := parseNoTempModelRules("o1-*, gpt-5, O3-* ,")
	if !models["gpt-5"] {
		t.Fatalf("exact model missing: %v", models)
	}
	if len(prefixes) != 2 || prefixes[0] != "o1" || prefixes[1] != "o3" {
		t.Fatalf("prefix rules mismatch: %v", prefixes)
	}
}
