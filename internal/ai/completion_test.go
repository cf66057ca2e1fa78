package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteReadsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		var body struct {
			Model    string        `json:"model"`
			Messages []ChatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hi there"}},{"message":{"content":"second"}}]}`))
	}))
	defer srv.Close()

	client := NewCompletionClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "mistral-small-latest"}

	reply, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "Hello"}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "Hi there" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewCompletionClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "m"}
	if _, err := client.Complete(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewCompletionClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "m"}
	if _, err := client.Complete(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestStreamCompleteAssemblesChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"choices\":[{\"delta\":{\"content\":\"Hi \"}}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"there\"}}]}\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := NewCompletionClient()
	cfg := ChatConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "m"}

	var chunks []string
	full, err := client.StreamComplete(context.Background(), cfg, nil, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("stream complete: %v", err)
	}
	if full != "Hi there" {
		t.Fatalf("unexpected full text: %q", full)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}
