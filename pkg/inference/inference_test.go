package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Result
	}{
		{
			name:    "full result",
			content: `{"reply":"That sounds hard.","emotion":"Anxious","intensity":6,"crisis":false}`,
			want:    Result{Reply: "That sounds hard.", Emotion: "anxious", Intensity: 6, HasEmotion: true},
		},
		{
			name:    "null emotion",
			content: `{"reply":"Tell me more.","emotion":null}`,
			want:    Result{Reply: "Tell me more."},
		},
		{
			name:    "missing intensity",
			content: `{"reply":"ok","emotion":"calm"}`,
			want:    Result{Reply: "ok", Emotion: "calm", Intensity: DefaultIntensity, HasEmotion: true},
		},
		{
			name:    "crisis passes through",
			content: `{"reply":"Please reach out.","emotion":"sad","intensity":9,"crisis":true}`,
			want:    Result{Reply: "Please reach out.", Emotion: "sad", Intensity: 9, HasEmotion: true, Crisis: true},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"reply\":\"hi\",\"emotion\":\"happy\",\"intensity\":1}\n```",
			want:    Result{Reply: "hi", Emotion: "happy", Intensity: 1, HasEmotion: true},
		},
		{
			name:    "plain text",
			content: "I'm glad you had a good day!",
			want:    Result{Reply: "I'm glad you had a good day!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseResult(tt.content); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestOpenAIInfer(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		content := `{"reply":"Breathe slowly.","emotion":"anxious","intensity":4,"crisis":false}`
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "test-model"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	res, err := client.Infer(context.Background(), Request{
		Text:    "exam tomorrow",
		Context: []Turn{{Role: "user", Text: "hi"}, {Role: "assistant", Text: "hello"}},
	})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if !res.HasEmotion || res.Emotion != "anxious" || res.Intensity != 4 {
		t.Fatalf("unexpected result %+v", res)
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 4 {
		t.Fatalf("expected system + 2 context + user messages, got %d", len(msgs))
	}
	if gotBody["model"] != "test-model" {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
}

func TestOpenAIInferServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"down","type":"server_error"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Infer(context.Background(), Request{Text: "hello"}); err == nil {
		t.Fatalf("expected error from failing server")
	}
}

func TestNewOpenAIRequiresKeyOrBaseURL(t *testing.T) {
	if _, err := NewOpenAI(Config{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
