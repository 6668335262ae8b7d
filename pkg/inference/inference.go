// Package inference is the boundary to the remote emotion classifier used by
// the chat surface.
package inference

import (
	"context"
	"encoding/json"
	"strings"
)

// DefaultIntensity is assumed when a result names an emotion without an
// intensity.
const DefaultIntensity = 5

// Turn is one earlier message of the conversation.
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Request is what the engine sends for one user message.
type Request struct {
	Text    string
	Context []Turn
}

// Result is the classifier's answer. HasEmotion is false when the response
// carried no emotion field, in which case the caller classifies Reply itself.
// Crisis is passed to the presentation layer as is.
type Result struct {
	Reply      string  `json:"reply"`
	Emotion    string  `json:"emotion,omitempty"`
	Intensity  float64 `json:"intensity,omitempty"`
	HasEmotion bool    `json:"hasEmotion"`
	Crisis     bool    `json:"crisis"`
}

// Inferrer classifies a user message remotely.
type Inferrer interface {
	Infer(ctx context.Context, req Request) (Result, error)
}

type wireResult struct {
	Reply     string   `json:"reply"`
	Emotion   *string  `json:"emotion"`
	Intensity *float64 `json:"intensity"`
	Crisis    bool     `json:"crisis"`
}

// ParseResult decodes a JSON answer of the form
// {"reply": "...", "emotion": "...", "intensity": 0-10, "crisis": false}.
// Content that is not such an object is treated as a plain reply without an
// emotion.
func ParseResult(content string) Result {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var w wireResult
	if err := json.Unmarshal([]byte(trimmed), &w); err != nil {
		return Result{Reply: strings.TrimSpace(content)}
	}
	r := Result{Reply: strings.TrimSpace(w.Reply), Crisis: w.Crisis}
	if w.Emotion != nil && strings.TrimSpace(*w.Emotion) != "" {
		r.HasEmotion = true
		r.Emotion = strings.ToLower(strings.TrimSpace(*w.Emotion))
		r.Intensity = DefaultIntensity
		if w.Intensity != nil {
			r.Intensity = *w.Intensity
		}
	}
	return r
}
