package openrouter

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestRequestTemperatureSerializes(t *testing.T) {
	data, err := json.Marshal(openai.ChatCompletionRequest{
		Model:       "openai/gpt-4o-mini",
		Temperature: requestTemperature,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}

	raw, ok := body["temperature"]
	if !ok {
		t.Fatalf("temperature missing from request body %s", data)
	}

	var temp float64
	if err := json.Unmarshal(raw, &temp); err != nil {
		t.Fatalf("parse temperature: %v", err)
	}
	if temp < 0 || temp > 1e-30 {
		t.Errorf("temperature = %g, want an effective zero", temp)
	}
}
