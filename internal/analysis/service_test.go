package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emotipal/psychobot/internal/exam"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	clientCfg := openai.DefaultConfig("test-key")
	clientCfg.BaseURL = server.URL + "/v1"
	client := openai.NewClientWithConfig(clientCfg)

	return NewWithClient(client, Config{TimeoutSeconds: 5})
}

func samplePayload() *exam.ResultPayload {
	return &exam.ResultPayload{
		UserContext: exam.UserContext{ID: 1001, CompletedAt: "2025-03-14 09:26:53"},
		Tests: map[string][]exam.ResultEntry{
			"demo": {
				{
					Question:       "Parties or books?",
					SelectedOption: "Books",
					Weights:        json.RawMessage(`{"I":2}`),
				},
			},
		},
	}
}

func completionResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     120,
			"completion_tokens": 250,
			"total_tokens":      370,
		},
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	handler := func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse(
			`{"typology":"INFJ profile","career_roadmap":"Research roles",` +
				`"lifestyle":"Ambient music","locations":"Norway, Japan, Canada",` +
				`"social_relations":"Listens well"}`,
		))
	}

	svc := newTestService(t, handler)
	report, err := svc.Analyze(context.Background(), samplePayload())
	require.NoError(t, err)

	assert.Equal(t, "INFJ profile", report.Typology)
	assert.Equal(t, "Research roles", report.CareerRoadmap)
	assert.Equal(t, "Ambient music", report.Lifestyle)
	assert.Equal(t, "Norway, Japan, Canada", report.Locations)
	assert.Equal(t, "Listens well", report.SocialRelations)

	assert.Equal(t, "gpt-4o", gotReq.Model)
	assert.InDelta(t, 0.7, gotReq.Temperature, 0.001)
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, gotReq.ResponseFormat.Type)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, `"user_context"`)
	assert.Contains(t, gotReq.Messages[1].Content, "Parties or books?")
}

func TestAnalyzeRejectsNonJSONContent(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("I cannot produce JSON today."))
	}

	svc := newTestService(t, handler)
	_, err := svc.Analyze(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model response")
}

func TestAnalyzeServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "server_error",
				"message": "Internal server error",
			},
		})
	}

	svc := newTestService(t, handler)
	_, err := svc.Analyze(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis request")
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := completionResponse("")
		resp["choices"] = []map[string]any{}
		_ = json.NewEncoder(w).Encode(resp)
	}

	svc := newTestService(t, handler)
	_, err := svc.Analyze(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	svc, err := New(Config{APIKey: "sk-test", BaseURL: "https://openrouter.ai/api/v1"})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
