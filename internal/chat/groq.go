package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// GroqAPIKeyEnv names the environment variable holding the Groq key.
const GroqAPIKeyEnv = "GROQ_API_KEY"

// GroqProvider talks to the Groq OpenAI-compatible API.
type GroqProvider struct{}

func init() {
	RegisterProvider(&GroqProvider{})
	RegisterProvider(&OllamaProvider{})
}

func (g *GroqProvider) Name() string { return "groq" }

func (g *GroqProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return completionsURL(baseURL)
}

func (g *GroqProvider) SetHeaders(req *http.Request) {
	if key := os.Getenv(GroqAPIKeyEnv); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
}

func (g *GroqProvider) Enabled() bool {
	return os.Getenv(GroqAPIKeyEnv) != ""
}

func (g *GroqProvider) DefaultModel() string {
	return "llama-3.1-8b-instant"
}

func (g *GroqProvider) BuildRequestBody(model string, messages []Message, temperature *float64, maxTokens int) ([]byte, error) {
	return buildOpenAIBody(model, messages, temperature, maxTokens)
}

func (g *GroqProvider) ParseResponse(body []byte) (*Response, error) {
	return parseOpenAIResponse(body)
}

// OllamaProvider talks to a local Ollama server through its
// OpenAI-compatible endpoint. No credentials needed.
type OllamaProvider struct{}

func (o *OllamaProvider) Name() string { return "ollama" }

func (o *OllamaProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	return completionsURL(baseURL)
}

func (o *OllamaProvider) SetHeaders(req *http.Request) {}

func (o *OllamaProvider) Enabled() bool { return true }

func (o *OllamaProvider) DefaultModel() string {
	return "llama3.1"
}

func (o *OllamaProvider) BuildRequestBody(model string, messages []Message, temperature *float64, maxTokens int) ([]byte, error) {
	return buildOpenAIBody(model, messages, temperature, maxTokens)
}

func (o *OllamaProvider) ParseResponse(body []byte) (*Response, error) {
	return parseOpenAIResponse(body)
}

func completionsURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}

// openAIRequest is the OpenAI-compatible request format both providers use.
type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

func buildOpenAIBody(model string, messages []Message, temperature *float64, maxTokens int) ([]byte, error) {
	req := openAIRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}
	return json.Marshal(req)
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func parseOpenAIResponse(body []byte) (*Response, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		FinishReason: resp.Choices[0].FinishReason,
	}, nil
}
