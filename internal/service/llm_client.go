package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"testgen/internal/config"
)

// TextGenerator sends one prompt to a hosted model and returns its raw text.
// Errors are *GenerationError values.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewTextGenerator returns the provider named by cfg, or nil when AI is not configured
func NewTextGenerator(cfg *config.AIConfig) TextGenerator {
	if !cfg.IsEnabled() {
		return nil
	}
	rc := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutMS) * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return &openAIGenerator{cfg: cfg, http: rc}
	case config.ProviderGemini:
		return &geminiGenerator{cfg: cfg, http: rc}
	default:
		return &huggingFaceGenerator{cfg: cfg, http: rc}
	}
}

// send posts body and returns the raw response body of a 200
func send(req *resty.Request, endpoint string, body interface{}) ([]byte, error) {
	resp, err := req.SetBody(body).Post(endpoint)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError(resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

// huggingFaceGenerator calls the raw text-generation inference API
type huggingFaceGenerator struct {
	cfg  *config.AIConfig
	http *resty.Client
}

func (g *huggingFaceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		// instruction-tuned models expect the chat markers around the prompt
		"inputs": "<s>[INST] " + prompt + " [/INST]</s>",
		"parameters": map[string]interface{}{
			"temperature":      g.cfg.Temperature,
			"max_new_tokens":   g.cfg.MaxTokens,
			"return_full_text": false,
		},
	}
	body, err := send(g.http.R().SetContext(ctx).SetAuthToken(g.cfg.APIKey), g.cfg.ModelEndpoint(), reqBody)
	if err != nil {
		return "", err
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", invalidJSONError(err, string(body))
	}
	if len(out) == 0 {
		return "", invalidJSONError(errors.New("empty generation list"), string(body))
	}
	return out[0].GeneratedText, nil
}

// openAIGenerator calls an OpenAI-compatible chat completions endpoint
type openAIGenerator struct {
	cfg  *config.AIConfig
	http *resty.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": g.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": g.cfg.Temperature,
		"max_tokens":  g.cfg.MaxTokens,
	}
	body, err := send(g.http.R().SetContext(ctx).SetAuthToken(g.cfg.APIKey), g.cfg.ModelEndpoint(), reqBody)
	if err != nil {
		return "", err
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", invalidJSONError(err, string(body))
	}
	if len(out.Choices) == 0 {
		return "", invalidJSONError(errors.New("no choices in response"), string(body))
	}
	return out.Choices[0].Message.Content, nil
}

// geminiGenerator calls the Gemini generateContent endpoint
type geminiGenerator struct {
	cfg  *config.AIConfig
	http *resty.Client
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      g.cfg.Temperature,
			"maxOutputTokens":  g.cfg.MaxTokens,
		},
	}
	req := g.http.R().SetContext(ctx).SetQueryParam("key", g.cfg.APIKey)
	body, err := send(req, g.cfg.ModelEndpoint(), reqBody)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", invalidJSONError(err, string(body))
	}
	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", invalidJSONError(fmt.Errorf("empty response from Gemini"), string(body))
}
