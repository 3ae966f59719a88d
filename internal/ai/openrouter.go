// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Defaults for the OpenRouter chat completions API.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "anthropic/claude-3-7-sonnet-20250219"
	DefaultReferer = "https://replit.com"
	DefaultTitle   = "PromptPolish Extension"
)

// openRouterProvider implements the Provider interface using the
// OpenAI-compatible OpenRouter chat completions API
// (POST /api/v1/chat/completions).
type openRouterProvider struct {
	config ProviderConfig
	http   *resty.Client
}

// NewOpenRouter creates the OpenRouter provider. Empty config fields fall
// back to the package defaults. No client-level timeout is set; deadlines
// come from the request context.
func NewOpenRouter(cfg ProviderConfig) Provider {
	return newOpenRouter(cfg)
}

func newOpenRouter(cfg ProviderConfig) *openRouterProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Referer == "" {
		cfg.Referer = DefaultReferer
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &openRouterProvider{
		config: cfg,
		http:   resty.New(),
	}
}

func (p *openRouterProvider) Name() string { return "openrouter" }

// Complete sends one chat completion request and returns the first choice's
// message content. A response without choices yields an empty string.
func (p *openRouterProvider) Complete(ctx context.Context, c Completion) (string, error) {
	body := chatRequest{
		Model: p.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.System},
			{Role: "user", Content: c.User},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}

	var result chatResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+p.config.APIKey).
		SetHeader("HTTP-Referer", p.config.Referer).
		SetHeader("X-Title", p.config.Title).
		SetBody(body).
		SetResult(&result).
		ForceContentType("application/json").
		Post(p.config.BaseURL + "/chat/completions")
	if err != nil {
		if resp != nil && resp.StatusCode() != 0 && !resp.IsSuccess() {
			return "", &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
		}
		return "", &UpstreamError{Err: fmt.Errorf("openrouter http: %w", err)}
	}

	if !resp.IsSuccess() {
		return "", &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}

// --- OpenAI-compatible request/response types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
