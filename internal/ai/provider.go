// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai sends rendered optimization prompts to the chat-completion
// backend and classifies its failures. A single Provider (OpenRouter) does
// the HTTP work; Client adds the deadline, the fixed sampling settings and
// the empty-result handling on top of it.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"promptpolish/internal/models"
	"promptpolish/internal/prompt"
)

// Temperature is used for every optimization call. Rewrites favour
// determinism over creativity.
const Temperature = 0.5

// DefaultTimeout bounds a backend call when no explicit deadline is set.
const DefaultTimeout = 60 * time.Second

// Sentinel texts returned when the backend answers without usable content.
const (
	EmptyGeneralResult = "Failed to optimize text"
	EmptyWebsiteResult = "Failed to optimize website prompt"
)

// Completion is one chat-completion call.
type Completion struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Provider defines the backend transport. Complete returns the content of
// the first choice, which may be empty; an error means the call itself
// failed.
type Provider interface {
	Complete(ctx context.Context, c Completion) (string, error)

	// Name returns the provider identifier (e.g., "openrouter").
	Name() string
}

// ProviderConfig holds the credentials and settings for the provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Referer string // sent as HTTP-Referer, used by OpenRouter for attribution
	Title   string // sent as X-Title
}

// Result is the outcome of a successful optimization call. Empty is set
// when the backend returned no content; Text then holds the sentinel.
type Result struct {
	Text  string
	Empty bool
}

// Client executes optimization prompts against a Provider.
// It is safe for concurrent use.
type Client struct {
	provider Provider
	timeout  time.Duration
}

// NewClient creates a client. A zero timeout means DefaultTimeout; a
// negative timeout disables the deadline.
func NewClient(p Provider, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{provider: p, timeout: timeout}
}

// Optimize performs exactly one backend call for the prompt. There are no
// retries. Failures are *UpstreamError or *TimeoutError.
func (c *Client) Optimize(ctx context.Context, p prompt.Prompt) (Result, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	content, err := c.provider.Complete(callCtx, Completion{
		System:      p.System,
		User:        p.User,
		MaxTokens:   p.MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return Result{}, &TimeoutError{After: c.timeout, Err: err}
		}
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return Result{}, err
		}
		return Result{}, &UpstreamError{Err: fmt.Errorf("%s: %w", c.provider.Name(), err)}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return Result{Text: emptyResult(p.Mode), Empty: true}, nil
	}
	return Result{Text: content}, nil
}

func emptyResult(mode models.Mode) string {
	if mode == models.ModeWebsite {
		return EmptyWebsiteResult
	}
	return EmptyGeneralResult
}
