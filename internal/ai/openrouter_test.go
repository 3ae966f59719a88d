// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The caller must call Close on the returned server.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

// chatSuccessBody builds a JSON body matching the chat completions response
// format with a single choice containing the given text.
func chatSuccessBody(text string) []byte {
	resp := chatResponse{
		Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func testProvider(baseURL string) *openRouterProvider {
	return newOpenRouter(ProviderConfig{
		APIKey:  "test-key",
		Model:   "anthropic/claude-3-7-sonnet-20250219",
		BaseURL: baseURL,
	})
}

// =====================================================================
// OpenRouter Provider Tests
// =====================================================================

func TestOpenRouterComplete_Success(t *testing.T) {
	want := "Hello from OpenRouter"
	srv := newTestServer(t, http.StatusOK, chatSuccessBody(want))
	defer srv.Close()

	got, err := testProvider(srv.URL).Complete(context.Background(), Completion{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Complete: got %q, want %q", got, want)
	}
}

func TestOpenRouterComplete_VerifiesRequest(t *testing.T) {
	// Capture request path, headers and body sent by the provider.
	var capturedPath string
	var capturedHeaders http.Header
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedHeaders = r.Header.Clone()
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(chatSuccessBody("ok"))
	}))
	defer srv.Close()

	p := newOpenRouter(ProviderConfig{
		APIKey:  "sk-or-12345",
		Model:   "anthropic/claude-3-7-sonnet-20250219",
		BaseURL: srv.URL + "/api/v1/",
		Title:   "PromptPolish Test",
	})

	_, err := p.Complete(context.Background(), Completion{
		System:      "system prompt",
		User:        "user prompt",
		MaxTokens:   1500,
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}

	if capturedPath != "/api/v1/chat/completions" {
		t.Errorf("path: got %q, want /api/v1/chat/completions", capturedPath)
	}
	if got := capturedHeaders.Get("Authorization"); got != "Bearer sk-or-12345" {
		t.Errorf("Authorization header: got %q", got)
	}
	if got := capturedHeaders.Get("X-Title"); got != "PromptPolish Test" {
		t.Errorf("X-Title header: got %q", got)
	}
	if got := capturedHeaders.Get("HTTP-Referer"); got != DefaultReferer {
		t.Errorf("HTTP-Referer header: got %q, want %q", got, DefaultReferer)
	}
	if ct := capturedHeaders.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q", ct)
	}

	var reqBody chatRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.Model != "anthropic/claude-3-7-sonnet-20250219" {
		t.Errorf("request model: got %q", reqBody.Model)
	}
	if reqBody.Temperature != 0.5 {
		t.Errorf("temperature: got %v, want 0.5", reqBody.Temperature)
	}
	if reqBody.MaxTokens != 1500 {
		t.Errorf("max_tokens: got %d, want 1500", reqBody.MaxTokens)
	}
	if len(reqBody.Messages) != 2 {
		t.Fatalf("request messages count: got %d, want 2", len(reqBody.Messages))
	}
	if reqBody.Messages[0].Role != "system" || reqBody.Messages[0].Content != "system prompt" {
		t.Errorf("system message: got %+v", reqBody.Messages[0])
	}
	if reqBody.Messages[1].Role != "user" || reqBody.Messages[1].Content != "user prompt" {
		t.Errorf("user message: got %+v", reqBody.Messages[1])
	}
}

func TestOpenRouterComplete_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, []byte(`{"error":{"message":"No auth credentials found"}}`))
	defer srv.Close()

	_, err := testProvider(srv.URL).Complete(context.Background(), Completion{System: "sys", User: "usr"})
	if err == nil {
		t.Fatal("expected error for HTTP 401, got nil")
	}

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if ue.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", ue.StatusCode)
	}
	if !strings.Contains(ue.Body, "No auth credentials found") {
		t.Errorf("body should carry the raw response: got %q", ue.Body)
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error should mention status 401: got %q", err.Error())
	}
}

func TestOpenRouterComplete_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{not json`))
	defer srv.Close()

	_, err := testProvider(srv.URL).Complete(context.Background(), Completion{System: "sys", User: "usr"})
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
}

func TestOpenRouterComplete_EmptyChoices(t *testing.T) {
	body, _ := json.Marshal(chatResponse{Choices: []chatChoice{}})
	srv := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	got, err := testProvider(srv.URL).Complete(context.Background(), Completion{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("empty choices should not be a transport error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty content, got %q", got)
	}
}

func TestOpenRouterComplete_ConnectionRefused(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, chatSuccessBody("ok"))
	url := srv.URL
	srv.Close() // Nothing listens on url anymore.

	_, err := testProvider(url).Complete(context.Background(), Completion{System: "sys", User: "usr"})
	if err == nil {
		t.Fatal("expected error for unreachable backend, got nil")
	}
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if ue.StatusCode != 0 {
		t.Errorf("transport failures carry no status, got %d", ue.StatusCode)
	}
}

func TestOpenRouterComplete_CancelledContext(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, chatSuccessBody("ok"))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	_, err := testProvider(srv.URL).Complete(ctx, Completion{System: "sys", User: "usr"})
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestOpenRouterDefaults(t *testing.T) {
	p := newOpenRouter(ProviderConfig{APIKey: "k"})
	if p.config.BaseURL != DefaultBaseURL {
		t.Errorf("default BaseURL: got %q, want %q", p.config.BaseURL, DefaultBaseURL)
	}
	if p.config.Model != DefaultModel {
		t.Errorf("default Model: got %q, want %q", p.config.Model, DefaultModel)
	}
	if p.config.Title != DefaultTitle {
		t.Errorf("default Title: got %q, want %q", p.config.Title, DefaultTitle)
	}
	if p.Name() != "openrouter" {
		t.Errorf("Name: got %q, want %q", p.Name(), "openrouter")
	}
}
