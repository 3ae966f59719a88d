// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apiclient is a typed HTTP client for the PromptPolish server API.
// The extension bridge and the CLI use it to reach a running server.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"promptpolish/internal/models"
)

// DefaultBaseURL is where a locally started server listens.
const DefaultBaseURL = "http://localhost:5000"

// DefaultTimeout bounds a whole request, including the server's own
// backend deadline plus some slack.
const DefaultTimeout = 90 * time.Second

// StatusError is returned when the server answers with a non-2xx status.
// Message holds the server's "message" field when the body carried one.
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("promptpolish api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("promptpolish api: status %d: %s", e.StatusCode, e.Body)
}

// NetworkError wraps a transport failure: the server could not be reached
// or the connection broke before a response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "promptpolish api: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is a transport failure rather than an
// answer from the server.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// Client talks to one PromptPolish server.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL. A zero timeout selects
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

type optimizeResponse struct {
	OptimizedText string `json:"optimizedText"`
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Optimize submits req to POST /api/optimize and returns the optimized text.
func (c *Client) Optimize(ctx context.Context, req models.RawRequest) (string, error) {
	var out optimizeResponse
	if err := c.do(ctx, "POST", "/api/optimize", req, &out); err != nil {
		return "", err
	}
	return out.OptimizedText, nil
}

// History lists the server's history records, newest first.
func (c *Client) History(ctx context.Context) ([]models.HistoryRecord, error) {
	var out []models.HistoryRecord
	if err := c.do(ctx, "GET", "/api/history", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.HistoryRecord{}
	}
	return out, nil
}

// GetHistory fetches one server history record by id.
func (c *Client) GetHistory(ctx context.Context, id string) (models.HistoryRecord, error) {
	var out models.HistoryRecord
	err := c.do(ctx, "GET", "/api/history/"+url.PathEscape(id), nil, &out)
	return out, err
}

// RemoveHistory deletes one server history record.
func (c *Client) RemoveHistory(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/api/history/"+url.PathEscape(id), nil, nil)
}

// ClearHistory deletes all server history.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, "DELETE", "/api/history", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var apiErr apiError
	r := c.http.R().
		SetContext(ctx).
		SetError(&apiErr).
		ForceContentType("application/json")
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		r.SetResult(result)
	}

	resp, err := r.Execute(method, path)
	if err != nil {
		if resp != nil && resp.StatusCode() != 0 {
			if resp.IsSuccess() {
				return fmt.Errorf("promptpolish api: decode %s %s: %w", method, path, err)
			}
			return &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
		}
		return &NetworkError{Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}
	if !resp.IsSuccess() {
		return &StatusError{
			StatusCode: resp.StatusCode(),
			Message:    apiErr.Message,
			Body:       resp.String(),
		}
	}
	return nil
}
