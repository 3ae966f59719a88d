// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package extension implements the message bridge used by the browser
// extension's background worker. Popup and context-menu messages are
// forwarded to the PromptPolish API and successful results are kept in the
// local history.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"promptpolish/internal/ai"
	"promptpolish/internal/apiclient"
	"promptpolish/internal/history"
	"promptpolish/internal/models"
)

// Message actions.
const (
	ActionOptimizeFromPopup = "optimizeFromPopup"
	ActionOptimize          = "optimize"
)

// FallbackPrefix marks text returned by the offline fallback.
const FallbackPrefix = "[Optimized by PromptPolish]\n\n"

// Message is one request from the popup or a context-menu click. Popup
// messages carry Data; context-menu messages carry Type and Text.
type Message struct {
	Action string             `json:"action"`
	Data   *models.RawRequest `json:"data,omitempty"`
	Type   string             `json:"type,omitempty"`
	Text   string             `json:"text,omitempty"`
}

// Result is the payload of a successful Response.
type Result struct {
	OptimizedText string `json:"optimizedText"`
}

// Response is the answer sent back to the message's sender.
type Response struct {
	Success  bool    `json:"success"`
	Result   *Result `json:"result,omitempty"`
	Error    string  `json:"error,omitempty"`
	Fallback bool    `json:"fallback,omitempty"`
}

// Optimizer forwards a request to the server. *apiclient.Client satisfies it.
type Optimizer interface {
	Optimize(ctx context.Context, req models.RawRequest) (string, error)
}

// Options tunes the bridge.
type Options struct {
	// AllowOfflineFallback answers with the input text, marked with
	// FallbackPrefix, when the server cannot be reached.
	AllowOfflineFallback bool
}

// Bridge dispatches extension messages. It is safe for concurrent use.
type Bridge struct {
	api  Optimizer
	log  history.Log
	opts Options
	ids  *history.IDGenerator
	now  func() time.Time
}

// NewBridge creates a bridge. log may be nil, in which case nothing is
// recorded locally.
func NewBridge(api Optimizer, log history.Log, opts Options) *Bridge {
	return &Bridge{
		api:  api,
		log:  log,
		opts: opts,
		ids:  history.NewIDGenerator(),
		now:  time.Now,
	}
}

// Handle processes one message and returns its response.
func (b *Bridge) Handle(ctx context.Context, msg Message) Response {
	switch msg.Action {
	case ActionOptimizeFromPopup:
		var raw models.RawRequest
		if msg.Data != nil {
			raw = *msg.Data
		}
		return b.optimize(ctx, raw)
	case ActionOptimize:
		return b.optimize(ctx, contextMenuRequest(msg.Type, msg.Text))
	default:
		return failure("unknown action")
	}
}

// Dispatch runs Handle in its own goroutine. The returned channel receives
// exactly one Response and is then closed.
func (b *Bridge) Dispatch(ctx context.Context, msg Message) <-chan Response {
	ch := make(chan Response, 1)
	go func() {
		defer close(ch)
		ch <- b.Handle(ctx, msg)
	}()
	return ch
}

// contextMenuRequest builds the request for a context-menu selection.
// Website requests get the default brief settings.
func contextMenuRequest(mode, text string) models.RawRequest {
	req := models.RawRequest{Type: mode, Text: text}
	if mode == string(models.ModeWebsite) {
		req.Options = &models.RawWebsiteOptions{
			WebsiteType: models.DefaultWebsiteType,
			DesignStyle: models.DefaultDesignStyle,
			Features:    models.DefaultFeatures(),
		}
	}
	return req
}

func (b *Bridge) optimize(ctx context.Context, raw models.RawRequest) Response {
	req, err := models.ParseRequest(raw)
	if err != nil {
		return failure(err.Error())
	}

	text, err := b.api.Optimize(ctx, raw)
	if err != nil {
		if apiclient.IsNetworkError(err) && b.opts.AllowOfflineFallback {
			slog.Warn("server unreachable, using offline fallback", "error", err)
			return Response{
				Success:  true,
				Result:   &Result{OptimizedText: FallbackPrefix + raw.Text},
				Fallback: true,
			}
		}
		slog.Warn("extension optimization failed", "mode", req.Mode(), "error", err)
		return failure(describe(err))
	}

	if !isEmptyResult(req.Mode(), text) {
		b.record(ctx, req, text)
	}
	return Response{Success: true, Result: &Result{OptimizedText: text}}
}

func (b *Bridge) record(ctx context.Context, req models.OptimizationRequest, text string) {
	if b.log == nil {
		return
	}
	rec := models.NewHistoryRecord(b.ids.Next(), req, text, b.now())
	if _, err := b.log.Append(context.WithoutCancel(ctx), rec); err != nil {
		slog.Warn("failed to save local history",
			"id", rec.ID,
			"error", &history.PersistError{Op: "append", Err: err},
		)
	}
}

// isEmptyResult reports whether text is the server's no-content sentinel.
func isEmptyResult(mode models.Mode, text string) bool {
	if mode == models.ModeWebsite {
		return text == ai.EmptyWebsiteResult
	}
	return text == ai.EmptyGeneralResult
}

// describe renders err for the extension UI.
func describe(err error) string {
	var se *apiclient.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("API Error (%d): %s", se.StatusCode, se.Body)
	}
	return err.Error()
}

func failure(msg string) Response {
	return Response{Success: false, Error: msg}
}
