// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package optimizer runs one optimization end to end: it validates the raw
// request, renders the prompt, calls the backend and records the result in
// the history log.
package optimizer

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"promptpolish/internal/ai"
	"promptpolish/internal/history"
	"promptpolish/internal/models"
	"promptpolish/internal/prompt"
)

// Backend executes a rendered prompt. *ai.Client satisfies it.
type Backend interface {
	Optimize(ctx context.Context, p prompt.Prompt) (ai.Result, error)
}

// Outcome is the eventual result of an asynchronous optimization.
type Outcome struct {
	Text string
	Err  error
}

// Service routes optimization requests. It is safe for concurrent use.
type Service struct {
	backend Backend
	log     history.Log
	ids     *history.IDGenerator
	now     func() time.Time
}

// New creates a service. log may be nil, in which case nothing is recorded.
func New(backend Backend, log history.Log) *Service {
	return &Service{
		backend: backend,
		log:     log,
		ids:     history.NewIDGenerator(),
		now:     time.Now,
	}
}

// HandleOptimize validates raw, performs exactly one backend call and
// returns the optimized text. Errors are *models.ValidationError (no
// backend call made), *ai.UpstreamError or *ai.TimeoutError.
//
// The backend call and the history write are detached from ctx
// cancellation: a caller that goes away does not abort a call already in
// flight, which stays bounded by the client's deadline.
func (s *Service) HandleOptimize(ctx context.Context, raw models.RawRequest) (string, error) {
	req, err := models.ParseRequest(raw)
	if err != nil {
		return "", err
	}

	start := time.Now()
	work := context.WithoutCancel(ctx)

	res, err := s.backend.Optimize(work, prompt.Build(req))
	if err != nil {
		slog.Warn("optimization failed",
			"mode", req.Mode(),
			"duration", time.Since(start),
			"error", err,
		)
		return "", err
	}

	if res.Empty {
		slog.Warn("optimization returned no content", "mode", req.Mode())
		return res.Text, nil
	}

	s.record(work, req, res.Text)

	slog.Info("optimization completed",
		"mode", req.Mode(),
		"input_chars", utf8.RuneCountInString(req.Input()),
		"output_chars", utf8.RuneCountInString(res.Text),
		"duration", time.Since(start),
	)
	return res.Text, nil
}

// Submit starts HandleOptimize in its own goroutine. The returned channel
// receives exactly one Outcome and is then closed.
func (s *Service) Submit(ctx context.Context, raw models.RawRequest) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		text, err := s.HandleOptimize(ctx, raw)
		ch <- Outcome{Text: text, Err: err}
	}()
	return ch
}

// record appends the history entry. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, req models.OptimizationRequest, optimized string) {
	if s.log == nil {
		return
	}
	rec := models.NewHistoryRecord(s.ids.Next(), req, optimized, s.now())
	if _, err := s.log.Append(ctx, rec); err != nil {
		slog.Warn("failed to record optimization history",
			"id", rec.ID,
			"error", &history.PersistError{Op: "append", Err: err},
		)
	}
}
