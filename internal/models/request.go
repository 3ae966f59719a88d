// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the request and record types shared by the
// optimization pipeline, the history backends and the HTTP surface.
package models

import (
	"strings"
	"unicode/utf8"
)

// Mode selects the prompt template family used for an optimization.
type Mode string

const (
	ModeGeneral Mode = "general"
	ModeWebsite Mode = "website"
)

// Default website options applied when a request omits them.
const (
	DefaultWebsiteType = "business"
	DefaultDesignStyle = "modern"
)

// MaxTextLen caps the input text accepted for optimization, in runes.
const MaxTextLen = 100_000

// TextTooLongMessage is the validation message for text over MaxTextLen.
const TextTooLongMessage = "Text is too long (max 100,000 characters)"

// DefaultFeatures returns the feature list used when a website request does
// not specify one. A fresh slice is returned on every call.
func DefaultFeatures() []string {
	return []string{"responsive", "seo"}
}

// RawRequest is the wire shape of an optimization request as sent by the web
// client, the extension popup and the CLI. It is validated into an
// OptimizationRequest by ParseRequest before anything else looks at it.
type RawRequest struct {
	Text    string             `json:"text"`
	Type    string             `json:"type"`
	Style   string             `json:"style,omitempty"`
	Options *RawWebsiteOptions `json:"options,omitempty"`
}

// RawWebsiteOptions carries the optional website brief settings.
// Features has no omitempty: a nil slice means "use the defaults" while an
// explicit empty array means "no features".
type RawWebsiteOptions struct {
	WebsiteType string   `json:"websiteType,omitempty"`
	DesignStyle string   `json:"designStyle,omitempty"`
	Features    []string `json:"features"`
}

// OptimizationRequest is a validated request. The concrete type is either
// GeneralRequest or WebsiteRequest.
type OptimizationRequest interface {
	Mode() Mode
	Input() string
	isOptimizationRequest()
}

// GeneralRequest asks for a style-adjusted prose rewrite.
// Style is empty when no style was requested.
type GeneralRequest struct {
	Text  string
	Style string
}

func (GeneralRequest) Mode() Mode { return ModeGeneral }
func (r GeneralRequest) Input() string { return r.Text }
func (GeneralRequest) isOptimizationRequest() {}

// WebsiteOptions holds fully resolved website brief settings.
type WebsiteOptions struct {
	WebsiteType string
	DesignStyle string
	Features    []string
}

// WebsiteRequest asks for a structured website creation brief.
type WebsiteRequest struct {
	Text    string
	Options WebsiteOptions
}

func (WebsiteRequest) Mode() Mode { return ModeWebsite }
func (r WebsiteRequest) Input() string { return r.Text }
func (WebsiteRequest) isOptimizationRequest() {}

// ValidationError reports a malformed or incomplete request. It never
// reaches the model backend and maps to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ParseRequest validates a raw request and converts it into its typed form.
// The input text is passed through unmodified; only the emptiness check
// looks at the trimmed text. The type must match a Mode exactly.
func ParseRequest(raw RawRequest) (OptimizationRequest, error) {
	if strings.TrimSpace(raw.Text) == "" || strings.TrimSpace(raw.Type) == "" {
		return nil, &ValidationError{Message: "Missing required fields"}
	}
	if utf8.RuneCountInString(raw.Text) > MaxTextLen {
		return nil, &ValidationError{Message: TextTooLongMessage}
	}

	switch Mode(raw.Type) {
	case ModeGeneral:
		return GeneralRequest{
			Text:  raw.Text,
			Style: strings.TrimSpace(raw.Style),
		}, nil
	case ModeWebsite:
		return WebsiteRequest{
			Text:    raw.Text,
			Options: resolveWebsiteOptions(raw.Options),
		}, nil
	default:
		return nil, &ValidationError{Message: "Invalid optimization type"}
	}
}

// resolveWebsiteOptions fills in defaults for absent fields.
func resolveWebsiteOptions(raw *RawWebsiteOptions) WebsiteOptions {
	opts := WebsiteOptions{
		WebsiteType: DefaultWebsiteType,
		DesignStyle: DefaultDesignStyle,
		Features:    DefaultFeatures(),
	}
	if raw == nil {
		return opts
	}
	if v := strings.TrimSpace(raw.WebsiteType); v != "" {
		opts.WebsiteType = v
	}
	if v := strings.TrimSpace(raw.DesignStyle); v != "" {
		opts.DesignStyle = v
	}
	if raw.Features != nil {
		features := make([]string, 0, len(raw.Features))
		for _, f := range raw.Features {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
		opts.Features = features
	}
	return opts
}

// OptimizeResponse is the success body of POST /api/optimize.
type OptimizeResponse struct {
	OptimizedText string `json:"optimizedText"`
}
