// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawRequest
		wantMsg string
	}{
		{name: "empty text", raw: RawRequest{Text: "", Type: "general"}, wantMsg: "Missing required fields"},
		{name: "whitespace text", raw: RawRequest{Text: "  \n\t", Type: "general"}, wantMsg: "Missing required fields"},
		{name: "missing type", raw: RawRequest{Text: "hello"}, wantMsg: "Missing required fields"},
		{name: "unknown type", raw: RawRequest{Text: "hello", Type: "poem"}, wantMsg: "Invalid optimization type"},
		{name: "capitalized type", raw: RawRequest{Text: "hello", Type: "General"}, wantMsg: "Invalid optimization type"},
		{name: "padded type", raw: RawRequest{Text: "hello", Type: " website "}, wantMsg: "Invalid optimization type"},
		{name: "too long", raw: RawRequest{Text: strings.Repeat("a", MaxTextLen+1), Type: "general"}, wantMsg: "too long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseRequest(tc.raw)
			if err == nil {
				t.Fatalf("expected error, got request %+v", req)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(ve.Message, tc.wantMsg) {
				t.Errorf("message: got %q, want it to contain %q", ve.Message, tc.wantMsg)
			}
		})
	}
}

func TestParseRequestGeneral(t *testing.T) {
	req, err := ParseRequest(RawRequest{Text: "  hello  ", Type: "general", Style: " concise "})
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	gr, ok := req.(GeneralRequest)
	if !ok {
		t.Fatalf("expected GeneralRequest, got %T", req)
	}
	if gr.Text != "  hello  " {
		t.Errorf("text should be passed through unmodified, got %q", gr.Text)
	}
	if gr.Style != "concise" {
		t.Errorf("style: got %q, want %q", gr.Style, "concise")
	}
	if gr.Mode() != ModeGeneral {
		t.Errorf("mode: got %q", gr.Mode())
	}
}

func TestParseRequestWebsiteDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts *RawWebsiteOptions
		want WebsiteOptions
	}{
		{
			name: "no options",
			opts: nil,
			want: WebsiteOptions{WebsiteType: "business", DesignStyle: "modern", Features: []string{"responsive", "seo"}},
		},
		{
			name: "partial options",
			opts: &RawWebsiteOptions{WebsiteType: "blog"},
			want: WebsiteOptions{WebsiteType: "blog", DesignStyle: "modern", Features: []string{"responsive", "seo"}},
		},
		{
			name: "explicit empty features",
			opts: &RawWebsiteOptions{WebsiteType: "ecommerce", DesignStyle: "minimalist", Features: []string{}},
			want: WebsiteOptions{WebsiteType: "ecommerce", DesignStyle: "minimalist", Features: []string{}},
		},
		{
			name: "blank features dropped",
			opts: &RawWebsiteOptions{Features: []string{"seo", " ", "analytics"}},
			want: WebsiteOptions{WebsiteType: "business", DesignStyle: "modern", Features: []string{"seo", "analytics"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseRequest(RawRequest{Text: "my site", Type: "website", Options: tc.opts})
			if err != nil {
				t.Fatalf("ParseRequest: %v", err)
			}
			wr, ok := req.(WebsiteRequest)
			if !ok {
				t.Fatalf("expected WebsiteRequest, got %T", req)
			}
			if !reflect.DeepEqual(wr.Options, tc.want) {
				t.Errorf("options: got %+v, want %+v", wr.Options, tc.want)
			}
		})
	}
}

func TestRawRequestFeaturesNullVsEmpty(t *testing.T) {
	var withNull RawRequest
	if err := json.Unmarshal([]byte(`{"text":"x","type":"website","options":{"features":null}}`), &withNull); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withNull.Options.Features != nil {
		t.Errorf("null features should decode to nil, got %v", withNull.Options.Features)
	}

	var withEmpty RawRequest
	if err := json.Unmarshal([]byte(`{"text":"x","type":"website","options":{"features":[]}}`), &withEmpty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withEmpty.Options.Features == nil || len(withEmpty.Options.Features) != 0 {
		t.Errorf("empty features should decode to an empty slice, got %#v", withEmpty.Options.Features)
	}
}

func TestNewHistoryRecord(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("general with style", func(t *testing.T) {
		rec := NewHistoryRecord("1", GeneralRequest{Text: "hello", Style: "friendly"}, "Hi there!", at)
		if rec.Type != ModeGeneral || rec.OriginalText != "hello" || rec.OptimizedText != "Hi there!" {
			t.Errorf("unexpected record: %+v", rec)
		}
		if rec.Style == nil || *rec.Style != "friendly" {
			t.Errorf("style: got %v, want friendly", rec.Style)
		}
		if rec.WebsiteType != nil || rec.DesignStyle != nil {
			t.Error("website metadata should be nil for general records")
		}
	})

	t.Run("general without style", func(t *testing.T) {
		rec := NewHistoryRecord("2", GeneralRequest{Text: "hello"}, "Hi", at)
		if rec.Style != nil {
			t.Errorf("style should be nil, got %q", *rec.Style)
		}
	})

	t.Run("website", func(t *testing.T) {
		req := WebsiteRequest{Text: "Buy my product", Options: WebsiteOptions{WebsiteType: "ecommerce", DesignStyle: "minimalist"}}
		rec := NewHistoryRecord("3", req, "brief", at)
		if rec.WebsiteType == nil || *rec.WebsiteType != "ecommerce" {
			t.Errorf("websiteType: got %v", rec.WebsiteType)
		}
		if rec.DesignStyle == nil || *rec.DesignStyle != "minimalist" {
			t.Errorf("designStyle: got %v", rec.DesignStyle)
		}
		if rec.Style != nil {
			t.Error("style should be nil for website records")
		}
	})

	t.Run("json layout", func(t *testing.T) {
		rec := NewHistoryRecord("4", GeneralRequest{Text: "a"}, "b", at)
		b, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		for _, key := range []string{"id", "type", "originalText", "optimizedText", "timestamp", "style", "websiteType", "designStyle"} {
			if _, ok := m[key]; !ok {
				t.Errorf("missing JSON key %q in %s", key, b)
			}
		}
		if m["style"] != nil {
			t.Errorf("style should serialize as null, got %v", m["style"])
		}
	})
}
