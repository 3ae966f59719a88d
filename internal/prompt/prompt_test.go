// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package prompt

import (
	"fmt"
	"strings"
	"testing"

	"promptpolish/internal/catalog"
	"promptpolish/internal/models"
)

func TestBuildGeneralWithoutStyle(t *testing.T) {
	p := Build(models.GeneralRequest{Text: "make this better"})

	for i := 1; i <= 8; i++ {
		if !strings.Contains(p.System, fmt.Sprintf("\n%d. ", i)) {
			t.Errorf("rubric point %d missing from system instruction", i)
		}
	}
	if strings.Contains(p.System, "STYLE REQUIREMENTS") {
		t.Error("no style requested, but a style line was rendered")
	}
	if strings.Contains(p.System, "9. ") {
		t.Error("unexpected ninth rubric point without a style")
	}
	if p.User != "make this better" {
		t.Errorf("user content: got %q", p.User)
	}
	if p.MaxTokens != GeneralMaxTokens {
		t.Errorf("max tokens: got %d, want %d", p.MaxTokens, GeneralMaxTokens)
	}
	if p.Mode != models.ModeGeneral {
		t.Errorf("mode: got %q", p.Mode)
	}
}

func TestBuildGeneralKnownStyle(t *testing.T) {
	p := Build(models.GeneralRequest{Text: "x", Style: "concise"})

	if !strings.Contains(p.System, "9. STYLE REQUIREMENTS: "+catalog.StyleDirective("concise")) {
		t.Errorf("concise directive missing:\n%s", p.System)
	}
	if strings.Contains(p.System, "Make it concise") {
		t.Error("known style should not use the generic fallback directive")
	}
}

func TestBuildGeneralUnknownStyle(t *testing.T) {
	for _, style := range []string{"whimsical", "pirate-like", "sarcastic"} {
		t.Run(style, func(t *testing.T) {
			p := Build(models.GeneralRequest{Text: "x", Style: style})
			want := fmt.Sprintf("Make it %s by adjusting tone, vocabulary, and structure appropriately.", style)
			if !strings.Contains(p.System, want) {
				t.Errorf("fallback directive %q missing:\n%s", want, p.System)
			}
		})
	}
}

func TestBuildGeneralForbidsMetaCommentary(t *testing.T) {
	for _, style := range []string{"", "friendly"} {
		p := Build(models.GeneralRequest{Text: "x", Style: style})
		if !strings.Contains(p.System, "Return ONLY the improved text") {
			t.Errorf("style %q: output-only instruction missing", style)
		}
		if !strings.HasSuffix(p.System, outputOnly) {
			t.Errorf("style %q: output-only instruction should close the rubric", style)
		}
	}
}

func TestBuildGeneralPreservesRawText(t *testing.T) {
	raw := "  leading and trailing spaces\n\n"
	p := Build(models.GeneralRequest{Text: raw})
	if p.User != raw {
		t.Errorf("user content must be unmodified: got %q", p.User)
	}
}

func TestBuildWebsiteEmptyFeatures(t *testing.T) {
	p := Build(models.WebsiteRequest{
		Text:    "A bakery site",
		Options: models.WebsiteOptions{WebsiteType: "business", DesignStyle: "modern", Features: []string{}},
	})
	if strings.Contains(p.System, "REQUIRED FEATURES") {
		t.Errorf("empty features must not render a REQUIRED FEATURES block:\n%s", p.System)
	}
	if p.MaxTokens != WebsiteMaxTokens {
		t.Errorf("max tokens: got %d, want %d", p.MaxTokens, WebsiteMaxTokens)
	}
}

func TestBuildWebsiteEcommerceMinimalistSEO(t *testing.T) {
	req, err := models.ParseRequest(models.RawRequest{
		Text: "Buy my product",
		Type: "website",
		Options: &models.RawWebsiteOptions{
			WebsiteType: "ecommerce",
			DesignStyle: "minimalist",
			Features:    []string{"seo"},
		},
	})
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}

	p := Build(req)

	for _, want := range []string{
		"WEBSITE TYPE: ecommerce - " + catalog.WebsiteTypeGuidance("ecommerce"),
		"DESIGN STYLE: minimalist - " + catalog.DesignStyleGuidance("minimalist"),
		"REQUIRED FEATURES:\n- " + catalog.FeatureDescription("seo"),
	} {
		if !strings.Contains(p.System, want) {
			t.Errorf("system instruction missing %q:\n%s", want, p.System)
		}
	}
	if strings.Contains(p.System, catalog.FeatureDescription("responsive")) {
		t.Error("only the requested feature should be listed")
	}
	if p.User != "Buy my product" {
		t.Errorf("user content: got %q", p.User)
	}
}

func TestBuildWebsiteDefaults(t *testing.T) {
	req, err := models.ParseRequest(models.RawRequest{Text: "portfolio for a photographer", Type: "website"})
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	p := Build(req)

	for _, want := range []string{
		"WEBSITE TYPE: business - ",
		"DESIGN STYLE: modern - ",
		"- " + catalog.FeatureDescription("responsive"),
		"- " + catalog.FeatureDescription("seo"),
	} {
		if !strings.Contains(p.System, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
}

func TestBuildWebsiteUnknownIdentifiersVerbatim(t *testing.T) {
	p := Build(models.WebsiteRequest{
		Text:    "x",
		Options: models.WebsiteOptions{WebsiteType: "wiki", DesignStyle: "brutalist", Features: []string{"dark-mode"}},
	})
	for _, want := range []string{"WEBSITE TYPE: wiki - wiki", "DESIGN STYLE: brutalist - brutalist", "- dark-mode"} {
		if !strings.Contains(p.System, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
}

func TestBuildWebsiteOutputStructure(t *testing.T) {
	p := Build(models.WebsiteRequest{Text: "x", Options: models.WebsiteOptions{WebsiteType: "blog", DesignStyle: "creative"}})
	for _, section := range []string{
		"1-2 sentence overview",
		"Page Structure",
		"Visual Design",
		"User Experience",
		"Technical Specifications",
		"Content Requirements",
	} {
		if !strings.Contains(p.System, section) {
			t.Errorf("output structure missing %q", section)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	req := models.WebsiteRequest{
		Text:    "x",
		Options: models.WebsiteOptions{WebsiteType: "blog", DesignStyle: "colorful", Features: []string{"analytics", "animations"}},
	}
	first := Build(req)
	for i := 0; i < 10; i++ {
		if got := Build(req); got != first {
			t.Fatalf("Build is not deterministic on iteration %d", i)
		}
	}
}
