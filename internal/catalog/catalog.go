// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the static instruction fragments used to
// parametrize optimization prompts: writing styles, website features,
// website types and design styles. Unknown identifiers degrade to a
// generic fragment or to the raw identifier instead of failing.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

var styles = map[string]string{
	"professional": "Use formal language, industry-specific terminology, and a structured format. Eliminate casual expressions and maintain an authoritative tone.",
	"concise":      "Reduce word count by 40% while preserving all key information. Use tight phrasing, active voice, and eliminate redundancies.",
	"friendly":     "Use conversational language, personal pronouns, and a warm tone. Add natural transitions and approachable phrasing.",
	"persuasive":   "Incorporate persuasive techniques: problem-solution framing, social proof, scarcity principles, and compelling calls to action.",
	"technical":    "Prioritize precision, use domain-specific terminology correctly, maintain logical structure, and include specific technical details where appropriate.",
}

var features = map[string]string{
	"responsive":   "Responsive design that works seamlessly across desktop, tablet, and mobile devices with appropriate breakpoints and mobile-specific UI considerations",
	"seo":          "SEO best practices including semantic HTML structure, meta tags, schema markup, sitemap, robots.txt, and optimization for search engine visibility",
	"contact-form": "Contact form with proper validation, spam protection, error handling, success states, and email notification functionality",
	"social-media": "Social media integration including share buttons, feed widgets, and social account linking with appropriate API implementations",
	"animations":   "Tasteful animations for UI elements, page transitions, scrolling effects, and interactive components that enhance user experience without compromising performance",
	"analytics":    "Web analytics setup with event tracking, conversion funnels, user journey mapping, and dashboard for monitoring key performance metrics",
}

var websiteTypes = map[string]string{
	"business":  "Include sections for company overview, services/products, team, testimonials, and clear calls to action. Focus on conveying professionalism and building trust.",
	"portfolio": "Showcase work samples prominently with filtering options, detailed project information, and prominent contact information for potential clients.",
	"ecommerce": "Include product catalog, search functionality, shopping cart, checkout process, account management, and payment gateway integration.",
	"blog":      "Feature content organization, categories, tags, search, commenting system, subscription options, and social sharing capabilities.",
	"personal":  "Create a personal brand presence with about section, skills/expertise, timeline or story elements, and personalized contact options.",
}

var designStyles = map[string]string{
	"modern":     "Clean layout with ample whitespace, sans-serif typography, subtle shadows, minimal color palette, flat design elements, and grid-based organization.",
	"minimalist": "Extremely simplified UI, significant negative space, monochromatic or limited color scheme, typography-focused design, and elimination of all non-essential elements.",
	"colorful":   "Vibrant color palette, playful typography, dynamic layout with visual hierarchy enhanced through color contrast, and engaging visual elements.",
	"corporate":  "Professional appearance with structured layout, subdued color scheme based on brand colors, clearly defined sections, and emphasis on clarity and credibility.",
	"creative":   "Unique layout patterns, experimental typography, distinctive visual elements, innovative navigation concepts, and memorable interactive components.",
}

// StyleDirective returns the instruction fragment for a writing style.
// Lookup is case-insensitive; unknown styles get a generic directive built
// from the style name as given.
func StyleDirective(style string) string {
	if d, ok := styles[strings.ToLower(strings.TrimSpace(style))]; ok {
		return d
	}
	return fmt.Sprintf("Make it %s by adjusting tone, vocabulary, and structure appropriately.", style)
}

// FeatureDescription returns the long description for a feature id, or the
// id itself when the feature is unknown.
func FeatureDescription(id string) string {
	if d, ok := features[id]; ok {
		return d
	}
	return id
}

// WebsiteTypeGuidance returns the guidance for a website type, or the raw
// identifier when the type is unknown.
func WebsiteTypeGuidance(id string) string {
	if d, ok := websiteTypes[id]; ok {
		return d
	}
	return id
}

// DesignStyleGuidance returns the guidance for a design style, or the raw
// identifier when the style is unknown.
func DesignStyleGuidance(id string) string {
	if d, ok := designStyles[id]; ok {
		return d
	}
	return id
}

// Styles lists the known writing style identifiers.
func Styles() []string { return keys(styles) }

// Features lists the known website feature identifiers.
func Features() []string { return keys(features) }

// WebsiteTypes lists the known website type identifiers.
func WebsiteTypes() []string { return keys(websiteTypes) }

// DesignStyles lists the known design style identifiers.
func DesignStyles() []string { return keys(designStyles) }

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
