// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt turns a validated optimization request into the system
// instruction and user content sent to the model backend. Build is pure:
// it performs no I/O and depends only on the static catalog.
package prompt

import (
	"fmt"
	"strings"

	"promptpolish/internal/catalog"
	"promptpolish/internal/models"
)

// Token ceilings per mode. Website briefs are longer structured documents.
const (
	GeneralMaxTokens = 1500
	WebsiteMaxTokens = 2000
)

// Prompt is a fully rendered model request.
type Prompt struct {
	Mode      models.Mode
	System    string
	User      string
	MaxTokens int
}

const generalRubric = `You are an expert communication strategist with extensive experience in content optimization.
Your task is to improve text for maximum impact, clarity, and effectiveness.

OPTIMIZATION GUIDELINES:
1. Identify the core purpose of the text and ensure it's communicated clearly and convincingly
2. Reorganize content to present the most important information first when appropriate
3. Replace vague statements with specific, concrete details
4. Eliminate unnecessary words, redundancies, and filler phrases
5. Use active voice, strong verbs, and precise language
6. Ensure logical flow with appropriate transitions
7. Adjust tone and complexity to match the intended audience
8. Maintain the original meaning while improving expression
`

// outputOnly keeps responses free of preambles so the text can be pasted
// back into the user's input field as-is.
const outputOnly = `Return ONLY the improved text without explanations, notes, or meta-commentary. Do not include phrases like "Here's the optimized version" or "Improved text:".`

const websiteIntro = `You are a senior website architect and UX designer responsible for creating comprehensive website specifications.

Your task is to transform a rough website description into a detailed, actionable website creation prompt that a frontend developer could use to build the exact website envisioned.
`

const websiteOutput = `YOUR OUTPUT MUST:
1. Begin with a concise 1-2 sentence overview of the website's purpose
2. Include detailed sections for:
   - Page Structure (all required pages with specific components for each)
   - Visual Design (color palette, typography, imagery style, UI components)
   - User Experience (navigation flow, interactions, accessibility requirements)
   - Technical Specifications (frameworks, libraries, APIs needed)
   - Content Requirements (text sections, media elements, data collection)
3. Add specific details missing from the original description but necessary for implementation
4. Be written in a clear, structured format with section headers
5. Use detailed, specific language instead of vague descriptions
6. Include appropriate technical terminology for developer implementation

Format your response as a comprehensive website development brief that could be presented to a web development team. Output only the brief itself, without meta-commentary about the task.`

// Build renders the prompt for a request.
func Build(req models.OptimizationRequest) Prompt {
	switch r := req.(type) {
	case models.WebsiteRequest:
		return buildWebsite(r)
	case models.GeneralRequest:
		return buildGeneral(r)
	default:
		// Only the two request types exist; treat anything else as general text.
		return buildGeneral(models.GeneralRequest{Text: req.Input()})
	}
}

func buildGeneral(r models.GeneralRequest) Prompt {
	var sb strings.Builder
	sb.WriteString(generalRubric)
	if r.Style != "" {
		fmt.Fprintf(&sb, "9. STYLE REQUIREMENTS: %s\n", catalog.StyleDirective(r.Style))
	}
	sb.WriteString("\n")
	sb.WriteString(outputOnly)

	return Prompt{
		Mode:      models.ModeGeneral,
		System:    sb.String(),
		User:      r.Text,
		MaxTokens: GeneralMaxTokens,
	}
}

func buildWebsite(r models.WebsiteRequest) Prompt {
	opts := r.Options

	var sb strings.Builder
	sb.WriteString(websiteIntro)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "WEBSITE TYPE: %s - %s\n", opts.WebsiteType, catalog.WebsiteTypeGuidance(opts.WebsiteType))
	fmt.Fprintf(&sb, "DESIGN STYLE: %s - %s\n", opts.DesignStyle, catalog.DesignStyleGuidance(opts.DesignStyle))

	if len(opts.Features) > 0 {
		sb.WriteString("\nREQUIRED FEATURES:\n")
		for _, f := range opts.Features {
			fmt.Fprintf(&sb, "- %s\n", catalog.FeatureDescription(f))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(websiteOutput)

	return Prompt{
		Mode:      models.ModeWebsite,
		System:    sb.String(),
		User:      r.Text,
		MaxTokens: WebsiteMaxTokens,
	}
}
