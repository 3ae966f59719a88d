// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export renders optimization history as a downloadable document:
// the JSON storage layout, a Markdown report, or that report as HTML.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"promptpolish/internal/models"
)

// Format selects the export document type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a format name. Empty means JSON; "markdown" is an
// alias for "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, md or html)", s)
	}
}

// ContentType returns the MIME type of the rendered document.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

// Filename returns the conventional file name for an export taken at t.
func (f Format) Filename(t time.Time) string {
	return "promptpolish-history-" + t.UTC().Format("20060102T150405Z") + "." + string(f)
}

// Render produces the export document for records, which are expected
// newest first. at is the export time shown in report headers.
func Render(records []models.HistoryRecord, f Format, at time.Time) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(records, at)), nil
	case FormatHTML:
		body, err := ToHTML(Markdown(records, at))
		if err != nil {
			return nil, fmt.Errorf("export html: %w", err)
		}
		return []byte(htmlPage(body)), nil
	default:
		if records == nil {
			records = []models.HistoryRecord{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// Markdown builds the history report. Original texts are fenced so their
// own markup stays literal; optimized texts are inlined as written.
func Markdown(records []models.HistoryRecord, at time.Time) string {
	var b strings.Builder

	b.WriteString("# PromptPolish history\n\n")
	fmt.Fprintf(&b, "Exported %s, %d %s.\n", at.UTC().Format(time.RFC1123), len(records), plural(len(records), "entry", "entries"))

	for i, rec := range records {
		fmt.Fprintf(&b, "\n## %d. %s prompt, %s\n\n", i+1, title(string(rec.Type)), rec.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))
		fmt.Fprintf(&b, "- **ID:** `%s`\n", rec.ID)
		if rec.Style != nil {
			fmt.Fprintf(&b, "- **Style:** %s\n", *rec.Style)
		}
		if rec.WebsiteType != nil {
			fmt.Fprintf(&b, "- **Website type:** %s\n", *rec.WebsiteType)
		}
		if rec.DesignStyle != nil {
			fmt.Fprintf(&b, "- **Design style:** %s\n", *rec.DesignStyle)
		}

		b.WriteString("\n### Original\n\n")
		fence := fenceFor(rec.OriginalText)
		fmt.Fprintf(&b, "%stext\n%s\n%s\n", fence, strings.TrimRight(rec.OriginalText, "\n"), fence)

		b.WriteString("\n### Optimized\n\n")
		b.WriteString(strings.TrimRight(rec.OptimizedText, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// fenceFor returns a backtick fence longer than any backtick run in s.
func fenceFor(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func htmlPage(body string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PromptPolish history</title>
</head>
<body>
` + body + `</body>
</html>
`
}
