// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// HistoryRecord is an immutable snapshot of one completed optimization.
// The JSON layout matches the records kept by the browser extension under
// the promptpolish_history storage key, so the same array can be moved
// between the server and the client stores.
type HistoryRecord struct {
	ID            string    `json:"id"`
	Type          Mode      `json:"type"`
	OriginalText  string    `json:"originalText"`
	OptimizedText string    `json:"optimizedText"`
	CreatedAt     time.Time `json:"timestamp"`
	Style         *string   `json:"style"`
	WebsiteType   *string   `json:"websiteType"`
	DesignStyle   *string   `json:"designStyle"`
}

// NewHistoryRecord builds the record for a successful optimization,
// capturing the metadata that applies to the request's mode.
func NewHistoryRecord(id string, req OptimizationRequest, optimized string, at time.Time) HistoryRecord {
	rec := HistoryRecord{
		ID:            id,
		Type:          req.Mode(),
		OriginalText:  req.Input(),
		OptimizedText: optimized,
		CreatedAt:     at,
	}

	switch r := req.(type) {
	case GeneralRequest:
		if r.Style != "" {
			rec.Style = strPtr(r.Style)
		}
	case WebsiteRequest:
		rec.WebsiteType = strPtr(r.Options.WebsiteType)
		rec.DesignStyle = strPtr(r.Options.DesignStyle)
	}
	return rec
}

func strPtr(s string) *string { return &s }
