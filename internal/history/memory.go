// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package history

import (
	"context"
	"slices"
	"sync"

	"promptpolish/internal/models"
)

// MemoryLog keeps history in process memory. Contents are lost on restart.
type MemoryLog struct {
	mu      sync.RWMutex
	records []models.HistoryRecord
}

// NewMemoryLog creates an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (m *MemoryLog) Append(_ context.Context, rec models.HistoryRecord) (models.HistoryRecord, error) {
	rec = Normalize(rec)

	m.mu.Lock()
	rec.ID = ClaimID(m.records, rec.ID)
	m.records = Prepend(m.records, rec)
	m.mu.Unlock()
	return rec, nil
}

func (m *MemoryLog) List(_ context.Context) ([]models.HistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.records)
	if out == nil {
		out = []models.HistoryRecord{}
	}
	return out, nil
}

func (m *MemoryLog) Get(_ context.Context, id string) (models.HistoryRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := Find(m.records, id)
	return rec, ok, nil
}

func (m *MemoryLog) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	m.records, _ = Without(m.records, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryLog) Clear(_ context.Context) error {
	m.mu.Lock()
	m.records = nil
	m.mu.Unlock()
	return nil
}
