// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// history.go keeps the optimization history in a single Valkey key holding
// the same JSON array the browser extension stores locally. Writes are
// read-modify-write cycles guarded by WATCH so concurrent servers sharing
// one Valkey never lose an append or exceed the cap.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"promptpolish/internal/history"
	"promptpolish/internal/models"
)

// maxTxAttempts bounds optimistic transaction retries under contention.
const maxTxAttempts = 100

// HistoryLog implements history.Log on top of Valkey.
type HistoryLog struct {
	client *redis.Client
	key    string
}

// NewHistoryLog creates a log stored under history.StorageKey.
func NewHistoryLog(client *redis.Client) *HistoryLog {
	return NewHistoryLogWithKey(client, history.StorageKey)
}

// NewHistoryLogWithKey creates a log stored under a custom key, which lets
// several deployments share one Valkey database.
func NewHistoryLogWithKey(client *redis.Client, key string) *HistoryLog {
	return &HistoryLog{client: client, key: key}
}

func (h *HistoryLog) Append(ctx context.Context, rec models.HistoryRecord) (models.HistoryRecord, error) {
	rec = history.Normalize(rec)
	stored := rec
	err := h.update(ctx, "append", func(records []models.HistoryRecord) ([]models.HistoryRecord, bool) {
		stored.ID = history.ClaimID(records, rec.ID)
		return history.Prepend(records, stored), true
	})
	if err != nil {
		return models.HistoryRecord{}, err
	}
	return stored, nil
}

func (h *HistoryLog) List(ctx context.Context) ([]models.HistoryRecord, error) {
	records, err := h.load(ctx, h.client)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	return records, nil
}

func (h *HistoryLog) Get(ctx context.Context, id string) (models.HistoryRecord, bool, error) {
	records, err := h.load(ctx, h.client)
	if err != nil {
		return models.HistoryRecord{}, false, err
	}
	rec, ok := history.Find(records, id)
	return rec, ok, nil
}

func (h *HistoryLog) Remove(ctx context.Context, id string) error {
	return h.update(ctx, "remove", func(records []models.HistoryRecord) ([]models.HistoryRecord, bool) {
		return history.Without(records, id)
	})
}

func (h *HistoryLog) Clear(ctx context.Context) error {
	if err := h.client.Del(ctx, h.key).Err(); err != nil {
		return fmt.Errorf("valkey history clear: %w", err)
	}
	slog.Debug("valkey history cleared", "key", h.key)
	return nil
}

// update runs mutate inside a WATCH transaction, retrying when another
// client changed the key first. mutate reports whether anything changed.
func (h *HistoryLog) update(ctx context.Context, op string, mutate func([]models.HistoryRecord) ([]models.HistoryRecord, bool)) error {
	txf := func(tx *redis.Tx) error {
		records, err := h.load(ctx, tx)
		if err != nil {
			return err
		}
		next, changed := mutate(records)
		if !changed {
			return nil
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, h.key, data, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := h.client.Watch(ctx, txf, h.key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("valkey history %s: %w", op, err)
		}
		slog.Debug("valkey history transaction conflict, retrying", "op", op, "attempt", attempt)
	}
	return fmt.Errorf("valkey history %s: %w", op, redis.TxFailedErr)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// load reads and decodes the history array. A missing key is an empty log.
func (h *HistoryLog) load(ctx context.Context, c getter) ([]models.HistoryRecord, error) {
	data, err := c.Get(ctx, h.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey history get: %w", err)
	}

	var records []models.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("valkey history decode: %w", err)
	}
	history.Sort(records)
	if len(records) > history.MaxRecords {
		records = records[:history.MaxRecords]
	}
	return records, nil
}
