// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package history defines the bounded optimization history log and its
// in-process and file-backed implementations. The Valkey and PostgreSQL
// backings live in the cache and store packages and satisfy the same Log
// interface; historytest holds the contract suite all of them pass.
package history

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"promptpolish/internal/models"
)

// MaxRecords is the number of records a log retains. Appending beyond it
// evicts the oldest record in the same step.
const MaxRecords = 50

// StorageKey names the history array in key-value stores (the extension's
// local storage, the Valkey key, the file log's top-level object).
const StorageKey = "promptpolish_history"

// Log is a bounded, most-recent-first history of completed optimizations.
// Implementations must make each operation atomic with respect to the
// others.
type Log interface {
	// Append stores rec and returns it as stored: the timestamp is
	// normalized to UTC milliseconds, and the id is replaced via ClaimID
	// when another stored record already holds it.
	Append(ctx context.Context, rec models.HistoryRecord) (models.HistoryRecord, error)

	// List returns at most MaxRecords records, newest first.
	List(ctx context.Context) ([]models.HistoryRecord, error)

	// Get returns the record with the given id; ok is false when absent.
	Get(ctx context.Context, id string) (rec models.HistoryRecord, ok bool, err error)

	// Remove deletes one record. Removing an unknown id is not an error.
	Remove(ctx context.Context, id string) error

	// Clear deletes every record.
	Clear(ctx context.Context) error
}

// PersistError reports a failed history write. Callers on the optimization
// path log it and carry on.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Normalize truncates the record's timestamp to milliseconds in UTC so every
// backing stores and returns the same instant.
func Normalize(rec models.HistoryRecord) models.HistoryRecord {
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Millisecond)
	return rec
}

// Prepend returns a new slice with rec inserted ahead of records, ordered
// newest first and capped at MaxRecords. records must already be in log
// order. Among equal timestamps the newer insertion comes first.
func Prepend(records []models.HistoryRecord, rec models.HistoryRecord) []models.HistoryRecord {
	next := make([]models.HistoryRecord, 0, len(records)+1)
	next = append(next, rec)
	next = append(next, records...)
	Sort(next)
	if len(next) > MaxRecords {
		next = next[:MaxRecords]
	}
	return next
}

// Sort orders records by descending CreatedAt. The sort is stable, so
// records with equal timestamps keep their relative order.
func Sort(records []models.HistoryRecord) {
	slices.SortStableFunc(records, func(a, b models.HistoryRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// Without returns records minus the one with the given id, and whether it
// was present.
func Without(records []models.HistoryRecord, id string) ([]models.HistoryRecord, bool) {
	i := slices.IndexFunc(records, func(r models.HistoryRecord) bool { return r.ID == id })
	if i < 0 {
		return records, false
	}
	return slices.Delete(slices.Clone(records), i, i+1), true
}

// Find returns the record with the given id.
func Find(records []models.HistoryRecord, id string) (models.HistoryRecord, bool) {
	i := slices.IndexFunc(records, func(r models.HistoryRecord) bool { return r.ID == id })
	if i < 0 {
		return models.HistoryRecord{}, false
	}
	return records[i], true
}

// ClaimID returns proposed when no record in records holds it. Otherwise it
// returns a fresh id: for decimal ids one above the largest decimal id in
// use, so ids stay increasing in append order; for other ids proposed with
// the lowest free "-n" suffix. Backings call it inside their atomic append
// so writers with independent IDGenerators never store duplicates.
func ClaimID(records []models.HistoryRecord, proposed string) string {
	if _, taken := Find(records, proposed); !taken {
		return proposed
	}
	if n, err := strconv.ParseInt(proposed, 10, 64); err == nil {
		for _, r := range records {
			if v, err := strconv.ParseInt(r.ID, 10, 64); err == nil && v > n {
				n = v
			}
		}
		return strconv.FormatInt(n+1, 10)
	}
	for i := 1; ; i++ {
		id := proposed + "-" + strconv.Itoa(i)
		if _, taken := Find(records, id); !taken {
			return id
		}
	}
}

// IDGenerator issues record ids from the millisecond clock. Ids are decimal
// strings, unique and strictly increasing per generator even when several
// are issued within one millisecond or the clock steps backwards. Ids from
// separate generators may collide; the log resolves that with ClaimID.
type IDGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

// NewIDGenerator returns a generator reading the system clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NewIDGeneratorWithClock returns a generator reading now instead of the
// system clock.
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{now: now}
}

// Next returns the next id. Safe for concurrent use.
func (g *IDGenerator) Next() string {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	for {
		last := g.last.Load()
		next := max(now().UnixMilli(), last+1)
		if g.last.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}
