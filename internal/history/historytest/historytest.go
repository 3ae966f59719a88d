// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package historytest provides the behavioural test suite shared by every
// history.Log backing.
package historytest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"promptpolish/internal/history"
	"promptpolish/internal/models"
)

// Factory returns a new, empty log. It is called once per subtest.
type Factory func(t *testing.T) history.Log

// base is a fixed instant so ordering assertions do not depend on the clock.
var base = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// Record builds a general-mode record with the given id and creation time.
func Record(id string, at time.Time) models.HistoryRecord {
	return models.HistoryRecord{
		ID:            id,
		Type:          models.ModeGeneral,
		OriginalText:  "original " + id,
		OptimizedText: "optimized " + id,
		CreatedAt:     at,
	}
}

func strPtr(s string) *string { return &s }

// Run executes the contract suite against logs produced by newLog.
func Run(t *testing.T, newLog Factory) {
	t.Helper()

	t.Run("EmptyList", func(t *testing.T) {
		log := newLog(t)
		got, err := log.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty log, got %d records", len(got))
		}
	})

	t.Run("NewestFirst", func(t *testing.T) {
		log := newLog(t)
		for i := range 3 {
			mustAppend(t, log, Record(fmt.Sprint(i+1), base.Add(time.Duration(i)*time.Second)))
		}
		assertIDs(t, mustList(t, log), "3", "2", "1")
	})

	t.Run("OrdersByCreatedAtNotInsertion", func(t *testing.T) {
		log := newLog(t)
		mustAppend(t, log, Record("late", base.Add(time.Minute)))
		mustAppend(t, log, Record("early", base))
		assertIDs(t, mustList(t, log), "late", "early")
	})

	t.Run("EqualTimestampsKeepInsertionOrder", func(t *testing.T) {
		log := newLog(t)
		mustAppend(t, log, Record("a", base))
		mustAppend(t, log, Record("b", base))
		mustAppend(t, log, Record("c", base))
		assertIDs(t, mustList(t, log), "c", "b", "a")
	})

	t.Run("CapEvictsOldest", func(t *testing.T) {
		log := newLog(t)
		total := history.MaxRecords + 1
		for i := range total {
			mustAppend(t, log, Record(fmt.Sprint(i), base.Add(time.Duration(i)*time.Millisecond)))
		}

		got := mustList(t, log)
		if len(got) != history.MaxRecords {
			t.Fatalf("len: got %d, want %d", len(got), history.MaxRecords)
		}
		if got[0].ID != fmt.Sprint(total-1) {
			t.Errorf("first: got %q, want the last appended %q", got[0].ID, fmt.Sprint(total-1))
		}
		if got[len(got)-1].ID != "1" {
			t.Errorf("last: got %q, want %q", got[len(got)-1].ID, "1")
		}
		if _, ok, _ := log.Get(context.Background(), "0"); ok {
			t.Error("oldest record should have been evicted")
		}
	})

	t.Run("AppendReturnsNormalizedRecord", func(t *testing.T) {
		log := newLog(t)
		at := base.Add(1234567 * time.Nanosecond).In(time.FixedZone("CET", 3600))
		stored, err := log.Append(context.Background(), Record("n", at))
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		want := base.Add(time.Millisecond)
		if !stored.CreatedAt.Equal(want) {
			t.Errorf("CreatedAt: got %s, want %s", stored.CreatedAt, want)
		}
	})

	t.Run("RoundTripsFields", func(t *testing.T) {
		log := newLog(t)
		ctx := context.Background()

		general := Record("g", base)
		general.Style = strPtr("concise")
		website := models.HistoryRecord{
			ID:            "w",
			Type:          models.ModeWebsite,
			OriginalText:  "a bakery site",
			OptimizedText: "Overview: ...",
			CreatedAt:     base.Add(time.Second),
			WebsiteType:   strPtr("ecommerce"),
			DesignStyle:   strPtr("minimalist"),
		}
		mustAppend(t, log, general)
		mustAppend(t, log, website)

		got, ok, err := log.Get(ctx, "g")
		if err != nil || !ok {
			t.Fatalf("Get g: ok=%v err=%v", ok, err)
		}
		assertRecord(t, got, general)

		got, ok, err = log.Get(ctx, "w")
		if err != nil || !ok {
			t.Fatalf("Get w: ok=%v err=%v", ok, err)
		}
		assertRecord(t, got, website)
	})

	t.Run("GetMissing", func(t *testing.T) {
		log := newLog(t)
		mustAppend(t, log, Record("1", base))
		_, ok, err := log.Get(context.Background(), "nope")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok {
			t.Error("expected ok=false for unknown id")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		log := newLog(t)
		ctx := context.Background()
		for i := range 3 {
			mustAppend(t, log, Record(fmt.Sprint(i+1), base.Add(time.Duration(i)*time.Second)))
		}
		if err := log.Remove(ctx, "2"); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		assertIDs(t, mustList(t, log), "3", "1")

		if err := log.Remove(ctx, "missing"); err != nil {
			t.Errorf("Remove unknown id: %v", err)
		}
		assertIDs(t, mustList(t, log), "3", "1")
	})

	t.Run("Clear", func(t *testing.T) {
		log := newLog(t)
		ctx := context.Background()
		mustAppend(t, log, Record("1", base))
		mustAppend(t, log, Record("2", base.Add(time.Second)))
		if err := log.Clear(ctx); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if got := mustList(t, log); len(got) != 0 {
			t.Errorf("after Clear: got %d records", len(got))
		}

		mustAppend(t, log, Record("3", base.Add(2*time.Second)))
		assertIDs(t, mustList(t, log), "3")
	})

	t.Run("DuplicateIDIsReassigned", func(t *testing.T) {
		log := newLog(t)
		ctx := context.Background()

		first := Record("1700000000000", base)
		second := Record("1700000000000", base)
		second.OriginalText = "second writer"

		storedFirst, err := log.Append(ctx, first)
		if err != nil {
			t.Fatalf("Append first: %v", err)
		}
		storedSecond, err := log.Append(ctx, second)
		if err != nil {
			t.Fatalf("Append second: %v", err)
		}
		if storedFirst.ID != "1700000000000" {
			t.Errorf("first id: got %q, want it unchanged", storedFirst.ID)
		}
		if storedSecond.ID != "1700000000001" {
			t.Errorf("second id: got %q, want %q", storedSecond.ID, "1700000000001")
		}
		assertIDs(t, mustList(t, log), "1700000000001", "1700000000000")

		got, ok, err := log.Get(ctx, storedSecond.ID)
		if err != nil || !ok {
			t.Fatalf("Get reassigned id: ok=%v err=%v", ok, err)
		}
		if got.OriginalText != "second writer" {
			t.Errorf("Get reassigned id: got %q", got.OriginalText)
		}
	})

	t.Run("IndependentGeneratorsNeverCollide", func(t *testing.T) {
		log := newLog(t)
		frozen := func() time.Time { return base }
		const perWriter = 10

		var wg sync.WaitGroup
		errs := make(chan error, 2*perWriter)
		for range 2 {
			ids := history.NewIDGeneratorWithClock(frozen)
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perWriter {
					if _, err := log.Append(context.Background(), Record(ids.Next(), base)); err != nil {
						errs <- err
					}
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("Append: %v", err)
		}

		got := mustList(t, log)
		if len(got) != 2*perWriter {
			t.Fatalf("len: got %d, want %d", len(got), 2*perWriter)
		}
		seen := make(map[string]bool, len(got))
		for _, r := range got {
			if seen[r.ID] {
				t.Errorf("duplicate id %q", r.ID)
			}
			seen[r.ID] = true
		}
	})

	t.Run("ConcurrentAppends", func(t *testing.T) {
		log := newLog(t)
		ids := history.NewIDGenerator()
		const writers = 20

		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := log.Append(context.Background(), Record(ids.Next(), time.Now())); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("concurrent Append: %v", err)
		}

		got := mustList(t, log)
		if len(got) != writers {
			t.Fatalf("len: got %d, want %d", len(got), writers)
		}
		seen := make(map[string]bool, writers)
		for _, r := range got {
			if seen[r.ID] {
				t.Errorf("duplicate id %q", r.ID)
			}
			seen[r.ID] = true
		}
	})
}

func mustAppend(t *testing.T, log history.Log, rec models.HistoryRecord) {
	t.Helper()
	if _, err := log.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append %s: %v", rec.ID, err)
	}
}

func mustList(t *testing.T, log history.Log) []models.HistoryRecord {
	t.Helper()
	got, err := log.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return got
}

func assertIDs(t *testing.T, got []models.HistoryRecord, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d (%v)", len(got), len(want), idsOf(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("order: got %v, want %v", idsOf(got), want)
		}
	}
}

func idsOf(records []models.HistoryRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func assertRecord(t *testing.T, got, want models.HistoryRecord) {
	t.Helper()
	if got.ID != want.ID || got.Type != want.Type {
		t.Errorf("identity: got %s/%s, want %s/%s", got.ID, got.Type, want.ID, want.Type)
	}
	if got.OriginalText != want.OriginalText || got.OptimizedText != want.OptimizedText {
		t.Errorf("texts: got %q/%q, want %q/%q", got.OriginalText, got.OptimizedText, want.OriginalText, want.OptimizedText)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt: got %s, want %s", got.CreatedAt, want.CreatedAt)
	}
	assertOptional(t, "style", got.Style, want.Style)
	assertOptional(t, "websiteType", got.WebsiteType, want.WebsiteType)
	assertOptional(t, "designStyle", got.DesignStyle, want.DesignStyle)
}

func assertOptional(t *testing.T, name string, got, want *string) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s: got %v, want %v", name, deref(got), deref(want))
	case *got != *want:
		t.Errorf("%s: got %q, want %q", name, *got, *want)
	}
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
