// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"promptpolish/internal/history"
	"promptpolish/internal/history/historytest"
)

func TestHistoryStoreContract(t *testing.T) {
	db := testDB(t)
	historytest.Run(t, func(t *testing.T) history.Log {
		cleanHistory(t, db)
		t.Cleanup(func() { db.Exec("DELETE FROM optimization_history") })
		return NewHistoryStore(db)
	})
}

func TestHistoryStoreNullableColumns(t *testing.T) {
	db := testDB(t)
	cleanHistory(t, db)
	t.Cleanup(func() { db.Exec("DELETE FROM optimization_history") })

	s := NewHistoryStore(db)
	ctx := context.Background()
	if _, err := s.Append(ctx, historytest.Record("1", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var style, websiteType, designStyle *string
	err := db.QueryRow(
		"SELECT style, website_type, design_style FROM optimization_history WHERE id = $1", "1",
	).Scan(&style, &websiteType, &designStyle)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if style != nil || websiteType != nil || designStyle != nil {
		t.Errorf("absent metadata should be stored as NULL, got %v %v %v", style, websiteType, designStyle)
	}
}

func TestHistoryStoresSharingTableClaimDistinctIDs(t *testing.T) {
	db := testDB(t)
	cleanHistory(t, db)
	t.Cleanup(func() { db.Exec("DELETE FROM optimization_history") })

	first, second := NewHistoryStore(db), NewHistoryStore(db)
	ctx := context.Background()
	at := time.Now()
	if _, err := first.Append(ctx, historytest.Record("1700000000000", at)); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	stored, err := second.Append(ctx, historytest.Record("1700000000000", at))
	if err != nil {
		t.Fatalf("second Append: %v", err)
	}
	if stored.ID != "1700000000001" {
		t.Errorf("second id: got %q, want %q", stored.ID, "1700000000001")
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM optimization_history").Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows: got %d, want 2", rows)
	}
}
