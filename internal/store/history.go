// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the PostgreSQL-backed optimization history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"promptpolish/internal/history"
	"promptpolish/internal/models"
)

// appendLockKey serializes appends across connections so the insert and the
// trim of one append never interleave with another's.
const appendLockKey = 0x70707368 // "ppsh"

const selectColumns = `id, type, original_text, optimized_text, created_at, style, website_type, design_style`

// HistoryStore implements history.Log on the optimization_history table.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Append inserts the record and trims the table to the newest
// history.MaxRecords rows in one transaction. The id is claimed under the
// advisory lock, so servers sharing the table never collide.
func (s *HistoryStore) Append(ctx context.Context, rec models.HistoryRecord) (models.HistoryRecord, error) {
	rec = history.Normalize(rec)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("begin history append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, appendLockKey); err != nil {
		return models.HistoryRecord{}, fmt.Errorf("lock history: %w", err)
	}

	ids, err := existingIDs(ctx, tx)
	if err != nil {
		return models.HistoryRecord{}, err
	}
	rec.ID = history.ClaimID(ids, rec.ID)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO optimization_history
			(id, type, original_text, optimized_text, created_at, style, website_type, design_style)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, string(rec.Type), rec.OriginalText, rec.OptimizedText, rec.CreatedAt,
		rec.Style, rec.WebsiteType, rec.DesignStyle)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("insert history: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM optimization_history
		WHERE id NOT IN (
			SELECT id FROM optimization_history
			ORDER BY created_at DESC, seq DESC
			LIMIT $1
		)
	`, history.MaxRecords)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.HistoryRecord{}, fmt.Errorf("commit history append: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		slog.Debug("history trimmed", "evicted", n)
	}
	return rec, nil
}

// List returns the newest records first. Rows sharing a timestamp come back
// in reverse insertion order.
func (s *HistoryStore) List(ctx context.Context) ([]models.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM optimization_history
		ORDER BY created_at DESC, seq DESC
		LIMIT $1
	`, history.MaxRecords)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := []models.HistoryRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns one record by id.
func (s *HistoryStore) Get(ctx context.Context, id string) (models.HistoryRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+selectColumns+`
		FROM optimization_history
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HistoryRecord{}, false, nil
	}
	if err != nil {
		return models.HistoryRecord{}, false, fmt.Errorf("get history %s: %w", id, err)
	}
	return rec, true, nil
}

// Remove deletes one record by id.
func (s *HistoryStore) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM optimization_history WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete history %s: %w", id, err)
	}
	return nil
}

// Clear deletes every record.
func (s *HistoryStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM optimization_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// existingIDs loads the stored ids as id-only records for history.ClaimID.
func existingIDs(ctx context.Context, tx *sql.Tx) ([]models.HistoryRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM optimization_history`)
	if err != nil {
		return nil, fmt.Errorf("query history ids: %w", err)
	}
	defer rows.Close()

	var ids []models.HistoryRecord
	for rows.Next() {
		var rec models.HistoryRecord
		if err := rows.Scan(&rec.ID); err != nil {
			return nil, fmt.Errorf("scan history id: %w", err)
		}
		ids = append(ids, rec)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (models.HistoryRecord, error) {
	var rec models.HistoryRecord
	var mode string
	err := row.Scan(
		&rec.ID, &mode, &rec.OriginalText, &rec.OptimizedText, &rec.CreatedAt,
		&rec.Style, &rec.WebsiteType, &rec.DesignStyle,
	)
	if err != nil {
		return models.HistoryRecord{}, err
	}
	rec.Type = models.Mode(mode)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}
