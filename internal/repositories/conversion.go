package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
)

const conversionColumns = `id, kind, reference, name, destination, total, succeeded, failed, skipped, created_at`

// ConversionRepository persists [models.ConversionRecord] values and their items.
type ConversionRepository struct {
	db *sql.DB
}

// NewConversionRepository creates a new ConversionRepository with the given database connection
func NewConversionRepository(db *sql.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

// Create inserts a record and its items. An empty ID is generated.
func (r *ConversionRepository) Create(ctx context.Context, record *models.ConversionRecord) error {
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO conversions (` + conversionColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		_, err := tx.ExecContext(ctx, query,
			record.ID,
			record.Kind.String(),
			record.Reference,
			record.Name,
			record.Destination,
			record.Total,
			record.Succeeded,
			record.Failed,
			record.Skipped,
			record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert conversion: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO conversion_items (conversion_id, position, track_id, title, artists, album, outcome, reason, path)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare item insert: %w", err)
		}
		defer stmt.Close()

		for i, item := range record.Items {
			artists, err := json.Marshal(item.Item.Artists)
			if err != nil {
				return fmt.Errorf("failed to encode artists: %w", err)
			}

			_, err = stmt.ExecContext(ctx,
				record.ID,
				i,
				item.Item.ID,
				item.Item.Title,
				string(artists),
				item.Item.Album,
				item.Outcome.String(),
				item.Reason,
				item.Path,
			)
			if err != nil {
				return fmt.Errorf("failed to insert conversion item %d: %w", i, err)
			}
		}

		return nil
	})
}

// Get retrieves a record by ID with its items in position order
func (r *ConversionRepository) Get(ctx context.Context, id string) (*models.ConversionRecord, error) {
	query := `SELECT ` + conversionColumns + ` FROM conversions WHERE id = ?`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: conversion %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if record.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves the most recent records, newest first, without items
func (r *ConversionRepository) List(ctx context.Context, limit int) ([]*models.ConversionRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT ` + conversionColumns + ` FROM conversions ORDER BY created_at DESC, id ASC LIMIT ?`
	return r.query(ctx, query, limit)
}

// ListByReference retrieves every record for a catalog id or search label, newest first
func (r *ConversionRepository) ListByReference(ctx context.Context, reference string) ([]*models.ConversionRecord, error) {
	query := `SELECT ` + conversionColumns + ` FROM conversions WHERE reference = ? ORDER BY created_at DESC, id ASC`
	return r.query(ctx, query, reference)
}

// Delete removes a record and its items
func (r *ConversionRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM conversion_items WHERE conversion_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete conversion items: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM conversions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete conversion: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: conversion %s", shared.ErrNotFound, id)
		}
		return nil
	})
}

func (r *ConversionRepository) query(ctx context.Context, query string, args ...any) ([]*models.ConversionRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversions: %w", err)
	}
	defer rows.Close()

	var records []*models.ConversionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

func (r *ConversionRepository) items(ctx context.Context, id string) ([]models.ConversionResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT track_id, title, artists, album, outcome, reason, path
		FROM conversion_items
		WHERE conversion_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion items: %w", err)
	}
	defer rows.Close()

	var items []models.ConversionResult
	for rows.Next() {
		var (
			item    models.ConversionResult
			artists string
			outcome string
		)

		if err := rows.Scan(&item.Item.ID, &item.Item.Title, &artists, &item.Item.Album, &outcome, &item.Reason, &item.Path); err != nil {
			return nil, fmt.Errorf("failed to scan conversion item: %w", err)
		}
		if err := json.Unmarshal([]byte(artists), &item.Item.Artists); err != nil {
			return nil, fmt.Errorf("failed to decode artists: %w", err)
		}
		if outcome != models.Success.String() {
			item.Outcome = models.Failure
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a conversions row from a [sql.Row] or [sql.Rows]
func scanRecord(row scanner) (*models.ConversionRecord, error) {
	var (
		record models.ConversionRecord
		kind   string
	)

	err := row.Scan(
		&record.ID,
		&kind,
		&record.Reference,
		&record.Name,
		&record.Destination,
		&record.Total,
		&record.Succeeded,
		&record.Failed,
		&record.Skipped,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversion: %w", err)
	}

	if record.Kind, err = models.ParseKind(kind); err != nil {
		return nil, fmt.Errorf("failed to scan conversion: %w", err)
	}
	return &record, nil
}
