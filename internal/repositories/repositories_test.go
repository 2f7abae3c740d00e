package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/spotmp3/internal/models"
	"github.com/desertthunder/spotmp3/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecord(reference string, createdAt time.Time) *models.ConversionRecord {
	report := &models.ConversionReport{
		Reference: models.ItemReference{Kind: models.KindPlaylist, Value: reference},
		Playlist:  &models.PlaylistSummary{ID: reference, Name: "Road Trip"},
		Directory: "/music/Road Trip",
		Skipped:   1,
		Results: []models.ConversionResult{
			{
				Item:    models.TrackSummary{ID: "t1", Title: "One", Artists: []string{"A", "B, Jr."}, Album: "First"},
				Outcome: models.Success,
				Path:    "/music/Road Trip/One - A, B, Jr..mp3",
			},
			{
				Item:    models.TrackSummary{ID: "t2", Title: "Two", Artists: []string{"C"}},
				Outcome: models.Failure,
				Reason:  "audio acquisition failed: no match",
			},
		},
	}

	record := models.NewConversionRecord("", report)
	record.CreatedAt = createdAt
	return record
}

func TestConversionRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Create", func(t *testing.T) {
		repo := NewConversionRepository(setupTestDB(t))
		record := sampleRecord("p1", now)

		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("failed to create conversion: %v", err)
		}
		if record.ID == "" {
			t.Error("record ID should be set after creation")
		}
	})

	t.Run("Create rejects invalid records", func(t *testing.T) {
		repo := NewConversionRepository(setupTestDB(t))
		record := sampleRecord("", now)

		if err := repo.Create(ctx, record); err == nil {
			t.Error("expected validation error for empty reference")
		}
	})

	t.Run("Create rolls back on duplicate id", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewConversionRepository(db)

		first := sampleRecord("p1", now)
		if err := repo.Create(ctx, first); err != nil {
			t.Fatalf("failed to create conversion: %v", err)
		}

		dup := sampleRecord("p2", now)
		dup.ID = first.ID
		if err := repo.Create(ctx, dup); err == nil {
			t.Fatal("expected duplicate id to fail")
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM conversion_items").Scan(&count); err != nil {
			t.Fatalf("failed to count items: %v", err)
		}
		if count != 2 {
			t.Errorf("expected only the first record's 2 items, got %d", count)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewConversionRepository(setupTestDB(t))
		record := sampleRecord("p1", now)
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("failed to create conversion: %v", err)
		}

		got, err := repo.Get(ctx, record.ID)
		if err != nil {
			t.Fatalf("failed to get conversion: %v", err)
		}

		if got.Kind != models.KindPlaylist || got.Reference != "p1" || got.Name != "Road Trip" {
			t.Errorf("unexpected record %+v", got)
		}
		if got.Total != 2 || got.Succeeded != 1 || got.Failed != 1 || got.Skipped != 1 {
			t.Errorf("unexpected counters %+v", got)
		}
		if !got.CreatedAt.Equal(now) {
			t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
		}
		if len(got.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(got.Items))
		}

		first, second := got.Items[0], got.Items[1]
		if first.Outcome != models.Success || first.Item.Album != "First" || first.Path == "" {
			t.Errorf("unexpected first item %+v", first)
		}
		if len(first.Item.Artists) != 2 || first.Item.Artists[1] != "B, Jr." {
			t.Errorf("artists should round trip intact, got %v", first.Item.Artists)
		}
		if second.Outcome != models.Failure || second.Reason == "" {
			t.Errorf("unexpected second item %+v", second)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewConversionRepository(setupTestDB(t))
		if _, err := repo.Get(ctx, "nope"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewConversionRepository(setupTestDB(t))
		for i, ref := range []string{"p1", "p2", "p3"} {
			if err := repo.Create(ctx, sampleRecord(ref, now.Add(time.Duration(i)*time.Hour))); err != nil {
				t.Fatalf("failed to create conversion: %v", err)
			}
		}

		records, err := repo.List(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list conversions: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].Reference != "p3" || records[1].Reference != "p2" {
			t.Errorf("expected newest first, got %s, %s", records[0].Reference, records[1].Reference)
		}
		if records[0].Items != nil {
			t.Error("List should not load items")
		}

		all, err := repo.List(ctx, 0)
		if err != nil || len(all) != 3 {
			t.Errorf("expected default limit to return all 3, got %d, %v", len(all), err)
		}
	})

	t.Run("ListByReference", func(t *testing.T) {
		repo := NewConversionRepository(setupTestDB(t))
		for i, ref := range []string{"p1", "p2", "p1"} {
			if err := repo.Create(ctx, sampleRecord(ref, now.Add(time.Duration(i)*time.Minute))); err != nil {
				t.Fatalf("failed to create conversion: %v", err)
			}
		}

		records, err := repo.ListByReference(ctx, "p1")
		if err != nil {
			t.Fatalf("failed to list conversions: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records for p1, got %d", len(records))
		}

		none, err := repo.ListByReference(ctx, "missing")
		if err != nil || len(none) != 0 {
			t.Errorf("expected no records, got %d, %v", len(none), err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewConversionRepository(db)
		record := sampleRecord("p1", now)
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("failed to create conversion: %v", err)
		}

		if err := repo.Delete(ctx, record.ID); err != nil {
			t.Fatalf("failed to delete conversion: %v", err)
		}
		if _, err := repo.Get(ctx, record.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM conversion_items").Scan(&count); err != nil {
			t.Fatalf("failed to count items: %v", err)
		}
		if count != 0 {
			t.Errorf("expected items removed, got %d", count)
		}

		if err := repo.Delete(ctx, record.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewConversionRepository(db)
		db.Close()

		if err := repo.Create(ctx, sampleRecord("p1", now)); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(ctx, 10); err == nil {
			t.Error("expected error on closed database")
		}
	})
}
