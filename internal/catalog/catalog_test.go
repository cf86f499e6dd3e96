/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/friendsincode/grimnir_rotation/internal/db"
	"github.com/friendsincode/grimnir_rotation/internal/models"
	"github.com/friendsincode/grimnir_rotation/internal/rotation"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return database
}

func seed(t *testing.T, database *gorm.DB) {
	t.Helper()

	items := []models.MediaItem{
		{ID: "m1", StationID: "s1", Title: "Roygbiv", Artist: "Boards", Album: "Music", Duration: 150 * time.Second, AnalysisState: models.AnalysisComplete},
		{ID: "m2", StationID: "s1", Title: "Olson", Artist: "Boards", Album: "Music", Duration: 90 * time.Second, AnalysisState: models.AnalysisComplete},
		{ID: "m3", StationID: "s1", Title: "Pending", Artist: "Zed", Album: "New", Duration: time.Minute, AnalysisState: models.AnalysisPending},
		{ID: "m4", StationID: "s2", Title: "Elsewhere", Artist: "Other", Album: "Far", Duration: time.Minute, AnalysisState: models.AnalysisComplete},
	}
	if err := database.Create(&items).Error; err != nil {
		t.Fatalf("seed media: %v", err)
	}

	now := time.Now()
	plays := []models.PlayHistory{
		{ID: "p1", StationID: "s1", MediaID: "m1", Artist: "Boards", Title: "Roygbiv", Album: "Music", StartedAt: now.Add(-10 * time.Minute), EndedAt: now.Add(-7*time.Minute - 30*time.Second)},
		{ID: "p0", StationID: "s1", MediaID: "m2", Artist: "Boards", Title: "Olson", Album: "Music", StartedAt: now.Add(-5 * time.Hour), EndedAt: now.Add(-5*time.Hour + 90*time.Second)},
	}
	if err := database.Create(&plays).Error; err != nil {
		t.Fatalf("seed plays: %v", err)
	}
}

func TestLookupKeepsRequestOrder(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database)
	store := New(database, zerolog.Nop())

	items, err := store.Lookup(context.Background(), []string{"m2", "m1"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(items) != 2 || items[0].ID != "m2" || items[1].ID != "m1" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestLookupMissing(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database)
	store := New(database, zerolog.Nop())

	_, err := store.Lookup(context.Background(), []string{"m1", "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup error = %v, want ErrNotFound", err)
	}
}

func TestCandidatesFiltersStationAndAnalysis(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database)
	store := New(database, zerolog.Nop())

	items, err := store.Candidates(context.Background(), "s1", 0)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d candidates, want 2", len(items))
	}
	for _, item := range items {
		if item.StationID != "s1" || !item.Playable() {
			t.Errorf("unexpected candidate %+v", item)
		}
	}

	limited, err := store.Candidates(context.Background(), "s1", 1)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("got %d candidates with limit 1", len(limited))
	}
}

func TestRecentPlays(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database)
	store := New(database, zerolog.Nop())

	plays, err := store.RecentPlays(context.Background(), "s1", time.Now().Add(-3*time.Hour))
	if err != nil {
		t.Fatalf("recent plays: %v", err)
	}
	if len(plays) != 1 || plays[0].ID != "p1" {
		t.Fatalf("unexpected plays: %+v", plays)
	}

	tracks := HistoryTracks(plays)
	if tracks[0].CatalogID != "m1" || tracks[0].QueueID != "history-p1" {
		t.Fatalf("unexpected history track: %+v", tracks[0])
	}
	if tracks[0].DurationMS != 150_000 {
		t.Fatalf("history duration = %d, want 150000", tracks[0].DurationMS)
	}
}

func TestToTracksAssignsQueueIDs(t *testing.T) {
	items := []models.MediaItem{
		{ID: "m1", Artist: "A", Album: "B", Duration: time.Minute, AnalysisState: models.AnalysisComplete},
		{ID: "m1", Artist: "A", Album: "B", Duration: time.Minute, AnalysisState: models.AnalysisComplete},
	}
	tracks := ToTracks(items)
	if tracks[0].QueueID == "" || tracks[0].QueueID == tracks[1].QueueID {
		t.Fatalf("queue ids not unique: %q %q", tracks[0].QueueID, tracks[1].QueueID)
	}
	if tracks[0].CatalogID != tracks[1].CatalogID {
		t.Fatal("catalog id should follow the media item")
	}
	if !tracks[0].Valid || tracks[0].DurationMS != 60_000 {
		t.Fatalf("unexpected track: %+v", tracks[0])
	}
}

func TestToTracksDropsUnplayable(t *testing.T) {
	items := []models.MediaItem{
		{ID: "ok", Artist: "A", Album: "B", Duration: time.Minute, AnalysisState: models.AnalysisComplete},
		{ID: "pending", Artist: "A", Album: "B", Duration: time.Minute, AnalysisState: models.AnalysisPending},
		{ID: "failed", Artist: "A", Album: "B", Duration: time.Minute, AnalysisState: models.AnalysisFailed},
		{ID: "negative", Artist: "A", Album: "B", Duration: -time.Second, AnalysisState: models.AnalysisComplete},
	}

	tracks := ToTracks(items)
	if len(tracks) != 1 || tracks[0].CatalogID != "ok" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}
}

func TestResolveFillsBareEntries(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database)
	store := New(database, zerolog.Nop())

	tracks := []*rotation.Track{
		{CatalogID: "m1", QueueID: "q1", Valid: true},
		{CatalogID: "x", QueueID: "q2", Title: "Kept", Artist: "Known", Album: "Disc", DurationMS: 1000, Valid: true},
		{CatalogID: "m1", QueueID: "q3", DurationMS: 5000, Valid: true},
	}

	n, err := store.Resolve(context.Background(), tracks)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if n != 2 {
		t.Fatalf("resolved %d tracks, want 2", n)
	}
	if tracks[0].Artist != "Boards" || tracks[0].Album != "Music" || tracks[0].Title != "Roygbiv" {
		t.Fatalf("unexpected resolved track: %+v", tracks[0])
	}
	if tracks[0].DurationMS != 150_000 {
		t.Fatalf("duration = %d, want 150000", tracks[0].DurationMS)
	}
	if tracks[2].DurationMS != 5000 {
		t.Fatalf("explicit duration overwritten: %d", tracks[2].DurationMS)
	}
	if tracks[1].Artist != "Known" {
		t.Fatalf("described entry was changed: %+v", tracks[1])
	}
}

func TestResolveUnknownMedia(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database)
	store := New(database, zerolog.Nop())

	_, err := store.Resolve(context.Background(), []*rotation.Track{{CatalogID: "nope", QueueID: "q1"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("resolve error = %v, want ErrNotFound", err)
	}
}
