/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/friendsincode/grimnir_rotation/internal/db"
	"github.com/friendsincode/grimnir_rotation/internal/events"
	"github.com/friendsincode/grimnir_rotation/internal/models"
	"github.com/friendsincode/grimnir_rotation/internal/queuefile"
)

const queueDoc = `tracks:
  - {catalog_id: a, queue_id: q1, title: One, artist: A, album: M, duration: 3m}
  - {catalog_id: b, queue_id: q2, title: Two, artist: A, album: M, duration: 3m}
  - {catalog_id: c, queue_id: q3, title: Three, artist: A, album: M, duration: 3m}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GRIMNIR_ENV", "test")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeQueue(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write queue: %v", err)
	}
	return path
}

func TestValidateCommand(t *testing.T) {
	path := writeQueue(t, queueDoc)
	annotated := filepath.Join(t.TempDir(), "checked.yaml")
	validateStrict = false
	validateOut = ""

	out, err := execute(t, "validate", path, "--out", annotated)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "1 of 3 tracks out of rotation") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	tracks, err := queuefile.LoadFile(annotated)
	if err != nil {
		t.Fatalf("reload annotated queue: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("annotated queue has %d tracks", len(tracks))
	}
	data, _ := os.ReadFile(annotated)
	if strings.Count(string(data), "valid: false") != 1 {
		t.Fatalf("expected one invalid entry:\n%s", data)
	}
}

func TestValidateCommandStrict(t *testing.T) {
	path := writeQueue(t, queueDoc)
	validateOut = ""
	defer func() { validateStrict = false }()

	_, err := execute(t, "validate", path, "--strict")
	if !errors.Is(err, ErrOutOfRotation) {
		t.Fatalf("validate --strict error = %v, want ErrOutOfRotation", err)
	}
}

func TestCanAppendCommand(t *testing.T) {
	queue := writeQueue(t, queueDoc)
	candidates := writeQueue(t, `tracks:
  - {catalog_id: a, queue_id: again, title: One, artist: A, album: M, duration: 3m}
  - {catalog_id: z, queue_id: fresh, title: New, artist: Z, album: N, duration: 3m}
`)

	out, err := execute(t, "can-append", queue, candidates)
	if err != nil {
		t.Fatalf("can-append: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.HasSuffix(lines[0], "rejected") || !strings.HasSuffix(lines[1], "ok") {
		t.Fatalf("unexpected verdicts:\n%s", out)
	}
}

func TestSampleCommand(t *testing.T) {
	sampleExtend, sampleYAML = false, false

	out, err := execute(t, "sample")
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if !strings.Contains(out, "8 of 16 tracks out of rotation") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

// setupCatalog creates an on-disk SQLite catalog and points the config at it.
func setupCatalog(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() { db.Close(database) })

	t.Setenv("GRIMNIR_DB_BACKEND", "sqlite")
	t.Setenv("GRIMNIR_DB_DSN", path)
	return database
}

func TestValidateCommandPublishesEvent(t *testing.T) {
	path := writeQueue(t, queueDoc)
	validateStrict = false
	validateOut = ""

	sub := bus.Subscribe(events.EventQueueValidated)
	defer bus.Unsubscribe(events.EventQueueValidated, sub)

	if _, err := execute(t, "validate", path); err != nil {
		t.Fatalf("validate: %v", err)
	}

	select {
	case p := <-sub:
		if p["tracks"] != 3 || p["invalid"] != 1 {
			t.Fatalf("unexpected payload %v", p)
		}
	default:
		t.Fatal("expected queue validated event")
	}
}

func TestValidateCommandResolvesFromCatalog(t *testing.T) {
	database := setupCatalog(t)
	items := []models.MediaItem{
		{ID: "m1", StationID: "s1", Title: "Roygbiv", Artist: "Boards", Album: "Music", Duration: 3 * time.Minute, AnalysisState: models.AnalysisComplete},
		{ID: "m2", StationID: "s1", Title: "Olson", Artist: "Boards", Album: "Music", Duration: 3 * time.Minute, AnalysisState: models.AnalysisComplete},
		{ID: "m3", StationID: "s1", Title: "Aquarius", Artist: "Boards", Album: "Music", Duration: 3 * time.Minute, AnalysisState: models.AnalysisComplete},
	}
	if err := database.Create(&items).Error; err != nil {
		t.Fatalf("seed media: %v", err)
	}

	path := writeQueue(t, `tracks:
  - {catalog_id: m1, queue_id: q1}
  - {catalog_id: m2, queue_id: q2}
  - {catalog_id: m3, queue_id: q3}
`)
	validateStrict = false
	validateOut = ""

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Boards") || !strings.Contains(out, "Aquarius") {
		t.Fatalf("catalog metadata missing from output:\n%s", out)
	}
	if !strings.Contains(out, "1 of 3 tracks out of rotation") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestExtendCommandTargetIgnoresHistory(t *testing.T) {
	database := setupCatalog(t)

	items := []models.MediaItem{
		{ID: "h", StationID: "s1", Title: "Long", Artist: "H", Album: "Aired", Duration: 10 * time.Minute, AnalysisState: models.AnalysisComplete},
	}
	for i := 0; i < 15; i++ {
		items = append(items, models.MediaItem{
			ID:            fmt.Sprintf("c%02d", i),
			StationID:     "s1",
			Title:         fmt.Sprintf("Short %d", i),
			Artist:        fmt.Sprintf("artist-%d", i),
			Album:         fmt.Sprintf("album-%d", i),
			Duration:      time.Minute,
			AnalysisState: models.AnalysisComplete,
		})
	}
	if err := database.Create(&items).Error; err != nil {
		t.Fatalf("seed media: %v", err)
	}

	now := time.Now()
	plays := []models.PlayHistory{
		{ID: "p1", StationID: "s1", MediaID: "h", Artist: "H", Title: "Long", Album: "Aired", StartedAt: now.Add(-50 * time.Minute), EndedAt: now.Add(-40 * time.Minute)},
		{ID: "p2", StationID: "s1", MediaID: "h", Artist: "H", Title: "Long", Album: "Aired", StartedAt: now.Add(-30 * time.Minute), EndedAt: now.Add(-20 * time.Minute)},
	}
	if err := database.Create(&plays).Error; err != nil {
		t.Fatalf("seed plays: %v", err)
	}

	path := writeQueue(t, "tracks: []\n")
	extendOut = ""
	defer func() { extendHistory = false }()

	out, err := execute(t, "extend", path, "--station", "s1", "--target", "10m", "--seed", "5", "--history")
	if err != nil {
		t.Fatalf("extend: %v", err)
	}

	tracks, err := queuefile.Load(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse extended queue: %v\n%s", err, out)
	}
	var total int64
	for _, tr := range tracks {
		if strings.HasPrefix(tr.QueueID, "history-") {
			t.Fatalf("history entry %s in output", tr.QueueID)
		}
		if tr.CatalogID == "h" {
			t.Fatal("recording that just aired was queued again")
		}
		total += tr.DurationMS
	}
	if total != (10 * time.Minute).Milliseconds() {
		t.Fatalf("extended by %dms, want %dms", total, (10 * time.Minute).Milliseconds())
	}
}
