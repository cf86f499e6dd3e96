/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/grimnir_rotation/internal/models"
	"github.com/friendsincode/grimnir_rotation/internal/rotation"
)

// ErrNotFound indicates a catalog id has no media item.
var ErrNotFound = errors.New("media item not found")

// Store reads the station media library. It never writes.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New creates a catalog store.
func New(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger.With().Str("component", "catalog").Logger()}
}

// Lookup returns the media items for ids in the order given.
func (s *Store) Lookup(ctx context.Context, ids []string) ([]models.MediaItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var items []models.MediaItem
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("lookup media: %w", err)
	}

	byID := make(map[string]models.MediaItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	out := make([]models.MediaItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		out = append(out, item)
	}
	return out, nil
}

// Candidates lists playable media for a station. A limit of zero returns all.
func (s *Store) Candidates(ctx context.Context, stationID string, limit int) ([]models.MediaItem, error) {
	query := s.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Where("analysis_state = ?", models.AnalysisComplete).
		Order("artist, album, title, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []models.MediaItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	s.logger.Debug().Str("station_id", stationID).Int("count", len(items)).Msg("loaded candidates")
	return items, nil
}

// RecentPlays returns plays that started at or after since, oldest first.
func (s *Store) RecentPlays(ctx context.Context, stationID string, since time.Time) ([]models.PlayHistory, error) {
	var plays []models.PlayHistory
	err := s.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Where("started_at >= ?", since).
		Order("started_at ASC").
		Find(&plays).Error
	if err != nil {
		return nil, fmt.Errorf("load play history: %w", err)
	}
	return plays, nil
}

// Resolve fills in title, artist and album for tracks that carry only a
// catalog id, plus the duration when it is unset. It returns how many tracks
// were filled.
func (s *Store) Resolve(ctx context.Context, tracks []*rotation.Track) (int, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, t := range tracks {
		if !bare(t) {
			continue
		}
		if _, ok := seen[t.CatalogID]; !ok {
			seen[t.CatalogID] = struct{}{}
			ids = append(ids, t.CatalogID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	items, err := s.Lookup(ctx, ids)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]models.MediaItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	filled := 0
	for _, t := range tracks {
		if !bare(t) {
			continue
		}
		item := byID[t.CatalogID]
		t.Title, t.Artist, t.Album = item.Title, item.Artist, item.Album
		if t.DurationMS == 0 && item.Duration > 0 {
			t.DurationMS = item.Duration.Milliseconds()
		}
		filled++
	}
	s.logger.Debug().Int("tracks", filled).Int("media", len(ids)).Msg("resolved queue entries from catalog")
	return filled, nil
}

func bare(t *rotation.Track) bool {
	return t.Title == "" && t.Artist == "" && t.Album == ""
}

// ToTrack turns a media item into a queue entry with a fresh queue id.
func ToTrack(item models.MediaItem) *rotation.Track {
	return rotation.NewTrack(item.ID, uuid.NewString(), item.Title, item.Artist, item.Album, item.Duration)
}

// ToTracks converts the playable items in order and drops the rest.
func ToTracks(items []models.MediaItem) []*rotation.Track {
	out := make([]*rotation.Track, 0, len(items))
	for _, item := range items {
		if !item.Playable() {
			continue
		}
		out = append(out, ToTrack(item))
	}
	return out
}

// HistoryTracks turns aired plays into queue entries so the rotation window
// can reach back into what already went out.
func HistoryTracks(plays []models.PlayHistory) []*rotation.Track {
	out := make([]*rotation.Track, len(plays))
	for i, p := range plays {
		out[i] = rotation.NewTrack(p.MediaID, "history-"+p.ID, p.Title, p.Artist, p.Album, p.Duration())
	}
	return out
}
