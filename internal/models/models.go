/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// Station owns a media library and a play history.
type Station struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	Timezone  string `gorm:"type:varchar(32)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MediaItem is one recording in a station's library.
type MediaItem struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	StationID     string `gorm:"type:uuid;index"`
	Title         string `gorm:"index"`
	Artist        string `gorm:"index"`
	Album         string `gorm:"index"`
	Duration      time.Duration
	Genre         string
	Label         string
	Year          int
	AnalysisState AnalysisState `gorm:"type:varchar(32)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AnalysisState tracks analyzer progress.
type AnalysisState string

const (
	AnalysisPending  AnalysisState = "pending"
	AnalysisComplete AnalysisState = "complete"
	AnalysisFailed   AnalysisState = "failed"
)

// Playable reports whether the item can be queued.
func (m MediaItem) Playable() bool {
	return m.AnalysisState == AnalysisComplete && m.Duration >= 0
}

// PlayHistory records a track that went to air.
type PlayHistory struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	StationID string `gorm:"type:uuid;index"`
	MediaID   string `gorm:"type:uuid"`
	Artist    string `gorm:"index"`
	Title     string `gorm:"index"`
	Album     string `gorm:"index"`
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration returns how long the play lasted.
func (p PlayHistory) Duration() time.Duration {
	if p.EndedAt.Before(p.StartedAt) {
		return 0
	}
	return p.EndedAt.Sub(p.StartedAt)
}
