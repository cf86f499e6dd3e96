/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

import "time"

// Track is one slot in a playback queue.
//
// Windows and the full sequence share *Track values, so an invalidation made
// while inspecting a window is visible to the caller's sequence.
type Track struct {
	CatalogID  string // same recording when equal
	QueueID    string // unique per sequence
	Title      string
	Artist     string
	Album      string
	DurationMS int64
	Position   int

	// Valid reports whether the track may sit at its current position.
	Valid bool
}

// NewTrack returns a valid track.
func NewTrack(catalogID, queueID, title, artist, album string, duration time.Duration) *Track {
	return &Track{
		CatalogID:  catalogID,
		QueueID:    queueID,
		Title:      title,
		Artist:     artist,
		Album:      album,
		DurationMS: duration.Milliseconds(),
		Valid:      true,
	}
}

// Duration returns the playback length.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}

// Clone returns an independent copy of the track.
func (t *Track) Clone() *Track {
	c := *t
	return &c
}

func sameArtist(a, b *Track) bool {
	return a.Artist == b.Artist
}

func sameAlbum(a, b *Track) bool {
	return a.Artist == b.Artist && a.Album == b.Album
}

// CloneAll deep-copies a sequence.
func CloneAll(tracks []*Track) []*Track {
	out := make([]*Track, len(tracks))
	for i, t := range tracks {
		out[i] = t.Clone()
	}
	return out
}

// InvalidCount returns how many tracks are flagged invalid.
func InvalidCount(tracks []*Track) int {
	n := 0
	for _, t := range tracks {
		if !t.Valid {
			n++
		}
	}
	return n
}
