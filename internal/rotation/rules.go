/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

import (
	"fmt"
	"time"
)

// Rule names a violation pass.
type Rule string

const (
	RuleDuplicate Rule = "duplicate"
	RuleArtistCap Rule = "artist_cap"
	RuleAlbumCap  Rule = "album_cap"
	RuleArtistRun Rule = "artist_run"
	RuleAlbumRun  Rule = "album_run"
)

// AllRules lists the passes in the order they run.
var AllRules = []Rule{RuleDuplicate, RuleArtistCap, RuleAlbumCap, RuleArtistRun, RuleAlbumRun}

// DefaultWindow is the trailing broadcast span the caps apply to.
const DefaultWindow = 3 * time.Hour

// Rules holds the rotation thresholds.
//
// The run caps also set where the run checks start: a track is only checked
// once at least ArtistRunCap (or AlbumRunCap) tracks precede it in the
// window. At the defaults this is index 3 for artists and index 2 for albums;
// lowering a run cap moves its first checked index down with it.
type Rules struct {
	WindowMS     int64 `yaml:"window_ms"`
	ArtistCap    int   `yaml:"artist_cap"`     // max tracks per artist in a window
	AlbumCap     int   `yaml:"album_cap"`      // max tracks per artist+album in a window
	ArtistRunCap int   `yaml:"artist_run_cap"` // max consecutive same-artist tracks
	AlbumRunCap  int   `yaml:"album_run_cap"`  // max consecutive same-album tracks
}

// DefaultRules returns the standard broadcast rotation thresholds.
func DefaultRules() Rules {
	return Rules{
		WindowMS:     DefaultWindow.Milliseconds(),
		ArtistCap:    4,
		AlbumCap:     3,
		ArtistRunCap: 3,
		AlbumRunCap:  2,
	}
}

// Window returns the window threshold as a duration.
func (r Rules) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

// Validate rejects thresholds that would make every track invalid.
func (r Rules) Validate() error {
	if r.WindowMS <= 0 {
		return fmt.Errorf("rotation window must be positive, got %dms", r.WindowMS)
	}
	caps := []struct {
		name string
		val  int
	}{
		{"artist cap", r.ArtistCap},
		{"album cap", r.AlbumCap},
		{"artist run cap", r.ArtistRunCap},
		{"album run cap", r.AlbumRunCap},
	}
	for _, c := range caps {
		if c.val < 1 {
			return fmt.Errorf("rotation %s must be at least 1, got %d", c.name, c.val)
		}
	}
	return nil
}
