/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package sample provides a fixed demonstration queue.
package sample

import (
	"fmt"
	"time"

	"github.com/friendsincode/grimnir_rotation/internal/rotation"
)

type entry struct {
	catalogID string
	title     string
	artist    string
	album     string
	length    time.Duration
}

// The queue repeats a recording, runs one album back to back and leans on a
// single artist, so every rule has something to find.
var demo = []entry{
	{"cat-001", "Everything In Its Right Place", "Radiohead", "Kid A", 4*time.Minute + 11*time.Second},
	{"cat-002", "Kid A", "Radiohead", "Kid A", 4*time.Minute + 44*time.Second},
	{"cat-003", "The National Anthem", "Radiohead", "Kid A", 5*time.Minute + 51*time.Second},
	{"cat-010", "Windowlicker", "Aphex Twin", "Windowlicker", 6*time.Minute + 8*time.Second},
	{"cat-004", "Idioteque", "Radiohead", "Kid A", 5*time.Minute + 9*time.Second},
	{"cat-020", "Teardrop", "Massive Attack", "Mezzanine", 5*time.Minute + 30*time.Second},
	{"cat-005", "Pyramid Song", "Radiohead", "Amnesiac", 4*time.Minute + 49*time.Second},
	{"cat-006", "Knives Out", "Radiohead", "Amnesiac", 4*time.Minute + 15*time.Second},
	{"cat-007", "Reckoner", "Radiohead", "In Rainbows", 4*time.Minute + 50*time.Second},
	{"cat-010", "Windowlicker", "Aphex Twin", "Windowlicker", 6*time.Minute + 8*time.Second},
	{"cat-021", "Angel", "Massive Attack", "Mezzanine", 6*time.Minute + 19*time.Second},
	{"cat-030", "Roygbiv", "Boards of Canada", "Music Has the Right to Children", 2*time.Minute + 31*time.Second},
	{"cat-031", "Olson", "Boards of Canada", "Music Has the Right to Children", 1*time.Minute + 31*time.Second},
	{"cat-032", "Aquarius", "Boards of Canada", "Music Has the Right to Children", 5*time.Minute + 58*time.Second},
	{"cat-033", "Dayvan Cowboy", "Boards of Canada", "The Campfire Headphase", 5*time.Minute},
	{"cat-022", "Inertia Creeps", "Massive Attack", "Mezzanine", 5*time.Minute + 57*time.Second},
}

// Queue returns a fresh copy of the demonstration queue.
func Queue() []*rotation.Track {
	tracks := make([]*rotation.Track, len(demo))
	for i, e := range demo {
		t := rotation.NewTrack(e.catalogID, fmt.Sprintf("demo-%02d", i+1), e.title, e.artist, e.album, e.length)
		t.Position = i
		tracks[i] = t
	}
	return tracks
}

// Candidates returns tracks suitable for extending the demonstration queue.
func Candidates() []*rotation.Track {
	extra := []entry{
		{"cat-040", "Hyperballad", "Björk", "Post", 5*time.Minute + 21*time.Second},
		{"cat-041", "Jóga", "Björk", "Homogenic", 5*time.Minute + 5*time.Second},
		{"cat-050", "Glory Box", "Portishead", "Dummy", 5*time.Minute + 6*time.Second},
		{"cat-051", "Roads", "Portishead", "Dummy", 5*time.Minute + 2*time.Second},
		{"cat-060", "Unfinished Sympathy", "Massive Attack", "Blue Lines", 5*time.Minute + 8*time.Second},
		{"cat-008", "Nude", "Radiohead", "In Rainbows", 4*time.Minute + 15*time.Second},
		{"cat-001", "Everything In Its Right Place", "Radiohead", "Kid A", 4*time.Minute + 11*time.Second},
	}
	tracks := make([]*rotation.Track, len(extra))
	for i, e := range extra {
		tracks[i] = rotation.NewTrack(e.catalogID, fmt.Sprintf("cand-%02d", i+1), e.title, e.artist, e.album, e.length)
	}
	return tracks
}
