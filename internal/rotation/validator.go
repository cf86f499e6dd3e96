/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

import "github.com/rs/zerolog"

// Validator applies rotation rules to playback queues.
//
// A Validator holds no per-call state and may be shared. The sequences it is
// handed are mutated in place without locking; callers serialize access to a
// shared queue.
type Validator struct {
	rules  Rules
	logger zerolog.Logger
}

// New creates a validator for the given thresholds.
func New(rules Rules, logger zerolog.Logger) *Validator {
	return &Validator{rules: rules, logger: logger.With().Str("component", "rotation").Logger()}
}

// Rules returns the thresholds the validator enforces.
func (v *Validator) Rules() Rules {
	return v.rules
}

// Stats describes one stabilization run.
type Stats struct {
	Tracks      int
	Iterations  int
	BackSteps   int
	Invalidated int
	ByRule      map[Rule]int
}

// Window cuts the rotation window starting at the head of tracks.
func (v *Validator) Window(tracks []*Track) []*Track {
	return Window(tracks, v.rules.WindowMS)
}

// FindViolations runs the rule set over a single window.
func (v *Validator) FindViolations(window []*Track) []*Track {
	return FindViolations(window, v.rules)
}

// Validate recomputes Valid for every track in tracks and returns tracks.
//
// QueueID must be unique within tracks; duplicates make correlation between
// windows and the sequence undefined.
func (v *Validator) Validate(tracks []*Track) []*Track {
	v.Run(tracks)
	return tracks
}

// Run validates tracks in place and reports what it did.
//
// Each starting index is windowed and checked. Whenever a check flags tracks,
// the scan steps back one index per flagged track, since freeing window budget
// can pull a later track into an earlier window. Valid only ever goes from
// true to false within a run, which bounds the number of back steps.
func (v *Validator) Run(tracks []*Track) Stats {
	stats := Stats{Tracks: len(tracks), ByRule: make(map[Rule]int)}

	byQueueID := make(map[string]*Track, len(tracks))
	for _, t := range tracks {
		t.Valid = true
		byQueueID[t.QueueID] = t
	}

	i := 0
	for i < len(tracks) {
		stats.Iterations++
		window := Window(tracks[i:], v.rules.WindowMS)
		for rule, n := range findViolations(window, v.rules) {
			stats.ByRule[rule] += n
		}

		changed := false
		for _, t := range window {
			if t.Valid {
				continue
			}
			// Window entries are the sequence's own entities, so this is the
			// same track; the lookup only keys the flag by queue id.
			byQueueID[t.QueueID].Valid = false
			changed = true
			stats.Invalidated++
			stats.BackSteps++
			v.logger.Debug().
				Int("index", i).
				Str("queue_id", t.QueueID).
				Str("catalog_id", t.CatalogID).
				Msg("track out of rotation, stepping back")
			i = max(0, i-1)
		}
		if !changed {
			i++
		}
	}

	v.logger.Debug().
		Int("tracks", stats.Tracks).
		Int("iterations", stats.Iterations).
		Int("invalidated", stats.Invalidated).
		Msg("rotation validated")
	return stats
}

// CanAppend reports whether candidate would hold a valid position at the end
// of existing. Neither existing nor candidate is modified.
func (v *Validator) CanAppend(candidate *Track, existing []*Track) bool {
	trial := make([]*Track, 0, len(existing)+1)
	trial = append(trial, CloneAll(existing)...)
	trial = append(trial, candidate.Clone())

	v.Validate(trial)
	if len(trial) == 0 {
		return true
	}
	return trial[len(trial)-1].Valid
}
