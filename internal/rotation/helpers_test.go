/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

import "github.com/rs/zerolog"

// mk builds a valid track whose catalog id is id and queue id is "q-"+id.
func mk(id, artist, album string, durationMS int64) *Track {
	return &Track{
		CatalogID:  id,
		QueueID:    "q-" + id,
		Title:      id,
		Artist:     artist,
		Album:      album,
		DurationMS: durationMS,
		Valid:      true,
	}
}

func validity(tracks []*Track) []bool {
	out := make([]bool, len(tracks))
	for i, t := range tracks {
		out[i] = t.Valid
	}
	return out
}

func equalValidity(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newTestValidator(rules Rules) *Validator {
	return New(rules, zerolog.Nop())
}
