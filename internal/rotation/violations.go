/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

// pass marks violations in a window and reports how many tracks it flagged.
type pass func(window []*Track, rules Rules) int

// passes run strictly in this order; later passes see earlier invalidations.
var passes = []struct {
	rule Rule
	fn   pass
}{
	{RuleDuplicate, markDuplicates},
	{RuleArtistCap, markArtistCap},
	{RuleAlbumCap, markAlbumCap},
	{RuleArtistRun, markArtistRuns},
	{RuleAlbumRun, markAlbumRuns},
}

// FindViolations runs every rule once over window, flagging offending
// tracks invalid in place, and returns window.
func FindViolations(window []*Track, rules Rules) []*Track {
	findViolations(window, rules)
	return window
}

func findViolations(window []*Track, rules Rules) map[Rule]int {
	flagged := make(map[Rule]int, len(passes))
	for _, p := range passes {
		if n := p.fn(window, rules); n > 0 {
			flagged[p.rule] += n
		}
	}
	return flagged
}

// markDuplicates keeps the first occurrence of each recording.
func markDuplicates(window []*Track, _ Rules) int {
	seen := make(map[string]struct{}, len(window))
	flagged := 0
	for _, t := range window {
		if _, ok := seen[t.CatalogID]; ok {
			if t.Valid {
				t.Valid = false
				flagged++
			}
			continue
		}
		seen[t.CatalogID] = struct{}{}
	}
	return flagged
}

func markArtistCap(window []*Track, rules Rules) int {
	return markFrequency(window, rules.ArtistCap, sameArtist)
}

func markAlbumCap(window []*Track, rules Rules) int {
	return markFrequency(window, rules.AlbumCap, sameAlbum)
}

// markFrequency flags a track once more than limit tracks up to and including
// it match. Tracks already flagged still count as occurrences.
func markFrequency(window []*Track, limit int, match func(a, b *Track) bool) int {
	flagged := 0
	for i, t := range window {
		if !t.Valid {
			continue
		}
		count := 0
		for _, prev := range window[:i+1] {
			if match(prev, t) {
				count++
			}
		}
		if count > limit {
			t.Valid = false
			flagged++
		}
	}
	return flagged
}

func markArtistRuns(window []*Track, rules Rules) int {
	return markRuns(window, rules.ArtistRunCap, sameArtist)
}

func markAlbumRuns(window []*Track, rules Rules) int {
	return markRuns(window, rules.AlbumRunCap, sameAlbum)
}

// markRuns flags a track preceded by limit matching tracks with no
// non-matching valid track in between. Invalid tracks neither break nor
// extend a run.
func markRuns(window []*Track, limit int, match func(a, b *Track) bool) int {
	flagged := 0
	for i := limit; i < len(window); i++ {
		t := window[i]
		if !t.Valid {
			continue
		}
		run := 0
		for j := i - 1; j >= 0; j-- {
			prev := window[j]
			if !prev.Valid {
				continue
			}
			if !match(prev, t) {
				break
			}
			run++
			if run >= limit {
				t.Valid = false
				flagged++
				break
			}
		}
	}
	return flagged
}
