/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

// Window returns the valid tracks from the head of tracks until their
// cumulative duration reaches thresholdMS. The track that crosses the
// threshold is included. Invalid tracks are skipped and consume no budget.
//
// The returned slice shares its *Track values with tracks.
func Window(tracks []*Track, thresholdMS int64) []*Track {
	var (
		window []*Track
		sum    int64
	)
	for _, t := range tracks {
		if !t.Valid {
			continue
		}
		if sum >= thresholdMS {
			break
		}
		window = append(window, t)
		sum += t.DurationMS
	}
	return window
}
