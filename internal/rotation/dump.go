/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package rotation

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Marker returns the validity marker used by Dump.
func Marker(t *Track) string {
	if t.Valid {
		return "ok"
	}
	return "XX"
}

// Dump writes one line per track with its validity for human inspection.
func Dump(w io.Writer, tracks []*Track) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range tracks {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.QueueID, t.Title, Marker(t), t.Artist, t.Album); err != nil {
			return err
		}
	}
	return tw.Flush()
}
