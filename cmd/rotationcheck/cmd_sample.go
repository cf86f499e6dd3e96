/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_rotation/internal/autofill"
	"github.com/friendsincode/grimnir_rotation/internal/queuefile"
	"github.com/friendsincode/grimnir_rotation/internal/rotation"
	"github.com/friendsincode/grimnir_rotation/internal/sample"
)

var (
	sampleExtend bool
	sampleYAML   bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Validate the built-in demonstration queue",
	Long: `sample validates a fixed demonstration queue that breaks every rotation
rule at least once and prints the result. With --extend it then fills the
queue from a small set of demonstration candidates.`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().BoolVar(&sampleExtend, "extend", false, "Extend the demo queue with demo candidates")
	sampleCmd.Flags().BoolVar(&sampleYAML, "yaml", false, "Print the queue as a YAML document instead of a table")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	tracks := sample.Queue()
	stats := checkQueue(cmd.Context(), tracks)

	if sampleExtend {
		filler := autofill.New(validator, nil, logger)
		res, err := filler.Extend(cmd.Context(), autofill.Request{
			Queue:      tracks,
			Candidates: sample.Candidates(),
			TargetMS:   validMS(tracks) + (30 * time.Minute).Milliseconds(),
			Seed:       1,
		})
		if err != nil {
			return err
		}
		tracks = res.Queue
		stats = checkQueue(cmd.Context(), tracks)
		fmt.Fprintf(out, "added %d tracks, %d append checks rejected\n\n", len(res.Added), res.Rejected)
	}

	if sampleYAML {
		return queuefile.Write(out, tracks)
	}
	if err := rotation.Dump(out, tracks); err != nil {
		return err
	}
	printSummary(out, stats, tracks)
	return nil
}

func validMS(tracks []*rotation.Track) int64 {
	var total int64
	for _, t := range tracks {
		if t.Valid {
			total += t.DurationMS
		}
	}
	return total
}
