/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_rotation/internal/queuefile"
	"github.com/friendsincode/grimnir_rotation/internal/telemetry"
)

var canAppendCmd = &cobra.Command{
	Use:   "can-append <queue.yaml> <candidates.yaml>",
	Short: "Check whether candidates could be appended to a queue",
	Long: `can-append checks each track in the candidates document on its own against
the end of the queue and prints "ok" or "rejected" for it. The queue file is
not modified.`,
	Args: cobra.ExactArgs(2),
	RunE: runCanAppend,
}

func init() {
	rootCmd.AddCommand(canAppendCmd)
}

func runCanAppend(cmd *cobra.Command, args []string) error {
	queue, err := queuefile.LoadFile(args[0])
	if err != nil {
		return err
	}
	candidates, err := queuefile.LoadFile(args[1])
	if err != nil {
		return err
	}

	_, span := telemetry.StartSpan(cmd.Context(), "rotation.CanAppend")
	defer span.End()

	out := cmd.OutOrStdout()
	for _, cand := range candidates {
		ok := validator.CanAppend(cand, queue)
		telemetry.ObserveAppend(ok)

		verdict := okStyle.Render("ok")
		if !ok {
			verdict = badStyle.Render("rejected")
		}
		fmt.Fprintf(out, "%s\t%s - %s\t%s\n", cand.QueueID, cand.Artist, cand.Title, verdict)
	}
	return nil
}
