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
	"github.com/friendsincode/grimnir_rotation/internal/catalog"
	"github.com/friendsincode/grimnir_rotation/internal/db"
	"github.com/friendsincode/grimnir_rotation/internal/events"
	"github.com/friendsincode/grimnir_rotation/internal/queuefile"
	"github.com/friendsincode/grimnir_rotation/internal/rotation"
)

var (
	extendStation string
	extendTarget  time.Duration
	extendSeed    int64
	extendLimit   int
	extendHistory bool
	extendOut     string
)

var extendCmd = &cobra.Command{
	Use:   "extend <queue.yaml>",
	Short: "Extend a queue from the station catalog",
	Long: `extend appends catalog tracks to a queue until it holds --target of playable
time, choosing only tracks that stay in rotation. The catalog database is
read from GRIMNIR_DB_BACKEND and GRIMNIR_DB_DSN; nothing is written to it.

With --history, plays from the last rotation window are placed ahead of the
queue so tracks that just aired count against the caps. They do not count
toward --target and are left out of the output. Entries that carry only a
catalog_id are filled in from the catalog.

Examples:
  rotationcheck extend queue.yaml --station 6f1c... --target 2h
  rotationcheck extend queue.yaml --history --seed 42 -o extended.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExtend,
}

func init() {
	extendCmd.Flags().StringVar(&extendStation, "station", "", "Station ID (default: GRIMNIR_STATION_ID)")
	extendCmd.Flags().DurationVar(&extendTarget, "target", 0, "Playable time the queue should reach (default: rotation window)")
	extendCmd.Flags().Int64Var(&extendSeed, "seed", 0, "Shuffle seed (default: current time)")
	extendCmd.Flags().IntVar(&extendLimit, "limit", 0, "Maximum candidates to load (0 = all)")
	extendCmd.Flags().BoolVar(&extendHistory, "history", false, "Count recent plays against the rotation caps")
	extendCmd.Flags().StringVarP(&extendOut, "out", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(extendCmd)
}

func runExtend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	station := extendStation
	if station == "" {
		station = cfg.StationID
	}
	if station == "" {
		return fmt.Errorf("--station or GRIMNIR_STATION_ID is required")
	}

	queue, err := queuefile.LoadFile(args[0])
	if err != nil {
		return err
	}

	database, err := db.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect catalog: %w", err)
	}
	defer db.Close(database)
	store := catalog.New(database, logger)

	if _, err := store.Resolve(ctx, queue); err != nil {
		return fmt.Errorf("resolve queue: %w", err)
	}

	items, err := store.Candidates(ctx, station, extendLimit)
	if err != nil {
		return err
	}

	var history []*rotation.Track
	if extendHistory {
		since := time.Now().Add(-validator.Rules().Window())
		plays, err := store.RecentPlays(ctx, station, since)
		if err != nil {
			return err
		}
		history = catalog.HistoryTracks(plays)
		logger.Debug().Int("plays", len(history)).Time("since", since).Msg("loaded play history")
	}

	target := extendTarget
	if target <= 0 {
		target = validator.Rules().Window()
	}
	seed := extendSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}

	extended := bus.Subscribe(events.EventQueueExtended)
	defer bus.Unsubscribe(events.EventQueueExtended, extended)

	filler := autofill.New(validator, bus, logger)
	res, err := filler.Extend(ctx, autofill.Request{
		History:    history,
		Queue:      queue,
		Candidates: catalog.ToTracks(items),
		TargetMS:   target.Milliseconds(),
		Seed:       seed,
	})
	if err != nil {
		return fmt.Errorf("extend queue: %w", err)
	}

	select {
	case p := <-extended:
		logger.Debug().Interface("event", p).Msg("queue extended event")
	default:
	}
	for _, w := range res.Warnings {
		logger.Warn().Str("warning", w).Int64("seed", seed).Msg("queue extension incomplete")
	}

	if extendOut == "" {
		return queuefile.Write(cmd.OutOrStdout(), res.Queue)
	}
	if err := queuefile.WriteFile(extendOut, res.Queue); err != nil {
		return err
	}
	logger.Info().Str("path", extendOut).Int("added", len(res.Added)).Msg("extended queue written")
	return nil
}
