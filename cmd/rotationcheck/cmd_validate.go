/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_rotation/internal/catalog"
	"github.com/friendsincode/grimnir_rotation/internal/db"
	"github.com/friendsincode/grimnir_rotation/internal/events"
	"github.com/friendsincode/grimnir_rotation/internal/queuefile"
	"github.com/friendsincode/grimnir_rotation/internal/rotation"
	"github.com/friendsincode/grimnir_rotation/internal/telemetry"
)

// ErrOutOfRotation is returned by --strict runs that find invalid tracks.
var ErrOutOfRotation = errors.New("queue has tracks out of rotation")

var (
	validateOut    string
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <queue.yaml>",
	Short: "Validate a queue and print each track's rotation status",
	Long: `Validate reads a queue document, applies the rotation rules and prints one
line per track with an "ok" or "XX" marker. When GRIMNIR_DB_DSN names a
catalog, entries that carry only a catalog_id are filled in from it first.

Examples:
  rotationcheck validate queue.yaml
  rotationcheck validate queue.yaml --out checked.yaml
  rotationcheck validate queue.yaml --strict   # non-zero exit on violations`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var (
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	badStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func init() {
	validateCmd.Flags().StringVarP(&validateOut, "out", "o", "", "Write the annotated queue document to this file")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail when any track is out of rotation")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	tracks, err := queuefile.LoadFile(args[0])
	if err != nil {
		return err
	}
	if cfg.CatalogConfigured() {
		if err := resolveFromCatalog(cmd.Context(), tracks); err != nil {
			return err
		}
	}

	stats := checkQueue(cmd.Context(), tracks)

	out := cmd.OutOrStdout()
	if err := rotation.Dump(out, tracks); err != nil {
		return err
	}
	printSummary(out, stats, tracks)

	if validateOut != "" {
		if err := queuefile.WriteFile(validateOut, tracks); err != nil {
			return err
		}
		logger.Info().Str("path", validateOut).Msg("annotated queue written")
	}

	if validateStrict && rotation.InvalidCount(tracks) > 0 {
		return ErrOutOfRotation
	}
	return nil
}

// checkQueue validates tracks in place, recording a span and metrics.
func checkQueue(ctx context.Context, tracks []*rotation.Track) rotation.Stats {
	_, span := telemetry.StartSpan(ctx, "rotation.Validate")
	defer span.End()

	started := time.Now()
	stats := validator.Run(tracks)
	elapsed := time.Since(started)

	telemetry.ObserveRun(stats, elapsed)
	telemetry.RecordRun(span, stats)

	logger.Info().
		Int("tracks", stats.Tracks).
		Int("invalid", rotation.InvalidCount(tracks)).
		Int("back_steps", stats.BackSteps).
		Dur("elapsed", elapsed).
		Msg("queue validated")

	bus.Publish(events.EventQueueValidated, events.Payload{
		"tracks":     stats.Tracks,
		"invalid":    rotation.InvalidCount(tracks),
		"back_steps": stats.BackSteps,
	})
	return stats
}

// resolveFromCatalog fills catalog-only entries from the media library.
func resolveFromCatalog(ctx context.Context, tracks []*rotation.Track) error {
	database, err := db.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("connect catalog: %w", err)
	}
	defer db.Close(database)

	if _, err := catalog.New(database, logger).Resolve(ctx, tracks); err != nil {
		return fmt.Errorf("resolve queue: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, stats rotation.Stats, tracks []*rotation.Track) {
	invalid := rotation.InvalidCount(tracks)
	style := okStyle
	if invalid > 0 {
		style = badStyle
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, style.Render(fmt.Sprintf("%d of %d tracks out of rotation", invalid, len(tracks))))
	for _, rule := range rotation.AllRules {
		if n := stats.ByRule[rule]; n > 0 {
			fmt.Fprintf(w, "  %-11s %d\n", rule, n)
		}
	}
}
