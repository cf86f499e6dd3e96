/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_rotation/internal/config"
	"github.com/friendsincode/grimnir_rotation/internal/events"
	"github.com/friendsincode/grimnir_rotation/internal/logging"
	"github.com/friendsincode/grimnir_rotation/internal/rotation"
	"github.com/friendsincode/grimnir_rotation/internal/telemetry"
	"github.com/friendsincode/grimnir_rotation/internal/version"
)

var (
	logger    zerolog.Logger
	cfg       *config.Config
	validator *rotation.Validator
	tracer    *telemetry.TracerProvider
	bus       = events.NewBus()
)

var rootCmd = &cobra.Command{
	Use:   "rotationcheck",
	Short: "Check playback queues against rotation rules",
	Long: `rotationcheck validates the order of a playback queue against the station
rotation rules (no repeated recordings, per-artist and per-album caps, and
limits on back-to-back artists and albums within a rolling window) and
extends queues with tracks that keep it in rotation.

Thresholds come from GRIMNIR_ROTATION_* environment variables or the YAML
file named by GRIMNIR_ROTATION_RULES_FILE.`,
	Version:           version.String(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and wires logging, tracing and the validator.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	for _, warning := range cfg.LegacyEnvWarnings {
		logger.Warn().Msg(warning)
	}

	tracer, err = telemetry.InitTracer(cmd.Context(), telemetry.TracerConfig{
		ServiceName:    "grimnir-rotationcheck",
		ServiceVersion: version.String(),
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}

	rules := cfg.Rules()
	validator = rotation.New(rules, logger)
	logger.Debug().
		Dur("window", rules.Window()).
		Int("artist_cap", rules.ArtistCap).
		Int("album_cap", rules.AlbumCap).
		Int("artist_run_cap", rules.ArtistRunCap).
		Int("album_run_cap", rules.AlbumRunCap).
		Msg("rotation rules loaded")
	return nil
}

// teardown flushes metrics and traces. Cobra skips it when a command fails.
func teardown(cmd *cobra.Command, args []string) {
	if err := telemetry.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error().Err(err).Str("path", cfg.MetricsTextfile).Msg("failed to write metrics textfile")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown tracer provider")
	}
}
