/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package autofill extends a playback queue with candidates that keep every
// appended track in rotation.
package autofill

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_rotation/internal/events"
	"github.com/friendsincode/grimnir_rotation/internal/rotation"
	"github.com/friendsincode/grimnir_rotation/internal/telemetry"
)

// ErrNoCandidates indicates an extension was requested with an empty pool.
var ErrNoCandidates = errors.New("no candidates to extend queue with")

// Request describes an extension.
type Request struct {
	History    []*rotation.Track // aired tracks ahead of Queue; count against the rules, not toward TargetMS
	Queue      []*rotation.Track // not modified
	Candidates []*rotation.Track // not modified
	TargetMS   int64             // valid playtime the queue should reach; defaults to the rotation window
	Seed       int64
}

// Result is the extended queue. Queue and TotalMS exclude the history.
type Result struct {
	Queue     []*rotation.Track
	Added     []*rotation.Track
	Rejected  int // failed append checks
	TotalMS   int64
	Exhausted bool
	Warnings  []string
}

// Filler picks queue extensions.
type Filler struct {
	validator *rotation.Validator
	bus       *events.Bus
	logger    zerolog.Logger
}

// New creates a filler. bus may be nil.
func New(validator *rotation.Validator, bus *events.Bus, logger zerolog.Logger) *Filler {
	return &Filler{validator: validator, bus: bus, logger: logger.With().Str("component", "autofill").Logger()}
}

// Extend appends candidates to a copy of the queue until its valid playtime
// reaches the target or no remaining candidate can be placed. Candidates are
// tried in a seeded shuffle; each is used at most once.
func (f *Filler) Extend(ctx context.Context, req Request) (Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "autofill.Extend")
	defer span.End()

	if len(req.Candidates) == 0 {
		telemetry.RecordError(span, ErrNoCandidates)
		return Result{}, ErrNoCandidates
	}

	target := req.TargetMS
	if target <= 0 {
		target = f.validator.Rules().WindowMS
	}

	history := len(req.History)
	queue := make([]*rotation.Track, 0, history+len(req.Queue))
	queue = append(queue, rotation.CloneAll(req.History)...)
	queue = append(queue, rotation.CloneAll(req.Queue)...)
	started := time.Now()
	stats := f.validator.Run(queue)
	telemetry.ObserveRun(stats, time.Since(started))
	telemetry.RecordRun(span, stats)

	remaining := rotation.CloneAll(req.Candidates)
	rng := rand.New(rand.NewSource(req.Seed))
	rng.Shuffle(len(remaining), func(i, j int) { remaining[i], remaining[j] = remaining[j], remaining[i] })

	result := Result{TotalMS: validMS(queue[history:])}
	for result.TotalMS < target && len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			telemetry.RecordError(span, err)
			return Result{}, err
		}

		idx := f.selectCandidate(remaining, queue, history, &result)
		if idx == -1 {
			break
		}

		sel := remaining[idx]
		sel.Valid = true
		sel.Position = len(queue) - history
		queue = append(queue, sel)
		result.Added = append(result.Added, sel)
		result.TotalMS += sel.DurationMS
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		f.logger.Debug().
			Str("queue_id", sel.QueueID).
			Str("catalog_id", sel.CatalogID).
			Dur("duration", sel.Duration()).
			Msg("track appended")

		f.bus.Publish(events.EventTrackAppended, events.Payload{
			"queue_id":   sel.QueueID,
			"catalog_id": sel.CatalogID,
			"position":   sel.Position,
		})
	}

	result.Queue = queue[history:]
	if result.TotalMS < target {
		result.Exhausted = true
		result.Warnings = append(result.Warnings, "underfilled_target")
	}

	f.logger.Info().
		Int("added", len(result.Added)).
		Int("rejected", result.Rejected).
		Int64("total_ms", result.TotalMS).
		Bool("exhausted", result.Exhausted).
		Msg("queue extended")

	f.bus.Publish(events.EventQueueExtended, events.Payload{
		"added":     len(result.Added),
		"rejected":  result.Rejected,
		"total_ms":  result.TotalMS,
		"exhausted": result.Exhausted,
	})
	return result, nil
}

// selectCandidate returns the index of the first remaining candidate that can
// follow queue, or -1. The first history entries of queue are aired plays.
func (f *Filler) selectCandidate(remaining, queue []*rotation.Track, history int, result *Result) int {
	for idx, cand := range remaining {
		ok := f.validator.CanAppend(cand, queue)
		telemetry.ObserveAppend(ok)
		if ok {
			return idx
		}
		result.Rejected++
		f.bus.Publish(events.EventTrackRejected, events.Payload{
			"queue_id":   cand.QueueID,
			"catalog_id": cand.CatalogID,
			"position":   len(queue) - history,
		})
	}
	return -1
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
