/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package queuefile reads and writes playback queues as YAML documents.
package queuefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/friendsincode/grimnir_rotation/internal/rotation"
)

var (
	// ErrDuplicateQueueID indicates two entries share a queue id.
	ErrDuplicateQueueID = errors.New("duplicate queue id")
	// ErrMissingCatalogID indicates an entry without a catalog id.
	ErrMissingCatalogID = errors.New("entry has no catalog id")
	// ErrNegativeDuration indicates an entry with a negative duration.
	ErrNegativeDuration = errors.New("negative duration")
)

// Document is the on-disk queue layout.
type Document struct {
	Tracks []Entry `yaml:"tracks"`
}

// Entry is one queued track. Duration accepts Go duration strings ("3m20s");
// DurationMS wins when both are set.
type Entry struct {
	CatalogID  string `yaml:"catalog_id"`
	QueueID    string `yaml:"queue_id,omitempty"`
	Title      string `yaml:"title,omitempty"`
	Artist     string `yaml:"artist"`
	Album      string `yaml:"album"`
	Duration   string `yaml:"duration,omitempty"`
	DurationMS int64  `yaml:"duration_ms,omitempty"`
	Valid      *bool  `yaml:"valid,omitempty"`
}

// Load parses a queue document. Entries without a queue id get a fresh one.
func Load(r io.Reader) ([]*rotation.Track, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []*rotation.Track{}, nil
		}
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	return doc.Queue()
}

// LoadFile parses the queue document at path.
func LoadFile(path string) ([]*rotation.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queue: %w", err)
	}
	defer f.Close()

	tracks, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tracks, nil
}

// Queue converts the document into queue entries.
func (d Document) Queue() ([]*rotation.Track, error) {
	tracks := make([]*rotation.Track, 0, len(d.Tracks))
	seen := make(map[string]int, len(d.Tracks))

	for i, e := range d.Tracks {
		if e.CatalogID == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrMissingCatalogID)
		}
		ms, err := e.durationMS()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		queueID := e.QueueID
		if queueID == "" {
			queueID = uuid.NewString()
		}
		if prev, ok := seen[queueID]; ok {
			return nil, fmt.Errorf("entries %d and %d: %w %q", prev, i, ErrDuplicateQueueID, queueID)
		}
		seen[queueID] = i

		tracks = append(tracks, &rotation.Track{
			CatalogID:  e.CatalogID,
			QueueID:    queueID,
			Title:      e.Title,
			Artist:     e.Artist,
			Album:      e.Album,
			DurationMS: ms,
			Position:   i,
			Valid:      true,
		})
	}
	return tracks, nil
}

func (e Entry) durationMS() (int64, error) {
	ms := e.DurationMS
	if ms == 0 && e.Duration != "" {
		d, err := time.ParseDuration(e.Duration)
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", e.Duration, err)
		}
		ms = d.Milliseconds()
	}
	if ms < 0 {
		return 0, ErrNegativeDuration
	}
	return ms, nil
}

// FromTracks builds a document that records each track's validity.
func FromTracks(tracks []*rotation.Track) Document {
	doc := Document{Tracks: make([]Entry, len(tracks))}
	for i, t := range tracks {
		valid := t.Valid
		doc.Tracks[i] = Entry{
			CatalogID:  t.CatalogID,
			QueueID:    t.QueueID,
			Title:      t.Title,
			Artist:     t.Artist,
			Album:      t.Album,
			DurationMS: t.DurationMS,
			Valid:      &valid,
		}
	}
	return doc
}

// Write renders tracks, with their validity, as a queue document.
func Write(w io.Writer, tracks []*rotation.Track) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromTracks(tracks)); err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the queue document to path.
func WriteFile(path string, tracks []*rotation.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create queue file: %w", err)
	}
	if err := Write(f, tracks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
