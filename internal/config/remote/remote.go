// Package remote implements the remote override source.
//
// Overrides live in a record store as (payload, timestamp) records under a
// fixed type tag. Publishing always creates a new record, so repeated
// publishes accumulate; fetch resolves the pile deterministically by
// preferring the newest decodable record.
package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/seatwise/flightconfig/internal/config"
)

// RecordType is the fixed type tag for configuration override records.
const RecordType = "Configuration"

// Record is one remote-side record: a serialized configuration payload
// plus its last-modified timestamp.
type Record struct {
	// ID uniquely identifies the record.
	ID string

	// Type is the record's type tag.
	Type string

	// ModifiedAt is when the record was created or last modified.
	ModifiedAt time.Time

	// Payload is the JSON-serialized Configuration.
	Payload []byte
}

// RecordStore is the transport boundary: query-by-type and create. The
// production store is an external system; MemoryRecordStore and
// HTTPRecordStore implement it here.
type RecordStore interface {
	// Query returns all records with the given type tag, in no particular
	// order.
	Query(ctx context.Context, recordType string) ([]Record, error)

	// Save creates a new record. It never updates an existing one.
	Save(ctx context.Context, rec Record) error
}

// Source resolves override records into Configuration values.
type Source struct {
	store RecordStore
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Source) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an override source over a record store.
func New(store RecordStore, opts ...Option) *Source {
	s := &Source{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the authoritative override: the newest record whose
// payload decodes. Undecodable records are skipped, not fatal. When no
// record decodes (or none exists, or the store's response itself is
// malformed) the result is config.ErrAbsent — a permanent-for-now
// condition, distinct from the transient transport failures that should be
// retried on the next process start.
func (s *Source) Fetch(ctx context.Context) (*config.Configuration, error) {
	records, err := s.store.Query(ctx, RecordType)
	if err != nil {
		if errors.Is(err, config.ErrDecode) {
			s.log.Warn("override store response malformed", "error", err)
			return nil, config.ErrAbsent
		}
		if errors.Is(err, config.ErrTransient) {
			return nil, err
		}
		return nil, &config.TransientError{Op: "query", Err: err}
	}

	// Newest first. The store enforces no uniqueness, so the timestamp is
	// the tie-break between accumulated override records.
	sort.Slice(records, func(i, j int) bool {
		return records[i].ModifiedAt.After(records[j].ModifiedAt)
	})

	for _, rec := range records {
		cfg, derr := config.DecodeJSON(rec.Payload)
		if derr != nil {
			s.log.Warn("skipping undecodable override record", "id", rec.ID, "error", derr)
			continue
		}
		return cfg, nil
	}

	return nil, config.ErrAbsent
}

// Publish creates a new override record for cfg, stamped with the current
// time.
func (s *Source) Publish(ctx context.Context, cfg *config.Configuration) error {
	payload, err := config.EncodeJSON(cfg)
	if err != nil {
		return err
	}

	rec := Record{
		ID:         uuid.NewString(),
		Type:       RecordType,
		ModifiedAt: s.now().UTC(),
		Payload:    payload,
	}

	if err := s.store.Save(ctx, rec); err != nil {
		if errors.Is(err, config.ErrTransient) {
			return err
		}
		return &config.TransientError{Op: "save", Err: err}
	}

	s.log.Info("override record created", "id", rec.ID)
	return nil
}
