package history

import (
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"planttracker/internal/plant"
)

// Store holds the canonical record sequence.
type Store struct {
	records  []plant.Record
	collator *collate.Collator
	location *time.Location
}

// Option customizes a Store.
type Option func(*Store)

// WithLocale sets the collation locale used by name sorts.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) {
		s.collator = collate.New(tag)
	}
}

// WithLocation sets the zone used to derive calendar dates for grouping.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New constructs an empty store. Defaults are English collation and the
// device-local zone.
func New(opts ...Option) *Store {
	s := &Store{
		collator: collate.New(language.English),
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert prepends rec. A record with the same id is replaced and moves to the front.
func (s *Store) Insert(rec plant.Record) {
	if i := s.index(rec.ID); i >= 0 {
		s.records = slices.Delete(s.records, i, i+1)
	}
	s.records = slices.Insert(s.records, 0, rec)
}

// Load replaces the canonical sequence. The first occurrence of an id wins.
func (s *Store) Load(records []plant.Record) {
	seen := make(map[string]struct{}, len(records))
	loaded := make([]plant.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		loaded = append(loaded, rec)
	}
	s.records = loaded
}

// Get returns the record with id.
func (s *Store) Get(id string) (plant.Record, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return plant.Record{}, false
}

// Contains reports whether id is present.
func (s *Store) Contains(id string) bool {
	return s.index(id) >= 0
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the canonical sequence.
func (s *Store) Records() []plant.Record {
	return slices.Clone(s.records)
}

// Location returns the zone used for grouping.
func (s *Store) Location() *time.Location {
	return s.location
}

// SetNotes replaces the notes of id. Only the notes controller calls it.
func (s *Store) SetNotes(id, notes string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.records[i].Notes = notes
	return true
}

// Remove deletes id. Only the deletion controller calls it.
func (s *Store) Remove(id string) (plant.Record, bool) {
	i := s.index(id)
	if i < 0 {
		return plant.Record{}, false
	}
	rec := s.records[i]
	s.records = slices.Delete(s.records, i, i+1)
	return rec, true
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.records, func(r plant.Record) bool { return r.ID == id })
}
