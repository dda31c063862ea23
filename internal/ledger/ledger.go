// Package ledger owns the authoritative fill-up collection and the station
// directory, persisting each to its durable slot after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/drrahee-lab/Fuelflow/internal/core"
)

const (
	slotRecords  = "fuel_records"
	slotStations = "stations"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrStationNotFound = errors.New("station not found")
)

// KV is the durable boundary the ledger persists through. Each slot is
// written wholesale, synchronously, after the in-memory mutation.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Store struct {
	mu       sync.RWMutex
	kv       KV
	records  []core.FuelRecord
	stations []string
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Load restores both collections from their slots. Unwritten slots leave
// the collections empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, slotRecords)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.records); err != nil {
			return fmt.Errorf("parse records slot: %w", err)
		}
	}

	raw, ok, err = s.kv.Get(ctx, slotStations)
	if err != nil {
		return fmt.Errorf("load stations: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.stations); err != nil {
			return fmt.Errorf("parse stations slot: %w", err)
		}
	}

	slog.InfoContext(ctx, "Ledger restored",
		"records", len(s.records),
		"stations", len(s.stations))
	return nil
}

// List returns a copy of the current record collection.
func (s *Store) List() []core.FuelRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.FuelRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Create assigns a fresh identity, defaults the station name, and persists
// the grown collection.
func (s *Store) Create(ctx context.Context, fields core.FuelRecord) (core.FuelRecord, error) {
	if err := fields.Validate(); err != nil {
		return core.FuelRecord{}, fmt.Errorf("validate record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields.ID = uuid.NewString()
	if strings.TrimSpace(fields.StationName) == "" {
		fields.StationName = core.DefaultStationName
	}
	s.records = append(s.records, fields)

	if err := s.persistRecords(ctx); err != nil {
		s.records = s.records[:len(s.records)-1]
		return core.FuelRecord{}, err
	}

	slog.InfoContext(ctx, "Fuel record created",
		"id", fields.ID,
		"station", fields.StationName,
		"total_cost", fields.TotalCost,
		"volume", fields.Volume)
	return fields, nil
}

// Update replaces the fields of an existing record, keeping its identity.
func (s *Store) Update(ctx context.Context, id string, fields core.FuelRecord) (core.FuelRecord, error) {
	if err := fields.Validate(); err != nil {
		return core.FuelRecord{}, fmt.Errorf("validate record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.FuelRecord{}, ErrRecordNotFound
	}

	previous := s.records[idx]
	fields.ID = id
	if strings.TrimSpace(fields.StationName) == "" {
		fields.StationName = core.DefaultStationName
	}
	s.records[idx] = fields

	if err := s.persistRecords(ctx); err != nil {
		s.records[idx] = previous
		return core.FuelRecord{}, err
	}

	slog.InfoContext(ctx, "Fuel record updated", "id", id)
	return fields, nil
}

// Delete removes a record by identity.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrRecordNotFound
	}

	previous := s.records
	kept := make([]core.FuelRecord, 0, len(previous)-1)
	kept = append(kept, previous[:idx]...)
	kept = append(kept, previous[idx+1:]...)
	s.records = kept

	if err := s.persistRecords(ctx); err != nil {
		s.records = previous
		return err
	}

	slog.InfoContext(ctx, "Fuel record deleted", "id", id)
	return nil
}

// Stations returns a copy of the directory, always lexicographically
// sorted.
func (s *Store) Stations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.stations))
	copy(out, s.stations)
	return out
}

// AddStation inserts a name into the directory and re-sorts it. Names are
// case-sensitive; adding an existing name is a no-op.
func (s *Store) AddStation(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.stations {
		if existing == name {
			return nil
		}
	}

	s.stations = append(s.stations, name)
	sort.Strings(s.stations)

	if err := s.persistStations(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Station added", "name", name)
	return nil
}

// DeleteStation removes a name from the directory. Persisted records that
// reference the name by value are left untouched.
func (s *Store) DeleteStation(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.stations {
		if existing == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrStationNotFound
	}

	s.stations = append(s.stations[:idx], s.stations[idx+1:]...)

	if err := s.persistStations(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Station deleted", "name", name)
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistRecords(ctx context.Context) error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := s.kv.Set(ctx, slotRecords, string(data)); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

func (s *Store) persistStations(ctx context.Context) error {
	data, err := json.Marshal(s.stations)
	if err != nil {
		return fmt.Errorf("marshal stations: %w", err)
	}
	if err := s.kv.Set(ctx, slotStations, string(data)); err != nil {
		return fmt.Errorf("persist stations: %w", err)
	}
	return nil
}
