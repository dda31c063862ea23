package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/drrahee-lab/Fuelflow/internal/core"
)

// fakeKV is an in-memory stand-in for the durable boundary.
type fakeKV struct {
	slots  map[string]string
	writes int
}

func newFakeKV() *fakeKV { return &fakeKV{slots: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.slots[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.slots[key] = value
	f.writes++
	return nil
}

func TestCreateAssignsIdentityAndPersists(t *testing.T) {
	kv := newFakeKV()
	store := New(kv)
	ctx := context.Background()

	created, err := store.Create(ctx, core.FuelRecord{
		Timestamp: core.ParseTimestamp("2025-03-01"),
		Odometer:  1000,
		Volume:    30,
		TotalCost: 45,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create must assign an id")
	}
	if created.StationName != core.DefaultStationName {
		t.Fatalf("blank station must default, got %q", created.StationName)
	}
	if kv.writes != 1 {
		t.Fatalf("create must write the records slot once, got %d writes", kv.writes)
	}

	second, _ := store.Create(ctx, core.FuelRecord{Odometer: 1100})
	if second.ID == created.ID {
		t.Fatal("ids must be unique")
	}
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	store := New(newFakeKV())
	ctx := context.Background()

	if _, err := store.Update(ctx, "missing", core.FuelRecord{}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUpdateKeepsIdentity(t *testing.T) {
	store := New(newFakeKV())
	ctx := context.Background()

	created, _ := store.Create(ctx, core.FuelRecord{Odometer: 1000, TotalCost: 40})
	updated, err := store.Update(ctx, created.ID, core.FuelRecord{Odometer: 1000, TotalCost: 42})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update must keep the id, got %q", updated.ID)
	}

	records := store.List()
	if len(records) != 1 || records[0].TotalCost != 42 {
		t.Fatalf("expected single updated record, got %+v", records)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	store := New(newFakeKV())
	ctx := context.Background()

	created, _ := store.Create(ctx, core.FuelRecord{Odometer: 1000})
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := store.List(); len(got) != 0 {
		t.Fatalf("expected empty collection, got %+v", got)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()

	first := New(kv)
	created, err := first.Create(ctx, core.FuelRecord{
		Timestamp: core.ParseTimestamp(`the "cheap" station, 03/2025`), // degraded raw value
		Odometer:  1000,
		Notes:     "winter diesel",
	})
	if err != nil {
		t.Fatalf("create with raw timestamp: %v", err)
	}
	if err := first.AddStation(ctx, "Shell"); err != nil {
		t.Fatalf("add station: %v", err)
	}

	second := New(kv)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	records := second.List()
	if len(records) != 1 || records[0].ID != created.ID {
		t.Fatalf("restored records mismatch: %+v", records)
	}
	if records[0].Timestamp.Raw != `the "cheap" station, 03/2025` {
		t.Fatalf("degraded timestamp must round-trip, got %+v", records[0].Timestamp)
	}
	if stations := second.Stations(); len(stations) != 1 || stations[0] != "Shell" {
		t.Fatalf("restored stations mismatch: %v", stations)
	}
}

func TestAddStationCaseSensitiveDedup(t *testing.T) {
	store := New(newFakeKV())
	ctx := context.Background()

	store.AddStation(ctx, "Shell")
	store.AddStation(ctx, "Shell")
	if got := store.Stations(); len(got) != 1 {
		t.Fatalf("duplicate add must be a no-op, got %v", got)
	}

	store.AddStation(ctx, "shell") // different case is a distinct entry
	store.AddStation(ctx, "Esso")
	got := store.Stations()
	if len(got) != 3 {
		t.Fatalf("expected 3 stations, got %v", got)
	}
	if got[0] != "Esso" || got[1] != "Shell" || got[2] != "shell" {
		t.Fatalf("directory must stay lexicographically sorted, got %v", got)
	}
}

func TestDeleteStation(t *testing.T) {
	store := New(newFakeKV())
	ctx := context.Background()

	store.AddStation(ctx, "Shell")
	if err := store.DeleteStation(ctx, "Esso"); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}
	if err := store.DeleteStation(ctx, "Shell"); err != nil {
		t.Fatalf("delete station: %v", err)
	}
	if got := store.Stations(); len(got) != 0 {
		t.Fatalf("expected empty directory, got %v", got)
	}
}
