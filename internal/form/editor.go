package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/drrahee-lab/Fuelflow/internal/core"
	"github.com/drrahee-lab/Fuelflow/internal/recognizer"
)

const (
	slotPinnedEnabled = "pinned_price_enabled"
	slotPinnedValue   = "pinned_price_value"
)

// ErrScanBusy rejects a receipt scan while another one is in flight.
var ErrScanBusy = errors.New("a receipt scan is already in flight")

// KV is the durable boundary holding the pinned-price slots.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// RecordWriter receives the validated record on submit.
type RecordWriter interface {
	Create(ctx context.Context, fields core.FuelRecord) (core.FuelRecord, error)
	Update(ctx context.Context, id string, fields core.FuelRecord) (core.FuelRecord, error)
}

// Editor owns the single active draft and its lifecycle: blank on entry,
// populated for edits, discarded on cancel or successful submit. The
// generation counter identifies which draft issued an asynchronous scan so
// a late response never lands in a newer draft.
type Editor struct {
	mu         sync.Mutex
	kv         KV
	draft      Draft
	pinned     bool
	generation uint64
	scanning   bool
}

func NewEditor(kv KV) *Editor {
	return &Editor{kv: kv}
}

// Load restores the pinned-price mode and prepares a blank draft.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, ok, err := e.kv.Get(ctx, slotPinnedEnabled)
	if err != nil {
		return fmt.Errorf("load pinned flag: %w", err)
	}
	e.pinned = ok && raw == "true"
	return e.resetLocked(ctx)
}

// Draft returns the current draft snapshot.
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Pinned reports whether pinned-price mode is active.
func (e *Editor) Pinned() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pinned
}

// Generation identifies the current draft instance.
func (e *Editor) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// SetField assigns one raw text field and runs the solver. Edits to the
// unit price are mirrored into the durable pinned slot while pinned mode
// is active.
func (e *Editor) SetField(ctx context.Context, field Field, value string) (Draft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch field {
	case FieldDate:
		e.draft.Date = value
	case FieldTime:
		e.draft.Time = value
	case FieldOdometer:
		e.draft.Odometer = value
	case FieldPricePerUnit:
		e.draft.PricePerUnit = value
	case FieldVolume:
		e.draft.Volume = value
	case FieldTotalCost:
		e.draft.TotalCost = value
	case FieldStationName:
		e.draft.StationName = value
	case FieldNotes:
		e.draft.Notes = value
	default:
		return e.draft, fmt.Errorf("unknown draft field %q", field)
	}

	e.draft = Solve(e.draft, field)

	if field == FieldPricePerUnit && e.pinned {
		if err := e.kv.Set(ctx, slotPinnedValue, value); err != nil {
			return e.draft, fmt.Errorf("mirror pinned price: %w", err)
		}
	}
	return e.draft, nil
}

// SetFullTank toggles the full-tank flag on the draft.
func (e *Editor) SetFullTank(v bool) Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.FullTank = v
	return e.draft
}

// SetPinned toggles pinned-price mode. Enabling snapshots the draft's
// current price into the durable slot; disabling keeps the stored value.
func (e *Editor) SetPinned(ctx context.Context, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	flag := "false"
	if enabled {
		flag = "true"
	}
	if err := e.kv.Set(ctx, slotPinnedEnabled, flag); err != nil {
		return fmt.Errorf("persist pinned flag: %w", err)
	}
	if enabled {
		if err := e.kv.Set(ctx, slotPinnedValue, e.draft.PricePerUnit); err != nil {
			return fmt.Errorf("snapshot pinned price: %w", err)
		}
	}
	e.pinned = enabled
	return nil
}

// Reset discards the draft and starts a blank one, pre-filling the price
// from the pinned slot when pinned mode is active.
func (e *Editor) Reset(ctx context.Context) (Draft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.resetLocked(ctx); err != nil {
		return Draft{}, err
	}
	return e.draft, nil
}

// BeginEdit populates the draft from an existing record for in-place
// editing.
func (e *Editor) BeginEdit(r core.FuelRecord) Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.draft = FromRecord(r)
	return e.draft
}

// ClearStationIf blanks the draft's station field when it references a
// directory entry that was just deleted.
func (e *Editor) ClearStationIf(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft.StationName == name {
		e.draft.StationName = ""
	}
}

// Submit validates the draft, hands the record to the writer (create or
// in-place update), and resets to a blank draft on success.
func (e *Editor) Submit(ctx context.Context, writer RecordWriter) (core.FuelRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.draft.Record()
	if err != nil {
		return core.FuelRecord{}, err
	}

	var saved core.FuelRecord
	if record.ID == "" {
		saved, err = writer.Create(ctx, record)
	} else {
		saved, err = writer.Update(ctx, record.ID, record)
	}
	if err != nil {
		return core.FuelRecord{}, fmt.Errorf("submit draft: %w", err)
	}

	if err := e.resetLocked(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// BeginScan marks a receipt scan in flight and returns the draft
// generation it belongs to. Only one scan may run at a time.
func (e *Editor) BeginScan() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scanning {
		return 0, ErrScanBusy
	}
	e.scanning = true
	return e.generation, nil
}

// EndScan releases the scan affordance.
func (e *Editor) EndScan() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scanning = false
}

// Scanning reports whether a scan is in flight.
func (e *Editor) Scanning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scanning
}

// ApplyScan merges a recognition guess into the draft, field by field,
// touching only what the collaborator determined. A response for a draft
// that is no longer current is discarded.
func (e *Editor) ApplyScan(generation uint64, guess recognizer.Guess) (Draft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation {
		slog.Warn("Discarding stale scan result",
			"scan_generation", generation,
			"draft_generation", e.generation)
		return e.draft, false
	}

	if guess.TotalCost != nil {
		e.draft.TotalCost = formatAmount(*guess.TotalCost, 2)
	}
	if guess.Volume != nil {
		e.draft.Volume = formatAmount(*guess.Volume, 3)
	}
	if guess.PricePerUnit != nil {
		e.draft.PricePerUnit = trimFloat(*guess.PricePerUnit)
	}
	if guess.StationName != nil {
		e.draft.StationName = *guess.StationName
	}
	if guess.Date != nil {
		if ts := core.ParseTimestamp(*guess.Date); ts.Raw == "" {
			e.draft.Date = ts.Time.Format("2006-01-02")
		}
	}
	return e.draft, true
}

func (e *Editor) resetLocked(ctx context.Context) error {
	e.generation++
	e.draft = Draft{}

	if e.pinned {
		value, ok, err := e.kv.Get(ctx, slotPinnedValue)
		if err != nil {
			return fmt.Errorf("load pinned price: %w", err)
		}
		if ok {
			e.draft.PricePerUnit = value
		}
	}
	return nil
}
