// Package form holds the transient fill-up draft and the solver that keeps
// its price, volume, and total-cost fields consistent while the user types.
// Numeric fields stay raw text until submit so partial input never errors.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/drrahee-lab/Fuelflow/internal/core"
)

// ErrIncompleteDraft marks a submit attempt with missing or non-numeric
// required fields. The draft is left untouched.
var ErrIncompleteDraft = errors.New("draft is missing required numeric fields")

// Draft is the single in-progress record. EditingID is empty for a new
// record and holds the record's identity during an in-place edit.
type Draft struct {
	EditingID    string `json:"editingId,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Odometer     string `json:"odometer"`
	PricePerUnit string `json:"pricePerUnit"`
	Volume       string `json:"volume"`
	TotalCost    string `json:"totalCost"`
	StationName  string `json:"stationName"`
	FullTank     bool   `json:"fullTank"`
	Notes        string `json:"notes"`
}

// Field names one editable draft field.
type Field string

const (
	FieldDate         Field = "date"
	FieldTime         Field = "time"
	FieldOdometer     Field = "odometer"
	FieldPricePerUnit Field = "pricePerUnit"
	FieldVolume       Field = "volume"
	FieldTotalCost    Field = "totalCost"
	FieldStationName  Field = "stationName"
	FieldNotes        Field = "notes"
)

// ParseField validates a field name coming from the outside.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldDate, FieldTime, FieldOdometer, FieldPricePerUnit,
		FieldVolume, FieldTotalCost, FieldStationName, FieldNotes:
		return Field(s), nil
	}
	return "", fmt.Errorf("unknown draft field %q", s)
}

// Solve applies the consistency relation after an edit to one field, given
// the current values of the others. The edited field itself is never
// overwritten, and the unit price is never derived. A counterpart that
// fails to parse blocks the recomputation.
func Solve(d Draft, edited Field) Draft {
	price, priceOK := parseNumber(d.PricePerUnit)
	volume, volumeOK := parseNumber(d.Volume)
	cost, costOK := parseNumber(d.TotalCost)

	switch edited {
	case FieldPricePerUnit, FieldVolume:
		if priceOK && volumeOK {
			d.TotalCost = formatAmount(volume*price, 2)
		}
	case FieldTotalCost:
		if costOK && priceOK && price != 0 {
			d.Volume = formatAmount(cost/price, 3)
		}
	}
	return d
}

// Complete reports whether every required numeric field parses.
func (d Draft) Complete() bool {
	for _, raw := range []string{d.Odometer, d.TotalCost, d.Volume, d.PricePerUnit} {
		if _, ok := parseNumber(raw); !ok {
			return false
		}
	}
	return true
}

// Record converts a complete draft into a validated FuelRecord. The
// timestamp combines the date and time components; when the combination
// does not parse, the raw date string is kept as a degraded value that
// still round-trips the store.
func (d Draft) Record() (core.FuelRecord, error) {
	if !d.Complete() {
		return core.FuelRecord{}, ErrIncompleteDraft
	}

	odometer, _ := parseNumber(d.Odometer)
	price, _ := parseNumber(d.PricePerUnit)
	volume, _ := parseNumber(d.Volume)
	cost, _ := parseNumber(d.TotalCost)

	return core.FuelRecord{
		ID:           d.EditingID,
		Timestamp:    combineTimestamp(d.Date, d.Time),
		Odometer:     odometer,
		PricePerUnit: price,
		Volume:       volume,
		TotalCost:    cost,
		StationName:  strings.TrimSpace(d.StationName),
		FullTank:     d.FullTank,
		Notes:        strings.TrimSpace(d.Notes),
	}, nil
}

// FromRecord stages an existing record for in-place editing.
func FromRecord(r core.FuelRecord) Draft {
	d := Draft{
		EditingID:    r.ID,
		Odometer:     trimFloat(r.Odometer),
		PricePerUnit: trimFloat(r.PricePerUnit),
		Volume:       trimFloat(r.Volume),
		TotalCost:    trimFloat(r.TotalCost),
		StationName:  r.StationName,
		FullTank:     r.FullTank,
		Notes:        r.Notes,
	}
	if r.Timestamp.Raw != "" {
		d.Date = r.Timestamp.Raw
	} else {
		d.Date = r.Timestamp.Time.Format("2006-01-02")
		if hhmm := r.Timestamp.Time.Format("15:04"); hhmm != "00:00" {
			d.Time = hhmm
		}
	}
	return d
}

func combineTimestamp(date, clock string) core.Timestamp {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	combined := date
	if clock != "" {
		combined = date + " " + clock
	}
	ts := core.ParseTimestamp(combined)
	if ts.Raw == "" {
		return ts
	}
	// The combination never parsed: keep the raw date component.
	return core.Timestamp{Raw: date}
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatAmount(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// trimFloat renders a stored number the way a user would have typed it,
// without a forced decimal tail.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
