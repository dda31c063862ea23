package core

import (
	"encoding/json"
	"errors"
	"time"
)

// DefaultStationName is used when a fill-up is recorded without a station.
const DefaultStationName = "Unknown Station"

var (
	ErrNegativeOdometer = errors.New("odometer cannot be negative")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
)

type (
	// Timestamp is a point in time that tolerates degraded values: legacy
	// records may carry a date with no time component, and a record whose
	// date never parsed keeps the raw string so it still round-trips the
	// store.
	Timestamp struct {
		Time time.Time
		Raw  string // non-empty only when the original value could not be parsed
	}

	// FuelRecord is one persisted fill-up event. The identity is assigned
	// at creation and never reused or reassigned.
	FuelRecord struct {
		ID           string    `json:"id"`
		Timestamp    Timestamp `json:"timestamp"`
		Odometer     float64   `json:"odometer"`
		PricePerUnit float64   `json:"pricePerUnit"`
		Volume       float64   `json:"volume"`
		TotalCost    float64   `json:"totalCost"`
		StationName  string    `json:"stationName"`
		FullTank     bool      `json:"fullTank"`
		Notes        string    `json:"notes,omitempty"`
	}

	// VehicleStats is derived from the full record collection on demand and
	// is never persisted.
	VehicleStats struct {
		TotalCost         float64 `json:"totalCost"`
		TotalDistance     float64 `json:"totalDistance"`
		AverageEfficiency float64 `json:"averageEfficiency"`
		LastOdometer      float64 `json:"lastOdometer"`
	}
)

const (
	layoutDateTime = "2006-01-02 15:04"
	layoutDate     = "2006-01-02"
)

// ParseTimestamp reads a stored timestamp. It accepts RFC3339, a date with
// minutes, or a bare date; anything else is kept verbatim as a raw value.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}
		}
	}
	return Timestamp{Raw: s}
}

func (ts Timestamp) String() string {
	if ts.Raw != "" {
		return ts.Raw
	}
	return ts.Time.Format(time.RFC3339)
}

// ShortLabel returns a compact display form for chart axes.
func (ts Timestamp) ShortLabel() string {
	if ts.Raw != "" {
		return ts.Raw
	}
	return ts.Time.Format("Jan 2")
}

// Before orders timestamps by their time value. Raw-only values carry a zero
// time and therefore sort before any parsed value.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Time.Before(other.Time)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("timestamp must be a JSON string")
	}
	*ts = ParseTimestamp(s)
	return nil
}

func (r FuelRecord) Validate() error {
	if r.Odometer < 0 {
		return ErrNegativeOdometer
	}
	if r.PricePerUnit < 0 || r.Volume < 0 || r.TotalCost < 0 {
		return ErrNegativeAmount
	}
	return nil
}
