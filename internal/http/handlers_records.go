package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drrahee-lab/Fuelflow/internal/core"
	"github.com/drrahee-lab/Fuelflow/internal/ledger"
)

// recordPayload is the wire form of a record's editable fields.
type recordPayload struct {
	Timestamp    string  `json:"timestamp"`
	Odometer     float64 `json:"odometer"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Volume       float64 `json:"volume"`
	TotalCost    float64 `json:"totalCost"`
	StationName  string  `json:"stationName"`
	FullTank     bool    `json:"fullTank"`
	Notes        string  `json:"notes"`
}

func (p recordPayload) fields() core.FuelRecord {
	return core.FuelRecord{
		Timestamp:    core.ParseTimestamp(p.Timestamp),
		Odometer:     p.Odometer,
		PricePerUnit: p.PricePerUnit,
		Volume:       p.Volume,
		TotalCost:    p.TotalCost,
		StationName:  p.StationName,
		FullTank:     p.FullTank,
		Notes:        p.Notes,
	}
}

// isValidationError distinguishes rejected input from a broken store.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrNegativeOdometer) || errors.Is(err, core.ErrNegativeAmount)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		mode := core.SortDateDesc
		if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
			parsed, err := core.ParseSortMode(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			mode = parsed
		}
		writeJSON(w, http.StatusOK, core.Order(s.ledger.List(), mode))

	case http.MethodPost:
		var payload recordPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid record payload")
			return
		}
		created, err := s.ledger.Create(r.Context(), payload.fields())
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to create record", "error", err)
			writeError(w, http.StatusInternalServerError, "save failed")
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing record id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var payload recordPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid record payload")
			return
		}
		updated, err := s.ledger.Update(r.Context(), id, payload.fields())
		if errors.Is(err, ledger.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to update record", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "save failed")
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		err := s.ledger.Delete(r.Context(), id)
		if errors.Is(err, ledger.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to delete record", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "delete failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}
