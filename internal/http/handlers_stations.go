package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drrahee-lab/Fuelflow/internal/form"
	"github.com/drrahee-lab/Fuelflow/internal/gesture"
	"github.com/drrahee-lab/Fuelflow/internal/ledger"
)

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.Stations())

	case http.MethodPost:
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid station payload")
			return
		}
		if err := s.ledger.AddStation(r.Context(), payload.Name); err != nil {
			slog.ErrorContext(r.Context(), "Failed to add station", "error", err)
			writeError(w, http.StatusInternalServerError, "add station failed")
			return
		}
		writeJSON(w, http.StatusOK, s.ledger.Stations())

	case http.MethodDelete:
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeError(w, http.StatusBadRequest, "missing station name")
			return
		}
		if err := s.deleteStation(r, name); err != nil {
			if errors.Is(err, ledger.ErrStationNotFound) {
				writeError(w, http.StatusNotFound, "station not found")
				return
			}
			slog.ErrorContext(r.Context(), "Failed to delete station", "name", name, "error", err)
			writeError(w, http.StatusInternalServerError, "delete station failed")
			return
		}
		writeJSON(w, http.StatusOK, s.ledger.Stations())

	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

// deleteStation removes a directory entry, clears a matching in-progress
// draft field, and drops the row's interaction state.
func (s *Server) deleteStation(r *http.Request, name string) error {
	if err := s.ledger.DeleteStation(r.Context(), name); err != nil {
		return err
	}
	s.editor.ClearStationIf(name)

	s.rowMu.Lock()
	delete(s.rows, name)
	s.rowMu.Unlock()
	return nil
}

type gestureRequest struct {
	Station string  `json:"station"`
	Event   string  `json:"event"`
	X       float64 `json:"x"`
}

type gestureResponse struct {
	Phase  string  `json:"phase"`
	Offset float64 `json:"offset"`
	Effect string  `json:"effect"`
}

// handleStationGesture drives one station row's drag/tap machine. A
// terminal select assigns the station to the draft; a terminal delete
// removes the directory entry.
func (s *Server) handleStationGesture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid gesture payload")
		return
	}

	var event gesture.Event
	switch req.Event {
	case "pointer-down":
		event = gesture.PointerDown{X: req.X}
	case "pointer-move":
		event = gesture.PointerMove{X: req.X}
	case "pointer-up":
		event = gesture.PointerUp{}
	case "delete-pressed":
		event = gesture.DeletePressed{}
	default:
		writeError(w, http.StatusBadRequest, "unknown gesture event")
		return
	}

	if !s.stationExists(req.Station) {
		writeError(w, http.StatusNotFound, "station not found")
		return
	}

	row := s.rowFor(req.Station)
	effect := row.Handle(event)

	resp := gestureResponse{
		Phase:  row.State().Phase.String(),
		Offset: row.Offset(),
		Effect: "none",
	}

	switch effect {
	case gesture.EffectSelect:
		resp.Effect = "select"
		if _, err := s.editor.SetField(r.Context(), form.FieldStationName, req.Station); err != nil {
			slog.ErrorContext(r.Context(), "Failed to assign selected station", "error", err)
			writeError(w, http.StatusInternalServerError, "station select failed")
			return
		}
	case gesture.EffectDelete:
		resp.Effect = "delete"
		if err := s.deleteStation(r, req.Station); err != nil {
			slog.ErrorContext(r.Context(), "Failed to delete station via gesture", "error", err)
			writeError(w, http.StatusInternalServerError, "station delete failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) stationExists(name string) bool {
	for _, existing := range s.ledger.Stations() {
		if existing == name {
			return true
		}
	}
	return false
}

func (s *Server) rowFor(name string) *gesture.Row {
	s.rowMu.Lock()
	defer s.rowMu.Unlock()

	row, ok := s.rows[name]
	if !ok {
		row = gesture.NewRow(name, nil, nil)
		s.rows[name] = row
	}
	return row
}
