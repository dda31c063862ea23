package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drrahee-lab/Fuelflow/internal/core"
	"github.com/drrahee-lab/Fuelflow/internal/form"
	"github.com/drrahee-lab/Fuelflow/internal/ledger"
	"github.com/drrahee-lab/Fuelflow/internal/recognizer"
)

type draftResponse struct {
	Draft    form.Draft `json:"draft"`
	Pinned   bool       `json:"pinned"`
	Scanning bool       `json:"scanning"`
}

func (s *Server) draftResponse() draftResponse {
	return draftResponse{
		Draft:    s.editor.Draft(),
		Pinned:   s.editor.Pinned(),
		Scanning: s.editor.Scanning(),
	}
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

func (s *Server) handleDraftField(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var payload struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid field payload")
		return
	}

	// The full-tank flag is the one non-text field on the draft.
	if payload.Field == "fullTank" {
		s.editor.SetFullTank(payload.Value == "true")
		writeJSON(w, http.StatusOK, s.draftResponse())
		return
	}

	field, err := form.ParseField(payload.Field)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.editor.SetField(r.Context(), field, payload.Value); err != nil {
		slog.ErrorContext(r.Context(), "Failed to set draft field", "field", field, "error", err)
		writeError(w, http.StatusInternalServerError, "field update failed")
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

func (s *Server) handleDraftSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	saved, err := s.editor.Submit(r.Context(), s.ledger)
	if errors.Is(err, form.ErrIncompleteDraft) ||
		errors.Is(err, core.ErrNegativeOdometer) || errors.Is(err, core.ErrNegativeAmount) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if errors.Is(err, ledger.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "record being edited no longer exists")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to submit draft", "error", err)
		writeError(w, http.StatusInternalServerError, "submit failed")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDraftReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if _, err := s.editor.Reset(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Failed to reset draft", "error", err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

func (s *Server) handleDraftEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/draft/edit/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing record id")
		return
	}

	for _, record := range s.ledger.List() {
		if record.ID == id {
			s.editor.BeginEdit(record)
			writeJSON(w, http.StatusOK, s.draftResponse())
			return
		}
	}
	writeError(w, http.StatusNotFound, "record not found")
}

func (s *Server) handleDraftPin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pin payload")
		return
	}
	if err := s.editor.SetPinned(r.Context(), payload.Enabled); err != nil {
		slog.ErrorContext(r.Context(), "Failed to toggle pinned price", "error", err)
		writeError(w, http.StatusInternalServerError, "pin toggle failed")
		return
	}
	writeJSON(w, http.StatusOK, s.draftResponse())
}

// handleScan forwards a receipt image to the recognition collaborator and
// merges the answer into the draft that was current when the scan began.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.recognizer == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt recognition not configured")
		return
	}

	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}
	if len(image) == 0 {
		writeError(w, http.StatusBadRequest, "missing receipt image")
		return
	}

	generation, err := s.editor.BeginScan()
	if errors.Is(err, form.ErrScanBusy) {
		writeError(w, http.StatusConflict, "a scan is already in flight")
		return
	}
	defer s.editor.EndScan()

	guess, err := s.recognizer.Recognize(r.Context(), image)
	if errors.Is(err, recognizer.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, "receipt recognition not configured")
		return
	}
	if err != nil {
		// Advisory only: the user falls back to manual entry and the
		// draft keeps its already-known fields.
		slog.WarnContext(r.Context(), "Receipt recognition failed", "error", err)
		writeError(w, http.StatusBadGateway, "recognition failed, enter the fields manually")
		return
	}

	draft, applied := s.editor.ApplyScan(generation, guess)
	writeJSON(w, http.StatusOK, map[string]any{
		"applied": applied,
		"draft":   draft,
	})
}
