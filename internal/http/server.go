// Package http exposes the ledger, the draft editor, and the station
// directory over a local JSON API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/drrahee-lab/Fuelflow/internal/form"
	"github.com/drrahee-lab/Fuelflow/internal/gesture"
	"github.com/drrahee-lab/Fuelflow/internal/ledger"
	"github.com/drrahee-lab/Fuelflow/internal/middleware/trace"
	"github.com/drrahee-lab/Fuelflow/internal/recognizer"
)

// maxImageBytes bounds an uploaded receipt image.
const maxImageBytes = 10 << 20

// Recognizer is the external receipt-recognition collaborator.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (recognizer.Guess, error)
}

type Server struct {
	http.Server

	ledger     *ledger.Store
	editor     *form.Editor
	recognizer Recognizer

	rowMu sync.Mutex
	rows  map[string]*gesture.Row // station directory interaction state
}

func NewServer(addr string, store *ledger.Store, editor *form.Editor, recog Recognizer) *Server {
	s := &Server{
		ledger:     store,
		editor:     editor,
		recognizer: recog,
		rows:       make(map[string]*gesture.Row),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/records", s.handleRecords)
	mux.HandleFunc("/api/records/", s.handleRecordByID)
	mux.HandleFunc("/api/stations", s.handleStations)
	mux.HandleFunc("/api/stations/gesture", s.handleStationGesture)
	mux.HandleFunc("/api/draft", s.handleDraft)
	mux.HandleFunc("/api/draft/field", s.handleDraftField)
	mux.HandleFunc("/api/draft/submit", s.handleDraftSubmit)
	mux.HandleFunc("/api/draft/reset", s.handleDraftReset)
	mux.HandleFunc("/api/draft/edit/", s.handleDraftEdit)
	mux.HandleFunc("/api/draft/pin", s.handleDraftPin)
	mux.HandleFunc("/api/scan", s.handleScan)

	s.Addr = addr
	s.Handler = trace.Middleware(mux)
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
