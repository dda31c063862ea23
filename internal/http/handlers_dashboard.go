package http

import (
	"net/http"

	"github.com/drrahee-lab/Fuelflow/internal/core"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, core.ComputeStats(s.ledger.List()))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	points := core.ChartSeries(s.ledger.List())
	if points == nil {
		points = []core.ChartPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}
