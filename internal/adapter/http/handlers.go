package http

import (
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

const maxHistoryDays = 365

func (s *Server) handleFleet(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.fleet.Fleet())
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.fleet.Pipeline(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	days, err := queryInt(r, "days", domain.DefaultHistoryDays, 0, maxHistoryDays)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	points, err := s.fleet.History(id, days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, points)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.fleet.Simulate(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	change, err := queryFloat(r, "change")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.fleet.WhatIf(id, r.URL.Query().Get("attribute"), change)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryThreshold(r, s.fleet.Threshold())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.fleet.KPIs(threshold))
}

func (s *Server) handleAdvancedKPIs(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryThreshold(r, s.fleet.Threshold())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.fleet.AdvancedKPIs(threshold))
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.fleet.Regions())
}
