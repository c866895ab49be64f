package http

import (
	"errors"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/pipeline-leak-watch/internal/diagnosis"
	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

var errNarrativeDisabled = errors.New("narrative diagnostics are not configured; set OPENAI_API_KEY")

// narrativeEnabled writes 503 and returns false when no narrator is wired.
func (s *Server) narrativeEnabled(w http.ResponseWriter) bool {
	if s.narrator == nil {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": errNarrativeDisabled.Error()})
		return false
	}
	return true
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	if !s.narrativeEnabled(w) {
		return
	}
	var p domain.PipelineEntity
	if err := decodeBody(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.narrator.Diagnose(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, d)
}

type rootCauseRequest struct {
	Pipeline *domain.PipelineEntity `json:"pipeline"`
}

func (s *Server) handleRootCause(w http.ResponseWriter, r *http.Request) {
	if !s.narrativeEnabled(w) {
		return
	}
	var req rootCauseRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Pipeline == nil {
		s.writeError(w, r, badRequest("pipeline is required"))
		return
	}
	rc, err := s.narrator.RootCause(r.Context(), *req.Pipeline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, rc)
}

func (s *Server) handleFollowUp(w http.ResponseWriter, r *http.Request) {
	if !s.narrativeEnabled(w) {
		return
	}
	var req diagnosis.FollowUpRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	answer, err := s.narrator.FollowUp(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
