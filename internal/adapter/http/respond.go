package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/pipeline-leak-watch/internal/diagnosis"
	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed path, query, or body input.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// statusFor maps domain and narrative errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidScenario),
		errors.Is(err, diagnosis.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPipelineNotFound):
		return http.StatusNotFound
	case errors.Is(err, diagnosis.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid pipeline id %q", raw)
	}
	return id, nil
}

// queryThreshold reads ?threshold=, falling back to def when absent.
func queryThreshold(r *http.Request, def float64) (float64, error) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
		return 0, badRequest("threshold must be a number between 0 and 1")
	}
	return v, nil
}

func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, badRequest("%s must be an integer between %d and %d", name, lo, hi)
	}
	return v, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, badRequest("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, badRequest("%s must be a number", name)
	}
	return v, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}
