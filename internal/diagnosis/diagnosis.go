// Package diagnosis turns free-text completions about one pipeline into the
// structured diagnose, root-cause and follow-up responses the dashboard shows.
package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
	"github.com/couchcryptid/pipeline-leak-watch/internal/observability"
)

var (
	// ErrInvalidRequest marks a request that failed validation.
	ErrInvalidRequest = errors.New("invalid narrative request")
	// ErrUpstream marks a failure of the completion service.
	ErrUpstream = errors.New("completion service failed")
)

// CompletionRequest is one system/user prompt pair.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
}

// Completer produces free text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Diagnosis is a parsed diagnostic narrative.
type Diagnosis struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// RootCause is a parsed root-cause analysis with cost estimates.
type RootCause struct {
	Cause       string  `json:"cause"`
	Confidence  int     `json:"confidence"`
	Factors     int     `json:"factors"`
	RepairCost  float64 `json:"repairCost"`
	FailureCost float64 `json:"failureCost"`
}

// FollowUpRequest asks a free-form question about one pipeline.
type FollowUpRequest struct {
	Pipeline          domain.PipelineEntity `json:"pipeline"`
	Question          string                `json:"question"`
	PreviousDiagnosis *Diagnosis            `json:"previousDiagnosis,omitempty"`
}

// Service generates narratives through a Completer.
type Service struct {
	completer Completer
	random    domain.RandomSource
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option customizes a Service.
type Option func(*Service)

// WithRandomSource replaces the source used for root-cause fallbacks and cost
// estimates.
func WithRandomSource(src domain.RandomSource) Option {
	return func(s *Service) { s.random = src }
}

// NewService creates a Service backed by completer.
func NewService(completer Completer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		random:    globalRand{},
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Diagnose asks for a summary and numbered recommendations.
func (s *Service) Diagnose(ctx context.Context, p domain.PipelineEntity) (Diagnosis, error) {
	if err := validateSubject(p, true); err != nil {
		return Diagnosis{}, err
	}
	text, err := s.complete(ctx, "diagnose", diagnosePrompt(p))
	if err != nil {
		return Diagnosis{}, err
	}
	return ParseDiagnosis(text), nil
}

// RootCause asks for a CAUSE/CONFIDENCE/FACTORS analysis and attaches cost
// estimates.
func (s *Service) RootCause(ctx context.Context, p domain.PipelineEntity) (RootCause, error) {
	if err := validateSubject(p, false); err != nil {
		return RootCause{}, err
	}
	text, err := s.complete(ctx, "root_cause", rootCausePrompt(p))
	if err != nil {
		return RootCause{}, err
	}
	return ParseRootCause(text, p.LeakProb, s.random), nil
}

// FollowUp answers a question in the context of an optional earlier diagnosis.
func (s *Service) FollowUp(ctx context.Context, req FollowUpRequest) (string, error) {
	if err := validateSubject(req.Pipeline, false); err != nil {
		return "", err
	}
	if len([]rune(strings.TrimSpace(req.Question))) < minQuestionLength {
		return "", fmt.Errorf("%w: question must be at least %d characters", ErrInvalidRequest, minQuestionLength)
	}
	text, err := s.complete(ctx, "follow_up", followUpPrompt(req))
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(text)
	if answer == "" {
		answer = fallbackAnswer
	}
	return answer, nil
}

func (s *Service) complete(ctx context.Context, kind string, req CompletionRequest) (string, error) {
	start := time.Now()
	text, err := s.completer.Complete(ctx, req)
	s.metrics.NarrativeAPIDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.NarrativeRequests.WithLabelValues(kind, "error").Inc()
		s.logger.Error("narrative completion failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrUpstream, kind, err)
	}
	s.metrics.NarrativeRequests.WithLabelValues(kind, "success").Inc()
	return text, nil
}

func validateSubject(p domain.PipelineEntity, boundedLeakProb bool) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: pipeline name is required", ErrInvalidRequest)
	}
	if boundedLeakProb && (p.LeakProb < 0 || p.LeakProb > 1) {
		return fmt.Errorf("%w: leakProb must be between 0 and 1", ErrInvalidRequest)
	}
	return nil
}

// globalRand draws from the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
