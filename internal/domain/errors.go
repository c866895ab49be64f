package domain

import "errors"

var (
	// ErrInvalidConfig reports a cluster table or reading that cannot be simulated.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPipelineNotFound reports an unknown pipeline id.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrInvalidScenario reports an unsupported what-if attribute or change.
	ErrInvalidScenario = errors.New("invalid scenario")
)
