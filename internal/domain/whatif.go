package domain

import (
	"fmt"
	"math"
)

// Attribute is the reading changed in a what-if scenario.
type Attribute string

const (
	AttributePressure Attribute = "pressure"
	AttributeFlow     Attribute = "flow"
)

// ParseAttribute validates a scenario attribute name.
func ParseAttribute(s string) (Attribute, error) {
	switch Attribute(s) {
	case AttributePressure, AttributeFlow:
		return Attribute(s), nil
	default:
		return "", fmt.Errorf("%w: unknown attribute %q", ErrInvalidScenario, s)
	}
}

// RiskLevel is the four-level what-if classification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// RiskLevelFor maps a leak probability to a level and recommended action:
// Low < 0.2, Medium < 0.35, High < 0.5, Critical ≥ 0.5.
func RiskLevelFor(leakProb float64) (RiskLevel, string) {
	switch {
	case leakProb < 0.2:
		return RiskLow, "Conditions remain within safe operational parameters."
	case leakProb < 0.35:
		return RiskMedium, "Monitor closely and schedule preventive maintenance."
	case leakProb < 0.5:
		return RiskHigh, "Schedule urgent maintenance within 24 hours."
	default:
		return RiskCritical, "Immediate intervention required. Consider shutting down pipeline for inspection."
	}
}

// WhatIf re-scores p with one reading changed by percent (20 means +20%).
// The result uses ScorePure, so no noise is applied and p is left untouched.
func WhatIf(p PipelineEntity, attr Attribute, percent float64) (WhatIfResult, error) {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return WhatIfResult{}, fmt.Errorf("%w: change must be a finite percent, got %g", ErrInvalidScenario, percent)
	}
	if percent < -100 {
		return WhatIfResult{}, fmt.Errorf("%w: change %g%% drives the reading negative", ErrInvalidScenario, percent)
	}

	pressure, flow := p.PressureBar, p.FlowM3h
	var newValue float64
	switch attr {
	case AttributePressure:
		newValue = pressure * (1 + percent/100)
		pressure = newValue
	case AttributeFlow:
		newValue = flow * (1 + percent/100)
		flow = newValue
	default:
		return WhatIfResult{}, fmt.Errorf("%w: unknown attribute %q", ErrInvalidScenario, attr)
	}

	leakProb, err := ScorePure(pressure, flow)
	if err != nil {
		return WhatIfResult{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	level, action := RiskLevelFor(leakProb)
	return WhatIfResult{
		PipelineID:     p.ID,
		Attribute:      attr,
		ChangePercent:  percent,
		NewValue:       newValue,
		NewLeakProb:    leakProb,
		RiskLevel:      level,
		Recommendation: action,
	}, nil
}
