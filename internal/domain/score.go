package domain

import (
	"fmt"
	"math"
)

const (
	expectedRatio   = 0.05 // ~50 bar at ~1000 m³/h
	baseRisk        = 0.10
	abnormalityGain = 0.3
	noiseAmplitude  = 0.05
)

// Abnormality is the relative deviation of pressure/flow from the expected ratio.
func Abnormality(pressureBar, flowM3h float64) (float64, error) {
	if flowM3h <= 0 {
		return 0, fmt.Errorf("%w: flow must be positive, got %g", ErrInvalidConfig, flowM3h)
	}
	return math.Abs(pressureBar/flowM3h-expectedRatio) / expectedRatio, nil
}

// ScorePure computes leak probability without noise. It consumes no draws.
func ScorePure(pressureBar, flowM3h float64) (float64, error) {
	abnormality, err := Abnormality(pressureBar, flowM3h)
	if err != nil {
		return 0, err
	}
	return clamp01(baseRisk + abnormality*abnormalityGain), nil
}

// ScoreWithNoise computes leak probability with a noise term drawn from seq.
// Exactly one value is drawn when the reading is valid; none otherwise.
func ScoreWithNoise(pressureBar, flowM3h float64, seq *Sequence) (float64, error) {
	abnormality, err := Abnormality(pressureBar, flowM3h)
	if err != nil {
		return 0, err
	}
	noise := seq.Range(-noiseAmplitude, noiseAmplitude)
	return clamp01(baseRisk + abnormality*abnormalityGain + noise), nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// roundTo rounds half-up to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(v*scale+0.5) / scale
}
