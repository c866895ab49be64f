package domain

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// RandomSource yields values in [0, 1). Sequence implements it; tests can
// supply fixed values.
type RandomSource interface {
	Float64() float64
}

// Sequence is a deterministic pseudo-random stream. It is not safe for
// concurrent use; create one per generation run.
type Sequence struct {
	state int64
}

// NewSequence seeds a stream. The seed is reduced into [0, 233280) so that
// every seed, including negative ones, produces values in [0, 1).
func NewSequence(seed int64) *Sequence {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return &Sequence{state: s}
}

// Next advances the stream and returns a value in [0, 1).
func (s *Sequence) Next() float64 {
	s.state = (s.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(s.state) / lcgModulus
}

// Range returns a value in [lo, hi).
func (s *Sequence) Range(lo, hi float64) float64 {
	return lo + s.Next()*(hi-lo)
}

// Float64 is Next under the RandomSource name.
func (s *Sequence) Float64() float64 {
	return s.Next()
}
