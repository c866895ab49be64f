// Package domain models a simulated oil-pipeline fleet and its leak-risk scoring.
//
// # Fleet Generation
//
// A fleet is generated from one integer seed and an ordered table of named
// geographic clusters. Every random value comes from a single [Sequence], a
// multiplicative-congruential generator:
//
//	state = (state*9301 + 49297) mod 233280
//	next  = state / 233280
//
// The constants are fixed. Fleets generated by other implementations that use
// the same recurrence and draw order are identical field for field, which is
// what the golden-value tests rely on.
//
// Draw order per pipeline (clusters in table order, pipelines in index order):
//
//	angle    = next() * 2π
//	distance = next() * clusterRadius
//	pressure = range(30, 70)    bar
//	flow     = range(600, 1400) m³/h
//	noise    = range(-0.05, 0.05)
//
// Positions are sampled uniformly by radius, not by area, so pipelines bunch
// towards the cluster center. Lat/lon offsets are planar degrees.
//
// # Leak Probability
//
// The score is an explainable heuristic, not a physical leak model:
//
//	abnormality = |pressure/flow - 0.05| / 0.05
//	leakProb    = clamp(0.10 + abnormality*0.3 + noise, 0, 1)
//
// [ScoreWithNoise] is used during generation and consumes exactly one draw.
// [ScorePure] drops the noise term and is used for what-if recomputation, so
// what-if results never disturb the fleet's stream.
//
// # Rounding
//
// Stored values are rounded half-up: lat/lon to 4 decimals, pressure and flow
// to 1 decimal, leak probability to 3 decimals.
//
// # Risk Levels
//
// What-if results are classified on a four-level scale:
//
//	Low < 0.20 | Medium < 0.35 | High < 0.50 | Critical ≥ 0.50
//
// # Derived Analytics
//
// KPIs, regional risk, cascade simulation, advanced KPIs and history are pure
// functions over a fleet slice. None of them mutate entities.
package domain
