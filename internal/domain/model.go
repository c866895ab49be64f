package domain

import "time"

// PipelineEntity is one simulated pipeline. Values are created once per
// generation run and never mutated; what-if results are separate values.
type PipelineEntity struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	PressureBar float64 `json:"pressure_bar"`
	FlowM3h     float64 `json:"flow_m3h"`
	LeakProb    float64 `json:"leakProb"`
}

// KPIStats summarizes a fleet against a risk threshold.
type KPIStats struct {
	Total  int `json:"total"`
	AtRisk int `json:"atRisk"`
	Normal int `json:"normal"`
}

// RegionalRisk aggregates the pipelines whose names start with a region's short name.
type RegionalRisk struct {
	Region        string `json:"region"`
	RiskScore     int    `json:"riskScore"` // mean leakProb scaled to 0–100
	PipelineCount int    `json:"pipelineCount"`
	CriticalCount int    `json:"criticalCount"`
}

// CascadeResult estimates the knock-on effect of one pipeline failing.
type CascadeResult struct {
	OriginID       int      `json:"originId"`
	AffectedIDs    []int    `json:"affectedPipelines"`
	CascadingCount int      `json:"cascadingFailures"`
	DowntimeHours  float64  `json:"estimatedDowntime"`
	CostUSD        float64  `json:"estimatedCost"`
	CriticalPath   []string `json:"criticalPath"`
}

// WhatIfResult is a hypothetical re-score under a changed reading.
type WhatIfResult struct {
	PipelineID     int       `json:"pipelineId"`
	Attribute      Attribute `json:"scenarioType"`
	ChangePercent  float64   `json:"changePercent"`
	NewValue       float64   `json:"newValue"`
	NewLeakProb    float64   `json:"newLeakProb"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	Recommendation string    `json:"recommendation"`
}

// AdvancedKPIs are the operational estimates shown on the analytics dashboard.
type AdvancedKPIs struct {
	MTTRHours         float64 `json:"mttr"`
	FailureRate       float64 `json:"failureRate"` // percent of fleet at risk
	CostImpactUSD     float64 `json:"costImpact"`
	TotalIncidents    int     `json:"totalIncidents"`
	PreventedFailures int     `json:"preventedFailures"`
}

// HistoryPoint is one day of a pipeline's synthetic trend.
type HistoryPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	Date            string    `json:"date"`
	LeakProbPercent float64   `json:"leakProb"`
	PressureBar     float64   `json:"pressure"`
	FlowM3h         float64   `json:"flow"`
}

// RiskAlert reports one at-risk pipeline in a published snapshot.
type RiskAlert struct {
	SnapshotID  string         `json:"snapshot_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Threshold   float64        `json:"threshold"`
	RiskLevel   RiskLevel      `json:"risk_level"`
	Pipeline    PipelineEntity `json:"pipeline"`
}

// RiskSnapshot is the fleet state evaluated at one point in time.
type RiskSnapshot struct {
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Threshold   float64        `json:"threshold"`
	KPIs        KPIStats       `json:"kpis"`
	Regions     []RegionalRisk `json:"regions"`
	Alerts      []RiskAlert    `json:"alerts"`
}
