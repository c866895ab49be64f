package domain

import "time"

// DefaultHistoryDays is the dashboard's trend window.
const DefaultHistoryDays = 30

// GenerateHistory returns days+1 daily points ending today, oldest first.
// Values jitter around the entity's current readings with a sine hash keyed
// by entity id, so the same pipeline always shows the same trend shape.
func GenerateHistory(p PipelineEntity, days int) []HistoryPoint {
	if days < 0 {
		days = 0
	}
	jitter := func(s int) float64 {
		return sineHash(float64(s + p.ID))
	}

	now := clock.Now().UTC()
	points := make([]HistoryPoint, 0, days+1)
	for i := days; i >= 0; i-- {
		ts := now.AddDate(0, 0, -i)
		leak := clamp01(p.LeakProb + (jitter(i)-0.5)*0.2)
		points = append(points, HistoryPoint{
			Timestamp:       ts,
			Date:            ts.Format(time.DateOnly),
			LeakProbPercent: roundTo(leak*100, 1),
			PressureBar:     roundTo(p.PressureBar+(jitter(i+100)-0.5)*10, 1),
			FlowM3h:         roundTo(p.FlowM3h+(jitter(i+200)-0.5)*200, 0),
		})
	}
	return points
}
